// Package file contains the banner upload endpoint
package file

import (
	"gomeet/meetup-api/internal"
	"gomeet/meetup-api/internal/model"
	"gomeet/meetup-api/validators"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

func FileUpload(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	status, f, err := validators.BannerValidator(fh)
	if err != nil {
		if status == http.StatusInternalServerError {
			zap.L().Error("Failed to validate banner", zap.Error(err), zap.String("requestID", requestID))

			c.JSON(status, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})
			return
		}

		c.JSON(status, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	// Users may upload banners with the same name, so store the object
	// under a random key and keep the original name in the row
	key, err := gonanoid.New(16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate file key", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	key += path.Ext(fh.Filename)

	err = d.Storage.Save(c.Request.Context(), key, f, fh.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store banner", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	file := model.File{
		UserID: userID,
		Name:   fh.Filename,
		Path:   key,
	}

	if err := d.DB.Create(&file).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create file record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Reload so the derived URL is filled in
	if err := d.DB.First(&file, file.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to reload file record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, file)
}
