package meetup

import (
	"gomeet/meetup-api/internal"
	"gomeet/meetup-api/internal/model"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MeetupUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var meetup model.Meetup
	err := d.DB.First(&meetup, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Meetup not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch meetup", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Ownership comes before payload validation. A non-owner gets the
	// ownership error even with a malformed body
	if meetup.UserID != userID {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "You must be the meetup organizer to update it",
			"requestID": requestID,
		})
		return
	}

	var data meetupBody
	if err := c.ShouldBindJSON(&data); err != nil {
		zap.L().Debug("Invalid meetup payload", zap.Error(err), zap.String("requestID", requestID))

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Validation fails",
			"requestID": requestID,
		})
		return
	}

	if !data.Date.After(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Meetup date invalid",
			"requestID": requestID,
		})
		return
	}

	if meetup.Past {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "You can't update past meetups",
			"requestID": requestID,
		})
		return
	}

	meetup.Title = data.Title
	meetup.Description = data.Description
	meetup.Location = data.Location
	meetup.Date = data.Date
	meetup.FileID = data.FileID

	if err := d.DB.Save(&meetup).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update meetup", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	meetup.Past = meetup.Date.Before(time.Now())
	c.JSON(http.StatusOK, meetup)
}
