// Package meetup contains the meetup CRUD endpoints
package meetup

import (
	"gomeet/meetup-api/internal"
	"gomeet/meetup-api/internal/model"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// meetupBody is the payload shared by create and update. Binding tags
// mirror the declarative schema the endpoints validate against
type meetupBody struct {
	FileID      uint      `json:"file_id" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required,max=50"`
	Location    string    `json:"location" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
}

func MeetupCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

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

	meetup := model.Meetup{
		Title:       data.Title,
		Description: data.Description,
		Location:    data.Location,
		Date:        data.Date,
		FileID:      data.FileID,
		UserID:      userID,
	}

	if err := d.DB.Create(&meetup).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create meetup", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, meetup)
}
