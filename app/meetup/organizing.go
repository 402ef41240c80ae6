package meetup

import (
	"gomeet/meetup-api/internal"
	"gomeet/meetup-api/internal/model"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MeetupOrganizing lists the meetups the caller organizes
func MeetupOrganizing(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var meetups []model.Meetup
	err := d.DB.
		Preload("File").
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&meetups).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list organized meetups", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, meetups)
}
