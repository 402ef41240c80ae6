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

// cancelLead is the minimum time before the meetup start within which
// cancellation is no longer allowed
const cancelLead = 2 * time.Hour

func MeetupDelete(c *gin.Context, d *internal.Deps) {
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

	if meetup.UserID != userID {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "You don't have permission to cancel this meetup.",
			"requestID": requestID,
		})
		return
	}

	if time.Now().After(meetup.Date.Add(-cancelLead)) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "You can only cancel meetups 2 hours in advance.",
			"requestID": requestID,
		})
		return
	}

	if meetup.Past {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "You can't delete past meetups",
			"requestID": requestID,
		})
		return
	}

	if err := d.DB.Delete(&meetup).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete meetup", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Status(http.StatusOK)
}
