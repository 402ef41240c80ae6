package notification

import (
	"gomeet/meetup-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationUpdate marks a notification as read
func NotificationUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	notification, err := d.Notifications.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Notification not found",
			"requestID": requestID,
		})

		zap.L().Debug("Failed to mark notification as read", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, notification)
}
