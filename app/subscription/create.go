// Package subscription contains the meetup subscription endpoint
package subscription

import (
	"fmt"
	"gomeet/meetup-api/internal"
	"gomeet/meetup-api/internal/model"
	"gomeet/meetup-api/internal/queue"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SubscriptionCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var user model.User
	if err := d.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch subscriber", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var meetup model.Meetup
	err := d.DB.
		Preload("User").
		First(&meetup, "id = ?", c.Param("meetupId")).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "The meetup you're searching doesn't exist",
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

	if meetup.UserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Can't subscribe to your own meetups",
			"requestID": requestID,
		})
		return
	}

	if meetup.Past {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Can't subscribe to past meetups",
			"requestID": requestID,
		})
		return
	}

	// Double-booking guard. Only exact timestamp equality counts, this
	// is not an interval overlap check
	var clash model.Subscription
	err = d.DB.
		Joins("JOIN meetups ON meetups.id = subscriptions.meetup_id").
		Where("subscriptions.user_id = ? AND meetups.date = ?", userID, meetup.Date).
		First(&clash).
		Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Can't subscribe to two meetups at the same time",
			"requestID": requestID,
		})
		return
	}
	if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check for date collisions", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	sub := model.Subscription{
		UserID:   userID,
		MeetupID: meetup.ID,
	}

	if err := d.DB.Create(&sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create subscription", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// The notification write and the subscription insert are independent.
	// A failure here leaves the subscription row behind with no rollback
	notification := &model.Notification{
		Content: fmt.Sprintf("%s just subscribed to your meetup on %s",
			user.Name, meetup.Date.Format("Monday, January 2 at 15:04")),
		User: meetup.UserID,
	}

	if err := d.Notifications.Create(c.Request.Context(), notification); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create notification", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	organizer := *meetup.User

	payloadMeetup := meetup
	payloadMeetup.User = nil

	err = d.Queue.Add(queue.TypeSubscriptionMail, queue.SubscriptionMailPayload{
		Organizer: organizer,
		Meetup:    payloadMeetup,
		User:      user,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to enqueue subscription mail", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, sub)
}
