package meetup

import (
	"gomeet/meetup-api/internal"
	"gomeet/meetup-api/internal/model"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pageSize = 20

func MeetupList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	// A non-numeric page leaves page at 0 and the resulting negative
	// offset is dropped, so bad input degenerates to the first page
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	q := d.DB.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Preload("File", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "path")
		}).
		Order("date ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize)

	if dateStr := c.Query("date"); dateStr != "" {
		day, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid date filter",
				"requestID": requestID,
			})
			return
		}

		// Inclusive [start of day, end of day] in server local time
		end := day.Add(24*time.Hour - time.Millisecond)
		q = q.Where("date BETWEEN ? AND ?", day, end)
	}

	var meetups []model.Meetup
	if err := q.Find(&meetups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list meetups", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, meetups)
}
