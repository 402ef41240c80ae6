package subscription

import (
	"context"
	"errors"
	"fmt"
	"gomeet/meetup-api/internal"
	"gomeet/meetup-api/internal/model"
	"gomeet/meetup-api/internal/queue"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeNotifications struct {
	created []model.Notification
	fail    bool
}

func (f *fakeNotifications) Create(_ context.Context, n *model.Notification) error {
	if f.fail {
		return errors.New("mongo down")
	}

	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotifications) List(_ context.Context, userID string) ([]model.Notification, error) {
	out := []model.Notification{}
	for _, n := range f.created {
		if n.User == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifications) MarkRead(context.Context, string) (*model.Notification, error) {
	return nil, errors.New("not implemented")
}

type queuedJob struct {
	key     string
	payload any
}

type fakeQueue struct {
	jobs []queuedJob
	fail bool
}

func (f *fakeQueue) Add(jobKey string, payload any) error {
	if f.fail {
		return errors.New("redis down")
	}

	f.jobs = append(f.jobs, queuedJob{key: jobKey, payload: payload})
	return nil
}

func setupDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(model.User{}, model.File{}, model.Meetup{}, model.Subscription{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id string) {
	require.NoError(t, db.Create(&model.User{
		ID:           id,
		Name:         id,
		Email:        id + "@example.com",
		PasswordHash: "x",
	}).Error)
}

func seedMeetup(t *testing.T, db *gorm.DB, userID string, date time.Time) uint {
	m := model.Meetup{
		Title:       "Gophers meetup",
		Description: "Talks and pizza",
		Location:    "Berlin",
		Date:        date,
		UserID:      userID,
	}
	require.NoError(t, db.Create(&m).Error)
	return m.ID
}

func subscribe(d *internal.Deps, userID string, meetupID any) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("requestID", "test")
		c.Set("userID", userID)
		c.Next()
	})
	r.POST("/meetups/:meetupId/subscriptions", func(c *gin.Context) { SubscriptionCreate(c, d) })

	req, _ := http.NewRequest("POST", fmt.Sprintf("/meetups/%v/subscriptions", meetupID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubscribeMissingMeetup(t *testing.T) {
	db := setupDB(t)
	seedUser(t, db, "bob")

	d := &internal.Deps{DB: db, Notifications: &fakeNotifications{}, Queue: &fakeQueue{}}

	w := subscribe(d, "bob", 999)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "doesn't exist")
}

func TestSubscribeOwnMeetup(t *testing.T) {
	db := setupDB(t)
	seedUser(t, db, "alice")
	id := seedMeetup(t, db, "alice", time.Now().Add(48*time.Hour))

	d := &internal.Deps{DB: db, Notifications: &fakeNotifications{}, Queue: &fakeQueue{}}

	w := subscribe(d, "alice", id)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Can't subscribe to your own meetups")
}

func TestSubscribePastMeetup(t *testing.T) {
	db := setupDB(t)
	seedUser(t, db, "alice")
	seedUser(t, db, "bob")
	id := seedMeetup(t, db, "alice", time.Now().Add(-time.Hour))

	d := &internal.Deps{DB: db, Notifications: &fakeNotifications{}, Queue: &fakeQueue{}}

	w := subscribe(d, "bob", id)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Can't subscribe to past meetups")
}

func TestSubscribeDoubleBooking(t *testing.T) {
	db := setupDB(t)
	seedUser(t, db, "alice")
	seedUser(t, db, "carol")
	seedUser(t, db, "bob")

	date := time.Now().Add(48 * time.Hour)
	first := seedMeetup(t, db, "alice", date)
	sameInstant := seedMeetup(t, db, "carol", date)
	otherInstant := seedMeetup(t, db, "carol", date.Add(time.Hour))

	d := &internal.Deps{DB: db, Notifications: &fakeNotifications{}, Queue: &fakeQueue{}}

	w := subscribe(d, "bob", first)
	require.Equal(t, http.StatusOK, w.Code)

	// Same timestamp, different meetup: rejected
	w = subscribe(d, "bob", sameInstant)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Can't subscribe to two meetups at the same time")

	// Different timestamp: fine
	w = subscribe(d, "bob", otherInstant)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubscribeEndToEnd(t *testing.T) {
	db := setupDB(t)
	seedUser(t, db, "alice")
	seedUser(t, db, "bob")
	id := seedMeetup(t, db, "alice", time.Now().Add(24*time.Hour))

	notifications := &fakeNotifications{}
	q := &fakeQueue{}
	d := &internal.Deps{DB: db, Notifications: notifications, Queue: q}

	w := subscribe(d, "bob", id)
	require.Equal(t, http.StatusOK, w.Code)

	// One subscription row
	var subs []model.Subscription
	require.NoError(t, db.Find(&subs).Error)
	require.Len(t, subs, 1)
	assert.Equal(t, "bob", subs[0].UserID)
	assert.Equal(t, id, subs[0].MeetupID)

	// One notification for the organizer naming the subscriber
	require.Len(t, notifications.created, 1)
	assert.Equal(t, "alice", notifications.created[0].User)
	assert.Contains(t, notifications.created[0].Content, "bob")

	// One enqueued mail job with a matching payload
	require.Len(t, q.jobs, 1)
	assert.Equal(t, queue.TypeSubscriptionMail, q.jobs[0].key)

	payload, ok := q.jobs[0].payload.(queue.SubscriptionMailPayload)
	require.True(t, ok)
	assert.Equal(t, "alice", payload.Organizer.ID)
	assert.Equal(t, id, payload.Meetup.ID)
	assert.Equal(t, "bob", payload.User.ID)
}

func TestSubscribeEnqueueFailurePropagates(t *testing.T) {
	db := setupDB(t)
	seedUser(t, db, "alice")
	seedUser(t, db, "bob")
	id := seedMeetup(t, db, "alice", time.Now().Add(24*time.Hour))

	d := &internal.Deps{DB: db, Notifications: &fakeNotifications{}, Queue: &fakeQueue{fail: true}}

	w := subscribe(d, "bob", id)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// The subscription row is left behind, there is no rollback
	var count int64
	db.Model(&model.Subscription{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
