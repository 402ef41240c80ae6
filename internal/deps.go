package internal

import (
	"context"
	"gomeet/meetup-api/internal/model"
	"gomeet/meetup-api/internal/service"
	"gomeet/meetup-api/pkg/security"

	"gorm.io/gorm"
)

// NotificationStore is the slice of the document store handlers use.
// An interface so tests can swap in an in-memory fake
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, userID string) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) (*model.Notification, error)
}

// Enqueuer pushes named jobs onto the background queue
type Enqueuer interface {
	Add(jobKey string, payload any) error
}

type Deps struct {
	DB            *gorm.DB
	Argon         *security.ArgonHash
	Storage       service.Storage
	Notifications NotificationStore
	Queue         Enqueuer
}
