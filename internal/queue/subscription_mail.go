package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"gomeet/meetup-api/internal/model"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeSubscriptionMail is the stable key the subscription handler enqueues
// under and the worker dispatches on
const TypeSubscriptionMail = "subscription:mail"

type SubscriptionMailPayload struct {
	Organizer model.User   `json:"organizer"`
	Meetup    model.Meetup `json:"meetup"`
	User      model.User   `json:"user"`
}

// Sender is the slice of the mailer the job needs
type Sender interface {
	Send(to, subject, template string, data map[string]any) error
}

type SubscriptionMail struct {
	mailer Sender
}

func NewSubscriptionMail(m Sender) *SubscriptionMail {
	return &SubscriptionMail{mailer: m}
}

// Handle sends the "new subscription" email to the meetup organizer
func (j *SubscriptionMail) Handle(ctx context.Context, t *asynq.Task) error {
	var p SubscriptionMailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal subscription mail payload, %w", err)
	}

	err := j.mailer.Send(
		fmt.Sprintf("%s <%s>", p.Organizer.Name, p.Organizer.Email),
		fmt.Sprintf("New subscription to your meetup %s", p.Meetup.Title),
		"subscription",
		map[string]any{
			"organizer": p.Organizer.Name,
			"meetup":    p.Meetup.Title,
			"user":      p.User.Name,
			"email":     p.User.Email,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to send subscription mail, %w", err)
	}

	zap.L().Info("Sent subscription mail",
		zap.String("organizer", p.Organizer.Email),
		zap.Uint("meetup_id", p.Meetup.ID),
	)
	return nil
}
