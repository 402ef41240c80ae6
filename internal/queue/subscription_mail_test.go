package queue

import (
	"context"
	"encoding/json"
	"gomeet/meetup-api/internal/model"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to       string
	subject  string
	template string
	data     map[string]any
}

type fakeSender struct {
	sent []sentMail
}

func (f *fakeSender) Send(to, subject, template string, data map[string]any) error {
	f.sent = append(f.sent, sentMail{to, subject, template, data})
	return nil
}

func TestSubscriptionMailHandle(t *testing.T) {
	payload := SubscriptionMailPayload{
		Organizer: model.User{ID: "alice", Name: "Alice", Email: "alice@example.com"},
		Meetup:    model.Meetup{ID: 7, Title: "Gophers meetup", Date: time.Now().Add(24 * time.Hour)},
		User:      model.User{ID: "bob", Name: "Bob", Email: "bob@example.com"},
	}

	b, err := json.Marshal(payload)
	require.NoError(t, err)

	sender := &fakeSender{}
	job := NewSubscriptionMail(sender)

	err = job.Handle(context.Background(), asynq.NewTask(TypeSubscriptionMail, b))
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	mail := sender.sent[0]

	assert.Equal(t, "Alice <alice@example.com>", mail.to)
	assert.Contains(t, mail.subject, "Gophers meetup")
	assert.Equal(t, "subscription", mail.template)
	assert.Equal(t, "Alice", mail.data["organizer"])
	assert.Equal(t, "Gophers meetup", mail.data["meetup"])
	assert.Equal(t, "Bob", mail.data["user"])
	assert.Equal(t, "bob@example.com", mail.data["email"])
}

func TestSubscriptionMailHandleBadPayload(t *testing.T) {
	sender := &fakeSender{}
	job := NewSubscriptionMail(sender)

	err := job.Handle(context.Background(), asynq.NewTask(TypeSubscriptionMail, []byte("not json")))
	assert.Error(t, err)
	assert.Empty(t, sender.sent)
}
