// Package notify persists user notifications in the document store
package notify

import (
	"context"
	"fmt"
	"gomeet/meetup-api/internal/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listLimit = 20

type Store struct {
	col *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		col: db.Collection("notifications"),
	}
}

func (s *Store) Create(ctx context.Context, n *model.Notification) error {
	n.CreatedAt = time.Now()
	n.Read = false

	res, err := s.col.InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("failed to insert notification, %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = id
	}

	return nil
}

// List returns the newest notifications addressed to a user
func (s *Store) List(ctx context.Context, userID string) ([]model.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(listLimit)

	cur, err := s.col.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications, %w", err)
	}
	defer cur.Close(ctx)

	notifications := []model.Notification{}
	if err := cur.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications, %w", err)
	}

	return notifications, nil
}

// MarkRead flips the read flag on a single notification and returns
// the updated document
func (s *Store) MarkRead(ctx context.Context, id string) (*model.Notification, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid notification id, %w", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n model.Notification
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"read": true}},
		opts,
	).Decode(&n)
	if err != nil {
		return nil, fmt.Errorf("failed to mark notification as read, %w", err)
	}

	return &n, nil
}
