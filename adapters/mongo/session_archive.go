package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healspace/server/domain/entities"
	"github.com/healspace/server/domain/repositories"
)

// SessionArchive persists closed call sessions in the "sessions"
// collection. Only sessions that reached their terminal state belong here.
type SessionArchive struct {
	collection *mongo.Collection
}

// NewSessionArchive creates a MongoDB-backed session archive
func NewSessionArchive(db *mongo.Database) repositories.SessionArchive {
	return &SessionArchive{
		collection: db.Collection("sessions"),
	}
}

// Archive implements repositories.SessionArchive
func (a *SessionArchive) Archive(ctx context.Context, session *entities.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if !session.Closed() {
		return fmt.Errorf("refusing to archive session %s in state %s", session.ID, session.State)
	}

	if _, err := a.collection.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to archive session %s: %w", session.ID, err)
	}
	return nil
}

// ListByListener implements repositories.SessionArchive
func (a *SessionArchive) ListByListener(ctx context.Context, listenerID string, limit int) ([]*entities.Session, error) {
	if listenerID == "" {
		return nil, errors.New("listener ID cannot be empty")
	}

	filter := bson.M{"listener_id": listenerID}
	opts := options.Find().SetSort(bson.M{"start_time": -1})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := a.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for listener %s: %w", listenerID, err)
	}
	defer cursor.Close(ctx)

	var sessions []*entities.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions for listener %s: %w", listenerID, err)
	}
	return sessions, nil
}

// CountByListenerSince implements repositories.SessionArchive
func (a *SessionArchive) CountByListenerSince(ctx context.Context, listenerID string, since time.Time) (int64, error) {
	if listenerID == "" {
		return 0, errors.New("listener ID cannot be empty")
	}

	filter := bson.M{
		"listener_id": listenerID,
		"start_time":  bson.M{"$gte": since},
	}
	count, err := a.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions for listener %s: %w", listenerID, err)
	}
	return count, nil
}
