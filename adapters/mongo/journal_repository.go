package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healspace/server/domain/entities"
	"github.com/healspace/server/domain/repositories"
)

// JournalRepository persists diary entries in the "journal_entries"
// collection. Entries are append-only; there is no update path.
type JournalRepository struct {
	collection *mongo.Collection
}

// NewJournalRepository creates a MongoDB-backed journal repository
func NewJournalRepository(db *mongo.Database) repositories.JournalRepository {
	return &JournalRepository{
		collection: db.Collection("journal_entries"),
	}
}

// Append implements repositories.JournalRepository
func (r *JournalRepository) Append(ctx context.Context, entry *entities.JournalEntry) error {
	if entry == nil {
		return errors.New("entry cannot be nil")
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// ListBySeeker implements repositories.JournalRepository
func (r *JournalRepository) ListBySeeker(ctx context.Context, seekerID string, limit int) ([]*entities.JournalEntry, error) {
	if seekerID == "" {
		return nil, errors.New("seeker ID cannot be empty")
	}

	filter := bson.M{"seeker_id": seekerID}
	opts := options.Find().SetSort(bson.M{"timestamp": -1})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries for seeker %s: %w", seekerID, err)
	}
	defer cursor.Close(ctx)

	var entries []*entities.JournalEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode journal entries for seeker %s: %w", seekerID, err)
	}
	return entries, nil
}
