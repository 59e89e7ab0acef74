package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/healspace/server/adapters/llm"
	"github.com/healspace/server/adapters/memory"
	"github.com/healspace/server/domain/entities"
)

func newTestJournalService(t *testing.T) (*JournalService, *llm.MockSentimentClassifier) {
	t.Helper()
	classifier := llm.NewMockSentimentClassifier()
	svc := NewJournalService(memory.NewJournalRepository(), classifier, zap.NewNop())
	return svc, classifier
}

func TestAddEntryClassifiesContent(t *testing.T) {
	svc, classifier := newTestJournalService(t)
	ctx := context.Background()

	result, err := svc.AddEntry(ctx, "seeker-1", "Aaj kaafi accha din tha", entities.MoodOverjoyed)
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	if result.Entry.ID == "" {
		t.Error("Expected entry ID to be set")
	}
	if result.Classification == nil {
		t.Fatal("Expected a classification")
	}
	if result.CrisisAlert {
		t.Error("Did not expect a crisis alert for a low-risk classification")
	}
	if result.ClassificationUnavailable {
		t.Error("Classification should be available")
	}
	if classifier.Calls != 1 {
		t.Errorf("Expected 1 classifier call, got %d", classifier.Calls)
	}
}

func TestAddEntryHighRiskRaisesCrisisAlert(t *testing.T) {
	svc, classifier := newTestJournalService(t)
	classifier.Result = &entities.Classification{
		Sentiment:                   "despair",
		Intensity:                   9,
		RiskLevel:                   entities.RiskLevelHigh,
		RequiresImmediateCrisisLink: true,
	}

	result, err := svc.AddEntry(context.Background(), "seeker-1", "Mujhse aur nahi hota", entities.MoodGrieving)
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	if !result.CrisisAlert {
		t.Error("Expected a crisis alert for a high-risk classification")
	}
}

func TestAddEntryClassifierFailureDoesNotBlock(t *testing.T) {
	svc, classifier := newTestJournalService(t)
	classifier.Fail = true
	ctx := context.Background()

	result, err := svc.AddEntry(ctx, "seeker-1", "Thoda thak gaya hoon", entities.MoodTired)
	if err != nil {
		t.Fatalf("AddEntry must not fail when the classifier is down: %v", err)
	}
	if result.Classification != nil {
		t.Error("Expected nil classification on failure")
	}
	if !result.ClassificationUnavailable {
		t.Error("Expected the result to flag the unavailable classification")
	}
	if result.CrisisAlert {
		t.Error("Failure must not raise a crisis alert")
	}

	// The entry was still persisted
	entries, err := svc.Entries(ctx, "seeker-1", 10)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(entries))
	}
}

func TestAddEntryValidation(t *testing.T) {
	svc, _ := newTestJournalService(t)
	ctx := context.Background()

	if _, err := svc.AddEntry(ctx, "seeker-1", "", entities.MoodTired); err == nil {
		t.Error("Expected an error for empty content")
	}
	if _, err := svc.AddEntry(ctx, "seeker-1", "kuch likha", ""); !errors.Is(err, entities.ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest for missing mood, got %v", err)
	}
}

func TestEntriesNewestFirst(t *testing.T) {
	svc, _ := newTestJournalService(t)
	ctx := context.Background()

	first, err := svc.AddEntry(ctx, "seeker-1", "pehli entry", entities.MoodLonely)
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	second, err := svc.AddEntry(ctx, "seeker-1", "doosri entry", entities.MoodLonely)
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	entries, err := svc.Entries(ctx, "seeker-1", 10)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != second.Entry.ID || entries[1].ID != first.Entry.ID {
		t.Error("Expected entries newest first")
	}
}
