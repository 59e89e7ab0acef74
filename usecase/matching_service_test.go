package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/healspace/server/adapters/memory"
	"github.com/healspace/server/domain/entities"
	"github.com/healspace/server/internal/scheduler"
)

func fastPolicy() MatchPolicy {
	policy := DefaultMatchPolicy()
	policy.StageInterval = 5 * time.Millisecond
	return policy
}

func newTestDirectory(t *testing.T, profiles []*entities.ListenerProfile) *memory.ListenerDirectory {
	t.Helper()
	directory, err := memory.NewListenerDirectory(context.Background(), profiles, memory.NewPresenceStore(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewListenerDirectory failed: %v", err)
	}
	return directory
}

// collectEvents drains the handle's event stream until it closes
func collectEvents(t *testing.T, handle *MatchHandle) []MatchEvent {
	t.Helper()
	var events []MatchEvent
	timeout := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-handle.Events():
			if !ok {
				return events
			}
			events = append(events, event)
		case <-timeout:
			t.Fatalf("Timed out waiting for events, got %d so far", len(events))
		}
	}
}

func TestStartRejectsIncompleteRequest(t *testing.T) {
	svc := NewMatchingService(newTestDirectory(t, memory.SeedListeners()),
		scheduler.New(zap.NewNop()), nil, fastPolicy(), zap.NewNop())

	cases := []entities.MatchRequest{
		{},
		{Mood: entities.MoodStressed},
		{Topic: "Grief & Loss"},
	}
	for _, req := range cases {
		if _, err := svc.Start("seeker-1", req); !errors.Is(err, entities.ErrInvalidRequest) {
			t.Errorf("Expected ErrInvalidRequest for %+v, got %v", req, err)
		}
	}
}

func TestMatchingEmitsExactlyOneTerminalEvent(t *testing.T) {
	svc := NewMatchingService(newTestDirectory(t, memory.SeedListeners()),
		scheduler.New(zap.NewNop()), nil, fastPolicy(), zap.NewNop())

	handle, err := svc.Start("seeker-1", entities.MatchRequest{
		Mood:  entities.MoodStressed,
		Topic: "Career & Padhai Stress",
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	events := collectEvents(t, handle)

	var progress, terminal int
	for _, event := range events {
		switch event.Type {
		case MatchEventProgress:
			progress++
		case MatchEventMatched:
			terminal++
		}
	}
	if terminal != 1 {
		t.Errorf("Expected exactly 1 terminal event, got %d", terminal)
	}
	if progress != len(DefaultMatchStages)-1 {
		t.Errorf("Expected %d progress events, got %d", len(DefaultMatchStages)-1, progress)
	}

	last := events[len(events)-1]
	if last.Type != MatchEventMatched {
		t.Errorf("Expected terminal event last, got %s", last.Type)
	}
	if last.Result == nil || last.Result.Listener == nil {
		t.Fatal("Expected a matched listener")
	}
	if last.Result.Listener.ID != "l1" {
		t.Errorf("Expected first candidate l1, got %s", last.Result.Listener.ID)
	}
	if last.Result.Fallback {
		t.Error("Did not expect a fallback result")
	}
}

func TestMatchingPrefersOnlineListener(t *testing.T) {
	// One offline and one online listener tagged with the topic; the
	// offline one comes first in directory order.
	profiles := []*entities.ListenerProfile{
		{ID: "off", Name: "Priya", Tags: []string{"Loneliness (Akela-pan)"}, IsOnline: false, Rating: 5.0},
		{ID: "on", Name: "Rohan", Tags: []string{"Loneliness (Akela-pan)"}, IsOnline: true, Rating: 4.9},
	}
	svc := NewMatchingService(newTestDirectory(t, profiles),
		scheduler.New(zap.NewNop()), nil, fastPolicy(), zap.NewNop())

	handle, err := svc.Start("seeker-1", entities.MatchRequest{
		Mood:  entities.MoodStressed,
		Topic: "Loneliness (Akela-pan)",
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	events := collectEvents(t, handle)
	last := events[len(events)-1]
	if last.Result == nil || last.Result.Listener == nil {
		t.Fatal("Expected a matched listener")
	}
	if last.Result.Listener.ID != "on" {
		t.Errorf("Expected the online listener, got %s", last.Result.Listener.ID)
	}
}

func TestMatchingFallsBackToFirstDirectoryEntry(t *testing.T) {
	profiles := []*entities.ListenerProfile{
		{ID: "first", Name: "Aarav", Tags: []string{"Career & Padhai Stress"}, IsOnline: false, Rating: 4.9},
		{ID: "second", Name: "Ishani", Tags: []string{"Family & Rishtey"}, IsOnline: false, Rating: 4.8},
	}
	svc := NewMatchingService(newTestDirectory(t, profiles),
		scheduler.New(zap.NewNop()), nil, fastPolicy(), zap.NewNop())

	handle, err := svc.Start("seeker-1", entities.MatchRequest{
		Mood:  entities.MoodLonely,
		Topic: "Loneliness (Akela-pan)",
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	events := collectEvents(t, handle)
	last := events[len(events)-1]
	if last.Result == nil || last.Result.Listener == nil {
		t.Fatal("Expected a fallback listener")
	}
	if last.Result.Listener.ID != "first" {
		t.Errorf("Expected first directory entry, got %s", last.Result.Listener.ID)
	}
	if !last.Result.Fallback {
		t.Error("Expected the result to be marked as fallback")
	}
}

func TestMatchingOnlineOnlyFallbackPolicy(t *testing.T) {
	profiles := []*entities.ListenerProfile{
		{ID: "off", Name: "Priya", Tags: []string{"Grief & Loss"}, IsOnline: false, Rating: 5.0},
	}
	policy := fastPolicy()
	policy.RequireOnlineFallback = true
	svc := NewMatchingService(newTestDirectory(t, profiles),
		scheduler.New(zap.NewNop()), nil, policy, zap.NewNop())

	handle, err := svc.Start("seeker-1", entities.MatchRequest{
		Mood:  entities.MoodGrieving,
		Topic: "Health & Wellness",
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	events := collectEvents(t, handle)
	last := events[len(events)-1]
	if last.Type != MatchEventMatched {
		t.Fatalf("Expected terminal event, got %s", last.Type)
	}
	if last.Result.Matched() {
		t.Errorf("Expected no-match result, got listener %s", last.Result.Listener.ID)
	}
}

func TestCancelStopsAllEvents(t *testing.T) {
	policy := fastPolicy()
	policy.StageInterval = 20 * time.Millisecond
	svc := NewMatchingService(newTestDirectory(t, memory.SeedListeners()),
		scheduler.New(zap.NewNop()), nil, policy, zap.NewNop())

	handle, err := svc.Start("seeker-1", entities.MatchRequest{
		Mood:  entities.MoodTired,
		Topic: "Burnout & Thakaan",
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Wait for the first progress event, then cancel mid-flight
	select {
	case <-handle.Events():
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for first progress event")
	}
	handle.Cancel()
	// Cancelling twice is a no-op
	handle.Cancel()

	for event := range handle.Events() {
		if event.Type == MatchEventMatched {
			t.Error("Terminal event fired after cancellation")
		}
	}

	// Let any dangling timer fire; a post-cancel event would panic on the
	// closed channel.
	time.Sleep(100 * time.Millisecond)

	snapshot := handle.Snapshot()
	if !snapshot.Cancelled {
		t.Error("Expected handle to be cancelled")
	}
	if snapshot.Resolved {
		t.Error("Cancelled handle must not resolve")
	}
}

func TestCancelByServiceID(t *testing.T) {
	svc := NewMatchingService(newTestDirectory(t, memory.SeedListeners()),
		scheduler.New(zap.NewNop()), nil, fastPolicy(), zap.NewNop())

	handle, err := svc.Start("seeker-1", entities.MatchRequest{
		Mood:  entities.MoodAnxious,
		Topic: "General Baat-cheet",
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := svc.Cancel(handle.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if err := svc.Cancel("unknown"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFinishedHandlesAreEvicted(t *testing.T) {
	svc := NewMatchingService(newTestDirectory(t, memory.SeedListeners()),
		scheduler.New(zap.NewNop()), nil, fastPolicy(), zap.NewNop())
	svc.handleTTL = 5 * time.Millisecond

	resolved, err := svc.Start("seeker-1", entities.MatchRequest{
		Mood:  entities.MoodStressed,
		Topic: "Career & Padhai Stress",
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	collectEvents(t, resolved)

	cancelled, err := svc.Start("seeker-1", entities.MatchRequest{
		Mood:  entities.MoodLonely,
		Topic: "General Baat-cheet",
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	cancelled.Cancel()

	waitForEviction := func(id string) {
		t.Helper()
		deadline := time.Now().Add(2 * time.Second)
		for {
			if _, err := svc.Get(id); errors.Is(err, entities.ErrNotFound) {
				return
			}
			if time.Now().After(deadline) {
				t.Fatalf("Handle %s was never evicted", id)
			}
			time.Sleep(2 * time.Millisecond)
		}
	}
	waitForEviction(resolved.ID)
	waitForEviction(cancelled.ID)
}

func TestConsumeClaimsHandleExactlyOnce(t *testing.T) {
	svc := NewMatchingService(newTestDirectory(t, memory.SeedListeners()),
		scheduler.New(zap.NewNop()), nil, fastPolicy(), zap.NewNop())

	handle, err := svc.Start("seeker-1", entities.MatchRequest{
		Mood:  entities.MoodStressed,
		Topic: "Career & Padhai Stress",
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	collectEvents(t, handle)

	result, err := handle.Consume()
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if result.Listener == nil {
		t.Fatal("Expected a matched listener")
	}
	if !handle.Snapshot().Consumed {
		t.Error("Expected the handle to be marked consumed")
	}

	if _, err := handle.Consume(); !errors.Is(err, entities.ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState on second Consume, got %v", err)
	}
}

func TestConsumeBeforeResolutionFails(t *testing.T) {
	policy := fastPolicy()
	policy.StageInterval = 50 * time.Millisecond
	svc := NewMatchingService(newTestDirectory(t, memory.SeedListeners()),
		scheduler.New(zap.NewNop()), nil, policy, zap.NewNop())

	handle, err := svc.Start("seeker-1", entities.MatchRequest{
		Mood:  entities.MoodAnxious,
		Topic: "Family & Rishtey",
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer handle.Cancel()

	if _, err := handle.Consume(); !errors.Is(err, entities.ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState before resolution, got %v", err)
	}
}

func TestCancelAfterCompletionIsNoOp(t *testing.T) {
	svc := NewMatchingService(newTestDirectory(t, memory.SeedListeners()),
		scheduler.New(zap.NewNop()), nil, fastPolicy(), zap.NewNop())

	handle, err := svc.Start("seeker-1", entities.MatchRequest{
		Mood:  entities.MoodOverjoyed,
		Topic: "General Baat-cheet",
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	collectEvents(t, handle)
	handle.Cancel()

	snapshot := handle.Snapshot()
	if snapshot.Cancelled {
		t.Error("Cancel after completion must not mark the handle cancelled")
	}
	if !snapshot.Resolved {
		t.Error("Expected handle to stay resolved")
	}
}
