package memory

import (
	"context"
	"testing"

	"github.com/healspace/server/domain/entities"
)

func archivedSession(t *testing.T, listenerID string) *entities.Session {
	t.Helper()
	session := entities.NewSession("seeker-1", &entities.ListenerProfile{ID: listenerID}, entities.MoodStressed, "Career & Padhai Stress")
	if err := session.EndCall(); err != nil {
		t.Fatalf("EndCall failed: %v", err)
	}
	if err := session.ConfirmEnd(); err != nil {
		t.Fatalf("ConfirmEnd failed: %v", err)
	}
	return session
}

func TestArchiveRejectsOpenSessions(t *testing.T) {
	archive := NewSessionArchive()
	ctx := context.Background()

	active := entities.NewSession("seeker-1", &entities.ListenerProfile{ID: "l1"}, entities.MoodTired, "Burnout & Thakaan")
	if err := archive.Archive(ctx, active); err == nil {
		t.Error("Expected an error archiving an active session")
	}

	if err := active.EndCall(); err != nil {
		t.Fatalf("EndCall failed: %v", err)
	}
	// Feedback is still not terminal
	if err := archive.Archive(ctx, active); err == nil {
		t.Error("Expected an error archiving a session in feedback")
	}

	if err := archive.Archive(ctx, archivedSession(t, "l1")); err != nil {
		t.Fatalf("Archive of a closed session failed: %v", err)
	}
}

func TestListByListenerNewestFirstWithLimit(t *testing.T) {
	archive := NewSessionArchive()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		session := archivedSession(t, "l1")
		ids = append(ids, session.ID)
		if err := archive.Archive(ctx, session); err != nil {
			t.Fatalf("Archive failed: %v", err)
		}
	}
	if err := archive.Archive(ctx, archivedSession(t, "l2")); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	sessions, err := archive.ListByListener(ctx, "l1", 2)
	if err != nil {
		t.Fatalf("ListByListener failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != ids[2] || sessions[1].ID != ids[1] {
		t.Error("Expected sessions newest first")
	}
}
