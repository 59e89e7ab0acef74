package entities

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// SessionState tracks where a session is in its lifecycle
type SessionState string

const (
	SessionStateActive   SessionState = "active"
	SessionStateFeedback SessionState = "feedback"
	SessionStateClosed   SessionState = "closed"
)

// SessionStatus is the terminal disposition recorded for a session
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusReported  SessionStatus = "reported"
)

// Session represents one connected call between an anonymous seeker and a
// listener. The owning SessionService is the only mutator; once the session
// reaches SessionStateClosed no further mutation is permitted.
type Session struct {
	ID            string        `json:"id" bson:"_id"`
	SeekerID      string        `json:"seeker_id" bson:"seeker_id"`
	ListenerID    string        `json:"listener_id" bson:"listener_id"`
	Mood          Mood          `json:"mood" bson:"mood"`
	Topic         string        `json:"topic" bson:"topic"`
	StartTime     time.Time     `json:"start_time" bson:"start_time"`
	EndedAt       *time.Time    `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
	DurationSec   int           `json:"duration_sec" bson:"duration_sec"`
	State         SessionState  `json:"state" bson:"state"`
	Status        SessionStatus `json:"status" bson:"status"`
	BridgeID      string        `json:"bridge_id" bson:"bridge_id"`
	VirtualNumber string        `json:"virtual_number" bson:"virtual_number"`
	Muted         bool          `json:"muted" bson:"muted"`
	Rating        int           `json:"rating,omitempty" bson:"rating,omitempty"`
	Comment       string        `json:"comment,omitempty" bson:"comment,omitempty"`
}

// NewSession creates an active session bound to a matched listener. The
// bridge ID and virtual number are generated exactly once here and stay
// immutable for the session's lifetime; they are display-only masking
// artifacts, never derived from real identity.
func NewSession(seekerID string, listener *ListenerProfile, mood Mood, topic string) *Session {
	return &Session{
		ID:            uuid.NewString(),
		SeekerID:      seekerID,
		ListenerID:    listener.ID,
		Mood:          mood,
		Topic:         topic,
		StartTime:     time.Now(),
		State:         SessionStateActive,
		Status:        SessionStatusActive,
		BridgeID:      fmt.Sprintf("HS-IN-%04d", 1000+rand.Intn(9000)),
		VirtualNumber: fmt.Sprintf("+91 9100-010-%02d", 10+rand.Intn(89)),
	}
}

// Tick advances the elapsed-time counter by one second
func (s *Session) Tick() error {
	if s.State != SessionStateActive {
		return ErrInvalidState
	}
	s.DurationSec++
	return nil
}

// ToggleMute flips the mute flag. Pure state flip, no external effect.
func (s *Session) ToggleMute() error {
	if s.State != SessionStateActive {
		return ErrInvalidState
	}
	s.Muted = !s.Muted
	return nil
}

// EndCall moves the session from Active to Feedback. The duration is frozen
// at its last ticked value.
func (s *Session) EndCall() error {
	if s.State != SessionStateActive {
		return ErrInvalidState
	}
	now := time.Now()
	s.EndedAt = &now
	s.State = SessionStateFeedback
	return nil
}

// SubmitRating records a 1-5 rating with an optional comment. A rating is
// accepted exactly once per session, and only during Feedback.
func (s *Session) SubmitRating(rating int, comment string) error {
	if s.State != SessionStateFeedback {
		return ErrInvalidState
	}
	if s.Rating != 0 {
		return ErrInvalidState
	}
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	s.Rating = rating
	s.Comment = comment
	return nil
}

// ConfirmEnd closes the session normally with status completed
func (s *Session) ConfirmEnd() error {
	if s.State != SessionStateFeedback {
		return ErrInvalidState
	}
	s.State = SessionStateClosed
	s.Status = SessionStatusCompleted
	return nil
}

// ReportIssue closes the session with status reported, bypassing normal
// completion. Terminal: any later mutation fails with ErrInvalidState.
func (s *Session) ReportIssue() error {
	if s.State != SessionStateFeedback {
		return ErrInvalidState
	}
	s.State = SessionStateClosed
	s.Status = SessionStatusReported
	return nil
}

// Closed reports whether the session reached its terminal state
func (s *Session) Closed() bool {
	return s.State == SessionStateClosed
}

// FormatDuration renders the elapsed time as m:ss for display
func (s *Session) FormatDuration() string {
	return fmt.Sprintf("%d:%02d", s.DurationSec/60, s.DurationSec%60)
}
