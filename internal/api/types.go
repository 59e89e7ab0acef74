package api

import (
	"time"

	"github.com/healspace/server/domain/entities"
)

// AuthRequest asks for an anonymous token. ListenerID is required for the
// listener role so the token binds to a directory profile.
type AuthRequest struct {
	Role       string `json:"role" validate:"required"`
	ListenerID string `json:"listener_id,omitempty"`
}

// AuthResponse carries the minted anonymous token
type AuthResponse struct {
	Token     string    `json:"token"`
	SubjectID string    `json:"subject_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StartMatchRequest starts a matching run
type StartMatchRequest struct {
	Mood  string `json:"mood" validate:"required"`
	Topic string `json:"topic" validate:"required"`
}

// StartMatchResponse acknowledges an accepted matching run
type StartMatchResponse struct {
	MatchID         string   `json:"match_id"`
	Stages          []string `json:"stages"`
	StageIntervalMs int64    `json:"stage_interval_ms"`
}

// StartSessionRequest creates a session from a resolved match
type StartSessionRequest struct {
	MatchID string `json:"match_id" validate:"required"`
}

// MuteResponse reports the mute flag after a toggle
type MuteResponse struct {
	SessionID string `json:"session_id"`
	Muted     bool   `json:"muted"`
}

// IcebreakersResponse carries suggested conversation openers
type IcebreakersResponse struct {
	SessionID   string   `json:"session_id"`
	Icebreakers []string `json:"icebreakers"`
}

// RatingRequest submits post-call feedback
type RatingRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty"`
}

// AvailabilityRequest is the listener's online/offline toggle
type AvailabilityRequest struct {
	Online bool `json:"online"`
}

// JournalRequest appends a diary entry
type JournalRequest struct {
	Content string        `json:"content" validate:"required"`
	Mood    entities.Mood `json:"mood" validate:"required"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
