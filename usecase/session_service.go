package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/healspace/server/domain/entities"
	"github.com/healspace/server/domain/repositories"
	"github.com/healspace/server/internal/scheduler"
)

// Session event types pushed to the seeker's event stream
const (
	SessionEventTick  = "session_tick"
	SessionEventEnded = "session_ended"
)

// SessionTickEvent reports the session's running duration once per second
type SessionTickEvent struct {
	SessionID string `json:"session_id"`
	Duration  int    `json:"duration_sec"`
	Display   string `json:"display"`
}

// closedSessionTTL is how long a closed session stays addressable before
// it is evicted from the live set. It is already archived by then; the
// grace period only keeps the API returning ErrInvalidState instead of
// ErrNotFound right after close.
const closedSessionTTL = 10 * time.Minute

// liveSession pairs a session with its ticker task. st.mu serializes every
// mutation, including ticks, so the timer goroutine can never act on a
// session that has left Active.
type liveSession struct {
	mu      sync.Mutex
	session *entities.Session
	task    *scheduler.Task
}

// SessionService owns every live call session: elapsed-time tracking, the
// mute toggle, icebreaker delegation, and the transition through feedback
// into the archive.
type SessionService struct {
	icebreakers  repositories.IcebreakerGenerator
	archive      repositories.SessionArchive
	scheduler    *scheduler.Scheduler
	publisher    EventPublisher
	tickInterval time.Duration
	logger       *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*liveSession
}

// NewSessionService creates a session service. publisher may be nil.
func NewSessionService(
	icebreakers repositories.IcebreakerGenerator,
	archive repositories.SessionArchive,
	sched *scheduler.Scheduler,
	publisher EventPublisher,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		icebreakers:  icebreakers,
		archive:      archive,
		scheduler:    sched,
		publisher:    publisher,
		tickInterval: time.Second,
		logger:       logger,
		sessions:     make(map[string]*liveSession),
	}
}

// Start constructs an Active session from a matched listener and begins
// its one-second elapsed-time ticker. Exactly one ticker runs per session.
func (s *SessionService) Start(seekerID string, listener *entities.ListenerProfile, mood entities.Mood, topic string) (*entities.Session, error) {
	if listener == nil {
		return nil, entities.ErrInvalidRequest
	}

	session := entities.NewSession(seekerID, listener, mood, topic)
	live := &liveSession{session: session}
	live.task = s.scheduler.Repeat("session-tick:"+session.ID, s.tickInterval, func(int) bool {
		return s.tick(live)
	})

	s.mu.Lock()
	s.sessions[session.ID] = live
	s.mu.Unlock()

	s.logger.Info("Session started",
		zap.String("sessionID", session.ID),
		zap.String("listenerID", listener.ID),
		zap.String("bridgeID", session.BridgeID))

	snapshot := *session
	return &snapshot, nil
}

// tick advances the session clock by one second while it remains Active
func (s *SessionService) tick(live *liveSession) bool {
	live.mu.Lock()
	defer live.mu.Unlock()

	if err := live.session.Tick(); err != nil {
		// Session left Active; the ticker tears itself down.
		return false
	}

	if s.publisher != nil {
		s.publisher.Publish(live.session.SeekerID, SessionEventTick, SessionTickEvent{
			SessionID: live.session.ID,
			Duration:  live.session.DurationSec,
			Display:   live.session.FormatDuration(),
		})
	}
	return true
}

// Get returns a snapshot of the session
func (s *SessionService) Get(id string) (*entities.Session, error) {
	live, err := s.live(id)
	if err != nil {
		return nil, err
	}
	live.mu.Lock()
	defer live.mu.Unlock()
	snapshot := *live.session
	return &snapshot, nil
}

// ToggleMute flips the session's mute flag and returns the new value
func (s *SessionService) ToggleMute(id string) (bool, error) {
	live, err := s.live(id)
	if err != nil {
		return false, err
	}
	live.mu.Lock()
	defer live.mu.Unlock()
	if err := live.session.ToggleMute(); err != nil {
		return false, err
	}
	return live.session.Muted, nil
}

// Icebreakers fetches suggested conversation openers for the session. The
// generator contract guarantees three prompts even when the external
// service is down.
func (s *SessionService) Icebreakers(ctx context.Context, id string) ([]string, error) {
	live, err := s.live(id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	if live.session.State != entities.SessionStateActive {
		live.mu.Unlock()
		return nil, entities.ErrInvalidState
	}
	mood := live.session.Mood
	topic := live.session.Topic
	live.mu.Unlock()

	// The generator call happens outside the session lock: it may take
	// seconds and must not stall the ticker.
	return s.icebreakers.Generate(ctx, mood, []string{topic}), nil
}

// EndCall moves the session into Feedback, stopping its ticker and
// freezing the duration at its last value.
func (s *SessionService) EndCall(id string) (*entities.Session, error) {
	live, err := s.live(id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	if err := live.session.EndCall(); err != nil {
		live.mu.Unlock()
		return nil, err
	}
	snapshot := *live.session
	live.mu.Unlock()

	live.task.Stop()

	if s.publisher != nil {
		s.publisher.Publish(snapshot.SeekerID, SessionEventEnded, SessionTickEvent{
			SessionID: snapshot.ID,
			Duration:  snapshot.DurationSec,
			Display:   snapshot.FormatDuration(),
		})
	}

	s.logger.Info("Session entered feedback",
		zap.String("sessionID", snapshot.ID),
		zap.String("duration", snapshot.FormatDuration()))
	return &snapshot, nil
}

// SubmitRating records the seeker's 1-5 rating with an optional comment
func (s *SessionService) SubmitRating(id string, rating int, comment string) error {
	live, err := s.live(id)
	if err != nil {
		return err
	}
	live.mu.Lock()
	defer live.mu.Unlock()
	return live.session.SubmitRating(rating, comment)
}

// ConfirmEnd closes the session with status completed and archives it
func (s *SessionService) ConfirmEnd(ctx context.Context, id string) (*entities.Session, error) {
	return s.close(ctx, id, (*entities.Session).ConfirmEnd)
}

// ReportIssue closes the session with status reported and archives it
func (s *SessionService) ReportIssue(ctx context.Context, id string) (*entities.Session, error) {
	return s.close(ctx, id, (*entities.Session).ReportIssue)
}

func (s *SessionService) close(ctx context.Context, id string, transition func(*entities.Session) error) (*entities.Session, error) {
	live, err := s.live(id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	if err := transition(live.session); err != nil {
		live.mu.Unlock()
		return nil, err
	}
	snapshot := *live.session
	live.mu.Unlock()

	// Stop is idempotent; the ticker already stopped at EndCall.
	live.task.Stop()

	if err := s.archive.Archive(ctx, &snapshot); err != nil {
		s.logger.Error("Failed to archive session",
			zap.String("sessionID", snapshot.ID),
			zap.Error(err))
	}

	// Keep the closed session addressable for a while, then evict.
	s.scheduler.Repeat("session-evict:"+snapshot.ID, closedSessionTTL, func(int) bool {
		s.mu.Lock()
		delete(s.sessions, snapshot.ID)
		s.mu.Unlock()
		return false
	})

	s.logger.Info("Session closed",
		zap.String("sessionID", snapshot.ID),
		zap.String("status", string(snapshot.Status)))
	return &snapshot, nil
}

func (s *SessionService) live(id string) (*liveSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	live, ok := s.sessions[id]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return live, nil
}
