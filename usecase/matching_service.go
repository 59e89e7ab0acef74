package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/healspace/server/domain/entities"
	"github.com/healspace/server/domain/repositories"
	"github.com/healspace/server/internal/scheduler"
)

// EventPublisher pushes an event to whoever is watching the given subject.
// The websocket hub implements this; a nil publisher is valid.
type EventPublisher interface {
	Publish(subjectID string, eventType string, payload interface{})
}

// MatchEventType discriminates match progress from terminal resolution
type MatchEventType string

const (
	MatchEventProgress MatchEventType = "match_progress"
	MatchEventMatched  MatchEventType = "match_matched"
)

// MatchEvent is delivered to the caller as the search advances. Exactly
// one terminal event (MatchEventMatched) is emitted per handle, after
// which the event channel is closed.
type MatchEvent struct {
	Type       MatchEventType        `json:"type"`
	HandleID   string                `json:"handle_id"`
	StageIndex int                   `json:"stage_index,omitempty"`
	Stage      string                `json:"stage,omitempty"`
	Result     *entities.MatchResult `json:"result,omitempty"`
}

// DefaultMatchStages are the discovery stages shown to the seeker while
// the search runs.
var DefaultMatchStages = []string{
	"Anonymous line secure kar rahe hain...",
	"Empathetic listeners ko search kar rahe hain...",
	"Identity protection verify ho rahi hai...",
	"Virtual bridge connect ho raha hai...",
}

// MatchPolicy configures the matching run
type MatchPolicy struct {
	Stages        []string
	StageInterval time.Duration
	// RequireOnlineFallback controls what happens when no online listener
	// covers the topic. false (the historical behavior) falls back to the
	// first directory entry even if that listener is offline; true only
	// falls back to an online listener and otherwise reports no match.
	RequireOnlineFallback bool
}

// DefaultMatchPolicy mirrors the historical behavior: four stages, 1200ms
// apart, offline fallback permitted.
func DefaultMatchPolicy() MatchPolicy {
	return MatchPolicy{
		Stages:        DefaultMatchStages,
		StageInterval: 1200 * time.Millisecond,
	}
}

// matchHandleTTL is how long a finished matching run stays addressable
// before it is evicted from the service map. Long enough for the seeker to
// read the result and start a session.
const matchHandleTTL = 10 * time.Minute

// MatchHandle tracks one in-flight matching run. All mutation happens
// under mu; events and the channel close are emitted under the same lock
// so a cancelled handle can never observe a late event.
type MatchHandle struct {
	ID       string
	SeekerID string
	Request  entities.MatchRequest

	mu         sync.Mutex
	stageIndex int
	resolved   bool
	cancelled  bool
	consumed   bool
	result     *entities.MatchResult
	events     chan MatchEvent
	task       *scheduler.Task
	onTerminal func()
}

// Events returns the handle's event stream. The channel is closed after
// the terminal event, or immediately on cancellation.
func (h *MatchHandle) Events() <-chan MatchEvent {
	return h.events
}

// Snapshot returns the handle's current observable state
func (h *MatchHandle) Snapshot() MatchSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return MatchSnapshot{
		ID:         h.ID,
		Request:    h.Request,
		StageIndex: h.stageIndex,
		Resolved:   h.resolved,
		Cancelled:  h.cancelled,
		Consumed:   h.consumed,
		Result:     h.result,
	}
}

// MatchSnapshot is a point-in-time view of a matching run
type MatchSnapshot struct {
	ID         string                `json:"id"`
	Request    entities.MatchRequest `json:"request"`
	StageIndex int                   `json:"stage_index"`
	Resolved   bool                  `json:"resolved"`
	Cancelled  bool                  `json:"cancelled"`
	Consumed   bool                  `json:"consumed"`
	Result     *entities.MatchResult `json:"result,omitempty"`
}

// Consume claims the resolved match for session creation. Each handle can
// be claimed exactly once; an unresolved, cancelled, or already-claimed
// handle fails with entities.ErrInvalidState.
func (h *MatchHandle) Consume() (*entities.MatchResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.resolved || h.result == nil || h.result.Listener == nil {
		return nil, entities.ErrInvalidState
	}
	if h.consumed {
		return nil, entities.ErrInvalidState
	}
	h.consumed = true
	return h.result, nil
}

// Cancel stops stage progression. Idempotent: cancelling twice, or after
// completion, is a no-op. No events fire after Cancel returns.
func (h *MatchHandle) Cancel() {
	h.mu.Lock()
	if h.resolved || h.cancelled {
		h.mu.Unlock()
		return
	}
	h.cancelled = true
	close(h.events)
	task := h.task
	onTerminal := h.onTerminal
	h.mu.Unlock()

	if task != nil {
		task.Stop()
	}
	if onTerminal != nil {
		onTerminal()
	}
}

// MatchingService converts a MatchRequest into a MatchResult through a
// staged, time-boxed, cancellable discovery process.
type MatchingService struct {
	directory repositories.ListenerDirectory
	scheduler *scheduler.Scheduler
	publisher EventPublisher
	policy    MatchPolicy
	handleTTL time.Duration
	logger    *zap.Logger

	mu      sync.RWMutex
	handles map[string]*MatchHandle
}

// NewMatchingService creates a matching service. publisher may be nil.
func NewMatchingService(
	directory repositories.ListenerDirectory,
	sched *scheduler.Scheduler,
	publisher EventPublisher,
	policy MatchPolicy,
	logger *zap.Logger,
) *MatchingService {
	if len(policy.Stages) == 0 {
		policy.Stages = DefaultMatchStages
	}
	if policy.StageInterval <= 0 {
		policy.StageInterval = 1200 * time.Millisecond
	}
	return &MatchingService{
		directory: directory,
		scheduler: sched,
		publisher: publisher,
		policy:    policy,
		handleTTL: matchHandleTTL,
		logger:    logger,
		handles:   make(map[string]*MatchHandle),
	}
}

// Stages returns the configured stage labels
func (m *MatchingService) Stages() []string {
	return m.policy.Stages
}

// StageInterval returns the configured stage interval
func (m *MatchingService) StageInterval() time.Duration {
	return m.policy.StageInterval
}

// Start begins a matching run for the seeker. It fails with
// entities.ErrInvalidRequest when mood or topic is absent.
func (m *MatchingService) Start(seekerID string, req entities.MatchRequest) (*MatchHandle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	handle := &MatchHandle{
		ID:       uuid.NewString(),
		SeekerID: seekerID,
		Request:  req,
		events:   make(chan MatchEvent, len(m.policy.Stages)+1),
	}
	// Once the run finishes (resolved or cancelled) the handle stays
	// addressable for a grace period and is then evicted.
	handle.onTerminal = func() {
		m.scheduler.Repeat("match-evict:"+handle.ID, m.handleTTL, func(int) bool {
			m.mu.Lock()
			delete(m.handles, handle.ID)
			m.mu.Unlock()
			return false
		})
	}

	// The task is assigned before the handle becomes reachable through the
	// service map, so Cancel always sees it.
	handle.task = m.scheduler.Repeat("match:"+handle.ID, m.policy.StageInterval, func(fire int) bool {
		return m.advance(handle, fire)
	})

	m.mu.Lock()
	m.handles[handle.ID] = handle
	m.mu.Unlock()

	m.logger.Info("Matching started",
		zap.String("handleID", handle.ID),
		zap.String("mood", string(req.Mood)),
		zap.String("topic", req.Topic))
	return handle, nil
}

// Get returns the handle registered under id
func (m *MatchingService) Get(id string) (*MatchHandle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	handle, ok := m.handles[id]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return handle, nil
}

// Cancel cancels the matching run registered under id
func (m *MatchingService) Cancel(id string) error {
	handle, err := m.Get(id)
	if err != nil {
		return err
	}
	handle.Cancel()
	m.logger.Info("Matching cancelled", zap.String("handleID", id))
	return nil
}

// advance runs on each stage timer fire. Fires before the last stage emit
// a progress event; the final fire resolves the match and emits the single
// terminal event.
func (m *MatchingService) advance(h *MatchHandle, fire int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancelled || h.resolved {
		return false
	}

	if fire < len(m.policy.Stages) {
		h.stageIndex = fire
		event := MatchEvent{
			Type:       MatchEventProgress,
			HandleID:   h.ID,
			StageIndex: fire,
			Stage:      m.policy.Stages[fire],
		}
		h.events <- event
		m.publish(h.SeekerID, event)
		return true
	}

	result := m.resolve(h.Request)
	h.resolved = true
	h.result = &result
	event := MatchEvent{
		Type:     MatchEventMatched,
		HandleID: h.ID,
		Result:   &result,
	}
	h.events <- event
	close(h.events)
	m.publish(h.SeekerID, event)
	if h.onTerminal != nil {
		h.onTerminal()
	}

	if result.Listener != nil {
		m.logger.Info("Match resolved",
			zap.String("handleID", h.ID),
			zap.String("listenerID", result.Listener.ID),
			zap.Bool("fallback", result.Fallback))
	} else {
		m.logger.Info("Match resolved with no listener", zap.String("handleID", h.ID))
	}
	return false
}

// resolve picks the matched listener once all stages have elapsed. The
// first online candidate for the topic wins, in directory order; otherwise
// the fallback policy applies.
func (m *MatchingService) resolve(req entities.MatchRequest) entities.MatchResult {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	candidates, err := m.directory.FindByTopicOnline(ctx, req.Topic)
	if err != nil {
		m.logger.Error("Directory lookup failed", zap.Error(err))
		candidates = nil
	}
	if len(candidates) > 0 {
		return entities.MatchResult{Listener: candidates[0]}
	}

	all, err := m.directory.All(ctx)
	if err != nil {
		m.logger.Error("Directory fallback lookup failed", zap.Error(err))
		return entities.MatchResult{Fallback: true}
	}

	if m.policy.RequireOnlineFallback {
		for _, p := range all {
			if p.IsOnline {
				return entities.MatchResult{Listener: p, Fallback: true}
			}
		}
		return entities.MatchResult{Fallback: true}
	}

	if len(all) > 0 {
		return entities.MatchResult{Listener: all[0], Fallback: true}
	}
	return entities.MatchResult{Fallback: true}
}

func (m *MatchingService) publish(subjectID string, event MatchEvent) {
	if m.publisher == nil {
		return
	}
	m.publisher.Publish(subjectID, string(event.Type), event)
}
