package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/healspace/server/domain/entities"
	"github.com/healspace/server/internal/auth"
	"github.com/healspace/server/internal/websocket"
	"github.com/healspace/server/usecase"
)

const claimsContextKey = "healspace.claims"

// Handler wires the usecase services into the HTTP surface
type Handler struct {
	Matching  *usecase.MatchingService
	Sessions  *usecase.SessionService
	Journal   *usecase.JournalService
	Listeners *usecase.ListenerService
	Hub       *websocket.Hub
	Logger    *zap.Logger
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, h *Handler) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "healspace-server",
		})
	})

	e.POST("/api/v1/auth/anonymous", h.anonymousAuth)

	v1 := e.Group("/api/v1", h.requireAuth)

	// Matching
	v1.POST("/matches", h.startMatch)
	v1.GET("/matches/:id", h.getMatch)
	v1.DELETE("/matches/:id", h.cancelMatch)

	// Call sessions
	v1.POST("/sessions", h.startSession)
	v1.GET("/sessions/:id", h.getSession)
	v1.POST("/sessions/:id/mute", h.toggleMute)
	v1.GET("/sessions/:id/icebreakers", h.icebreakers)
	v1.POST("/sessions/:id/end", h.endCall)
	v1.POST("/sessions/:id/rating", h.submitRating)
	v1.POST("/sessions/:id/confirm", h.confirmEnd)
	v1.POST("/sessions/:id/report", h.reportIssue)

	// Journal
	v1.POST("/journal", h.addJournalEntry)
	v1.GET("/journal", h.listJournal)

	// Listener directory and dashboard
	v1.GET("/listeners", h.browseListeners)
	v1.GET("/topics", h.listTopics)
	v1.PUT("/listeners/:id/availability", h.setAvailability)
	v1.GET("/listeners/:id/dashboard", h.dashboard)

	// WebSocket event stream
	e.GET("/ws", func(c echo.Context) error {
		return websocket.HandleWebSocket(h.Hub, c, h.Logger)
	})
}

func (h *Handler) anonymousAuth(c echo.Context) error {
	var req AuthRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}
	if req.Role == auth.RoleListener && req.ListenerID == "" {
		return badRequest(c, "listener_id is required for the listener role")
	}

	token, claims, err := auth.GenerateAnonymousToken(req.Role, req.ListenerID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Token:     token,
		SubjectID: claims.SubjectID,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

// requireAuth validates the anonymous token and stores its claims on the
// request context.
func (h *Handler) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing bearer token",
			})
		}
		claims, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid token",
			})
		}
		c.Set(claimsContextKey, claims)
		return next(c)
	}
}

func claimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsContextKey).(*auth.Claims)
	return claims
}

func (h *Handler) startMatch(c echo.Context) error {
	var req StartMatchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}

	mood, err := entities.ParseMood(req.Mood)
	if err != nil {
		return domainError(c, err)
	}

	handle, err := h.Matching.Start(claimsFrom(c).SubjectID, entities.MatchRequest{
		Mood:  mood,
		Topic: req.Topic,
	})
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusAccepted, StartMatchResponse{
		MatchID:         handle.ID,
		Stages:          h.Matching.Stages(),
		StageIntervalMs: h.Matching.StageInterval().Milliseconds(),
	})
}

func (h *Handler) getMatch(c echo.Context) error {
	handle, err := h.ownedMatch(c)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, handle.Snapshot())
}

func (h *Handler) cancelMatch(c echo.Context) error {
	handle, err := h.ownedMatch(c)
	if err != nil {
		return domainError(c, err)
	}
	handle.Cancel()
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ownedMatch(c echo.Context) (*usecase.MatchHandle, error) {
	handle, err := h.Matching.Get(c.Param("id"))
	if err != nil {
		return nil, err
	}
	if handle.SeekerID != claimsFrom(c).SubjectID {
		return nil, entities.ErrNotFound
	}
	return handle, nil
}

func (h *Handler) startSession(c echo.Context) error {
	var req StartSessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}

	handle, err := h.Matching.Get(req.MatchID)
	if err != nil {
		return domainError(c, err)
	}
	claims := claimsFrom(c)
	if handle.SeekerID != claims.SubjectID {
		return domainError(c, entities.ErrNotFound)
	}

	snapshot := handle.Snapshot()
	if !snapshot.Resolved || snapshot.Result == nil || snapshot.Result.Listener == nil {
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "match_not_resolved",
			Message: "Match has not resolved to a listener yet",
		})
	}

	// Consume claims the match exactly once so a single resolved match can
	// never back more than one session.
	result, err := handle.Consume()
	if err != nil {
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "match_consumed",
			Message: "Match has already been used to start a session",
		})
	}

	session, err := h.Sessions.Start(claims.SubjectID, result.Listener, snapshot.Request.Mood, snapshot.Request.Topic)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}

func (h *Handler) getSession(c echo.Context) error {
	session, err := h.ownedSession(c)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (h *Handler) toggleMute(c echo.Context) error {
	if _, err := h.ownedSession(c); err != nil {
		return domainError(c, err)
	}
	muted, err := h.Sessions.ToggleMute(c.Param("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, MuteResponse{SessionID: c.Param("id"), Muted: muted})
}

func (h *Handler) icebreakers(c echo.Context) error {
	if _, err := h.ownedSession(c); err != nil {
		return domainError(c, err)
	}
	prompts, err := h.Sessions.Icebreakers(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, IcebreakersResponse{
		SessionID:   c.Param("id"),
		Icebreakers: prompts,
	})
}

func (h *Handler) endCall(c echo.Context) error {
	if _, err := h.ownedSession(c); err != nil {
		return domainError(c, err)
	}
	session, err := h.Sessions.EndCall(c.Param("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (h *Handler) submitRating(c echo.Context) error {
	var req RatingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}
	if _, err := h.ownedSession(c); err != nil {
		return domainError(c, err)
	}
	if err := h.Sessions.SubmitRating(c.Param("id"), req.Rating, req.Comment); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) confirmEnd(c echo.Context) error {
	if _, err := h.ownedSession(c); err != nil {
		return domainError(c, err)
	}
	session, err := h.Sessions.ConfirmEnd(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (h *Handler) reportIssue(c echo.Context) error {
	if _, err := h.ownedSession(c); err != nil {
		return domainError(c, err)
	}
	session, err := h.Sessions.ReportIssue(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (h *Handler) ownedSession(c echo.Context) (*entities.Session, error) {
	session, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		return nil, err
	}
	if session.SeekerID != claimsFrom(c).SubjectID {
		return nil, entities.ErrNotFound
	}
	return session, nil
}

func (h *Handler) addJournalEntry(c echo.Context) error {
	var req JournalRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}

	result, err := h.Journal.AddEntry(c.Request().Context(), claimsFrom(c).SubjectID, req.Content, req.Mood)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) listJournal(c echo.Context) error {
	entries, err := h.Journal.Entries(c.Request().Context(), claimsFrom(c).SubjectID, 50)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) browseListeners(c echo.Context) error {
	listeners, err := h.Listeners.Browse(c.Request().Context(), c.QueryParam("topic"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, listeners)
}

func (h *Handler) listTopics(c echo.Context) error {
	return c.JSON(http.StatusOK, entities.Topics)
}

func (h *Handler) setAvailability(c echo.Context) error {
	claims := claimsFrom(c)
	if claims.Role != auth.RoleListener || claims.ListenerID != c.Param("id") {
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "Only the listener can toggle their own availability",
		})
	}

	var req AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}
	if err := h.Listeners.SetAvailability(c.Request().Context(), c.Param("id"), req.Online); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) dashboard(c echo.Context) error {
	claims := claimsFrom(c)
	if claims.Role != auth.RoleListener || claims.ListenerID != c.Param("id") {
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "Only the listener can view their own dashboard",
		})
	}

	dashboard, err := h.Listeners.Dashboard(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dashboard)
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_request",
		Message: message,
	})
}

// domainError maps the core error taxonomy onto HTTP statuses
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, entities.ErrInvalidRequest):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	case errors.Is(err, entities.ErrInvalidRating):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_rating",
			Message: err.Error(),
		})
	case errors.Is(err, entities.ErrInvalidState):
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "invalid_state",
			Message: err.Error(),
		})
	case errors.Is(err, entities.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong",
		})
	}
}
