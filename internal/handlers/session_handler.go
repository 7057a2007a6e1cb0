package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "drebuilder/internal/errors"
	"drebuilder/internal/middleware"
	"drebuilder/internal/services"
)

// SessionHandler handles editing session lifecycle requests
type SessionHandler struct {
	sessionService services.SessionServicer
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessionService services.SessionServicer) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// SessionResponse represents a new session and the token that grants access to it
type SessionResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Session   *services.Session `json:"session"`
}

// CreateSession starts a new editing session with an empty budget
// @Summary     Create a session
// @Description Start an editing session with an empty budget and get its bearer token
// @Tags        sessions
// @Produce     json
// @Success     201 {object} SessionResponse "Session created"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	session, err := h.sessionService.CreateSession()
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, expiresAt, err := middleware.GenerateSessionToken(session.ID)
	if err != nil {
		_ = h.sessionService.EndSession(session.ID)
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Session:   session,
	})
}

// GetCurrentSession returns the authenticated session
// @Summary     Get the current session
// @Tags        sessions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Session "Session"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Session not found"
// @Router      /sessions/current [get]
func (h *SessionHandler) GetCurrentSession(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	session, err := h.sessionService.GetSession(sessionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

// EndSession discards the authenticated session and its budget
// @Summary     End the current session
// @Tags        sessions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Session ended"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Session not found"
// @Router      /sessions/current [delete]
func (h *SessionHandler) EndSession(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.sessionService.EndSession(sessionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Session ended"})
}
