package handler

import (
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler handles assessment session HTTP requests
type SessionHandler struct {
	sessions service.SessionService
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(sessions service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
	}
}

// StartSession godoc
// @Summary Start an assessment session
// @Description Starts (or restarts) the caller's session for a quiz
// @Tags session
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 201 {object} domain.SessionView
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/session [post]
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	view, err := h.sessions.StartSession(c.Context(), c.Params("id"), userID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetSession godoc
// @Summary Get the current session state
// @Tags session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.SessionView
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	view, err := h.sessions.GetSession(c.Context(), c.Params("id"), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// SelectOption godoc
// @Summary Record a pending option selection
// @Tags session
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SelectOptionRequest true "Selected option index"
// @Success 200 {object} domain.SessionView
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/select [post]
func (h *SessionHandler) SelectOption(c *fiber.Ctx) error {
	var req dto.SelectOptionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must carry an option index")
	}

	view, err := h.sessions.SelectOption(c.Context(), c.Params("id"), userID(c), req.Option)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// Check godoc
// @Summary Check the pending selection against the current question
// @Tags session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.SessionView
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/check [post]
func (h *SessionHandler) Check(c *fiber.Ctx) error {
	view, err := h.sessions.Check(c.Context(), c.Params("id"), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// Advance godoc
// @Summary Advance past a checked question
// @Description Moves to the next question, or completes the session and submits the score
// @Tags session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.SessionView
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/advance [post]
func (h *SessionHandler) Advance(c *fiber.Ctx) error {
	view, err := h.sessions.Advance(c.Context(), c.Params("id"), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// Retry godoc
// @Summary Restart a completed session
// @Tags session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.SessionView
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/retry [post]
func (h *SessionHandler) Retry(c *fiber.Ctx) error {
	view, err := h.sessions.Retry(c.Context(), c.Params("id"), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(view)
}
