package handler

import (
	"io"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"
	"quizforge/internal/middleware"
	"quizforge/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

func userID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.UserIDKey).(string); ok {
		return id
	}
	return ""
}

// CreateQuiz godoc
// @Summary Create a quiz from an uploaded document
// @Description Extracts text from the uploaded PDF, generates questions and persists the quiz with its parent post
// @Tags quiz
// @Accept multipart/form-data
// @Produce json
// @Param content formData string false "Post caption"
// @Param file formData file true "Source PDF"
// @Success 201 {object} dto.CreateQuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.NewInvalidInputError("a document file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.NewInvalidInputError("uploaded file could not be opened")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.NewInvalidInputError("uploaded file could not be read")
	}

	content := c.FormValue("content")

	resp, err := h.service.CreateQuizFromDocument(c.Context(), userID(c), content, data)
	if err != nil {
		logger.Get().Warn("Quiz creation failed",
			zap.String("file", fileHeader.Filename),
			zap.Error(err),
		)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetQuiz godoc
// @Summary Get a quiz definition
// @Description Returns the full question list of a quiz for play
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.service.GetQuizDefinition(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(dto.QuizResponse{
		ID:             quiz.ID,
		PostID:         quiz.PostID,
		TotalQuestions: quiz.TotalQuestions,
		Questions:      quiz.Questions,
	})
}

// GetAttempt godoc
// @Summary Get the caller's attempt for a quiz
// @Description Returns the persisted score for the authenticated user
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.AttemptResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/attempt [get]
func (h *QuizHandler) GetAttempt(c *fiber.Ctx) error {
	resp, err := h.service.GetAttempt(c.Context(), c.Params("id"), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
