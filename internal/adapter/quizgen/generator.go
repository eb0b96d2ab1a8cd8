package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const systemPrompt = "You are an expert professor in the subject matter of the provided text."

const userPromptFormat = `Generate a quiz of %d questions based on the following text.
Return ONLY a valid JSON object with this structure:
{ "questions": [{ "question": "...", "options": ["..."], "answer": 0, "explanation": "..." }] }.
Each question must have between 2 and 4 options.
The 'answer' field must be the numeric index (0-based) of the correct option.
The 'explanation' field must briefly justify the correct answer.

Text to analyze:
%s`

// NewOpenAIModel builds the langchaingo client for an OpenAI-compatible
// endpoint from config.
func NewOpenAIModel(cfg config.LLMConfig) (llms.Model, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key cannot be empty")
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	return openai.New(opts...)
}

// Generator implements domain.QuizGenerationService on top of an injected
// langchaingo model, so tests can substitute a fake.
type Generator struct {
	model         llms.Model
	timeout       time.Duration
	maxInputChars int
	questionCount int
}

// NewGenerator creates a new Generator.
func NewGenerator(model llms.Model, cfg config.LLMConfig) *Generator {
	return &Generator{
		model:         model,
		timeout:       cfg.Timeout,
		maxInputChars: cfg.MaxInputChars,
		questionCount: cfg.QuestionCount,
	}
}

// questionPayload mirrors the JSON contract with the model. Answer is a
// pointer so a missing field is distinguishable from a literal zero.
type questionPayload struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      *int     `json:"answer"`
	Explanation string   `json:"explanation"`
}

type quizPayload struct {
	Questions []questionPayload `json:"questions"`
}

// GenerateQuestions builds the instruction prompt, invokes the model in
// JSON-object mode and validates the result. Any schema violation rejects
// the whole batch; nothing is coerced or dropped.
func (g *Generator) GenerateQuestions(ctx context.Context, text string) ([]domain.Question, error) {
	l := logger.Get()

	// Truncation is silent and by design: the model context is finite.
	prompt := fmt.Sprintf(userPromptFormat, g.questionCount, truncate(text, g.maxInputChars))

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.model.GenerateContent(callCtx, messages,
		llms.WithJSONMode(),
		llms.WithTemperature(0.2),
	)
	if err != nil {
		return nil, classifyCallError(ctx, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		l.Error("LLM returned no content")
		return nil, domain.NewGenerationMalformedError(fmt.Errorf("model returned no content"))
	}
	content := resp.Choices[0].Content

	var payload quizPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		l.Error("Failed to unmarshal LLM response", zap.Error(err), zap.String("response", content))
		return nil, domain.NewGenerationMalformedError(err)
	}

	if len(payload.Questions) == 0 {
		return nil, domain.NewGenerationSchemaError("model returned an empty question list")
	}

	questions := make([]domain.Question, 0, len(payload.Questions))
	for i, qp := range payload.Questions {
		if qp.Answer == nil {
			return nil, domain.NewGenerationSchemaError(fmt.Sprintf("question %d is missing the answer field", i))
		}
		q := domain.Question{
			Prompt:      strings.TrimSpace(qp.Question),
			Options:     qp.Options,
			Answer:      *qp.Answer,
			Explanation: strings.TrimSpace(qp.Explanation),
		}
		if err := q.Validate(); err != nil {
			l.Warn("Generated question failed validation", zap.Int("index", i), zap.Error(err))
			return nil, err
		}
		questions = append(questions, q)
	}

	l.Info("Generated quiz questions", zap.Int("count", len(questions)))
	return questions, nil
}

// classifyCallError separates caller cancellation, call timeouts and other
// service failures. Timeouts and transport errors are transient; the retry
// decorator keys off GENERATION_UNAVAILABLE.
func classifyCallError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		// The caller went away; nothing to retry or report.
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewGenerationUnavailableError(fmt.Errorf("model call timed out: %w", err))
	}
	if isAuthError(err) {
		return domain.NewError(domain.CodeUnauthorized, "Generative model rejected the credentials", err)
	}
	return domain.NewGenerationUnavailableError(err)
}

func isAuthError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "401") ||
		strings.Contains(msg, "403") ||
		strings.Contains(strings.ToLower(msg), "api key")
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := s[:max]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
