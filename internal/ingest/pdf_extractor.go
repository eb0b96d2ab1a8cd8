package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// MinTextLength is the minimum trimmed text length an upload must yield.
// Anything shorter is treated as an image scan with no text layer.
const MinTextLength = 20

// PDFExtractor implements domain.TextExtractor over an in-memory PDF
// buffer. The underlying parser both returns errors and panics on hostile
// input; all of that is contained here and converted to typed errors, so a
// malformed upload can never take the process down.
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDFExtractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText parses data as a PDF and returns its plain text.
func (e *PDFExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", domain.NewDocumentCorruptError(fmt.Errorf("empty buffer"))
	}

	text, err := extractPlainText(data)
	if err != nil {
		logger.Get().Warn("PDF extraction failed", zap.Error(err), zap.Int("size", len(data)))
		return "", domain.NewDocumentCorruptError(err)
	}

	return validateExtractedText(text)
}

// extractPlainText runs the parser with a panic barrier.
func extractPlainText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	return buf.String(), nil
}

// validateExtractedText applies the empty-or-scanned threshold.
func validateExtractedText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < MinTextLength {
		return "", domain.NewDocumentEmptyOrScannedError()
	}
	return trimmed, nil
}
