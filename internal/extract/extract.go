package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/resume-scorer/internal/document"
	"github.com/spigell/resume-scorer/internal/ocr"
	"github.com/spigell/resume-scorer/internal/pdfdoc"
)

// Strategy names the tier that produced the final text.
type Strategy string

const (
	StrategyPDF             Strategy = "pdf_text_layer"
	StrategyDOCX            Strategy = "docx"
	StrategyLegacyDOC       Strategy = "legacy_doc"
	StrategyLegacyHeuristic Strategy = "legacy_doc_heuristic"
	StrategyPlainText       Strategy = "plain_text"
	StrategyHTML            Strategy = "html"
	StrategyOCR             Strategy = "ocr"
	StrategyFallback        Strategy = "fallback_description"
	StrategyNone            Strategy = "none"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrExtractionFailure = errors.New("extraction failure")
)

// Error is returned by extractors. It is always recoverable by the cascade.
type Error struct {
	Format document.Format
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %s: %v", strings.ToLower(string(e.Format)), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func failure(format document.Format, err error) error {
	return &Error{Format: format, Err: fmt.Errorf("%w: %w", ErrExtractionFailure, err)}
}

// Result is what a single extractor produced.
type Result struct {
	Text     string
	Strategy Strategy
	// Pages is known for paged formats only.
	Pages int
	Info  pdfdoc.Info
	// OCRAttempted is set when the extractor already asked the recognizer
	// about the whole document.
	OCRAttempted bool
	Warnings     []string
}

// Extractor turns a document into text. Only the PDF and image extractors use
// the recognizer.
type Extractor func(ctx context.Context, doc *document.RawDocument, recognizer ocr.Recognizer) (Result, error)

var extractors = map[document.Format]Extractor{
	document.FormatPDF:       extractPDF,
	document.FormatDOCX:      extractDOCX,
	document.FormatLegacyDOC: extractLegacyDOC,
	document.FormatPlainText: extractText,
	document.FormatHTML:      extractHTML,
	document.FormatImage:     extractImage,
}

// For returns the extractor registered for format.
func For(format document.Format) (Extractor, bool) {
	extractor, ok := extractors[format]
	return extractor, ok
}

func recognize(ctx context.Context, recognizer ocr.Recognizer, req ocr.Request) string {
	if recognizer == nil || req.MediaType == "" {
		return ""
	}

	text, err := recognizer.Recognize(ctx, req)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(text)
}

// nonEmptyLines trims every line, drops blank ones and keeps at most limit
// lines (no limit when limit <= 0).
func nonEmptyLines(text string, limit int) []string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
		if limit > 0 && len(kept) == limit {
			break
		}
	}
	return kept
}
