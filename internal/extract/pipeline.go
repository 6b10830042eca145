package extract

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/document"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/ocr"
)

// Outcome is the result of running the cascade over one document.
type Outcome struct {
	Text                  string          `json:"text"`
	Strategy              Strategy        `json:"strategy"`
	CharCount             int             `json:"char_count"`
	IsFallbackDescription bool            `json:"is_fallback_description"`
	Format                document.Format `json:"format"`
	Truncated             bool            `json:"truncated"`
	Steps                 []Step          `json:"steps,omitempty"`
}

// Step records one stage of the cascade.
type Step struct {
	Name  string `json:"name"`
	Chars int    `json:"chars"`
	Note  string `json:"note,omitempty"`
}

// Pipeline runs sniff, extract, OCR and fallback, then normalizes the text.
// It holds no per-document state and never fails.
type Pipeline struct {
	recognizer ocr.Recognizer
	limits     Limits
	logger     *zap.Logger
}

func New(recognizer ocr.Recognizer, limits Limits, log *zap.Logger) *Pipeline {
	return &Pipeline{
		recognizer: recognizer,
		limits:     limits.withDefaults(),
		logger:     logger.WithFields(log),
	}
}

// Extract always returns non-empty text of at most MaxChars characters.
func (p *Pipeline) Extract(ctx context.Context, doc *document.RawDocument) *Outcome {
	if doc == nil {
		doc = &document.RawDocument{}
	}

	format := document.Sniff(doc.Data, doc.DeclaredExt)
	log := logger.WithFields(p.logger, logger.DocumentFields(doc.Source, string(format), "")...)
	out := &Outcome{Format: format}

	result, err := p.runExtractor(ctx, format, doc)
	for _, warning := range result.Warnings {
		log.Debug("extractor warning", zap.String("warning", warning))
	}

	text, guarded := SizeGuard(Clean(result.Text), p.limits)
	out.record(log, "extract", text, stepNote(err, guarded))
	strategy := result.Strategy

	readable := !p.needsOCR(format, text, err)

	if !readable && !result.OCRAttempted {
		ocrText, ocrGuarded := SizeGuard(Clean(p.recognizeDocument(ctx, format, doc)), p.limits)
		out.record(log, "ocr", ocrText, stepNote(nil, ocrGuarded))
		if runeLen(ocrText) >= p.limits.MinChars {
			text, strategy, readable = ocrText, StrategyOCR, true
		}
	}

	if !readable {
		text = describe(format, doc.Size(), result)
		strategy = StrategyFallback
		out.IsFallbackDescription = true
		out.record(log, "fallback", text, "")
	}

	text, out.Truncated = Truncate(text, p.limits)
	if out.Truncated {
		out.record(log, "truncate", text, "")
	}

	out.Text = text
	out.Strategy = strategy
	out.CharCount = runeLen(text)

	log.Info("document extracted",
		zap.String(logger.FieldStrategy, string(strategy)),
		zap.Int("chars", out.CharCount),
		zap.Bool("fallback_description", out.IsFallbackDescription),
		zap.Bool("truncated", out.Truncated),
	)

	return out
}

func (p *Pipeline) runExtractor(ctx context.Context, format document.Format, doc *document.RawDocument) (Result, error) {
	extractor, ok := For(format)
	if !ok {
		return Result{Strategy: StrategyNone}, &Error{Format: format, Err: ErrUnsupportedFormat}
	}
	return extractor(ctx, doc, p.recognizer)
}

// needsOCR reports whether text is too thin to trust. Text-native formats keep
// short but genuine content; only image-capable or unreadable inputs and
// failed extractions escalate.
func (p *Pipeline) needsOCR(format document.Format, text string, err error) bool {
	if text == "" || err != nil {
		return true
	}

	switch format {
	case document.FormatPDF, document.FormatImage, document.FormatUnknown:
		return runeLen(text) < p.limits.MinChars
	default:
		return false
	}
}

func (p *Pipeline) recognizeDocument(ctx context.Context, format document.Format, doc *document.RawDocument) string {
	var mediaType string
	switch format {
	case document.FormatPDF:
		mediaType = ocr.MediaTypePDF
	case document.FormatImage:
		mediaType = document.ImageMediaType(doc.Data)
	}

	return recognize(ctx, p.recognizer, ocr.Request{Data: doc.Data, MediaType: mediaType})
}

func (o *Outcome) record(log *zap.Logger, name, text, note string) {
	step := Step{Name: name, Chars: runeLen(text), Note: note}
	o.Steps = append(o.Steps, step)

	fields := []zap.Field{zap.String("name", step.Name), zap.Int("chars", step.Chars)}
	if note != "" {
		fields = append(fields, zap.String("note", note))
	}
	log.Debug("extraction step", fields...)
}

func stepNote(err error, guarded bool) string {
	var notes []string
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			notes = append(notes, "unsupported format")
		} else {
			notes = append(notes, err.Error())
		}
	}
	if guarded {
		notes = append(notes, "size guard applied")
	}
	return strings.Join(notes, "; ")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
