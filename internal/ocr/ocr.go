package ocr

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypePNG  = "image/png"
	MediaTypeJPEG = "image/jpeg"
)

var (
	// ErrUnavailable means the recognizer is not configured (no credentials or
	// no backend). Callers treat it as "no text".
	ErrUnavailable = errors.New("ocr unavailable")
	// ErrUnsupported means the recognizer cannot read this media type.
	ErrUnsupported = errors.New("ocr unsupported media type")
)

// Request describes what to read. Page is 1-based; 0 means the whole document.
type Request struct {
	Data      []byte
	MediaType string
	Page      int
}

type Recognizer interface {
	Recognize(ctx context.Context, req Request) (string, error)
}

// Chain tries recognizers in order and returns the first non-empty text.
// Failures of individual tiers are logged and never returned.
type Chain struct {
	tiers  []Tier
	logger *zap.Logger
}

// Tier is a named recognizer. The name is used only in logs.
type Tier struct {
	Name       string
	Recognizer Recognizer
}

func NewChain(logger *zap.Logger, tiers ...Tier) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}

	active := make([]Tier, 0, len(tiers))
	for _, tier := range tiers {
		if tier.Recognizer == nil {
			continue
		}
		active = append(active, tier)
	}

	return &Chain{tiers: active, logger: logger}
}

// Recognize returns ("", ErrUnavailable) only when the chain has no tiers.
// Otherwise it returns the first non-empty text, or "" when every tier came
// up empty.
func (c *Chain) Recognize(ctx context.Context, req Request) (string, error) {
	if c == nil || len(c.tiers) == 0 {
		return "", ErrUnavailable
	}

	for _, tier := range c.tiers {
		text, err := tier.Recognizer.Recognize(ctx, req)
		text = strings.TrimSpace(text)

		fields := []zap.Field{
			zap.String("tier", tier.Name),
			zap.Int("page", req.Page),
			zap.String("media_type", req.MediaType),
		}

		switch {
		case errors.Is(err, ErrUnavailable), errors.Is(err, ErrUnsupported):
			c.logger.Debug("ocr tier skipped", append(fields, zap.Error(err))...)
			continue
		case err != nil:
			c.logger.Warn("ocr tier failed", append(fields, zap.Error(err))...)
			continue
		case text == "":
			c.logger.Debug("ocr tier returned no text", fields...)
			continue
		}

		c.logger.Debug("ocr tier succeeded", append(fields, zap.Int("chars", utf8.RuneCountInString(text)))...)
		return text, nil
	}

	return "", nil
}

// collapseWhitespace joins all whitespace-separated tokens with single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
