package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/spigell/resume-scorer/internal/document"
	"github.com/spigell/resume-scorer/internal/ocr"
)

func extractHTML(_ context.Context, doc *document.RawDocument, _ ocr.Recognizer) (Result, error) {
	result := Result{Strategy: StrategyHTML}

	page, err := goquery.NewDocumentFromReader(bytes.NewReader(doc.Data))
	if err != nil {
		return result, failure(document.FormatHTML, fmt.Errorf("parse html: %w", err))
	}

	page.Find("script, style, noscript").Remove()

	result.Text = strings.Join(htmlChunks(page.Text()), "\n")
	return result, nil
}

// htmlChunks splits visible text into lines and double-space separated
// phrases, dropping the empty ones.
func htmlChunks(text string) []string {
	var chunks []string
	for _, line := range strings.Split(text, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}
	return chunks
}
