package ocr

import (
	"context"
	"strings"

	"github.com/spigell/resume-scorer/internal/pdfdoc"
)

// TextLayer is the local tier: it re-reads the PDF text layer row by row. It
// needs no network and only handles PDFs.
type TextLayer struct{}

func NewTextLayer() *TextLayer {
	return &TextLayer{}
}

func (t *TextLayer) Recognize(_ context.Context, req Request) (string, error) {
	if req.MediaType != MediaTypePDF {
		return "", ErrUnsupported
	}

	doc, err := pdfdoc.Open(req.Data)
	if err != nil {
		return "", err
	}

	if req.Page > 0 {
		return doc.PageRows(req.Page)
	}

	var pages []string
	for i := 1; i <= doc.NumPages(); i++ {
		text, err := doc.PageRows(i)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n"), nil
}
