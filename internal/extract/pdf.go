package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/resume-scorer/internal/document"
	"github.com/spigell/resume-scorer/internal/ocr"
	"github.com/spigell/resume-scorer/internal/pdfdoc"
)

// extractPDF reads the text layer page by page. Pages that are empty or fail
// to parse are handed to the recognizer one at a time.
func extractPDF(ctx context.Context, doc *document.RawDocument, recognizer ocr.Recognizer) (Result, error) {
	result := Result{Strategy: StrategyPDF}

	pdf, err := pdfdoc.Open(doc.Data)
	if err != nil {
		return result, failure(document.FormatPDF, err)
	}

	result.Pages = pdf.NumPages()
	result.Info = pdf.Info()

	pages := make([]string, 0, result.Pages)
	for num := 1; num <= result.Pages; num++ {
		text, err := pageText(pdf, num)
		if err == nil && text != "" {
			pages = append(pages, text)
			continue
		}

		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		}

		ocrText := recognize(ctx, recognizer, ocr.Request{
			Data:      doc.Data,
			MediaType: ocr.MediaTypePDF,
			Page:      num,
		})
		if ocrText == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("page %d: no text after ocr", num))
			continue
		}
		pages = append(pages, ocrText)
	}

	result.Text = strings.Join(pages, "\n")
	return result, nil
}

// pageText prefers the plain text layer. GetPlainText joins lines without a
// separator, so single-line plain text is re-read by rows.
func pageText(pdf *pdfdoc.Doc, num int) (string, error) {
	text, err := pdf.PageText(num)
	text = strings.TrimSpace(text)
	if err == nil && strings.Contains(text, "\n") {
		return text, nil
	}

	rows, rowsErr := pdf.PageRows(num)
	if rows = strings.TrimSpace(rows); rowsErr == nil && rows != "" {
		return rows, nil
	}

	return text, err
}
