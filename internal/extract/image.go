package extract

import (
	"context"
	"errors"

	"github.com/spigell/resume-scorer/internal/document"
	"github.com/spigell/resume-scorer/internal/ocr"
)

// extractImage has no text layer to read, so the image goes straight to the
// recognizer.
func extractImage(ctx context.Context, doc *document.RawDocument, recognizer ocr.Recognizer) (Result, error) {
	result := Result{Strategy: StrategyOCR, Pages: 1, OCRAttempted: true}

	mediaType := document.ImageMediaType(doc.Data)
	if mediaType == "" {
		mediaType = imageTypeFromExtension(doc.DeclaredExt)
	}
	if mediaType == "" {
		return result, failure(document.FormatImage, errors.New("unrecognized image encoding"))
	}

	result.Text = recognize(ctx, recognizer, ocr.Request{Data: doc.Data, MediaType: mediaType})
	return result, nil
}

func imageTypeFromExtension(ext string) string {
	switch ext {
	case ".png":
		return ocr.MediaTypePNG
	case ".jpg", ".jpeg":
		return ocr.MediaTypeJPEG
	default:
		return ""
	}
}
