package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spigell/resume-scorer/internal/document"
	"github.com/spigell/resume-scorer/internal/ocr"
)

const docxBodyPart = "word/document.xml"

var errNoDocumentPart = errors.New("archive has no " + docxBodyPart)

func extractDOCX(_ context.Context, doc *document.RawDocument, _ ocr.Recognizer) (Result, error) {
	result := Result{Strategy: StrategyDOCX}

	archive, err := zip.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return result, failure(document.FormatDOCX, fmt.Errorf("open archive: %w", err))
	}

	var part *zip.File
	for _, f := range archive.File {
		if f.Name == docxBodyPart {
			part = f
			break
		}
	}
	if part == nil {
		return result, failure(document.FormatDOCX, errNoDocumentPart)
	}

	rc, err := part.Open()
	if err != nil {
		return result, failure(document.FormatDOCX, fmt.Errorf("open %s: %w", docxBodyPart, err))
	}
	defer rc.Close()

	paragraphs, err := docxParagraphs(rc)
	if err != nil {
		return result, failure(document.FormatDOCX, err)
	}

	result.Text = strings.Join(paragraphs, "\n")
	return result, nil
}

// docxParagraphs walks WordprocessingML and returns trimmed, non-empty
// paragraphs in document order. Runs inside w:t are concatenated, w:tab
// becomes a tab and w:br / w:cr become newlines.
func docxParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
		depth      int
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", docxBodyPart, err)
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				if depth == 0 {
					current.Reset()
				}
				depth++
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				if depth > 0 {
					depth--
				}
				if depth == 0 {
					if text := strings.TrimSpace(current.String()); text != "" {
						paragraphs = append(paragraphs, text)
					}
					current.Reset()
				}
			}
		case xml.CharData:
			if inText {
				current.Write(el)
			}
		}
	}

	return paragraphs, nil
}
