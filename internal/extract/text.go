package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/spigell/resume-scorer/internal/document"
	"github.com/spigell/resume-scorer/internal/ocr"
)

const textLineLimit = 100

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type textEncoding struct {
	name   string
	decode func([]byte) (string, error)
}

// textEncodings are tried in order; the first decoder that succeeds wins.
var textEncodings = []textEncoding{
	{name: "utf-8", decode: decodeUTF8},
	{name: "latin-1", decode: decodeCharmap(charmap.ISO8859_1)},
	{name: "cp1252", decode: decodeCharmap(charmap.Windows1252)},
	{name: "iso-8859-1", decode: decodeCharmap(charmap.ISO8859_1)},
}

func extractText(_ context.Context, doc *document.RawDocument, _ ocr.Recognizer) (Result, error) {
	result := Result{Strategy: StrategyPlainText}

	content, encoding, err := decodeText(doc.Data)
	if err != nil {
		return result, failure(document.FormatPlainText, err)
	}

	if encoding != textEncodings[0].name {
		result.Warnings = append(result.Warnings, "decoded as "+encoding)
	}

	result.Text = strings.Join(nonEmptyLines(content, textLineLimit), "\n")
	return result, nil
}

func decodeText(data []byte) (string, string, error) {
	var errs []error
	for _, enc := range textEncodings {
		content, err := enc.decode(data)
		if err == nil {
			return content, enc.name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", enc.name, err))
	}
	return "", "", errors.Join(errs...)
}

func decodeUTF8(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", errors.New("invalid utf-8")
	}
	return string(data), nil
}

func decodeCharmap(cm *charmap.Charmap) func([]byte) (string, error) {
	return func(data []byte) (string, error) {
		decoded, err := cm.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(decoded), nil
	}
}
