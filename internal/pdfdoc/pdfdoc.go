// Package pdfdoc wraps github.com/ledongthuc/pdf with panic recovery. The
// reader panics on some malformed inputs, so every call is guarded.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrEmptyPage = errors.New("page has no content")

type Doc struct {
	reader *pdf.Reader
	size   int
}

// Info holds the document information dictionary entries we report.
type Info struct {
	Title  string
	Author string
}

func Open(data []byte) (doc *Doc, err error) {
	defer recoverInto(&err, "open pdf")

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	return &Doc{reader: reader, size: len(data)}, nil
}

// NumPages returns the page count, or 0 when the page tree is unreadable.
func (d *Doc) NumPages() (n int) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	return d.reader.NumPage()
}

// PageText returns the plain text layer of a 1-based page.
func (d *Doc) PageText(num int) (text string, err error) {
	defer recoverInto(&err, fmt.Sprintf("page %d", num))

	page := d.reader.Page(num)
	if page.V.IsNull() {
		return "", ErrEmptyPage
	}

	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", num, err)
	}

	return text, nil
}

// PageRows re-reads a 1-based page row by row, joining the glyph runs of each
// row with spaces. Layouts that defeat GetPlainText often survive this.
func (d *Doc) PageRows(num int) (text string, err error) {
	defer recoverInto(&err, fmt.Sprintf("page %d rows", num))

	page := d.reader.Page(num)
	if page.V.IsNull() {
		return "", ErrEmptyPage
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return "", fmt.Errorf("page %d rows: %w", num, err)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		parts := make([]string, 0, len(row.Content))
		for _, word := range row.Content {
			if s := strings.TrimSpace(word.S); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			lines = append(lines, strings.Join(parts, " "))
		}
	}

	return strings.Join(lines, "\n"), nil
}

// Info reads Title and Author from the trailer. Missing entries are empty.
func (d *Doc) Info() (info Info) {
	defer func() {
		if recover() != nil {
			info = Info{}
		}
	}()

	dict := d.reader.Trailer().Key("Info")
	if dict.IsNull() {
		return Info{}
	}

	return Info{
		Title:  strings.TrimSpace(dict.Key("Title").Text()),
		Author: strings.TrimSpace(dict.Key("Author").Text()),
	}
}

func recoverInto(err *error, op string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: pdf reader panic: %v", op, r)
	}
}
