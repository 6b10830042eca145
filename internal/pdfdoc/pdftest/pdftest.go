// Package pdftest builds small single-page PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Doc describes the page to build.
type Doc struct {
	Title  string
	Author string
	// Lines are drawn top to bottom in Helvetica. Without lines the page has
	// no content stream.
	Lines []string
}

func (d Doc) Bytes() []byte {
	page := "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>"
	if len(d.Lines) > 0 {
		page = "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 6 0 R >>"
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		page,
		d.info(),
	}

	if len(d.Lines) > 0 {
		content := d.content()
		objects = append(objects,
			"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, 0, len(objects))
	for i, obj := range objects {
		offsets = append(offsets, b.Len())
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, offset := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R /Info 4 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return b.Bytes()
}

func (d Doc) info() string {
	var b strings.Builder
	b.WriteString("<<")
	if d.Title != "" {
		fmt.Fprintf(&b, " /Title (%s)", escape(d.Title))
	}
	if d.Author != "" {
		fmt.Fprintf(&b, " /Author (%s)", escape(d.Author))
	}
	b.WriteString(" >>")
	return b.String()
}

func (d Doc) content() string {
	var b strings.Builder
	b.WriteString("BT\n/F1 12 Tf\n72 720 Td\n")
	for i, line := range d.Lines {
		if i > 0 {
			b.WriteString("0 -20 Td\n")
		}
		fmt.Fprintf(&b, "(%s) Tj\n", escape(line))
	}
	b.WriteString("ET")
	return b.String()
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(s)
}
