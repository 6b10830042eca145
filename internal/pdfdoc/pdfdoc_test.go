package pdfdoc

import (
	"errors"
	"strings"
	"testing"

	"github.com/spigell/resume-scorer/internal/pdfdoc/pdftest"
)

func TestOpenRejectsGarbage(t *testing.T) {
	if _, err := Open([]byte("%PDF-1.4 nothing else")); err == nil {
		t.Fatalf("expected error for truncated pdf")
	}
	if _, err := Open(nil); err == nil {
		t.Fatalf("expected error for empty data")
	}
}

func TestBlankPage(t *testing.T) {
	doc, err := Open(pdftest.Doc{Title: "Resume"}.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.NumPages() != 1 {
		t.Fatalf("expected one page, got %d", doc.NumPages())
	}

	if info := doc.Info(); info.Title != "Resume" || info.Author != "" {
		t.Fatalf("unexpected info: %+v", info)
	}

	if text, _ := doc.PageText(1); text != "" {
		t.Fatalf("expected no text on a blank page, got %q", text)
	}

	if _, err := doc.PageText(2); !errors.Is(err, ErrEmptyPage) {
		t.Fatalf("expected empty page error for missing page, got %v", err)
	}
}

func TestTextLayer(t *testing.T) {
	doc, err := Open(pdftest.Doc{
		Author: "Jane Doe",
		Lines:  []string{"Jane Doe Senior Go Engineer", "Ten years building distributed systems"},
	}.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := doc.PageText(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Senior Go Engineer") || !strings.Contains(text, "distributed systems") {
		t.Fatalf("unexpected plain text: %q", text)
	}

	rows, err := doc.PageRows(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(rows, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two rows, got %q", rows)
	}
	for _, want := range []string{"Jane Doe Senior Go Engineer", "Ten years building distributed systems"} {
		if lines[0] != want && lines[1] != want {
			t.Fatalf("missing row %q in %q", want, rows)
		}
	}

	if info := doc.Info(); info.Author != "Jane Doe" || info.Title != "" {
		t.Fatalf("unexpected info: %+v", info)
	}
}
