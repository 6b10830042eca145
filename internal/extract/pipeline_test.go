package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-scorer/internal/document"
	"github.com/spigell/resume-scorer/internal/ocr"
	"github.com/spigell/resume-scorer/internal/pdfdoc/pdftest"
)

type stubRecognizer struct {
	byPage   map[int]string
	requests []ocr.Request
}

func (s *stubRecognizer) Recognize(_ context.Context, req ocr.Request) (string, error) {
	s.requests = append(s.requests, req)
	return s.byPage[req.Page], nil
}

var janeResumePDF = pdftest.Doc{Title: "Jane Resume", Author: "Jane Doe"}

func TestPipelinePlainTextEndToEnd(t *testing.T) {
	pipeline := New(nil, Limits{}, zap.NewNop())

	out := pipeline.Extract(context.Background(), &document.RawDocument{Data: []byte("Name: Jane\nSkills: X")})

	if out.Format != document.FormatPlainText {
		t.Fatalf("expected plain text, got %s", out.Format)
	}
	if out.Text != "Name: Jane\nSkills: X" {
		t.Fatalf("unexpected text: %q", out.Text)
	}
	if out.IsFallbackDescription || out.Truncated {
		t.Fatalf("unexpected flags: %+v", out)
	}
	if out.Strategy != StrategyPlainText {
		t.Fatalf("unexpected strategy: %s", out.Strategy)
	}
	if out.CharCount != utf8.RuneCountInString(out.Text) {
		t.Fatalf("char count mismatch: %d", out.CharCount)
	}
}

func TestPipelineShortPDFUsesOCR(t *testing.T) {
	ocrText := strings.Repeat("Experienced Go engineer. ", 4)
	stub := &stubRecognizer{byPage: map[int]string{0: ocrText}}

	out := New(stub, Limits{}, nil).Extract(context.Background(), &document.RawDocument{Data: []byte("%PDF-1.4 truncated download")})

	if out.Strategy != StrategyOCR {
		t.Fatalf("expected ocr strategy, got %s", out.Strategy)
	}
	if out.Text != strings.TrimSpace(ocrText) {
		t.Fatalf("unexpected text: %q", out.Text)
	}
	if out.IsFallbackDescription {
		t.Fatalf("ocr text must not be flagged as fallback")
	}

	last := stub.requests[len(stub.requests)-1]
	if last.MediaType != ocr.MediaTypePDF || last.Page != 0 {
		t.Fatalf("expected whole-document pdf request, got %+v", last)
	}
}

func TestPipelineShortOCRFallsBackToDescription(t *testing.T) {
	stub := &stubRecognizer{byPage: map[int]string{0: "too short"}}
	data := []byte("%PDF-1.4 broken")

	out := New(stub, Limits{}, nil).Extract(context.Background(), &document.RawDocument{Data: data})

	if !out.IsFallbackDescription || out.Strategy != StrategyFallback {
		t.Fatalf("expected fallback description, got %+v", out)
	}

	if !strings.HasPrefix(out.Text, "PDF Resume with 0 pages. File size: 15 bytes.") {
		t.Fatalf("unexpected description: %q", out.Text)
	}
}

func TestPipelinePDFWithoutTextLayer(t *testing.T) {
	stub := &stubRecognizer{byPage: map[int]string{}}
	data := janeResumePDF.Bytes()

	out := New(stub, Limits{}, nil).Extract(context.Background(), &document.RawDocument{Data: data})

	if !out.IsFallbackDescription {
		t.Fatalf("expected fallback description, got %+v", out)
	}

	expected := fmt.Sprintf("PDF Resume with 1 pages. Title: Jane Resume. Author: Jane Doe. File size: %d bytes.", len(data))
	if !strings.HasPrefix(out.Text, expected) {
		t.Fatalf("expected prefix %q, got %q", expected, out.Text)
	}

	if len(stub.requests) != 2 || stub.requests[0].Page != 1 || stub.requests[1].Page != 0 {
		t.Fatalf("expected page then whole-document ocr, got %+v", stub.requests)
	}
}

func TestPipelinePDFTextLayer(t *testing.T) {
	stub := &stubRecognizer{byPage: map[int]string{}}
	data := pdftest.Doc{
		Title: "Jane Resume",
		Lines: []string{"Jane Doe Senior Go Engineer", "Ten years building distributed systems"},
	}.Bytes()

	out := New(stub, Limits{}, nil).Extract(context.Background(), &document.RawDocument{Data: data})

	if out.Format != document.FormatPDF || out.Strategy != StrategyPDF || out.IsFallbackDescription {
		t.Fatalf("expected text layer extraction, got %+v", out)
	}
	for _, want := range []string{"Jane Doe Senior Go Engineer", "Ten years building distributed systems"} {
		if !strings.Contains(out.Text, want) {
			t.Fatalf("missing %q in %q", want, out.Text)
		}
	}
	if strings.Contains(out.Text, "EngineerTen") {
		t.Fatalf("lines were glued together: %q", out.Text)
	}
	if len(stub.requests) != 0 {
		t.Fatalf("text layer pages must not reach ocr, got %+v", stub.requests)
	}
}

func TestPipelinePDFPageOCR(t *testing.T) {
	pageText := "Jane Doe, Staff Engineer, ten years of distributed systems in Go."
	stub := &stubRecognizer{byPage: map[int]string{1: pageText}}

	out := New(stub, Limits{}, nil).Extract(context.Background(), &document.RawDocument{Data: janeResumePDF.Bytes()})

	if out.Text != pageText || out.Strategy != StrategyPDF {
		t.Fatalf("expected page ocr text via pdf strategy, got %+v", out)
	}
	if len(stub.requests) != 1 {
		t.Fatalf("expected only the page request, got %d", len(stub.requests))
	}
}

func TestPipelineWithoutRecognizerNeverEmpty(t *testing.T) {
	inputs := [][]byte{
		nil,
		bytes.Repeat([]byte{0x00, 0xFF, 0x01}, 50),
		[]byte("%PDF-"),
		{0xFF, 0xD8, 0xFF, 0xE0},
		[]byte("PK\x03\x04 not a zip"),
	}

	for _, data := range inputs {
		out := New(nil, Limits{}, nil).Extract(context.Background(), &document.RawDocument{Data: data})
		if strings.TrimSpace(out.Text) == "" {
			t.Fatalf("empty output for %q", data)
		}
		if !out.IsFallbackDescription {
			t.Fatalf("expected fallback description for %q, got %+v", data, out)
		}
	}

	out := New(nil, Limits{}, nil).Extract(context.Background(), nil)
	if !strings.HasPrefix(out.Text, "Unrecognized Resume. File size: 0 bytes.") {
		t.Fatalf("unexpected description for nil document: %q", out.Text)
	}
}

func TestPipelineImageRecognizedOnce(t *testing.T) {
	stub := &stubRecognizer{byPage: map[int]string{0: strings.Repeat("Jane Doe resume text ", 5)}}
	png := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 32)...)

	out := New(stub, Limits{}, nil).Extract(context.Background(), &document.RawDocument{Data: png})

	if out.Strategy != StrategyOCR || out.Format != document.FormatImage {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(stub.requests) != 1 || stub.requests[0].MediaType != ocr.MediaTypePNG {
		t.Fatalf("expected one png request, got %+v", stub.requests)
	}
}

func TestPipelineTruncates(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 100; i++ {
		b.WriteString(strings.Repeat("a", 900))
		b.WriteString("\n")
	}

	out := New(nil, Limits{}, nil).Extract(context.Background(), &document.RawDocument{Data: []byte(b.String())})

	if !out.Truncated {
		t.Fatalf("expected truncation")
	}
	if out.CharCount != DefaultLimits().MaxChars {
		t.Fatalf("expected %d chars, got %d", DefaultLimits().MaxChars, out.CharCount)
	}
	if !strings.HasSuffix(out.Text, TruncationMarker) {
		t.Fatalf("expected truncation marker")
	}
}

func TestPipelineIdempotent(t *testing.T) {
	docs := [][]byte{
		[]byte("Name: Jane\nSkills: X"),
		[]byte("%PDF-1.4 broken"),
		[]byte("<html><body><p>Jane</p></body></html>"),
	}

	pipeline := New(&stubRecognizer{}, Limits{}, nil)
	for _, data := range docs {
		first := pipeline.Extract(context.Background(), &document.RawDocument{Data: data})
		second := pipeline.Extract(context.Background(), &document.RawDocument{Data: data})
		if first.Text != second.Text || first.Strategy != second.Strategy {
			t.Fatalf("non-deterministic outcome for %q: %+v vs %+v", data, first, second)
		}
	}
}

func TestPipelineDeclaredExtensionOnlyForUnknown(t *testing.T) {
	docx := buildDOCX(t, `<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>`)

	out := New(nil, Limits{}, nil).Extract(context.Background(), &document.RawDocument{Data: docx, DeclaredExt: ".pdf"})
	if out.Format != document.FormatDOCX || out.Text != "Jane Doe" {
		t.Fatalf("expected sniffed docx, got %+v", out)
	}
}

func TestPipelineLogsSteps(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	out := New(nil, Limits{}, zap.New(core)).Extract(context.Background(), &document.RawDocument{
		Source: "cv.bin",
		Data:   bytes.Repeat([]byte{0x00}, 10),
	})

	names := make([]string, 0, len(out.Steps))
	for _, step := range out.Steps {
		names = append(names, step.Name)
	}
	if strings.Join(names, ",") != "extract,ocr,fallback" {
		t.Fatalf("unexpected steps: %v", names)
	}

	done := observed.FilterMessage("document extracted").All()
	if len(done) != 1 {
		t.Fatalf("expected one summary entry, got %d", len(done))
	}
	ctx := done[0].ContextMap()
	if ctx["source"] != "cv.bin" || ctx["strategy"] != string(StrategyFallback) {
		t.Fatalf("unexpected summary fields: %v", ctx)
	}
}
