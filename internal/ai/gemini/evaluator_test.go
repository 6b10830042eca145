package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/scoring"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

var goJob = ai.Job{
	Title:        "Senior Go Developer",
	Description:  "Build backend services.",
	Requirements: "5+ years of Go, Kubernetes",
}

func TestEvaluatorEvaluate(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"score\": \"88%\", \"reasoning\": \"Matches skills\", \"technical_skills_match\": \"90%\"}\n```"}
	evaluator := NewEvaluator(stub, scoring.SchemaExtended, 0, zap.NewNop())

	assessment, err := evaluator.Evaluate(context.Background(), goJob, ai.Resume{
		Text:   "Jane Doe, Go engineer",
		Source: "https://example.com/cv.pdf",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score != "88%" || assessment.Reasoning != "Matches skills" {
		t.Fatalf("unexpected assessment: %+v", assessment.Record)
	}
	if assessment.TechnicalSkillsMatch != "90%" {
		t.Fatalf("expected breakdown to be kept, got %+v", assessment.Record)
	}
	if assessment.Raw != stub.response {
		t.Fatalf("expected raw response to be kept")
	}

	prompt := stub.lastPrompt
	for _, want := range []string{
		"JOB DESCRIPTION:\nSenior Go Developer\nBuild backend services.",
		"JOB REQUIREMENTS:\n5+ years of Go, Kubernetes",
		"RESUME CONTENT:\nJane Doe, Go engineer\nRESUME SOURCE: https://example.com/cv.pdf",
		"SCORING CRITERIA:",
		"EVALUATION FACTORS:",
		`"career_progression": "[percentage]%"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt is missing %q:\n%s", want, prompt)
		}
	}

	if strings.Contains(prompt, "IMPORTANT:") {
		t.Fatalf("warning must only be added for fallback descriptions")
	}
}

func TestEvaluatorLimitedContentWarning(t *testing.T) {
	stub := &stubGenerator{response: `{"score": "40%", "reasoning": "Limited info"}`}
	evaluator := NewEvaluator(stub, scoring.SchemaSimple, 0, nil)

	_, err := evaluator.Evaluate(context.Background(), goJob, ai.Resume{
		Text:                  "PDF Resume with 2 pages. File size: 1024 bytes.",
		IsFallbackDescription: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stub.lastPrompt, "File size: 1024 bytes.\n\nIMPORTANT: This resume appears to be a PDF with limited text extraction") {
		t.Fatalf("expected warning right after resume content:\n%s", stub.lastPrompt)
	}
	if strings.Contains(stub.lastPrompt, "RESUME SOURCE:") {
		t.Fatalf("source line must be omitted without a source")
	}
	if strings.Contains(stub.lastPrompt, "technical_skills_match") {
		t.Fatalf("simple schema must not ask for breakdown fields")
	}
}

func TestEvaluatorGenerationError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("boom")}
	evaluator := NewEvaluator(stub, scoring.SchemaExtended, 0, zap.NewNop())

	assessment, err := evaluator.Evaluate(context.Background(), goJob, ai.Resume{Text: "resume"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if assessment == nil || assessment.Score != "" || assessment.Reasoning != scoring.ReasonAnalysisFail {
		t.Fatalf("unexpected assessment on error: %+v", assessment)
	}
}

func TestEvaluatorUnparsableResponse(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	stub := &stubGenerator{response: "I am unable to help with that."}
	evaluator := NewEvaluator(stub, scoring.SchemaExtended, 0, zap.New(core))

	assessment, err := evaluator.Evaluate(context.Background(), goJob, ai.Resume{Text: "resume", Source: "cv.txt"})
	if err != nil {
		t.Fatalf("parse failures must not surface as errors: %v", err)
	}
	if assessment.Score != "" || assessment.Reasoning != scoring.ReasonNoJSON {
		t.Fatalf("unexpected assessment: %+v", assessment.Record)
	}

	if observed.FilterMessage("unusable evaluator response").Len() != 1 {
		t.Fatalf("expected a warning for the unusable response")
	}
}

func TestBuildPromptKeepsPlaceholdersInResumeText(t *testing.T) {
	prompt := buildPrompt(goJob, ai.Resume{Text: "literal {{RESPONSE_FORMAT}} text"}, scoring.SchemaSimple)

	if !strings.Contains(prompt, "literal {{RESPONSE_FORMAT}} text") {
		t.Fatalf("resume text must be inserted verbatim")
	}
}
