package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/scoring"
	"github.com/spigell/resume-scorer/internal/utils"
)

// SystemInstruction frames every evaluation request.
const SystemInstruction = "You are an expert HR recruiter who evaluates resumes objectively."

const limitedContentWarning = "\n\nIMPORTANT: This resume appears to be a PDF with limited text extraction (likely contains images or complex formatting). Please evaluate based on available information and note the limitation in your reasoning."

const simpleResponseFormat = `Please provide your response in JSON format:
{
    "score": "[percentage]%" or "OVERQUALIFIED",
    "reasoning": "[detailed explanation of the score]"
}

Example responses:
{"score": "85%", "reasoning": "Strong match with required skills and experience level"}
{"score": "OVERQUALIFIED", "reasoning": "Candidate has 15 years experience for a junior role"}`

const extendedResponseFormat = `Please provide your response in JSON format:
{
    "score": "[percentage]%" or "OVERQUALIFIED",
    "reasoning": "[detailed explanation of the score]",
    "technical_skills_match": "[percentage]%",
    "experience_relevance": "[percentage]%",
    "soft_skills_cultural_fit": "[percentage]%",
    "education_certifications": "[percentage]%",
    "career_progression": "[percentage]%"
}

Example responses:
{"score": "85%", "reasoning": "Strong match with required skills and experience level", "technical_skills_match": "90%", "experience_relevance": "85%", "soft_skills_cultural_fit": "80%", "education_certifications": "75%", "career_progression": "85%"}
{"score": "OVERQUALIFIED", "reasoning": "Candidate has 15 years experience for a junior role", "technical_skills_match": "100%", "experience_relevance": "60%", "soft_skills_cultural_fit": "70%", "education_certifications": "90%", "career_progression": "100%"}`

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

var _ ai.Evaluator = (*Evaluator)(nil)

// Evaluator scores resumes with a Gemini model.
type Evaluator struct {
	generator contentGenerator
	schema    scoring.Schema
	logger    *zap.Logger
	maxLogLen int
}

func NewEvaluator(generator contentGenerator, schema scoring.Schema, maxLogLength int, logger *zap.Logger) *Evaluator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if schema == "" {
		schema = scoring.SchemaExtended
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Evaluator{
		generator: generator,
		schema:    schema,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Evaluate always returns an assessment. On a generation failure the
// assessment carries the fixed analysis-error reasoning and the error is
// returned alongside it.
func (e *Evaluator) Evaluate(ctx context.Context, job ai.Job, resume ai.Resume) (*ai.Assessment, error) {
	prompt := buildPrompt(job, resume, e.schema)

	e.logger.Debug("gemini generate content request",
		zap.String("source", resume.Source),
		zap.Bool("fallback_description", resume.IsFallbackDescription),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return &ai.Assessment{Record: scoring.Record{Reasoning: scoring.ReasonAnalysisFail}}, fmt.Errorf("evaluate resume: %w", err)
	}

	e.logger.Debug("gemini generate content response",
		zap.String("source", resume.Source),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	record, report, err := scoring.Parse(raw, e.schema)
	if err != nil {
		e.logger.Warn("unusable evaluator response",
			zap.String("source", resume.Source),
			zap.Error(err),
		)
	}
	if len(report.Invalid) > 0 {
		e.logger.Debug("rejected score fields",
			zap.String("source", resume.Source),
			zap.Strings("fields", report.Invalid),
		)
	}

	return &ai.Assessment{Record: record, Raw: raw}, nil
}

func buildPrompt(job ai.Job, resume ai.Resume, schema scoring.Schema) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "JOB DESCRIPTION:\n{{JOB_DESCRIPTION}}\n\nJOB REQUIREMENTS:\n{{JOB_REQUIREMENTS}}\n\nRESUME CONTENT:\n{{RESUME_CONTENT}}{{CONTENT_WARNING}}{{RESUME_SOURCE}}\n\n{{RESPONSE_FORMAT}}"
	}

	var warning string
	if resume.IsFallbackDescription {
		warning = limitedContentWarning
	}

	var source string
	if src := strings.TrimSpace(resume.Source); src != "" {
		source = "\nRESUME SOURCE: " + src
	}

	format := extendedResponseFormat
	if schema == scoring.SchemaSimple {
		format = simpleResponseFormat
	}

	description := strings.TrimSpace(job.Description)
	if title := strings.TrimSpace(job.Title); title != "" {
		description = strings.TrimSpace(title + "\n" + description)
	}

	replacer := strings.NewReplacer(
		"{{JOB_DESCRIPTION}}", description,
		"{{JOB_REQUIREMENTS}}", strings.TrimSpace(job.Requirements),
		"{{RESUME_CONTENT}}", resume.Text,
		"{{CONTENT_WARNING}}", warning,
		"{{RESUME_SOURCE}}", source,
		"{{RESPONSE_FORMAT}}", format,
	)

	return replacer.Replace(template)
}
