package ai

import (
	"context"

	"github.com/spigell/resume-scorer/internal/scoring"
)

// Job is the position a resume is scored against.
type Job struct {
	Title        string `json:"title" yaml:"title" mapstructure:"title"`
	Description  string `json:"description" yaml:"description" mapstructure:"description"`
	Requirements string `json:"requirements" yaml:"requirements" mapstructure:"requirements"`
}

// Resume is the extracted text handed to an evaluator.
type Resume struct {
	Text   string
	Source string
	// IsFallbackDescription marks Text as a synthetic description rather
	// than content read from the document.
	IsFallbackDescription bool
}

type Assessment struct {
	scoring.Record
	Raw string `json:"-"`
}

type Evaluator interface {
	Evaluate(ctx context.Context, job Job, resume Resume) (*Assessment, error)
}
