package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/document"
	"github.com/spigell/resume-scorer/internal/extract"
	"github.com/spigell/resume-scorer/internal/scoring"
)

type Fetcher interface {
	Fetch(ctx context.Context, ref string) (*document.RawDocument, error)
}

type Extractor interface {
	Extract(ctx context.Context, doc *document.RawDocument) *extract.Outcome
}

// Result is emitted once per attempted item.
type Result struct {
	Item
	scoring.Record
	Strategy              extract.Strategy `json:"strategy,omitempty"`
	IsFallbackDescription bool             `json:"is_fallback_description,omitempty"`
	Error                 string           `json:"error,omitempty"`
}

type Summary struct {
	Total   int `json:"total"`
	Skipped int `json:"skipped"`
	Scored  int `json:"scored"`
	Failed  int `json:"failed"`
}

// Runner processes manifest items one at a time. A failing item never stops
// the run.
type Runner struct {
	fetcher   Fetcher
	extractor Extractor
	evaluator ai.Evaluator
	history   *History
	logger    *zap.Logger
}

func NewRunner(fetcher Fetcher, extractor Extractor, evaluator ai.Evaluator, history *History, logger *zap.Logger) *Runner {
	if history == nil {
		history = &History{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		fetcher:   fetcher,
		extractor: extractor,
		evaluator: evaluator,
		history:   history,
		logger:    logger,
	}
}

// Run scores every item that survives the filters and hands each result to
// emit. Only a cancelled context or an emit error end the run early.
func (r *Runner) Run(ctx context.Context, manifest *Manifest, emit func(Result) error) (Summary, error) {
	summary := Summary{Total: len(manifest.Items)}

	r.logger.Info("processing resumes", zap.Int("count", summary.Total))

	items := RunFilters(manifest.Items, []Filter{
		NewDuplicatesFilter(),
		NewHistoryFilter(r.history, r.logger),
		NewUnknownPositionFilter(manifest, r.logger),
	}, r.logger)
	summary.Skipped = summary.Total - len(items)

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		job, _ := manifest.FindJob(item.Position)
		result := r.process(ctx, job, item)

		switch {
		case result.Error != "":
			summary.Failed++
		case result.HasScore():
			summary.Scored++
			r.history.Add(item, result.Score)
		default:
			summary.Failed++
			r.logger.Info("no valid score generated", zap.Int("row", item.Row))
		}

		if err := emit(result); err != nil {
			return summary, fmt.Errorf("emit result: %w", err)
		}
	}

	r.logger.Info("batch finished",
		zap.Int("total", summary.Total),
		zap.Int("skipped", summary.Skipped),
		zap.Int("scored", summary.Scored),
		zap.Int("failed", summary.Failed),
	)

	return summary, nil
}

func (r *Runner) process(ctx context.Context, job ai.Job, item Item) Result {
	log := r.logger.With(
		zap.String("batch_item_id", uuid.NewString()),
		zap.Int("row", item.Row),
		zap.String("position", item.Position),
	)
	log.Info("processing resume")

	result := Result{Item: item}

	doc, err := r.fetcher.Fetch(ctx, strings.TrimSpace(item.ResumeURL))
	if err != nil {
		log.Warn("could not fetch resume", zap.Error(err))
		result.Error = err.Error()
		return result
	}

	outcome := r.extractor.Extract(ctx, doc)
	result.Strategy = outcome.Strategy
	result.IsFallbackDescription = outcome.IsFallbackDescription

	assessment, err := r.evaluator.Evaluate(ctx, job, ai.Resume{
		Text:                  outcome.Text,
		Source:                item.ResumeURL,
		IsFallbackDescription: outcome.IsFallbackDescription,
	})
	if assessment != nil {
		result.Record = assessment.Record
	}
	if err != nil {
		log.Warn("could not evaluate resume", zap.Error(err))
		result.Error = err.Error()
		return result
	}

	if result.HasScore() {
		log.Info("resume scored", zap.String("score", result.Score))
	}

	return result
}
