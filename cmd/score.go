package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/extract"
	"github.com/spigell/resume-scorer/internal/scoring"
)

type scoreOutput struct {
	Source string `json:"source"`
	scoring.Record
	Strategy              extract.Strategy `json:"strategy"`
	IsFallbackDescription bool             `json:"is_fallback_description"`
}

var scoreCmd = &cobra.Command{
	Use:   "score <url-or-path>",
	Short: "Fetch, extract and score a resume against a job description",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runScore(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("title", "", "job title")
	scoreCmd.Flags().String("description", "", "job description text")
	scoreCmd.Flags().String("description-file", "", "file with the job description")
	scoreCmd.Flags().String("requirements", "", "job requirements text")
	scoreCmd.Flags().String("requirements-file", "", "file with the job requirements")
	scoreCmd.Flags().String("schema", "", "score schema: simple or extended (default from config)")
	scoreCmd.Flags().BoolP("interactive", "i", false, "ask for missing job details")
}

func runScore(cmd *cobra.Command, ref string) {
	ctx := context.Background()
	logger, config := setup()

	job, err := jobFromFlags(cmd)
	if err != nil {
		logger.Fatal("reading job details", zap.Error(err))
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		if job, err = askJob(job); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}

	if strings.TrimSpace(job.Description) == "" && strings.TrimSpace(job.Requirements) == "" {
		logger.Fatal("job description or requirements are required",
			zap.String("hint", "use --description, --requirements, their -file variants or --interactive"),
		)
	}

	override, _ := cmd.Flags().GetString("schema")
	schema, err := schemaFromConfig(config, override)
	if err != nil {
		logger.Fatal("resolving schema", zap.Error(err))
	}

	evaluator, err := newEvaluator(ctx, config, schema, logger)
	if err != nil {
		logger.Fatal("building evaluator", zap.Error(err))
	}

	doc, err := newFetcher(config, logger).Fetch(ctx, ref)
	if err != nil {
		logger.Fatal("fetching resume", zap.Error(err))
	}

	outcome := newPipeline(ctx, config, logger).Extract(ctx, doc)

	assessment, err := evaluator.Evaluate(ctx, job, ai.Resume{
		Text:                  outcome.Text,
		Source:                ref,
		IsFallbackDescription: outcome.IsFallbackDescription,
	})
	if err != nil {
		logger.Error("evaluating resume", zap.Error(err))
	}

	out := scoreOutput{
		Source:                ref,
		Record:                assessment.Record,
		Strategy:              outcome.Strategy,
		IsFallbackDescription: outcome.IsFallbackDescription,
	}

	pretty, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(pretty))

	if !out.HasScore() {
		os.Exit(1)
	}
}

func jobFromFlags(cmd *cobra.Command) (ai.Job, error) {
	title, _ := cmd.Flags().GetString("title")

	description, err := textOrFile(cmd, "description")
	if err != nil {
		return ai.Job{}, err
	}

	requirements, err := textOrFile(cmd, "requirements")
	if err != nil {
		return ai.Job{}, err
	}

	return ai.Job{Title: title, Description: description, Requirements: requirements}, nil
}

// textOrFile returns the --name flag, or the content of --name-file when
// the flag is empty.
func textOrFile(cmd *cobra.Command, name string) (string, error) {
	value, _ := cmd.Flags().GetString(name)
	if strings.TrimSpace(value) != "" {
		return value, nil
	}

	path, _ := cmd.Flags().GetString(name + "-file")
	if strings.TrimSpace(path) == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s file: %w", name, err)
	}
	return string(data), nil
}

func askJob(job ai.Job) (ai.Job, error) {
	fields := []struct {
		label    string
		value    *string
		required bool
	}{
		{label: "Job title", value: &job.Title},
		{label: "Job description", value: &job.Description, required: true},
		{label: "Job requirements", value: &job.Requirements, required: true},
	}

	for _, field := range fields {
		if strings.TrimSpace(*field.value) != "" {
			continue
		}

		required := field.required
		prompt := promptui.Prompt{
			Label: field.label,
			Validate: func(input string) error {
				if required && strings.TrimSpace(input) == "" {
					return errors.New("value is required")
				}
				return nil
			},
		}

		answer, err := prompt.Run()
		if err != nil {
			return job, err
		}
		*field.value = answer
	}

	return job, nil
}
