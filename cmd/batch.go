package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/batch"
)

var batchCmd = &cobra.Command{
	Use:   "batch <manifest.yaml>",
	Short: "Score every resume listed in a manifest, one JSON record per line",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runBatch(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("history-file", "H", "", "file remembering scored resumes between runs. Default is unset.")
	batchCmd.Flags().String("schema", "", "score schema: simple or extended (default from config)")
}

func runBatch(cmd *cobra.Command, manifestPath string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, config := setup()

	manifest, err := batch.LoadManifest(manifestPath)
	if err != nil {
		logger.Fatal("loading manifest", zap.Error(err))
	}

	historyFile, _ := cmd.Flags().GetString("history-file")
	history, err := batch.LoadHistory(historyFile)
	if err != nil {
		logger.Fatal("loading history", zap.String("filename", historyFile), zap.Error(err))
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

	runner := batch.NewRunner(newFetcher(config, logger), newPipeline(ctx, config, logger), evaluator, history, logger)

	enc := json.NewEncoder(os.Stdout)
	_, runErr := runner.Run(ctx, manifest, func(result batch.Result) error {
		return enc.Encode(result)
	})

	if historyFile != "" {
		if err := history.ToFile(historyFile); err != nil {
			logger.Error("saving history", zap.String("filename", historyFile), zap.Error(err))
		} else {
			logger.Info("history saved", zap.String("filename", historyFile), zap.Int("count", history.Len()))
		}
	}

	if runErr != nil {
		logger.Fatal("batch interrupted", zap.Error(runErr))
	}
}
