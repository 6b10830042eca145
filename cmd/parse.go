package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/scoring"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse an evaluator completion from a file or stdin into a score record",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runParse(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().String("schema", "", "score schema: simple or extended (default from config)")
}

func runParse(cmd *cobra.Command, args []string) {
	logger, config := setup()

	override, _ := cmd.Flags().GetString("schema")
	schema, err := schemaFromConfig(config, override)
	if err != nil {
		logger.Fatal("resolving schema", zap.Error(err))
	}

	var input io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			logger.Fatal("opening completion", zap.Error(err))
		}
		defer file.Close()
		input = file
	}

	raw, err := io.ReadAll(input)
	if err != nil {
		logger.Fatal("reading completion", zap.Error(err))
	}

	record, report, err := scoring.Parse(string(raw), schema)
	if err != nil {
		logger.Warn("unusable completion", zap.Error(err))
	}
	if len(report.Invalid) > 0 || len(report.Unused) > 0 {
		logger.Debug("completion fields",
			zap.Strings("invalid", report.Invalid),
			zap.Strings("unused", report.Unused),
		)
	}

	pretty, _ := json.MarshalIndent(record, "", "  ")
	fmt.Println(string(pretty))
}
