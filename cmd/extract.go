package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url-or-path>",
	Short: "Fetch a resume and print its extracted text",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runExtract(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolP("text", "t", false, "print only the extracted text instead of the JSON outcome")
	extractCmd.Flags().Bool("steps", false, "include cascade steps in the JSON outcome")
}

func runExtract(cmd *cobra.Command, ref string) {
	ctx := context.Background()
	logger, config := setup()

	doc, err := newFetcher(config, logger).Fetch(ctx, ref)
	if err != nil {
		logger.Fatal("fetching resume", zap.Error(err))
	}

	outcome := newPipeline(ctx, config, logger).Extract(ctx, doc)

	if textOnly, _ := cmd.Flags().GetBool("text"); textOnly {
		fmt.Println(outcome.Text)
		return
	}

	if steps, _ := cmd.Flags().GetBool("steps"); !steps {
		outcome.Steps = nil
	}

	pretty, _ := json.MarshalIndent(outcome, "", "  ")
	fmt.Println(string(pretty))
}
