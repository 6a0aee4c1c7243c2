package main

import (
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-claimform/pkg/renderers/tui"
	"github.com/goliatone/go-claimform/pkg/workflow"
)

var promptFormat string

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Run the questionnaire and signing flow in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, err := newOrchestrator(cfg)
		if err != nil {
			return err
		}
		format := promptFormat
		if format == "" {
			format = cfg.Export.DefaultFormat
		}
		runner, err := tui.New(
			tui.WithContent(orch.Content()),
			tui.WithExportFormat(format),
		)
		if err != nil {
			return eris.Wrap(err, "init terminal prompts")
		}

		sess := orch.NewSession(uuid.NewString())
		result, err := runner.Run(cmd.Context(), sess)
		if err != nil {
			return eris.Wrap(err, "run questionnaire")
		}

		zap.L().Info("terminal session finished",
			zap.String("session_id", sess.ID),
			zap.String("state", string(result.State)),
			zap.Bool("exported", result.Path != ""),
		)
		if result.State == workflow.StateSubmitted && result.Path != "" {
			cmd.Printf("Document saved to %s\n", result.Path)
		}
		return nil
	},
}

func init() {
	promptCmd.Flags().StringVar(&promptFormat, "format", "", "export format: pdf or html (default from config)")
	rootCmd.AddCommand(promptCmd)
}
