package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/autoflow"
	"github.com/aretw0/autoflow/internal/presentation/tui"
	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/aretw0/autoflow/pkg/observability"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file|name>",
	Short: "Run a workflow",
	Long: `Runs a workflow file (JSON, YAML or msgpack by extension) or a workflow saved in the store.
Stored workflows are locked for the duration of the run. Failed actions are reported
and the run continues with the remaining nodes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		headless, _ := cmd.Flags().GetBool("headless")
		jsonMode, _ := cmd.Flags().GetBool("json")
		strict, _ := cmd.Flags().GetBool("strict")

		out := cmd.OutOrStdout()
		runner := autoflow.NewRunner(out)
		runner.Headless = headless || jsonMode
		if !jsonMode {
			runner.Renderer = tui.RendererFor(out)
		}

		hooks := runner.Hooks()
		if jsonMode {
			hooks.OnRunFinish = nil
		}

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		eng, _, closeStore, err := newEngine(cmd,
			autoflow.WithLifecycleHooks(hooks),
			autoflow.WithLifecycleHooks(observability.LoggingHooks(logger)),
		)
		if err != nil {
			return err
		}
		defer closeStore()

		ref := args[0]
		var report *domain.RunReport
		if _, statErr := os.Stat(ref); statErr == nil {
			report, err = eng.RunFile(cmd.Context(), ref)
		} else {
			report, err = eng.RunStored(cmd.Context(), ref)
		}
		if err != nil {
			return err
		}

		if jsonMode {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		}
		if strict && !report.Succeeded() {
			return fmt.Errorf("%d action(s) failed", len(report.Failures))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	addExecutorFlags(runCmd)
	runCmd.Flags().Bool("headless", false, "Print only the final summary")
	runCmd.Flags().Bool("json", false, "Print the run report as JSON")
	runCmd.Flags().Bool("strict", false, "Exit with an error when any action failed")
}
