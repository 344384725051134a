package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/autoflow"
	"github.com/aretw0/autoflow/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file|name>",
	Short: "Describe a workflow without running it",
	Long:  `Lists the nodes of a workflow with their parameters, its start nodes and the body of every loop.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")

		eng, _, closeStore, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		doc, err := loadDocument(cmd.Context(), eng, args[0])
		if err != nil {
			return err
		}
		g, err := doc.Graph()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonMode {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(autoflow.Inspect(g))
		}

		md := tui.Describe(args[0], g)
		if render := tui.RendererFor(out); render != nil {
			if rendered, err := render(md); err == nil {
				md = rendered
			}
		}
		fmt.Fprint(out, md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("json", false, "Print the inspection as JSON")
}
