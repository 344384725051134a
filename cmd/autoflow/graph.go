package main

import (
	"fmt"

	"github.com/aretw0/autoflow/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <file|name>",
	Short: "Export the workflow graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the workflow, with loop markers shaped apart from actions.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
