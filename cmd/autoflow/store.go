package main

import (
	"fmt"

	"github.com/aretw0/autoflow/pkg/workflow"
	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage stored workflows",
}

var storeListCmd = &cobra.Command{
	Use:     "ls",
	Short:   "List stored workflows",
	Aliases: []string{"list"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, closeStore, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		names, err := eng.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var storePushCmd = &cobra.Command{
	Use:   "push <file> [name]",
	Short: "Save a workflow file into the store",
	Long:  `Reads a workflow file and saves it under name, or under the file's base name without extension.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := workflow.ReadFile(args[0])
		if err != nil {
			return err
		}
		name := nameFromPath(args[0])
		if len(args) == 2 {
			name = args[1]
		}

		eng, _, closeStore, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := eng.Save(cmd.Context(), name, doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d nodes)\n", name, len(doc.Nodes))
		return nil
	},
}

var storePullCmd = &cobra.Command{
	Use:   "pull <name> [file]",
	Short: "Write a stored workflow to a file or stdout",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, closeStore, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		doc, err := eng.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(args) == 2 {
			return workflow.WriteFile(args[1], doc)
		}

		data, err := workflow.Marshal(doc, workflow.FormatJSON)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var storeRemoveCmd = &cobra.Command{
	Use:     "rm <name>",
	Short:   "Delete a stored workflow",
	Aliases: []string{"delete"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, closeStore, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		return eng.Delete(cmd.Context(), args[0])
	},
}

func init() {
	storeCmd.AddCommand(storeListCmd, storePushCmd, storePullCmd, storeRemoveCmd)
	rootCmd.AddCommand(storeCmd)
}
