package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// envPrefix namespaces the environment variables that back every flag,
// e.g. --redis-addr falls back to AUTOFLOW_REDIS_ADDR.
const envPrefix = "AUTOFLOW_"

var rootCmd = &cobra.Command{
	Use:   "autoflow",
	Short: "autoflow runs desktop automation workflows",
	Long: `autoflow executes workflow graphs of clicks, text input, waits, scrolls and hotkeys,
repeating the bodies of for_loop markers, against a pluggable action executor.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env file is fine.
		_ = godotenv.Load()
		return applyEnv(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.String("store", "file", "Workflow store: memory, file, redis or sqlite")
	flags.String("store-dir", ".autoflow/workflows", "Directory of the file store")
	flags.String("store-format", "json", "Encoding of the file store: json, yaml or msgpack")
	flags.String("redis-addr", "localhost:6379", "Redis address for the redis store")
	flags.String("redis-password", "", "Redis password")
	flags.Int("redis-db", 0, "Redis database number")
	flags.String("sqlite-path", ".autoflow/autoflow.db", "Database file of the sqlite store")
}

// applyEnv fills every flag the user did not set from its AUTOFLOW_* variable.
func applyEnv(cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || err != nil {
			return
		}
		name := envPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if v, ok := os.LookupEnv(name); ok {
			if setErr := cmd.Flags().Set(f.Name, v); setErr != nil {
				err = fmt.Errorf("invalid %s: %w", name, setErr)
			}
		}
	})
	return err
}
