package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/autoflow"
	"github.com/aretw0/autoflow/internal/adapters/file"
	"github.com/aretw0/autoflow/internal/logging"
	"github.com/aretw0/autoflow/pkg/adapters/dryrun"
	"github.com/aretw0/autoflow/pkg/adapters/memory"
	"github.com/aretw0/autoflow/pkg/adapters/process"
	redisstore "github.com/aretw0/autoflow/pkg/adapters/redis"
	"github.com/aretw0/autoflow/pkg/adapters/robot"
	"github.com/aretw0/autoflow/pkg/adapters/robot/desktop"
	"github.com/aretw0/autoflow/pkg/adapters/sqlite"
	"github.com/aretw0/autoflow/pkg/ports"
	"github.com/aretw0/autoflow/pkg/workflow"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// backends groups the store and locker selected by the persistent flags.
type backends struct {
	store  ports.WorkflowStore
	locker ports.Locker
	close  func() error
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("log-json")

	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(os.Stderr, level, jsonLogs), nil
}

func openBackends(cmd *cobra.Command) (*backends, error) {
	kind, _ := cmd.Flags().GetString("store")
	noop := func() error { return nil }

	switch kind {
	case "memory":
		return &backends{store: memory.NewStore(), locker: memory.NewLocker(), close: noop}, nil
	case "file":
		dir, _ := cmd.Flags().GetString("store-dir")
		format, _ := cmd.Flags().GetString("store-format")
		f, err := parseFormat(format)
		if err != nil {
			return nil, err
		}
		return &backends{store: file.New(dir, file.WithFormat(f)), locker: memory.NewLocker(), close: noop}, nil
	case "redis":
		addr, _ := cmd.Flags().GetString("redis-addr")
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")

		client := backend.NewClient(&backend.Options{Addr: addr, Password: password, DB: db})
		if err := client.Ping(cmd.Context()).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
		}
		return &backends{
			store:  redisstore.NewFromClient(client),
			locker: redisstore.NewLocker(client, "autoflow:"),
			close:  client.Close,
		}, nil
	case "sqlite":
		path, _ := cmd.Flags().GetString("sqlite-path")
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create %s: %w", dir, err)
			}
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		return &backends{store: store, locker: memory.NewLocker(), close: store.Close}, nil
	}
	return nil, fmt.Errorf("unknown store %q (want memory, file, redis or sqlite)", kind)
}

func parseFormat(s string) (workflow.Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return workflow.FormatJSON, nil
	case "yaml", "yml":
		return workflow.FormatYAML, nil
	case "msgpack":
		return workflow.FormatMsgPack, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, yaml or msgpack)", s)
}

// newExecutor builds the executor named by --executor.
func newExecutor(cmd *cobra.Command, logger *slog.Logger) (ports.ActionExecutor, error) {
	kind, _ := cmd.Flags().GetString("executor")

	switch kind {
	case "", "dryrun":
		return dryrun.New(dryrun.WithLogger(logger)), nil
	case "process":
		path, _ := cmd.Flags().GetString("actions")
		commands, err := process.LoadActions(path)
		if err != nil {
			return nil, err
		}
		if len(commands) == 0 {
			logger.Warn("no actions configured; every action except wait will fail", "file", path)
		}
		return process.New(process.WithCommands(commands), process.WithBaseDir(filepath.Dir(path))), nil
	case "robot":
		path, _ := cmd.Flags().GetString("targets")
		locator, err := robot.LoadTargets(path)
		if err != nil {
			return nil, err
		}
		return desktop.NewExecutor(locator, robot.WithLogger(logger)), nil
	}
	return nil, fmt.Errorf("unknown executor %q (want dryrun, process or robot)", kind)
}

func addExecutorFlags(cmd *cobra.Command) {
	cmd.Flags().String("executor", "dryrun", "Action executor: dryrun, process or robot")
	cmd.Flags().String("actions", "actions.yaml", "Command allow-list for the process executor")
	cmd.Flags().String("targets", "targets.yaml", "Image coordinates for the robot executor")
}

// newEngine wires the engine from flags. The returned close func releases the store.
func newEngine(cmd *cobra.Command, opts ...autoflow.Option) (*autoflow.Engine, *slog.Logger, func() error, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	b, err := openBackends(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	base := []autoflow.Option{
		autoflow.WithLogger(logger),
		autoflow.WithStore(b.store),
		autoflow.WithLocker(b.locker),
	}
	if cmd.Flags().Lookup("executor") != nil {
		exec, err := newExecutor(cmd, logger)
		if err != nil {
			b.close()
			return nil, nil, nil, err
		}
		base = append(base, autoflow.WithExecutor(exec))
	}
	return autoflow.New(append(base, opts...)...), logger, b.close, nil
}

// loadDocument reads ref as a workflow file when it exists on disk and
// otherwise loads it from the store by name.
func loadDocument(ctx context.Context, eng *autoflow.Engine, ref string) (*workflow.Document, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return workflow.ReadFile(ref)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return eng.Load(ctx, ref)
}

// nameFromPath derives a workflow name from a file path ("flows/login.yaml" → "login").
func nameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
