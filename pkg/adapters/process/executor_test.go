package process_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/aretw0/autoflow/pkg/adapters/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
}

func TestExecutor_PassesArgumentsAsEnv(t *testing.T) {
	skipWindows(t)
	out := filepath.Join(t.TempDir(), "out.txt")

	exec := process.New(process.WithCommands(map[process.Action]process.CommandConfig{
		process.ActionInputText: {
			Command:     "sh",
			Args:        []string{"-c", `printf '%s|%s' "$AUTOFLOW_ARG_TEXT" "$AUTOFLOW_ARG_CLEAR" > "$OUT"`},
			Environment: map[string]string{"OUT": out},
		},
	}))

	require.NoError(t, exec.InputText(context.Background(), "hello; rm -rf /", true))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hello; rm -rf /|true", string(data))
}

func TestExecutor_Hotkey(t *testing.T) {
	skipWindows(t)
	out := filepath.Join(t.TempDir(), "out.txt")

	exec := process.New()
	exec.Register(process.ActionHotkey, "sh", "-c", `printf '%s x%s' "$AUTOFLOW_ARG_KEYS" "$AUTOFLOW_ARG_REPEAT" > `+out)

	require.NoError(t, exec.Hotkey(context.Background(), []string{"ctrl", "shift", "s"}, 2))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "ctrl+shift+s x2", string(data))
}

func TestExecutor_Failures(t *testing.T) {
	exec := process.New()

	t.Run("Unregistered Action", func(t *testing.T) {
		err := exec.Click(context.Background(), "ok.png", 1, 1, "left")
		assert.ErrorIs(t, err, process.ErrActionNotRegistered)
	})

	t.Run("Command Fails", func(t *testing.T) {
		skipWindows(t)
		exec.Register(process.ActionScroll, "sh", "-c", "echo boom >&2; exit 3")
		err := exec.Scroll(context.Background(), 100, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})
}

func TestExecutor_WaitWithoutCommand(t *testing.T) {
	exec := process.New()

	start := time.Now()
	require.NoError(t, exec.Wait(context.Background(), 0.05))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, exec.Wait(ctx, 10), context.Canceled)
}

func TestLoadActions(t *testing.T) {
	dir := t.TempDir()

	t.Run("YAML", func(t *testing.T) {
		path := filepath.Join(dir, "actions.yaml")
		content := `
actions:
  - action: click
    command: xdotool
    args: ["click", "1"]
    description: left click at the pointer
  - command: ignored
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		commands, err := process.LoadActions(path)
		require.NoError(t, err)
		require.Len(t, commands, 1)
		assert.Equal(t, "xdotool", commands[process.ActionClick].Command)
		assert.Equal(t, []string{"click", "1"}, commands[process.ActionClick].Args)
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(dir, "actions.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"actions": [{"action": "wait", "command": "sleep"}]}`), 0644))

		commands, err := process.LoadActions(path)
		require.NoError(t, err)
		assert.Equal(t, "sleep", commands[process.ActionWait].Command)
	})

	t.Run("Missing File", func(t *testing.T) {
		commands, err := process.LoadActions(filepath.Join(dir, "nope.yaml"))
		require.NoError(t, err)
		assert.Empty(t, commands)
	})

	t.Run("Malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("actions: {"), 0644))
		_, err := process.LoadActions(path)
		assert.Error(t, err)
	})
}
