package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrActionNotRegistered is returned when an action has no command in the allow-list.
var ErrActionNotRegistered = errors.New("action not registered")

// EnvPrefix prefixes every argument passed to a command.
const EnvPrefix = "AUTOFLOW_ARG_"

// Executor implements ports.ActionExecutor by running allow-listed local commands.
// Arguments travel as environment variables, never as command-line flags.
type Executor struct {
	registry map[Action]CommandConfig
	baseDir  string
}

// Option configures the executor.
type Option func(*Executor)

// WithCommands populates the allow-list from a loaded config.
func WithCommands(commands map[Action]CommandConfig) Option {
	return func(e *Executor) {
		for action, c := range commands {
			c.Action = action
			e.registry[action] = c
		}
	}
}

// WithBaseDir sets the working directory for executed commands.
func WithBaseDir(dir string) Option {
	return func(e *Executor) {
		e.baseDir = dir
	}
}

// New creates a new process executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		registry: make(map[Action]CommandConfig),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register adds a trusted command to the allow-list.
func (e *Executor) Register(action Action, command string, args ...string) {
	e.registry[action] = CommandConfig{Action: action, Command: command, Args: args}
}

// Click runs the "click" command with IMG, RETRY, CLICKS and BUTTON.
func (e *Executor) Click(ctx context.Context, img string, retry int, clicks int, button string) error {
	return e.run(ctx, ActionClick, map[string]string{
		"IMG":    img,
		"RETRY":  strconv.Itoa(retry),
		"CLICKS": strconv.Itoa(clicks),
		"BUTTON": button,
	})
}

// InputText runs the "input_text" command with TEXT and CLEAR.
func (e *Executor) InputText(ctx context.Context, text string, clear bool) error {
	return e.run(ctx, ActionInputText, map[string]string{
		"TEXT":  text,
		"CLEAR": strconv.FormatBool(clear),
	})
}

// Wait runs the "wait" command with SECONDS. Without one, it sleeps in process.
func (e *Executor) Wait(ctx context.Context, seconds float64) error {
	if _, ok := e.registry[ActionWait]; !ok {
		timer := time.NewTimer(time.Duration(seconds * float64(time.Second)))
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return e.run(ctx, ActionWait, map[string]string{
		"SECONDS": strconv.FormatFloat(seconds, 'f', -1, 64),
	})
}

// Scroll runs the "scroll" command with AMOUNT and REPEAT.
func (e *Executor) Scroll(ctx context.Context, amount int, repeat int) error {
	return e.run(ctx, ActionScroll, map[string]string{
		"AMOUNT": strconv.Itoa(amount),
		"REPEAT": strconv.Itoa(repeat),
	})
}

// Hotkey runs the "hotkey" command with KEYS (joined by "+") and REPEAT.
func (e *Executor) Hotkey(ctx context.Context, keys []string, repeat int) error {
	return e.run(ctx, ActionHotkey, map[string]string{
		"KEYS":   strings.Join(keys, "+"),
		"REPEAT": strconv.Itoa(repeat),
	})
}

func (e *Executor) run(ctx context.Context, action Action, args map[string]string) error {
	c, ok := e.registry[action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrActionNotRegistered, action)
	}

	cmd := exec.CommandContext(ctx, c.Command, c.Args...)
	cmd.Dir = e.baseDir

	env := cmd.Environ()
	for k, v := range c.Environment {
		env = append(env, k+"="+v)
	}
	for k, v := range args {
		env = append(env, EnvPrefix+k+"="+v)
	}
	cmd.Env = env

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s command failed: %w: %s", action, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
