// Package robot drives the local desktop: it moves and clicks the mouse on located
// images, types through the clipboard, scrolls and presses hotkeys.
//
// The input backend is a Driver (see the desktop sub-package for the robotgo one)
// and images are resolved to screen coordinates by a Locator.
package robot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/autoflow/internal/logging"
)

// ErrImageNotFound is returned when a click target cannot be located after every retry.
var ErrImageNotFound = errors.New("image not found on screen")

// Pacing between input events.
const (
	locatePollInterval = 100 * time.Millisecond
	inputSettleDelay   = 200 * time.Millisecond
	scrollDelay        = 200 * time.Millisecond
	hotkeyDelay        = 300 * time.Millisecond
)

// Driver sends raw input events to the desktop.
type Driver interface {
	Move(x, y int)
	Click(button string, double bool)
	KeyTap(key string, modifiers ...string) error
	WriteClipboard(text string) error
	Scroll(amount int)
}

// Locator finds the screen position of an image.
type Locator interface {
	Locate(ctx context.Context, img string) (x, y int, found bool, err error)
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Executor implements ports.ActionExecutor on top of a Driver and a Locator.
type Executor struct {
	driver  Driver
	locator Locator
	sleep   SleepFunc
	logger  *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithSleep replaces the function used for pacing and waits.
func WithSleep(fn SleepFunc) Option {
	return func(e *Executor) {
		e.sleep = fn
	}
}

// WithLogger sets the logger used for per-action debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// New creates an Executor.
func New(driver Driver, locator Locator, opts ...Option) *Executor {
	e := &Executor{
		driver:  driver,
		locator: locator,
		sleep:   sleepContext,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Click looks for img up to retry times, polling every 100ms, then clicks it.
// Two clicks are sent as a double click.
func (e *Executor) Click(ctx context.Context, img string, retry int, clicks int, button string) error {
	for attempt := 1; attempt <= max(retry, 1); attempt++ {
		x, y, found, err := e.locator.Locate(ctx, img)
		if err != nil {
			return fmt.Errorf("failed to locate %s: %w", img, err)
		}
		if found {
			e.logger.Debug("clicking", "img", img, "x", x, "y", y, "button", button, "clicks", clicks, "attempt", attempt)
			e.driver.Move(x, y)
			if clicks == 2 {
				e.driver.Click(button, true)
			} else {
				for i := 0; i < clicks; i++ {
					e.driver.Click(button, false)
				}
			}
			return nil
		}
		if attempt < retry {
			if err := e.sleep(ctx, locatePollInterval); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrImageNotFound, img)
}

// InputText pastes text through the clipboard. With clear set the focused
// control is emptied first with ctrl+a and backspace.
func (e *Executor) InputText(ctx context.Context, text string, clear bool) error {
	if clear {
		if err := e.driver.KeyTap("a", "ctrl"); err != nil {
			return err
		}
		if err := e.driver.KeyTap("backspace"); err != nil {
			return err
		}
	}
	if err := e.driver.WriteClipboard(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	if err := e.driver.KeyTap("v", "ctrl"); err != nil {
		return err
	}
	return e.sleep(ctx, inputSettleDelay)
}

// Wait pauses for seconds.
func (e *Executor) Wait(ctx context.Context, seconds float64) error {
	return e.sleep(ctx, time.Duration(seconds*float64(time.Second)))
}

// Scroll turns the wheel by amount, repeat times, pausing 200ms after each.
func (e *Executor) Scroll(ctx context.Context, amount int, repeat int) error {
	for i := 0; i < repeat; i++ {
		e.driver.Scroll(amount)
		if err := e.sleep(ctx, scrollDelay); err != nil {
			return err
		}
	}
	return nil
}

// Hotkey presses keys as one chord, repeat times, pausing 300ms after each.
// The last key is tapped while the others are held as modifiers.
func (e *Executor) Hotkey(ctx context.Context, keys []string, repeat int) error {
	if len(keys) == 0 {
		return fmt.Errorf("hotkey without keys")
	}
	key, modifiers := keys[len(keys)-1], keys[:len(keys)-1]
	for i := 0; i < repeat; i++ {
		if err := e.driver.KeyTap(key, modifiers...); err != nil {
			return fmt.Errorf("failed to press %v: %w", keys, err)
		}
		if err := e.sleep(ctx, hotkeyDelay); err != nil {
			return err
		}
	}
	return nil
}
