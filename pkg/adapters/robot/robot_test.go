package robot_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/autoflow/pkg/adapters/robot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDriver struct {
	events    []string
	clipboard string
	tapErr    error
}

func (d *fakeDriver) Move(x, y int) {
	d.events = append(d.events, fmt.Sprintf("move %d,%d", x, y))
}

func (d *fakeDriver) Click(button string, double bool) {
	d.events = append(d.events, fmt.Sprintf("click %s double=%v", button, double))
}

func (d *fakeDriver) KeyTap(key string, modifiers ...string) error {
	if d.tapErr != nil {
		return d.tapErr
	}
	chord := append([]string{}, modifiers...)
	d.events = append(d.events, "tap "+strings.Join(append(chord, key), "+"))
	return nil
}

func (d *fakeDriver) WriteClipboard(text string) error {
	d.clipboard = text
	d.events = append(d.events, "clipboard")
	return nil
}

func (d *fakeDriver) Scroll(amount int) {
	d.events = append(d.events, fmt.Sprintf("scroll %d", amount))
}

// appearingLocator finds the image only after a number of misses.
type appearingLocator struct {
	misses int
	calls  int
}

func (l *appearingLocator) Locate(ctx context.Context, img string) (int, int, bool, error) {
	l.calls++
	if l.calls <= l.misses {
		return 0, 0, false, nil
	}
	return 10, 20, true, nil
}

type recordedSleeps struct {
	durations []time.Duration
}

func (r *recordedSleeps) sleep(ctx context.Context, d time.Duration) error {
	r.durations = append(r.durations, d)
	return ctx.Err()
}

func newExecutor(driver *fakeDriver, locator robot.Locator) (*robot.Executor, *recordedSleeps) {
	sleeps := &recordedSleeps{}
	return robot.New(driver, locator, robot.WithSleep(sleeps.sleep)), sleeps
}

func TestExecutor_Click(t *testing.T) {
	ctx := context.Background()

	t.Run("Found After Polling", func(t *testing.T) {
		driver := &fakeDriver{}
		locator := &appearingLocator{misses: 2}
		exec, sleeps := newExecutor(driver, locator)

		require.NoError(t, exec.Click(ctx, "ok.png", 5, 1, "left"))
		assert.Equal(t, 3, locator.calls)
		assert.Equal(t, []time.Duration{100 * time.Millisecond, 100 * time.Millisecond}, sleeps.durations)
		assert.Equal(t, []string{"move 10,20", "click left double=false"}, driver.events)
	})

	t.Run("Double Click", func(t *testing.T) {
		driver := &fakeDriver{}
		exec, _ := newExecutor(driver, &appearingLocator{})

		require.NoError(t, exec.Click(ctx, "ok.png", 1, 2, "left"))
		assert.Equal(t, []string{"move 10,20", "click left double=true"}, driver.events)
	})

	t.Run("Gives Up", func(t *testing.T) {
		driver := &fakeDriver{}
		locator := &appearingLocator{misses: 10}
		exec, sleeps := newExecutor(driver, locator)

		err := exec.Click(ctx, "missing.png", 3, 1, "right")
		assert.ErrorIs(t, err, robot.ErrImageNotFound)
		assert.Equal(t, 3, locator.calls)
		assert.Len(t, sleeps.durations, 2, "no pause after the last attempt")
		assert.Empty(t, driver.events)
	})
}

func TestExecutor_InputText(t *testing.T) {
	driver := &fakeDriver{}
	exec, sleeps := newExecutor(driver, &appearingLocator{})

	require.NoError(t, exec.InputText(context.Background(), "héllo", true))
	assert.Equal(t, []string{"tap ctrl+a", "tap backspace", "clipboard", "tap ctrl+v"}, driver.events)
	assert.Equal(t, "héllo", driver.clipboard)
	assert.Equal(t, []time.Duration{200 * time.Millisecond}, sleeps.durations)

	driver.tapErr = errors.New("no display")
	assert.Error(t, exec.InputText(context.Background(), "x", false))
}

func TestExecutor_ScrollAndHotkey(t *testing.T) {
	driver := &fakeDriver{}
	exec, sleeps := newExecutor(driver, &appearingLocator{})
	ctx := context.Background()

	require.NoError(t, exec.Scroll(ctx, -120, 2))
	require.NoError(t, exec.Hotkey(ctx, []string{"ctrl", "shift", "s"}, 1))
	require.NoError(t, exec.Wait(ctx, 1.5))

	assert.Equal(t, []string{"scroll -120", "scroll -120", "tap ctrl+shift+s"}, driver.events)
	assert.Equal(t, []time.Duration{
		200 * time.Millisecond,
		200 * time.Millisecond,
		300 * time.Millisecond,
		1500 * time.Millisecond,
	}, sleeps.durations)

	assert.Error(t, exec.Hotkey(ctx, nil, 1))
}

func TestExecutor_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := robot.New(&fakeDriver{}, &appearingLocator{})
	assert.ErrorIs(t, exec.Wait(ctx, 10), context.Canceled)
}

// matcherLocator stands in for a screen template matcher that can fail to capture.
type matcherLocator struct {
	err error
}

func (l *matcherLocator) Locate(ctx context.Context, img string) (int, int, bool, error) {
	if l.err != nil {
		return 0, 0, false, l.err
	}
	return 7, 9, true, nil
}

func TestExecutor_CustomLocator(t *testing.T) {
	ctx := context.Background()

	driver := &fakeDriver{}
	exec, _ := newExecutor(driver, &matcherLocator{})
	require.NoError(t, exec.Click(ctx, "submit.png", 1, 1, "left"))
	assert.Equal(t, []string{"move 7,9", "click left double=false"}, driver.events)

	captureErr := errors.New("screen capture failed")
	driver = &fakeDriver{}
	exec, sleeps := newExecutor(driver, &matcherLocator{err: captureErr})
	err := exec.Click(ctx, "submit.png", 5, 1, "left")
	assert.ErrorIs(t, err, captureErr)
	assert.Empty(t, sleeps.durations, "locator errors are not retried")
	assert.Empty(t, driver.events)
}

func TestLoadTargets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	content := `
targets:
  submit.png: {x: 640, y: 480}
  icons/close.png: {x: 5, y: 6}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	locator, err := robot.LoadTargets(path)
	require.NoError(t, err)
	ctx := context.Background()

	x, y, found, err := locator.Locate(ctx, "assets/submit.png")
	require.NoError(t, err)
	assert.True(t, found, "base name matches")
	assert.Equal(t, 640, x)
	assert.Equal(t, 480, y)

	_, _, found, _ = locator.Locate(ctx, "icons/close.png")
	assert.True(t, found)

	_, _, found, _ = locator.Locate(ctx, "other.png")
	assert.False(t, found)

	locator.Set("other.png", robot.Target{X: 1, Y: 2})
	x, _, found, _ = locator.Locate(ctx, "other.png")
	assert.True(t, found)
	assert.Equal(t, 1, x)

	_, err = robot.LoadTargets(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
