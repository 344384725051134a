package ports

import "context"

// ActionExecutor performs the primitive desktop actions a workflow is made of.
//
// Implementations may block (locating an image, sleeping). They receive the run's
// context and may honour its cancellation, but the engine itself never aborts a
// run because of it. Returned errors are reported for the node and execution
// continues with its successors.
type ActionExecutor interface {
	// Click locates img on screen, trying up to retry times, and clicks it clicks times with button.
	Click(ctx context.Context, img string, retry int, clicks int, button string) error

	// InputText types text into the focused control, clearing it first when clear is set.
	InputText(ctx context.Context, text string, clear bool) error

	// Wait pauses for seconds.
	Wait(ctx context.Context, seconds float64) error

	// Scroll turns the mouse wheel by amount, repeat times.
	Scroll(ctx context.Context, amount int, repeat int) error

	// Hotkey presses keys as a single chord, repeat times.
	Hotkey(ctx context.Context, keys []string, repeat int) error
}
