package testutils

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// RecordingExecutor is an ActionExecutor that remembers every call as a short
// string such as "click ok.png x2 left" and can be told to fail or panic.
type RecordingExecutor struct {
	mu    sync.Mutex
	calls []string

	// FailOn makes any call whose description contains the key return the error.
	FailOn map[string]error
	// PanicOn makes any call whose description contains the value panic.
	PanicOn string
}

// NewRecordingExecutor creates an executor that records and succeeds.
func NewRecordingExecutor() *RecordingExecutor {
	return &RecordingExecutor{FailOn: map[string]error{}}
}

func (e *RecordingExecutor) record(call string) error {
	e.mu.Lock()
	e.calls = append(e.calls, call)
	e.mu.Unlock()

	if e.PanicOn != "" && strings.Contains(call, e.PanicOn) {
		panic("boom: " + call)
	}
	for key, err := range e.FailOn {
		if strings.Contains(call, key) {
			return err
		}
	}
	return nil
}

// Calls returns the recorded calls, in order.
func (e *RecordingExecutor) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.calls))
	copy(out, e.calls)
	return out
}

// Count returns how many recorded calls contain substr.
func (e *RecordingExecutor) Count(substr string) int {
	n := 0
	for _, c := range e.Calls() {
		if strings.Contains(c, substr) {
			n++
		}
	}
	return n
}

func (e *RecordingExecutor) Click(ctx context.Context, img string, retry int, clicks int, button string) error {
	return e.record(fmt.Sprintf("click %s x%d %s retry=%d", img, clicks, button, retry))
}

func (e *RecordingExecutor) InputText(ctx context.Context, text string, clear bool) error {
	return e.record(fmt.Sprintf("input %q clear=%v", text, clear))
}

func (e *RecordingExecutor) Wait(ctx context.Context, seconds float64) error {
	return e.record(fmt.Sprintf("wait %gs", seconds))
}

func (e *RecordingExecutor) Scroll(ctx context.Context, amount int, repeat int) error {
	return e.record(fmt.Sprintf("scroll %d x%d", amount, repeat))
}

func (e *RecordingExecutor) Hotkey(ctx context.Context, keys []string, repeat int) error {
	return e.record(fmt.Sprintf("hotkey %s x%d", strings.Join(keys, "|"), repeat))
}
