// Package desktop binds robot.Driver to robotgo.
package desktop

import (
	"github.com/aretw0/autoflow/pkg/adapters/robot"
	"github.com/go-vgo/robotgo"
)

// Driver sends input through robotgo.
type Driver struct{}

var _ robot.Driver = Driver{}

func (Driver) Move(x, y int) {
	robotgo.Move(x, y)
}

func (Driver) Click(button string, double bool) {
	robotgo.Click(button, double)
}

func (Driver) KeyTap(key string, modifiers ...string) error {
	if len(modifiers) == 0 {
		return robotgo.KeyTap(key)
	}
	return robotgo.KeyTap(key, modifiers)
}

func (Driver) WriteClipboard(text string) error {
	return robotgo.WriteAll(text)
}

func (Driver) Scroll(amount int) {
	robotgo.Scroll(0, amount)
}

// NewExecutor returns a robot.Executor driving the real desktop.
func NewExecutor(locator robot.Locator, opts ...robot.Option) *robot.Executor {
	return robot.New(Driver{}, locator, opts...)
}
