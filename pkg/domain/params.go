package domain

import "strings"

// MouseButton selects which button a click action presses.
type MouseButton string

const (
	ButtonLeft  MouseButton = "left"
	ButtonRight MouseButton = "right"
)

// ClickParams configures click_left, double_click and click_right nodes.
type ClickParams struct {
	Img   string `mapstructure:"img" json:"img" validate:"required"`
	Retry int    `mapstructure:"retry" json:"retry" validate:"gte=1"`
}

// InputTextParams configures input_text nodes.
type InputTextParams struct {
	Text  string `mapstructure:"text" json:"text"`
	Clear bool   `mapstructure:"clear" json:"clear"`
}

// WaitParams configures wait nodes.
type WaitParams struct {
	Seconds float64 `mapstructure:"seconds" json:"seconds" validate:"gte=0"`
}

// ScrollParams configures scroll nodes. A positive amount scrolls up.
type ScrollParams struct {
	Amount int `mapstructure:"amount" json:"amount"`
	Repeat int `mapstructure:"repeat" json:"repeat" validate:"gte=1"`
}

// HotkeyParams configures hotkey nodes. Keys is a "+" or ","-joined combination such as "ctrl+s" or "ctrl,c".
type HotkeyParams struct {
	Keys   string `mapstructure:"keys" json:"keys" validate:"required"`
	Repeat int    `mapstructure:"repeat" json:"repeat" validate:"gte=1"`
}

// KeyList splits the combination into trimmed key names, dropping empty segments.
func (p HotkeyParams) KeyList() []string {
	parts := strings.FieldsFunc(p.Keys, func(r rune) bool { return r == '+' || r == ',' })
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		if k := strings.TrimSpace(part); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// LoopStartParams configures for_loop markers.
type LoopStartParams struct {
	Count int    `mapstructure:"loop_count" json:"loop_count"`
	Name  string `mapstructure:"loop_name" json:"loop_name"`
}

// LoopEndParams configures loop_end markers.
type LoopEndParams struct {
	Name string `mapstructure:"end_name" json:"end_name"`
}

// DefaultParams returns the parameter set a freshly added node of type t starts with.
func DefaultParams(t NodeType) map[string]any {
	switch t {
	case TypeClickLeft, TypeDoubleClick, TypeClickRight:
		return map[string]any{ParamImg: DefaultImg, ParamRetry: DefaultRetry}
	case TypeInputText:
		return map[string]any{ParamText: "", ParamClear: false}
	case TypeWait:
		return map[string]any{ParamSeconds: DefaultSeconds}
	case TypeScroll:
		return map[string]any{ParamAmount: DefaultAmount, ParamRepeat: DefaultRepeat}
	case TypeHotkey:
		return map[string]any{ParamKeys: DefaultKeys, ParamRepeat: DefaultRepeat}
	case TypeLoopStart:
		return map[string]any{ParamLoopCount: DefaultLoopCount, ParamLoopName: DefaultLoopName}
	case TypeLoopEnd:
		return map[string]any{ParamEndName: DefaultEndName}
	}
	return map[string]any{}
}
