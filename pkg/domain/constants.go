package domain

// Parameter keys as they appear in a persisted document.
const (
	ParamImg       = "img"
	ParamRetry     = "retry"
	ParamText      = "text"
	ParamClear     = "clear"
	ParamSeconds   = "seconds"
	ParamAmount    = "amount"
	ParamRepeat    = "repeat"
	ParamKeys      = "keys"
	ParamLoopCount = "loop_count"
	ParamLoopName  = "loop_name"
	ParamEndName   = "end_name"
)

// Defaults applied when a parameter is absent.
const (
	DefaultImg       = "target.png"
	DefaultRetry     = 1
	DefaultSeconds   = 1.0
	DefaultAmount    = 100
	DefaultRepeat    = 1
	DefaultKeys      = "ctrl+c"
	DefaultLoopCount = 3
	DefaultLoopName  = "loop"
	DefaultEndName   = "loop end"
)

// NodeIDPrefix is the conventional prefix of generated node ids ("node_" + integer).
const NodeIDPrefix = "node_"
