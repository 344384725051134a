package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"              _         __ _", "#2dd4bf"},
	{"   __ _ _   _| |_ ___  / _| | _____      __", "#22d3ee"},
	{"  / _` | | | | __/ _ \\| |_| |/ _ \\ \\ /\\ / /", "#38bdf8"},
	{" | (_| | |_| | || (_) |  _| | (_) \\ V  V /", "#60a5fa"},
	{"  \\__,_|\\__,_|\\__\\___/|_| |_|\\___/ \\_/\\_/", "#818cf8"},
}

// PrintBanner writes the autoflow ASCII banner to w, colored when w is a color terminal.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Status returns msg prefixed with a colored check mark or cross.
func Status(w io.Writer, ok bool, msg string) string {
	out := termenv.NewOutput(w)
	if ok {
		return out.String("✔ ").Foreground(out.Color("#22c55e")).String() + msg
	}
	return out.String("✘ ").Foreground(out.Color("#ef4444")).String() + msg
}
