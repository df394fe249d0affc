package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the pintape ASCII art banner to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"        _       _                   ", "#818cf8"},
		{"  _ __ (_)_ __ | |_ __ _ _ __   ___ ", "#a78bfa"},
		{" | '_ \\| | '_ \\| __/ _` | '_ \\ / _ \\", "#c084fc"},
		{" | |_) | | | | | || (_| | |_) |  __/", "#e879f9"},
		{" | .__/|_|_| |_|\\__\\__,_| .__/ \\___|", "#f472b6"},
		{" |_|                    |_|         ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, out.String("  PIN validator automaton "+version).Faint())
	}
	fmt.Fprintln(w)
}
