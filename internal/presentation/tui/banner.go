package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the femtree banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	// Teal to blue
	lines := []struct {
		text, color string
	}{
		{"   __                _                  ", "#2dd4bf"},
		{"  / _| ___ _ __ ___ | |_ _ __ ___  ___  ", "#22d3ee"},
		{" | |_ / _ \\ '_ ` _ \\| __| '__/ _ \\/ _ \\ ", "#38bdf8"},
		{" |  _|  __/ | | | | | |_| | |  __/  __/ ", "#60a5fa"},
		{" |_|  \\___|_| |_| |_|\\__|_|  \\___|\\___| ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Success prints msg in green.
func Success(w io.Writer, format string, args ...any) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w, out.String(fmt.Sprintf(format, args...)).Foreground(out.Color("#22c55e")))
}

// Warning prints msg in amber.
func Warning(w io.Writer, format string, args ...any) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w, out.String(fmt.Sprintf(format, args...)).Foreground(out.Color("#f59e0b")))
}
