package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	headingStyle = color.New(color.FgCyan, color.Bold)
	doneStyle    = color.New(color.FgGreen)
	pendingStyle = color.New(color.FgHiBlack)
	streakStyle  = color.New(color.FgYellow)
	noticeStyle  = color.New(color.FgYellow)
)

// printJSON writes v as indented JSON followed by a newline.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// marker renders a completion checkbox.
func marker(done bool) string {
	if done {
		return doneStyle.Sprint("[x]")
	}
	return pendingStyle.Sprint("[ ]")
}

// days renders a streak length.
func days(n int) string {
	unit := "days"
	if n == 1 {
		unit = "day"
	}
	return streakStyle.Sprintf("%d %s", n, unit)
}
