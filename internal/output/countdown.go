package output

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Countdown returns a pause function that draws a per-second bar on w while it
// waits. It returns early with ctx.Err() when ctx is cancelled.
func Countdown(w io.Writer) func(ctx context.Context, d time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		if d <= 0 {
			return ctx.Err()
		}

		steps := int(d / time.Second)
		if steps < 1 {
			steps = 1
		}
		step := d / time.Duration(steps)

		bar := progressbar.NewOptions(steps,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("cooldown"),
			progressbar.OptionSetWidth(20),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		ticker := time.NewTicker(step)
		defer ticker.Stop()

		for i := 0; i < steps; i++ {
			select {
			case <-ctx.Done():
				_ = bar.Clear()
				return ctx.Err()
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
		return bar.Finish()
	}
}
