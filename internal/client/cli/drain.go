package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// drain waits for background notifications, showing a spinner on a
// terminal. Work still running after drainTimeout is abandoned.
func (a *App) drain(ctx context.Context) {
	if a.queue.Pending() == 0 {
		return
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(a.out))
	s.Suffix = " Sending recovery emails..."
	s.Start()
	drained := a.queue.WaitTimeout(a.drainTimeout)
	s.Stop()

	if drained {
		a.ok("All notifications handed to the gateway")
		return
	}
	a.logger.Warn(ctx, "abandoning background work", "pending", a.queue.Pending())
	fmt.Fprintln(a.out, color.YellowString("!")+" Some notifications are still pending and were abandoned")
}
