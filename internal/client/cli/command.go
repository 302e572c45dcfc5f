package cli

import (
	"flag"
	"io"

	"github.com/atomist-global-seeds/blockstack-browser/internal/flagx"
)

type command struct {
	records bool
	reveal  string
}

// parseCommand reads -records and -reveal from args; every other flag
// belongs to config.
func parseCommand(args []string) (command, error) {
	var c command

	fs := flag.NewFlagSet("onboard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&c.records, "records", false, "list cached recovery records")
	fs.StringVar(&c.reveal, "reveal", "", "decrypt the latest recovery record for this identity name")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-records", "-reveal"})); err != nil {
		return command{}, err
	}
	return c, nil
}
