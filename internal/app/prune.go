package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"otter.camp/lingot/internal/cli"
	"otter.camp/lingot/internal/globaltime"
)

func runPruneSessions(args []string) int {
	fs := flag.NewFlagSet("prune-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	ctx, cancel, container, err := openContainer(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer container.Close()

	deleted, err := container.Stores.Sessions.DeleteExpiredSessions(ctx, globaltime.UTC())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to prune sessions: %v\n", err)
		return 1
	}

	fmt.Printf("sessions_deleted=%d\n", deleted)
	return 0
}
