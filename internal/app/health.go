package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"otter.camp/lingot/internal/cli"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Second, "Command timeout")

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

	// A cheap query proves the adapter is actually usable, not just opened.
	userCount, err := container.Stores.Users.CountUsers(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Storage check failed: %v\n", err)
		return 1
	}

	fmt.Printf("status=ok driver=%s users=%d\n", container.Config.Driver(), userCount)
	return 0
}
