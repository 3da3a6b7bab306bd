package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"otter.camp/lingot/internal/cli"
	"otter.camp/lingot/internal/model"
	"otter.camp/lingot/internal/settings"
)

func runConfigure(args []string) int {
	fs := flag.NewFlagSet("configure", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Second, "Command timeout")
	multiuser := fs.Bool("multiuser", false, "Allow more than one account")
	passwordless := fs.Bool("passwordless", false, "Log in without passwords")
	showUsers := fs.Bool("show-users", false, "List accounts on the login screen")

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

	saved, err := container.Stores.AppSettings.SaveAppSettings(ctx, model.AppSettings{
		MultiuserMode:          *multiuser,
		PasswordlessLogin:      *passwordless,
		ShowUsersOnLoginScreen: *showUsers,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save settings: %v\n", err)
		return 1
	}

	userCount, err := container.Stores.Users.CountUsers(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to count users: %v\n", err)
		return 1
	}

	view := settings.BuildLoginView(saved, userCount)
	fmt.Printf(
		"multiuser=%t passwordless=%t show_users=%t auto_login=%t registration=%t\n",
		saved.MultiuserMode,
		saved.PasswordlessLogin,
		view.ShowUserSelect,
		view.AutoLogin,
		view.ShowRegistration,
	)
	return 0
}
