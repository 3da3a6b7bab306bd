package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"otter.camp/lingot/internal/auth"
	"otter.camp/lingot/internal/cli"
	"otter.camp/lingot/internal/model"
	"otter.camp/lingot/internal/store"
)

func runRegister(args []string) int {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Second, "Command timeout")
	username := fs.String("username", "", "Username for the new account")
	displayName := fs.String("display-name", "", "Display name (defaults to the username)")
	password := fs.String("password", "", "Password; omit for passwordless installations")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if err := auth.ValidateUsername(*username); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid username: %v\n", err)
		return 2
	}

	passwordHash := ""
	if strings.TrimSpace(*password) != "" {
		if err := auth.ValidatePassword(*password); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid password: %v\n", err)
			return 2
		}
		hash, err := auth.HashPassword(*password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to hash password: %v\n", err)
			return 1
		}
		passwordHash = hash
	}

	name := strings.TrimSpace(*displayName)
	if name == "" {
		name = auth.NormalizeUsername(*username)
	}

	ctx, cancel, container, err := openContainer(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer container.Close()

	user, err := container.Stores.Users.CreateUser(ctx, model.User{
		Username:     auth.NormalizeUsername(*username),
		DisplayName:  name,
		PasswordHash: passwordHash,
	})
	if errors.Is(err, store.ErrExists) {
		fmt.Fprintf(os.Stderr, "Username %q is already taken\n", auth.NormalizeUsername(*username))
		return 1
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create user: %v\n", err)
		return 1
	}

	fmt.Printf("user_id=%s username=%s\n", user.ID, user.Username)
	return 0
}
