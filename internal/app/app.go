// Package app implements the lingot command line interface. Every command is
// a small flag.FlagSet program returning a process exit code.
package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "serve":
		return runServe(args[1:])
	case "health":
		return runHealth(args[1:])
	case "configure":
		return runConfigure(args[1:])
	case "register":
		return runRegister(args[1:])
	case "upload":
		return runUpload(args[1:])
	case "delete":
		return runDelete(args[1:])
	case "words":
		return runWords(args[1:])
	case "prune-sessions":
		return runPruneSessions(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "lingot CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lingot <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  serve           Start the HTTP API server")
	fmt.Fprintln(os.Stderr, "  health          Verify storage connectivity")
	fmt.Fprintln(os.Stderr, "  configure       Write the application settings singleton")
	fmt.Fprintln(os.Stderr, "  register        Create a user account")
	fmt.Fprintln(os.Stderr, "  upload          Ingest a document file for a user")
	fmt.Fprintln(os.Stderr, "  delete          Delete a document and its unshared content")
	fmt.Fprintln(os.Stderr, "  words           List a user's words")
	fmt.Fprintln(os.Stderr, "  prune-sessions  Delete expired login sessions")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"lingot <command> -h\" for command-specific flags.")
}
