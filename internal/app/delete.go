package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"otter.camp/lingot/internal/cli"
	"otter.camp/lingot/internal/store"
)

func runDelete(args []string) int {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 60*time.Second, "Command timeout")
	force := fs.Bool("force", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  lingot delete <document_id> [--force]")
		return 2
	}

	documentID, err := uuid.Parse(strings.TrimSpace(fs.Arg(0)))
	if err != nil {
		fmt.Fprintln(os.Stderr, "document_id must be a UUID")
		return 2
	}

	if !*force {
		ok, err := confirmDangerousAction(fmt.Sprintf("Delete document %s and its unshared sentences and words?", documentID))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read confirmation: %v\n", err)
			return 1
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Cancelled")
			return 1
		}
	}

	ctx, cancel, container, err := openContainer(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer container.Close()

	result, err := container.Ingest.DeleteDocument(ctx, documentID)
	if store.IsNotFound(err) {
		fmt.Fprintf(os.Stderr, "Document %s not found\n", documentID)
		return 1
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Delete failed: %v\n", err)
		return 1
	}

	fmt.Printf(
		"document_id=%s sentences_deleted=%d words_deleted=%d audio_removed=%d\n",
		result.DocumentID,
		result.SentencesDeleted,
		result.WordsDeleted,
		result.AudioRemoved,
	)
	return 0
}
