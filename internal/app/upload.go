package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"otter.camp/lingot/internal/cli"
	"otter.camp/lingot/internal/ingest"
)

func runUpload(args []string) int {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 60*time.Second, "Command timeout")
	username := fs.String("user", "", "Username owning the document")
	displayName := fs.String("name", "", "Document display name (defaults to the file name)")
	languageCode := fs.String("language", "", "Language code; detected from content when omitted")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  lingot upload <file> --user <username> [--name <display name>] [--language <code>]")
		return 2
	}

	path := strings.TrimSpace(fs.Arg(0))
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", path, err)
		return 1
	}

	name := strings.TrimSpace(*displayName)
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	ctx, cancel, container, err := openContainer(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer container.Close()

	user, err := lookupUser(ctx, container, *username)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	result, err := container.Ingest.UploadDocument(ctx, ingest.UploadRequest{
		UserID:       user.ID,
		DisplayName:  name,
		LanguageCode: *languageCode,
		Filename:     filepath.Base(path),
		Content:      content,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Upload failed: %v\n", err)
		return 1
	}

	if !result.Created {
		fmt.Printf("document_id=%s created=false\n", result.Document.ID)
		return 0
	}
	fmt.Printf(
		"document_id=%s language=%s sentences=%d new_sentences=%d words=%d new_words=%d audio_failures=%d\n",
		result.Document.ID,
		result.Document.LanguageCode,
		result.Sentences,
		result.NewSentences,
		result.Words,
		result.NewWords,
		result.AudioFailures,
	)
	return 0
}
