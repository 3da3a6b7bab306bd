package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"otter.camp/lingot/internal/cli"
)

func runWords(args []string) int {
	fs := flag.NewFlagSet("words", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	username := fs.String("user", "", "Username owning the words")
	languageCode := fs.String("language", "", "Filter by language code")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
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

	words, err := container.Stores.Words.ListWords(ctx, user.ID, strings.TrimSpace(*languageCode))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list words: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(words); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode words: %v\n", err)
			return 1
		}
		return 0
	}

	rows := make([][]string, 0, len(words))
	for _, word := range words {
		rows = append(rows, []string{
			word.ID.String(),
			word.LanguageCode,
			word.RootWord,
			string(word.PartOfSpeech),
			formatUTCTimestamp(word.CreatedAt),
		})
	}
	if err := writeTable([]string{"WORD_ID", "LANG", "ROOT", "PART_OF_SPEECH", "CREATED_AT"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write table: %v\n", err)
		return 1
	}
	return 0
}
