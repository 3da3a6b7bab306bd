// Package reader reduces uploaded HTML to plain readable text so the
// ingestion pipeline only ever sees line-delimited sentences.
package reader

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	readability "codeberg.org/readeck/go-readability/v2"
)

// LooksLikeHTML sniffs whether an upload should go through readability
// extraction instead of being treated as plain text.
func LooksLikeHTML(filename string, content []byte) bool {
	name := strings.ToLower(strings.TrimSpace(filename))
	if strings.HasSuffix(name, ".html") || strings.HasSuffix(name, ".htm") {
		return true
	}

	head := strings.ToLower(string(bytes.TrimSpace(content)))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// ExtractText runs readability over HTML content and returns cleaned,
// line-delimited text.
func ExtractText(content []byte) (string, error) {
	baseURL, err := url.Parse("file:///upload")
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(content), baseURL)
	if err != nil {
		return "", fmt.Errorf("readability parse: %w", err)
	}

	var rendered bytes.Buffer
	if err := article.RenderText(&rendered); err != nil {
		return "", fmt.Errorf("render readability text: %w", err)
	}

	text := CleanText(rendered.String())
	if text == "" {
		text = CleanText(article.Excerpt())
	}
	if text == "" {
		return "", fmt.Errorf("reader extracted empty content")
	}
	return text, nil
}

// CleanText normalizes line endings, collapses in-line whitespace, and drops
// blank lines so each remaining line is a sentence candidate.
func CleanText(raw string) string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := strings.Join(strings.Fields(strings.TrimSpace(line)), " ")
		if clean == "" {
			continue
		}
		kept = append(kept, clean)
	}

	return strings.Join(kept, "\n")
}
