// Package textnorm prepares raw uploaded text for the ingestion pipeline:
// line splitting into sentence candidates and whitespace/punctuation-aware
// word tokenization.
package textnorm

import "strings"

// punctuation is the fixed ASCII set stripped from token edges and removed
// from text handed to speech synthesis.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// SplitSentences splits raw document text into trimmed sentence candidates,
// one per line. Blank lines are dropped so that join-table orders stay dense.
func SplitSentences(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")

	sentences := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		sentences = append(sentences, trimmed)
	}
	return sentences
}

// Tokenize splits a sentence on single spaces and strips the punctuation set
// from each token's edges. Internal apostrophes survive, so contractions and
// possessives ("it's", "n'est") stay intact. Tokens that strip down to
// nothing are dropped.
func Tokenize(sentence string) []string {
	parts := strings.Split(sentence, " ")

	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.Trim(strings.TrimSpace(part), punctuation)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// StripPunctuation removes every punctuation character, wherever it appears.
// Speech synthesis input goes through this so the voice does not read
// punctuation aloud.
func StripPunctuation(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 128 && strings.ContainsRune(punctuation, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
