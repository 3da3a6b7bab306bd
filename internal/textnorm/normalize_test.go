package textnorm

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	got := SplitSentences("The cat sat.\r\n\n  The cat ran.  \n")
	want := []string{"The cat sat.", "The cat ran."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected sentences: %#v", got)
	}

	if got := SplitSentences("\n\n  \n"); len(got) != 0 {
		t.Fatalf("expected no sentences for blank input, got %#v", got)
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sentence string
		want     []string
	}{
		{
			name:     "strips edge punctuation",
			sentence: "The cat sat.",
			want:     []string{"The", "cat", "sat"},
		},
		{
			name:     "keeps internal apostrophes",
			sentence: "It's the cat's 'toy'",
			want:     []string{"It's", "the", "cat's", "toy"},
		},
		{
			name:     "drops empty tokens from double spaces",
			sentence: "one  two , three",
			want:     []string{"one", "two", "three"},
		},
		{
			name:     "quoted and parenthesized words",
			sentence: `"Hello," she said (quietly).`,
			want:     []string{"Hello", "she", "said", "quietly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Tokenize(tt.sentence); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Tokenize(%q) = %#v, want %#v", tt.sentence, got, tt.want)
			}
		})
	}
}

func TestStripPunctuation(t *testing.T) {
	t.Parallel()

	if got := StripPunctuation(`"It's over," he said.`); got != "Its over he said" {
		t.Fatalf("unexpected stripped text: %q", got)
	}
	if got := StripPunctuation("¿Qué pasa, amigo?"); got != "¿Qué pasa amigo" {
		t.Fatalf("expected non-ASCII punctuation to survive, got %q", got)
	}
}
