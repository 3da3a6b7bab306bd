package reader

import (
	"strings"
	"testing"
)

func TestCleanTextCollapsesWhitespaceAndDropsBlankLines(t *testing.T) {
	input := "  First   line \n\n Second\tline \r\n\r\nThird line "
	got := CleanText(input)
	want := "First line\nSecond line\nThird line"
	if got != want {
		t.Fatalf("CleanText mismatch\nwant: %q\ngot:  %q", want, got)
	}
}

func TestLooksLikeHTML(t *testing.T) {
	if !LooksLikeHTML("story.html", nil) {
		t.Fatalf("expected .html filename to be detected")
	}
	if !LooksLikeHTML("story.txt", []byte("  <!DOCTYPE html><html><body>x</body></html>")) {
		t.Fatalf("expected doctype sniffing to be detected")
	}
	if LooksLikeHTML("story.txt", []byte("Plain text.")) {
		t.Fatalf("did not expect plain text to be detected as HTML")
	}
}

func TestExtractText(t *testing.T) {
	html := `<!DOCTYPE html><html><head><title>T</title></head><body>
<article>
<p>The cat sat.</p>
<p>The cat ran.</p>
</article>
</body></html>`

	text, err := ExtractText([]byte(html))
	if err != nil {
		t.Fatalf("extract text: %v", err)
	}
	if !strings.Contains(text, "The cat sat.") || !strings.Contains(text, "The cat ran.") {
		t.Fatalf("unexpected extracted text: %q", text)
	}
}
