package extract

import (
	"fmt"
	"slices"
	"strings"
	"testing"
)

// TestExtract tests extraction from representative texts.
func TestExtract(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "url and bare domain",
			input:    "visit https://example.com/page and also example.org",
			expected: []string{"https://example.com/page", "https://example.org"},
		},
		{
			name:     "email domain is not a candidate",
			input:    "contact me at user@example.com",
			expected: []string{},
		},
		{
			name:     "dotted email local part is not a candidate",
			input:    "write to first.last@example.com today",
			expected: []string{},
		},
		{
			name:     "duplicates removed in first-seen order",
			input:    "b.example.net a.example.net https://c.example.net b.example.net",
			expected: []string{"https://c.example.net", "https://b.example.net", "https://a.example.net"},
		},
		{
			name:     "host of a captured url is skipped",
			input:    "see http://docs.example.com/guide then docs.example.com",
			expected: []string{"http://docs.example.com/guide"},
		},
		{
			name:     "localhost and ip literals are skipped",
			input:    "localhost.localdomain 192.168.0.1 and http://10.0.0.1/admin",
			expected: []string{"http://10.0.0.1/admin"},
		},
		{
			name:     "ftp urls are kept",
			input:    "mirror at ftp://ftp.example.org/pub.",
			expected: []string{"ftp://ftp.example.org/pub"},
		},
		{
			name:     "trailing punctuation dropped",
			input:    "Read https://example.com/a, then https://example.com/b.",
			expected: []string{"https://example.com/a", "https://example.com/b"},
		},
		{
			name:     "uppercase scheme kept as is",
			input:    "HTTPS://EXAMPLE.COM/X",
			expected: []string{"HTTPS://EXAMPLE.COM/X"},
		},
		{
			name:     "bare domain lowercased",
			input:    "Try Example.ORG",
			expected: []string{"https://example.org"},
		},
		{
			name:     "domain in another url query is still a candidate",
			input:    "https://redirect.example.com/?to=target.example.org",
			expected: []string{"https://redirect.example.com/?to=target.example.org", "https://target.example.org"},
		},
		{
			name:     "file names in a url path are not candidates",
			input:    "see https://example.com/docs/index.html and https://git.example.org/repo/README.md",
			expected: []string{"https://example.com/docs/index.html", "https://git.example.org/repo/README.md"},
		},
		{
			name:     "domain in a url path is still a candidate",
			input:    "https://web.archive.org/web/2020/shop.example.net",
			expected: []string{"https://web.archive.org/web/2020/shop.example.net", "https://shop.example.net"},
		},
		{
			name:     "file name outside a url is still a candidate",
			input:    "open index.html",
			expected: []string{"https://index.html"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Extract(tc.input)
			if !slices.Equal(got, tc.expected) {
				t.Errorf("Extract(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

// TestExtractEmpty tests that empty input yields an empty, non-nil slice.
func TestExtractEmpty(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "\n\t", "no links here"} {
		got := Extract(input)
		if got == nil {
			t.Errorf("Extract(%q) returned nil", input)
		}
		if len(got) != 0 {
			t.Errorf("Extract(%q) = %q, expected none", input, got)
		}
	}
}

// TestExtractGarbage tests that binary input degrades without panicking.
func TestExtractGarbage(t *testing.T) {
	t.Parallel()

	garbage := string([]byte{0xff, 0xfe, 0x00, 'a', 0x80, '.', 0xc3}) + " example.com " + string([]byte{0xe2, 0x82})
	got := Extract(garbage)
	if !slices.Contains(got, "https://example.com") {
		t.Errorf("expected example.com among %q", got)
	}
}

// TestExtractLarge tests that the extractor has no upper bound.
func TestExtractLarge(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for i := range 500 {
		fmt.Fprintf(&sb, "https://site%d.example.com/page ", i)
	}
	got := Extract(sb.String())
	if len(got) != 500 {
		t.Errorf("expected 500 candidates, got %d", len(got))
	}
}
