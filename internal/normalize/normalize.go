package normalize

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultScheme is prepended to input that carries no scheme.
const DefaultScheme = "https://"

// ErrInvalidURL is the sentinel matched by every InvalidURLError.
var ErrInvalidURL = errors.New("invalid URL")

var (
	schemePrefix = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.\-]*)://`)

	// strictURL requires a supported scheme followed by URL-safe characters,
	// ending in a character that cannot be trailing punctuation.
	strictURL = regexp.MustCompile(`^(https?|ftp|file)://[-a-zA-Z0-9+&@#/%?=~_|!:,.;]*[-a-zA-Z0-9+&@#/%=~_|]$`)
)

// InvalidURLError describes why an input was rejected.
type InvalidURLError struct {
	// Input is the raw string as supplied by the caller.
	Input string

	// Reason is a short human-readable explanation.
	Reason string
}

// Error implements the error interface.
func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL %q: %s", e.Input, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidURL.
func (e *InvalidURLError) Unwrap() error {
	return ErrInvalidURL
}

// Normalize returns the canonical form of raw or an *InvalidURLError.
//
// Steps: trim whitespace, lowercase an explicit scheme or prepend https://
// when there is none, strip exactly one trailing slash, then validate with
// both net/url and the strict character pattern. Normalize is idempotent on
// its own output.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &InvalidURLError{Input: raw, Reason: "empty input"}
	}

	if m := schemePrefix.FindStringSubmatch(s); m != nil {
		s = strings.ToLower(m[1]) + s[len(m[1]):]
	} else {
		s = DefaultScheme + s
	}

	s = strings.TrimSuffix(s, "/")
	if strings.HasSuffix(s, "/") {
		// Stripping a second slash would make the result depend on how
		// many times Normalize ran.
		return "", &InvalidURLError{Input: raw, Reason: "repeated trailing slash"}
	}

	if err := validate(s); err != nil {
		return "", &InvalidURLError{Input: raw, Reason: err.Error()}
	}
	return s, nil
}

// IsValid reports whether s is already in canonical form.
func IsValid(s string) bool {
	n, err := Normalize(s)
	return err == nil && n == s
}

// Host returns the lowercased host (without port) of a URL string.
// It returns an empty string when the URL cannot be parsed.
func Host(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func validate(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return urlErr.Err
		}
		return err
	}
	if u.Scheme == "" {
		return errors.New("missing scheme")
	}
	if u.Host == "" && u.Scheme != "file" {
		return errors.New("missing host")
	}
	if !strictURL.MatchString(s) {
		return errors.New("unsupported scheme or characters")
	}
	return nil
}
