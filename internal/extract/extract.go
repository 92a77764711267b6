package extract

import (
	"regexp"
	"strings"

	"github.com/DOVA00/checking-links/internal/normalize"
)

var (
	urlPattern = regexp.MustCompile(
		`(?i)\b(?:https?|ftp)://[-a-zA-Z0-9+&@#/%?=~_|!:,.;]*[-a-zA-Z0-9+&@#/%=~_|]`,
	)

	domainPattern = regexp.MustCompile(
		`(?i)\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}\b`,
	)

	ipv4Pattern = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+$`)
)

// Extract returns the candidate URLs found in text in first-seen order.
// Empty or whitespace-only input yields an empty, non-nil slice. Invalid
// UTF-8 sequences are treated as separators.
func Extract(text string) []string {
	candidates := newOrderedSet()
	if strings.TrimSpace(text) == "" {
		return candidates.items
	}
	text = strings.ToValidUTF8(text, " ")

	hosts := make(map[string]struct{})
	var paths []span
	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		match := text[loc[0]:loc[1]]
		u := withScheme(match)
		candidates.add(u)
		if host := normalize.Host(u); host != "" {
			hosts[host] = struct{}{}
		}
		if p, ok := pathSpan(match); ok {
			paths = append(paths, span{start: loc[0] + p.start, end: loc[0] + p.end})
		}
	}

	for _, loc := range domainPattern.FindAllStringIndex(text, -1) {
		domain := text[loc[0]:loc[1]]
		if partOfEmail(text, loc[0], loc[1]) || excludedDomain(domain) {
			continue
		}
		if fileInPath(paths, loc[0], loc[1], domain) {
			continue
		}
		domain = strings.ToLower(domain)
		if _, seen := hosts[domain]; seen {
			continue
		}
		candidates.add(normalize.DefaultScheme + domain)
	}

	return candidates.items
}

// withScheme guards against a match without a literal scheme prefix.
func withScheme(match string) string {
	lower := strings.ToLower(match)
	for _, prefix := range []string{"http://", "https://", "ftp://"} {
		if strings.HasPrefix(lower, prefix) {
			return match
		}
	}
	return normalize.DefaultScheme + match
}

func excludedDomain(domain string) bool {
	lower := strings.ToLower(domain)
	return strings.Contains(lower, "@") ||
		strings.HasPrefix(lower, "localhost") ||
		ipv4Pattern.MatchString(lower)
}

// partOfEmail reports whether the token at text[start:end] is the local part
// or the domain of an e-mail address.
func partOfEmail(text string, start, end int) bool {
	if start > 0 && text[start-1] == '@' {
		return true
	}
	return end < len(text) && text[end] == '@'
}

// fileExtensions are name suffixes that mark a path segment as a file
// rather than a host.
var fileExtensions = map[string]struct{}{
	"htm": {}, "html": {}, "xhtml": {}, "php": {}, "asp": {}, "aspx": {}, "jsp": {},
	"md": {}, "txt": {}, "pdf": {}, "doc": {}, "docx": {}, "csv": {}, "json": {}, "xml": {},
	"js": {}, "css": {}, "png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "svg": {},
	"zip": {}, "gz": {}, "tar": {}, "exe": {},
}

type span struct {
	start, end int
}

// pathSpan returns the byte range of the path of a URL match, stopping at
// the query or fragment.
func pathSpan(match string) (span, bool) {
	sep := strings.Index(match, "://")
	if sep < 0 {
		return span{}, false
	}
	start := strings.IndexByte(match[sep+3:], '/')
	if start < 0 {
		return span{}, false
	}
	start += sep + 3
	end := len(match)
	if i := strings.IndexAny(match[start:], "?#"); i >= 0 {
		end = start + i
	}
	return span{start: start, end: end}, true
}

// fileInPath reports whether the domain-like token at text[start:end] is a
// file name inside the path of an already collected URL.
func fileInPath(paths []span, start, end int, domain string) bool {
	ext := strings.ToLower(domain[strings.LastIndexByte(domain, '.')+1:])
	if _, ok := fileExtensions[ext]; !ok {
		return false
	}
	for _, p := range paths {
		if start >= p.start && end <= p.end {
			return true
		}
	}
	return false
}

type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{
		items: make([]string, 0),
		seen:  make(map[string]struct{}),
	}
}

func (s *orderedSet) add(item string) {
	if _, ok := s.seen[item]; ok {
		return
	}
	s.seen[item] = struct{}{}
	s.items = append(s.items, item)
}
