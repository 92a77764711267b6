package document

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// domainLine matches lines holding something shaped like a domain.
var domainLine = regexp.MustCompile(`[a-zA-Z0-9]\.[a-zA-Z]{2,}`)

// pdfText returns the lines of every page that contain an http(s) URL or a
// domain-like token. Pages whose text cannot be decoded are skipped.
func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not a readable pdf: %w", err)
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(content, "\n") {
			if urlLike(line) {
				text.WriteString(strings.TrimSpace(line))
				text.WriteString("\n")
			}
		}
	}

	return text.String(), nil
}

func urlLike(line string) bool {
	return strings.Contains(line, "http://") ||
		strings.Contains(line, "https://") ||
		domainLine.MatchString(line)
}
