package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// docxText returns the character data of every XML part in a .docx
// archive, plus the targets of external relationships (hyperlinks live in
// word/_rels/document.xml.rels, not in the body). At most limit
// decompressed bytes are read in total.
func docxText(data []byte, limit int64) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not a docx archive: %w", err)
	}

	var text strings.Builder
	remaining := limit
	for _, f := range zr.File {
		if !isXMLPart(f.Name) {
			continue
		}
		if remaining <= 0 {
			break
		}

		n, err := xmlPartText(f, remaining, &text)
		remaining -= n
		if err != nil {
			return collapseSpace(text.String()), fmt.Errorf("%s: %w", f.Name, err)
		}
	}

	return collapseSpace(text.String()), nil
}

func isXMLPart(name string) bool {
	return strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".rels")
}

// xmlPartText appends the text of one archive entry to out and returns the
// number of bytes read.
func xmlPartText(f *zip.File, limit int64, out *strings.Builder) (int64, error) {
	rc, err := f.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	counter := &countingReader{r: io.LimitReader(rc, limit)}
	dec := xml.NewDecoder(counter)
	dec.Strict = false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return counter.n, nil
		}
		if err != nil {
			return counter.n, err
		}

		switch t := tok.(type) {
		case xml.CharData:
			out.Write(t)
			out.WriteString(" ")
		case xml.StartElement:
			if t.Name.Local == "Relationship" && attr(t, "TargetMode") == "External" {
				out.WriteString(attr(t, "Target"))
				out.WriteString(" ")
			}
		case xml.EndElement:
			// Paragraph and run boundaries separate words.
			out.WriteString(" ")
		}
	}
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
