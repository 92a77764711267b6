package document

import (
	"strings"

	"golang.org/x/net/html"
)

// linkAttrs are the attributes whose values are appended to the text.
var linkAttrs = map[string]bool{
	"href":   true,
	"src":    true,
	"action": true,
}

// htmlText returns the visible text of an HTML page followed by the values
// of its link attributes, so that anchors with a label still yield their
// target.
func htmlText(data []byte) (string, error) {
	decoded, err := decode(data, "text/html")
	if err != nil {
		return "", err
	}

	doc, err := html.Parse(strings.NewReader(decoded))
	if err != nil {
		return "", err
	}

	var text strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
			for _, attr := range n.Attr {
				if linkAttrs[attr.Key] && attr.Val != "" {
					text.WriteString(attr.Val)
					text.WriteString(" ")
				}
			}
		case html.TextNode:
			text.WriteString(n.Data)
			text.WriteString(" ")
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return collapseSpace(text.String()), nil
}
