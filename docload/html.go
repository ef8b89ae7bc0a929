package docload

import (
	"bytes"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// extractHTMLText extracts visible text from an HTML file, one line per
// block-level element, so numbered questions exported as paragraphs or list
// items keep their line structure.
func extractHTMLText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	var lines []string
	collectBlockText(doc, &lines)
	return strings.Join(lines, "\n"), nil
}

// collectBlockText walks the DOM and appends one line per block element.
func collectBlockText(n *html.Node, lines *[]string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Head:
			return
		case atom.P, atom.Li, atom.Td, atom.Th, atom.Div,
			atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			// Only leaf-most blocks become lines; a div wrapping other
			// blocks descends instead of flattening them together.
			if !hasBlockChild(n) {
				if text := inlineText(n); text != "" {
					*lines = append(*lines, text)
				}
				return
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectBlockText(c, lines)
	}
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			switch c.DataAtom {
			case atom.P, atom.Li, atom.Ul, atom.Ol, atom.Table, atom.Tr,
				atom.Td, atom.Th, atom.Div, atom.H1, atom.H2, atom.H3,
				atom.H4, atom.H5, atom.H6:
				return true
			}
		}
		if hasBlockChild(c) {
			return true
		}
	}
	return false
}

// inlineText extracts all text from a node subtree, space-joined.
func inlineText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
