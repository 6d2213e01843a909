package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// pageLines walks the document and returns one entry per text node, trimmed,
// with empties dropped. Script and style contents are skipped. This mirrors
// how block boundaries split the rendered text into lines.
func pageLines(doc *goquery.Document) []string {
	var lines []string
	for _, root := range doc.Nodes {
		collectText(root, &lines)
	}
	return lines
}

func collectText(n *html.Node, out *[]string) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
		return
	}
	if n.Type == html.TextNode {
		for _, part := range strings.Split(n.Data, "\n") {
			if t := strings.TrimSpace(part); t != "" {
				*out = append(*out, t)
			}
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, out)
	}
}

// collapseText flattens a selection's text nodes into one space-separated,
// whitespace-normalized string, so date phrases split across inline tags
// still match the templates.
func collapseText(sel *goquery.Selection) string {
	var lines []string
	for _, n := range sel.Nodes {
		collectText(n, &lines)
	}
	return strings.Join(lines, " ")
}
