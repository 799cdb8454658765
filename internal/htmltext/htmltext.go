// Package htmltext flattens HTML to plain text for the triage
// heuristics and the HTML extractor. Every text node is followed by a
// space so values split across adjacent tags stay delimited.
package htmltext

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// minBlockLength filters out trivial fragments when collecting
// candidate text blocks.
const minBlockLength = 40

var whitespaceRx = regexp.MustCompile(`\s+`)

// Flatten converts an HTML body to whitespace-normalized text with
// scripts and styles removed. Input that does not parse as HTML is
// returned as-is.
func Flatten(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return string(body)
	}
	doc.Find("script, style, noscript").Remove()

	var sb strings.Builder
	for _, node := range doc.Nodes {
		writeTextNodes(&sb, node)
	}

	text := Collapse(sb.String())
	if text == "" {
		return string(body)
	}
	return text
}

// Blocks returns the flattened text of each sectioning element in the
// document, largest scopes last, ending with the whole page. Adapter
// rules match against these scopes so one game's numbers do not bleed
// into another's.
func Blocks(body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return []string{string(body)}
	}
	doc.Find("script, style, noscript").Remove()

	var out []string
	doc.Find("section, article, table, tbody, tr, ul, ol, div, p, li, main").Each(
		func(_ int, sel *goquery.Selection) {
			var sb strings.Builder
			for _, node := range sel.Nodes {
				writeTextNodes(&sb, node)
			}
			if text := Collapse(sb.String()); len(text) > minBlockLength {
				out = append(out, text)
			}
		})

	page := Flatten(body)
	if len(out) == 0 || out[len(out)-1] != page {
		out = append(out, page)
	}
	return out
}

// Collapse normalizes runs of whitespace to single spaces.
func Collapse(s string) string {
	return strings.TrimSpace(whitespaceRx.ReplaceAllString(s, " "))
}

func writeTextNodes(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeTextNodes(sb, c)
	}
}
