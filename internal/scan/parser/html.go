package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/msoyaph/nexscout-sub003/internal/scan/domain"
)

// parseHTML extracts drafts from captured page markup. Visible text goes
// through the line parser; anchor hrefs are scanned separately so profile
// links survive even when the anchor text is an icon or a display name.
// Malformed markup degrades to whatever text can be recovered, never an error.
func parseHTML(rawHTML string) []domain.DraftProspect {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return parseText(extractTextTokens(rawHTML))
	}

	doc.Find("script, style, noscript").Remove()

	var lines []string
	doc.Find("body").Each(func(_ int, sel *goquery.Selection) {
		lines = append(lines, textLines(sel.Text())...)
	})
	if len(lines) == 0 {
		lines = textLines(doc.Text())
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		if handles := extractHandles(href); !handles.Empty() {
			lines = append(lines, href)
		}
	})

	return parseText(strings.Join(lines, "\n"))
}

func textLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// extractTextTokens is the fallback for markup goquery refuses to load.
// The tokenizer consumes any byte stream, so text nodes are recoverable
// from even badly broken captures.
func extractTextTokens(rawHTML string) string {
	var b strings.Builder

	tok := html.NewTokenizer(strings.NewReader(rawHTML))
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			text := strings.TrimSpace(string(tok.Text()))
			if text != "" {
				b.WriteString(text)
				b.WriteByte('\n')
			}
		}
	}
}
