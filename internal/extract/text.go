package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
)

const mainSelectors = `main, article, #content, .content, .main-content, [role="main"]`

// MainText returns the page's primary prose. It prefers the outermost
// content containers, then the whole body minus chrome, then readability's
// article text. The result is whitespace-collapsed and cut to maxChars runes.
func MainText(doc *goquery.Document, rawHTML string, pageURL *url.URL, maxChars int) (string, error) {
	root := doc.Selection.Clone()

	areas := root.Find(mainSelectors).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered(mainSelectors).Length() == 0
	})
	if areas.Length() > 0 {
		areas.Find("script, style, nav").Remove()
		if text := collapseSpace(textOf(areas)); text != "" {
			return truncateRunes(text, maxChars), nil
		}
	}

	body := root.Find("body")
	if body.Length() == 0 {
		body = root
	}
	body.Find("script, style, nav, footer, noscript").Remove()
	if text := collapseSpace(textOf(body)); text != "" {
		return truncateRunes(text, maxChars), nil
	}

	if strings.TrimSpace(rawHTML) == "" {
		return "", nil
	}
	if pageURL == nil {
		pageURL = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		return "", eris.Wrap(err, "readability")
	}
	return truncateRunes(collapseSpace(article.TextContent), maxChars), nil
}

// collectText appends the text nodes under n, separated by spaces.
func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
