// Package extract turns a fetched company page into candidate profile fields.
package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore-cli/internal/model"
)

// DefaultMaxTextChars bounds the main text handed to the completion service.
const DefaultMaxTextChars = 3000

// ExtractionFieldError reports a single extraction step that failed. The
// field keeps its default value.
type ExtractionFieldError struct {
	Field string
	Err   error
}

func (e *ExtractionFieldError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Field, e.Err)
}

func (e *ExtractionFieldError) Unwrap() error {
	return e.Err
}

// Extractor parses raw pages. The zero value is not usable; call New.
type Extractor struct {
	maxTextChars int
}

// New returns an Extractor truncating main text to maxTextChars runes.
// Non-positive values use DefaultMaxTextChars.
func New(maxTextChars int) *Extractor {
	if maxTextChars <= 0 {
		maxTextChars = DefaultMaxTextChars
	}
	return &Extractor{maxTextChars: maxTextChars}
}

// Extract parses page with the default settings.
func Extract(page *model.RawPage) *model.Extraction {
	return New(DefaultMaxTextChars).Extract(page)
}

// Extract parses page into an Extraction. It never fails: each step that
// errors or panics is logged and leaves its field at the default.
func (x *Extractor) Extract(page *model.RawPage) *model.Extraction {
	ext := &model.Extraction{
		CompanyName:  model.Unknown,
		Technologies: []string{},
		Products:     []string{},
	}
	if page == nil {
		return ext
	}
	ext.URL = page.URL

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		zap.L().Warn("extract: parse html", zap.String("url", page.URL), zap.Error(err))
		return ext
	}
	pageURL, _ := url.Parse(page.URL)
	visible := visibleText(doc)

	guard(page.URL, model.FieldCompanyName, func() error {
		if name := CompanyName(doc, pageURL); name != "" {
			ext.CompanyName = name
		}
		return nil
	})
	guard(page.URL, model.FieldDescription, func() error {
		ext.Description = Description(doc)
		return nil
	})
	guard(page.URL, model.FieldContactInfo, func() error {
		ext.Contact = Contact(doc, visible)
		return nil
	})
	guard(page.URL, model.FieldTechnologies, func() error {
		ext.Technologies = DetectTechnologies(doc, page.HTML, visible)
		return nil
	})
	guard(page.URL, model.FieldProducts, func() error {
		ext.Products = Products(doc)
		return nil
	})
	guard(page.URL, "main_text", func() error {
		text, err := MainText(doc, page.HTML, pageURL, x.maxTextChars)
		ext.MainText = text
		return err
	})

	return ext
}

// guard runs fn, converting a returned error or a panic into a logged
// ExtractionFieldError.
func guard(pageURL, field string, fn func() error) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = eris.Errorf("panic: %v", r)
			}
		}()
		err = fn()
	}()
	if err == nil {
		return
	}
	fe := &ExtractionFieldError{Field: field, Err: err}
	zap.L().Warn("extraction step failed",
		zap.String("url", pageURL),
		zap.String("field", field),
		zap.Error(fe),
	)
}

// visibleText returns the document's body text without script and style
// content, whitespace collapsed.
func visibleText(doc *goquery.Document) string {
	root := doc.Selection.Clone()
	root.Find("script, style, noscript, template").Remove()
	body := root.Find("body")
	if body.Length() == 0 {
		body = root
	}
	return collapseSpace(textOf(body))
}

// textOf joins the text nodes under s with spaces so adjacent block
// elements do not run together.
func textOf(s *goquery.Selection) string {
	var b strings.Builder
	s.Each(func(_ int, sel *goquery.Selection) {
		for _, n := range sel.Nodes {
			collectText(n, &b)
		}
	})
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
