package extract

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscore-cli/internal/model"
)

const acmeHTML = `<html><head>
<title>Acme Analytics | Data for everyone</title>
<meta name="description" content="Acme builds   analytics tools.">
<script src="https://www.googletagmanager.com/gtag/js?id=G-1"></script>
<script src="https://js.hs-scripts.com/123.js"></script>
</head><body>
<nav>Home About</nav>
<main><h1>Welcome</h1><p>We help B2B teams.</p><script>var x = 1;</script></main>
<footer>Call (555) 123-4567 or email sales@acme.com. Visit 100 Main Street Springfield.
<a href="https://www.linkedin.com/company/acme">LinkedIn</a>
<a href="https://twitter.com/acme">Twitter</a>
<a href="https://twitter.com/acme">Twitter again</a>
<a href="https://example.com/">Other</a>
</footer>
<div class="product-card"><span class="product-name">Acme Insights</span></div>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtract_FullPage(t *testing.T) {
	ext := Extract(&model.RawPage{URL: "https://acme.com", HTML: acmeHTML})

	assert.Equal(t, "https://acme.com", ext.URL)
	assert.Equal(t, "Acme Analytics", ext.CompanyName)
	assert.Equal(t, "Acme builds analytics tools.", ext.Description)
	assert.Equal(t, "Welcome We help B2B teams.", ext.MainText)
	assert.Equal(t, []string{"Google Analytics", "HubSpot"}, ext.Technologies)
	assert.Equal(t, []string{"Acme Insights"}, ext.Products)

	assert.Equal(t, "(555) 123-4567", ext.Contact.Phone)
	assert.Equal(t, "sales@acme.com", ext.Contact.Email)
	assert.Equal(t, "100 Main Street Springfield", ext.Contact.Address)
	assert.Equal(t, []string{
		"https://www.linkedin.com/company/acme",
		"https://twitter.com/acme",
	}, ext.Contact.SocialLinks)
}

func TestExtract_NilAndEmpty(t *testing.T) {
	ext := Extract(nil)
	assert.Equal(t, model.Unknown, ext.CompanyName)
	assert.NotNil(t, ext.Technologies)

	ext = Extract(&model.RawPage{})
	assert.Equal(t, model.Unknown, ext.CompanyName)
	assert.Empty(t, ext.Technologies)
	assert.Empty(t, ext.Products)
	assert.Empty(t, ext.MainText)
}

func TestExtract_TruncatesMainText(t *testing.T) {
	page := &model.RawPage{URL: "https://x.com", HTML: "<main>abcdefghijklmnop</main>"}
	ext := New(10).Extract(page)
	assert.Equal(t, "abcdefghij", ext.MainText)
}

func TestExtract_DefaultTruncation(t *testing.T) {
	long := strings.Repeat("ü", DefaultMaxTextChars+500)
	ext := Extract(&model.RawPage{HTML: "<article>" + long + "</article>"})
	assert.Len(t, []rune(ext.MainText), DefaultMaxTextChars)
}

func TestCompanyName_Chain(t *testing.T) {
	tests := []struct {
		name string
		html string
		url  string
		want string
	}{
		{
			name: "og site name beats title",
			html: `<head><meta property="og:site_name" content="Acme Corp"><title>Something Else</title></head>`,
			want: "Acme Corp",
		},
		{
			name: "twitter title",
			html: `<head><meta name="twitter:title" content="Wayne Enterprises - Home"></head>`,
			want: "Wayne Enterprises",
		},
		{
			name: "generic title segment skipped",
			html: `<title>Home | Stark Industries</title>`,
			want: "Stark Industries",
		},
		{
			name: "logo alt",
			html: `<body><img src="/l.png" alt="Globex logo"></body>`,
			want: "Globex",
		},
		{
			name: "logo alt joined by hyphen",
			html: `<body><img src="/l.png" alt="Acme-logo"></body>`,
			want: "Acme",
		},
		{
			name: "json-ld organization",
			html: `<script type="application/ld+json">{"@context":"https://schema.org","@type":"Organization","name":"Initech"}</script>`,
			want: "Initech",
		},
		{
			name: "json-ld graph",
			html: `<script type="application/ld+json">{"@graph":[{"@type":"WebPage","url":"/"},{"@type":"Organization","name":"Soylent"}]}</script>`,
			want: "Soylent",
		},
		{
			name: "header h1",
			html: `<body><header><h1>Umbrella</h1></header></body>`,
			want: "Umbrella",
		},
		{
			name: "og url domain",
			html: `<head><meta property="og:url" content="https://www.hooli.co.uk/about"></head>`,
			want: "Hooli",
		},
		{
			name: "page url domain",
			html: `<body><p>nothing here</p></body>`,
			url:  "https://shop.vandelay.com/",
			want: "Vandelay",
		},
		{
			name: "nothing",
			html: `<body></body>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u *url.URL
			if tt.url != "" {
				var err error
				u, err = url.Parse(tt.url)
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, CompanyName(mustDoc(t, tt.html), u))
		})
	}
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Acme", cleanName("  Acme  |  Widgets  "))
	assert.Equal(t, "Acme-Corp", cleanName("Acme-Corp"))
	assert.Equal(t, "Acme", cleanName("Acme — Home of widgets"))
	assert.Equal(t, "", cleanName("   "))
}

func TestStripLogo(t *testing.T) {
	assert.Equal(t, "Acme", stripLogo("Acme-logo"))
	assert.Equal(t, "Acme", stripLogo("logo | Acme"))
	assert.Equal(t, "Acme Corp", stripLogo("Acme Corp Logo"))
	assert.Equal(t, "", stripLogo("logo"))
}

func TestDescription_FallsBackToOG(t *testing.T) {
	doc := mustDoc(t, `<head><meta property="og:description" content="OG text"></head>`)
	assert.Equal(t, "OG text", Description(doc))

	doc = mustDoc(t, `<head></head>`)
	assert.Equal(t, "", Description(doc))
}

func TestMainText_BodyFallbackDropsChrome(t *testing.T) {
	html := `<body><nav>Menu</nav><div>Hello there</div><footer>Copyright</footer></body>`
	text, err := MainText(mustDoc(t, html), html, nil, 100)
	require.NoError(t, err)
	assert.Equal(t, "Hello there", text)
}

func TestMainText_OutermostContainerOnly(t *testing.T) {
	html := `<body><main><div class="content">Inner text</div></main></body>`
	text, err := MainText(mustDoc(t, html), html, nil, 100)
	require.NoError(t, err)
	assert.Equal(t, "Inner text", text)
}

func TestContact_MailtoFallback(t *testing.T) {
	doc := mustDoc(t, `<body><a href="mailto:hello@globex.io?subject=Hi">Email us</a></body>`)
	info := Contact(doc, "Email us")
	assert.Equal(t, "hello@globex.io", info.Email)
	assert.Empty(t, info.Phone)
	assert.Empty(t, info.SocialLinks)
}

func TestIsSocialLink(t *testing.T) {
	assert.True(t, isSocialLink("https://www.facebook.com/acme"))
	assert.True(t, isSocialLink("https://x.com/acme"))
	assert.True(t, isSocialLink("https://m.youtube.com/@acme"))
	assert.False(t, isSocialLink("https://notfacebook.com/acme"))
	assert.False(t, isSocialLink("/contact"))
	assert.True(t, isSocialLink("facebook.com/acme"))
	assert.True(t, isSocialLink("www.linkedin.com/company/acme"))
	assert.False(t, isSocialLink("acme.com/contact"))
	assert.False(t, isSocialLink("mailto:press@facebook.com"))
}

func TestDetectTechnologies(t *testing.T) {
	html := `<head><meta name="x" content="zendesk widget"></head><body>Powered by Amazon Web Services and Azure</body>`
	doc := mustDoc(t, html)
	techs := DetectTechnologies(doc, html, visibleText(doc))
	assert.Equal(t, []string{"AWS", "Azure", "Zendesk"}, techs)
}

func TestDetectTechnologies_None(t *testing.T) {
	html := `<body>Plain page</body>`
	doc := mustDoc(t, html)
	assert.Empty(t, DetectTechnologies(doc, html, visibleText(doc)))
}

func TestProducts_CappedAndUnique(t *testing.T) {
	var b strings.Builder
	b.WriteString("<body>")
	for _, name := range []string{"One", "Two", "Two", "Three", "Four", "Five", "Six", "Seven"} {
		b.WriteString(`<div class="product">` + name + `</div>`)
	}
	b.WriteString(`<div id="product-x">Eight</div></body>`)

	products := Products(mustDoc(t, b.String()))
	assert.LessOrEqual(t, len(products), 5)
	assert.Equal(t, []string{"One", "Two", "Three", "Four"}, products[:4])
}

func TestGuard_RecoversPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		guard("https://acme.com", "company_name", func() error { panic("boom") })
	})
	assert.NotPanics(t, func() {
		guard("https://acme.com", "description", func() error { return errors.New("bad") })
	})
}

func TestExtractionFieldError(t *testing.T) {
	inner := errors.New("bad selector")
	err := &ExtractionFieldError{Field: "products", Err: inner}
	assert.Equal(t, "extract products: bad selector", err.Error())
	assert.ErrorIs(t, err, inner)
}
