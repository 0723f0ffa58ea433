package news

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const sampleArticle = `
<article>
  <a href="./articles/abc123"></a>
  <h3>Chipmaker beats estimates ahead of earnings</h3>
  <div data-n-tid="9">Example Wire</div>
  <time datetime="2024-05-01T12:00:00Z">2 hours ago</time>
</article>`

func parseArticle(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc.Find("article").First()
}

func TestHeadlineFromArticle(t *testing.T) {
	h, ok := headlineFromArticle(parseArticle(t, sampleArticle), "NVDA")
	if !ok {
		t.Fatal("expected a headline from a complete article node")
	}
	if h.Title != "Chipmaker beats estimates ahead of earnings" {
		t.Errorf("Title = %q", h.Title)
	}
	if h.URL != "https://news.google.com/articles/abc123" {
		t.Errorf("URL = %q, relative link should be absolutized", h.URL)
	}
	if h.Source != "Example Wire" {
		t.Errorf("Source = %q", h.Source)
	}
	if h.PublishedAt != "2024-05-01T12:00:00Z" {
		t.Errorf("PublishedAt = %q", h.PublishedAt)
	}
	if h.Symbol != "NVDA" {
		t.Errorf("Symbol = %q", h.Symbol)
	}
}

func TestHeadlineFromArticleMissingTitle(t *testing.T) {
	_, ok := headlineFromArticle(parseArticle(t, `<article><a href="./articles/x"></a></article>`), "NVDA")
	if ok {
		t.Error("article without a title should be skipped")
	}
}

func TestHeadlineFromArticleMissingLink(t *testing.T) {
	_, ok := headlineFromArticle(parseArticle(t, `<article><h3>Title only</h3></article>`), "NVDA")
	if ok {
		t.Error("article without a link should be skipped")
	}
}
