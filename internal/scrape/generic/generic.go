// Package generic is the fallback extractor for pages with no known layout:
// short anchor texts are taken as company names.
package generic

import (
	"strings"

	"portfolio-engine/internal/scrape/types"
	"portfolio-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Name() string { return "generic" }

// Extract prefers anchors that link to absolute http(s) URLs. When none
// qualify it degrades to bare anchor texts.
func (e *Extractor) Extract(doc string) []types.Entry {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return nil
	}
	anchors := d.Find("a")

	if out := linkedNames(anchors); len(out) > 0 {
		return out
	}
	return bareNames(anchors)
}

func linkedNames(anchors *goquery.Selection) []types.Entry {
	seen := util.NewDedup()
	var out []types.Entry
	anchors.Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if !util.IsAbsHTTP(href) {
			return
		}
		name := util.CleanText(a.Text())
		if !util.NameLenOK(name) || !seen.First(name) {
			return
		}
		out = append(out, types.Entry{Name: name, Website: href})
	})
	return out
}

func bareNames(anchors *goquery.Selection) []types.Entry {
	seen := util.NewDedup()
	var out []types.Entry
	anchors.Each(func(_ int, a *goquery.Selection) {
		name := util.CleanText(a.Text())
		if !util.NameLenOK(name) || !seen.First(name) {
			return
		}
		out = append(out, types.Entry{Name: name})
	})
	return out
}
