// Package setventures extracts portfolio entries from the SET Ventures grid,
// where each company is an anchor labelled with its name.
package setventures

import (
	"strings"

	"portfolio-engine/internal/scrape/types"
	"portfolio-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const linkClass = "nectar-post-grid-link"

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Name() string { return "setventures" }

func (e *Extractor) Extract(doc string) []types.Entry {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return nil
	}

	var out []types.Entry
	d.Find("a[class]").Each(func(_ int, a *goquery.Selection) {
		class, _ := a.Attr("class")
		if !strings.Contains(class, linkClass) {
			return
		}
		name, _ := a.Attr("aria-label")
		href, _ := a.Attr("href")
		name = strings.TrimSpace(name)
		href = strings.TrimSpace(href)
		if name == "" || href == "" {
			return
		}
		if util.IsUpper(name) {
			name = util.Title(name)
		}
		out = append(out, types.Entry{Name: name, ProfileURL: href})
	})
	return out
}
