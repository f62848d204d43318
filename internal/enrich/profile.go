package enrich

import (
	"strings"

	"portfolio-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

// ParseProfile pulls a description and an outbound company link from a VC
// profile page. Links on ownDomain are ignored.
func ParseProfile(doc, ownDomain string) (description, website string) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return "", ""
	}
	return profileDescription(d), externalLink(d, ownDomain)
}

// meta description, then og:description, then the first non-empty paragraph
func profileDescription(d *goquery.Document) string {
	var meta, og string
	d.Find("meta").Each(func(_ int, m *goquery.Selection) {
		content, _ := m.Attr("content")
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}
		name, _ := m.Attr("name")
		prop, _ := m.Attr("property")
		if meta == "" && strings.EqualFold(name, "description") {
			meta = content
		}
		if og == "" && strings.EqualFold(prop, "og:description") {
			og = content
		}
	})
	if meta != "" {
		return meta
	}
	if og != "" {
		return og
	}

	var para string
	d.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		para = util.CleanText(p.Text())
		return para == ""
	})
	return para
}

func externalLink(d *goquery.Document, ownDomain string) string {
	var link string
	d.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if !util.IsAbsHTTP(href) || util.OnDomain(href, ownDomain) {
			return true
		}
		link = href
		return false
	})
	return link
}
