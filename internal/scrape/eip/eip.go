// Package eip extracts portfolio entries from the Energy Impact Partners
// layout: repeated overlay blocks holding a text region and a site link.
package eip

import (
	"strings"

	"portfolio-engine/internal/scrape/types"
	"portfolio-engine/internal/scrape/util"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	blockClass = "portfolio-item-overlay"
	textClass  = "text"
	siteClass  = "portfolio-site-url"
)

type state int

const (
	outside state = iota
	inBlock
	inText
)

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Name() string { return "eip" }

// Extract walks the token stream once. Entries carry no name; the caller
// infers it from the description or website.
func (e *Extractor) Extract(doc string) []types.Entry {
	z := html.NewTokenizer(strings.NewReader(doc))
	m := &machine{}
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; keep what was closed so far
			return m.entries
		case html.StartTagToken:
			m.start(z.Token())
		case html.SelfClosingTagToken:
			tok := z.Token()
			m.start(tok)
			m.end(tok)
		case html.EndTagToken:
			m.end(z.Token())
		case html.TextToken:
			m.text(string(z.Text()))
		}
	}
}

// machine tracks one overlay block at a time. depth counts open divs inside
// the block, the block itself included; the block closes at depth 0.
type machine struct {
	st      state
	depth   int
	desc    []string
	site    string
	entries []types.Entry
}

func (m *machine) start(tok html.Token) {
	switch tok.DataAtom {
	case atom.Div:
		class := attr(tok, "class")
		if strings.Contains(class, blockClass) {
			// a new overlay always restarts the block, even inside another one
			m.st = inBlock
			m.depth = 1
			m.desc = nil
			m.site = ""
			return
		}
		if m.st == outside {
			return
		}
		m.depth++
		if strings.Contains(class, textClass) {
			m.st = inText
		}
	case atom.A:
		if m.st == outside {
			return
		}
		if strings.Contains(attr(tok, "class"), siteClass) {
			if href := attr(tok, "href"); href != "" {
				m.site = href
			}
		}
	}
}

func (m *machine) end(tok html.Token) {
	if m.st == outside || tok.DataAtom != atom.Div {
		return
	}
	if m.st == inText {
		m.st = inBlock
	}
	m.depth--
	if m.depth > 0 {
		return
	}

	desc := util.CleanText(strings.Join(m.desc, " "))
	if desc != "" || m.site != "" {
		m.entries = append(m.entries, types.Entry{Description: desc, Website: m.site})
	}
	m.st = outside
	m.desc = nil
	m.site = ""
}

func (m *machine) text(s string) {
	if m.st != inText {
		return
	}
	if t := strings.TrimSpace(s); t != "" {
		m.desc = append(m.desc, t)
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
