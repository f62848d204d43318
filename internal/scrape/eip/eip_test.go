package eip

import (
	"strings"
	"testing"

	"portfolio-engine/internal/scrape/types"
)

const page = `
<html><body>
<div class="portfolio-grid">
  <div class="portfolio-item">
    <div class="portfolio-item-overlay dark">
      <div class="logo"><img src="/a.png"></div>
      <div class="text">
        <p>VoltStor&#39;s battery systems</p>
        <p>extend grid storage.</p>
      </div>
      <a class="portfolio-site-url" href="https://voltstor.example.com">Visit</a>
    </div>
  </div>
  <div class="portfolio-item">
    <div class="portfolio-item-overlay">
      <div class="text">AeroGrid provides smart grid optimization.</div>
    </div>
  </div>
  <div class="portfolio-item">
    <div class="portfolio-item-overlay">
      <a class="portfolio-site-url" href="https://www.sunpeak.example.com">Visit</a>
    </div>
  </div>
  <div class="portfolio-item">
    <div class="portfolio-item-overlay"><div class="logo"></div></div>
  </div>
</div>
<div class="text">Outside text is ignored.</div>
</body></html>`

func TestExtract(t *testing.T) {
	got := New().Extract(page)
	want := []types.Entry{
		{Description: "VoltStor's battery systems extend grid storage.", Website: "https://voltstor.example.com"},
		{Description: "AeroGrid provides smart grid optimization."},
		{Website: "https://www.sunpeak.example.com"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExtractNestedDivsInsideText(t *testing.T) {
	doc := `<div class="portfolio-item-overlay">
	  <div class="text">First <div class="inner">nested</div> after</div>
	  <a class="portfolio-site-url" href="https://x.example.com"></a>
	</div>`
	got := New().Extract(doc)
	if len(got) != 1 {
		t.Fatalf("got %+v", got)
	}
	// closing any div leaves the text region
	if got[0].Description != "First nested" {
		t.Errorf("description = %q", got[0].Description)
	}
	if got[0].Website != "https://x.example.com" {
		t.Errorf("website = %q", got[0].Website)
	}
}

func TestExtractUnclosedBlockIsDropped(t *testing.T) {
	doc := `<div class="portfolio-item-overlay"><div class="text">Grid thing</div>`
	if got := New().Extract(doc); len(got) != 0 {
		t.Fatalf("got %+v, want none", got)
	}
}

func TestExtractMalformedMarkup(t *testing.T) {
	docs := []string{
		"",
		"<<<>>>",
		"</div></div></div>",
		`<div class="portfolio-item-overlay"><div class="text">A<b>B</div></i></div><a`,
		strings.Repeat("<div>", 500),
		`<div class="portfolio-item-overlay"/><div class="text">x</div>`,
	}
	for _, d := range docs {
		_ = New().Extract(d) // must not panic
	}

	got := New().Extract(`</div><div class="portfolio-item-overlay"><div class="text">A<b>B</div></i></div>`)
	if len(got) != 1 || got[0].Description != "A B" {
		t.Errorf("got %+v", got)
	}
}

func TestExtractRestartsOnNestedOverlay(t *testing.T) {
	doc := `<div class="portfolio-item-overlay"><div class="text">lost</div>
	<div class="portfolio-item-overlay"><div class="text">kept</div></div>`
	got := New().Extract(doc)
	if len(got) != 1 || got[0].Description != "kept" {
		t.Fatalf("got %+v", got)
	}
}

func TestExtractNormalizesNbsp(t *testing.T) {
	doc := `<div class="portfolio-item-overlay">
	  <div class="text">AeroGrid&nbsp;provides&nbsp;&nbsp;smart grid optimization.</div>
	</div>`
	got := New().Extract(doc)
	if len(got) != 1 {
		t.Fatalf("got %+v", got)
	}
	if want := "AeroGrid provides smart grid optimization."; got[0].Description != want {
		t.Errorf("description = %q, want %q", got[0].Description, want)
	}
}
