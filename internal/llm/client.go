// Package llm talks to the hosted text model used for relevance
// classification and name extraction. Every failure degrades to the caller's
// fail-closed default; nothing here returns an error to the pipeline.
package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"portfolio-engine/internal/logging"
	"portfolio-engine/internal/scrape/util"
	"portfolio-engine/internal/secrets"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

type Options struct {
	Model          string
	APIKeyEnv      string
	KeyringAccount string
	HTMLCharLimit  int
	CompactHTML    bool
	Timeout        time.Duration
}

// Client is safe to use when nil or unavailable: every call then returns its
// fail-closed default.
type Client struct {
	gen  Generator
	opts Options
	log  *slog.Logger
}

func NewClient(gen Generator, opts Options) *Client {
	if opts.HTMLCharLimit <= 0 {
		opts.HTMLCharLimit = 120000
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Client{gen: gen, opts: opts, log: logging.For("llm")}
}

var (
	defaultOnce   sync.Once
	defaultClient *Client
)

// Default returns the process-wide client, building it on first use. A
// missing API key leaves it unavailable rather than failing.
func Default(ctx context.Context, opts Options) *Client {
	defaultOnce.Do(func() {
		log := logging.For("llm")
		key, err := secrets.GetAPIKey(opts.APIKeyEnv, opts.KeyringAccount)
		if err != nil {
			log.Warn("[llm] client missing API key", "env", opts.APIKeyEnv)
			defaultClient = NewClient(nil, opts)
			return
		}
		gen, err := NewGemini(ctx, key, opts.Model)
		if err != nil {
			log.Warn("[llm] client unavailable", "err", err)
			defaultClient = NewClient(nil, opts)
			return
		}
		defaultClient = NewClient(gen, opts)
	})
	return defaultClient
}

// CloseDefault releases the process-wide client if one was built.
func CloseDefault() error {
	if defaultClient == nil || defaultClient.gen == nil {
		return nil
	}
	return defaultClient.gen.Close()
}

// Available reports whether calls can reach the model at all.
func (c *Client) Available() bool {
	return c != nil && c.gen != nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	return c.gen.Generate(cctx, prompt)
}

// Healthcheck asks for a fixed answer and checks it.
func (c *Client) Healthcheck(ctx context.Context) bool {
	if !c.Available() {
		return false
	}
	raw, err := c.generate(ctx, "Return a JSON array with one string: OK")
	if err != nil {
		c.log.Warn("[llm] healthcheck failed", "err", err)
		return false
	}
	parsed, err := decodeStrict[[]string](raw)
	if err != nil {
		c.log.Warn("[llm] healthcheck parse failed", "err", err, "raw_text", raw)
		return false
	}
	ok := len(parsed) == 1 && strings.ToUpper(strings.TrimSpace(parsed[0])) == "OK"
	if ok {
		c.log.Info("[llm] healthcheck OK")
	} else {
		c.log.Warn("[llm] healthcheck unexpected response", "parsed", parsed)
	}
	return ok
}

// ExtractNames returns unique cleaned company names found in html.
func (c *Client) ExtractNames(ctx context.Context, html string) []string {
	if !c.Available() {
		return nil
	}
	body := html
	if c.opts.CompactHTML {
		if md, err := htmltomarkdown.ConvertString(html); err == nil {
			body = md
		} else {
			c.log.Debug("[llm] markdown conversion failed, sending html", "err", err)
		}
	}
	body = truncateRunes(body, c.opts.HTMLCharLimit)

	prompt := "Extract company names from the HTML below. " +
		"Return a JSON array of unique company names as strings, no extra text.\n\n" +
		"HTML:\n" + body

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		c.log.Warn("[llm] extraction failed", "err", err)
		return nil
	}
	items, err := decodeLenient[[]any](raw)
	if err != nil {
		c.log.Warn("[llm] extraction parse failed", "err", err, "raw_text", raw)
		return nil
	}
	var strs []string
	for _, it := range items {
		if s, ok := it.(string); ok {
			strs = append(strs, s)
		}
	}
	names := util.CleanNames(strs)
	if len(names) > 0 {
		c.log.Info("[llm] extracted names", "count", len(names), "names", strings.Join(names, ", "))
	}
	return names
}

// MatchesEnergy classifies one description.
func (c *Client) MatchesEnergy(ctx context.Context, description string, keywords []string) bool {
	if !c.Available() {
		return false
	}
	prompt := "Decide if the company description is relevant to energy investing. " +
		"Keywords: " + strings.Join(keywords, ", ") + ". " +
		"Return a JSON boolean only.\n\n" +
		"Description:\n" + description

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		c.log.Warn("[llm] filter failed", "err", err)
		return false
	}
	v, err := decodeStrict[bool](raw)
	if err != nil {
		c.log.Warn("[llm] filter response not boolean", "err", err, "raw_text", raw)
		return false
	}
	return v
}

// FilterEnergyBulk classifies descriptions in one request. The answer must
// be a same-length array; otherwise every item is false.
func (c *Client) FilterEnergyBulk(ctx context.Context, descriptions []string, keywords []string) []bool {
	if len(descriptions) == 0 {
		return nil
	}
	none := make([]bool, len(descriptions))
	if !c.Available() {
		return none
	}

	payload, err := json.Marshal(descriptions)
	if err != nil {
		return none
	}
	prompt := "You will receive a JSON array of company descriptions. " +
		"For each description, decide if it is relevant to energy investing. " +
		"Keywords: " + strings.Join(keywords, ", ") + ". " +
		"Return a JSON array of booleans with the same length and order, no extra text.\n\n" +
		"Descriptions:\n" + string(payload)

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		c.log.Warn("[llm] bulk filter failed", "err", err)
		return none
	}
	items, err := decodeStrict[[]any](raw)
	if err != nil {
		c.log.Warn("[llm] bulk filter parse failed", "err", err, "raw_text", raw)
		return none
	}
	if len(items) != len(descriptions) {
		c.log.Warn("[llm] bulk filter unexpected response length",
			"got", len(items), "want", len(descriptions))
		return none
	}

	out := make([]bool, len(items))
	for i, it := range items {
		b, ok := it.(bool)
		out[i] = ok && b
	}
	return out
}

func truncateRunes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
