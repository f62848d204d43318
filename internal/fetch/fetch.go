// Package fetch resolves a source reference (remote URL, file:// URL or
// local path) to decoded document text.
package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"portfolio-engine/internal/logging"
)

const snippetBytes = 500

type Fetcher struct {
	hc      *http.Client
	headers map[string]string
	log     *slog.Logger
}

func New(timeout time.Duration, headers map[string]string) *Fetcher {
	h := make(map[string]string, len(headers))
	for k, v := range headers {
		h[k] = v
	}
	return &Fetcher{
		hc:      &http.Client{Timeout: timeout},
		headers: h,
		log:     logging.For("fetch"),
	}
}

// Fetch returns the document text, or false when there is no document.
// Failures are logged, never returned: one attempt, no retry.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}

	if strings.HasPrefix(ref, "file://") {
		u, err := url.Parse(ref)
		if err != nil {
			f.log.Warn("[fetch] bad file url", "url", ref, "err", err)
			return "", false
		}
		return f.readLocal(u.Path, "url", ref)
	}

	if st, err := os.Stat(ref); err == nil && !st.IsDir() {
		return f.readLocal(ref, "path", ref)
	}

	return f.fetchRemote(ctx, ref)
}

func (f *Fetcher) readLocal(path, key, ref string) (string, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		f.log.Warn("[fetch] local file read failed", key, ref, "err", err)
		return "", false
	}
	f.log.Info("[fetch] loaded local html", key, ref, "bytes", len(b))
	return Decode(b), true
}

func (f *Fetcher) fetchRemote(ctx context.Context, raw string) (string, bool) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		f.log.Warn("[fetch] bad request", "url", raw, "err", err)
		return "", false
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	res, err := f.hc.Do(req)
	if err != nil {
		f.log.Warn("[fetch] fetch failed", "url", raw, "err", err, "seconds", seconds(start))
		return "", false
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, snippetBytes))
		f.log.Warn("[fetch] http fetch failed",
			"url", raw,
			"status", res.StatusCode,
			"seconds", seconds(start),
			"body_snippet", Decode(b),
		)
		return "", false
	}

	b, err := io.ReadAll(res.Body)
	if err != nil && !errors.Is(err, io.EOF) {
		f.log.Warn("[fetch] read body failed", "url", raw, "err", err, "seconds", seconds(start))
		return "", false
	}
	f.log.Info("[fetch] fetched html",
		"url", raw,
		"status", res.StatusCode,
		"bytes", len(b),
		"seconds", seconds(start),
	)
	return Decode(b), true
}

// Decode is the lossy text decoding used for every document: invalid UTF-8
// becomes U+FFFD.
func Decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

func seconds(start time.Time) float64 {
	d := time.Since(start).Round(10 * time.Millisecond)
	return d.Seconds()
}
