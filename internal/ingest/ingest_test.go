package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/moneta/internal/cache"
	"github.com/ppiankov/moneta/internal/embed"
	"github.com/ppiankov/moneta/internal/model"
	"github.com/ppiankov/moneta/internal/store"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(model.StoreConfig{MaxChunkTokens: 120, SimilarityFloor: 0.2}, embed.NewLocalEmbedder(256))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testFetcher() *Fetcher {
	return NewFetcher(model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "moneta-test",
		MaxBodyBytes: 1 << 20,
	}, model.RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10}, nil)
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manifest.yaml", `
documents:
  - id: rbi-ppf
    source: /data/ppf.txt
    authority: official
    topics: [savings instruments]
    published: 2026-04-01
  - id: blog-post
    source: https://example.com/post
    authority: unverified
`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(m.Documents) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m.Documents))
	}
	if m.Documents[0].ID != "rbi-ppf" || m.Documents[0].Authority != "official" {
		t.Errorf("first entry mangled: %+v", m.Documents[0])
	}
	if !m.Documents[1].IsURL() || m.Documents[0].IsURL() {
		t.Error("IsURL misclassified a source")
	}

	doc, err := m.Documents[0].Document("some text")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if doc.Authority != model.AuthorityOfficial {
		t.Errorf("authority = %s", doc.Authority)
	}
	if doc.PublishedAt.Format("2006-01-02") != "2026-04-01" {
		t.Errorf("published = %v", doc.PublishedAt)
	}
}

func TestLoadManifest_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"missing id":     "documents:\n  - source: /x\n    authority: official\n",
		"missing source": "documents:\n  - id: a\n    authority: official\n",
		"bad authority":  "documents:\n  - id: a\n    source: /x\n    authority: blessed\n",
		"duplicate ids":  "documents:\n  - id: a\n    source: /x\n    authority: official\n  - id: a\n    source: /y\n    authority: official\n",
		"empty manifest": "documents: []\n",
	}
	i := 0
	for name, content := range cases {
		path := writeFile(t, dir, fmt.Sprintf("m%d.yaml", i), content)
		i++
		if _, err := LoadManifest(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestVisibleText(t *testing.T) {
	raw := `<html><head><title>x</title><style>p{color:red}</style></head>
<body><script>var a=1;</script><h1>PPF rates</h1>
<p>PPF interest rate is 7.1%.</p><p>Rates are revised quarterly.</p></body></html>`

	text := VisibleText(raw)
	if !strings.Contains(text, "PPF interest rate is 7.1%.") {
		t.Errorf("lost body text: %q", text)
	}
	if strings.Contains(text, "var a=1") || strings.Contains(text, "color:red") {
		t.Errorf("script/style leaked: %q", text)
	}
	// Block boundaries must keep the two sentences apart.
	if strings.Contains(text, "7.1%.Rates") {
		t.Errorf("block boundary collapsed: %q", text)
	}
}

func TestIngestor_LocalFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ppf.txt", "PPF interest rate is 7.1%. PPF is a long term savings scheme.")
	writeFile(t, dir, "fd.html", "<html><body><p>Fixed deposit rates vary by bank.</p></body></html>")

	s := testStore(t)
	ing := NewIngestor(s, testFetcher(), 2, false)

	m := &Manifest{Documents: []Entry{
		{ID: "ppf", Source: filepath.Join(dir, "ppf.txt"), Authority: "official"},
		{ID: "fd", Source: filepath.Join(dir, "fd.html"), Authority: "aggregator"},
		{ID: "missing", Source: filepath.Join(dir, "nope.txt"), Authority: "official"},
	}}

	results := ing.Run(context.Background(), m)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	byID := map[string]*EntryResult{}
	for _, r := range results {
		byID[r.ID] = r
	}
	if err := byID["ppf"].GetError(); err != nil {
		t.Errorf("ppf: %v", err)
	}
	if len(byID["ppf"].ChunkIDs) == 0 {
		t.Error("ppf produced no chunks")
	}
	if err := byID["fd"].GetError(); err != nil {
		t.Errorf("fd: %v", err)
	}
	if byID["missing"].GetError() == nil {
		t.Error("missing file should fail its entry, not the batch")
	}

	if _, ok := s.Document("ppf"); !ok {
		t.Error("ppf not in store")
	}
	if _, ok := s.Document("fd"); !ok {
		t.Error("fd not in store")
	}
}

func TestFetcher_FetchAndCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		fmt.Fprint(w, "<html><body>PPF page</body></html>")
	}))
	defer srv.Close()

	f := NewFetcher(model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "moneta-test",
		MaxBodyBytes: 1 << 20,
	}, model.RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10}, cache.NewMemoryCache(time.Minute, time.Minute))

	body, err := f.Fetch(context.Background(), srv.URL+"/page")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(body, "PPF page") {
		t.Errorf("body = %q", body)
	}

	if _, err := f.Fetch(context.Background(), srv.URL+"/page"); err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("cached page fetched %d times", hits.Load())
	}
}

func TestFetcher_RobotsDisallow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
			return
		}
		fmt.Fprint(w, "secret")
	}))
	defer srv.Close()

	f := testFetcher()
	if _, err := f.Fetch(context.Background(), srv.URL+"/private/page"); err == nil {
		t.Error("disallowed path must not be fetched")
	}
}

func TestFetcher_RetriesTransient(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	body, err := testFetcher().Fetch(context.Background(), srv.URL+"/flaky")
	if err != nil {
		t.Fatalf("expected success after retries: %v", err)
	}
	if body != "ok" || attempts.Load() != 3 {
		t.Errorf("body=%q attempts=%d", body, attempts.Load())
	}
}

func TestFetcher_404NotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	if _, err := testFetcher().Fetch(context.Background(), srv.URL+"/gone"); err == nil {
		t.Fatal("expected error for 404")
	}
	if attempts.Load() != 1 {
		t.Errorf("404 retried: %d attempts", attempts.Load())
	}
}
