package feed

import (
	"context"
	"fmt"
	"testing"

	"github.com/beevik/etree"
)

// stubLoader serves fixture documents from memory.
type stubLoader struct {
	docs  map[string]string
	loads int
}

func (l *stubLoader) Load(_ context.Context, source string) (*etree.Document, error) {
	l.loads++
	data, ok := l.docs[source]
	if !ok {
		return nil, fmt.Errorf("no such source: %s", source)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(data); err != nil {
		return nil, err
	}
	return doc, nil
}

// memCache is a TTL-less in-memory ItemCache for session tests.
type memCache struct {
	entries map[string][]Item
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]Item)}
}

func (c *memCache) Read(source string) ([]Item, bool) {
	items, ok := c.entries[source]
	return items, ok
}

func (c *memCache) Write(source string, items []Item) bool {
	c.entries[source] = items
	return true
}

func newStubLoader() *stubLoader {
	return &stubLoader{docs: map[string]string{
		"rss":  rssFixture,
		"atom": atomFixture,
		"junk": `<?xml version="1.0"?><html><body>nope</body></html>`,
	}}
}

func TestSessionBatchSkipsFailedSource(t *testing.T) {
	session := NewSession(DefaultOptions(), newStubLoader(), nil)

	batch := session.Run(context.Background(), "rss", "missing", "atom")

	// The failing middle source contributes no entry.
	if len(batch) != 2 {
		t.Fatalf("Expected 2 batch entries, got: %d", len(batch))
	}
	if len(batch[0]) != 2 {
		t.Errorf("Expected 2 RSS items, got: %d", len(batch[0]))
	}
	if len(batch[1]) != 3 {
		t.Errorf("Expected 3 Atom items, got: %d", len(batch[1]))
	}

	if session.LastError() == "" {
		t.Error("Expected a recorded load error")
	}
	if session.Count() != 5 {
		t.Errorf("Expected running count 5, got: %d", session.Count())
	}
}

func TestSessionAllSourcesFail(t *testing.T) {
	session := NewSession(DefaultOptions(), newStubLoader(), nil)

	batch := session.Run(context.Background(), "missing", "junk")

	if batch != nil {
		t.Errorf("Expected nil batch, got: %v", batch)
	}
	if session.LastError() != "this document is not a recognized feed: junk" {
		t.Errorf("Unexpected last error: %q", session.LastError())
	}
	if got := session.Errors().Len(); got != 2 {
		t.Errorf("Expected 2 recorded errors, got: %d", got)
	}
}

func TestSessionFormatToggles(t *testing.T) {
	opts := DefaultOptions()
	opts.ParseRSS = false
	session := NewSession(opts, newStubLoader(), nil)

	batch := session.Run(context.Background(), "rss", "atom")

	// A disabled format is a silent skip, not an error.
	if len(batch) != 1 {
		t.Fatalf("Expected 1 batch entry, got: %d", len(batch))
	}
	if session.LastError() != "" {
		t.Errorf("Expected no error for skipped format, got: %q", session.LastError())
	}

	opts.ParseRSS = true
	opts.ParseAtom = false
	batch = session.Run(context.Background(), "rss", "atom")
	if len(batch) != 1 {
		t.Fatalf("Expected 1 batch entry with Atom disabled, got: %d", len(batch))
	}
	if len(batch[0]) != 2 {
		t.Errorf("Expected the RSS items, got: %d", len(batch[0]))
	}
}

func TestSessionCacheHit(t *testing.T) {
	loader := newStubLoader()
	session := NewSession(DefaultOptions(), loader, newMemCache())

	first := session.Run(context.Background(), "rss")
	second := session.Run(context.Background(), "rss")

	if loader.loads != 1 {
		t.Errorf("Expected a single load, got: %d", loader.loads)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("Expected one batch entry per run")
	}
	if len(first[0]) != len(second[0]) {
		t.Errorf("Cached batch differs: %d vs %d items", len(first[0]), len(second[0]))
	}

	// Cache hits do not grow the running item list.
	if session.Count() != 2 {
		t.Errorf("Expected running count 2, got: %d", session.Count())
	}
}

func TestSessionIdempotent(t *testing.T) {
	a := NewSession(DefaultOptions(), newStubLoader(), nil)
	b := NewSession(DefaultOptions(), newStubLoader(), nil)

	first := a.Run(context.Background(), "rss", "atom")
	second := b.Run(context.Background(), "rss", "atom")

	if len(first) != len(second) {
		t.Fatalf("Batch sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if len(first[i]) != len(second[i]) {
			t.Fatalf("Entry %d sizes differ", i)
		}
		for j := range first[i] {
			x, y := first[i][j], second[i][j]
			if x.Title != y.Title || x.Summary != y.Summary || x.Content != y.Content ||
				x.Link != y.Link || x.Image != y.Image || x.Category != y.Category ||
				x.Author != y.Author || x.Date != y.Date || x.DateString != y.DateString {
				t.Errorf("Item %d/%d differs between sessions", i, j)
			}
		}
	}
}

func TestSessionConcurrentCount(t *testing.T) {
	session := NewSession(DefaultOptions(), newStubLoader(), nil)

	// Stats readers poll the running list while a refresh runs; the
	// race detector flags any unguarded access to it.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			session.Run(context.Background(), "rss", "atom")
		}
	}()

	for {
		select {
		case <-done:
			if session.Count() != 250 {
				t.Errorf("Expected running count 250, got: %d", session.Count())
			}
			if got := len(session.Items()); got != 250 {
				t.Errorf("Expected 250 items, got: %d", got)
			}
			return
		default:
			session.Count()
			session.Items()
		}
	}
}

func TestSessionOptionChangeBetweenFeeds(t *testing.T) {
	session := NewSession(DefaultOptions(), newStubLoader(), nil)

	batch := session.Run(context.Background(), "rss")
	if batch[0][0].Summary == "" {
		t.Fatal("Expected a summary on the first pass")
	}

	if err := session.Options().Set("build_rss_summary", "false"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	batch = session.Run(context.Background(), "rss")
	if batch[0][0].Summary != "" {
		t.Errorf("Expected no summary after disabling, got: %q", batch[0][0].Summary)
	}
}
