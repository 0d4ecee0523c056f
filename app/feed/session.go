package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/beevik/etree"
)

// DocumentLoader obtains a parsed document tree for a source identifier,
// a local path or a remote URL.
type DocumentLoader interface {
	Load(ctx context.Context, source string) (*etree.Document, error)
}

// ItemCache maps a source identifier to a previously normalized item
// list, subject to a TTL. A false Write result is non-fatal.
type ItemCache interface {
	Read(source string) ([]Item, bool)
	Write(source string, items []Item) bool
}

// Session orchestrates normalization for one or more sources: cache
// read, document load, classification, normalization, cache write.
// Sources are processed one at a time, in the order given. The session
// owns its running item list and error log; nothing accumulates in
// process-wide state.
type Session struct {
	opts      *Options
	loader    DocumentLoader
	cache     ItemCache
	extractor *ContentExtractor
	sum       *Summarizer
	errors    *ErrorLog

	mu    sync.Mutex
	items []Item
}

func NewSession(opts *Options, loader DocumentLoader, cache ItemCache) *Session {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Session{
		opts:   opts,
		loader: loader,
		cache:  cache,
		sum:    NewSummarizer(),
		errors: NewErrorLog(),
	}
}

// SetExtractor enables optional per-item content extraction, applied
// only when the extract_content option is on.
func (s *Session) SetExtractor(e *ContentExtractor) {
	s.extractor = e
}

// Run processes the given sources and returns one item sequence per
// source that produced a result. The batch is compacted: sources that
// failed to load or were skipped contribute no entry. Run returns nil
// when every source failed or was skipped.
func (s *Session) Run(ctx context.Context, sources ...string) [][]Item {
	var batch [][]Item
	for _, source := range sources {
		if s.cache != nil {
			if cached, ok := s.cache.Read(source); ok {
				slog.Debug("Cache hit", "source", source, "items", len(cached))
				batch = append(batch, cached)
				continue
			}
		}

		items, ok := s.parse(ctx, source)
		if !ok {
			continue
		}
		s.mu.Lock()
		s.items = append(s.items, items...)
		s.mu.Unlock()
		batch = append(batch, items)
	}
	return batch
}

func (s *Session) parse(ctx context.Context, source string) ([]Item, bool) {
	doc, err := s.loader.Load(ctx, source)
	if err != nil {
		slog.Warn("Failed to load source", "source", source, "error", err)
		s.errors.Add("source is not a valid document: " + source)
		return nil, false
	}

	format := Detect(doc)
	switch format {
	case FormatUnknown:
		slog.Warn("Unrecognized document format", "source", source)
		s.errors.Add("this document is not a recognized feed: " + source)
		return nil, false
	case FormatRSS:
		if !s.opts.ParseRSS {
			slog.Debug("RSS parsing disabled, skipping", "source", source)
			return nil, false
		}
	case FormatAtom:
		if !s.opts.ParseAtom {
			slog.Debug("Atom parsing disabled, skipping", "source", source)
			return nil, false
		}
	}

	// Snapshot the options so mid-batch changes only affect later feeds.
	opts := *s.opts
	normalizer := NewNormalizer(format, &opts, s.sum)

	items := normalizer.Normalize(doc)
	if items == nil {
		items = []Item{}
	}

	if opts.ExtractContent && s.extractor != nil {
		for i := range items {
			s.extractContent(ctx, &items[i])
		}
	}

	if s.cache != nil {
		if ok := s.cache.Write(source, items); !ok && opts.CacheEnabled {
			slog.Warn("Cache write failed", "source", source)
		}
	}

	slog.Info("Source normalized",
		"source", source,
		"format", format.String(),
		"items", len(items))

	return items, true
}

func (s *Session) extractContent(ctx context.Context, item *Item) {
	if item.Link == "" {
		return
	}
	content, err := s.extractor.Run(ctx, item.Link)
	if err != nil {
		slog.Debug("Content extraction failed", "link", item.Link, "error", err)
		return
	}
	item.Content = content
}

// Count reports the size of the session's cumulative running item list:
// items this session actually normalized, across all Run calls. Cache
// hits are returned in batches but do not grow the running list.
// Safe to call while another goroutine runs the session.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Items returns a snapshot of the session's running item list.
func (s *Session) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// LastError returns the most recent recorded error message, "" if none.
func (s *Session) LastError() string {
	return s.errors.Last()
}

// Errors exposes the session error log.
func (s *Session) Errors() *ErrorLog {
	return s.errors
}

// Options exposes the live option set; changes take effect on the next
// feed processed.
func (s *Session) Options() *Options {
	return s.opts
}
