package feed

import "testing"

const atomFixture = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <entry>
    <title>Entry 1</title>
    <link rel="alternate" type="text/html" href="https://example.com/entry1"/>
    <link rel="enclosure" type="image/png" href="https://example.com/cover.png"/>
    <id>urn:uuid:entry-1</id>
    <published>2023-07-03T10:00:00Z</published>
    <updated>2023-07-04T12:00:00Z</updated>
    <category term="tech"/>
    <author><name>Jane Doe</name></author>
    <content type="html">&lt;p&gt;The quick brown fox jumps over the lazy dog&lt;/p&gt;</content>
  </entry>
  <entry>
    <title>Entry 2</title>
    <link rel="alternate" href="https://example.com/entry2"/>
    <updated>2023-07-05T08:00:00Z</updated>
  </entry>
  <entry>
    <title>Entry 3</title>
    <summary>hand-written summary</summary>
  </entry>
</feed>`

func normalizeAtom(t *testing.T, opts *Options, data string) []Item {
	t.Helper()
	doc := parseDoc(t, data)
	n := NewNormalizer(FormatAtom, opts, NewSummarizer())
	return n.Normalize(doc)
}

func TestAtomNormalizeFields(t *testing.T) {
	items := normalizeAtom(t, DefaultOptions(), atomFixture)

	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got: %d", len(items))
	}

	item := items[0]
	if item.Title != "Entry 1" {
		t.Errorf("Expected title 'Entry 1', got: %q", item.Title)
	}
	if item.Category != "tech" {
		t.Errorf("Expected category 'tech' from term attribute, got: %q", item.Category)
	}
	if item.Author != "Jane Doe" {
		t.Errorf("Expected author 'Jane Doe', got: %q", item.Author)
	}
	if item.Extra["id"] != "urn:uuid:entry-1" {
		t.Errorf("Expected id pass-through, got: %v", item.Extra)
	}
	if item.Content != "<p>The quick brown fox jumps over the lazy dog</p>" {
		t.Errorf("Unexpected content: %q", item.Content)
	}
}

func TestAtomLinkCollapse(t *testing.T) {
	items := normalizeAtom(t, DefaultOptions(), atomFixture)

	// A typed text/html candidate wins for entry 1; entry 2 has no typed
	// candidate and falls back to rel="alternate".
	if items[0].Link != "https://example.com/entry1" {
		t.Errorf("Expected link from text-typed candidate, got: %q", items[0].Link)
	}
	if items[1].Link != "https://example.com/entry2" {
		t.Errorf("Expected link from alternate fallback, got: %q", items[1].Link)
	}
}

func TestAtomImageFromLinks(t *testing.T) {
	items := normalizeAtom(t, DefaultOptions(), atomFixture)

	if items[0].Image != "https://example.com/cover.png" {
		t.Errorf("Expected image from image-typed link, got: %q", items[0].Image)
	}
	if items[1].Image != "" {
		t.Errorf("Expected no image for entry 2, got: %q", items[1].Image)
	}
}

func TestAtomDateFallback(t *testing.T) {
	items := normalizeAtom(t, DefaultOptions(), atomFixture)

	// published wins over updated.
	if items[0].Date != 1688378400 {
		t.Errorf("Expected published epoch 1688378400, got: %d", items[0].Date)
	}
	// updated is the fallback.
	if items[1].Date != 1688544000 {
		t.Errorf("Expected updated epoch 1688544000, got: %d", items[1].Date)
	}
	// No date element at all stays empty.
	if items[2].Date != 0 {
		t.Errorf("Expected zero date for entry 3, got: %d", items[2].Date)
	}
}

func TestAtomDateFormatSkippedWithoutDate(t *testing.T) {
	opts := DefaultOptions()
	opts.DateFormat = "2006-01-02"
	items := normalizeAtom(t, opts, atomFixture)

	if items[0].DateString != "2023-07-03" {
		t.Errorf("Expected formatted date '2023-07-03', got: %q", items[0].DateString)
	}
	if items[2].DateString != "" {
		t.Errorf("Expected no formatted date without a source date, got: %q", items[2].DateString)
	}
}

func TestAtomSummary(t *testing.T) {
	opts := DefaultOptions()
	opts.SummaryMaxLength = 10
	items := normalizeAtom(t, opts, atomFixture)

	if items[0].Summary != "The quick brown" {
		t.Errorf("Expected summary 'The quick brown', got: %q", items[0].Summary)
	}

	// An entry without content keeps its source summary element.
	if items[2].Summary != "hand-written summary" {
		t.Errorf("Expected source summary to survive, got: %q", items[2].Summary)
	}
}
