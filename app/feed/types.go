package feed

// Feed normalization types

// Format identifies the syndication vocabulary of a parsed document.
type Format int

const (
	FormatUnknown Format = iota
	FormatRSS
	FormatAtom
)

func (f Format) String() string {
	switch f {
	case FormatRSS:
		return "rss"
	case FormatAtom:
		return "atom"
	default:
		return "unknown"
	}
}

// Item is the canonical, format-independent record produced for every
// feed entry. All fields default to their zero value; consumers may read
// any field without a presence check. Records are never mutated after
// being appended to an output sequence.
type Item struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Content  string `json:"content"`
	Link     string `json:"link"`
	Image    string `json:"image"`
	Category string `json:"category"`
	Author   string `json:"author"`

	// Date is the published timestamp in Unix seconds, 0 when the source
	// carried no usable date. DateString is populated only when the
	// date_format option is set and a date was actually derived.
	Date       int64  `json:"date"`
	DateString string `json:"date_string,omitempty"`

	// Extra carries source tags that have no canonical field, keyed by
	// tag name. RSS and Atom expose different vocabularies; nothing is
	// discarded.
	Extra map[string]string `json:"extra,omitempty"`
}

func newItem() Item {
	return Item{Extra: make(map[string]string)}
}
