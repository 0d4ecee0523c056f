package feed

import "github.com/beevik/etree"

// Normalizer maps one format's entry vocabulary onto canonical records.
type Normalizer interface {
	Normalize(doc *etree.Document) []Item
}

// NewNormalizer returns the normalizer for a classified format, or nil
// for FormatUnknown.
func NewNormalizer(format Format, opts *Options, sum *Summarizer) Normalizer {
	switch format {
	case FormatRSS:
		return &rssNormalizer{opts: opts, sum: sum}
	case FormatAtom:
		return &atomNormalizer{opts: opts, sum: sum}
	default:
		return nil
	}
}
