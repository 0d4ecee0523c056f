package feed

import "github.com/beevik/etree"

// Detect classifies a parsed document by its root marker element: an
// <rss> root means RSS, a <feed> root means Atom, anything else is
// unrecognized.
func Detect(doc *etree.Document) Format {
	if doc == nil {
		return FormatUnknown
	}
	if doc.SelectElement("rss") != nil {
		return FormatRSS
	}
	if doc.SelectElement("feed") != nil {
		return FormatAtom
	}
	return FormatUnknown
}
