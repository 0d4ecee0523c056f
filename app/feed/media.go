package feed

import (
	"strings"

	"github.com/beevik/etree"
)

// Media type prefixes recognized by extractMedia. A candidate matches
// when the first four characters of its type attribute equal the target.
const (
	mediaTargetImage = "imag"
	mediaTargetText  = "text"
)

// extractMedia returns the urlAttr value of the last candidate whose
// type attribute starts with target, or "" when nothing matches. Later
// matches overwrite earlier ones, following document order.
//
// For the "text" target a candidate with no type attribute at all may
// still match through rel="alternate", in which case the link is read
// from its href attribute. Atom feeds routinely emit the canonical
// article link that way.
func extractMedia(candidates []*etree.Element, urlAttr, target string) string {
	out := ""
	for _, el := range candidates {
		typ := el.SelectAttrValue("type", "")
		if typ != "" {
			if strings.HasPrefix(typ, target) {
				out = el.SelectAttrValue(urlAttr, "")
			}
			continue
		}
		if target == mediaTargetText && el.SelectAttrValue("rel", "") == "alternate" {
			out = el.SelectAttrValue("href", "")
		}
	}
	return out
}
