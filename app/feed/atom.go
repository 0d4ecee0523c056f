package feed

import (
	"html"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/beevik/etree"
)

// atomNormalizer converts Atom <entry> elements into canonical records.
type atomNormalizer struct {
	opts *Options
	sum  *Summarizer
}

func (n *atomNormalizer) Normalize(doc *etree.Document) []Item {
	root := doc.SelectElement("feed")
	if root == nil {
		return nil
	}

	var items []Item
	for _, node := range root.SelectElements("entry") {
		if len(node.ChildElements()) == 0 {
			continue
		}
		items = append(items, n.normalizeItem(node))
	}
	return items
}

func (n *atomNormalizer) normalizeItem(node *etree.Element) Item {
	item := newItem()

	// Atom links are multi-valued with rel/type attributes; the whole
	// element set is collected and collapsed after the pass.
	var links []*etree.Element
	published := ""
	updated := ""

	for _, child := range node.ChildElements() {
		text := strings.TrimSpace(child.Text())
		switch child.Tag {
		case "link":
			links = append(links, child)
		case "title":
			item.Title = text
		case "summary":
			item.Summary = text
		case "content":
			item.Content = html.UnescapeString(child.Text())
		case "category":
			// Atom categories live in the term attribute, not the text.
			if text == "" {
				text = child.SelectAttrValue("term", "")
			}
			item.Category = text
		case "author":
			if name := child.SelectElement("name"); name != nil {
				item.Author = strings.TrimSpace(name.Text())
			} else {
				item.Author = text
			}
		case "published":
			published = text
		case "updated":
			updated = text
		default:
			item.Extra[child.FullTag()] = text
		}
	}

	// Prefer published, fall back to updated. Formatting applies only
	// when a date was actually derived.
	date := published
	if date == "" {
		date = updated
	}
	if date != "" {
		if t, err := dateparse.ParseAny(date); err == nil {
			item.Date = t.Unix()
			if n.opts.DateFormat != "" {
				item.DateString = t.Format(n.opts.DateFormat)
			}
		}
	}

	if item.Image == "" {
		item.Image = extractMedia(links, "href", mediaTargetImage)
	}

	item.Link = extractMedia(links, "href", mediaTargetText)

	if n.opts.BuildSummary && item.Content != "" {
		item.Summary = n.sum.Run(item.Content, n.opts.SummaryMaxLength)
	}

	return item
}
