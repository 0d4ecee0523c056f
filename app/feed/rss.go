package feed

import (
	"html"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/beevik/etree"
)

// rssNormalizer converts RSS <item> elements into canonical records.
type rssNormalizer struct {
	opts *Options
	sum  *Summarizer
}

func (n *rssNormalizer) Normalize(doc *etree.Document) []Item {
	root := doc.SelectElement("rss")
	if root == nil {
		return nil
	}
	channel := root.SelectElement("channel")
	if channel == nil {
		return nil
	}

	var items []Item
	for _, node := range channel.SelectElements("item") {
		if len(node.ChildElements()) == 0 {
			continue
		}
		items = append(items, n.normalizeItem(node))
	}
	return items
}

func (n *rssNormalizer) normalizeItem(node *etree.Element) Item {
	item := newItem()

	var enclosures []*etree.Element
	var medias []*etree.Element
	guid := ""
	creator := ""
	pubDate := ""

	for _, child := range node.ChildElements() {
		text := strings.TrimSpace(child.Text())
		switch {
		case child.Tag == "enclosure":
			enclosures = append(enclosures, child)
		case child.Space == "media" && child.Tag == "content":
			medias = append(medias, child)
		case child.Tag == "description":
			item.Content = html.UnescapeString(child.Text())
		case child.Tag == "title":
			item.Title = text
		case child.Tag == "link":
			item.Link = text
		case child.Tag == "category":
			item.Category = text
		case child.Tag == "author":
			item.Author = text
		case child.Tag == "summary":
			item.Summary = text
		case child.Tag == "image":
			item.Image = text
		case child.Tag == "guid":
			guid = text
		case child.Tag == "pubDate":
			pubDate = text
		case child.Space == "dc" && child.Tag == "creator":
			creator = text
		default:
			item.Extra[child.FullTag()] = text
		}
	}

	if pubDate != "" {
		if t, err := dateparse.ParseAny(pubDate); err == nil {
			item.Date = t.Unix()
			if n.opts.DateFormat != "" {
				item.DateString = t.Format(n.opts.DateFormat)
			}
		}
	}

	// An RSS guid is the stable item identifier; when present it wins
	// over the plain link element.
	if guid != "" {
		item.Link = html.EscapeString(guid)
	}

	if item.Image == "" {
		// Serial preference composes both passes, last write wins: the
		// enclosure result is applied first and a media match overwrites
		// it.
		if n.opts.ImageSource != ImageSourceMedia {
			item.Image = extractMedia(enclosures, "url", mediaTargetImage)
		}
		if n.opts.ImageSource != ImageSourceEnclosure {
			if url := extractMedia(medias, "url", mediaTargetImage); url != "" {
				item.Image = url
			}
		}
	}

	if item.Author == "" && creator != "" {
		item.Author = creator
	}

	if n.opts.BuildSummary && item.Content != "" {
		item.Summary = n.sum.Run(item.Content, n.opts.SummaryMaxLength)
	}

	return item
}
