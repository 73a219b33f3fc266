package apicall

import (
	"io"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// decodeAtom parses an Atom feed body and flattens every entry into a plain
// record. Fields that the entry does not carry are dropped from the record
// entirely (never emitted as null); dropping applies only at the top level
// of each record.
func decodeAtom(body io.Reader) (any, error) {
	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, decodeError(err)
	}

	records := make([]map[string]any, 0, len(feed.Items))
	for _, item := range feed.Items {
		records = append(records, flattenEntry(item))
	}
	return records, nil
}

func flattenEntry(item *gofeed.Item) map[string]any {
	rec := map[string]any{}
	putString(rec, "id", item.GUID)
	putString(rec, "title", item.Title)
	putString(rec, "summary", item.Description)
	putString(rec, "published", item.Published)
	putString(rec, "updated", item.Updated)

	if len(item.Authors) > 0 {
		authors := make([]string, 0, len(item.Authors))
		for _, a := range item.Authors {
			if a != nil && a.Name != "" {
				authors = append(authors, a.Name)
			}
		}
		if len(authors) > 0 {
			rec["authors"] = authors
		}
	}
	if len(item.Categories) > 0 {
		rec["categories"] = item.Categories
	}
	if len(item.Links) > 0 {
		rec["links"] = item.Links
	}

	// arXiv publishes extra metadata in its own namespace.
	if ns, ok := item.Extensions["arxiv"]; ok {
		putString(rec, "doi", extValue(ns, "doi"))
		putString(rec, "journal_ref", extValue(ns, "journal_ref"))
		putString(rec, "comment", extValue(ns, "comment"))
		putString(rec, "affiliation", extValue(ns, "affiliation"))
		putString(rec, "primary_category", extAttr(ns, "primary_category", "term"))
	}
	return rec
}

func putString(rec map[string]any, key, value string) {
	if value != "" {
		rec[key] = value
	}
}

func extValue(ns map[string][]ext.Extension, name string) string {
	for _, e := range ns[name] {
		if e.Value != "" {
			return e.Value
		}
	}
	return ""
}

func extAttr(ns map[string][]ext.Extension, name, attr string) string {
	for _, e := range ns[name] {
		if v := e.Attrs[attr]; v != "" {
			return v
		}
	}
	return ""
}
