package apicall

import (
	"strings"
	"testing"
)

const arxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title>ArXiv Query Results</title>
  <entry>
    <id>http://arxiv.org/abs/2101.00001v1</id>
    <title>First Paper</title>
    <summary>About widgets.</summary>
    <published>2021-01-01T00:00:00Z</published>
    <updated>2021-01-02T00:00:00Z</updated>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <category term="cs.LG"/>
    <arxiv:doi>10.1000/xyz</arxiv:doi>
    <arxiv:comment>12 pages</arxiv:comment>
    <arxiv:primary_category term="cs.LG"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2101.00002v1</id>
    <title>Second Paper</title>
    <summary>About gadgets.</summary>
    <published>2021-02-01T00:00:00Z</published>
    <author><name>Grace Hopper</name></author>
  </entry>
</feed>`

func TestDecodeAtom_FlattensEntries(t *testing.T) {
	result, err := decodeAtom(strings.NewReader(arxivFeed))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, ok := result.([]map[string]any)
	if !ok {
		t.Fatalf("expected []map[string]any, got %T", result)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Feed order is preserved.
	first, second := records[0], records[1]
	if first["title"] != "First Paper" || second["title"] != "Second Paper" {
		t.Errorf("record order not preserved: %v, %v", first["title"], second["title"])
	}

	authors, ok := first["authors"].([]string)
	if !ok || len(authors) != 2 || authors[0] != "Ada Lovelace" {
		t.Errorf("unexpected authors: %#v", first["authors"])
	}
	if first["doi"] != "10.1000/xyz" {
		t.Errorf("expected arXiv namespace doi, got %v", first["doi"])
	}
	if first["primary_category"] != "cs.LG" {
		t.Errorf("expected primary_category from term attribute, got %v", first["primary_category"])
	}
}

func TestDecodeAtom_DropsAbsentFields(t *testing.T) {
	result, err := decodeAtom(strings.NewReader(arxivFeed))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records := result.([]map[string]any)
	second := records[1]

	// The second entry has no updated date, DOI, or categories: the keys
	// must be absent, never present with a null value.
	for _, key := range []string{"updated", "doi", "comment", "categories", "primary_category"} {
		if v, present := second[key]; present {
			t.Errorf("expected %q to be dropped, found %v", key, v)
		}
	}
}

func TestDecodeAtom_MalformedFeed(t *testing.T) {
	_, err := decodeAtom(strings.NewReader("this is not xml"))
	if err == nil {
		t.Fatal("expected decode error")
	}
	if KindOf(err) != KindDecode {
		t.Errorf("expected decode_error, got %v", KindOf(err))
	}
}
