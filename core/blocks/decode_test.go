package blocks

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const sampleDoc = `[
  {"type":"heading","level":2,"children":[{"type":"text","text":"Intro"}]},
  {"type":"paragraph","children":[
    {"type":"text","text":"Hello "},
    {"type":"text","text":"world","bold":true,"italic":true}
  ]},
  {"type":"list","format":"ordered","children":[
    {"type":"list-item","children":[{"type":"text","text":"A"}]},
    {"type":"list-item","children":[{"type":"text","text":"B"}]}
  ]},
  {"type":"quote","children":[{"type":"text","text":"Said","italic":true}]},
  {"type":"image","image":{"url":"/uploads/a.png","alternativeText":"A picture"}},
  {"type":"link","url":"https://example.com","children":[{"type":"text","text":"Click","bold":true}]},
  {"type":"embed","html":"<iframe></iframe>"}
]`

func TestDecode(t *testing.T) {
	doc, err := DecodeString(sampleDoc)
	if err != nil {
		t.Fatalf("DecodeString() error = %v", err)
	}

	want := Document{
		Heading{Level: 2, Children: []Span{{Text: "Intro"}}},
		Paragraph{Children: []Span{{Text: "Hello "}, {Text: "world", Bold: true, Italic: true}}},
		List{Ordered: true, Items: [][]Span{{{Text: "A"}}, {{Text: "B"}}}},
		Quote{Children: []Span{{Text: "Said", Italic: true}}},
		Image{URL: "/uploads/a.png", AltText: "A picture"},
		Link{URL: "https://example.com", Children: []Span{{Text: "Click", Bold: true}}},
	}
	if len(doc) != len(want)+1 {
		t.Fatalf("len(doc) = %d, want %d", len(doc), len(want)+1)
	}
	for i, w := range want {
		if !reflect.DeepEqual(doc[i], w) {
			t.Errorf("doc[%d] = %#v, want %#v", i, doc[i], w)
		}
	}

	u, ok := doc[6].(Unknown)
	if !ok {
		t.Fatalf("doc[6] = %T, want Unknown", doc[6])
	}
	if u.Type != "embed" {
		t.Errorf("Unknown.Type = %q, want embed", u.Type)
	}
	if !strings.Contains(string(u.Raw), "iframe") {
		t.Errorf("Unknown.Raw = %s, want original payload", u.Raw)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType string
		wantErr  error
		wantPath string
	}{
		{
			name:     "heading without level",
			input:    `[{"type":"heading","children":[]}]`,
			wantType: TypeHeading,
			wantErr:  ErrMissingField,
			wantPath: "[0].level",
		},
		{
			name:     "heading with null level",
			input:    `[{"type":"heading","level":null}]`,
			wantType: TypeHeading,
			wantErr:  ErrMissingField,
			wantPath: "[0].level",
		},
		{
			name:     "heading with string level",
			input:    `[{"type":"heading","level":"two"}]`,
			wantType: TypeHeading,
			wantErr:  ErrInvalidNumber,
			wantPath: "[0].level",
		},
		{
			name:     "image without url",
			input:    `[{"type":"image","image":{"alternativeText":"x"}}]`,
			wantType: TypeImage,
			wantErr:  ErrMissingField,
			wantPath: "[0].image.url",
		},
		{
			name:     "image without image object",
			input:    `[{"type":"image"}]`,
			wantType: TypeImage,
			wantErr:  ErrMissingField,
			wantPath: "[0].image.url",
		},
		{
			name:     "link without url",
			input:    `[{"type":"link","children":[{"type":"text","text":"x"}]}]`,
			wantType: TypeLink,
			wantErr:  ErrMissingField,
			wantPath: "[0].url",
		},
		{
			name:     "paragraph children not an array",
			input:    `[{"type":"paragraph","children":"oops"}]`,
			wantType: TypeParagraph,
			wantErr:  ErrExpectedArray,
			wantPath: "[0].children",
		},
		{
			name:     "missing type",
			input:    `[{"children":[]}]`,
			wantType: "",
			wantErr:  ErrMissingType,
			wantPath: "[0].type",
		},
		{
			name:     "not an object",
			input:    `[42]`,
			wantType: "",
			wantErr:  ErrExpectedObject,
			wantPath: "[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodeString(tt.input)
			if err != nil {
				t.Fatalf("DecodeString() error = %v", err)
			}
			if len(doc) != 1 {
				t.Fatalf("len(doc) = %d, want 1", len(doc))
			}
			m, ok := doc[0].(Malformed)
			if !ok {
				t.Fatalf("doc[0] = %T, want Malformed", doc[0])
			}
			if m.Type != tt.wantType {
				t.Errorf("Malformed.Type = %q, want %q", m.Type, tt.wantType)
			}
			if !errors.Is(m.Err, tt.wantErr) {
				t.Errorf("Malformed.Err = %v, want %v", m.Err, tt.wantErr)
			}
			var de *Error
			if !errors.As(m.Err, &de) {
				t.Fatalf("Malformed.Err = %T, want *Error", m.Err)
			}
			if de.Path != tt.wantPath {
				t.Errorf("Error.Path = %q, want %q", de.Path, tt.wantPath)
			}
		})
	}
}

func TestDecodeEdgeCases(t *testing.T) {
	t.Run("empty paragraph", func(t *testing.T) {
		doc, err := DecodeString(`[{"type":"paragraph"}]`)
		if err != nil {
			t.Fatal(err)
		}
		p, ok := doc[0].(Paragraph)
		if !ok {
			t.Fatalf("doc[0] = %T, want Paragraph", doc[0])
		}
		if len(p.Children) != 0 {
			t.Errorf("Children = %v, want empty", p.Children)
		}
	})

	t.Run("out of range heading level is kept", func(t *testing.T) {
		doc, err := DecodeString(`[{"type":"heading","level":9,"children":[]}]`)
		if err != nil {
			t.Fatal(err)
		}
		if h := doc[0].(Heading); h.Level != 9 {
			t.Errorf("Level = %d, want 9", h.Level)
		}
	})

	t.Run("unordered by default", func(t *testing.T) {
		doc, err := DecodeString(`[{"type":"list","children":[{"type":"list-item","children":[{"type":"text","text":"x"}]}]}]`)
		if err != nil {
			t.Fatal(err)
		}
		if l := doc[0].(List); l.Ordered {
			t.Error("Ordered = true, want false")
		}
	})

	t.Run("nested lists are dropped and counted", func(t *testing.T) {
		doc, err := DecodeString(`[{"type":"list","format":"unordered","children":[
			{"type":"list-item","children":[{"type":"text","text":"a"}]},
			{"type":"list","format":"ordered","children":[{"type":"list-item","children":[{"type":"text","text":"deep"}]}]},
			{"type":"list-item","children":[{"type":"text","text":"b"},{"type":"list","children":[]}]}
		]}]`)
		if err != nil {
			t.Fatal(err)
		}
		l := doc[0].(List)
		if len(l.Items) != 2 {
			t.Fatalf("len(Items) = %d, want 2", len(l.Items))
		}
		if l.DroppedNested != 2 {
			t.Errorf("DroppedNested = %d, want 2", l.DroppedNested)
		}
		if got := PlainText(l.Items[1]); got != "b" {
			t.Errorf("Items[1] = %q, want b", got)
		}
	})

	t.Run("inline link is flattened", func(t *testing.T) {
		doc, err := DecodeString(`[{"type":"paragraph","children":[
			{"type":"text","text":"see "},
			{"type":"link","url":"https://x.test","children":[{"type":"text","text":"here","bold":true}]},
			{"type":"text","text":"."}
		]}]`)
		if err != nil {
			t.Fatal(err)
		}
		p := doc[0].(Paragraph)
		want := []Span{{Text: "see "}, {Text: "here", Bold: true}, {Text: "."}}
		if !reflect.DeepEqual(p.Children, want) {
			t.Errorf("Children = %#v, want %#v", p.Children, want)
		}
	})

	t.Run("empty array", func(t *testing.T) {
		doc, err := DecodeString(`[]`)
		if err != nil {
			t.Fatal(err)
		}
		if len(doc) != 0 {
			t.Errorf("len(doc) = %d, want 0", len(doc))
		}
	})
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "object top level", input: `{"type":"paragraph"}`, wantErr: ErrExpectedArray},
		{name: "string top level", input: `"x"`, wantErr: ErrExpectedArray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeString(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeString() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := DecodeString(`[{"type":`); err == nil {
		t.Error("DecodeString(truncated) error = nil, want error")
	}
}

func TestDecodeRaw(t *testing.T) {
	for _, raw := range []string{"", "null", "  "} {
		doc, err := DecodeRaw([]byte(raw))
		if err != nil {
			t.Errorf("DecodeRaw(%q) error = %v", raw, err)
		}
		if len(doc) != 0 {
			t.Errorf("DecodeRaw(%q) len = %d, want 0", raw, len(doc))
		}
	}
}

func TestSpansOfAndCounts(t *testing.T) {
	doc, err := DecodeString(sampleDoc)
	if err != nil {
		t.Fatal(err)
	}
	if got := PlainText(SpansOf(doc[2])); got != "AB" {
		t.Errorf("SpansOf(list) text = %q, want AB", got)
	}
	if SpansOf(doc[4]) != nil {
		t.Error("SpansOf(image) != nil")
	}
	counts := doc.Counts()
	if counts[TypeParagraph] != 1 || counts["embed"] != 1 {
		t.Errorf("Counts() = %v", counts)
	}
}
