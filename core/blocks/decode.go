package blocks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	spanTypeText     = "text"
	itemTypeListItem = "list-item"
	formatOrdered    = "ordered"
)

// Decode parses a JSON array of CMS blocks into a Document.
//   - Only a non-array top level or invalid JSON is an error
//   - Unrecognized block types become Unknown
//   - Recognized blocks missing a required field become Malformed
func Decode(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, wrap("decode", "", err)
	}
	d, ok := tok.(json.Delim)
	if !ok || d != '[' {
		return nil, wrap("decode", "", fmt.Errorf("%w: expected '['", ErrExpectedArray))
	}

	doc := Document{}
	for i := 0; dec.More(); i++ {
		var rm json.RawMessage
		if err := dec.Decode(&rm); err != nil {
			return nil, wrap("decode", fmt.Sprintf("[%d]", i), err)
		}
		doc = append(doc, parseBlock(rm, fmt.Sprintf("[%d]", i)))
	}

	tok, err = dec.Token()
	if err != nil {
		return nil, wrap("decode", "", err)
	}
	d, ok = tok.(json.Delim)
	if !ok || d != ']' {
		return nil, wrap("decode", "", fmt.Errorf("%w: expected ']'", ErrUnexpectedToken))
	}

	return doc, nil
}

// DecodeString is a convenience wrapper for Decode.
func DecodeString(s string) (Document, error) {
	return Decode(strings.NewReader(s))
}

// DecodeRaw decodes a document embedded in a larger JSON payload.
// A missing or null body decodes to an empty Document.
func DecodeRaw(raw json.RawMessage) (Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Document{}, nil
	}
	return Decode(bytes.NewReader(trimmed))
}

func parseBlock(raw json.RawMessage, path string) Block {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return Malformed{Err: wrap("block", path, ErrExpectedObject)}
	}

	var typ string
	if err := json.Unmarshal(obj["type"], &typ); err != nil || typ == "" {
		return Malformed{Err: wrap("block", path+".type", ErrMissingType)}
	}

	switch typ {
	case TypeParagraph:
		spans, err := parseSpans(obj["children"], path+".children")
		if err != nil {
			return Malformed{Type: typ, Err: err}
		}
		return Paragraph{Children: spans}

	case TypeQuote:
		spans, err := parseSpans(obj["children"], path+".children")
		if err != nil {
			return Malformed{Type: typ, Err: err}
		}
		return Quote{Children: spans}

	case TypeHeading:
		var level *int
		if err := json.Unmarshal(obj["level"], &level); err != nil {
			if _, present := obj["level"]; present {
				return Malformed{Type: typ, Err: wrap("block", path+".level", ErrInvalidNumber)}
			}
			return Malformed{Type: typ, Err: missing(path, "level")}
		}
		if level == nil {
			return Malformed{Type: typ, Err: missing(path, "level")}
		}
		spans, err := parseSpans(obj["children"], path+".children")
		if err != nil {
			return Malformed{Type: typ, Err: err}
		}
		return Heading{Level: *level, Children: spans}

	case TypeList:
		var format string
		_ = json.Unmarshal(obj["format"], &format)
		list, err := parseItems(obj["children"], path+".children")
		if err != nil {
			return Malformed{Type: typ, Err: err}
		}
		list.Ordered = format == formatOrdered
		return list

	case TypeImage:
		var img struct {
			URL             *string `json:"url"`
			AlternativeText *string `json:"alternativeText"`
		}
		if err := json.Unmarshal(obj["image"], &img); err != nil || img.URL == nil || *img.URL == "" {
			return Malformed{Type: typ, Err: missing(path, "image.url")}
		}
		out := Image{URL: *img.URL}
		if img.AlternativeText != nil {
			out.AltText = *img.AlternativeText
		}
		return out

	case TypeLink:
		var u string
		if err := json.Unmarshal(obj["url"], &u); err != nil || u == "" {
			return Malformed{Type: typ, Err: missing(path, "url")}
		}
		spans, err := parseSpans(obj["children"], path+".children")
		if err != nil {
			return Malformed{Type: typ, Err: err}
		}
		return Link{URL: u, Children: spans}

	default:
		return Unknown{Type: typ, Raw: append(json.RawMessage(nil), raw...)}
	}
}

// wireInline is any node found in a children array.
type wireInline struct {
	Type     string          `json:"type"`
	Text     *string         `json:"text"`
	Bold     bool            `json:"bold"`
	Italic   bool            `json:"italic"`
	Children json.RawMessage `json:"children"`
}

// parseSpans reads a children array. Absent or null children are an empty
// run. Inline containers such as inline links are flattened into their text
// spans; anything else without text is dropped.
func parseSpans(raw json.RawMessage, path string) ([]Span, error) {
	nodes, err := rawArray(raw, path)
	if err != nil {
		return nil, err
	}
	spans := make([]Span, 0, len(nodes))
	for _, n := range nodes {
		var in wireInline
		if err := json.Unmarshal(n, &in); err != nil {
			continue
		}
		spans = appendInline(spans, in)
	}
	return spans, nil
}

func appendInline(spans []Span, in wireInline) []Span {
	if in.Text != nil && (in.Type == spanTypeText || in.Type == "") {
		return append(spans, Span{Text: *in.Text, Bold: in.Bold, Italic: in.Italic})
	}
	if in.Type == TypeList || len(in.Children) == 0 {
		return spans
	}
	var nested []wireInline
	if err := json.Unmarshal(in.Children, &nested); err != nil {
		return spans
	}
	for _, c := range nested {
		spans = appendInline(spans, c)
	}
	return spans
}

func parseItems(raw json.RawMessage, path string) (List, error) {
	nodes, err := rawArray(raw, path)
	if err != nil {
		return List{}, err
	}
	list := List{Items: make([][]Span, 0, len(nodes))}
	for i, n := range nodes {
		var item struct {
			Type     string          `json:"type"`
			Children json.RawMessage `json:"children"`
		}
		if err := json.Unmarshal(n, &item); err != nil {
			continue
		}
		if item.Type == TypeList {
			list.DroppedNested++
			continue
		}
		list.DroppedNested += countNested(item.Children)
		spans, err := parseSpans(item.Children, fmt.Sprintf("%s[%d].children", path, i))
		if err != nil {
			return List{}, err
		}
		list.Items = append(list.Items, spans)
	}
	return list, nil
}

func countNested(raw json.RawMessage) int {
	var children []struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &children); err != nil {
		return 0
	}
	n := 0
	for _, c := range children {
		if c.Type == TypeList {
			n++
		}
	}
	return n
}

func rawArray(raw json.RawMessage, path string) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var out []json.RawMessage
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, wrap("block", path, ErrExpectedArray)
	}
	return out, nil
}
