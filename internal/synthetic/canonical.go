package synthetic

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON for hashing.
// This is the only serialization used for content-addressed identity.
//
// Differences from json.Marshal:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping, U+2028/U+2029 emitted literally
//  3. Strings are NFC normalized
//  4. Floats are rejected
//  5. Synthetic nodes are serialized through ToCanonical
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case Node:
		return writeCanonical(buf, ToCanonical(val))
	case string:
		writeCanonicalString(buf, val)
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case int:
		buf.WriteString(strconv.Itoa(val))
	case int32:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(val, 10))
	case []string:
		buf.WriteByte('[')
		for i, s := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, s)
		}
		buf.WriteByte(']')
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case []VisibleNode:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, ToCanonical(elem)); err != nil {
				return fmt.Errorf("children[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		buf.WriteByte('{')
		for i, k := range sortedKeys(val) {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, k)
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("value for key %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
	case float32, float64:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// writeCanonicalString writes an NFC-normalized JSON string. Only quote,
// backslash and control characters (U+0000-U+001F) are escaped.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	const hex = "0123456789abcdef"

	buf.WriteByte('"')
	for _, r := range norm.NFC.String(s) {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hex[r>>4])
				buf.WriteByte(hex[r&0xf])
				continue
			}
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

// sortedKeys returns keys in RFC 8785 order (UTF-16 code units).
// Go's string comparison uses UTF-8, which orders astral characters
// differently.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

// ToCanonical converts a synthetic node to a plain map for canonical
// serialization and golden snapshots. Empty labels and metadata are
// omitted.
func ToCanonical(n Node) map[string]any {
	switch node := n.(type) {
	case *Document:
		return map[string]any{
			"kind":     string(KindDocument),
			"source":   sourceMap(node.Source),
			"children": childrenList(node.Children),
		}
	case *Element:
		m := map[string]any{
			"kind":                      string(KindElement),
			"is":                        node.Is,
			"source":                    sourceMap(node.Source),
			"style":                     nonNil(node.Style),
			"attributes":                nonNil(node.Attributes),
			"children":                  childrenList(node.Children),
			"is_content_node":           node.IsContentNode,
			"is_created_from_component": node.IsCreatedFromComponent,
			"is_component_instance":     node.IsComponentInstance,
			"immutable":                 node.Immutable,
		}
		if node.Label != "" {
			m["label"] = node.Label
		}
		if len(node.Metadata) > 0 {
			m["metadata"] = node.Metadata
		}
		return m
	case *Text:
		m := map[string]any{
			"kind":                      string(KindText),
			"value":                     node.Value,
			"source":                    sourceMap(node.Source),
			"style":                     nonNil(node.Style),
			"is_content_node":           node.IsContentNode,
			"is_created_from_component": node.IsCreatedFromComponent,
			"immutable":                 node.Immutable,
		}
		if node.Label != "" {
			m["label"] = node.Label
		}
		if len(node.Metadata) > 0 {
			m["metadata"] = node.Metadata
		}
		return m
	default:
		panic(fmt.Sprintf("synthetic: unknown node type %T", n))
	}
}

func sourceMap(s *Source) map[string]any {
	if s == nil {
		return map[string]any{}
	}
	return map[string]any{"node_id": s.NodeID}
}

func childrenList(children []VisibleNode) []any {
	out := make([]any, len(children))
	for i, child := range children {
		out[i] = ToCanonical(child)
	}
	return out
}

func nonNil(m KeyValue) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
