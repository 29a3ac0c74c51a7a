package synthetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{"b": 1, "a": "x", "c": true})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":1,"c":true}`, string(data))
}

func TestMarshalCanonical_UTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D..., which sort before U+FB01
	// in UTF-16 even though the UTF-8 bytes sort after it.
	data, err := MarshalCanonical(map[string]any{"ﬁ": 1, "\U0001F600": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"ﬁ\":1}", string(data))
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	data, err := MarshalCanonical("<a href=\"x\">&</a> ")
	require.NoError(t, err)
	assert.Equal(t, "\"<a href=\\\"x\\\">&</a> \"", string(data))
}

func TestMarshalCanonical_ControlCharacters(t *testing.T) {
	data, err := MarshalCanonical("a\nb\x01\\")
	require.NoError(t, err)
	assert.Equal(t, `"a\nb\u0001\\"`, string(data))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	data, err := MarshalCanonical("e\u0301") // e + combining acute
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(data))
}

func TestMarshalCanonical_LineSeparatorsLiteral(t *testing.T) {
	data, err := MarshalCanonical("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(data))
}

func TestMarshalCanonical_RejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"size": 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
}

func TestMarshalCanonical_Node(t *testing.T) {
	doc := NewDocument(&Source{NodeID: "home"}, []VisibleNode{
		NewText("hi", &Source{NodeID: "t1"}, nil, "", Flags{IsContentNode: true}, nil),
	})

	data, err := MarshalCanonical(doc)
	require.NoError(t, err)
	assert.Equal(t,
		`{"children":[{"immutable":false,"is_content_node":true,"is_created_from_component":false,"kind":"text","source":{"node_id":"t1"},"style":{},"value":"hi"}],"kind":"document","source":{"node_id":"home"}}`,
		string(data))
}

func TestDocumentHash_StableAcrossIdentity(t *testing.T) {
	build := func() *Document {
		return NewDocument(&Source{NodeID: "m"}, []VisibleNode{
			NewElement("div", &Source{NodeID: "root"}, KeyValue{"color": "red"}, nil, nil, "Root", Flags{}, nil),
		})
	}
	a, b := build(), build()
	require.NotSame(t, a, b)
	assert.Equal(t, MustDocumentHash(a), MustDocumentHash(b))
	assert.Len(t, MustDocumentHash(a), 64)

	c := NewDocument(&Source{NodeID: "m"}, nil)
	assert.NotEqual(t, MustDocumentHash(a), MustDocumentHash(c))
}
