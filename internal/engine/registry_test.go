package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/synth/internal/pc"
	"github.com/roach88/synth/internal/synthetic"
)

func TestRegistry_StyleExistingKeysWin(t *testing.T) {
	r := NewRegistry()

	r.Register("", pc.PropStyle, pc.KeyValue{"color": "red"}, "p")
	r.Register("", pc.PropStyle, pc.KeyValue{"color": "blue", "size": "1"}, "p")

	entry, ok := r.Lookup("p")
	require.True(t, ok)
	assert.Equal(t, pc.KeyValue{"color": "red", "size": "1"}, entry.Style)

	resolved := r.resolveMap(pc.KeyValue{"color": "green", "weight": "bold"}, "p", pc.PropStyle)
	assert.Equal(t, pc.KeyValue{"color": "red", "size": "1", "weight": "bold"}, resolved)
}

func TestRegistry_AttributesMergeLikeStyle(t *testing.T) {
	r := NewRegistry()

	r.Register("", pc.PropAttributes, pc.KeyValue{"title": "outer"}, "p")
	r.Register("", pc.PropAttributes, pc.KeyValue{"title": "inner", "role": "button"}, "p")

	resolved := r.resolveMap(nil, "p", pc.PropAttributes)
	assert.Equal(t, pc.KeyValue{"title": "outer", "role": "button"}, resolved)
}

func TestRegistry_ResolveMapWithoutEntryReturnsOwn(t *testing.T) {
	r := NewRegistry()
	own := pc.KeyValue{"color": "green"}

	assert.Equal(t, own, r.resolveMap(own, "missing", pc.PropStyle))

	// An entry that only carries text leaves style untouched.
	r.Register("", pc.PropText, "hello", "p")
	assert.Equal(t, own, r.resolveMap(own, "p", pc.PropStyle))
}

func TestRegistry_ResolveMapDoesNotModifyInputs(t *testing.T) {
	r := NewRegistry()
	r.Register("", pc.PropStyle, pc.KeyValue{"color": "red"}, "p")
	own := pc.KeyValue{"color": "green"}

	_ = r.resolveMap(own, "p", pc.PropStyle)

	assert.Equal(t, pc.KeyValue{"color": "green"}, own)
}

func TestRegistry_ChildrenFirstWins(t *testing.T) {
	r := NewRegistry()
	first := []synthetic.VisibleNode{synthetic.NewText("first", nil, nil, "", synthetic.Flags{}, nil)}
	second := []synthetic.VisibleNode{synthetic.NewText("second", nil, nil, "", synthetic.Flags{}, nil)}

	r.Register("", pc.PropChildren, first, "p")
	r.Register("", pc.PropChildren, second, "p")

	children, ok := r.Children("p")
	require.True(t, ok)
	require.Len(t, children, 1)
	assert.Equal(t, "first", children[0].(*synthetic.Text).Value)
}

func TestRegistry_EmptyChildrenAreRegistered(t *testing.T) {
	r := NewRegistry()

	r.Register("", pc.PropChildren, []synthetic.VisibleNode{}, "p")

	children, ok := r.Children("p")
	assert.True(t, ok)
	assert.Empty(t, children)
}

func TestRegistry_TextAndLabel(t *testing.T) {
	r := NewRegistry()

	r.Register("", pc.PropText, "outer", "t")
	r.Register("", pc.PropText, "inner", "t")
	r.Register("", pc.PropLabel, "Primary", "t")

	assert.Equal(t, "outer", r.resolveText("own", "t"))
	assert.Equal(t, "Primary", r.resolveLabel("own", "t"))
	assert.Equal(t, "own", r.resolveText("own", "other"))
}

func TestRegistry_EmptyTextFallsBack(t *testing.T) {
	r := NewRegistry()

	r.Register("", pc.PropText, "", "t")
	r.Register("", pc.PropLabel, "", "t")

	assert.Equal(t, "own", r.resolveText("own", "t"))
	assert.Equal(t, "label", r.resolveLabel("label", "t"))
}

func TestRegistry_VariantIsIgnored(t *testing.T) {
	r := NewRegistry()

	r.Register("v1", pc.PropVariant, []string{"hover"}, "p")

	_, ok := r.Lookup("p")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_WrongShapeIgnored(t *testing.T) {
	r := NewRegistry()

	r.Register("", pc.PropStyle, "not a map", "p")
	r.Register("", pc.PropText, 42, "p")
	r.Register("", pc.PropChildren, "nope", "p")

	entry, ok := r.Lookup("p")
	require.True(t, ok)
	assert.Nil(t, entry.Style)
	assert.Nil(t, entry.Text)
	assert.False(t, entry.HasChildren)
}

func TestRegistry_Paths(t *testing.T) {
	r := NewRegistry()

	r.Register("", pc.PropText, "b", "b")
	r.Register("", pc.PropText, "a", "a x")
	r.Register("", pc.PropText, "a", "a")

	assert.Equal(t, []InstancePath{"a", "a x", "b"}, r.Paths())
	assert.Equal(t, 3, r.Len())
}
