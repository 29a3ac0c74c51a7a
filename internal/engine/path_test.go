package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstancePath_Append(t *testing.T) {
	tests := []struct {
		name string
		path InstancePath
		id   string
		want InstancePath
	}{
		{"empty path", "", "a", "a"},
		{"nested", "a", "b", "a b"},
		{"deeper", "a b", "c", "a b c"},
		{"empty id yields id", "a", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.path.Append(tt.id))
		})
	}
}

func TestInstancePath_Join(t *testing.T) {
	assert.Equal(t, InstancePath("i"), InstancePath("i").Join())
	assert.Equal(t, InstancePath("i label"), InstancePath("i").Join("label"))
	assert.Equal(t, InstancePath("i body text"), InstancePath("i").Join("body", "text"))
	assert.Equal(t, InstancePath("body"), InstancePath("").Join("body"))
}

func TestInstancePath_Segments(t *testing.T) {
	assert.Nil(t, InstancePath("").Segments())
	assert.Equal(t, []string{"a", "b"}, InstancePath("a b").Segments())
}
