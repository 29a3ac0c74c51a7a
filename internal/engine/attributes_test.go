package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/synth/internal/pc"
)

func TestRewriteResourcePaths(t *testing.T) {
	const uri = "file:///proj/pages/home.pc"

	tests := []struct {
		name  string
		tag   string
		attrs pc.KeyValue
		want  pc.KeyValue
	}{
		{
			name:  "img relative src",
			tag:   "img",
			attrs: pc.KeyValue{"src": "./logo.png", "alt": "logo"},
			want:  pc.KeyValue{"src": "file:///proj/pages/logo.png", "alt": "logo"},
		},
		{
			name:  "img parent directory",
			tag:   "img",
			attrs: pc.KeyValue{"src": "../assets/a.svg"},
			want:  pc.KeyValue{"src": "file:///proj/assets/a.svg"},
		},
		{
			name:  "object data",
			tag:   "object",
			attrs: pc.KeyValue{"data": "./movie.swf"},
			want:  pc.KeyValue{"data": "file:///proj/pages/movie.swf"},
		},
		{
			name:  "absolute url untouched",
			tag:   "img",
			attrs: pc.KeyValue{"src": "https://cdn.example.com/a.png"},
			want:  pc.KeyValue{"src": "https://cdn.example.com/a.png"},
		},
		{
			name:  "other tag untouched",
			tag:   "a",
			attrs: pc.KeyValue{"src": "./logo.png"},
			want:  pc.KeyValue{"src": "./logo.png"},
		},
		{
			name:  "non-string value untouched",
			tag:   "img",
			attrs: pc.KeyValue{"src": int64(3)},
			want:  pc.KeyValue{"src": int64(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteResourcePaths(tt.tag, tt.attrs, uri))
		})
	}
}

func TestRewriteResourcePaths_DoesNotModifyInput(t *testing.T) {
	attrs := pc.KeyValue{"src": "./logo.png"}

	_ = rewriteResourcePaths("img", attrs, "file:///proj/home.pc")

	assert.Equal(t, "./logo.png", attrs["src"])
}

func TestResolveRelative_DefaultsToFileProtocol(t *testing.T) {
	assert.Equal(t, "file:///proj/logo.png", resolveRelative("/proj/home.pc", "./logo.png"))
	assert.Equal(t, "mem:///a/b.png", resolveRelative("mem:///a/home.pc", "./b.png"))
}
