package store

import (
	"fmt"

	"github.com/roach88/synth/internal/synthetic"
)

// marshalDocument converts doc to canonical JSON TEXT and its hash.
func marshalDocument(doc *synthetic.Document) (string, string, error) {
	if doc == nil {
		return "", "", fmt.Errorf("marshal document: nil document")
	}
	data, err := synthetic.MarshalCanonical(doc)
	if err != nil {
		return "", "", fmt.Errorf("marshal document: %w", err)
	}
	return string(data), synthetic.HashCanonical(data), nil
}
