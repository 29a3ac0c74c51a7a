package synthetic

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainDocument is the hash domain for evaluated documents.
// The version suffix allows future algorithm migration.
const DomainDocument = "synth/document/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DocumentHash computes the content-addressed id of an evaluated document.
// Two documents with the same canonical form share a hash regardless of
// pointer identity.
func DocumentHash(doc *Document) (string, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("DocumentHash: failed to marshal: %w", err)
	}
	return HashCanonical(canonical), nil
}

// HashCanonical hashes bytes already produced by MarshalCanonical for a
// document. It lets callers that keep the canonical form avoid a second
// marshal.
func HashCanonical(canonical []byte) string {
	return hashWithDomain(DomainDocument, canonical)
}

// MustDocumentHash is like DocumentHash but panics on error.
// Use only in tests or when the document is known to be valid.
func MustDocumentHash(doc *Document) string {
	h, err := DocumentHash(doc)
	if err != nil {
		panic(err)
	}
	return h
}
