// Package digest computes stable content digests for run artifacts.
// JSON artifacts are canonicalized per RFC 8785 (JCS) first, so two
// serializations of the same document always hash the same.
package digest

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/gowebpki/jcs"
)

// JSON canonicalizes a JSON document and returns its sha256 hex digest.
func JSON(data []byte) (string, error) {
	canonical, err := jcs.Transform(data)
	if err != nil {
		return "", err
	}
	return Bytes(canonical), nil
}

// Bytes returns the sha256 hex digest of raw bytes. Used for text
// artifacts (prompts, output.md) where no canonical form applies.
func Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
