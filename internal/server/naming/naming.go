// Package naming derives stable, URL-safe storage identifiers from
// uploaded filenames.
package naming

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Derive returns the storage identifier for a base filename (extension
// already stripped). The derivation is a one-way hash: deterministic across
// calls and process restarts, and it does not reveal the original name.
// Two uploads sharing a base filename map to the same identifier, so the
// later upload overwrites the earlier one.
func Derive(base string) string {
	sum := sha256.Sum256([]byte(base))
	// Unpadded so the identifier is identical as a storage key and as a
	// URL path segment.
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// Split separates a filename into its base name and extension.
// "cat.png" -> ("cat", ".png"); a name without a dot has an empty extension.
// Dots that only lead the name are part of the base, so ".env" splits to
// (".env", "").
func Split(filename string) (base, ext string) {
	i := strings.LastIndex(filename, ".")
	if i <= 0 || strings.Trim(filename[:i], ".") == "" {
		return filename, ""
	}
	return filename[:i], filename[i:]
}
