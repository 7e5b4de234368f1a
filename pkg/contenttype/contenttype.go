// Package contenttype classifies response bodies recorded in an archive.
package contenttype

import (
	"bytes"
	"mime"
	"strings"
	"unicode/utf8"
)

// Category represents a broad content-type classification.
type Category string

const (
	JSON   Category = "json"
	Text   Category = "text"
	Binary Category = "binary"
)

// Classify returns the broad content category for a content-type value.
// Parameters (charset, boundary) are stripped before matching; malformed
// values are matched lowercased. Empty values classify as Binary.
func Classify(contentType string) Category {
	if contentType == "" {
		return Binary
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch {
	case strings.Contains(mediaType, "json"):
		return JSON
	case strings.HasPrefix(mediaType, "text/"),
		strings.Contains(mediaType, "xml"),
		strings.Contains(mediaType, "javascript"),
		strings.Contains(mediaType, "form-urlencoded"):
		return Text
	}
	return Binary
}

// IsJSONBody reports whether body should be decoded as JSON. Bodies with a
// missing or unrecognised content type are sniffed by their first
// non-space byte.
func IsJSONBody(contentType string, body []byte) bool {
	switch Classify(contentType) {
	case JSON:
		return true
	case Text:
		return false
	}
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "octet-stream") {
		return false
	}
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && utf8.Valid(trimmed)
}
