// Package types provides shared types for harbind.
// These types are used across multiple packages and are designed for external consumption.
package types

import (
	"encoding/json"
	"time"
)

// Inference tuning defaults.
const (
	// ResponseLookup is how many recent eligible responses are searched for
	// the origin of a header value.
	ResponseLookup = 5
	// MaxSize is the largest response body (in bytes) that is searched.
	MaxSize = 100_000
	// SizeThreshold is the minimum length of a header value, and of a
	// response body, for either to take part in origin matching.
	SizeThreshold = 16
	// MatchFractionThreshold is the fraction of a header value that must
	// appear contiguously in a response for the two to match.
	MatchFractionThreshold = 0.5
	// MatchCacheSize is the default capacity of the match memo table.
	MatchCacheSize = 50
)

// ToAny round-trips a typed value through JSON to produce an untyped any.
// Use this when a tool output field must be any (instead of json.RawMessage)
// to satisfy the MCP SDK's schema validation.
func ToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Request is a single recorded HTTP exchange, flattened for inference.
//
// Header keys are case-sensitive and carry exactly one value. Transport
// framing headers (Content-Type, Content-Length) are removed upstream.
type Request struct {
	Method           string            `json:"method"`
	URL              string            `json:"url"`
	Query            map[string]string `json:"query,omitempty"`
	Cookies          map[string]string `json:"cookies,omitempty"`
	Headers          map[string]string `json:"headers"`
	PostData         string            `json:"post_data,omitempty"`
	ResponseStatus   int               `json:"response_status"`
	ResponseText     string            `json:"response_text,omitempty"`
	ResponseMimeType string            `json:"response_mime_type,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}
