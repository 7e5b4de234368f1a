package har

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/usestring/harbind/internal/schema"
	"github.com/usestring/harbind/pkg/types"
)

// ErrInvalidArchive is returned when a document fails schema validation.
var ErrInvalidArchive = errors.New("invalid HTTP archive")

// framingHeaders are dropped from every request; they describe the body
// encoding, not the session.
var framingHeaders = []string{"Content-Type", "Content-Length"}

// timeLayouts are tried in order when parsing startedDateTime.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// Options controls how entries become requests.
type Options struct {
	IncludeOptions       bool // Keep OPTIONS (CORS preflight) requests
	ExcludeCookieHeaders bool // Drop the Cookie header; cookies stay in Request.Cookies
	Unsafe               bool // Log and skip malformed entries instead of failing
}

// ParseError reports a malformed entry.
type ParseError struct {
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("entry %d: %v", e.Index, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse validates a HAR document and converts its entries into requests,
// stably sorted by start time.
func Parse(data []byte, opts Options) ([]types.Request, error) {
	v, err := schema.HAR()
	if err != nil {
		return nil, fmt.Errorf("loading HAR schema: %w", err)
	}
	if res := v.Validate(data); !res.Valid {
		if !opts.Unsafe {
			return nil, fmt.Errorf("%w: %s", ErrInvalidArchive, strings.Join(res.Errors, "; "))
		}
		slog.Warn("archive failed validation, continuing",
			slog.Int("errors", len(res.Errors)),
			slog.String("detail", strings.Join(res.Errors, "; ")),
		)
	}

	var doc HAR
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding HAR: %w", err)
	}

	requests := make([]types.Request, 0, len(doc.Log.Entries))
	for i, entry := range doc.Log.Entries {
		req, err := convertEntry(entry, opts)
		if err != nil {
			perr := &ParseError{Index: i, Err: err}
			if !opts.Unsafe {
				return nil, perr
			}
			slog.Warn("skipping malformed entry", slog.String("error", perr.Error()))
			continue
		}
		if req.Method == http.MethodOptions && !opts.IncludeOptions {
			continue
		}
		requests = append(requests, req)
	}

	slices.SortStableFunc(requests, func(a, b types.Request) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	slog.Debug("parsed archive",
		slog.Int("entries", len(doc.Log.Entries)),
		slog.Int("requests", len(requests)),
	)
	return requests, nil
}

func convertEntry(entry Entry, opts Options) (types.Request, error) {
	ts, err := parseTime(entry.StartedDateTime)
	if err != nil {
		return types.Request{}, err
	}

	rawURL := entry.Request.URL
	var query map[string]string
	if len(entry.Request.QueryString) > 0 {
		query = toMap(entry.Request.QueryString)
		u, err := url.Parse(rawURL)
		if err != nil {
			return types.Request{}, fmt.Errorf("parsing url: %w", err)
		}
		u.RawQuery = ""
		u.ForceQuery = false
		rawURL = u.String()
	}

	postData, err := convertPostData(entry.Request, opts)
	if err != nil {
		return types.Request{}, err
	}

	headers := toMap(entry.Request.Headers)
	dropHeaders(headers, framingHeaders...)
	if opts.ExcludeCookieHeaders {
		dropHeaders(headers, "Cookie")
	}

	text, err := responseText(entry.Response.Content)
	if err != nil {
		return types.Request{}, err
	}
	if entry.Response.Content.Size > 0 && text == "" {
		slog.Warn("content size > 0 but response text is empty", slog.String("url", entry.Request.URL))
	}

	var cookies map[string]string
	if len(entry.Request.Cookies) > 0 {
		cookies = toMap(entry.Request.Cookies)
	}

	return types.Request{
		Method:           entry.Request.Method,
		URL:              rawURL,
		Query:            query,
		Cookies:          cookies,
		Headers:          headers,
		PostData:         postData,
		ResponseStatus:   entry.Response.Status,
		ResponseText:     text,
		ResponseMimeType: entry.Response.Content.MimeType,
		Timestamp:        ts,
	}, nil
}

// convertPostData returns the body of POST and PUT requests. HAR bodies
// carry exactly one of text or params.
func convertPostData(req Request, opts Options) (string, error) {
	if req.Method != http.MethodPost && req.Method != http.MethodPut {
		return "", nil
	}
	if req.BodySize == 0 || req.PostData == nil {
		return "", nil
	}

	pd := req.PostData
	hasText := pd.Text != nil
	hasParams := len(pd.Params) > 0
	if hasText == hasParams {
		msg := `postData needs exactly one of "params" or "text"`
		if !opts.Unsafe {
			return "", errors.New(msg)
		}
		slog.Warn(msg, slog.String("url", req.URL))
	}

	if hasText {
		return *pd.Text, nil
	}
	values := url.Values{}
	for _, p := range pd.Params {
		values.Add(p.Name, p.Value)
	}
	return values.Encode(), nil
}

// dropHeaders removes the named headers, ignoring case.
func dropHeaders(headers map[string]string, names ...string) {
	for name := range headers {
		for _, drop := range names {
			if strings.EqualFold(name, drop) {
				delete(headers, name)
				break
			}
		}
	}
}

func responseText(c Content) (string, error) {
	if c.Encoding != "base64" {
		return c.Text, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(c.Text)
	if err != nil {
		return "", fmt.Errorf("decoding base64 response body: %w", err)
	}
	return string(decoded), nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized startedDateTime %q", s)
}
