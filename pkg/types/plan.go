package types

// Binding names a header value that was copied from an earlier response.
type Binding struct {
	Name          string `json:"name"`
	Value         string `json:"value"`
	ResponseIndex int    `json:"response_index"`
}

// HeaderRef is a header value as it should be rendered: either a literal
// string or a reference to a variable bound by an earlier response. A nil
// Literal with an empty Variable means the header is removed.
type HeaderRef struct {
	Literal  *string `json:"literal,omitempty"`
	Variable string  `json:"variable,omitempty"`
}

// IsRemoval reports whether r unsets the header.
func (r HeaderRef) IsRemoval() bool {
	return r.Literal == nil && r.Variable == ""
}

// Definition is a binding attached to the response that produced it.
type Definition struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	// Source is the jq path of the JSON string the value was taken from,
	// when the response body is JSON and such a string exists. The value is
	// SourcePrefix + (string at Source) + SourceSuffix.
	Source       string   `json:"source,omitempty"`
	SourceValue  string   `json:"source_value,omitempty"`
	SourcePrefix string   `json:"source_prefix,omitempty"`
	SourceSuffix string   `json:"source_suffix,omitempty"`
	UsedBy       []uint32 `json:"used_by,omitzero"`
}

// Step is one request of the replay plan.
type Step struct {
	Index          int                  `json:"index"`
	Method         string               `json:"method"`
	URL            string               `json:"url"`
	Query          map[string]string    `json:"query,omitempty"`
	Cookies        map[string]string    `json:"cookies,omitempty"`
	PostData       string               `json:"post_data,omitempty"`
	ResponseStatus int                  `json:"response_status"`
	SessionChanges map[string]HeaderRef `json:"session_changes,omitempty"`
	Headers        map[string]HeaderRef `json:"headers,omitempty"`
	Definitions    []Definition         `json:"definitions,omitzero"`
}

// Plan is the full replay plan for an archive.
type Plan struct {
	Steps []Step `json:"steps"`
}

// Report is the output of one inference run.
type Report struct {
	Source       string      `json:"source,omitempty"`
	RequestCount int         `json:"request_count"`
	Snapshots    []Snapshot  `json:"snapshots"`
	Bindings     [][]Binding `json:"bindings"`
	Plan         *Plan       `json:"plan"`
}

// BindingCount returns the total number of bindings in r.
func (r *Report) BindingCount() int {
	n := 0
	for _, b := range r.Bindings {
		n += len(b)
	}
	return n
}
