// Package har reads HTTP Archive (HAR) files into time-ordered requests.
package har

// HAR represents an HTTP Archive file.
type HAR struct {
	Log Log `json:"log"`
}

// Log contains the HAR log data.
type Log struct {
	Version string  `json:"version"`
	Creator Creator `json:"creator"`
	Entries []Entry `json:"entries"`
}

// Creator contains tool information.
type Creator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Entry represents a single request/response pair.
type Entry struct {
	StartedDateTime string   `json:"startedDateTime"`
	Time            float64  `json:"time"`
	Request         Request  `json:"request"`
	Response        Response `json:"response"`
}

// Request represents an HTTP request.
type Request struct {
	Method      string      `json:"method"`
	URL         string      `json:"url"`
	HTTPVersion string      `json:"httpVersion"`
	Cookies     []NameValue `json:"cookies,omitempty"`
	Headers     []NameValue `json:"headers"`
	QueryString []NameValue `json:"queryString,omitempty"`
	PostData    *PostData   `json:"postData,omitempty"`
	HeadersSize int         `json:"headersSize"`
	BodySize    int         `json:"bodySize"`
}

// Response represents an HTTP response.
type Response struct {
	Status      int         `json:"status"`
	StatusText  string      `json:"statusText"`
	HTTPVersion string      `json:"httpVersion"`
	Cookies     []NameValue `json:"cookies,omitempty"`
	Headers     []NameValue `json:"headers,omitempty"`
	Content     Content     `json:"content"`
	RedirectURL string      `json:"redirectURL"`
}

// NameValue is a header, cookie or query parameter.
type NameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PostData represents a request body. HAR allows either raw text or
// decoded form params.
type PostData struct {
	MimeType string  `json:"mimeType"`
	Text     *string `json:"text,omitempty"`
	Params   []Param `json:"params,omitempty"`
}

// Param represents a POST parameter.
type Param struct {
	Name        string `json:"name"`
	Value       string `json:"value,omitempty"`
	FileName    string `json:"fileName,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// Content represents response content.
type Content struct {
	Size     int    `json:"size"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text,omitempty"`
	Encoding string `json:"encoding,omitempty"`
}

// toMap builds a map from name/value pairs. Later duplicates win.
func toMap(pairs []NameValue) map[string]string {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		out[p.Name] = p.Value
	}
	return out
}
