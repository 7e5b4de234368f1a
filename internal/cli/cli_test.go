package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/usestring/harbind/pkg/har"
)

const token = "ZZZZZZZZZZZZZZZZ1234567890"

func writeArchive(t *testing.T) string {
	t.Helper()
	entry := func(sec int, method, url string, headers []har.NameValue, body string) har.Entry {
		return har.Entry{
			StartedDateTime: time.Date(2024, 1, 1, 0, 0, sec, 0, time.UTC).Format(time.RFC3339),
			Request:         har.Request{Method: method, URL: url, Headers: headers},
			Response: har.Response{
				Status:  200,
				Content: har.Content{MimeType: "application/json", Text: body},
			},
		}
	}
	auth := []har.NameValue{{Name: "Authorization", Value: token}}
	doc := har.HAR{Log: har.Log{Version: "1.2", Entries: []har.Entry{
		entry(0, "POST", "https://api.example.com/login", []har.NameValue{}, `{"token":"`+token+`"}`),
		entry(1, "OPTIONS", "https://api.example.com/me", []har.NameValue{}, ""),
		entry(2, "GET", "https://api.example.com/me", auth, `{"name":"bob"}`),
	}}}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.har")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Setenv("LOG_FILE", "")

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

type reportDoc struct {
	RequestCount int `json:"request_count" yaml:"request_count"`
	Bindings     [][]struct {
		Name string `json:"name" yaml:"name"`
	} `json:"bindings" yaml:"bindings"`
}

func TestInfer_JSON(t *testing.T) {
	out, err := execute(t, "infer", writeArchive(t))
	require.NoError(t, err)

	var doc reportDoc
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 2, doc.RequestCount, "OPTIONS requests are skipped by default")
	require.Len(t, doc.Bindings[0], 1)
	assert.Equal(t, "Authorization_1", doc.Bindings[0][0].Name)
}

func TestInfer_YAMLWithOptions(t *testing.T) {
	out, err := execute(t, "infer", writeArchive(t), "--include-options", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "request_count: 3")

	var doc reportDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 3, doc.RequestCount)
}

func TestInfer_NoInferToFile(t *testing.T) {
	archive := writeArchive(t)
	target := filepath.Join(t.TempDir(), "report.json")

	out, err := execute(t, "infer", archive, "--no-infer", "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var doc reportDoc
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, b := range doc.Bindings {
		assert.Empty(t, b)
	}
}

func TestInfer_Errors(t *testing.T) {
	_, err := execute(t, "infer")
	assert.Error(t, err)

	_, err = execute(t, "infer", writeArchive(t), "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = execute(t, "infer", filepath.Join(t.TempDir(), "missing.har"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSchema(t *testing.T) {
	out, err := execute(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "harbind://schema/report")
}

func TestWriteReport_QuotesAmbiguousStrings(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, map[string]any{"status": "200", "code": 200, "gone": nil}, formatYAML))
	assert.Contains(t, buf.String(), `status: "200"`)
	assert.Contains(t, buf.String(), "code: 200")
	assert.Contains(t, buf.String(), "gone: null")
}
