// Package query locates string values inside JSON response bodies using jq.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/itchyny/gojq"
)

// leavesExpr emits [path, value] for every string leaf, in document order.
const leavesExpr = `paths(type == "string") as $p | [$p, getpath($p)]`

// Engine finds where a value was taken from in a JSON document.
type Engine struct {
	leaves *gojq.Code
}

// NewEngine compiles the jq programs used by the engine.
func NewEngine() (*Engine, error) {
	q, err := gojq.Parse(leavesExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return &Engine{leaves: code}, nil
}

// Leaf is a string value and the path that reaches it.
type Leaf struct {
	Path  []any
	Value string
}

// StringLeaves returns every string in data with its path.
func (e *Engine) StringLeaves(data []byte) ([]Leaf, error) {
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("invalid JSON data: %w", err)
	}

	var leaves []Leaf
	iter := e.leaves.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			var haltErr *gojq.HaltError
			if errors.As(err, &haltErr) && haltErr.Value() == nil {
				break
			}
			return nil, fmt.Errorf("walking JSON: %w", err)
		}
		pair, ok := v.([]any)
		if !ok || len(pair) != 2 {
			continue
		}
		path, _ := pair[0].([]any)
		s, _ := pair[1].(string)
		leaves = append(leaves, Leaf{Path: path, Value: s})
	}
	return leaves, nil
}

// Source is a JSON string a value was built from. The value is
// Prefix + Value + Suffix, with Value read from Path.
type Source struct {
	Path   string
	Value  string
	Prefix string
	Suffix string
}

// FindSource returns the first string leaf of data that is a substring of
// value and covers more than minFraction of it.
func (e *Engine) FindSource(data []byte, value string, minFraction float64) (Source, bool, error) {
	if value == "" {
		return Source{}, false, nil
	}
	leaves, err := e.StringLeaves(data)
	if err != nil {
		return Source{}, false, err
	}
	for _, leaf := range leaves {
		if leaf.Value == "" {
			continue
		}
		prefix, suffix, found := strings.Cut(value, leaf.Value)
		if !found {
			continue
		}
		if float64(len(leaf.Value))/float64(len(value)) > minFraction {
			return Source{
				Path:   FormatPath(leaf.Path),
				Value:  leaf.Value,
				Prefix: prefix,
				Suffix: suffix,
			}, true, nil
		}
	}
	return Source{}, false, nil
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// FormatPath renders a jq path array as a jq expression, e.g. .data.items[0]["x-id"].
func FormatPath(path []any) string {
	if len(path) == 0 {
		return "."
	}
	var sb strings.Builder
	for _, p := range path {
		switch k := p.(type) {
		case string:
			if identRe.MatchString(k) {
				sb.WriteString("." + k)
			} else {
				quoted, _ := json.Marshal(k)
				sb.WriteString(`["` + string(quoted[1:len(quoted)-1]) + `"]`)
			}
		case int:
			fmt.Fprintf(&sb, "[%d]", k)
		case float64:
			fmt.Fprintf(&sb, "[%d]", int(k))
		default:
			fmt.Fprintf(&sb, "[%v]", k)
		}
	}
	out := sb.String()
	if strings.HasPrefix(out, "[") {
		out = "." + out
	}
	return out
}
