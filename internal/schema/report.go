package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/usestring/harbind/pkg/types"
)

// ReportID is the $id of the report schema.
const ReportID = "harbind://schema/report"

var reportSchema = sync.OnceValues(func() ([]byte, error) {
	r := &jsonschema.Reflector{
		Mapper: mapHeaderValue,
	}
	s := r.Reflect(&types.Report{})
	s.ID = jsonschema.ID(ReportID)
	s.Title = "harbind inference report"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing report schema: %w", err)
	}
	return data, nil
})

// ReportSchema returns the JSON Schema of types.Report.
func ReportSchema() ([]byte, error) {
	return reportSchema()
}

// mapHeaderValue describes HeaderValue by its wire form: a string when
// present, null when removed.
func mapHeaderValue(t reflect.Type) *jsonschema.Schema {
	if t != reflect.TypeFor[types.HeaderValue]() {
		return nil
	}
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "null"},
		},
		Description: "Header value; null marks a header removed from the session",
	}
}
