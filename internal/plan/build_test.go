package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/harbind/internal/match"
	"github.com/usestring/harbind/internal/origin"
	"github.com/usestring/harbind/internal/session"
	"github.com/usestring/harbind/pkg/types"
)

const token = "ZZZZZZZZZZZZZZZZ1234567890"

func literal(s string) types.HeaderRef { return types.HeaderRef{Literal: &s} }

func variable(name string) types.HeaderRef { return types.HeaderRef{Variable: name} }

func request(headers map[string]string, body, mimeType string) types.Request {
	if headers == nil {
		headers = map[string]string{}
	}
	return types.Request{
		Method:           "GET",
		URL:              "https://example.com/",
		Headers:          headers,
		ResponseStatus:   200,
		ResponseText:     body,
		ResponseMimeType: mimeType,
	}
}

func infer(requests []types.Request) *types.Plan {
	snaps := session.New().Infer(requests)
	bindings := origin.New(match.New(match.DefaultOptions(), nil), origin.DefaultOptions()).Infer(requests, snaps)
	return Build(requests, snaps, bindings, DefaultOptions())
}

func TestBuild_TokenBecomesVariable(t *testing.T) {
	requests := []types.Request{
		request(nil, `{"data":{"token":"`+token+`"}}`, "application/json"),
		request(map[string]string{"X-Token": token}, "", ""),
	}

	plan := infer(requests)
	require.Len(t, plan.Steps, 2)

	require.Len(t, plan.Steps[0].Definitions, 1)
	def := plan.Steps[0].Definitions[0]
	assert.Equal(t, "X-Token_1", def.Name)
	assert.Equal(t, token, def.Value)
	assert.Equal(t, ".data.token", def.Source)
	assert.Equal(t, token, def.SourceValue)
	assert.Empty(t, def.SourcePrefix)
	assert.Equal(t, []uint32{1}, def.UsedBy)

	assert.Equal(t, map[string]types.HeaderRef{"X-Token": variable("X-Token_1")}, plan.Steps[1].Headers)
	assert.Empty(t, plan.Steps[1].Definitions)
}

func TestBuild_SourceOnlyForJSON(t *testing.T) {
	requests := []types.Request{
		request(nil, "<html>"+token+"</html>", "text/html"),
		request(map[string]string{"X-Token": token}, "", ""),
	}

	plan := infer(requests)
	require.Len(t, plan.Steps[0].Definitions, 1)
	assert.Empty(t, plan.Steps[0].Definitions[0].Source)
}

func TestBuild_SessionChanges(t *testing.T) {
	requests := make([]types.Request, 4)
	for i := range requests {
		requests[i] = request(map[string]string{"Accept": "application/json"}, "", "")
	}
	snaps := []types.Snapshot{
		{"Accept": types.Present("application/json")},
		{"Accept": types.Present("application/json"), "X-Mode": types.Present("a")},
		{"Accept": types.Present("application/json"), "X-Mode": types.Absent()},
		{"Accept": types.Present("application/json"), "X-Mode": types.Absent(), "X-Gone": types.Absent()},
	}

	plan := Build(requests, snaps, nil, DefaultOptions())

	assert.Equal(t, map[string]types.HeaderRef{"Accept": literal("application/json")}, plan.Steps[0].SessionChanges)
	assert.Equal(t, map[string]types.HeaderRef{"X-Mode": literal("a")}, plan.Steps[1].SessionChanges)
	assert.Equal(t, map[string]types.HeaderRef{"X-Mode": {}}, plan.Steps[2].SessionChanges)
	assert.True(t, plan.Steps[2].SessionChanges["X-Mode"].IsRemoval())
	assert.Nil(t, plan.Steps[3].SessionChanges, "absent names never present are not removals")
}

func TestBuild_HeadersDifferFromSnapshot(t *testing.T) {
	requests := []types.Request{
		request(map[string]string{"Accept": "application/json", "X-Once": "1"}, "", ""),
		request(map[string]string{"Accept": "text/html"}, "", ""),
		request(map[string]string{}, "", ""),
	}
	snap := types.Snapshot{"Accept": types.Present("application/json")}
	snaps := []types.Snapshot{snap, snap, snap}

	plan := Build(requests, snaps, nil, DefaultOptions())

	assert.Equal(t, map[string]types.HeaderRef{"X-Once": literal("1")}, plan.Steps[0].Headers)
	assert.Equal(t, map[string]types.HeaderRef{"Accept": literal("text/html")}, plan.Steps[1].Headers)
	assert.Equal(t, map[string]types.HeaderRef{"Accept": {}}, plan.Steps[2].Headers)
}

func TestBuild_VariableUsageBitmap(t *testing.T) {
	requests := []types.Request{
		request(nil, `{"token":"`+token+`"}`, "application/json"),
		request(map[string]string{"Authorization": token}, "", ""),
		request(map[string]string{}, "", ""),
		request(map[string]string{"Authorization": token}, "", ""),
	}
	bindings := [][]types.Binding{
		{{Name: "Authorization_1", Value: token, ResponseIndex: 0}},
		{}, {}, {},
	}

	plan := Build(requests, make([]types.Snapshot, len(requests)), bindings, DefaultOptions())

	def := plan.Steps[0].Definitions[0]
	assert.Equal(t, []uint32{1, 3}, def.UsedBy)
	assert.Equal(t, ".token", def.Source)
	assert.Equal(t, variable("Authorization_1"), plan.Steps[3].Headers["Authorization"])
}

func TestBuild_PartialSourceKeepsSurroundingText(t *testing.T) {
	requests := []types.Request{
		request(nil, `{"token":"`+token+`"}`, "application/json"),
		request(map[string]string{"Authorization": "Bearer " + token}, "", ""),
	}

	plan := infer(requests)
	require.Len(t, plan.Steps[0].Definitions, 1)

	def := plan.Steps[0].Definitions[0]
	assert.Equal(t, "Authorization_1", def.Name)
	assert.Equal(t, "Bearer "+token, def.Value)
	assert.Equal(t, ".token", def.Source)
	assert.Equal(t, token, def.SourceValue)
	assert.Equal(t, "Bearer ", def.SourcePrefix)
	assert.Empty(t, def.SourceSuffix)
	assert.Equal(t, def.Value, def.SourcePrefix+def.SourceValue+def.SourceSuffix)
	assert.Equal(t, []uint32{1}, def.UsedBy)
}

func TestBuild_NoSelfReference(t *testing.T) {
	requests := []types.Request{
		request(map[string]string{"X-Token": token}, `{"token":"`+token+`"}`, "application/json"),
	}
	bindings := [][]types.Binding{{{Name: "X-Token_1", Value: token}}}

	plan := Build(requests, []types.Snapshot{{}}, bindings, DefaultOptions())

	assert.Equal(t, literal(token), plan.Steps[0].Headers["X-Token"])
	assert.Empty(t, plan.Steps[0].Definitions[0].UsedBy)
}

func TestBuild_SkipSources(t *testing.T) {
	requests := []types.Request{
		request(nil, `{"token":"`+token+`"}`, "application/json"),
	}
	bindings := [][]types.Binding{{{Name: "X-Token_1", Value: token}}}

	opts := DefaultOptions()
	opts.SkipSources = true
	plan := Build(requests, nil, bindings, opts)

	assert.Empty(t, plan.Steps[0].Definitions[0].Source)
}

func TestBuild_Empty(t *testing.T) {
	plan := Build(nil, nil, nil, DefaultOptions())
	assert.NotNil(t, plan)
	assert.Empty(t, plan.Steps)
}
