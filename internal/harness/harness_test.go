package harness

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_Golden(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)
			assert.Equal(t, name, scenario.Name, "scenario name must match its file")

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func coinEntry(symbol string) map[string]any {
	return map[string]any{"id": strings.ToLower(symbol), "name": symbol, "symbol": symbol, "image": ""}
}

func TestRun_UnexpectedOutcomeFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "unexpected",
		Description: "a step that should fail succeeds",
		Flow: []FlowStep{
			{Op: OpCreate, Kind: "coin", At: 1, Ref: "c", Entry: coinEntry("ETH")},
			{Op: OpDelete, Kind: "coin", At: 2, Original: "c", Expect: "NOT_FOUND"},
		},
		Assertions: []Assertion{{Type: AssertLatest, Kind: "coin", Ref: "c", Expect: []string{"c"}}},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected NOT_FOUND, got ok")
	assert.Equal(t, OutcomeOK, result.Trace[1].Outcome)
}

func TestRun_AssertionMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "latest is the original, not the revision",
		Flow: []FlowStep{
			{Op: OpCreate, Kind: "coin", At: 1, Ref: "c", Entry: coinEntry("ETH")},
			{Op: OpUpdate, Kind: "coin", At: 2, Ref: "v2", Original: "c", Previous: "c", Entry: coinEntry("ETC")},
		},
		Assertions: []Assertion{{Type: AssertLatest, Kind: "coin", Ref: "c", Expect: []string{"c"}}},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Expected: [c]")
	assert.Contains(t, result.Errors[0], "Actual: [v2]")
}

func TestRun_UnindexedKindReportsPolicyViolation(t *testing.T) {
	scenario := &Scenario{
		Name:        "unindexed",
		Description: "coins have no global index",
		Flow:        []FlowStep{{Op: OpCreate, Kind: "coin", At: 1, Ref: "c", Entry: coinEntry("ETH")}},
		Assertions:  []Assertion{{Type: AssertIndex, Kind: "coin"}},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "POLICY_VIOLATION")
}

func TestRun_InvalidEntryAborts(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_entry",
		Description: "unknown entry fields are not a protocol error",
		Flow: []FlowStep{
			{Op: OpCreate, Kind: "stakeholder", At: 1, Ref: "s", Entry: map[string]any{"name": "x", "age": 3}},
		},
		Assertions: []Assertion{{Type: AssertLatest, Kind: "stakeholder", Ref: "s"}},
	}

	_, err := Run(context.Background(), scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flow step 0")
}
