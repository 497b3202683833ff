package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/revlog/internal/ir"
	"github.com/roach88/revlog/internal/testutil"
)

// cliHarness runs commands against one database and agent identity.
type cliHarness struct {
	t     *testing.T
	db    string
	key   string
	clock *testutil.ManualClock
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	return &cliHarness{
		t:     t,
		db:    filepath.Join(dir, "revlog.db"),
		key:   filepath.Join(dir, "agent.json"),
		clock: testutil.NewManualClock(1000),
	}
}

// run executes one command with JSON output. The clock advances by one
// millisecond per invocation.
func (h *cliHarness) run(args ...string) (string, error) {
	h.t.Helper()
	h.clock.Advance(1)

	cmd := newRootCommand(&RootOptions{
		Clock: h.clock,
		OpIDs: testutil.NewFixedOpGenerator(""),
	})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--db", h.db, "--agent-key", h.key, "--format", "json"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

// mustRun executes a command that must succeed and decodes its payload.
func mustRun[T any](h *cliHarness, args ...string) T {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "revlog %s: %s", strings.Join(args, " "), out)

	var resp struct {
		Status string `json:"status"`
		Data   T      `json:"data"`
	}
	require.NoError(h.t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(h.t, "ok", resp.Status)
	return resp.Data
}

// runError executes a command that must fail and decodes its error payload.
func runError(h *cliHarness, args ...string) (*CLIError, error) {
	h.t.Helper()
	out, err := h.run(args...)
	require.Error(h.t, err)

	var resp CLIResponse
	require.NoError(h.t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(h.t, "error", resp.Status)
	require.NotNil(h.t, resp.Error)
	return resp.Error, err
}

func TestCoin_Lifecycle(t *testing.T) {
	h := newCLIHarness(t)

	created := mustRun[ir.Action](h, "coin", "create", "--data",
		`{"id":"bitcoin","name":"Bitcoin","symbol":"BTC","image":""}`)
	assert.Equal(t, ir.ActionCreate, created.Type)
	assert.Equal(t, "coin", created.EntryType)
	assert.Equal(t, ir.String("BTC"), created.Entry["symbol"])
	original := string(created.Address)

	v2 := mustRun[ir.Action](h, "coin", "update", original, original, "--data",
		`{"id":"bitcoin","name":"Bitcoin","symbol":"XBT","image":""}`)
	assert.Equal(t, ir.ActionUpdate, v2.Type)
	assert.Equal(t, created.Address, v2.Previous)

	latest := mustRun[ir.Action](h, "coin", "latest", original)
	assert.Equal(t, v2.Address, latest.Address)
	assert.Equal(t, ir.String("XBT"), latest.Entry["symbol"])

	got := mustRun[ir.Action](h, "coin", "get", original)
	assert.Equal(t, created.Address, got.Address)

	history := mustRun[[]ir.Action](h, "coin", "history", original)
	require.Len(t, history, 2)
	assert.Equal(t, created.Address, history[0].Address)
	assert.Equal(t, v2.Address, history[1].Address)

	none := mustRun[[]ir.Action](h, "coin", "deletes", original)
	assert.Empty(t, none)

	deleted := mustRun[deleteView](h, "coin", "delete", original)
	assert.Equal(t, created.Address, deleted.Original)

	deletes := mustRun[[]ir.Action](h, "coin", "deletes", original)
	require.Len(t, deletes, 1)
	assert.Equal(t, deleted.Address, deletes[0].Address)
	assert.Equal(t, created.Address, deletes[0].Deletes)

	oldest := mustRun[ir.Action](h, "coin", "oldest-delete", original)
	assert.Equal(t, deleted.Address, oldest.Address)

	// The record stays readable after it is tombstoned.
	got = mustRun[ir.Action](h, "coin", "get", original)
	assert.Equal(t, created.Address, got.Address)
}

func TestProfile_ListLive(t *testing.T) {
	h := newCLIHarness(t)

	alice := mustRun[ir.Action](h, "profile", "create", "--data", `{"name":"Alice"}`)
	bob := mustRun[ir.Action](h, "profile", "create", "--data", `{"name":"Bob"}`)

	links := mustRun[[]ir.Link](h, "profile", "list")
	require.Len(t, links, 2)
	assert.Equal(t, alice.Address, links[0].Target)
	assert.Equal(t, bob.Address, links[1].Target)

	mine := mustRun[[]ir.Link](h, "profile", "list", "--mine")
	assert.Len(t, mine, 2)

	byAuthor := mustRun[[]ir.Link](h, "profile", "list", "--author", string(alice.Author))
	assert.Len(t, byAuthor, 2)

	mustRun[deleteView](h, "profile", "delete", string(alice.Address))

	live := mustRun[[]ir.Action](h, "profile", "list", "--live")
	require.Len(t, live, 1)
	assert.Equal(t, bob.Address, live[0].Address)

	mine = mustRun[[]ir.Link](h, "profile", "list", "--mine")
	require.Len(t, mine, 1)
	assert.Equal(t, bob.Address, mine[0].Target)
}

func TestProfile_ListAuthorAndMineExclusive(t *testing.T) {
	h := newCLIHarness(t)

	_, err := h.run("profile", "list", "--mine", "--author", string(testutil.Agent(t, 2)))
	require.Error(t, err)
}

func TestStakeholder_OldestDeleteNone(t *testing.T) {
	h := newCLIHarness(t)

	created := mustRun[ir.Action](h, "stakeholder", "create", "--data", `{"name":"Carol"}`)
	oldest := mustRun[[]ir.Action](h, "stakeholder", "oldest-delete", string(created.Address))
	assert.Empty(t, oldest)
}

func TestEntity_Errors(t *testing.T) {
	h := newCLIHarness(t)
	created := mustRun[ir.Action](h, "coin", "create", "--data",
		`{"id":"eth","name":"Ether","symbol":"ETH","image":""}`)
	unknown := string(testutil.Agent(t, 9))

	tests := []struct {
		name     string
		args     []string
		wantCode string
		wantExit int
	}{
		{"invalid address", []string{"coin", "get", "not-an-address"}, ErrCodeInvalidInput, ExitCommandError},
		{"invalid data", []string{"coin", "create", "--data", `{"name":`}, ErrCodeInvalidInput, ExitCommandError},
		{"bad image", []string{"coin", "create", "--data", `{"id":"x","name":"x","symbol":"X","image":"%%"}`}, ErrCodeInvalidInput, ExitCommandError},
		{"unknown fields", []string{"stakeholder", "create", "--data", `{"name":"x","age":3}`}, ErrCodeInvalidInput, ExitCommandError},
		{"get not found", []string{"coin", "get", unknown}, ErrCodeNotFound, ExitFailure},
		{"latest not found", []string{"coin", "latest", unknown}, ErrCodeNotFound, ExitFailure},
		{"deletes not found", []string{"coin", "deletes", unknown}, ErrCodeNotFound, ExitFailure},
		{"delete not found", []string{"coin", "delete", unknown}, ErrCodeNotFound, ExitFailure},
		{"wrong kind", []string{"stakeholder", "delete", string(created.Address)}, ErrCodePolicyViolation, ExitFailure},
		{"update not found", []string{"coin", "update", unknown, unknown, "--data",
			`{"id":"eth","name":"Ether","symbol":"ETH","image":""}`}, ErrCodeNotFound, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cliErr, err := runError(h, tt.args...)
			assert.Equal(t, tt.wantCode, cliErr.Code, cliErr.Message)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
		})
	}
}

func TestEntity_TextOutput(t *testing.T) {
	h := newCLIHarness(t)
	created := mustRun[ir.Action](h, "stakeholder", "create", "--data", `{"name":"Dana"}`)

	cmd := newRootCommand(&RootOptions{Clock: h.clock})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--db", h.db, "--agent-key", h.key, "stakeholder", "history", string(created.Address)})
	require.NoError(t, cmd.Execute())

	text := out.String()
	assert.True(t, strings.HasPrefix(text, string(created.Address)+"\n"), text)
	assert.Contains(t, text, "entry_type: stakeholder")
	assert.Contains(t, text, `entry:      {"name":"Dana"}`)
}
