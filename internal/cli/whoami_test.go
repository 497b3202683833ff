package cli

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/revlog/internal/identity"
	"github.com/roach88/revlog/internal/ir"
)

func TestWhoami_GeneratesThenReuses(t *testing.T) {
	h := newCLIHarness(t)

	first := mustRun[whoamiView](h, "whoami")
	assert.Equal(t, h.key, first.KeyPath)
	assert.True(t, strings.HasPrefix(first.DID, "did:key:z6Mk"), first.DID)

	id, err := identity.Load(h.key)
	require.NoError(t, err)
	assert.Equal(t, id.Address, first.Address)

	second := mustRun[whoamiView](h, "whoami")
	assert.Equal(t, first.Address, second.Address, "identity must be reused")
}

func TestWhoami_AuthorsWrites(t *testing.T) {
	h := newCLIHarness(t)

	me := mustRun[whoamiView](h, "whoami")
	created := mustRun[ir.Action](h, "stakeholder", "create", "--data", `{"name":"Erin"}`)
	assert.Equal(t, me.Address, created.Author)
}

func TestWhoami_BadIdentityFile(t *testing.T) {
	h := newCLIHarness(t)
	require.NoError(t, os.WriteFile(h.key, []byte("{not json"), 0o600))

	cliErr, err := runError(h, "whoami")
	assert.Equal(t, ErrCodeSetup, cliErr.Code)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
