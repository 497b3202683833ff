package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/revlog/internal/config"
	"github.com/roach88/revlog/internal/identity"
	"github.com/roach88/revlog/internal/portfolio"
	"github.com/roach88/revlog/internal/store"
	"github.com/roach88/revlog/internal/versioned"
)

// env is everything one command invocation needs: output, identity, and an
// open store with the portfolio collections over it.
type env struct {
	formatter *OutputFormatter
	logger    *slog.Logger
	identity  *identity.Identity
	store     *store.Store
	portfolio *portfolio.Portfolio
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// loadIdentity reads the agent identity, generating one on first use.
func loadIdentity(opts *RootOptions, formatter *OutputFormatter, logger *slog.Logger) (*identity.Identity, error) {
	path, err := config.ExpandPath(opts.AgentKey)
	if err != nil {
		return nil, formatter.CommandError(ErrCodeSetup, "failed to resolve agent key path", err)
	}
	id, generated, err := identity.LoadOrGenerate(path)
	if err != nil {
		return nil, formatter.CommandError(ErrCodeSetup, "failed to load agent identity", err)
	}
	if generated {
		logger.Info("generated agent identity", "address", id.Address, "path", path)
	}
	return id, nil
}

// openEnv opens the store and builds the portfolio for this invocation.
// Callers must Close the result.
func openEnv(opts *RootOptions, cmd *cobra.Command) (*env, error) {
	formatter := newFormatter(opts, cmd)
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: opts.logLevel}))

	id, err := loadIdentity(opts, formatter, logger)
	if err != nil {
		return nil, err
	}

	dbPath, err := config.ExpandPath(opts.Database)
	if err != nil {
		return nil, formatter.CommandError(ErrCodeSetup, "failed to resolve database path", err)
	}
	st, err := store.Open(dbPath, portfolio.StoreOptions()...)
	if err != nil {
		return nil, formatter.CommandError(ErrCodeSetup, "failed to open database", err)
	}
	formatter.VerboseLog("Opened %s as %s", dbPath, id.Address)

	clock := opts.Clock
	if clock == nil {
		clock = versioned.SystemClock{}
	}
	collOpts := []versioned.CollectionOption{versioned.WithLogger(logger)}
	if opts.OpIDs != nil {
		collOpts = append(collOpts, versioned.WithOpIDGenerator(opts.OpIDs))
	}

	p, err := portfolio.New(st, versioned.Session{Author: id.Address, Clock: clock}, collOpts...)
	if err != nil {
		st.Close()
		return nil, formatter.CommandError(ErrCodeSetup, "failed to build portfolio", err)
	}

	return &env{
		formatter: formatter,
		logger:    logger,
		identity:  id,
		store:     st,
		portfolio: p,
	}, nil
}

// Close closes the store.
func (e *env) Close() error {
	return e.store.Close()
}
