package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/revlog/internal/ir"
	"github.com/roach88/revlog/internal/portfolio"
	"github.com/roach88/revlog/internal/versioned"
)

// entityOptions holds flags shared by one kind's subcommands.
type entityOptions struct {
	*RootOptions
	Kind string // entry type name, e.g. "stakeholder_profile"
	Data string
}

// newEntityCommand creates the command group for one entity kind.
func newEntityCommand(rootOpts *RootOptions, use, kind, short string) *cobra.Command {
	opts := &entityOptions{RootOptions: rootOpts, Kind: kind}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	cmd.AddCommand(newCreateCommand(opts, use))
	cmd.AddCommand(newUpdateCommand(opts, use))
	cmd.AddCommand(newAddressCommand(opts, "delete", "Tombstone an entity and remove it from its indices", runDelete))
	cmd.AddCommand(newAddressCommand(opts, "get", "Show the original record", runGet))
	cmd.AddCommand(newAddressCommand(opts, "latest", "Show the latest revision", runLatest))
	cmd.AddCommand(newAddressCommand(opts, "history", "Show the original followed by every visible revision", runHistory))
	cmd.AddCommand(newAddressCommand(opts, "deletes", "Show every tombstone recorded against an entity", runDeletes))
	cmd.AddCommand(newAddressCommand(opts, "oldest-delete", "Show the earliest tombstone", runOldestDelete))
	if kind == portfolio.StakeholderProfileKind.Name {
		cmd.AddCommand(newListCommand(opts, use))
	}

	return cmd
}

// withKind opens the environment and runs fn against the command's kind.
func withKind(opts *entityOptions, cmd *cobra.Command, fn func(ctx context.Context, e *env, k portfolio.Kind) error) error {
	e, err := openEnv(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	k, err := e.portfolio.Kind(opts.Kind)
	if err != nil {
		return e.formatter.CommandError(ErrCodeInvalidInput, "unknown kind", err)
	}
	return fn(cmd.Context(), e, k)
}

func parseAddress(f *OutputFormatter, role, s string) (ir.Address, error) {
	addr, err := ir.ParseAddress(s)
	if err != nil {
		return "", f.CommandError(ErrCodeInvalidInput, fmt.Sprintf("invalid %s address", role), err)
	}
	return addr, nil
}

func parseEntry(f *OutputFormatter, k portfolio.Kind, data string) (ir.Object, error) {
	entry, err := k.ParseEntry([]byte(data))
	if err != nil {
		return nil, f.CommandError(ErrCodeInvalidInput, "invalid --data", err)
	}
	return entry, nil
}

func newCreateCommand(opts *entityOptions, use string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "create",
		Short:         "Create a new entity",
		Example:       fmt.Sprintf(`  revlog %s create --data '%s'`, use, exampleData(opts.Kind)),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withKind(opts, cmd, func(ctx context.Context, e *env, k portfolio.Kind) error {
				entry, err := parseEntry(e.formatter, k, opts.Data)
				if err != nil {
					return err
				}
				record, err := k.Collection().Create(ctx, entry)
				if err != nil {
					return e.formatter.Fail("create failed", err)
				}
				return e.formatter.Success(actionView{*record})
			})
		},
	}

	cmd.Flags().StringVar(&opts.Data, "data", "", "entry payload as JSON (required)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newUpdateCommand(opts *entityOptions, use string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <original> <previous>",
		Short: "Revise an entity",
		Long: `Write a new revision of an entity.

<original> is the address of the entity's create action. <previous> is the
revision being superseded, usually the current latest.`,
		Example:       fmt.Sprintf(`  revlog %s update <original> <previous> --data '%s'`, use, exampleData(opts.Kind)),
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withKind(opts, cmd, func(ctx context.Context, e *env, k portfolio.Kind) error {
				original, err := parseAddress(e.formatter, "original", args[0])
				if err != nil {
					return err
				}
				previous, err := parseAddress(e.formatter, "previous", args[1])
				if err != nil {
					return err
				}
				entry, err := parseEntry(e.formatter, k, opts.Data)
				if err != nil {
					return err
				}
				record, err := k.Collection().Update(ctx, original, previous, entry)
				if err != nil {
					return e.formatter.Fail("update failed", err)
				}
				return e.formatter.Success(actionView{*record})
			})
		},
	}

	cmd.Flags().StringVar(&opts.Data, "data", "", "entry payload as JSON (required)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

// addressRunner runs one single-address operation.
type addressRunner func(ctx context.Context, e *env, coll *versioned.Collection, original ir.Address) error

func newAddressCommand(opts *entityOptions, use, short string, run addressRunner) *cobra.Command {
	return &cobra.Command{
		Use:           use + " <original>",
		Short:         short,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withKind(opts, cmd, func(ctx context.Context, e *env, k portfolio.Kind) error {
				original, err := parseAddress(e.formatter, "original", args[0])
				if err != nil {
					return err
				}
				return run(ctx, e, k.Collection(), original)
			})
		},
	}
}

func runDelete(ctx context.Context, e *env, coll *versioned.Collection, original ir.Address) error {
	addr, err := coll.Delete(ctx, original)
	if err != nil {
		return e.formatter.Fail("delete failed", err)
	}
	return e.formatter.Success(deleteView{Original: original, Address: addr})
}

func runGet(ctx context.Context, e *env, coll *versioned.Collection, original ir.Address) error {
	record, err := coll.GetOriginal(ctx, original)
	if err != nil {
		return e.formatter.Fail("get failed", err)
	}
	return successOrNotFound(e, coll, original, record)
}

func runLatest(ctx context.Context, e *env, coll *versioned.Collection, original ir.Address) error {
	record, err := coll.GetLatest(ctx, original)
	if err != nil {
		return e.formatter.Fail("latest failed", err)
	}
	return successOrNotFound(e, coll, original, record)
}

func runHistory(ctx context.Context, e *env, coll *versioned.Collection, original ir.Address) error {
	history, err := coll.GetHistory(ctx, original)
	if err != nil {
		return e.formatter.Fail("history failed", err)
	}
	return e.formatter.Success(actionListView(history))
}

func runDeletes(ctx context.Context, e *env, coll *versioned.Collection, original ir.Address) error {
	deletes, err := coll.GetDeletes(ctx, original)
	if err != nil {
		return e.formatter.Fail("deletes failed", err)
	}
	if deletes == nil {
		return notFound(e, coll, original)
	}
	return e.formatter.Success(actionListView(deletes))
}

func runOldestDelete(ctx context.Context, e *env, coll *versioned.Collection, original ir.Address) error {
	oldest, err := coll.GetOldestDelete(ctx, original)
	if err != nil {
		return e.formatter.Fail("oldest-delete failed", err)
	}
	if oldest == nil {
		return e.formatter.Success(actionListView(nil))
	}
	return e.formatter.Success(actionView{*oldest})
}

func successOrNotFound(e *env, coll *versioned.Collection, original ir.Address, record *ir.Action) error {
	if record == nil {
		return notFound(e, coll, original)
	}
	return e.formatter.Success(actionView{*record})
}

func notFound(e *env, coll *versioned.Collection, original ir.Address) error {
	err := &versioned.Error{
		Code:    versioned.CodeNotFound,
		Message: fmt.Sprintf("%s not visible", coll.Kind().Name),
		Address: original,
	}
	return e.formatter.Fail("lookup failed", err)
}

func exampleData(kind string) string {
	if kind == portfolio.CoinKind.Name {
		return `{"id":"bitcoin","name":"Bitcoin","symbol":"BTC","image":""}`
	}
	return `{"name":"Alice"}`
}
