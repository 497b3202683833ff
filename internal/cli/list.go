package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/revlog/internal/ir"
	"github.com/roach88/revlog/internal/portfolio"
)

// listOptions holds flags for the list command.
type listOptions struct {
	*entityOptions
	Author string
	Mine   bool
	Live   bool
}

func newListCommand(entityOpts *entityOptions, use string) *cobra.Command {
	opts := &listOptions{entityOptions: entityOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed entities",
		Long: `List the entities linked from the global index, or from one author's index.

Raw index links are shown by default; links to tombstoned entities are kept
until every reader has dropped them. Use --live to resolve the links and show
only entities that are visible and not deleted.`,
		Example: `  revlog ` + use + ` list
  revlog ` + use + ` list --mine --live
  revlog ` + use + ` list --author <address>`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withKind(opts.entityOptions, cmd, func(ctx context.Context, e *env, k portfolio.Kind) error {
				return runList(ctx, opts, e, k)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Author, "author", "", "list one author's entities")
	cmd.Flags().BoolVar(&opts.Mine, "mine", false, "list this agent's entities")
	cmd.Flags().BoolVar(&opts.Live, "live", false, "resolve links and drop deleted entities")
	cmd.MarkFlagsMutuallyExclusive("author", "mine")

	return cmd
}

func runList(ctx context.Context, opts *listOptions, e *env, k portfolio.Kind) error {
	coll := k.Collection()

	var (
		links []ir.Link
		err   error
	)
	switch {
	case opts.Mine:
		links, err = coll.ListByAuthor(ctx, e.identity.Address)
	case opts.Author != "":
		author, perr := parseAddress(e.formatter, "author", opts.Author)
		if perr != nil {
			return perr
		}
		links, err = coll.ListByAuthor(ctx, author)
	default:
		links, err = coll.ListAll(ctx)
	}
	if err != nil {
		return e.formatter.Fail("list failed", err)
	}

	if !opts.Live {
		return e.formatter.Success(linkListView(links))
	}
	live, err := coll.FilterLive(ctx, links)
	if err != nil {
		return e.formatter.Fail("list failed", err)
	}
	return e.formatter.Success(actionListView(live))
}
