package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/mapty/internal/controller"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Sort bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged workouts",
		Long: `List logged workouts in creation order, or by ascending distance with --sort.

Examples:
  mapty list
  mapty list --sort --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts.RootOptions, opts.Sort)
		},
	}

	cmd.Flags().BoolVar(&opts.Sort, "sort", false, "sort by ascending distance")

	return cmd
}

// NewSortCommand creates the sort command, equivalent to list --sort.
func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "sort",
		Short:         "List workouts by ascending distance",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, rootOpts, true)
		},
	}
}

func runList(cmd *cobra.Command, opts *RootOptions, sorted bool) error {
	s, err := openSession(cmd, opts, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if sorted {
		if err := s.Do(controller.SortRequested()); err != nil {
			return s.out.Fail(err)
		}
	}

	return s.out.Success(ListResult{
		Entries: s.ui.List.Entries(),
		Sorted:  sorted,
		Notices: s.Notices(),
	})
}
