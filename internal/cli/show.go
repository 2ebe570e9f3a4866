package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/mapty/internal/controller"
	"github.com/roach88/mapty/internal/render"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one workout",
		Long: `Select a workout as if its list entry were clicked and print it.

The map, when ready, is recentered on the workout.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, rootOpts, args[0])
		},
	}
}

func runShow(cmd *cobra.Command, opts *RootOptions, id string) error {
	s, err := openSession(cmd, opts, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Do(controller.EntryClicked(id)); err != nil {
		return s.out.Fail(err)
	}
	w, err := s.Workout(id)
	if err != nil {
		return s.out.Fail(err)
	}
	entry, err := render.EntryFor(w, true)
	if err != nil {
		return err
	}
	return s.out.Success(WorkoutResult{
		Workout: w,
		Entry:   entry,
		Notices: s.Notices(),
	})
}
