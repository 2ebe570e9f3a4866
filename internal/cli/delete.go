package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/mapty/internal/controller"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one workout",
		Long: `Delete a workout as if its delete control were clicked.

The command waits for the configured ui.delete_delay before the workout
is removed and the session reloads.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, rootOpts, args[0])
		},
	}
}

func runDelete(cmd *cobra.Command, opts *RootOptions, id string) error {
	s, err := openSession(cmd, opts, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	s.out.VerboseLog("deleting %s after %s", id, s.cfg.UI.DeleteDelay)
	if err := s.Do(controller.DeleteClicked(id)); err != nil {
		return s.out.Fail(err)
	}

	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	return s.out.Success(MessageResult{
		Message:   controller.MsgDeleted,
		ID:        id,
		Remaining: len(snap.Workouts),
		Notices:   s.Notices(),
	})
}
