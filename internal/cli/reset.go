package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/mapty/internal/controller"
)

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "reset",
		Short:         "Delete all workouts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Do(controller.ResetRequested()); err != nil {
				return s.out.Fail(err)
			}
			return s.out.Success(MessageResult{
				Message: controller.MsgCleared,
				Notices: s.Notices(),
			})
		},
	}
}
