package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mapty/internal/controller"
	"github.com/roach88/mapty/internal/render"
	"github.com/roach88/mapty/internal/workout"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	At        string // LAT,LNG of the map click
	Distance  string
	Duration  string
	Cadence   string
	Elevation string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <running|cycling>",
		Short: "Log a workout at a map location",
		Long: `Log a workout as if the map were clicked at --at and the form submitted.

Field values are taken as typed and validated like the form: distance,
duration and cadence must be positive numbers; elevation must be a number.

Examples:
  mapty add running --at 51.5,-0.12 --distance 5.2 --duration 24 --cadence 178
  mapty add cycling --at 51.5,-0.12 --distance 27 --duration 95 --elevation 523`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.At, "at", "", "map location as LAT,LNG (required)")
	cmd.Flags().StringVar(&opts.Distance, "distance", "", "distance in km")
	cmd.Flags().StringVar(&opts.Duration, "duration", "", "duration in min")
	cmd.Flags().StringVar(&opts.Cadence, "cadence", "", "cadence in steps/min (running)")
	cmd.Flags().StringVar(&opts.Elevation, "elevation", "", "elevation gain in m (cycling)")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func runAdd(cmd *cobra.Command, opts *AddOptions, kind string) error {
	at, err := parseCoords(opts.At)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --at", err)
	}

	s, err := openSession(cmd, opts.RootOptions, &at)
	if err != nil {
		return err
	}
	defer s.Close()

	k := workout.Kind(strings.ToLower(strings.TrimSpace(kind)))
	if err := s.Do(controller.KindChanged(k)); err != nil {
		return s.out.Fail(err)
	}
	if err := s.Do(controller.MapClicked(at)); err != nil {
		return s.out.Fail(err)
	}

	before, err := s.Snapshot()
	if err != nil {
		return err
	}

	form := workout.Form{
		Kind:      string(k),
		Distance:  opts.Distance,
		Duration:  opts.Duration,
		Cadence:   opts.Cadence,
		Elevation: opts.Elevation,
	}
	if err := s.Do(controller.FormSubmitted(form)); err != nil {
		return s.out.Fail(err)
	}

	after, err := s.Snapshot()
	if err != nil {
		return err
	}
	w, ok := created(before.Workouts, after.Workouts)
	if !ok {
		return fmt.Errorf("created workout not found in session")
	}

	entry, err := render.EntryFor(w, false)
	if err != nil {
		return err
	}
	return s.out.Success(WorkoutResult{
		Workout: w,
		Entry:   entry,
		Notices: s.Notices(),
		heading: controller.MsgAdded,
	})
}

// created returns the workout present in after but not in before.
func created(before, after []workout.Workout) (workout.Workout, bool) {
	seen := make(map[string]bool, len(before))
	for _, w := range before {
		seen[w.ID] = true
	}
	for _, w := range after {
		if !seen[w.ID] {
			return w, true
		}
	}
	return workout.Workout{}, false
}
