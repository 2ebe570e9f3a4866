package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mapty/internal/controller"
	"github.com/roach88/mapty/internal/view"
	"github.com/roach88/mapty/internal/workout"
)

// MarkerRow is one map marker in command output.
type MarkerRow struct {
	At      workout.Coords `json:"at"`
	Popup   string         `json:"popup"`
	Variant string         `json:"class"`
}

// MarkersResult is the output of the markers command.
type MarkersResult struct {
	Center  workout.Coords      `json:"center"`
	Zoom    int                 `json:"zoom"`
	Markers []MarkerRow         `json:"markers"`
	Notices []controller.Notice `json:"notices,omitempty"`
}

func (r MarkersResult) String() string {
	if len(r.Markers) == 0 {
		return fmt.Sprintf("Map at %s (zoom %d), no markers", r.Center, r.Zoom)
	}
	lines := []string{fmt.Sprintf("Map at %s (zoom %d)", r.Center, r.Zoom)}
	for _, m := range r.Markers {
		lines = append(lines, fmt.Sprintf("  %-24s %s", m.At, m.Popup))
	}
	return strings.Join(lines, "\n")
}

// NewMarkersCommand creates the markers command.
func NewMarkersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "markers",
		Short: "List the markers on the map",
		Long: `List the markers placed on the map after the device position was acquired.

Fails when the position is unavailable, since no map is created then.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			m := s.ui.Map()
			if m == nil {
				return s.out.Fail(controller.ErrMapNotReady)
			}
			result := MarkersResult{
				Zoom:    s.cfg.Map.Zoom,
				Markers: markerRows(s.ui.LiveMarkers()),
				Notices: s.Notices(),
			}
			if v, ok := m.LastView(); ok {
				result.Center, result.Zoom = v.Center, v.Zoom
			}
			return s.out.Success(result)
		},
	}
}

func markerRows(ms []view.Marker) []MarkerRow {
	rows := make([]MarkerRow, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, MarkerRow{At: m.At, Popup: m.Popup.Content, Variant: m.Popup.ClassName})
	}
	return rows
}

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Out string
}

// ExportResult is the output of the export command.
type ExportResult struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
	Markers int    `json:"markers"`
}

func (r ExportResult) String() string {
	return fmt.Sprintf("Wrote %s (%d entries, %d markers)", r.Path, r.Entries, r.Markers)
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the list and map as an HTML page",
		Long: `Write a standalone Leaflet page showing the workout list and map markers.

Without an acquired position the page is centered on the first workout
and carries no markers.

Examples:
  mapty export --out workouts.html`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "mapty.html", "output file")

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
	s, err := openSession(cmd, opts.RootOptions, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	page := view.Page{
		Zoom:    s.cfg.Map.Zoom,
		Entries: s.ui.List.Entries(),
		Markers: s.ui.LiveMarkers(),
	}
	if m := s.ui.Map(); m != nil {
		if v, ok := m.LastView(); ok {
			page.Center, page.Zoom = v.Center, v.Zoom
		}
	} else if snap, err := s.Snapshot(); err == nil && len(snap.Workouts) > 0 {
		page.Center = snap.Workouts[0].Coords
	}

	f, err := os.Create(opts.Out)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create output file", err)
	}
	if err := view.WritePage(f, page); err != nil {
		f.Close()
		return fmt.Errorf("failed to write page: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}

	return s.out.Success(ExportResult{
		Path:    opts.Out,
		Entries: len(page.Entries),
		Markers: len(page.Markers),
	})
}
