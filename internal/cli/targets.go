package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/tilaunch/tilaunch/internal/core"
)

func newTargetsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "targets [project]",
		Short: "List the simulators and devices able to run a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ac, err := NewAppContext(flags)
			if err != nil {
				return err
			}
			project, err := ac.ResolveProject(firstArg(args))
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			resolved, err := resolveForProject(ctx, ac, project)
			var empty *core.NoEligibleTargetsError
			if errors.As(err, &empty) {
				// Nothing to pick from is not a failure of the listing itself.
				ac.Emitter.Emit(core.Warn("targets", err.Error()))
				return nil
			}
			if err != nil {
				return exitErrorFor(err)
			}
			return printData(cmd, ac, format, "target_list", resolved, func(w io.Writer) {
				writeTargetTable(w, resolved)
			})
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

// writeTargetTable prints simulators then devices as borderless columns.
func writeTargetTable(w io.Writer, resolved core.ResolvedTargets) {
	cell := lipgloss.NewStyle().PaddingRight(2)
	header := cell.Bold(true)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers("KIND", "NAME", "IOS", "FAMILY", "UDID")
	for _, tg := range resolved.SortedSimulators() {
		t.Row("simulator", tg.Name, tg.OSVersion, tg.Family, tg.ID)
	}
	for _, tg := range resolved.SortedDevices() {
		t.Row("device", tg.Name, tg.OSVersion, tg.Family, tg.ID)
	}
	fmt.Fprintln(w, t.Render())
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
