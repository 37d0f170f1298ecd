package cli

import (
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tilaunch/tilaunch/internal/core"
)

func newLogsCmd() *cobra.Command {
	var predicate string
	var target string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Stream the system log of a simulator",
		Long: "Streams `xcrun simctl spawn <udid> log stream`. Without --target the simulator\n" +
			"of the most recent run is used, then the first booted one.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ac, err := NewAppContext(flags)
			if err != nil {
				return err
			}
			udid := target
			if udid == "" {
				st, err := core.LoadState()
				if err != nil {
					return err
				}
				for _, r := range st.Recent {
					if r.Simulator {
						udid = r.TargetID
						break
					}
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if udid == "" {
				booted, err := core.BootedSimulators(ctx)
				if err == nil && len(booted) > 0 {
					udid = booted[0].UDID
				}
			}
			if udid == "" {
				return ExitError{Code: 2, Err: errors.New("no recent or booted simulator; pass --target <udid>")}
			}

			ac.Emitter.Emit(core.Status("logs", "Streaming logs of "+udid, nil))
			_, err = core.RunStreaming(ctx, core.SimLogStreamSpec(udid, predicate, "logs", ac.Emitter))
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&predicate, "predicate", "", "log stream --predicate filter")
	cmd.Flags().StringVar(&target, "target", "", "Simulator udid")
	return cmd
}
