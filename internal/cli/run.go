package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tilaunch/tilaunch/internal/core"
	"github.com/tilaunch/tilaunch/internal/logging"
)

func newRunCmd() *cobra.Command {
	var target string
	var dryRun bool
	var logLevel string
	var sdk string

	cmd := &cobra.Command{
		Use:   "run [project]",
		Short: "Build and launch a project on a simulator or device",
		Long: "Build and launch a project. Without --target the last target used for the\n" +
			"project is picked, then the newest eligible simulator.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ac, err := NewAppContext(flags)
			if err != nil {
				return err
			}
			if logLevel != "" {
				if err := ac.Config.Set("log_level", logLevel); err != nil {
					return ExitError{Code: 2, Err: err}
				}
			}
			if sdk != "" {
				ac.Config.TiSDK = sdk
			}
			project, err := ac.ResolveProject(firstArg(args))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			resolved, err := resolveForProject(ctx, ac, project)
			if err != nil {
				return exitErrorFor(err)
			}

			st, err := core.LoadState()
			if err != nil {
				logging.LogWarn("state", err.Error())
				st = core.State{Version: core.StateVersion}
			}
			t, err := pickTarget(resolved, st, project.Dir, target)
			if err != nil {
				return exitErrorFor(err)
			}

			inv, err := core.BuildInvocation(ac.Config, project.Dir, t)
			if err != nil {
				return exitErrorFor(err)
			}
			opts := core.RunOptionsFromConfig(ac.Config)
			opts.DryRun = dryRun

			_, err = core.NewLauncher().Run(ctx, inv, opts, ac.Emitter)
			if !dryRun && !errors.Is(err, context.Canceled) {
				st.AddRecentRun(core.RecentRun{
					Project:    project.Name,
					ProjectDir: project.Dir,
					TargetID:   t.ID,
					TargetName: t.Name,
					Simulator:  t.Simulator,
					UsedAt:     time.Now().UTC().Format(time.RFC3339),
				})
				if serr := core.SaveState(st); serr != nil {
					logging.LogWarn("state", serr.Error())
				}
			}
			if errors.Is(err, context.Canceled) {
				return ExitError{Code: 130, Err: err}
			}
			return exitErrorFor(err)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Simulator or device udid")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the build command without running it")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the build log level for this run")
	cmd.Flags().StringVar(&sdk, "sdk", "", "Titanium SDK version for simulator builds")
	return cmd
}

// pickTarget honours an explicit udid, then the last target used for the project
// when it is still eligible, then the default target.
func pickTarget(resolved core.ResolvedTargets, st core.State, projectDir, id string) (core.Target, error) {
	if id != "" {
		return core.SelectTarget(resolved, id)
	}
	if last, ok := st.LastTarget(projectDir); ok {
		if t, ok := resolved.Lookup(last.TargetID); ok {
			return t, nil
		}
	}
	t, ok := core.DefaultTarget(resolved)
	if err := core.Assert(ok, "no simulator or device can run this project"); err != nil {
		return core.Target{}, err
	}
	return t, nil
}
