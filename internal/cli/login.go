package cli

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tilaunch/tilaunch/internal/core"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in to the Appcelerator platform with the configured credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			ac, err := NewAppContext(flags)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return exitErrorFor(core.Login(ctx, ac.Config, core.RunStreaming, ac.Emitter))
		},
	}
}
