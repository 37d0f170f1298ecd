package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tilaunch/tilaunch/internal/core"
)

// Version is set at build time with -ldflags "-X github.com/tilaunch/tilaunch/internal/cli.Version=...".
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tilaunch version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.JSON {
				core.NewNDJSONEmitter(cmd.OutOrStdout(), core.EventSchemaVersion).Emit(core.Event{
					Cmd:  "version",
					Type: "version",
					Data: map[string]any{"version": Version, "eventSchema": core.EventSchemaVersion, "configVersion": core.ConfigVersion},
				})
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tilaunch %s\n", Version)
			return nil
		},
	}
}
