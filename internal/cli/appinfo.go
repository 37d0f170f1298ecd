package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tilaunch/tilaunch/internal/core"
)

func newAppInfoCmd() *cobra.Command {
	var format string
	var device bool

	cmd := &cobra.Command{
		Use:   "app-info [project]",
		Short: "Show the Info.plist of the last build of a project",
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
			appPath, ok := core.FindBuiltApp(project.Dir, !device)
			if !ok {
				return ExitError{Code: 1, Err: fmt.Errorf("no built app for %s; run `tilaunch run` first", project.Name)}
			}
			info, err := core.ReadAppBundleInfo(appPath)
			if err != nil {
				return err
			}
			return printData(cmd, ac, format, "app_info", info, func(w io.Writer) {
				fmt.Fprintf(w, "path:       %s\n", info.Path)
				fmt.Fprintf(w, "bundle id:  %s\n", info.BundleID)
				fmt.Fprintf(w, "name:       %s\n", firstNonEmpty(info.DisplayName, info.BundleName))
				fmt.Fprintf(w, "version:    %s (%s)\n", info.Version, info.BuildVersion)
				if info.MinOSVersion != "" {
					fmt.Fprintf(w, "min iOS:    %s\n", info.MinOSVersion)
				}
			})
		},
	}
	addFormatFlag(cmd, &format)
	cmd.Flags().BoolVar(&device, "device", false, "Look for the device build instead of the simulator build")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
