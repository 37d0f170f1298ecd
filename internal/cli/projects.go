package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tilaunch/tilaunch/internal/core"
)

func newProjectsCmd() *cobra.Command {
	var format string
	var noBranch bool

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List the Titanium projects of the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			ac, err := NewAppContext(flags)
			if err != nil {
				return err
			}
			var branch core.BranchFunc = core.GitBranch
			if noBranch {
				branch = nil
			}
			projects, err := core.ListProjects(ac.Config.Workspace, branch)
			if err != nil {
				return exitErrorFor(err)
			}
			return printData(cmd, ac, format, "project_list", projects, func(w io.Writer) {
				for _, p := range projects {
					fmt.Fprintln(w, p.Label)
				}
			})
		},
	}
	addFormatFlag(cmd, &format)
	cmd.Flags().BoolVar(&noBranch, "no-branch", false, "Skip the git branch lookup")
	return cmd
}
