package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tilaunch/tilaunch/internal/logging"
	"github.com/tilaunch/tilaunch/internal/tui"
)

var flags GlobalFlags

// closeLog closes the diagnostics file opened by setupLogging.
var closeLog func() error

var (
	rootCmd = &cobra.Command{
		Use:           "tilaunch",
		Short:         "tilaunch: run Titanium apps on simulators and devices",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(flags.Verbose)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closeLog != nil {
				return closeLog()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default: TUI. Use `tilaunch --help` for help.
			return runTUI()
		},
	}
)

func Execute() {
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	rootCmd.PersistentFlags().BoolVar(&flags.JSON, "json", false, "Emit NDJSON event stream to stdout")
	rootCmd.PersistentFlags().StringVar(&flags.Config, "config", "", "Path to config file (default: <user config dir>/tilaunch/config.json)")
	rootCmd.PersistentFlags().StringVar(&flags.Workspace, "workspace", "", "Workspace directory (overrides the workspace setting)")
	rootCmd.PersistentFlags().StringVar(&flags.Inventory, "inventory", "", "Read the platform inventory from a saved `ti info -o json` file")
	rootCmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false, "Print plain text without console colours")
	rootCmd.PersistentFlags().BoolVar(&flags.Verbose, "verbose", false, "Write debug diagnostics to the log file")

	rootCmd.AddCommand(newTUICmd())
	rootCmd.AddCommand(newProjectsCmd())
	rootCmd.AddCommand(newTargetsCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newSigningCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newAppInfoCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newLogsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		PrintFatal(err)
	}
}

func setupLogging(verbose bool) error {
	path, err := logging.DefaultLogPath()
	if err != nil {
		return nil
	}
	level := "info"
	if verbose {
		level = "debug"
	}
	closeFn, err := logging.Setup(path, level)
	if err != nil {
		// Diagnostics are optional; the command still runs.
		return nil
	}
	closeLog = closeFn
	return nil
}

func runTUI() error {
	ac, err := NewAppContext(flags)
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Config:     ac.Config,
		ConfigPath: ac.ConfigPath,
		Inventory:  ac.InventoryProvider(),
	})
}

func newTUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive TUI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}
	return cmd
}
