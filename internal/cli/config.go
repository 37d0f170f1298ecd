package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tilaunch/tilaunch/internal/core"
	"github.com/tilaunch/tilaunch/internal/tui"
	"github.com/tilaunch/tilaunch/internal/util"
)

func newConfigCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit the tilaunch config",
		RunE: func(cmd *cobra.Command, args []string) error {
			ac, err := NewAppContext(flags)
			if err != nil {
				return err
			}
			settings := redactedSettings(ac.Config)
			return printData(cmd, ac, format, "config", settings, func(w io.Writer) {
				keys := make([]string, 0, len(settings))
				for k := range settings {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(w, "%s = %v\n", k, settings[k])
				}
			})
		},
	}
	addFormatFlag(cmd, &format)

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigEditCmd())
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func redactedSettings(cfg core.Config) map[string]any {
	s := cfg.Settings()
	if cfg.Password != "" {
		s["password"] = "********"
	}
	return s
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Print one config value",
		Args:      cobra.ExactArgs(1),
		ValidArgs: core.ConfigKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ac, err := NewAppContext(flags)
			if err != nil {
				return err
			}
			v, err := ac.Config.Get(args[0])
			if err != nil {
				return ExitError{Code: 2, Err: err}
			}
			if ac.Flags.JSON {
				ac.Emitter.Emit(core.Event{Cmd: "config", Type: "config_value", Data: map[string]string{"key": args[0], "value": v}})
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one config value",
		Args:      cobra.ExactArgs(2),
		ValidArgs: core.ConfigKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ac, err := NewAppContext(flags)
			if err != nil {
				return err
			}
			cfg := ac.Config
			if err := cfg.Set(args[0], args[1]); err != nil {
				var unknown *core.UnknownConfigKeyError
				if errors.As(err, &unknown) {
					return ExitError{Code: 2, Err: err}
				}
				return err
			}
			if err := core.SaveConfig(ac.Flags.Config, cfg); err != nil {
				return err
			}
			ac.Emitter.Emit(core.Status("config", fmt.Sprintf("Set %s in %s", args[0], ac.ConfigPath), nil))
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			ac, err := NewAppContext(flags)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ac.ConfigPath)
			return nil
		},
	}
}

func newConfigEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the config file in $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			ac, err := NewAppContext(flags)
			if err != nil {
				return err
			}
			if !util.IsFile(ac.ConfigPath) {
				if err := core.SaveConfig(ac.Flags.Config, ac.Config); err != nil {
					return err
				}
			}
			editor := os.Getenv("EDITOR")
			if editor == "" {
				return errors.New("EDITOR is not set; export EDITOR or use `tilaunch config set`")
			}
			c := exec.Command(editor, ac.ConfigPath)
			c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
			return c.Run()
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var nonInteractive bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ac, err := NewAppContext(flags)
			if err != nil {
				var verr core.ConfigVersionError
				if !errors.As(err, &verr) {
					return err
				}
				// Regenerating is the way out of a version mismatch.
				ac, err = freshAppContext()
				if err != nil {
					return err
				}
			}
			cfg := ac.Config
			if cfg.GUID == "" {
				cfg.GUID = uuid.New().String()
			}
			if !nonInteractive && !ac.Flags.JSON {
				cfg, err = tui.RunConfigWizard(cfg)
				if err != nil {
					return err
				}
			}
			if err := core.SaveConfig(ac.Flags.Config, cfg); err != nil {
				return err
			}
			ac.Emitter.Emit(core.Status("config", "Wrote config", map[string]any{"path": ac.ConfigPath}))
			ac.Emitter.Emit(core.Result("config", true, map[string]any{"config": ac.ConfigPath}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "Write defaults without prompts")
	return cmd
}

func freshAppContext() (AppContext, error) {
	path := flags.Config
	if path == "" {
		p, err := core.ConfigPath()
		if err != nil {
			return AppContext{}, err
		}
		path = p
	}
	cfg := core.DefaultConfig()
	if flags.Workspace != "" {
		cfg.Workspace = flags.Workspace
	}
	return AppContext{ConfigPath: path, Config: cfg, Emitter: newEmitter(flags, cfg), Flags: flags}, nil
}
