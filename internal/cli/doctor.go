package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/tilaunch/tilaunch/internal/core"
)

func newDoctorCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the Titanium toolchain, workspace and config",
		RunE: func(cmd *cobra.Command, args []string) error {
			ac, err := NewAppContext(flags)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			// Progress events would interleave with the report in text mode.
			var emit core.Emitter
			if ac.Flags.JSON {
				emit = ac.Emitter
			}
			rep := core.Doctor(ctx, ac.Config, ac.ConfigPath, emit)
			if err := printData(cmd, ac, format, "doctor_report", rep, func(w io.Writer) {
				for _, c := range rep.Checks {
					mark := "ok  "
					if !c.OK {
						mark = "FAIL"
					}
					fmt.Fprintf(w, "[%s] %s: %s\n", mark, c.Name, c.Detail)
					if !c.OK && c.Hint != "" {
						fmt.Fprintf(w, "       %s\n", c.Hint)
					}
				}
			}); err != nil {
				return err
			}
			if !rep.OK() {
				return ExitError{Code: 1, Err: fmt.Errorf("doctor found problems")}
			}
			return nil
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}
