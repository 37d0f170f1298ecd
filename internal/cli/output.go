package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tilaunch/tilaunch/internal/core"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVar(format, "format", formatText, "Output format: text, json or yaml")
}

// printData writes v in the requested format. With --json the value travels as a
// single event of type kind instead.
func printData(cmd *cobra.Command, ac AppContext, format, kind string, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if ac.Flags.JSON {
		ac.Emitter.Emit(core.Event{Cmd: cmd.Name(), Type: kind, Data: v})
		return nil
	}
	switch format {
	case "", formatText:
		if text == nil {
			return printData(cmd, ac, formatJSON, kind, v, nil)
		}
		text(w)
		return nil
	case formatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(b))
		return nil
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return ExitError{Code: 2, Err: fmt.Errorf("unknown format %q (want text, json or yaml)", format)}
	}
}
