package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tilaunch/tilaunch/internal/core"
)

func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Colour a saved build log by line category",
		Long:  "Reads a build log from file, or stdin when no file is given, and prints each line\nwith its category colour (or as log events with --json).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ac, err := NewAppContext(flags)
			if err != nil {
				return err
			}
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			return classifyStream(r, ac.Emitter)
		},
	}
	return cmd
}

func classifyStream(r io.Reader, emit core.Emitter) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	for _, line := range core.ClassifyChunk(string(b)) {
		emit.Emit(core.LogLineEvent("classify", line, ""))
	}
	return nil
}
