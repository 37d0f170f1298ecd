package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/tilaunch/tilaunch/internal/core"
)

func newSigningCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "signing",
		Short: "List provisioning profiles and certificates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ac, opts, err := loadSigning(cmd)
			if err != nil {
				return err
			}
			return printData(cmd, ac, format, "signing_list", opts, func(w io.Writer) {
				writeSigningSection(w, "Provisioning profiles", opts.Profiles)
				fmt.Fprintln(w)
				writeSigningSection(w, "Certificates", opts.Certificates)
			})
		},
	}
	addFormatFlag(cmd, &format)

	cmd.AddCommand(&cobra.Command{
		Use:   "select",
		Short: "Pick the certificate and provisioning profile used for device builds",
		RunE: func(cmd *cobra.Command, args []string) error {
			ac, opts, err := loadSigning(cmd)
			if err != nil {
				return err
			}
			if ac.Flags.JSON {
				return ExitError{Code: 2, Err: fmt.Errorf("signing select is interactive; use `tilaunch config set` with --json")}
			}
			if err := core.Assert(len(opts.Profiles) > 0, "no valid provisioning profile found"); err != nil {
				return exitErrorFor(err)
			}
			if err := core.Assert(len(opts.Certificates) > 0, "no valid certificate found"); err != nil {
				return exitErrorFor(err)
			}

			profile := ac.Config.ProvisioningProfile
			cert := ac.Config.Certificate
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewSelect[string]().
						Title("Provisioning profile").
						Options(signingHuhOptions(opts.Profiles)...).
						Value(&profile),
					huh.NewSelect[string]().
						Title("Certificate").
						Options(signingHuhOptions(opts.Certificates)...).
						Value(&cert),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}

			cfg := ac.Config
			if err := cfg.Set("provisioning_profile", profile); err != nil {
				return err
			}
			if err := cfg.Set("certificate", cert); err != nil {
				return err
			}
			if err := core.SaveConfig(ac.Flags.Config, cfg); err != nil {
				return err
			}
			ac.Emitter.Emit(core.Status("signing", "Saved signing identity to "+ac.ConfigPath, nil))
			return nil
		},
	})
	return cmd
}

func loadSigning(cmd *cobra.Command) (AppContext, core.SigningOptions, error) {
	ac, err := NewAppContext(flags)
	if err != nil {
		return AppContext{}, core.SigningOptions{}, err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()
	inv, err := ac.InventoryProvider().Inventory(ctx)
	if err != nil {
		return AppContext{}, core.SigningOptions{}, err
	}
	return ac, core.ListSigning(inv, ac.Config), nil
}

func writeSigningSection(w io.Writer, title string, opts []core.SigningOption) {
	fmt.Fprintln(w, title+":")
	if len(opts) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, o := range opts {
		mark := " "
		if o.Selected {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s\n", mark, o.Label)
	}
}

func signingHuhOptions(opts []core.SigningOption) []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(opts))
	for _, o := range opts {
		out = append(out, huh.NewOption(o.Label, o.Value).Selected(o.Selected))
	}
	return out
}
