package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/simwire/errors"
	"github.com/teranos/simwire/sink"
)

// CheckCmd verifies sink connectivity without starting the bridge.
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify sink connectivity and exit",
	Long: `Send a sentinel telemetry record to the configured sink and report
whether it was accepted. Use before wiring up the upstream simulation to
catch bad hosts or tokens early.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := validatedConfig(cmd)
		if err != nil {
			return err
		}

		client := sink.New(cfg.Sink)
		pterm.Info.Printf("Probing %s\n", client.Endpoint())

		if !client.VerifyConnectivity(cmd.Context()) {
			failure := client.LastFailure()
			pterm.Error.Printf("Sink unreachable: %s %s\n", failure.Kind, failure.Detail)
			return errors.Wrapf(errors.ErrConnectivity, "probe failed (%s)", failure.Kind)
		}

		pterm.Success.Println("Sink reachable, telemetry accepted")
		return nil
	},
}
