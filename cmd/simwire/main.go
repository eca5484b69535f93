package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/simwire/cmd/simwire/commands"
)

var rootCmd = &cobra.Command{
	Use:   "simwire",
	Short: "simwire - simulated-device serial to IoT telemetry bridge",
	Long: `simwire bridges telemetry from a simulated embedded device to a cloud
IoT platform.

It polls a serial-console text producer (a capture file or a
serial-over-websocket endpoint), extracts JSON telemetry records from the
stream, rate-limits outbound delivery, and forwards each record to the
platform's device HTTP API.

Available commands:
  run     - Start the bridge (poll, extract, throttle, deliver)
  check   - Verify sink connectivity and exit
  config  - Show the effective configuration
  version - Show version information

Examples:
  simwire run                        # Run with simwire.toml + SIMWIRE_* env
  simwire run --config bench.toml    # Run with an explicit config file
  simwire check                      # Fail fast if the sink is unreachable`,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a simwire.toml config file")

	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
