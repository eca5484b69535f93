package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// ConfigCmd prints the effective configuration.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the merged configuration (defaults, simwire.toml, SIMWIRE_* env)
with the device token redacted, plus any validation problems.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		cfg.PrintSummary()

		if problems := cfg.Validate(); len(problems) > 0 {
			pterm.Warning.Println("Configuration problems:")
			for _, p := range problems {
				pterm.Printf("  - %s\n", p)
			}
		} else {
			pterm.Success.Println("Configuration valid")
		}
		return nil
	},
}
