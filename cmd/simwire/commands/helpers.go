package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/simwire/config"
	"github.com/teranos/simwire/errors"
	"github.com/teranos/simwire/logger"
	"github.com/teranos/simwire/source"
)

// loadConfig reads configuration, honoring the --config flag, and
// initializes the global logger from it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path, _ = cmd.InheritedFlags().GetString("config")
	}

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(cfg.Log.JSON); err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}
	return cfg, nil
}

// validatedConfig loads configuration and rejects it with every problem
// listed when invalid.
func validatedConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if problems := cfg.Validate(); len(problems) > 0 {
		pterm.Error.Println("Configuration problems:")
		for _, p := range problems {
			pterm.Printf("  - %s\n", p)
		}
		return nil, cfg.ValidateErr()
	}
	return cfg, nil
}

// buildSource constructs the configured text producer.
func buildSource(cmd *cobra.Command, cfg *config.Config) (source.TextSource, error) {
	switch cfg.Source.Kind {
	case config.SourceKindFile:
		return source.NewFile(cfg.Source.Path)
	case config.SourceKindWebsocket:
		return source.NewWebsocket(cmd.Context(), cfg.Source.URL)
	case config.SourceKindScripted:
		// Dry-run source: an empty console that never produces output.
		return source.NewScripted(), nil
	default:
		return nil, errors.Newf("unknown source kind %q", cfg.Source.Kind)
	}
}
