package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/simwire/errors"
)

// Load reads the simwire configuration using Viper.
//
// Precedence, lowest to highest: defaults, simwire.toml (working directory),
// SIMWIRE_* environment variables (e.g. SIMWIRE_SINK_TOKEN).
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("SIMWIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	v.SetConfigName("simwire")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine: env vars alone can carry a
		// complete setup. Anything else (parse error, permissions) is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	return unmarshal(v)
}

// LoadFromFile loads configuration from a specific file path. Environment
// variables still override file values.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("SIMWIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	return unmarshal(v)
}

// LoadWithViper loads configuration from a caller-provided Viper instance.
// Useful for tests that build configuration programmatically.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}
