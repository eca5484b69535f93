// Package config provides simwire configuration loading, validation, and
// display. Configuration is read with Viper from simwire.toml plus SIMWIRE_*
// environment overrides, then passed into component constructors as an
// explicit value — components never read ambient global state.
package config

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
)

// Config is the full simwire configuration.
type Config struct {
	Sink   SinkConfig   `mapstructure:"sink"`
	Bridge BridgeConfig `mapstructure:"bridge"`
	Source SourceConfig `mapstructure:"source"`
	Log    LogConfig    `mapstructure:"log"`
}

// SinkConfig configures the telemetry sink client.
type SinkConfig struct {
	// Host is the sink hostname, e.g. "eu.thingsboard.cloud".
	Host string `mapstructure:"host"`

	// Token is the device access token. The derived endpoint is
	// {scheme}://{host}/api/v1/{token}/telemetry.
	Token string `mapstructure:"token"`

	// UseTLS selects https over http for the telemetry endpoint.
	UseTLS bool `mapstructure:"use_tls"`

	// AllowPrivateHosts disables the private-IP/localhost guard in the
	// HTTP client. Required for self-hosted sinks on a LAN.
	AllowPrivateHosts bool `mapstructure:"allow_private_hosts"`

	// SendTimeoutSeconds bounds a single telemetry POST.
	SendTimeoutSeconds float64 `mapstructure:"send_timeout_seconds"`
}

// BridgeConfig configures the delivery pipeline.
type BridgeConfig struct {
	// MaxSendHz caps outbound telemetry frequency (messages per second).
	MaxSendHz float64 `mapstructure:"max_send_hz"`

	// PollIntervalSeconds is how often the text source is polled.
	PollIntervalSeconds float64 `mapstructure:"poll_interval_seconds"`

	// PrintPreview echoes each record to the console before sending.
	PrintPreview bool `mapstructure:"print_preview"`

	// ExpectedFields, when non-empty, drops records carrying fewer than
	// MinFieldMatches of these keys. Guards against stray JSON in the
	// serial stream that is not device telemetry.
	ExpectedFields []string `mapstructure:"expected_fields"`

	// MinFieldMatches is the minimum ExpectedFields overlap required.
	MinFieldMatches int `mapstructure:"min_field_matches"`
}

// SourceConfig selects and configures the upstream text producer.
type SourceConfig struct {
	// Kind is one of "file", "websocket", "scripted".
	Kind string `mapstructure:"kind"`

	// Path is the capture file to tail (kind "file").
	Path string `mapstructure:"path"`

	// URL is the serial-over-websocket endpoint (kind "websocket").
	URL string `mapstructure:"url"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// JSON switches structured JSON log output on.
	JSON bool `mapstructure:"json"`
}

// PollInterval returns the poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Bridge.PollIntervalSeconds * float64(time.Second))
}

// SendTimeout returns the per-send timeout as a duration.
func (c *Config) SendTimeout() time.Duration {
	return time.Duration(c.Sink.SendTimeoutSeconds * float64(time.Second))
}

// Scheme returns the transport scheme derived from UseTLS.
func (c *Config) Scheme() string {
	if c.Sink.UseTLS {
		return "https"
	}
	return "http"
}

// redactToken shortens a token for display so full credentials never land in
// terminal scrollback or logs.
func redactToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 10 {
		return token[:1] + "…"
	}
	return token[:10] + "…"
}

// PrintSummary renders the effective configuration. The device token is
// redacted.
func (c *Config) PrintSummary() {
	data := pterm.TableData{
		{"Setting", "Value"},
		{"Sink host", c.Sink.Host},
		{"Sink token", redactToken(c.Sink.Token)},
		{"Transport", c.Scheme()},
		{"Send timeout", c.SendTimeout().String()},
		{"Max send rate", fmt.Sprintf("%.1f Hz", c.Bridge.MaxSendHz)},
		{"Poll interval", c.PollInterval().String()},
		{"Print preview", fmt.Sprintf("%t", c.Bridge.PrintPreview)},
		{"Source", c.Source.Kind},
	}
	switch c.Source.Kind {
	case SourceKindFile:
		data = append(data, []string{"Source path", c.Source.Path})
	case SourceKindWebsocket:
		data = append(data, []string{"Source URL", c.Source.URL})
	}
	if len(c.Bridge.ExpectedFields) > 0 {
		data = append(data, []string{
			"Field filter",
			fmt.Sprintf("≥%d of %v", c.Bridge.MinFieldMatches, c.Bridge.ExpectedFields),
		})
	}

	pterm.DefaultSection.Println("simwire configuration")
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
