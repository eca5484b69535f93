package config

import "github.com/spf13/viper"

// Source kinds accepted by source.kind.
const (
	SourceKindFile      = "file"
	SourceKindWebsocket = "websocket"
	SourceKindScripted  = "scripted"
)

// SetDefaults installs default values on a Viper instance. Defaults mirror a
// conservative bridge setup: HTTPS sink, 5 Hz cap, 300ms polling.
func SetDefaults(v *viper.Viper) {
	// Sink
	v.SetDefault("sink.host", "")
	v.SetDefault("sink.token", "")
	v.SetDefault("sink.use_tls", true)
	v.SetDefault("sink.allow_private_hosts", false)
	v.SetDefault("sink.send_timeout_seconds", 8.0)

	// Bridge behavior
	v.SetDefault("bridge.max_send_hz", 5.0)
	v.SetDefault("bridge.poll_interval_seconds", 0.3)
	v.SetDefault("bridge.print_preview", true)
	v.SetDefault("bridge.expected_fields", []string{})
	v.SetDefault("bridge.min_field_matches", 3)

	// Source
	v.SetDefault("source.kind", SourceKindFile)
	v.SetDefault("source.path", "")
	v.SetDefault("source.url", "")

	// Logging
	v.SetDefault("log.json", false)
}
