package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/simwire/errors"
)

func validTestConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		panic(err)
	}
	cfg.Sink.Host = "telemetry.example.com"
	cfg.Sink.Token = "device-token-0001"
	cfg.Source.Kind = SourceKindScripted
	return cfg
}

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.True(t, cfg.Sink.UseTLS)
	assert.False(t, cfg.Sink.AllowPrivateHosts)
	assert.Equal(t, 5.0, cfg.Bridge.MaxSendHz)
	assert.Equal(t, 0.3, cfg.Bridge.PollIntervalSeconds)
	assert.True(t, cfg.Bridge.PrintPreview)
	assert.Equal(t, SourceKindFile, cfg.Source.Kind)
	assert.Equal(t, 8*time.Second, cfg.SendTimeout())
	assert.Equal(t, 300*time.Millisecond, cfg.PollInterval())
}

func TestSchemeFollowsTLSFlag(t *testing.T) {
	cfg := validTestConfig()
	assert.Equal(t, "https", cfg.Scheme())
	cfg.Sink.UseTLS = false
	assert.Equal(t, "http", cfg.Scheme())
}

func TestValidateReportsAllProblems(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	// Defaults alone: missing host, token, and file source path.
	cfg.Bridge.MaxSendHz = 0
	cfg.Bridge.PollIntervalSeconds = -1

	problems := cfg.Validate()
	assert.Len(t, problems, 5)
	joined := ""
	for _, p := range problems {
		joined += p + "\n"
	}
	assert.Contains(t, joined, "sink.host")
	assert.Contains(t, joined, "sink.token")
	assert.Contains(t, joined, "max_send_hz")
	assert.Contains(t, joined, "poll_interval_seconds")
	assert.Contains(t, joined, "source.path")
}

func TestValidateOK(t *testing.T) {
	cfg := validTestConfig()
	assert.Empty(t, cfg.Validate())
	assert.NoError(t, cfg.ValidateErr())
}

func TestValidateErrIsConfigurationError(t *testing.T) {
	cfg := validTestConfig()
	cfg.Sink.Token = ""
	err := cfg.ValidateErr()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestValidateWebsocketSource(t *testing.T) {
	cfg := validTestConfig()
	cfg.Source.Kind = SourceKindWebsocket

	cfg.Source.URL = ""
	assert.NotEmpty(t, cfg.Validate())

	cfg.Source.URL = "http://not-a-websocket"
	assert.NotEmpty(t, cfg.Validate())

	cfg.Source.URL = "wss://sim.example.com/serial"
	assert.Empty(t, cfg.Validate())
}

func TestValidateUnknownSourceKind(t *testing.T) {
	cfg := validTestConfig()
	cfg.Source.Kind = "carrier-pigeon"
	problems := cfg.Validate()
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "carrier-pigeon")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "simwire.toml")
	content := `
[sink]
host = "tb.example.com"
token = "abc123"
use_tls = false

[bridge]
max_send_hz = 2.0
poll_interval_seconds = 1.0

[source]
kind = "scripted"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tb.example.com", cfg.Sink.Host)
	assert.Equal(t, "abc123", cfg.Sink.Token)
	assert.False(t, cfg.Sink.UseTLS)
	assert.Equal(t, 2.0, cfg.Bridge.MaxSendHz)
	assert.Equal(t, time.Second, cfg.PollInterval())
	assert.Empty(t, cfg.Validate())
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SIMWIRE_SINK_HOST", "env.example.com")
	t.Setenv("SIMWIRE_BRIDGE_MAX_SEND_HZ", "9.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env.example.com", cfg.Sink.Host)
	assert.Equal(t, 9.5, cfg.Bridge.MaxSendHz)
}

func TestRedactToken(t *testing.T) {
	assert.Equal(t, "(not set)", redactToken(""))
	assert.Equal(t, "s…", redactToken("short"))
	assert.Equal(t, "0123456789…", redactToken("0123456789ABCDEF"))
}
