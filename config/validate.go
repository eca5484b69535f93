package config

import (
	"fmt"
	"net/url"

	"github.com/teranos/simwire/errors"
)

// Validate checks the configuration and returns every problem found, as
// human-readable messages. An empty slice means the configuration is usable.
// Returning the full list (rather than the first failure) lets an operator
// fix a config file in one pass.
func (c *Config) Validate() []string {
	var problems []string

	if c.Sink.Host == "" {
		problems = append(problems, "sink.host is not configured")
	}
	if c.Sink.Token == "" {
		problems = append(problems, "sink.token (device access token) is not configured")
	}
	if c.Sink.SendTimeoutSeconds <= 0 {
		problems = append(problems, fmt.Sprintf("sink.send_timeout_seconds must be positive, got %g", c.Sink.SendTimeoutSeconds))
	}

	if c.Bridge.MaxSendHz <= 0 {
		problems = append(problems, fmt.Sprintf("bridge.max_send_hz must be positive, got %g", c.Bridge.MaxSendHz))
	}
	if c.Bridge.PollIntervalSeconds <= 0 {
		problems = append(problems, fmt.Sprintf("bridge.poll_interval_seconds must be positive, got %g", c.Bridge.PollIntervalSeconds))
	}
	if len(c.Bridge.ExpectedFields) > 0 && c.Bridge.MinFieldMatches <= 0 {
		problems = append(problems, fmt.Sprintf("bridge.min_field_matches must be positive when bridge.expected_fields is set, got %d", c.Bridge.MinFieldMatches))
	}

	switch c.Source.Kind {
	case SourceKindFile:
		if c.Source.Path == "" {
			problems = append(problems, "source.path is required for the file source")
		}
	case SourceKindWebsocket:
		if c.Source.URL == "" {
			problems = append(problems, "source.url is required for the websocket source")
		} else if u, err := url.Parse(c.Source.URL); err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			problems = append(problems, fmt.Sprintf("source.url must be a ws:// or wss:// URL, got %q", c.Source.URL))
		}
	case SourceKindScripted:
		// No parameters; used for dry runs and tests.
	default:
		problems = append(problems, fmt.Sprintf("source.kind must be one of file, websocket, scripted; got %q", c.Source.Kind))
	}

	return problems
}

// ValidateErr is a convenience wrapper that collapses Validate() into a
// single ErrConfiguration for process-exit plumbing.
func (c *Config) ValidateErr() error {
	problems := c.Validate()
	if len(problems) == 0 {
		return nil
	}
	err := errors.ErrConfiguration
	for _, p := range problems {
		err = errors.WithDetail(err, p)
	}
	return err
}
