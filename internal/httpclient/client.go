// Package httpclient provides the outbound HTTP client used by the telemetry
// sink, with URL guarding against accidental requests to unintended targets
// (wrong scheme, localhost, private ranges) when the sink is a cloud host.
package httpclient

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/teranos/simwire/errors"
)

// Client wraps http.Client with outbound URL validation.
type Client struct {
	*http.Client
	allowedSchemes []string
	blockPrivate   bool
	maxRedirects   int
}

// Options customizes URL guarding.
type Options struct {
	// AllowedSchemes defaults to ["http", "https"].
	AllowedSchemes []string

	// AllowPrivateHosts permits localhost and RFC 1918 targets. Enable for
	// self-hosted sinks on a LAN; cloud setups should leave it off.
	AllowPrivateHosts bool

	// MaxRedirects defaults to 10.
	MaxRedirects int
}

// New builds a guarded client with the given per-request timeout.
func New(timeout time.Duration, opts Options) *Client {
	schemes := opts.AllowedSchemes
	if schemes == nil {
		schemes = []string{"http", "https"}
	}
	maxRedirects := opts.MaxRedirects
	if maxRedirects == 0 {
		maxRedirects = 10
	}

	c := &Client{
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:          10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		allowedSchemes: schemes,
		blockPrivate:   !opts.AllowPrivateHosts,
		maxRedirects:   maxRedirects,
	}

	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= c.maxRedirects {
			return errors.Newf("stopped after %d redirects", c.maxRedirects)
		}
		if err := c.validateURL(req.URL); err != nil {
			return errors.Wrap(err, "redirect blocked")
		}
		return nil
	}

	return c
}

// Do executes a request after validating its URL.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.validateURL(req.URL); err != nil {
		return nil, errors.Wrap(err, "request blocked")
	}
	return c.Client.Do(req)
}

// ValidateURL parses and validates a URL string before a request is built.
func (c *Client) ValidateURL(urlStr string) (*url.URL, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return nil, errors.Wrap(err, "invalid URL")
	}
	if err := c.validateURL(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *Client) validateURL(u *url.URL) error {
	scheme := strings.ToLower(u.Scheme)
	allowed := false
	for _, s := range c.allowedSchemes {
		if scheme == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return errors.Newf("scheme %q not allowed (allowed: %v)", scheme, c.allowedSchemes)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return errors.New("URL missing hostname")
	}

	if c.blockPrivate {
		if isLocalhost(hostname) {
			return errors.New("localhost target blocked (set sink.allow_private_hosts for local sinks)")
		}
		if ip := net.ParseIP(hostname); ip != nil && isPrivateIP(ip) {
			return errors.Newf("private address target blocked: %s", hostname)
		}
	}

	return nil
}

func isLocalhost(hostname string) bool {
	hostname = strings.ToLower(hostname)
	return hostname == "localhost" ||
		hostname == "localhost.localdomain" ||
		strings.HasSuffix(hostname, ".localhost")
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}

// WrapClient wraps an existing http.Client without URL guarding. Intended for
// tests that target httptest servers on localhost.
func WrapClient(client *http.Client) *Client {
	return &Client{
		Client:         client,
		allowedSchemes: []string{"http", "https"},
		blockPrivate:   false,
		maxRedirects:   10,
	}
}
