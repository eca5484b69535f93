// Package sink delivers telemetry records to the ingestion endpoint of an
// IoT platform speaking the device HTTP API:
//
//	POST {scheme}://{host}/api/v1/{token}/telemetry
//
// One record per request, JSON body, any 2xx status counts as delivered.
// There is no retry and no batching; the delivery pipeline decides what to
// do with failures.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/simwire/config"
	"github.com/teranos/simwire/errors"
	"github.com/teranos/simwire/extract"
	"github.com/teranos/simwire/internal/httpclient"
	"github.com/teranos/simwire/logger"
)

// maxBodyDiagnostic bounds how much of an error response body is kept.
const maxBodyDiagnostic = 200

// FailureKind classifies why a send failed.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureTimeout    FailureKind = "timeout"
	FailureConnection FailureKind = "connection"
	FailureRejected   FailureKind = "rejected"
	FailureUnknown    FailureKind = "unknown"
)

// Failure describes the most recent send failure.
type Failure struct {
	Kind   FailureKind
	Status int    // HTTP status for FailureRejected, zero otherwise
	Detail string // truncated response body or error text
}

// Stats is a point-in-time snapshot of client counters.
type Stats struct {
	Sent        int       `json:"sent"`
	Failed      int       `json:"failed"`
	SuccessRate float64   `json:"success_rate"` // percent, 0 when nothing attempted
	LastSend    time.Time `json:"last_send"`    // zero value when never sent
}

// Client sends telemetry records to the sink endpoint. Not safe for
// concurrent use; the bridge runs a single sequential consumer.
type Client struct {
	host         string
	telemetryURL string
	http         *httpclient.Client
	log          *zap.SugaredLogger

	sent        int
	failed      int
	lastSend    time.Time
	lastFailure Failure
}

// New builds a client from sink configuration.
func New(cfg config.SinkConfig) *Client {
	scheme := "http"
	if cfg.UseTLS {
		scheme = "https"
	}
	timeout := time.Duration(cfg.SendTimeoutSeconds * float64(time.Second))

	c := &Client{
		host:         cfg.Host,
		telemetryURL: fmt.Sprintf("%s://%s/api/v1/%s/telemetry", scheme, cfg.Host, cfg.Token),
		http: httpclient.New(timeout, httpclient.Options{
			AllowPrivateHosts: cfg.AllowPrivateHosts,
		}),
		log: logger.ComponentLogger("sink"),
	}
	c.log.Infow("telemetry sink client initialized",
		logger.FieldHost, cfg.Host,
		"scheme", scheme,
		"timeout", timeout)
	return c
}

// NewWithHTTPClient builds a client posting to an explicit endpoint URL with
// a caller-provided HTTP client. Used by tests against httptest servers.
func NewWithHTTPClient(endpoint string, hc *http.Client) *Client {
	return &Client{
		telemetryURL: endpoint,
		http:         httpclient.WrapClient(hc),
		log:          logger.ComponentLogger("sink"),
	}
}

// Send delivers one record. Returns true on any 2xx response. All failure
// modes resolve to false plus a logged classification; Send never panics and
// never propagates an error past this boundary.
func (c *Client) Send(ctx context.Context, record extract.Record) bool {
	body, err := json.Marshal(record)
	if err != nil {
		// Records come from the extractor's json.Unmarshal, so this is
		// effectively unreachable; classify as unknown rather than panic.
		c.recordFailure(Failure{Kind: FailureUnknown, Detail: err.Error()})
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.telemetryURL, bytes.NewReader(body))
	if err != nil {
		c.recordFailure(Failure{Kind: FailureUnknown, Detail: err.Error()})
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.recordFailure(classifyError(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.sent++
		c.lastSend = time.Now()
		c.log.Debugw("telemetry sent",
			logger.FieldStatus, resp.StatusCode,
			logger.FieldCount, c.sent)
		return true
	}

	c.recordFailure(Failure{
		Kind:   FailureRejected,
		Status: resp.StatusCode,
		Detail: readDiagnostic(resp.Body),
	})
	return false
}

// VerifyConnectivity sends a minimal sentinel record and reports whether it
// succeeded. Used once at startup to fail fast before expensive upstream
// setup.
func (c *Client) VerifyConnectivity(ctx context.Context) bool {
	c.log.Info("verifying sink connectivity")
	ok := c.Send(ctx, extract.Record{"test": "connection"})
	if ok {
		c.log.Info("sink connectivity verified")
	} else {
		c.log.Errorw("sink connectivity check failed",
			logger.FieldErrorType, string(c.lastFailure.Kind),
			logger.FieldStatus, c.lastFailure.Status,
			logger.FieldError, c.lastFailure.Detail)
	}
	return ok
}

// LastFailure returns details of the most recent failed send.
func (c *Client) LastFailure() Failure {
	return c.lastFailure
}

// Endpoint returns the derived telemetry submission URL.
func (c *Client) Endpoint() string {
	return c.telemetryURL
}

// Stats returns current counters without mutating state.
func (c *Client) Stats() Stats {
	rate := 0.0
	if total := c.sent + c.failed; total > 0 {
		rate = float64(c.sent) / float64(total) * 100
	}
	return Stats{
		Sent:        c.sent,
		Failed:      c.failed,
		SuccessRate: rate,
		LastSend:    c.lastSend,
	}
}

func (c *Client) recordFailure(f Failure) {
	c.failed++
	c.lastFailure = f
	c.log.Errorw("telemetry send failed",
		logger.FieldErrorType, string(f.Kind),
		logger.FieldStatus, f.Status,
		logger.FieldError, f.Detail)
}

// classifyError maps a transport error to a failure classification.
func classifyError(err error) Failure {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return Failure{Kind: FailureTimeout, Detail: urlErr.Error()}
		}
		err = urlErr.Err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Failure{Kind: FailureTimeout, Detail: err.Error()}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Failure{Kind: FailureTimeout, Detail: netErr.Error()}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return Failure{Kind: FailureConnection, Detail: opErr.Error()}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return Failure{Kind: FailureConnection, Detail: dnsErr.Error()}
	}

	return Failure{Kind: FailureUnknown, Detail: err.Error()}
}

// readDiagnostic captures a compact, single-line slice of an error response
// body.
func readDiagnostic(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	flat := strings.Join(strings.Fields(string(raw)), " ")
	if len(flat) > maxBodyDiagnostic {
		flat = flat[:maxBodyDiagnostic]
	}
	return flat
}
