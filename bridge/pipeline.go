// Package bridge composes the simwire delivery pipeline: poll the text
// source, extract telemetry records, throttle, and deliver to the sink.
//
// The pipeline is single-threaded and cooperative. One execution context
// runs poll → extract → throttle → send sequentially; the throttle's
// blocking wait is the back-pressure mechanism, and a slow sink simply lets
// the extractor's buffer accumulate more input until the next tick.
package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/teranos/simwire/config"
	"github.com/teranos/simwire/errors"
	"github.com/teranos/simwire/extract"
	"github.com/teranos/simwire/logger"
	"github.com/teranos/simwire/sink"
	"github.com/teranos/simwire/source"
	"github.com/teranos/simwire/throttle"
)

// State is the pipeline lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateStreaming State = "streaming"
	StateStopped   State = "stopped"
	StateFailed    State = "failed"
)

// Pipeline drives the bridge loop. Owned and run by a single goroutine.
type Pipeline struct {
	cfg       *config.Config
	source    source.TextSource
	extractor *extract.Extractor
	limiter   *throttle.Limiter
	client    *sink.Client
	filter    *extract.FieldFilter
	tracker   source.DeltaTracker
	log       *zap.SugaredLogger

	sessionID string
	state     State
	processed int // send attempts, success or not
	delivered int
	skipped   int // records dropped by the field filter
	ticks     int
	tickErrs  int
	startTime time.Time
}

// New assembles a pipeline from its components. The configuration must
// already be validated.
func New(cfg *config.Config, src source.TextSource, extractor *extract.Extractor, limiter *throttle.Limiter, client *sink.Client) *Pipeline {
	sessionID := uuid.NewString()
	return &Pipeline{
		cfg:       cfg,
		source:    src,
		extractor: extractor,
		limiter:   limiter,
		client:    client,
		filter:    extract.NewFieldFilter(cfg.Bridge.ExpectedFields, cfg.Bridge.MinFieldMatches),
		log:       logger.ComponentLogger("bridge").With(logger.FieldSessionID, sessionID),
		sessionID: sessionID,
		state:     StateIdle,
	}
}

// Run verifies sink connectivity, then streams until ctx is cancelled.
// Returns an error only for startup failures; cancellation is a clean stop.
func (p *Pipeline) Run(ctx context.Context) error {
	if !p.client.VerifyConnectivity(ctx) {
		p.state = StateFailed
		return errors.Wrapf(errors.ErrConnectivity, "sink %s unreachable", p.client.Endpoint())
	}

	p.state = StateStreaming
	p.startTime = time.Now()
	p.log.Infow("bridge streaming",
		logger.FieldState, string(p.state),
		"poll_interval", p.cfg.PollInterval(),
		"max_send_hz", p.limiter.MaxHz())

	ticker := time.NewTicker(p.cfg.PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.stop()
			return nil
		case <-ticker.C:
			p.ticks++
			p.safeTick(ctx)
		}
	}
}

// safeTick runs one tick with fault isolation: a panic or error in a single
// tick is logged and the loop continues. Nothing inside the streaming loop
// is allowed to terminate the process.
func (p *Pipeline) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.tickErrs++
			p.log.Errorw("panic during tick",
				logger.FieldTick, p.ticks,
				logger.FieldError, fmt.Sprint(r))
		}
	}()

	if err := p.tick(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.tickErrs++
		p.log.Warnw("tick failed",
			logger.FieldTick, p.ticks,
			logger.FieldError, err)
	}
}

func (p *Pipeline) tick(ctx context.Context) error {
	full, err := p.source.Read(ctx)
	if err != nil {
		return errors.Wrap(err, "source read failed")
	}

	delta, reset := p.tracker.Feed(full)
	if reset {
		// The transcript got shorter: the simulation restarted or the
		// console was cleared. Old partial content is meaningless now.
		p.log.Infow("stream discontinuity detected, clearing extractor buffer",
			logger.FieldBufferSize, p.extractor.BufferSize())
		p.extractor.Clear()
	}
	if delta == "" {
		return nil
	}

	for _, record := range p.extractor.AddChunk(delta) {
		if !p.filter.Accept(record) {
			p.skipped++
			p.log.Debugw("record dropped by field filter",
				logger.FieldRecord, extract.Compact(record))
			continue
		}

		if err := p.limiter.Throttle(ctx); err != nil {
			// Cancelled mid-wait: shutdown is underway, drop the rest
			// of this tick's records.
			return err
		}

		if p.cfg.Bridge.PrintPreview {
			pterm.Printf("[%s] sending: %s\n",
				time.Now().Format("15:04:05"), extract.Compact(record))
		}

		p.processed++
		if p.client.Send(ctx, record) {
			p.delivered++
			p.log.Debugw("record delivered", logger.FieldCount, p.delivered)
		} else {
			p.log.Warnw("record delivery failed",
				logger.FieldErrorType, string(p.client.LastFailure().Kind))
		}
	}
	return nil
}

func (p *Pipeline) stop() {
	p.state = StateStopped
	p.log.Infow("bridge stopping", logger.FieldState, string(p.state))

	p.printFinalStats()

	if err := p.source.Close(); err != nil {
		p.log.Warnw("source close failed", logger.FieldError, err)
	}
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return p.state
}

// Processed returns the number of send attempts, successful or not.
func (p *Pipeline) Processed() int {
	return p.processed
}

// Delivered returns the number of successful sends.
func (p *Pipeline) Delivered() int {
	return p.delivered
}

// Skipped returns the number of records dropped by the field filter.
func (p *Pipeline) Skipped() int {
	return p.skipped
}

// SessionID identifies this bridge run in logs and statistics.
func (p *Pipeline) SessionID() string {
	return p.sessionID
}
