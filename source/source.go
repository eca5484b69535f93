// Package source provides upstream text producers for the bridge.
//
// A TextSource exposes the full currently-visible serial transcript, the way
// a serial-console widget does: every read returns everything, not a delta.
// DeltaTracker turns successive full reads into new-suffix deltas and
// detects discontinuities (the transcript got shorter, meaning the device
// restarted or the console was cleared).
package source

import "context"

// TextSource is a producer of serial-console text.
type TextSource interface {
	// Read returns the full currently-visible text. Called once per poll
	// tick. An error marks the tick as failed; the bridge logs it and
	// keeps polling.
	Read(ctx context.Context) (string, error)

	// Close releases the producer's resources.
	Close() error
}

// DeltaTracker computes the newly-appended suffix between successive full
// reads via total-length tracking.
type DeltaTracker struct {
	lastLength int
}

// Feed consumes a full snapshot and returns the text appended since the
// previous call. reset is true when the snapshot is shorter than the last
// one: the stream restarted and the whole snapshot is fresh content. The
// caller must clear any partial extraction state before feeding a reset
// delta.
func (d *DeltaTracker) Feed(full string) (delta string, reset bool) {
	if len(full) < d.lastLength {
		d.lastLength = len(full)
		return full, true
	}
	delta = full[d.lastLength:]
	d.lastLength = len(full)
	return delta, false
}

// Reset forgets the tracked length.
func (d *DeltaTracker) Reset() {
	d.lastLength = 0
}
