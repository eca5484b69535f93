package source

import "context"

// ScriptedSource replays a fixed sequence of transcript snapshots. Used for
// tests and dry runs; it stands in for a live serial console without any
// upstream automation.
type ScriptedSource struct {
	snapshots []string
	index     int
}

// NewScripted builds a source that returns each snapshot once, in order,
// then keeps returning the final snapshot — matching a console that stopped
// producing output but is still visible.
func NewScripted(snapshots ...string) *ScriptedSource {
	return &ScriptedSource{snapshots: snapshots}
}

// Read returns the next scripted snapshot.
func (s *ScriptedSource) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.snapshots) == 0 {
		return "", nil
	}
	snapshot := s.snapshots[s.index]
	if s.index < len(s.snapshots)-1 {
		s.index++
	}
	return snapshot, nil
}

// Exhausted reports whether the final snapshot has been reached.
func (s *ScriptedSource) Exhausted() bool {
	return len(s.snapshots) == 0 || s.index == len(s.snapshots)-1
}

// Close is a no-op; scripted sources hold no resources.
func (s *ScriptedSource) Close() error {
	return nil
}
