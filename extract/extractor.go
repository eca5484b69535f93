// Package extract turns an unbounded, append-only text stream into a
// sequence of well-formed JSON telemetry records.
//
// Input arrives in arbitrary-sized chunks from a polled source. The
// extractor accumulates text in an internal buffer, scans for brace-delimited
// candidate spans, parses each as JSON, and keeps trailing partial input
// around until the rest of it arrives.
package extract

import (
	"encoding/json"
	"regexp"

	"go.uber.org/zap"

	"github.com/teranos/simwire/logger"
)

// candidatePattern matches the shortest brace-delimited span, newlines
// included. A "}" inside a string value ends the span early; the truncated
// candidate fails to parse and is counted as invalid. That is an accepted
// limitation of brace-pair matching without a tokenizer — device firmware
// emitting flat numeric telemetry never hits it.
var candidatePattern = regexp.MustCompile(`(?s)\{.*?\}`)

// Record is one parsed telemetry object: a non-empty key-unique mapping from
// field names to JSON values. Records are read-only after extraction.
type Record map[string]any

// Stats is a point-in-time snapshot of extractor counters.
type Stats struct {
	Received   int     `json:"received"`    // candidate spans evaluated
	Parsed     int     `json:"parsed"`      // accepted records
	Invalid    int     `json:"invalid"`     // rejected candidates
	ParseRate  float64 `json:"parse_rate"`  // parsed/received, percent
	BufferSize int     `json:"buffer_size"` // unconsumed characters
}

// Extractor accumulates serial text and extracts telemetry records from it.
// Not safe for concurrent use; the bridge runs a single sequential consumer.
type Extractor struct {
	buffer   string
	received int
	parsed   int
	invalid  int
	log      *zap.SugaredLogger
}

// New returns an empty extractor.
func New() *Extractor {
	return &Extractor{
		log: logger.ComponentLogger("extract"),
	}
}

// AddChunk appends text to the buffer and returns all telemetry records that
// are now complete, in stream order.
//
// The buffer is trimmed past the end of the last candidate span, accepted or
// not; text after it is retained for the next call so a JSON object split
// across chunks is assembled once its tail arrives. When no candidate is
// found the buffer is left untouched.
func (e *Extractor) AddChunk(text string) []Record {
	e.buffer += text

	matches := candidatePattern.FindAllStringIndex(e.buffer, -1)
	if matches == nil {
		return nil
	}

	var records []Record
	for _, m := range matches {
		candidate := e.buffer[m[0]:m[1]]
		e.received++

		record, ok := e.parseCandidate(candidate)
		if !ok {
			e.invalid++
			continue
		}
		e.parsed++
		records = append(records, record)
	}

	endOfLast := matches[len(matches)-1][1]
	e.buffer = e.buffer[endOfLast:]

	if len(records) > 0 {
		e.log.Debugw("extracted telemetry records",
			logger.FieldCount, len(records),
			logger.FieldBufferSize, len(e.buffer))
	}
	return records
}

// parseCandidate parses a candidate span, accepting only non-empty JSON
// objects.
func (e *Extractor) parseCandidate(candidate string) (Record, bool) {
	var record Record
	if err := json.Unmarshal([]byte(candidate), &record); err != nil {
		e.log.Debugw("rejected malformed candidate",
			logger.FieldCandidate, candidate,
			logger.FieldError, err)
		return nil, false
	}
	// json.Unmarshal into a map leaves it nil for the literal "null" and
	// empty for "{}"; both are rejected. Non-object JSON (arrays, scalars)
	// already failed above with a type error.
	if len(record) == 0 {
		e.log.Debugw("rejected empty object candidate",
			logger.FieldCandidate, candidate)
		return nil, false
	}
	return record, true
}

// Clear empties the buffer. Call when the upstream source signals a
// discontinuity (simulation restarted, console cleared): old partial content
// is unrelated to whatever arrives next.
func (e *Extractor) Clear() {
	if len(e.buffer) > 0 {
		e.log.Debugw("clearing buffer", logger.FieldBufferSize, len(e.buffer))
	}
	e.buffer = ""
}

// BufferSize returns the number of unconsumed characters.
func (e *Extractor) BufferSize() int {
	return len(e.buffer)
}

// Stats returns current counters without mutating state.
func (e *Extractor) Stats() Stats {
	rate := 0.0
	if e.received > 0 {
		rate = float64(e.parsed) / float64(e.received) * 100
	}
	return Stats{
		Received:   e.received,
		Parsed:     e.parsed,
		Invalid:    e.invalid,
		ParseRate:  rate,
		BufferSize: len(e.buffer),
	}
}

// Compact renders a record as compact single-line JSON for preview output.
// Key order follows encoding/json (sorted), which keeps previews stable.
func Compact(r Record) string {
	b, err := json.Marshal(r)
	if err != nil {
		// Records come from json.Unmarshal, so re-marshaling cannot fail.
		return "{}"
	}
	return string(b)
}
