package extract

// FieldFilter drops records that do not look like device telemetry. A record
// passes when it carries at least MinMatches of the expected field names.
// The zero value (no expected fields) passes everything.
//
// The serial stream can carry JSON that is not telemetry — debug dumps,
// config echoes — and this keeps those out of the sink without touching the
// extractor's own accept/reject counters.
type FieldFilter struct {
	expected   map[string]struct{}
	minMatches int
}

// NewFieldFilter builds a filter from an expected field set. With an empty
// set the filter is a no-op regardless of minMatches.
func NewFieldFilter(fields []string, minMatches int) *FieldFilter {
	expected := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		expected[f] = struct{}{}
	}
	return &FieldFilter{expected: expected, minMatches: minMatches}
}

// Enabled reports whether the filter does anything.
func (f *FieldFilter) Enabled() bool {
	return len(f.expected) > 0
}

// Accept reports whether the record carries enough expected fields.
func (f *FieldFilter) Accept(r Record) bool {
	if !f.Enabled() {
		return true
	}
	matches := 0
	for key := range r {
		if _, ok := f.expected[key]; ok {
			matches++
			if matches >= f.minMatches {
				return true
			}
		}
	}
	return false
}
