package logger

// Standard field names for consistent structured logging across simwire.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldSessionID = "session_id"
	FieldComponent = "component"

	// Operations
	FieldOperation = "operation"
	FieldEndpoint  = "endpoint"
	FieldHost      = "host"

	// Timing
	FieldDurationMS = "duration_ms"
	FieldTick       = "tick"

	// Errors
	FieldError     = "error"
	FieldErrorType = "error_type"
	FieldStatus    = "status"

	// Counts and sizes
	FieldCount      = "count"
	FieldSize       = "size"
	FieldBufferSize = "buffer_size"

	// Stream processing
	FieldCandidate = "candidate"
	FieldRecord    = "record"
	FieldState     = "state"
)
