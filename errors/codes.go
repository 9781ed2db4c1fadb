package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Setup errors, raised synchronously before any request is sent.
const (
	// ErrCodeConfiguration indicates a bad or missing configuration field or auth strategy.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeValidation indicates a bad argument to a factory or accessor.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
)

// Field-level errors, used in Details of setup errors.
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Request errors
const (
	// ErrCodeTransport indicates the transport failed or the server replied with a non-2xx status.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:   true,
	ErrCodeTransport: false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Nothing in this module retries; the flag is informational for callers.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
