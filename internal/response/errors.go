package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation      ErrCode = "VALIDATION_ERROR"
	ErrInvalidID       ErrCode = "INVALID_ID"
	ErrInvalidPayload  ErrCode = "INVALID_PAYLOAD"
	ErrMissingIdentity ErrCode = "MISSING_IDENTITY"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound  ErrCode = "NOT_FOUND"
	ErrDuplicate ErrCode = "DUPLICATE"

	// ─── Grid editing ──────────────────────────────────────────────────
	ErrBatchLimit   ErrCode = "BATCH_LIMIT_REACHED"
	ErrBatchRange   ErrCode = "BATCH_OUT_OF_RANGE"
	ErrUnknownField ErrCode = "UNKNOWN_FIELD"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrMissingIdentity:
		return "A timetable requires class, branch, and semester."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrDuplicate:
		return "Resource already exists."

	// ─── Grid editing ──────────────────────────────────────────────────
	case ErrBatchLimit:
		return "This cell cannot be split any further."
	case ErrBatchRange:
		return "Batch index is outside the cell's current split."
	case ErrUnknownField:
		return "Unknown assignment field."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
