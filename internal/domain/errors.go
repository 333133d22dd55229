package domain

// ErrorCode is the machine-readable code carried in error envelopes
type ErrorCode string

const (
	CodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeConflict        ErrorCode = "CONFLICT"
	CodeRateLimited     ErrorCode = "RATE_LIMITED"
	CodeInternal        ErrorCode = "INTERNAL_SERVER_ERROR"
)

// HTTPStatus maps a code to its response status
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeUnauthorized:
		return 401
	case CodeForbidden:
		return 403
	case CodeValidationError:
		return 400
	case CodeNotFound:
		return 404
	case CodeConflict:
		return 409
	case CodeRateLimited:
		return 429
	default:
		return 500
	}
}

// APIError carries a message and code through the service layer up to the
// handlers, which render it as {"success":false,"error":...,"code":...}.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"error"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError builds an APIError with the given code and message
func NewAPIError(code ErrorCode, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

// ErrorEnvelope is the uniform error response body
type ErrorEnvelope struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Code    ErrorCode         `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// SuccessEnvelope is the uniform success response body
type SuccessEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ValidationMessages provides human-readable validation error messages
// These map validator tags to user-friendly messages
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"email":    "Must be a valid email address",
	"max":      "Exceeds maximum length",
	"min":      "Below minimum length",
	"gte":      "Must be greater than or equal to minimum value",
	"gt":       "Must be greater than minimum value",
	"lte":      "Must be less than or equal to maximum value",
	"lt":       "Must be less than maximum value",
	"uuid":     "Must be a valid UUID",
	"oneof":    "Must be one of the allowed values",
	"numeric":  "Must be a numeric value",
	"len":      "Must be exactly the specified length",
	"datetime": "Must be a valid date",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}
