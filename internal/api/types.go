package api

// Common API types and enums

// APIError represents RESTful error response structure
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Common error codes
const (
	ErrorCodeInvalidRequest  = "INVALID_REQUEST"
	ErrorCodeUnknownUser     = "UNKNOWN_USER"
	ErrorCodeMalformedData   = "MALFORMED_CONTRACT_DATA"
	ErrorCodeContractError   = "CONTRACT_ERROR"
	ErrorCodeTransferFailed  = "TRANSFER_FAILED"
	ErrorCodeNotFound        = "NOT_FOUND"
	ErrorCodeRateUnavailable = "RATE_UNAVAILABLE"
)
