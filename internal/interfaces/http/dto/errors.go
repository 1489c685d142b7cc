package dto

import "net/http"

// API error codes carried in Response.Error.Code
const (
	ErrCodeInternal      = "ERR_INTERNAL"
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeConflict      = "ERR_CONFLICT"
	ErrCodeInvalidState  = "ERR_INVALID_STATE"
	ErrCodeInvalidInput  = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON   = "ERR_INVALID_JSON"
	ErrCodeUnknownDomain = "ERR_UNKNOWN_SYNC_DOMAIN"
	ErrCodeUnavailable   = "ERR_SERVICE_UNAVAILABLE"
)

var statusByCode = map[string]int{
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeConflict:      http.StatusConflict,
	ErrCodeInvalidState:  http.StatusUnprocessableEntity,
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeInvalidJSON:   http.StatusBadRequest,
	ErrCodeUnknownDomain: http.StatusBadRequest,
	ErrCodeUnavailable:   http.StatusServiceUnavailable,
}

// apiCodeByDomainCode translates shared.DomainError codes. Sync-only codes
// that can still surface through the curation endpoints are folded into
// the closest API code.
var apiCodeByDomainCode = map[string]string{
	"NOT_FOUND":                   ErrCodeNotFound,
	"INVALID_INPUT":               ErrCodeInvalidInput,
	"INVALID_STATE":               ErrCodeInvalidState,
	"LOCAL_VARIATION_IMMUTABLE":   ErrCodeInvalidState,
	"CUSTOMER_REMOTE_ID_CONFLICT": ErrCodeConflict,
	"ATTRIBUTE_DUPLICATE":         ErrCodeConflict,
}

// StatusFor returns the HTTP status of an API error code, 500 when unknown
func StatusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// APICode translates a domain error code. Unknown codes become ErrCodeInternal
// so that internal names never leak into responses.
func APICode(domainCode string) string {
	if code, ok := apiCodeByDomainCode[domainCode]; ok {
		return code
	}
	return ErrCodeInternal
}
