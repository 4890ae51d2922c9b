package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeInternal       ErrorCode = "COMMON_001"
	ErrCodeBadRequest     ErrorCode = "COMMON_002"
	ErrCodeNotFound       ErrorCode = "COMMON_003"
	ErrCodeValidation     ErrorCode = "COMMON_004"
	ErrCodeDatabase       ErrorCode = "COMMON_005"
	ErrCodeNotImplemented ErrorCode = "COMMON_006"
)

// Compound module error codes
const (
	// ErrCodeInvalidStructure: the descriptor provider cannot interpret a
	// compound's notation.  Recovered locally by the batch pipeline.
	ErrCodeInvalidStructure ErrorCode = "CMP_001"
	// ErrCodeDescriptorUndefined: a descriptor is inherently undefined for
	// the compound (e.g. CSP3 with no carbons) and was requested directly.
	ErrCodeDescriptorUndefined ErrorCode = "CMP_002"
)

// Rule module error codes
const (
	// ErrCodeConfiguration: a malformed rule definition or application
	// configuration.  Fatal before any record is processed.
	ErrCodeConfiguration     ErrorCode = "RUL_001"
	ErrCodeUnknownRule       ErrorCode = "RUL_002"
	ErrCodeUnknownDescriptor ErrorCode = "RUL_003"
)

// Report module error codes
const (
	// ErrCodeReportSink: an I/O failure on the output sink.  Fatal and
	// surfaced immediately; completed blocks are not rolled back.
	ErrCodeReportSink   ErrorCode = "RPT_001"
	ErrCodeReportParse  ErrorCode = "RPT_002"
	ErrCodeStoreFailure ErrorCode = "RPT_003"
)

// Short aliases used at call sites.
const (
	CodeOK               = ErrorCode("OK")
	CodeUnknown          = ErrorCode("UNKNOWN")
	CodeInternal         = ErrCodeInternal
	CodeInvalidParam     = ErrCodeBadRequest
	CodeNotFound         = ErrCodeNotFound
	CodeInvalidStructure = ErrCodeInvalidStructure
	CodeConfiguration    = ErrCodeConfiguration
	CodeReportSink       = ErrCodeReportSink
	CodeReportParse      = ErrCodeReportParse
	CodeStoreFailure     = ErrCodeStoreFailure
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes for the
// evaluation API surface.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:            http.StatusInternalServerError,
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeValidation:          http.StatusUnprocessableEntity,
	ErrCodeDatabase:            http.StatusInternalServerError,
	ErrCodeNotImplemented:      http.StatusNotImplemented,
	ErrCodeInvalidStructure:    http.StatusBadRequest,
	ErrCodeDescriptorUndefined: http.StatusUnprocessableEntity,
	ErrCodeConfiguration:       http.StatusInternalServerError,
	ErrCodeUnknownRule:         http.StatusBadRequest,
	ErrCodeUnknownDescriptor:   http.StatusInternalServerError,
	ErrCodeReportSink:          http.StatusInternalServerError,
	ErrCodeReportParse:         http.StatusBadRequest,
	ErrCodeStoreFailure:        http.StatusInternalServerError,
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError returns true if the ErrorCode maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
