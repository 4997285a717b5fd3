package errors

// ErrorCode classifies an error for transport mapping and metrics. The
// prefix identifies the owning subsystem.
type ErrorCode string

const (
	// Common codes.
	ErrCodeUnknown            ErrorCode = "COMMON_UNKNOWN"
	ErrCodeInternal           ErrorCode = "COMMON_INTERNAL"
	ErrCodeValidation         ErrorCode = "COMMON_VALIDATION"
	ErrCodeInvalidInput       ErrorCode = "COMMON_INVALID_INPUT"
	ErrCodeNotFound           ErrorCode = "COMMON_NOT_FOUND"
	ErrCodeConflict           ErrorCode = "COMMON_CONFLICT"
	ErrCodeTimeout            ErrorCode = "COMMON_TIMEOUT"
	ErrCodeSerialization      ErrorCode = "COMMON_SERIALIZATION"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_SERVICE_UNAVAILABLE"

	// Analysis engine codes.
	ErrCodeDetectionFailed  ErrorCode = "JUR_DETECTION_FAILED"
	ErrCodeParseFailed      ErrorCode = "LEX_PARSE_FAILED"
	ErrCodeIndiaAnalysis    ErrorCode = "IND_ANALYSIS_FAILED"
	ErrCodeUSAnalysis       ErrorCode = "US_ANALYSIS_FAILED"
	ErrCodeComparative      ErrorCode = "CMP_ANALYSIS_FAILED"
	ErrCodeAnalysisNotFound ErrorCode = "ANA_NOT_FOUND"
	ErrCodeAnalysisPending  ErrorCode = "ANA_PENDING"

	// Document codes.
	ErrCodeDocumentNotFound ErrorCode = "DOC_NOT_FOUND"
	ErrCodeDocumentTooLarge ErrorCode = "DOC_TOO_LARGE"
	ErrCodeDocumentEmpty    ErrorCode = "DOC_EMPTY"

	// Infrastructure codes.
	ErrCodeDatabaseError ErrorCode = "INFRA_DATABASE"
	ErrCodeCacheError    ErrorCode = "INFRA_CACHE"
	ErrCodeStorageError  ErrorCode = "INFRA_STORAGE"
	ErrCodeSearchError   ErrorCode = "INFRA_SEARCH"
	ErrCodeMessagingError ErrorCode = "INFRA_MESSAGING"

	// LLM advisory codes.
	ErrCodeLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
	ErrCodeLLMResponse    ErrorCode = "LLM_BAD_RESPONSE"
)

// httpStatusByCode maps error codes to transport status. Codes not
// listed map to 500.
var httpStatusByCode = map[ErrorCode]int{
	ErrCodeValidation:         400,
	ErrCodeInvalidInput:       400,
	ErrCodeDocumentEmpty:      400,
	ErrCodeDocumentTooLarge:   413,
	ErrCodeNotFound:           404,
	ErrCodeAnalysisNotFound:   404,
	ErrCodeDocumentNotFound:   404,
	ErrCodeConflict:           409,
	ErrCodeAnalysisPending:    409,
	ErrCodeTimeout:            504,
	ErrCodeServiceUnavailable: 503,
	ErrCodeLLMUnavailable:     503,
}

// HTTPStatus returns the transport status for a code.
func HTTPStatus(code ErrorCode) int {
	if status, ok := httpStatusByCode[code]; ok {
		return status
	}
	return 500
}
