package errors

// ErrorCode is a machine-readable error classification carried in API
// responses alongside the HTTP status
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1003
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1004
	ErrorCode_CONFLICT         ErrorCode = 1005

	// Acquisition
	ErrorCode_ACQUISITION_FAILED   ErrorCode = 2000
	ErrorCode_NO_TRANSCRIPT        ErrorCode = 2001
	ErrorCode_JOB_NOT_FOUND        ErrorCode = 2002
	ErrorCode_SESSION_BUSY         ErrorCode = 2003
	ErrorCode_SEARCH_FAILED        ErrorCode = 2004
	ErrorCode_CAPTIONS_UNAVAILABLE ErrorCode = 2005

	// Model
	ErrorCode_MODEL_CALL_FAILED ErrorCode = 3000
	ErrorCode_INSIGHTS_FAILED   ErrorCode = 3001

	// Outbound integrations
	ErrorCode_TRACKER_UPLOAD_FAILED ErrorCode = 4000
	ErrorCode_STORAGE_FAILED        ErrorCode = 4001
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:               "OK",
	ErrorCode_INTERNAL:              "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:      "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:             "NOT_FOUND",
	ErrorCode_UNAUTHENTICATED:       "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:       "INVALID_PAYLOAD",
	ErrorCode_CONFLICT:              "CONFLICT",
	ErrorCode_ACQUISITION_FAILED:    "ACQUISITION_FAILED",
	ErrorCode_NO_TRANSCRIPT:         "NO_TRANSCRIPT",
	ErrorCode_JOB_NOT_FOUND:         "JOB_NOT_FOUND",
	ErrorCode_SESSION_BUSY:          "SESSION_BUSY",
	ErrorCode_SEARCH_FAILED:         "SEARCH_FAILED",
	ErrorCode_CAPTIONS_UNAVAILABLE:  "CAPTIONS_UNAVAILABLE",
	ErrorCode_MODEL_CALL_FAILED:     "MODEL_CALL_FAILED",
	ErrorCode_INSIGHTS_FAILED:       "INSIGHTS_FAILED",
	ErrorCode_TRACKER_UPLOAD_FAILED: "TRACKER_UPLOAD_FAILED",
	ErrorCode_STORAGE_FAILED:        "STORAGE_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
