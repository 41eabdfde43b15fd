package errors

import (
	"encoding/json"
)

// ErrorResponse represents the JSON structure of an error.
// It provides a flat, serializable representation of errors without exposing
// internal error chains.
type ErrorResponse struct {
	// Kind is the failure source.
	Kind string `json:"kind"`

	// Code is the error code identifying the category of error.
	Code string `json:"code"`

	// Errno is the native error number. Omitted for non-native errors.
	Errno int `json:"errno,omitempty"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Classification indicates whether the error is retryable or permanent.
	Classification string `json:"classification"`

	// Context contains optional metadata about the error.
	Context map[string]interface{} `json:"context,omitempty"`
}

// ToJSON converts any error to an ErrorResponse suitable for JSON serialization.
// Returns nil if err is nil.
//
// For Error instances, extracts kind, code, errno, message, classification and
// context. For other errors, uses KindMessage, CodeUnknown, ClassificationPermanent
// and the error message.
//
// The wrapped error chain is intentionally excluded.
func ToJSON(err error) *ErrorResponse {
	if err == nil {
		return nil
	}

	response := &ErrorResponse{
		Kind:           string(GetKind(err)),
		Code:           string(GetCode(err)),
		Errno:          int(GetErrno(err)),
		Message:        err.Error(),
		Classification: string(GetClassification(err)),
	}

	var gerr Error
	if As(err, &gerr) {
		response.Message = gerr.Message()
		response.Context = gerr.Context()
	}

	return response
}

// MarshalJSON implements json.Marshaler so Error values can be passed to
// json.Marshal directly.
//
// Example:
//
//	err := errors.Native(syscall.ENOENT, "No such file or directory")
//	data, _ := json.Marshal(err)
//	// {"kind":"NATIVE","code":"NOT_FOUND","errno":2,"message":"No such file or directory","classification":"PERMANENT"}
func (e *glusterError) MarshalJSON() ([]byte, error) {
	response := &ErrorResponse{
		Kind:           string(e.kind),
		Code:           string(e.code),
		Errno:          int(e.errno),
		Message:        e.message,
		Classification: string(e.classification),
		Context:        e.context,
	}
	data, err := json.Marshal(response)
	if err != nil {
		return nil, &glusterError{
			kind:           KindMessage,
			code:           CodeInternal,
			classification: ClassificationPermanent,
			message:        "failed to marshal error response",
			cause:          err,
		}
	}
	return data, nil
}
