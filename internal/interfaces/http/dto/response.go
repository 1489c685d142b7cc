package dto

// Response is the envelope of every JSON response. Failed requests carry
// the request ID so clients can quote it when reporting a problem.
type Response struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorInfo `json:"error,omitempty"`
	RequestID string     `json:"request_id,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Error:     &ErrorInfo{Code: code, Message: message},
		RequestID: requestID,
	}
}

// TriggerResponse acknowledges a fire-and-forget sync trigger
type TriggerResponse struct {
	Domains []string `json:"domains"`
	Message string   `json:"message"`
}
