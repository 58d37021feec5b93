package handler

// Response is the envelope every clinical-api endpoint replies with.
// Successful replies carry the payload in Data; binding failures carry a
// Message. Service-layer errors bypass this and go through the
// error-handling middleware instead.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse wraps a payload: patients, committed records,
// pending submissions, decision results.
func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

// NewErrorResponse reports a request rejected at the handler boundary,
// before any service call.
func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}
