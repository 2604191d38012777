package response

// Response represents a standard API response format
type Response struct {
	Status     string                 `json:"status"`      // "success" or "error"
	StatusCode int                    `json:"status_code"` // HTTP status code
	Data       interface{}            `json:"data,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// SuccessWithMeta returns a success response carrying extra metadata next
// to the data payload (pagination totals, the caller's role, ...)
func SuccessWithMeta(statusCode int, data interface{}, meta map[string]interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
		Meta:       meta,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
