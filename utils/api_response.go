package utils

// ApiResponse is the uniform success envelope: {message, success, data?}.
type ApiResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
}

func NewApiResponse(data any, message string) ApiResponse {
	return ApiResponse{
		Message: message,
		Success: true,
		Data:    data,
	}
}
