package dto

import "time"

// APIResponse is the standard response envelope.
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewAPIResponse wraps data in the standard envelope.
func NewAPIResponse(data interface{}) APIResponse {
	return APIResponse{
		Data:      data,
		Timestamp: time.Now(),
	}
}

// SuccessResponse represents a plain message response.
type SuccessResponse struct {
	Message string `json:"message"`
}
