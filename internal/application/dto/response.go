package dto

import "time"

// ErrorResponse is the standard error envelope for API endpoints
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewErrorResponse creates an error envelope
func NewErrorResponse(message, errorDetail string) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Message: message,
		Error:   errorDetail,
	}
}

// TestResponse is the probe payload for GET /test
type TestResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTestResponse creates a probe payload with the current time
func NewTestResponse(message string) *TestResponse {
	return &TestResponse{
		Success:   true,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// HealthResponse reports overall service health
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
}

// NewHealthResponse creates a health payload with the current time
func NewHealthResponse(status string, services map[string]string) *HealthResponse {
	return &HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Services:  services,
	}
}
