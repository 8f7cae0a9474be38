// Package dto contains Data Transfer Objects for API request and response structures
package dto

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Detail string   `json:"detail"`
	Code   string   `json:"code"`
	Errors []string `json:"errors,omitempty"`
}

// MessageResponse is a bare confirmation
type MessageResponse struct {
	Message string `json:"mensaje"`
}

// HealthResponse is returned by the liveness probe
type HealthResponse struct {
	Status string `json:"status"`
}

// NumberQuery carries the number passed as ?numero= on read and delete endpoints
type NumberQuery struct {
	Number string `query:"numero" validate:"required"`
}
