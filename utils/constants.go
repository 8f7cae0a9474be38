package utils

import (
	"context"
	"time"
)

type contextKey string

// Request context keys
const (
	RequestIDKey contextKey = "request_id"
	EndpointKey  contextKey = "endpoint"
	IPAddressKey contextKey = "ip_address"
)

// Request handling constants
const (
	// RequestTimeout bounds the work a single API call may do
	RequestTimeout = 30 * time.Second

	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Routing hook constants
const (
	// VirtualExtension is where the PBX sends calls from flagged numbers
	VirtualExtension = "6000"
)

// RequestIDFromContext returns the request id stored by the HTTP layer, if any
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(RequestIDKey).(string); ok {
		return v
	}
	return ""
}
