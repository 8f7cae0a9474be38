// Package dto contains Data Transfer Objects for API request and response structures
package dto

import "time"

// SpamVerdictResponse is returned by /verificar-numero for a flagged number
type SpamVerdictResponse struct {
	Number       string    `json:"numero"`
	IsSpam       bool      `json:"es_spam"`
	Note         *string   `json:"nota"`
	AddedBy      string    `json:"quien_agrego"`
	RegisteredAt time.Time `json:"fecha_registro"`
}

// CleanVerdictResponse is returned by /verificar-numero for an unknown number
type CleanVerdictResponse struct {
	Number string `json:"numero"`
	IsSpam bool   `json:"es_spam"`
}

// RouteDecisionResponse is returned by /issabel-hook.
// TargetExtension is only present when the call is redirected.
type RouteDecisionResponse struct {
	Action          string  `json:"accion"`
	TargetExtension string  `json:"a_numero_virtual,omitempty"`
	Reason          *string `json:"motivo"`
}
