// Package dto contains Data Transfer Objects for API request and response structures
package dto

import "github.com/amirphl/spam-guard/models"

// RecordCallEventRequest is the payload of POST /registrar-evento.
// Details must be a JSON object when present.
type RecordCallEventRequest struct {
	Number    string              `json:"numero" validate:"required"`
	EventType string              `json:"tipoevento" validate:"required,max=32"`
	Source    string              `json:"fuente" validate:"required,max=64"`
	Details   models.EventDetails `json:"detalles,omitempty"`
}
