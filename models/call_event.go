// Package models contains domain entities for the spam caller registry
package models

import (
	"time"
)

// CallEvent is an append-only record of something that happened to a call.
// Number is not required to reference a SpamNumber.
// OccurredAt is stamped by the application, not by the database.
type CallEvent struct {
	ID         uint         `gorm:"primaryKey;column:id" json:"id"`
	Number     string       `gorm:"column:numero;size:32;index:idx_eventosspam_numero" json:"numero"`
	EventType  string       `gorm:"column:tipoevento;size:32" json:"tipoevento"`
	Source     string       `gorm:"column:fuente;size:64" json:"fuente"`
	Details    EventDetails `gorm:"column:detalles" json:"detalles"`
	OccurredAt time.Time    `gorm:"column:fechahora" json:"fechahora"`
}

func (CallEvent) TableName() string {
	return "eventosspam"
}

// CallEventFilter represents filter criteria for call event queries
type CallEventFilter struct {
	ID             *uint
	Number         *string
	EventType      *string
	Source         *string
	OccurredAfter  *time.Time
	OccurredBefore *time.Time
}
