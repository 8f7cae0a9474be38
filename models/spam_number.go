// Package models contains domain entities for the spam caller registry
package models

import (
	"time"
)

// DefaultAddedBy is the provenance tag used when the caller does not say who flagged a number
const DefaultAddedBy = "sistema"

// MaxNumberLength is the width of the numero columns, counted in characters
const MaxNumberLength = 32

// SpamNumber represents a phone number flagged as a known spam caller
// Table: numerosspam
// Unique by Number; the existence of a row is what makes a number spam
// RegisteredAt is filled by the database clock on insert and never updated
type SpamNumber struct {
	ID           uint      `gorm:"primaryKey;column:id" json:"id"`
	Number       string    `gorm:"column:numero;size:32;not null;uniqueIndex:uk_numerosspam_numero" json:"numero"`
	AddedBy      string    `gorm:"column:quienagrego;size:100" json:"quienagrego"`
	RegisteredAt time.Time `gorm:"column:fecharegistro;default:CURRENT_TIMESTAMP" json:"fecharegistro"`
	Note         *string   `gorm:"column:nota;type:text" json:"nota"`
}

func (SpamNumber) TableName() string {
	return "numerosspam"
}

// SpamNumberFilter represents filter criteria for spam number queries
type SpamNumberFilter struct {
	ID               *uint
	Number           *string
	AddedBy          *string
	RegisteredAfter  *time.Time
	RegisteredBefore *time.Time
}
