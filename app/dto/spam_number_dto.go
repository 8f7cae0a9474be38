// Package dto contains Data Transfer Objects for API request and response structures
package dto

import "time"

// RegisterSpamNumberRequest is the payload of POST /agregar-numero.
// AddedBy falls back to "sistema" when omitted.
type RegisterSpamNumberRequest struct {
	Number  string  `json:"numero" validate:"required"`
	Note    *string `json:"nota,omitempty" validate:"omitempty"`
	AddedBy *string `json:"quienagrego,omitempty" validate:"omitempty,max=100"`
}

// RegisterSpamNumberResponse confirms a registration
type RegisterSpamNumberResponse struct {
	Message string `json:"mensaje"`
	ID      uint   `json:"id"`
}

// SpamNumberDTO is one row of the raw registry dump
type SpamNumberDTO struct {
	ID           uint      `json:"id"`
	Number       string    `json:"numero"`
	Note         *string   `json:"nota"`
	AddedBy      string    `json:"quienagrego"`
	RegisteredAt time.Time `json:"fecharegistro"`
}

// SpamNumberExportRow is one line of a CSV export
type SpamNumberExportRow struct {
	ID           uint   `csv:"id"`
	Number       string `csv:"numero"`
	Note         string `csv:"nota"`
	AddedBy      string `csv:"quienagrego"`
	RegisteredAt string `csv:"fecharegistro"`
}

// ExportSpamNumbersQuery selects the export format; empty means xlsx
type ExportSpamNumbersQuery struct {
	Format string `query:"formato"`
}
