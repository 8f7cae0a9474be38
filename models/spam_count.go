package models

import "time"

// SpamCount keeps the daily counter table in the schema. Nothing reads or writes it yet.
type SpamCount struct {
	ID     uint      `gorm:"primaryKey;column:id" json:"id"`
	Number string    `gorm:"column:numero;size:32;not null" json:"numero"`
	Date   time.Time `gorm:"column:fecha;type:date;not null" json:"fecha"`
	Count  int       `gorm:"column:cantidad;default:0" json:"cantidad"`
}

func (SpamCount) TableName() string {
	return "conteospam"
}

// AllModels lists every table the service owns, in creation order
func AllModels() []any {
	return []any{
		&SpamNumber{},
		&SpamCount{},
		&CallEvent{},
	}
}
