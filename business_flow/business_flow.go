// Package businessflow contains the business logic for the application.
package businessflow

import (
	"strings"
	"unicode/utf8"

	"github.com/amirphl/spam-guard/app/dto"
	"github.com/amirphl/spam-guard/models"
)

// NormalizeNumber is the only canonicalization applied to phone numbers:
// surrounding whitespace is removed, everything else is kept verbatim.
func NormalizeNumber(number string) string {
	return strings.TrimSpace(number)
}

// fitsNumberColumn reports whether a normalized number can be stored at all.
// Longer numbers are never in the registry.
func fitsNumberColumn(number string) bool {
	return utf8.RuneCountInString(number) <= models.MaxNumberLength
}

// checkStorableNumber rejects numbers that are blank or wider than the numero column
func checkStorableNumber(number string) error {
	if number == "" {
		return NewBusinessError("SPAM_NUMBER_REQUIRED", "Spam number is required", ErrSpamNumberRequired)
	}
	if !fitsNumberColumn(number) {
		return NewBusinessErrorf("SPAM_NUMBER_TOO_LONG", "Spam number exceeds %d characters", ErrSpamNumberTooLong, models.MaxNumberLength)
	}
	return nil
}

// ToSpamNumberDTO converts a spam number model to its raw listing form
func ToSpamNumberDTO(spam models.SpamNumber) dto.SpamNumberDTO {
	return dto.SpamNumberDTO{
		ID:           spam.ID,
		Number:       spam.Number,
		Note:         spam.Note,
		AddedBy:      spam.AddedBy,
		RegisteredAt: spam.RegisteredAt,
	}
}
