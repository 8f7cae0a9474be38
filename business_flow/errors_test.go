package businessflow

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/amirphl/spam-guard/models"
	"github.com/stretchr/testify/assert"
)

func TestBusinessError(t *testing.T) {
	be := NewBusinessError("SPAM_NUMBER_NOT_FOUND", "Spam number not found", ErrSpamNumberNotFound)
	assert.Equal(t, "Spam number not found: spam number not found", be.Error())
	assert.True(t, IsSpamNumberNotFound(be))
	assert.False(t, IsSpamNumberAlreadyExists(be))

	wrapped := fmt.Errorf("handler: %w", be)
	assert.True(t, IsSpamNumberNotFound(wrapped))

	var target *BusinessError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "SPAM_NUMBER_NOT_FOUND", target.Code)

	bare := NewBusinessError("X", "plain", nil)
	assert.Equal(t, "plain", bare.Error())
	assert.Nil(t, bare.Unwrap())

	formatted := NewBusinessErrorf("UNSUPPORTED_EXPORT_FORMAT", "Unsupported export format %q", ErrUnsupportedExportFormat, "pdf")
	assert.Equal(t, `Unsupported export format "pdf"`, formatted.Message)
	assert.True(t, IsUnsupportedExportFormat(formatted))
}

func TestNormalizeNumber(t *testing.T) {
	assert.Equal(t, "+18095550001", NormalizeNumber("  +18095550001\t\n"))
	assert.Equal(t, "809 555 0001", NormalizeNumber(" 809 555 0001 "))
	assert.Equal(t, "", NormalizeNumber("   "))
}

func TestCheckStorableNumber(t *testing.T) {
	assert.NoError(t, checkStorableNumber("+18095550001"))
	assert.NoError(t, checkStorableNumber(strings.Repeat("ñ", models.MaxNumberLength)))
	assert.True(t, IsSpamNumberRequired(checkStorableNumber("")))
	assert.True(t, IsSpamNumberTooLong(checkStorableNumber(strings.Repeat("1", models.MaxNumberLength+1))))
}
