// Package testing provides test utilities and database setup for testing the spam registry
package testing

import (
	"fmt"
	"math/rand"

	"github.com/amirphl/spam-guard/models"
	"github.com/amirphl/spam-guard/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// RandomNumber returns a Dominican-style number that is unlikely to collide between fixtures
func RandomNumber() string {
	return fmt.Sprintf("+1809%07d", rand.Intn(10000000))
}

// CreateTestSpamNumber inserts a flagged number directly, bypassing business rules
func (tf *TestFixtures) CreateTestSpamNumber(number, note, addedBy string) (*models.SpamNumber, error) {
	spam := &models.SpamNumber{
		Number:  number,
		AddedBy: addedBy,
	}
	if note != "" {
		spam.Note = utils.ToPtr(note)
	}

	if err := tf.DB.DB.Create(spam).Error; err != nil {
		return nil, fmt.Errorf("failed to create test spam number: %w", err)
	}

	// Reload so the database-assigned registration time is populated
	var stored models.SpamNumber
	if err := tf.DB.DB.First(&stored, spam.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload test spam number: %w", err)
	}
	return &stored, nil
}

// CreateMultipleTestSpamNumbers inserts three flagged numbers with distinct provenance
func (tf *TestFixtures) CreateMultipleTestSpamNumbers() ([]*models.SpamNumber, error) {
	var result []*models.SpamNumber
	for _, addedBy := range []string{models.DefaultAddedBy, "agent1", "pbx"} {
		spam, err := tf.CreateTestSpamNumber(RandomNumber(), "fixture "+addedBy, addedBy)
		if err != nil {
			return nil, err
		}
		result = append(result, spam)
	}
	return result, nil
}

// CreateTestCallEvent inserts a call event with the given details
func (tf *TestFixtures) CreateTestCallEvent(number, eventType, source string, details models.EventDetails) (*models.CallEvent, error) {
	event := &models.CallEvent{
		Number:     number,
		EventType:  eventType,
		Source:     source,
		Details:    details,
		OccurredAt: utils.UTCNow(),
	}
	if err := tf.DB.DB.Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to create test call event: %w", err)
	}
	return event, nil
}
