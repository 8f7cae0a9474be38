// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/spam-guard/models"
	"gorm.io/gorm"
)

// SpamNumberRepositoryImpl implements SpamNumberRepository interface
type SpamNumberRepositoryImpl struct {
	*BaseRepository[models.SpamNumber, models.SpamNumberFilter]
}

// NewSpamNumberRepository creates a new spam number repository
func NewSpamNumberRepository(db *gorm.DB) SpamNumberRepository {
	return &SpamNumberRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SpamNumber, models.SpamNumberFilter](db),
	}
}

// ByNumber retrieves a spam number by its exact stored value.
// Callers normalize the value first; matching is case-sensitive equality.
func (r *SpamNumberRepositoryImpl) ByNumber(ctx context.Context, number string) (*models.SpamNumber, error) {
	filter := models.SpamNumberFilter{Number: &number}
	items, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

// applyFilter applies filter criteria to a GORM query
func (r *SpamNumberRepositoryImpl) applyFilter(query *gorm.DB, filter models.SpamNumberFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Number != nil {
		query = query.Where("numero = ?", *filter.Number)
	}
	if filter.AddedBy != nil {
		query = query.Where("quienagrego = ?", *filter.AddedBy)
	}
	if filter.RegisteredAfter != nil {
		query = query.Where("fecharegistro > ?", *filter.RegisteredAfter)
	}
	if filter.RegisteredBefore != nil {
		query = query.Where("fecharegistro < ?", *filter.RegisteredBefore)
	}
	return query
}

// ByFilter retrieves spam numbers based on filter criteria
func (r *SpamNumberRepositoryImpl) ByFilter(ctx context.Context, filter models.SpamNumberFilter, orderBy string, limit, offset int) ([]*models.SpamNumber, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.SpamNumber{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var numbers []*models.SpamNumber
	if err := query.Find(&numbers).Error; err != nil {
		return nil, fmt.Errorf("failed to find spam numbers: %w", err)
	}
	return numbers, nil
}

// Count returns the number of spam numbers matching the filter
func (r *SpamNumberRepositoryImpl) Count(ctx context.Context, filter models.SpamNumberFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.SpamNumber{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count spam numbers: %w", err)
	}
	return count, nil
}

// Exists checks if any spam number matching the filter exists
func (r *SpamNumberRepositoryImpl) Exists(ctx context.Context, filter models.SpamNumberFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
