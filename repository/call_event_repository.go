// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/spam-guard/models"
	"gorm.io/gorm"
)

// CallEventRepositoryImpl implements CallEventRepository interface
type CallEventRepositoryImpl struct {
	*BaseRepository[models.CallEvent, models.CallEventFilter]
}

// NewCallEventRepository creates a new call event repository
func NewCallEventRepository(db *gorm.DB) CallEventRepository {
	return &CallEventRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CallEvent, models.CallEventFilter](db),
	}
}

func (r *CallEventRepositoryImpl) applyFilter(query *gorm.DB, filter models.CallEventFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Number != nil {
		query = query.Where("numero = ?", *filter.Number)
	}
	if filter.EventType != nil {
		query = query.Where("tipoevento = ?", *filter.EventType)
	}
	if filter.Source != nil {
		query = query.Where("fuente = ?", *filter.Source)
	}
	if filter.OccurredAfter != nil {
		query = query.Where("fechahora > ?", *filter.OccurredAfter)
	}
	if filter.OccurredBefore != nil {
		query = query.Where("fechahora < ?", *filter.OccurredBefore)
	}
	return query
}

// ByFilter retrieves call events based on filter criteria
func (r *CallEventRepositoryImpl) ByFilter(ctx context.Context, filter models.CallEventFilter, orderBy string, limit, offset int) ([]*models.CallEvent, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CallEvent{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var events []*models.CallEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to find call events: %w", err)
	}
	return events, nil
}

// Count returns the number of call events matching the filter
func (r *CallEventRepositoryImpl) Count(ctx context.Context, filter models.CallEventFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CallEvent{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count call events: %w", err)
	}
	return count, nil
}

// Exists checks if any call event matching the filter exists
func (r *CallEventRepositoryImpl) Exists(ctx context.Context, filter models.CallEventFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
