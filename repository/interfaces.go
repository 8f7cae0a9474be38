// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/spam-guard/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// SpamNumberRepository defines operations for the spam number registry
type SpamNumberRepository interface {
	Repository[models.SpamNumber, models.SpamNumberFilter]
	ByNumber(ctx context.Context, number string) (*models.SpamNumber, error)
	DeleteByID(ctx context.Context, id uint) error
}

// CallEventRepository defines operations for the append-only call event log
type CallEventRepository interface {
	Repository[models.CallEvent, models.CallEventFilter]
}
