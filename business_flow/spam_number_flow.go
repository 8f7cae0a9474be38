package businessflow

import (
	"context"
	"errors"

	"github.com/amirphl/spam-guard/app/services"
	"github.com/amirphl/spam-guard/models"
	"github.com/amirphl/spam-guard/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SpamNumberFlow is the record store of flagged numbers
type SpamNumberFlow interface {
	Lookup(ctx context.Context, number string) (*models.SpamNumber, error)
	Register(ctx context.Context, number string, note *string, addedBy *string) (*models.SpamNumber, error)
	Unregister(ctx context.Context, number string) error
	ListAll(ctx context.Context) ([]*models.SpamNumber, error)
}

type SpamNumberFlowImpl struct {
	spamRepo repository.SpamNumberRepository
	cache    services.VerdictCache
	db       *gorm.DB
}

func NewSpamNumberFlow(spamRepo repository.SpamNumberRepository, cache services.VerdictCache, db *gorm.DB) SpamNumberFlow {
	if cache == nil {
		cache = services.NewNoopVerdictCache()
	}
	return &SpamNumberFlowImpl{
		spamRepo: spamRepo,
		cache:    cache,
		db:       db,
	}
}

// Lookup returns the record for the trimmed number, or nil when it is not flagged
func (f *SpamNumberFlowImpl) Lookup(ctx context.Context, number string) (*models.SpamNumber, error) {
	number = NormalizeNumber(number)
	if number == "" || !fitsNumberColumn(number) {
		return nil, nil
	}

	spam, err := f.spamRepo.ByNumber(ctx, number)
	if err != nil {
		return nil, NewBusinessError("SPAM_NUMBER_LOOKUP_FAILED", "Failed to look up spam number", err)
	}
	return spam, nil
}

// Register flags a number as spam. An existing record is never overwritten.
func (f *SpamNumberFlowImpl) Register(ctx context.Context, number string, note *string, addedBy *string) (*models.SpamNumber, error) {
	number = NormalizeNumber(number)
	if err := checkStorableNumber(number); err != nil {
		return nil, err
	}

	spam := &models.SpamNumber{
		Number:  number,
		AddedBy: models.DefaultAddedBy,
		Note:    note,
	}
	if addedBy != nil {
		spam.AddedBy = *addedBy
	}

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		existing, err := f.spamRepo.ByNumber(txCtx, number)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrSpamNumberAlreadyExists
		}

		return f.spamRepo.Save(txCtx, spam)
	})
	if err != nil {
		// A concurrent insert of the same number loses on the unique index
		if errors.Is(err, ErrSpamNumberAlreadyExists) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewBusinessError("SPAM_NUMBER_ALREADY_EXISTS", "Spam number already registered", ErrSpamNumberAlreadyExists)
		}
		return nil, NewBusinessError("SPAM_NUMBER_REGISTRATION_FAILED", "Failed to register spam number", err)
	}

	f.invalidate(ctx, number)
	spamNumbersRegisteredTotal.Inc()

	// registeredAt is assigned by the database clock
	stored, err := f.spamRepo.ByID(ctx, spam.ID)
	if err != nil {
		return nil, NewBusinessError("SPAM_NUMBER_REGISTRATION_FAILED", "Failed to load registered spam number", err)
	}
	if stored == nil {
		return spam, nil
	}
	return stored, nil
}

// Unregister removes the record for the number
func (f *SpamNumberFlowImpl) Unregister(ctx context.Context, number string) error {
	number = NormalizeNumber(number)
	if number == "" {
		return NewBusinessError("SPAM_NUMBER_REQUIRED", "Spam number is required", ErrSpamNumberRequired)
	}

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		existing, err := f.spamRepo.ByNumber(txCtx, number)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrSpamNumberNotFound
		}

		return f.spamRepo.DeleteByID(txCtx, existing.ID)
	})
	if err != nil {
		if errors.Is(err, ErrSpamNumberNotFound) {
			return NewBusinessError("SPAM_NUMBER_NOT_FOUND", "Spam number not found", err)
		}
		return NewBusinessError("SPAM_NUMBER_UNREGISTRATION_FAILED", "Failed to unregister spam number", err)
	}

	f.invalidate(ctx, number)
	spamNumbersUnregisteredTotal.Inc()

	return nil
}

// ListAll returns every flagged number ordered by id
func (f *SpamNumberFlowImpl) ListAll(ctx context.Context) ([]*models.SpamNumber, error) {
	rows, err := f.spamRepo.ByFilter(ctx, models.SpamNumberFilter{}, "id ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("LIST_SPAM_NUMBERS_FAILED", "Failed to list spam numbers", err)
	}
	return rows, nil
}

func (f *SpamNumberFlowImpl) invalidate(ctx context.Context, number string) {
	if err := f.cache.Invalidate(ctx, number); err != nil {
		zap.L().Warn("failed to invalidate verdict cache",
			zap.String("numero", number),
			zap.Error(err),
		)
	}
}
