package businessflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/amirphl/spam-guard/models"
	"github.com/amirphl/spam-guard/repository"
	testingutil "github.com/amirphl/spam-guard/testing"
	"github.com/amirphl/spam-guard/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpamNumberFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		spamRepo := repository.NewSpamNumberRepository(testDB.DB)
		cache := newMemoryVerdictCache()
		flow := NewSpamNumberFlow(spamRepo, cache, testDB.DB)
		ctx := context.Background()

		t.Run("RegisterReturnsStoredRecord", func(t *testing.T) {
			spam, err := flow.Register(ctx, "+18095550001", utils.ToPtr("robocall"), utils.ToPtr("agent1"))
			require.NoError(t, err)
			require.NotNil(t, spam)
			assert.NotZero(t, spam.ID)
			assert.Equal(t, "+18095550001", spam.Number)
			assert.Equal(t, "agent1", spam.AddedBy)
			require.NotNil(t, spam.Note)
			assert.Equal(t, "robocall", *spam.Note)
			assert.False(t, spam.RegisteredAt.IsZero())
		})

		t.Run("RegisterDefaultsAddedBy", func(t *testing.T) {
			spam, err := flow.Register(ctx, "+18095550002", nil, nil)
			require.NoError(t, err)
			assert.Equal(t, models.DefaultAddedBy, spam.AddedBy)
			assert.Nil(t, spam.Note)
		})

		t.Run("RegisterKeepsExplicitEmptyAddedBy", func(t *testing.T) {
			spam, err := flow.Register(ctx, "+18095550003", nil, utils.ToPtr(""))
			require.NoError(t, err)
			assert.Equal(t, "", spam.AddedBy)
		})

		t.Run("RegisterTrimsNumber", func(t *testing.T) {
			spam, err := flow.Register(ctx, "  +18095550004 \t", nil, nil)
			require.NoError(t, err)
			assert.Equal(t, "+18095550004", spam.Number)

			found, err := flow.Lookup(ctx, "+18095550004")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, spam.ID, found.ID)
		})

		t.Run("RegisterDuplicateIsConflict", func(t *testing.T) {
			original, err := flow.Register(ctx, "+18095550005", utils.ToPtr("first"), nil)
			require.NoError(t, err)

			_, err = flow.Register(ctx, " +18095550005 ", utils.ToPtr("second"), utils.ToPtr("someone"))
			require.Error(t, err)
			assert.True(t, IsSpamNumberAlreadyExists(err))

			var be *BusinessError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, "SPAM_NUMBER_ALREADY_EXISTS", be.Code)

			// The existing record is untouched
			stored, err := flow.Lookup(ctx, "+18095550005")
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, original.ID, stored.ID)
			assert.Equal(t, "first", *stored.Note)
			assert.Equal(t, models.DefaultAddedBy, stored.AddedBy)
		})

		t.Run("RegisterBlankNumber", func(t *testing.T) {
			_, err := flow.Register(ctx, "   ", nil, nil)
			require.Error(t, err)
			assert.True(t, IsSpamNumberRequired(err))
		})

		t.Run("RegisterMeasuresTrimmedNumber", func(t *testing.T) {
			padded := "   " + strings.Repeat("7", models.MaxNumberLength) + "          "
			stored, err := flow.Register(ctx, padded, nil, nil)
			require.NoError(t, err)
			assert.Equal(t, strings.Repeat("7", models.MaxNumberLength), stored.Number)

			_, err = flow.Register(ctx, strings.Repeat("7", models.MaxNumberLength+1), nil, nil)
			require.Error(t, err)
			assert.True(t, IsSpamNumberTooLong(err))
		})

		t.Run("RegisterInvalidatesCache", func(t *testing.T) {
			cache.invalidated = nil
			_, err := flow.Register(ctx, "+18095550006", nil, nil)
			require.NoError(t, err)
			assert.Equal(t, []string{"+18095550006"}, cache.invalidated)
		})

		t.Run("LookupAbsentIsNotAnError", func(t *testing.T) {
			found, err := flow.Lookup(ctx, "+18095559999")
			require.NoError(t, err)
			assert.Nil(t, found)

			found, err = flow.Lookup(ctx, "   ")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("LookupIsCaseSensitive", func(t *testing.T) {
			_, err := flow.Register(ctx, "PrivateCaller", nil, nil)
			require.NoError(t, err)

			found, err := flow.Lookup(ctx, "privatecaller")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("UnregisterRemovesRecord", func(t *testing.T) {
			_, err := flow.Register(ctx, "+18095550007", nil, nil)
			require.NoError(t, err)
			cache.invalidated = nil

			require.NoError(t, flow.Unregister(ctx, " +18095550007"))
			assert.Equal(t, []string{"+18095550007"}, cache.invalidated)

			found, err := flow.Lookup(ctx, "+18095550007")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("UnregisterTwiceIsNotFound", func(t *testing.T) {
			_, err := flow.Register(ctx, "+18095550008", nil, nil)
			require.NoError(t, err)
			require.NoError(t, flow.Unregister(ctx, "+18095550008"))

			err = flow.Unregister(ctx, "+18095550008")
			require.Error(t, err)
			assert.True(t, IsSpamNumberNotFound(err))
		})

		t.Run("UnregisterUnknownIsNotFound", func(t *testing.T) {
			err := flow.Unregister(ctx, "+18095558888")
			require.Error(t, err)
			assert.True(t, IsSpamNumberNotFound(err))
		})

		t.Run("ReRegisterAfterUnregister", func(t *testing.T) {
			first, err := flow.Register(ctx, "+18095550009", nil, nil)
			require.NoError(t, err)
			require.NoError(t, flow.Unregister(ctx, "+18095550009"))

			second, err := flow.Register(ctx, "+18095550009", utils.ToPtr("again"), nil)
			require.NoError(t, err)
			assert.NotEqual(t, first.ID, second.ID)
			assert.Equal(t, "again", *second.Note)
		})

		t.Run("ListAllOrderedByID", func(t *testing.T) {
			rows, err := flow.ListAll(ctx)
			require.NoError(t, err)
			require.NotEmpty(t, rows)
			for i := 1; i < len(rows); i++ {
				assert.Less(t, rows[i-1].ID, rows[i].ID)
			}
		})

		t.Run("ConcurrentRegisterHasOneWinner", func(t *testing.T) {
			const workers = 8
			var wg sync.WaitGroup
			errs := make([]error, workers)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = flow.Register(ctx, "+18095550010", nil, nil)
				}(i)
			}
			wg.Wait()

			succeeded := 0
			for _, err := range errs {
				if err == nil {
					succeeded++
					continue
				}
				assert.True(t, IsSpamNumberAlreadyExists(err), "unexpected error: %v", err)
			}
			assert.Equal(t, 1, succeeded)

			count, err := spamRepo.Count(ctx, models.SpamNumberFilter{Number: utils.ToPtr("+18095550010")})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		return nil
	})
	require.NoError(t, err)
}
