package out_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	trackerstore "jobtrack/internal/modules/tracker/adapter/out"
	"jobtrack/internal/modules/tracker/domain"
	trackerout "jobtrack/internal/modules/tracker/port/out"
	apperrors "jobtrack/internal/platform/errors"
)

func backends(t *testing.T) map[string]func() trackerout.RecordStore {
	t.Helper()
	return map[string]func() trackerout.RecordStore{
		"memory": trackerstore.NewMemoryRecordStore,
		"sqlite": func() trackerout.RecordStore {
			store, err := trackerstore.NewSQLiteRecordStore(context.Background())
			require.NoError(t, err)
			return store
		},
	}
}

func sample(id, company string, status domain.Status) domain.Record {
	return domain.Record{ID: id, Fields: domain.Fields{
		Date:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Company: company,
		Role:    "Backend Engineer",
		Type:    domain.TypeRecruiterCall,
		Contact: "talent@" + company,
		Status:  status,
		Notes:   "line one\nline two",
	}}
}

func TestRecordStoreContract(t *testing.T) {
	t.Parallel()
	for name, open := range backends(t) {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			store := open()
			t.Cleanup(func() { _ = store.Close() })

			all, err := store.All(ctx)
			require.NoError(t, err)
			require.Empty(t, all)

			require.NoError(t, store.Append(ctx, sample("a", "acme", domain.StatusApplied)))
			require.NoError(t, store.Append(ctx, sample("b", "globex", domain.StatusOffer)))
			require.Error(t, store.Append(ctx, sample("a", "dup", domain.StatusOffer)))

			all, err = store.All(ctx)
			require.NoError(t, err)
			require.Equal(t, []domain.Record{sample("a", "acme", domain.StatusApplied), sample("b", "globex", domain.StatusOffer)}, all)

			got, err := store.Get(ctx, "b")
			require.NoError(t, err)
			require.Equal(t, "globex", got.Company)
			_, err = store.Get(ctx, "missing")
			require.True(t, errors.Is(err, apperrors.ErrNotFound))

			replacement := []domain.Record{
				sample("b", "globex", domain.StatusInterviewing),
				sample("c", "initech", domain.StatusApplied),
			}
			require.NoError(t, store.ReplaceAll(ctx, replacement))
			all, err = store.All(ctx)
			require.NoError(t, err)
			require.Equal(t, replacement, all)

			require.NoError(t, store.Close())
			_, err = store.All(ctx)
			require.True(t, errors.Is(err, apperrors.ErrSessionClosed))
		})
	}
}

func TestRecordStoreReturnsSnapshots(t *testing.T) {
	t.Parallel()
	for name, open := range backends(t) {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			store := open()
			t.Cleanup(func() { _ = store.Close() })

			input := []domain.Record{sample("a", "acme", domain.StatusApplied)}
			require.NoError(t, store.ReplaceAll(ctx, input))
			input[0].Company = "changed by caller"

			first, err := store.All(ctx)
			require.NoError(t, err)
			first[0].Status = domain.StatusGhosted

			second, err := store.All(ctx)
			require.NoError(t, err)
			require.Equal(t, "acme", second[0].Company)
			require.Equal(t, domain.StatusApplied, second[0].Status)
		})
	}
}

func TestReplaceAllRejectsDuplicateIDsAndKeepsPreviousState(t *testing.T) {
	t.Parallel()
	for name, open := range backends(t) {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			store := open()
			t.Cleanup(func() { _ = store.Close() })

			require.NoError(t, store.Append(ctx, sample("a", "acme", domain.StatusApplied)))
			err := store.ReplaceAll(ctx, []domain.Record{
				sample("x", "one", domain.StatusApplied),
				sample("x", "two", domain.StatusApplied),
			})
			require.Error(t, err)

			all, err := store.All(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			require.Equal(t, "a", all[0].ID)
		})
	}
}

func TestSQLiteStoresAreIsolated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	first, err := trackerstore.NewSQLiteRecordStore(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Close() })
	second, err := trackerstore.NewSQLiteRecordStore(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	require.NoError(t, first.Append(ctx, sample("a", "acme", domain.StatusApplied)))
	all, err := second.All(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestStoresRejectOutOfEnumFields(t *testing.T) {
	t.Parallel()
	for name, open := range backends(t) {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			store := open()
			t.Cleanup(func() { _ = store.Close() })

			bad := sample("x", "initech", domain.Status("Pending"))
			bad.Type = domain.InteractionType("Carrier Pigeon")
			err := store.Append(ctx, bad)
			require.ErrorIs(t, err, apperrors.ErrInvalidInput)
			require.ErrorIs(t, err, domain.ErrInvalidStatus)

			require.NoError(t, store.Append(ctx, sample("a", "acme", domain.StatusApplied)))
			err = store.ReplaceAll(ctx, []domain.Record{sample("b", "globex", domain.StatusOffer), bad})
			require.ErrorIs(t, err, apperrors.ErrInvalidInput)

			all, err := store.All(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			require.Equal(t, "a", all[0].ID)
		})
	}
}
