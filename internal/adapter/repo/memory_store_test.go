package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samakicash/internal/domain"
)

func TestMemoryStore_InsertAndFindUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	user := domain.User{ID: "u1", Email: "juma@example.com", PasswordHash: "hash", UserType: domain.UserTypeFisher, CreatedAt: time.Now()}
	require.NoError(t, store.InsertUser(ctx, user))

	t.Run("exact match", func(t *testing.T) {
		found, err := store.FindUserByCredentials(ctx, "juma@example.com", "hash")
		require.NoError(t, err)
		assert.Equal(t, "u1", found.ID)
		assert.Equal(t, domain.UserTypeFisher, found.UserType)
	})

	t.Run("wrong hash", func(t *testing.T) {
		found, err := store.FindUserByCredentials(ctx, "juma@example.com", "other")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, found)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := store.InsertUser(ctx, domain.User{ID: "u2", Email: "JUMA@example.com", PasswordHash: "x"})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestMemoryStore_ListCatchesByUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	price, err := json.Marshal(domain.PriceAnalysis{FairPrice: 5200, Currency: "TZS", Reasoning: "demand", ConfidenceScore: 0.8})
	require.NoError(t, err)

	require.NoError(t, store.InsertCatch(ctx, domain.CatchRecord{ID: "c1", UserID: "u1", FishType: "Tilapia", QuantityKg: 10, Location: "Mwanza", PriceAnalysis: price}))
	require.NoError(t, store.InsertCatch(ctx, domain.CatchRecord{ID: "c2", UserID: "u2", FishType: "Sangara", QuantityKg: 4, Location: "Musoma", PriceAnalysis: price}))
	require.NoError(t, store.InsertCatch(ctx, domain.CatchRecord{ID: "c3", UserID: "u1", FishType: "Dagaa", QuantityKg: 25, Location: "Mwanza", PriceAnalysis: price}))

	records, err := store.ListCatchesByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c1", records[0].ID)
	assert.Equal(t, "c3", records[1].ID)

	decoded, err := records[0].DecodePriceAnalysis()
	require.NoError(t, err)
	assert.Equal(t, 5200.0, decoded.FairPrice)

	none, err := store.ListCatchesByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := store.ListCatches(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryStore_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const writers = 16
	const perWriter = 25
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				rec := domain.CatchRecord{
					ID:            fmt.Sprintf("c-%d-%d", w, i),
					UserID:        fmt.Sprintf("u%d", w),
					FishType:      "Tilapia",
					QuantityKg:    float64(i + 1),
					Location:      "Mwanza",
					PriceAnalysis: json.RawMessage(`{"fair_price":1}`),
				}
				assert.NoError(t, store.InsertCatch(ctx, rec))
			}
		}(w)
	}
	wg.Wait()

	all, err := store.ListCatches(ctx)
	require.NoError(t, err)
	assert.Len(t, all, writers*perWriter)

	for w := 0; w < writers; w++ {
		records, err := store.ListCatchesByUser(ctx, fmt.Sprintf("u%d", w))
		require.NoError(t, err)
		assert.Len(t, records, perWriter)
	}
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewMemoryStore()

	assert.ErrorIs(t, store.InsertCatch(ctx, domain.CatchRecord{ID: "c1"}), context.Canceled)
	all, err := store.ListCatches(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
