package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/carteira/backend/src/models"
)

func TestStoreSeedsOnFirstAccess(t *testing.T) {
	store := NewPortfolioStore(nil, time.Hour)

	snap, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Version)
	assert.Equal(t, models.SeedPortfolio(), snap.Portfolio)
}

func TestStoreHandsOutCopies(t *testing.T) {
	store := NewPortfolioStore(nil, time.Hour)
	ctx := context.Background()

	snap, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	stocks := snap.Portfolio[models.CategoryStocks]
	stocks.Assets[0].Ticker = "CHANGED"
	delete(snap.Portfolio, models.CategoryFIIs)

	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "SAPR4", again.Portfolio[models.CategoryStocks].Assets[0].Ticker)
	assert.Contains(t, again.Portfolio, models.CategoryFIIs)
}

func TestStoreReplaceBumpsVersion(t *testing.T) {
	store := NewPortfolioStore(nil, time.Hour)
	ctx := context.Background()

	next := models.SeedPortfolio()
	delete(next, models.CategoryCrypto)

	snap, err := store.Replace(ctx, "s1", next)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Version)
	assert.NotContains(t, snap.Portfolio, models.CategoryCrypto)

	reset, err := store.Reset(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), reset.Version)
	assert.Contains(t, reset.Portfolio, models.CategoryCrypto)
}

func TestStoreSessionsAreIsolated(t *testing.T) {
	store := NewPortfolioStore(nil, time.Hour)
	ctx := context.Background()

	_, err := store.Replace(ctx, "a", models.Portfolio{})
	require.NoError(t, err)

	b, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, b.Portfolio, len(models.CategoryOrder))
}

func TestStoreWritesThroughToDatabase(t *testing.T) {
	db := newTestDB(t)
	insertSession(t, db, "s1")
	ctx := context.Background()

	store := NewPortfolioStore(db, time.Hour)
	next := models.SeedPortfolio()
	delete(next, models.CategoryETFs)
	_, err := store.Replace(ctx, "s1", next)
	require.NoError(t, err)

	// A fresh store (e.g. after a restart) reads the persisted snapshot.
	reloaded := NewPortfolioStore(db, time.Hour)
	snap, err := reloaded.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Version)
	assert.NotContains(t, snap.Portfolio, models.CategoryETFs)

	store.Forget("s1")
	snap, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Version)
}

func TestStoreFailsWithoutSessionRow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	store := NewPortfolioStore(db, time.Hour)

	// No session row: the foreign key rejects the write.
	_, err := store.Get(ctx, "ghost")
	assert.Error(t, err)
}
