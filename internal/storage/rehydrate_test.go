package storage

import (
	"context"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/state"
)

var today = models.NewDate(2026, 10, 19)

func TestRehydrate_MissingFallsBackToSeed(t *testing.T) {
	snap, seeded := Rehydrate(context.Background(), &memoryStore{}, common.NewSilentLogger(), rand.New(rand.NewSource(7)), today)

	assert.True(t, seeded)
	assert.Equal(t, state.Seed(rand.New(rand.NewSource(7)), today), snap)
	assert.Len(t, snap.Portfolio.Holdings, 5)
	assert.Len(t, snap.Watchlist.Items, 4)
}

func TestRehydrate_CorruptFallsBackToSeed(t *testing.T) {
	fs := newTestFileStore(t, 0)
	require.NoError(t, os.WriteFile(fs.Path(), []byte(`{"portfolio": [`), 0644))

	snap, seeded := Rehydrate(context.Background(), fs, common.NewSilentLogger(), rand.New(rand.NewSource(1)), today)
	assert.True(t, seeded)
	assert.Len(t, snap.Expenses.Expenses, 45)
}

func TestRehydrate_RestoresSaved(t *testing.T) {
	want := testSnapshot()
	snap, seeded := Rehydrate(context.Background(), &memoryStore{loaded: want}, common.NewSilentLogger(), rand.New(rand.NewSource(1)), today)

	assert.False(t, seeded)
	assert.Equal(t, *want, snap)
}

func TestRehydrate_CoercesUnknownCategories(t *testing.T) {
	fs := newTestFileStore(t, 0)
	doc := `{"portfolio":{"holdings":[],"historicalData":[]},"watchlist":{"items":[]},"expenses":{"expenses":[
		{"id":"a","amount":10,"category":"food","description":"Lunch","date":"2026-10-01"},
		{"id":"b","amount":20,"category":"travel","description":"Hotel","date":"2026-10-02"},
		{"id":"c","amount":30,"category":"Bills","description":"Power","date":"2026-10-03"}
	]}}`
	require.NoError(t, os.WriteFile(fs.Path(), []byte(doc), 0644))

	snap, seeded := Rehydrate(context.Background(), fs, common.NewSilentLogger(), rand.New(rand.NewSource(1)), today)
	require.False(t, seeded)
	require.Len(t, snap.Expenses.Expenses, 3)

	byID := map[string]models.Category{}
	for _, e := range snap.Expenses.Expenses {
		byID[e.ID] = e.Category
	}
	assert.Equal(t, models.CategoryFood, byID["a"])
	assert.Equal(t, models.CategoryOther, byID["b"])
	assert.Equal(t, models.CategoryBills, byID["c"])
}
