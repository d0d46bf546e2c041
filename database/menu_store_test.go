package database

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuboard/model"
)

func exerciseStore(t *testing.T, store MenuStore) {
	ctx := context.Background()

	before, err := store.List(ctx)
	require.NoError(t, err)

	latte := model.Menu{Name: "Latte", Price: 60, Cost: 20}
	require.NoError(t, store.Create(ctx, &latte))
	assert.NotZero(t, latte.ID)

	batch := []model.Menu{
		{Name: "Mocha", Price: 65, Cost: 25, Image: "/uploads/mocha.png"},
		{Name: "Tea", Price: 40, Cost: 10},
	}
	require.NoError(t, store.CreateBatch(ctx, batch))
	assert.NotZero(t, batch[0].ID)
	assert.NotZero(t, batch[1].ID)

	menus, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, menus, len(before)+3)
	for i := 1; i < len(menus); i++ {
		assert.Less(t, menus[i-1].ID, menus[i].ID)
	}
	last := menus[len(menus)-1]
	assert.Equal(t, "Tea", last.Name)
}

func TestMemoryMenuStore(t *testing.T) {
	exerciseStore(t, NewMemoryMenuStore())
}

func TestMemoryMenuStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewMemoryMenuStore()
	_, err := store.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Create(ctx, &model.Menu{Name: "x"}), context.Canceled)
}

// Runs against a real PostgreSQL only when DATABASE_DSN is set.
func TestGormMenuStore_Integration(t *testing.T) {
	dsn := os.Getenv("DATABASE_DSN")
	if testing.Short() || dsn == "" {
		t.Skip("skipping gorm store integration test: DATABASE_DSN not set")
	}

	db, err := Open(dsn, "info")
	require.NoError(t, err)
	defer Close(db)

	exerciseStore(t, NewGormMenuStore(db))
}
