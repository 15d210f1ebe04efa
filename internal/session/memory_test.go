package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	st := &State{Step: StepMedicationSearch}
	require.NoError(t, store.Put(ctx, "k1", st))

	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, StepMedicationSearch, got.Step)

	// Mutating the returned copy must not leak into the store.
	got.Step = StepMenu
	again, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, StepMedicationSearch, again.Step)

	require.NoError(t, store.Delete(ctx, "k1"))
	_, err = store.Get(ctx, "k1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(WithMemoryTTL(time.Hour), WithClock(func() time.Time { return now }))

	require.NoError(t, store.Put(ctx, "k1", New()))
	require.NoError(t, store.Put(ctx, "k2", New()))

	now = now.Add(30 * time.Minute)
	_, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "k2", New()))

	now = now.Add(45 * time.Minute)
	_, err = store.Get(ctx, "k1")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "k2")
	require.NoError(t, err)

	now = now.Add(time.Hour)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_NoTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(WithClock(func() time.Time { return now }))
	require.NoError(t, store.Put(ctx, "k", New()))

	now = now.AddDate(1, 0, 0)
	_, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 0, store.Sweep())
}
