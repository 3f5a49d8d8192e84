package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/referralhub/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	testStoreContract(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_Expiry(t *testing.T) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return current }
	t.Cleanup(func() { now = time.Now })

	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	s, err := store.Create(ctx)
	require.NoError(t, err)

	current = current.Add(59 * time.Second)
	_, err = store.Get(ctx, s.ID)
	require.NoError(t, err)

	// saving slides the expiry forward
	require.NoError(t, store.Save(ctx, s))
	current = current.Add(59 * time.Second)
	_, err = store.Get(ctx, s.ID)
	require.NoError(t, err)

	current = current.Add(time.Second)
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Empty(t, store.entries)
}
