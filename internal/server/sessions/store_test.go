package sessions

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/referralhub/internal/common"
	"github.com/dmitrijs2005/referralhub/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStoreContract exercises behaviour every Store must share.
func testStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	s, err := store.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Empty(t, got.Email)
	assert.False(t, got.Admin)
	assert.Nil(t, got.Draft)

	got.Email = "ann@example.com"
	got.Admin = true
	got.Draft = &services.Draft{Name: "ann", Email: "ann@example.com", PasswordHash: "$2a$hash", ReferrerCode: "111111"}
	require.NoError(t, store.Save(ctx, got))

	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	// mutating a loaded session does not leak into the store
	again.Draft.Name = "changed"
	fresh, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann", fresh.Draft.Name)

	other, err := store.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, other.ID)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, store.Delete(ctx, "never-existed"))
	_, err = store.Get(ctx, "never-existed")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
