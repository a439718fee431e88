package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	store := NewMemoryTokenStore().(*memoryTokenStore)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "u_patient_1", "tok-1", time.Hour))

	ok, err := store.Exists(ctx, "u_patient_1", "tok-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, "u_patient_2", "tok-1")
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(time.Hour)
	ok, err = store.Exists(ctx, "u_patient_1", "tok-1")
	require.NoError(t, err)
	assert.False(t, ok, "expired token must not be valid")

	require.NoError(t, store.Save(ctx, "u_patient_1", "tok-2", time.Hour))
	assert.Len(t, store.tokens, 1, "expired entries are swept on save")

	require.NoError(t, store.Delete(ctx, "u_patient_1", "tok-2"))
	ok, err = store.Exists(ctx, "u_patient_1", "tok-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccessTokenKey(t *testing.T) {
	assert.Equal(t, "access_token:u_admin_1:abc", accessTokenKey("u_admin_1", "abc"))
}
