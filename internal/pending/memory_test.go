package pending

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetPutDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "a@b.com")
	assert.ErrorIs(t, err, ErrNotFound)

	reg := &Registration{
		Type:      TypeUser,
		OTP:       "123456",
		ExpiresAt: time.Now().Add(5 * time.Minute),
		Email:     "a@b.com",
	}
	require.NoError(t, s.Put(ctx, "a@b.com", reg))

	got, err := s.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", got.OTP)

	// Get renvoie une copie : la muter ne touche pas le store.
	got.OTP = "000000"
	again, err := s.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", again.OTP)

	require.NoError(t, s.Delete(ctx, "a@b.com"))
	_, err = s.Get(ctx, "a@b.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorePutEcrase(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := &Registration{OTP: "111111", ExpiresAt: time.Now().Add(time.Minute)}
	second := &Registration{OTP: "222222", ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, s.Put(ctx, "a@b.com", first))
	require.NoError(t, s.Put(ctx, "a@b.com", second))

	got, err := s.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", got.OTP, "le dernier Put gagne")
}

func TestMemoryStorePurgeExpired(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now.Add(10 * time.Minute) }

	require.NoError(t, s.Put(ctx, "vieux@b.com", &Registration{ExpiresAt: now.Add(5 * time.Minute)}))
	require.NoError(t, s.Put(ctx, "frais@b.com", &Registration{ExpiresAt: now.Add(30 * time.Minute)}))

	assert.Equal(t, 1, s.PurgeExpired())

	_, err := s.Get(ctx, "vieux@b.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "frais@b.com")
	assert.NoError(t, err)
}
