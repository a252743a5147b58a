package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/99designs/keyring"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/merchant-payout/internal/model"
)

type failingStore struct {
	getErr error
	setErr error
}

func (s failingStore) Get(string) (keyring.Item, error) { return keyring.Item{}, s.getErr }
func (s failingStore) Set(keyring.Item) error          { return s.setErr }

func TestDeviceIDCreatesOnFirstUse(t *testing.T) {
	t.Parallel()

	store := keyring.NewArrayKeyring(nil)
	repo := NewDeviceRepository(store)

	id, err := repo.DeviceID(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	item, err := store.Get(DeviceIDKey)
	require.NoError(t, err)
	assert.Equal(t, id, string(item.Data))

	again, err := repo.DeviceID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestDeviceIDReusesPersistedValue(t *testing.T) {
	t.Parallel()

	existing := gofakeit.UUID()
	store := keyring.NewArrayKeyring([]keyring.Item{{Key: DeviceIDKey, Data: []byte(existing)}})

	// A fresh repository over the same store models an app restart.
	id, err := NewDeviceRepository(store).DeviceID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, existing, id)
}

func TestDeviceIDConcurrentCallersAgree(t *testing.T) {
	t.Parallel()

	repo := NewDeviceRepository(keyring.NewArrayKeyring(nil))

	const n = 16
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := repo.DeviceID(context.Background())
			assert.NoError(t, err)
			ids[i] = id
		}()
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestDeviceIDStoreErrors(t *testing.T) {
	t.Parallel()

	t.Run("read failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("keychain locked")
		_, err := NewDeviceRepository(failingStore{getErr: boom}).DeviceID(context.Background())
		assert.ErrorIs(t, err, model.ErrDeviceID)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("write failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("disk full")
		_, err := NewDeviceRepository(failingStore{getErr: keyring.ErrKeyNotFound, setErr: boom}).
			DeviceID(context.Background())
		assert.ErrorIs(t, err, model.ErrDeviceID)
		assert.ErrorIs(t, err, boom)
	})
}
