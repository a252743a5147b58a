package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/99designs/keyring"
	"github.com/google/uuid"

	"github.com/you-humble/merchant-payout/internal/model"
	"github.com/you-humble/merchant-payout/platform/logger"
)

// DeviceIDKey is the keyring item holding the per-installation identifier.
const DeviceIDKey = "device_id"

// Store is the subset of keyring.Keyring used here.
type Store interface {
	Get(key string) (keyring.Item, error)
	Set(item keyring.Item) error
}

type repository struct {
	store Store
	newID func() string

	mu     sync.Mutex
	cached string
}

func NewDeviceRepository(store Store) *repository {
	return &repository{
		store: store,
		newID: uuid.NewString,
	}
}

// DeviceID returns the persisted identifier, creating and saving one on first use.
// Concurrent callers always observe the same value.
func (r *repository) DeviceID(ctx context.Context) (string, error) {
	const op = "device.repository.DeviceID"

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != "" {
		return r.cached, nil
	}

	item, err := r.store.Get(DeviceIDKey)
	switch {
	case err == nil && strings.TrimSpace(string(item.Data)) != "":
		r.cached = string(item.Data)
		return r.cached, nil
	case err == nil, errors.Is(err, keyring.ErrKeyNotFound):
	default:
		logger.Error(ctx, "read device id", logger.ErrorF(err))
		return "", fmt.Errorf("%s: %w", op, errors.Join(model.ErrDeviceID, err))
	}

	id := r.newID()
	if err := r.store.Set(keyring.Item{
		Key:         DeviceIDKey,
		Data:        []byte(id),
		Label:       "Merchant payout device identifier",
		Description: "Stable per-installation identifier sent with payouts",
	}); err != nil {
		logger.Error(ctx, "persist device id", logger.ErrorF(err))
		return "", fmt.Errorf("%s: %w", op, errors.Join(model.ErrDeviceID, err))
	}

	logger.Info(ctx, "device id created", logger.String("device_id", id))
	r.cached = id

	return id, nil
}
