package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// ErrNotFound объект с таким именем отсутствует в бакете
var ErrNotFound = errors.New("object not found")

// Bucket хранилище блобов с доступом по имени.
// Повторная запись под тем же именем перезаписывает объект,
// поэтому конвертация идемпотентна при повторной доставке.
type Bucket interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte) error
}

// AssetKey ключ изображения в бакете assets: "{владелец|0}.{id}"
func AssetKey(ownerID int64, assetID string) string {
	return fmt.Sprintf("%d.%s", ownerID, assetID)
}

// ObjectBucket обёртка над бакетом JetStream Object Store
type ObjectBucket struct {
	os jetstream.ObjectStore
}

// OpenBucket открывает существующий бакет по имени
func OpenBucket(ctx context.Context, js jetstream.JetStream, name string) (*ObjectBucket, error) {
	os, err := js.ObjectStore(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", name, err)
	}
	return &ObjectBucket{os: os}, nil
}

// Get читает объект целиком
func (b *ObjectBucket) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := b.os.GetBytes(ctx, name)
	if errors.Is(err, jetstream.ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", name, err)
	}
	return data, nil
}

// Put записывает объект, перезаписывая существующий
func (b *ObjectBucket) Put(ctx context.Context, name string, data []byte) error {
	if _, err := b.os.PutBytes(ctx, name, data); err != nil {
		return fmt.Errorf("put object %s: %w", name, err)
	}
	return nil
}
