package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftify/logistics-api/internal/core/domain"
	"github.com/swiftify/logistics-api/internal/infrastructure/db/memory"
)

var errDown = errors.New("connection refused")

// flakyParcels wraps a memory store and fails every call while down is set.
type flakyParcels struct {
	*memory.ParcelStore
	down bool
}

func (f *flakyParcels) Save(ctx context.Context, p *domain.Parcel) error {
	if f.down {
		return errDown
	}
	return f.ParcelStore.Save(ctx, p)
}

func (f *flakyParcels) FindByID(ctx context.Context, id string) (*domain.Parcel, error) {
	if f.down {
		return nil, errDown
	}
	return f.ParcelStore.FindByID(ctx, id)
}

func (f *flakyParcels) List(ctx context.Context) ([]*domain.Parcel, error) {
	if f.down {
		return nil, errDown
	}
	return f.ParcelStore.List(ctx)
}

func (f *flakyParcels) Delete(ctx context.Context, id string) error {
	if f.down {
		return errDown
	}
	return f.ParcelStore.Delete(ctx, id)
}

type flakyContacts struct {
	*memory.ContactStore
	down bool
}

func (f *flakyContacts) Append(ctx context.Context, m *domain.ContactMessage) error {
	if f.down {
		return errDown
	}
	return f.ContactStore.Append(ctx, m)
}

func (f *flakyContacts) List(ctx context.Context) ([]*domain.ContactMessage, error) {
	if f.down {
		return nil, errDown
	}
	return f.ContactStore.List(ctx)
}

func newTiered() (*TieredParcels, *flakyParcels, *flakyParcels) {
	durable := &flakyParcels{ParcelStore: memory.NewParcelStore()}
	local := &flakyParcels{ParcelStore: memory.NewParcelStore()}
	return NewTieredParcels(durable, local, zerolog.Nop()), durable, local
}

func TestTieredParcels_SaveMirrorsToLocal(t *testing.T) {
	ctx := context.Background()
	s, durable, local := newTiered()

	require.NoError(t, s.Save(ctx, &domain.Parcel{ID: "SWIFT-1"}))

	_, err := durable.ParcelStore.FindByID(ctx, "SWIFT-1")
	assert.NoError(t, err)
	_, err = local.ParcelStore.FindByID(ctx, "SWIFT-1")
	assert.NoError(t, err)
}

func TestTieredParcels_WriteSurvivesDurableOutage(t *testing.T) {
	ctx := context.Background()
	s, durable, _ := newTiered()
	durable.down = true

	require.NoError(t, s.Save(ctx, &domain.Parcel{ID: "SWIFT-1", Status: domain.StatusPending}))

	got, err := s.FindByID(ctx, "SWIFT-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTieredParcels_SaveFailsOnlyWhenBothTiersFail(t *testing.T) {
	ctx := context.Background()
	s, durable, local := newTiered()

	local.down = true
	assert.NoError(t, s.Save(ctx, &domain.Parcel{ID: "SWIFT-1"}), "durable success covers a failed mirror")

	durable.down = true
	err := s.Save(ctx, &domain.Parcel{ID: "SWIFT-2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDown)
}

func TestTieredParcels_LocalOnly(t *testing.T) {
	ctx := context.Background()
	local := &flakyParcels{ParcelStore: memory.NewParcelStore()}
	s := NewTieredParcels(nil, local, zerolog.Nop())

	require.NoError(t, s.Save(ctx, &domain.Parcel{ID: "SWIFT-1"}))
	_, err := s.FindByID(ctx, "SWIFT-1")
	assert.NoError(t, err)

	local.down = true
	assert.Error(t, s.Save(ctx, &domain.Parcel{ID: "SWIFT-2"}))
}

func TestTieredParcels_FindPrefersDurable(t *testing.T) {
	ctx := context.Background()
	s, durable, local := newTiered()

	require.NoError(t, durable.ParcelStore.Save(ctx, &domain.Parcel{ID: "SWIFT-1", Status: domain.StatusDelivered}))
	require.NoError(t, local.ParcelStore.Save(ctx, &domain.Parcel{ID: "SWIFT-1", Status: domain.StatusPending}))
	require.NoError(t, local.ParcelStore.Save(ctx, &domain.Parcel{ID: "SWIFT-2"}))

	got, err := s.FindByID(ctx, "SWIFT-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, got.Status)

	_, err = s.FindByID(ctx, "SWIFT-2")
	assert.NoError(t, err, "durable miss falls back to local")

	_, err = s.FindByID(ctx, "SWIFT-3")
	assert.ErrorIs(t, err, domain.ErrParcelNotFound)
}

func TestTieredParcels_ListMerges(t *testing.T) {
	ctx := context.Background()
	s, durable, local := newTiered()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, durable.ParcelStore.Save(ctx, &domain.Parcel{ID: "A", Status: "durable", CreatedAt: t0.Add(2 * time.Minute)}))
	require.NoError(t, local.ParcelStore.Save(ctx, &domain.Parcel{ID: "A", Status: "local", CreatedAt: t0.Add(2 * time.Minute)}))
	require.NoError(t, local.ParcelStore.Save(ctx, &domain.Parcel{ID: "B", CreatedAt: t0}))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].ID)
	assert.Equal(t, "A", list[1].ID)
	assert.Equal(t, domain.ParcelStatus("durable"), list[1].Status)
}

func TestTieredParcels_Delete(t *testing.T) {
	ctx := context.Background()
	s, durable, local := newTiered()

	assert.ErrorIs(t, s.Delete(ctx, "missing"), domain.ErrParcelNotFound)

	require.NoError(t, s.Save(ctx, &domain.Parcel{ID: "SWIFT-1"}))
	require.NoError(t, s.Delete(ctx, "SWIFT-1"))
	_, err := s.FindByID(ctx, "SWIFT-1")
	assert.ErrorIs(t, err, domain.ErrParcelNotFound)

	// Only the durable tier knows the record, e.g. written by another process.
	require.NoError(t, durable.ParcelStore.Save(ctx, &domain.Parcel{ID: "SWIFT-2"}))
	assert.NoError(t, s.Delete(ctx, "SWIFT-2"))

	// The durable tier is down; the local copy still goes.
	require.NoError(t, local.ParcelStore.Save(ctx, &domain.Parcel{ID: "SWIFT-3"}))
	durable.down = true
	assert.NoError(t, s.Delete(ctx, "SWIFT-3"))
	assert.ErrorIs(t, s.Delete(ctx, "SWIFT-3"), domain.ErrParcelNotFound)
}

func TestTieredContacts(t *testing.T) {
	ctx := context.Background()
	durable := &flakyContacts{ContactStore: memory.NewContactStore()}
	local := &flakyContacts{ContactStore: memory.NewContactStore()}
	s := NewTieredContacts(durable, local, zerolog.Nop())
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Append(ctx, &domain.ContactMessage{ID: "1", Timestamp: t0}))
	durable.down = true
	require.NoError(t, s.Append(ctx, &domain.ContactMessage{ID: "2", Timestamp: t0.Add(time.Minute)}))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2, "durable outage serves the local copy")

	durable.down = false
	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, "2", list[1].ID)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
