// Package bolt is the on-disk local tier. Each collection is one bucket of
// JSON values; the file survives restarts, unlike the memory tier.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/swiftify/logistics-api/internal/core/domain"
)

var (
	parcelsBucket  = []byte("parcels")
	contactsBucket = []byte("contact_messages")
)

// DB wraps a Bolt file holding both collections.
type DB struct {
	db *bolt.DB
}

// Open opens (or creates) the file at path and ensures both buckets exist.
func Open(path string) (*DB, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt open: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{parcelsBucket, contactsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bolt buckets: %w", err)
	}

	return &DB{db: db}, nil
}

// Close releases the file lock.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Parcels() *ParcelStore {
	return &ParcelStore{db: d.db}
}

func (d *DB) Contacts() *ContactStore {
	return &ContactStore{db: d.db}
}

// ParcelStore keeps parcels keyed by tracking code.
type ParcelStore struct {
	db *bolt.DB
}

func (s *ParcelStore) Save(_ context.Context, p *domain.Parcel) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(parcelsBucket).Put([]byte(p.ID), data)
	})
}

func (s *ParcelStore) FindByID(_ context.Context, id string) (*domain.Parcel, error) {
	var p domain.Parcel
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(parcelsBucket).Get([]byte(id))
		if v == nil {
			return domain.ErrParcelNotFound
		}
		return json.Unmarshal(v, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ParcelStore) List(_ context.Context) ([]*domain.Parcel, error) {
	items := []*domain.Parcel{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(parcelsBucket).ForEach(func(_, v []byte) error {
			var p domain.Parcel
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			items = append(items, &p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (s *ParcelStore) Delete(_ context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(parcelsBucket)
		if b.Get([]byte(id)) == nil {
			return domain.ErrParcelNotFound
		}
		return b.Delete([]byte(id))
	})
}

func (s *ParcelStore) Count(_ context.Context) (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(parcelsBucket).Stats().KeyN
		return nil
	})
	return n, err
}

// ContactStore appends messages under a monotonically increasing sequence key,
// so cursor order is insertion order.
type ContactStore struct {
	db *bolt.DB
}

func (s *ContactStore) Append(_ context.Context, m *domain.ContactMessage) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(contactsBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, data)
	})
}

func (s *ContactStore) List(_ context.Context) ([]*domain.ContactMessage, error) {
	items := []*domain.ContactMessage{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(contactsBucket).ForEach(func(_, v []byte) error {
			var m domain.ContactMessage
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			items = append(items, &m)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ContactStore) Count(_ context.Context) (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(contactsBucket).Stats().KeyN
		return nil
	})
	return n, err
}
