// Package memory holds the process-local tier: parcels keyed by tracking code,
// the append-only contact list, settings and the token revocation list.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/swiftify/logistics-api/internal/core/domain"
)

// ParcelStore keeps parcels in a map. Values are cloned on the way in and out.
type ParcelStore struct {
	mu      sync.RWMutex
	parcels map[string]*domain.Parcel
}

func NewParcelStore() *ParcelStore {
	return &ParcelStore{parcels: make(map[string]*domain.Parcel)}
}

func (s *ParcelStore) Save(_ context.Context, p *domain.Parcel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parcels[p.ID] = p.Clone()
	return nil
}

func (s *ParcelStore) FindByID(_ context.Context, id string) (*domain.Parcel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.parcels[id]
	if !ok {
		return nil, domain.ErrParcelNotFound
	}
	return p.Clone(), nil
}

func (s *ParcelStore) List(_ context.Context) ([]*domain.Parcel, error) {
	s.mu.RLock()
	out := make([]*domain.Parcel, 0, len(s.parcels))
	for _, p := range s.parcels {
		out = append(out, p.Clone())
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *ParcelStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.parcels[id]; !ok {
		return domain.ErrParcelNotFound
	}
	delete(s.parcels, id)
	return nil
}

func (s *ParcelStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.parcels), nil
}

// ContactStore is an append-only list of contact messages.
type ContactStore struct {
	mu       sync.RWMutex
	messages []domain.ContactMessage
}

func NewContactStore() *ContactStore {
	return &ContactStore{}
}

func (s *ContactStore) Append(_ context.Context, m *domain.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, *m)
	return nil
}

func (s *ContactStore) List(_ context.Context) ([]*domain.ContactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.ContactMessage, len(s.messages))
	for i := range s.messages {
		m := s.messages[i]
		out[i] = &m
	}
	return out, nil
}

func (s *ContactStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages), nil
}

// SettingsStore is the settings record used when Redis is not configured.
type SettingsStore struct {
	mu     sync.RWMutex
	values domain.Settings
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{values: domain.Settings{}}
}

func (s *SettingsStore) Get(_ context.Context) (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked(), nil
}

func (s *SettingsStore) Merge(_ context.Context, values domain.Settings) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
	return s.copyLocked(), nil
}

func (s *SettingsStore) copyLocked() domain.Settings {
	out := make(domain.Settings, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// RevocationList remembers revoked token ids until their expiry.
type RevocationList struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewRevocationList() *RevocationList {
	return &RevocationList{expires: make(map[string]time.Time), now: time.Now}
}

func (l *RevocationList) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.expires[tokenID] = now.Add(ttl)
	// Expired ids are reclaimed on write so the map stays bounded by live tokens.
	for id, exp := range l.expires {
		if !exp.After(now) {
			delete(l.expires, id)
		}
	}
	return nil
}

func (l *RevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	exp, ok := l.expires[tokenID]
	if !ok {
		return false, nil
	}
	if !exp.After(l.now()) {
		delete(l.expires, tokenID)
		return false, nil
	}
	return true, nil
}
