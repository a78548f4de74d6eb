package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/beabot/beatoken/internal/core/domain"
	"github.com/beabot/beatoken/internal/core/service"
)

var _ service.TokenRepository = (*Store)(nil)

// Store is the in-memory authority over live token records.
//
// One mutex guards the record map and its agent, user and environment
// indexes, so every operation is linearizable against every other. Records
// are cloned on the way in and on the way out; no caller ever holds a
// reference into the map.
type Store struct {
	mu sync.RWMutex

	// Primary index: token id -> record
	records map[string]*domain.Record

	// Secondary indexes: key -> set of token ids
	byAgent *Index
	byUser  *Index
	byEnv   *Index // keyed by normalized environment name
}

// New creates an empty record store.
func New() *Store {
	return &Store{
		records: make(map[string]*domain.Record),
		byAgent: NewIndex(),
		byUser:  NewIndex(),
		byEnv:   NewIndex(),
	}
}

// Insert stores rec under rec.ID, replacing any record with the same id.
func (s *Store) Insert(_ context.Context, rec *domain.Record) error {
	if rec == nil || rec.ID == "" {
		return domain.ErrTokenValidation.WithDetails("record id is required")
	}
	clone := rec.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.records[clone.ID]; ok {
		s.unindex(old)
	}
	s.records[clone.ID] = clone
	s.byAgent.Add(clone.AgentID, clone.ID)
	s.byUser.Add(clone.UserID, clone.ID)
	s.byEnv.Add(clone.NormalizedEnvironment(), clone.ID)
	return nil
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(_ context.Context, id string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	return rec.Clone(), nil
}

// Remove deletes the record with the given id and returns it.
func (s *Store) Remove(_ context.Context, id string) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	delete(s.records, id)
	s.unindex(rec)
	return rec, nil
}

// ListByAgent returns the live records associated with agentID.
func (s *Store) ListByAgent(_ context.Context, agentID string) ([]*domain.Record, error) {
	return s.list(s.byAgent, agentID), nil
}

// ListByUser returns the live records associated with userID.
func (s *Store) ListByUser(_ context.Context, userID string) ([]*domain.Record, error) {
	return s.list(s.byUser, userID), nil
}

// ListByEnvironment returns the live records whose environment normalizes
// to the same name as env.
func (s *Store) ListByEnvironment(_ context.Context, env string) ([]*domain.Record, error) {
	return s.list(s.byEnv, domain.NormalizeEnvironment(env)), nil
}

// Count returns the number of live records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// All returns copies of every live record ordered by id, which is issuance
// order.
func (s *Store) All(_ context.Context) ([]*domain.Record, error) {
	s.mu.RLock()
	out := make([]*domain.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	s.mu.RUnlock()

	sortByID(out)
	return out, nil
}

func (s *Store) list(idx *Index, key string) []*domain.Record {
	if key == "" {
		return []*domain.Record{}
	}

	s.mu.RLock()
	ids := idx.IDs(key)
	out := make([]*domain.Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := s.records[id]; ok {
			out = append(out, rec.Clone())
		}
	}
	s.mu.RUnlock()

	sortByID(out)
	return out
}

// unindex removes rec from the secondary indexes. Caller holds s.mu.
func (s *Store) unindex(rec *domain.Record) {
	s.byAgent.Remove(rec.AgentID, rec.ID)
	s.byUser.Remove(rec.UserID, rec.ID)
	s.byEnv.Remove(rec.NormalizedEnvironment(), rec.ID)
}

func sortByID(recs []*domain.Record) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
}
