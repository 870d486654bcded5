// Package cache holds the latest Task/Dispute snapshots for the read-model
// API. Writes replace snapshots wholesale, so readers never observe a
// half-merged entity.
package cache

import (
	"sort"
	"sync"

	markettypes "github.com/linguoexchange/linguo-backend/internal/marketplace/types"
	pkgtypes "github.com/linguoexchange/linguo-backend/pkg/types"
)

// Snapshot pairs a task with its dispute view. Tasks without a dispute
// carry the sentinel NoDispute value. TranslatorDeposit is the contract's
// current deposit quote for biddable tasks, nil when not applicable or the
// read failed.
type Snapshot struct {
	Task              markettypes.Task
	Dispute           markettypes.Dispute
	TranslatorDeposit *pkgtypes.BigInt
}

type Store struct {
	mu        sync.RWMutex
	snapshots map[uint64]Snapshot
}

func NewStore() *Store {
	return &Store{
		snapshots: make(map[uint64]Snapshot),
	}
}

// Put commits a freshly built snapshot, replacing any previous one.
func (s *Store) Put(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.Task.ID] = snapshot
}

// Get returns the snapshot for a task id.
func (s *Store) Get(taskID uint64) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[taskID]
	return snapshot, ok
}

// List returns all snapshots ordered by task id.
func (s *Store) List() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Snapshot, 0, len(s.snapshots))
	for _, snapshot := range s.snapshots {
		out = append(out, snapshot)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Task.ID < out[j].Task.ID
	})
	return out
}

// Len returns the number of cached snapshots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

// ApplyTask runs an optimistic mutation against the cached task and
// commits the result. Last writer wins: these projections are superseded
// by the next refetch anyway.
func (s *Store) ApplyTask(taskID uint64, mutate func(markettypes.Task) markettypes.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.snapshots[taskID]
	if !ok {
		return false
	}
	snapshot.Task = mutate(snapshot.Task)
	s.snapshots[taskID] = snapshot
	return true
}

// ApplyDispute runs an optimistic mutation against the cached dispute and
// commits the result.
func (s *Store) ApplyDispute(taskID uint64, mutate func(markettypes.Dispute) markettypes.Dispute) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.snapshots[taskID]
	if !ok {
		return false
	}
	snapshot.Dispute = mutate(snapshot.Dispute)
	s.snapshots[taskID] = snapshot
	return true
}
