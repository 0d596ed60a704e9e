package storage_pairs

import (
	"sync"

	"github.com/PraiseKol/crossroads/internal/model"
)

// PageKey identifies one paginated feed scope. Switching category or the
// pinned exclusion yields a different key with its own page sequence.
type PageKey struct {
	Category  model.Category
	ExcludeID model.PairID
}

// Store holds every pair entry rendered by any view: ordered page entries
// keyed by scope and 1-based page index, and single-pair entries keyed by
// id. All tally mutations go through PatchTally / ReplaceTally and are
// applied to the full set of entries holding the pair under one lock, so a
// reader never observes some entries updated and others not.
type Store struct {
	mu        sync.RWMutex
	pages     map[PageKey][][]model.Pair
	exhausted map[PageKey]bool
	singles   map[model.PairID]model.Pair
}

func New() *Store {
	return &Store{
		pages:     make(map[PageKey][][]model.Pair),
		exhausted: make(map[PageKey]bool),
		singles:   make(map[model.PairID]model.Pair),
	}
}

// Page returns the cached page at the 1-based index, if present.
func (s *Store) Page(key PageKey, index int) ([]model.Pair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq := s.pages[key]
	if index < 1 || index > len(seq) {
		return nil, false
	}
	return clonePage(seq[index-1]), true
}

// SetPage stores a fetched page. Pages must be stored in index order; an
// out-of-order index is ignored (the fetch it came from was superseded).
// An empty page marks the key exhausted.
func (s *Store) SetPage(key PageKey, index int, pairs []model.Pair) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.pages[key]
	switch {
	case index == len(seq)+1:
		if len(pairs) == 0 {
			s.exhausted[key] = true
			return
		}
		s.pages[key] = append(seq, clonePage(pairs))
	case index >= 1 && index <= len(seq):
		s.pages[key][index-1] = clonePage(pairs)
	}
}

// Exhausted reports whether a fetch for this key returned an empty page,
// which permanently suppresses further page requests until the key changes.
func (s *Store) Exhausted(key PageKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exhausted[key]
}

// PageCount returns how many pages are cached for the key.
func (s *Store) PageCount(key PageKey) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages[key])
}

// Flatten returns all cached pages for the key concatenated in order.
func (s *Store) Flatten(key PageKey) []model.Pair {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Pair
	for _, page := range s.pages[key] {
		out = append(out, clonePage(page)...)
	}
	return out
}

// Invalidate drops the page entries for a key so the next request refetches.
// Single-pair entries are left alone.
func (s *Store) Invalidate(key PageKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pages, key)
	delete(s.exhausted, key)
}

func (s *Store) Single(id model.PairID) (model.Pair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.singles[id]
	if !ok {
		return model.Pair{}, false
	}
	return clonePair(p), true
}

// Find returns the pair from any entry holding it, preferring the single
// entry (it carries the fresher vote records on direct-link views).
func (s *Store) Find(id model.PairID) (model.Pair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.singles[id]; ok {
		return clonePair(p), true
	}
	for _, seq := range s.pages {
		for _, page := range seq {
			for i := range page {
				if page[i].ID == id {
					return clonePair(page[i]), true
				}
			}
		}
	}
	return model.Pair{}, false
}

func (s *Store) SetSingle(p model.Pair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.singles[p.ID] = clonePair(p)
}

// PatchTally adds delta to one option's counter in every entry holding the
// pair. Vote records are not touched.
func (s *Store) PatchTally(id model.PairID, choice model.Choice, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.eachEntry(id, func(p *model.Pair) {
		if choice == model.ChoiceA {
			p.Votes.A += delta
		} else {
			p.Votes.B += delta
		}
	})
}

// ReplaceTally overwrites both counters unconditionally in every entry
// holding the pair. This is the conflict-resolution primitive: an
// authoritative count always wins over a locally derived delta, and the
// last replacement applied wins over earlier ones.
func (s *Store) ReplaceTally(id model.PairID, tally model.Tally) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.eachEntry(id, func(p *model.Pair) {
		p.Votes = tally
	})
}

func (s *Store) eachEntry(id model.PairID, fn func(*model.Pair)) {
	for key, seq := range s.pages {
		for pi, page := range seq {
			for i := range page {
				if page[i].ID == id {
					fn(&s.pages[key][pi][i])
				}
			}
		}
	}
	if p, ok := s.singles[id]; ok {
		fn(&p)
		s.singles[id] = p
	}
}

type snapshotEntry struct {
	key   PageKey
	page  int
	index int
	pair  model.Pair
}

// Snapshot captures the current state of every entry holding the pair, for
// rollback after a failed optimistic patch.
type Snapshot struct {
	id      model.PairID
	entries []snapshotEntry
	single  *model.Pair
}

func (s *Store) Snapshot(id model.PairID) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{id: id}
	for key, seq := range s.pages {
		for pi, page := range seq {
			for i := range page {
				if page[i].ID == id {
					snap.entries = append(snap.entries, snapshotEntry{
						key:   key,
						page:  pi,
						index: i,
						pair:  clonePair(page[i]),
					})
				}
			}
		}
	}
	if p, ok := s.singles[id]; ok {
		cp := clonePair(p)
		snap.single = &cp
	}
	return snap
}

// Restore puts every entry captured by the snapshot back, atomically over
// the whole set. Entries that disappeared since the capture (page dropped
// by Invalidate) are skipped.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range snap.entries {
		seq, ok := s.pages[e.key]
		if !ok || e.page >= len(seq) || e.index >= len(seq[e.page]) {
			continue
		}
		if seq[e.page][e.index].ID == snap.id {
			seq[e.page][e.index] = clonePair(e.pair)
		}
	}
	if snap.single != nil {
		if _, ok := s.singles[snap.id]; ok {
			s.singles[snap.id] = clonePair(*snap.single)
		}
	}
}

func clonePair(p model.Pair) model.Pair {
	cp := p
	if p.Voters != nil {
		cp.Voters = make([]model.Vote, len(p.Voters))
		copy(cp.Voters, p.Voters)
	}
	return cp
}

func clonePage(page []model.Pair) []model.Pair {
	out := make([]model.Pair, len(page))
	for i, p := range page {
		out[i] = clonePair(p)
	}
	return out
}
