// Package hostlist holds the editable host collection. Every mutation
// replaces the whole snapshot; callers never see a partially applied change.
package hostlist

import (
	"slices"
	"sync"

	"github.com/jinzhu/copier"

	"github.com/naiba/hostdeck/model"
	"github.com/naiba/hostdeck/pkg/priority"
)

// Store is the canonical in-memory host list.
type Store struct {
	lock     sync.RWMutex
	hosts    []model.Host
	version  uint64
	onChange func()
}

func New() *Store {
	return &Store{}
}

// OnChange registers fn to be called after every mutation that changed the
// collection. Load does not call it. fn runs while the store lock is held and
// must not call back into the store.
func (s *Store) OnChange(fn func()) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.onChange = fn
}

// Load replaces the whole collection with hosts received from the panel.
func (s *Store) Load(hosts []model.Host) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.hosts = cloneHosts(hosts)
	s.version++
}

// Version changes on every Load and on every mutation that changed the
// collection.
func (s *Store) Version() uint64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.version
}

// LoadIfUnchanged is Load, but only when the collection is still at version.
// It reports whether hosts were taken.
func (s *Store) LoadIfUnchanged(hosts []model.Host, version uint64) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.version != version {
		return false
	}
	s.hosts = cloneHosts(hosts)
	s.version++
	return true
}

// DeleteByID drops the host with the given id. Remaining priorities are
// left as they are.
func (s *Store) DeleteByID(id uint64) bool {
	return s.mutate(func(hosts []model.Host) []model.Host {
		i := indexOf(hosts, id)
		if i < 0 {
			return nil
		}
		return slices.Delete(slices.Clone(hosts), i, i+1)
	})
}

func (s *Store) ToggleDisabled(id uint64) bool {
	return s.mutate(func(hosts []model.Host) []model.Host {
		i := indexOf(hosts, id)
		if i < 0 {
			return nil
		}
		next := slices.Clone(hosts)
		next[i].IsDisabled = !next[i].IsDisabled
		return next
	})
}

// Duplicate appends a copy of the host with the given id. The copy takes a
// fresh id and sorts before every other host.
func (s *Store) Duplicate(id uint64) bool {
	return s.mutate(func(hosts []model.Host) []model.Host {
		i := indexOf(hosts, id)
		if i < 0 {
			return nil
		}
		ident := priority.NextDuplicateIdentity(hosts)
		dup := cloneHost(hosts[i])
		dup.ID = &ident.ID
		dup.Priority = ident.Priority
		return append(slices.Clone(hosts), dup)
	})
}

// Reorder moves the source host to the display index of the target host and
// renumbers the whole collection from zero, so storage order and display
// order agree afterwards.
func (s *Store) Reorder(sourceID, targetID uint64) bool {
	if sourceID == targetID {
		return false
	}
	return s.mutate(func(hosts []model.Host) []model.Host {
		sorted := priority.Sort(hosts)
		from, to := indexOf(sorted, sourceID), indexOf(sorted, targetID)
		if from < 0 || to < 0 {
			return nil
		}
		moved := sorted[from]
		next := slices.Delete(sorted, from, from+1)
		next = slices.Insert(next, to, moved)
		return priority.Renumber(next)
	})
}

// Upsert merges the form into the host being edited, or appends a new host
// when editingID is nil or unknown.
func (s *Store) Upsert(form model.HostForm, editingID *uint64) uint64 {
	var id uint64
	s.mutate(func(hosts []model.Host) []model.Host {
		if editingID != nil {
			if i := indexOf(hosts, *editingID); i >= 0 {
				next := slices.Clone(hosts)
				next[i].ApplyForm(form)
				id = *editingID
				return next
			}
		}
		ident := priority.NextAppendIdentity(hosts)
		h := model.Host{ID: &ident.ID, Priority: ident.Priority}
		h.ApplyForm(form)
		id = ident.ID
		return append(slices.Clone(hosts), h)
	})
	return id
}

// Snapshot returns a deep copy of the collection in storage order.
func (s *Store) Snapshot() []model.Host {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return cloneHosts(s.hosts)
}

// Sorted returns a deep copy of the collection ordered by priority.
func (s *Store) Sorted() []model.Host {
	return priority.Sort(s.Snapshot())
}

// SortableIDs lists, in display order, the hosts that can take part in a
// drag. Hosts not yet persisted have no id and are left out.
func (s *Store) SortableIDs() []uint64 {
	sorted := s.Sorted()
	ids := make([]uint64, 0, len(sorted))
	for _, h := range sorted {
		if id, ok := h.GetID(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Store) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.hosts)
}

// mutate runs fn against the current hosts. A nil result means nothing
// changed. The version bump and the change hook happen under one lock, so
// a reader that saw the new version also sees the hook's effect.
func (s *Store) mutate(fn func([]model.Host) []model.Host) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	next := fn(s.hosts)
	if next == nil {
		return false
	}
	s.hosts = next
	s.version++
	if s.onChange != nil {
		s.onChange()
	}
	return true
}

func indexOf(hosts []model.Host, id uint64) int {
	return slices.IndexFunc(hosts, func(h model.Host) bool {
		return h.HasID(id)
	})
}

func cloneHost(h model.Host) model.Host {
	var c model.Host
	if err := copier.CopyWithOption(&c, &h, copier.Option{DeepCopy: true}); err != nil {
		return h
	}
	return c
}

func cloneHosts(hosts []model.Host) []model.Host {
	out := make([]model.Host, len(hosts))
	for i, h := range hosts {
		out[i] = cloneHost(h)
	}
	return out
}
