// Package priority holds the ordering rules shared by every host list:
// lower priority sorts first, reorders renumber from zero and new entries
// are placed in front of everything that already exists.
package priority

import (
	"cmp"
	"slices"
)

// Entity is anything carrying an optional backend id and a sort key.
type Entity[T any] interface {
	// GetID reports the backend id, ok is false for entries not yet persisted.
	GetID() (id uint64, ok bool)
	GetPriority() int
	// WithPriority returns a copy with the priority replaced.
	WithPriority(p int) T
}

// Identity is the id/priority pair handed to a freshly created entry.
type Identity struct {
	ID       uint64
	Priority int
}

// Sort returns a copy of list in ascending priority order. Ties keep their
// input order.
func Sort[T Entity[T]](list []T) []T {
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Compare(a.GetPriority(), b.GetPriority())
	})
	return sorted
}

// Renumber returns a copy of list where the element at index i has priority i.
func Renumber[T Entity[T]](list []T) []T {
	out := make([]T, len(list))
	for i, e := range list {
		out[i] = e.WithPriority(i)
	}
	return out
}

// NextDuplicateIdentity picks the identity of a copy of an existing entry.
func NextDuplicateIdentity[T Entity[T]](list []T) Identity {
	return Identity{ID: maxID(list) + 1, Priority: minPriority(list) - 1}
}

// NextAppendIdentity picks the identity of an entry created from a form. It
// follows the same rules as a duplicate so new entries show up first until
// the user moves them.
func NextAppendIdentity[T Entity[T]](list []T) Identity {
	return NextDuplicateIdentity(list)
}

func maxID[T Entity[T]](list []T) uint64 {
	var m uint64
	for _, e := range list {
		if id, ok := e.GetID(); ok && id > m {
			m = id
		}
	}
	return m
}

func minPriority[T Entity[T]](list []T) int {
	if len(list) == 0 {
		return 0
	}
	m := list[0].GetPriority()
	for _, e := range list[1:] {
		m = min(m, e.GetPriority())
	}
	return m
}
