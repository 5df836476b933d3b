package priority

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	id       *uint64
	priority int
	name     string
}

func (i item) GetID() (uint64, bool) {
	if i.id == nil {
		return 0, false
	}
	return *i.id, true
}

func (i item) GetPriority() int { return i.priority }

func (i item) WithPriority(p int) item {
	i.priority = p
	return i
}

func id(v uint64) *uint64 { return &v }

func names(list []item) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.name
	}
	return out
}

func TestSortIsStable(t *testing.T) {
	list := []item{
		{id: id(1), priority: 2, name: "a"},
		{id: id(2), priority: 0, name: "b"},
		{id: id(3), priority: 2, name: "c"},
		{id: nil, name: "d"},
		{id: id(5), priority: 0, name: "e"},
	}
	sorted := Sort(list)
	assert.Equal(t, []string{"b", "d", "e", "a", "c"}, names(sorted))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names(list), "input must not be reordered")
}

func TestRenumber(t *testing.T) {
	list := []item{
		{id: id(7), priority: 40, name: "a"},
		{id: id(3), priority: -2, name: "b"},
		{id: id(9), priority: 40, name: "c"},
	}
	once := Renumber(list)
	for i, e := range once {
		assert.Equal(t, i, e.priority)
	}
	assert.Equal(t, 40, list[0].priority)
	assert.Equal(t, once, Renumber(once))
}

func TestNextIdentity(t *testing.T) {
	cases := []struct {
		name string
		list []item
		want Identity
	}{
		{name: "empty", list: nil, want: Identity{ID: 1, Priority: -1}},
		{
			name: "contiguous",
			list: []item{{id: id(1), priority: 0}, {id: id(2), priority: 1}},
			want: Identity{ID: 3, Priority: -1},
		},
		{
			name: "gaps and unsaved",
			list: []item{{id: id(10), priority: 4}, {id: nil, priority: 3}, {id: id(4), priority: 9}},
			want: Identity{ID: 11, Priority: 2},
		},
		{
			name: "negative priorities",
			list: []item{{id: id(2), priority: -5}, {id: id(1), priority: 0}},
			want: Identity{ID: 3, Priority: -6},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, NextDuplicateIdentity(c.list))
			assert.Equal(t, c.want, NextAppendIdentity(c.list))
		})
	}
}

func TestDuplicateIdentityIsUnique(t *testing.T) {
	list := []item{{id: id(3), priority: 8}, {id: id(12), priority: -1}, {id: id(5), priority: 0}}
	next := NextDuplicateIdentity(list)
	for _, e := range list {
		assert.Greater(t, next.ID, *e.id)
		assert.Less(t, next.Priority, e.priority)
	}
}
