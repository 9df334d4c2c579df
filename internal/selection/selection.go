// Package selection tracks which user records are selected in a listing.
package selection

import "sort"

// Tracker is a set of selected user ids. The zero value is an empty
// selection ready to use.
type Tracker struct {
	ids map[int]struct{}
}

// New returns a tracker holding the given ids.
func New(ids ...int) *Tracker {
	t := &Tracker{}
	for _, id := range ids {
		t.add(id)
	}
	return t
}

func (t *Tracker) add(id int) {
	if t.ids == nil {
		t.ids = make(map[int]struct{})
	}
	t.ids[id] = struct{}{}
}

// Toggle flips membership of id.
func (t *Tracker) Toggle(id int) {
	if t.Has(id) {
		delete(t.ids, id)
		return
	}
	t.add(id)
}

// SelectAll adds (checked) or removes (!checked) exactly the given ids,
// leaving every other selection untouched.
func (t *Tracker) SelectAll(ids []int, checked bool) {
	for _, id := range ids {
		if checked {
			t.add(id)
		} else {
			delete(t.ids, id)
		}
	}
}

// Clear empties the selection.
func (t *Tracker) Clear() {
	t.ids = nil
}

// Prune drops every selected id that is not in known.
func (t *Tracker) Prune(known []int) {
	if len(t.ids) == 0 {
		return
	}
	keep := make(map[int]struct{}, len(known))
	for _, id := range known {
		keep[id] = struct{}{}
	}
	for id := range t.ids {
		if _, ok := keep[id]; !ok {
			delete(t.ids, id)
		}
	}
}

// Has reports whether id is selected.
func (t *Tracker) Has(id int) bool {
	_, ok := t.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (t *Tracker) Len() int {
	return len(t.ids)
}

// IDs returns the selected ids in ascending order.
func (t *Tracker) IDs() []int {
	out := make([]int, 0, len(t.ids))
	for id := range t.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// CountOf returns how many of ids are selected.
func (t *Tracker) CountOf(ids []int) int {
	n := 0
	for _, id := range ids {
		if t.Has(id) {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (t *Tracker) Clone() *Tracker {
	c := &Tracker{}
	for id := range t.ids {
		c.add(id)
	}
	return c
}
