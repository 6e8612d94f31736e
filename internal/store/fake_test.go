package store

import "github.com/abhisek/patterndrill/internal/catalog"

// fakeEntities is an entity catalog holding bare ids.
type fakeEntities []string

func (f fakeEntities) Entity(id string) (catalog.Entity, bool) {
	for _, e := range f {
		if e == id {
			return catalog.Entity{ID: e}, true
		}
	}
	return catalog.Entity{}, false
}

func (f fakeEntities) Entities() []catalog.Entity {
	out := make([]catalog.Entity, len(f))
	for i, id := range f {
		out[i] = catalog.Entity{ID: id}
	}
	return out
}
