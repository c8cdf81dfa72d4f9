package catalog

import (
	"strings"

	"github.com/texuddy/texuddy/internal/model"
)

// Filter selects exercises. Zero fields match everything.
type Filter struct {
	Age        int
	Difficulty model.Difficulty
	Category   string
	Exclude    []map[string]struct{}
}

// Match reports whether ex passes the filter.
func (f Filter) Match(ex model.Exercise) bool {
	if f.Age > 0 && ex.Age > 0 && ex.Age > f.Age {
		return false
	}
	if f.Difficulty != "" && ex.Difficulty != f.Difficulty {
		return false
	}
	if f.Category != "" && !strings.EqualFold(ex.Category, f.Category) {
		return false
	}
	for _, set := range f.Exclude {
		if _, ok := set[ex.ID]; ok {
			return false
		}
	}
	return true
}

// Select returns the exercises in c that pass f, in catalog order.
func (c *Catalog) Select(f Filter) []model.Exercise {
	var out []model.Exercise
	for _, ex := range c.exercises {
		if f.Match(ex) {
			out = append(out, ex)
		}
	}
	return out
}
