// Package selection tracks the pair of entities chosen for side-by-side
// comparison and encodes it for the compare URL.
package selection

import "strings"

// Max is the number of entities compared at once.
const Max = 2

// Selection is an ordered set of at most Max ids, oldest first.
type Selection struct {
	ids []string
}

// New builds a selection from ids, keeping the last Max distinct ones.
func New(ids ...string) *Selection {
	s := &Selection{}
	for _, id := range ids {
		if id == "" || s.has(id) {
			continue
		}
		s.add(id)
	}
	return s
}

// Toggle deselects id if it is selected; otherwise selects it, evicting
// the earliest selection when full. Returns the resulting ids.
func (s *Selection) Toggle(id string) []string {
	if id == "" {
		return s.IDs()
	}
	for i, cur := range s.ids {
		if cur == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			return s.IDs()
		}
	}
	s.add(id)
	return s.IDs()
}

func (s *Selection) add(id string) {
	if len(s.ids) == Max {
		s.ids = append(s.ids[:0:0], s.ids[1:]...)
	}
	s.ids = append(s.ids, id)
}

func (s *Selection) has(id string) bool {
	for _, cur := range s.ids {
		if cur == id {
			return true
		}
	}
	return false
}

// IDs returns a copy of the selected ids, oldest first.
func (s *Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Selection) Len() int { return len(s.ids) }

// Ready reports whether exactly Max entities are selected.
func (s *Selection) Ready() bool { return len(s.ids) == Max }

// CompareParam encodes ids for the "slugs" query parameter.
func CompareParam(ids []string) string {
	return strings.Join(ids, ",")
}

// ParseCompareParam decodes a "slugs" parameter: split on commas, trimmed,
// empties and duplicates dropped, at most Max kept.
func ParseCompareParam(s string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
		if len(out) == Max {
			break
		}
	}
	return out
}
