package view

// State holds the criteria and current page of one interactive view.
// Changing any filter or the sort returns to page 1.
type State struct {
	criteria Criteria
	page     int
}

// NewState starts a view on page 1.
func NewState(c Criteria) *State {
	return &State{criteria: c, page: 1}
}

func (s *State) Criteria() Criteria { return s.criteria }
func (s *State) Page() int          { return s.page }

func (s *State) SetQuery(q string) {
	s.criteria.Query = q
	s.page = 1
}

// SetFacet sets or, with an empty value, clears a facet filter.
func (s *State) SetFacet(name, value string) {
	facets := make(map[string]string, len(s.criteria.Facets)+1)
	for k, v := range s.criteria.Facets {
		facets[k] = v
	}
	if value == "" {
		delete(facets, name)
	} else {
		facets[name] = value
	}
	s.criteria.Facets = facets
	s.page = 1
}

func (s *State) SetMinTier(n int) {
	s.criteria.MinTier = n
	s.page = 1
}

func (s *State) SetSort(key string, dir Direction) {
	s.criteria.Sort = key
	s.criteria.Dir = dir
	s.page = 1
}

// SetPage moves to page n, clamped to 1.
func (s *State) SetPage(n int) {
	s.page = max(n, 1)
}

// Resume applies the page-reset rule across stateless requests. prevKey
// is the Criteria.Key the client saw when it chose page; if the criteria
// have changed since, the view restarts at page 1.
func Resume(prevKey string, c Criteria, page int) int {
	if prevKey != "" && prevKey != c.Key() {
		return 1
	}
	return max(page, 1)
}
