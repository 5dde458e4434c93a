package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polidex/internal/models"
	"polidex/internal/search"
)

type listBody[T any] struct {
	Data []T      `json:"data"`
	Meta listMeta `json:"meta"`
}

func TestParties_DefaultOrderAndAggregates(t *testing.T) {
	env := newTestEnv(t)
	rr := env.get(t, "/api/parties")
	require.Equal(t, http.StatusOK, rr.Code)

	var body listBody[models.Party]
	decode(t, rr, &body)

	require.Len(t, body.Data, 3)
	assert.Equal(t, []string{"Pragati Morcha", "Lok Janata Party", "Goa Front"},
		[]string{body.Data[0].Name, body.Data[1].Name, body.Data[2].Name})

	assert.Equal(t, "seats", body.Meta.Sort)
	assert.Equal(t, "desc", string(body.Meta.Dir))
	assert.Equal(t, 1, body.Meta.Page)
	assert.Equal(t, 20, body.Meta.PageSize)
	assert.Equal(t, 3, body.Meta.Total)
	assert.Equal(t, 1246, body.Meta.Aggregates.Sum)
	assert.Equal(t, map[string]int{"national": 1, "state": 1}, body.Meta.Aggregates.Buckets)
	assert.Equal(t, []string{"National Party", "State Party", "Unrecognised"}, body.Meta.Facets["status"])
	assert.NotEmpty(t, body.Meta.CK)
}

func TestParties_FiltersAndSort(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"min seats", "min_seats=10", []string{"Pragati Morcha", "Lok Janata Party"}},
		{"status facet case-insensitive", "status=state%20party", []string{"Lok Janata Party"}},
		{"free text on abbreviation", "q=ljp", []string{"Lok Janata Party"}},
		{"name ascending", "sort=name", []string{"Goa Front", "Lok Janata Party", "Pragati Morcha"}},
		{"unknown sort falls back", "sort=colour", []string{"Pragati Morcha", "Lok Janata Party", "Goa Front"}},
		{"nothing matches", "q=zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.get(t, "/api/parties?"+tt.query)
			require.Equal(t, http.StatusOK, rr.Code)

			var body listBody[models.Party]
			decode(t, rr, &body)
			names := []string{}
			for _, p := range body.Data {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestParties_PageResetsWhenCriteriaChange(t *testing.T) {
	env := newTestEnv(t)

	var first listBody[models.Party]
	decode(t, env.get(t, "/api/parties"), &first)
	ck := url.QueryEscape(first.Meta.CK)

	// Same criteria: the requested page is honoured, even past the end.
	var same listBody[models.Party]
	decode(t, env.get(t, "/api/parties?page=2&ck="+ck), &same)
	assert.Equal(t, 2, same.Meta.Page)
	assert.Empty(t, same.Data)

	// Changed criteria: back to page 1.
	var changed listBody[models.Party]
	decode(t, env.get(t, "/api/parties?page=2&sort=name&ck="+ck), &changed)
	assert.Equal(t, 1, changed.Meta.Page)
	assert.Len(t, changed.Data, 3)
}

func TestParties_InvalidParams(t *testing.T) {
	env := newTestEnv(t)
	rr := env.get(t, "/api/parties?page=0")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body errorBody
	decode(t, rr, &body)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "page", body.Details[0].Field)

	for _, page := range []string{"9223372036854775807", "10001"} {
		assert.Equal(t, http.StatusBadRequest, env.get(t, "/api/parties?page="+page).Code, "page=%s", page)
	}
}

func TestPoliticians_List(t *testing.T) {
	env := newTestEnv(t)

	var body listBody[models.Politician]
	decode(t, env.get(t, "/api/politicians"), &body)
	require.Len(t, body.Data, 3)
	assert.Equal(t, "Asha Rao", body.Data[0].Name)
	assert.Equal(t, "Émile Dsouza", body.Data[1].Name)
	assert.Equal(t, []string{"Lok Janata Party", "Pragati Morcha"}, body.Meta.Facets["party"])

	var folded listBody[models.Politician]
	decode(t, env.get(t, "/api/politicians?q=emile"), &folded)
	require.Len(t, folded.Data, 1)
	assert.Equal(t, "emile-dsouza", folded.Data[0].Slug)

	var byAge listBody[models.Politician]
	decode(t, env.get(t, "/api/politicians?sort=age&dir=desc&party=Pragati%20Morcha"), &byAge)
	require.Len(t, byAge.Data, 2)
	assert.Equal(t, "Asha Rao", byAge.Data[0].Name)
}

func TestLatestPoliticians(t *testing.T) {
	env := newTestEnv(t)

	var body struct {
		Data []models.Politician `json:"data"`
	}
	decode(t, env.get(t, "/api/politicians/latest?n=2"), &body)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Émile Dsouza", body.Data[0].Name)
	assert.Equal(t, "Vikram Sethi", body.Data[1].Name)

	assert.Equal(t, http.StatusBadRequest, env.get(t, "/api/politicians/latest?n=x").Code)
}

func TestPartyDetail(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get(t, "/api/parties/PRAGATI-MORCHA")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data map[string]any `json:"data"`
	}
	decode(t, rr, &body)
	assert.Equal(t, "Pragati Morcha", body.Data["name"])
	assert.Equal(t, float64(1234), body.Data["seats"])
	assert.Contains(t, body.Data["details_html"], "<em>farmers")
}

func TestPoliticianDetail(t *testing.T) {
	env := newTestEnv(t)

	for _, ref := range []string{"asha-rao", "recPOL00000000001"} {
		t.Run(ref, func(t *testing.T) {
			rr := env.get(t, "/api/politicians/"+ref)
			require.Equal(t, http.StatusOK, rr.Code)

			var body struct {
				Data map[string]any `json:"data"`
			}
			decode(t, rr, &body)
			assert.Equal(t, "asha-rao", body.Data["slug"])
			assert.Contains(t, body.Data["life_events_html"], "<strong>2019</strong>")
		})
	}
}

func TestDetailNotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{"/api/politicians/nobody", "/api/parties/recPTY99999999999"} {
		t.Run(target, func(t *testing.T) {
			rr := env.get(t, target)
			require.Equal(t, http.StatusNotFound, rr.Code)

			var body errorBody
			decode(t, rr, &body)
			assert.Equal(t, "NOT_FOUND", body.Code)
		})
	}
}

func TestComparePoliticians(t *testing.T) {
	env := newTestEnv(t)

	var body struct {
		Data comparison[models.Politician] `json:"data"`
	}
	decode(t, env.get(t, "/api/politicians/compare?slugs=asha-rao,nobody,vikram-sethi"), &body)

	// Only the first two distinct slugs are considered.
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, "Asha Rao", body.Data.Items[0].Name)
	assert.Equal(t, []string{"nobody"}, body.Data.Missing)

	assert.Equal(t, http.StatusBadRequest, env.get(t, "/api/politicians/compare?slugs=,").Code)
}

func TestCompareParties(t *testing.T) {
	env := newTestEnv(t)

	var body struct {
		Data comparison[models.Party] `json:"data"`
	}
	decode(t, env.get(t, "/api/parties/compare?slugs=goa-front,lok-janata-party"), &body)
	require.Len(t, body.Data.Items, 2)
	assert.Equal(t, "Goa Front", body.Data.Items[0].Name)
	assert.Empty(t, body.Data.Missing)
}

func TestSelection(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		query   string
		want    []string
		ready   bool
		compare string
	}{
		{"toggle=a", []string{"a"}, false, "a"},
		{"selected=a&toggle=b", []string{"a", "b"}, true, "a,b"},
		{"selected=a,b&toggle=c", []string{"b", "c"}, true, "b,c"},
		{"selected=a,b&toggle=a", []string{"b"}, false, "b"},
		{"", []string{}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var body struct {
				Data selectionState `json:"data"`
			}
			decode(t, env.get(t, "/api/selection?"+tt.query), &body)
			assert.Equal(t, tt.want, body.Data.Selected)
			assert.Equal(t, tt.ready, body.Data.Ready)
			assert.Equal(t, tt.compare, body.Data.Compare)
		})
	}
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)

	var body struct {
		Data search.Result `json:"data"`
	}
	decode(t, env.get(t, "/api/search?q=pragati"), &body)
	assert.Equal(t, "pragati", body.Data.Query)
	assert.Equal(t, 2, body.Data.Totals.Politicians)
	assert.Equal(t, 1, body.Data.Totals.Parties)

	before := env.source.queries
	var empty struct {
		Data search.Result `json:"data"`
	}
	decode(t, env.get(t, "/api/search?q=%20%20"), &empty)
	assert.Empty(t, empty.Data.Hits)
	assert.Equal(t, before, env.source.queries, "blank query must not reach the store")
}

func TestResponsesAreJSON(t *testing.T) {
	env := newTestEnv(t)
	rr := env.get(t, "/api/parties")
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.True(t, json.Valid(rr.Body.Bytes()))
}
