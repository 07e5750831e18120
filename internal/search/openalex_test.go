// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

const openAlexWorksJSON = `{"meta":{"count":2,"per_page":25,"page":1},"results":[
  {"id":"https://openalex.org/W2963403868","title":"Deep Residual Learning for Image Recognition",
   "doi":"https://doi.org/10.1109/cvpr.2016.90","publication_year":2016,"cited_by_count":150000,
   "authorships":[{"author":{"display_name":"Kaiming He"}},{"author":{"display_name":""}}],
   "abstract_inverted_index":{"Deeper":[0],"networks":[1],"are":[2],"hard":[3]},
   "primary_location":{"source":{"display_name":"CVPR"}},
   "referenced_works":["https://openalex.org/W1","https://openalex.org/W2"]},
  {"id":"https://openalex.org/W99","title":"No DOI","publication_year":2020,
   "primary_location":{"source":null}}
]}`

func withOpenAlexServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	old := openAlexSearchBase
	openAlexSearchBase = ts.URL
	t.Cleanup(func() {
		openAlexSearchBase = old
		ts.Close()
	})
	return ts
}

func TestReconstructAbstract(t *testing.T) {
	tests := []struct {
		name  string
		index map[string][]int
		want  string
	}{
		{"nil map", nil, ""},
		{"single word", map[string][]int{"hello": {0}}, "hello"},
		{"ordered", map[string][]int{"We": {0}, "propose": {1}, "a": {2}, "method": {3}}, "We propose a method"},
		{"repeated word", map[string][]int{"the": {0, 2}, "cat": {1}, "mat": {3}}, "the cat the mat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reconstructAbstract(tt.index); got != tt.want {
				t.Errorf("reconstructAbstract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenAlexBackendSearch(t *testing.T) {
	var captured *http.Request
	ts := withOpenAlexServer(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, openAlexWorksJSON)
	})

	b := &OpenAlexBackend{Client: ts.Client(), Email: "me@example.com"}
	papers, err := b.Search(context.Background(), Query{
		FreeText: "residual",
		DateFrom: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
	}, testCfg())
	require.NoError(t, err)

	q := captured.URL.Query()
	assert.Equal(t, "residual", q.Get("search"))
	assert.Equal(t, "20", q.Get("per_page"))
	assert.Equal(t, "from_publication_date:2015-01-01", q.Get("filter"))
	assert.Equal(t, "me@example.com", q.Get("mailto"))

	require.Len(t, papers, 2)
	p := papers[0]
	assert.Equal(t, "openalex:W2963403868", p.ID)
	assert.Equal(t, "10.1109/cvpr.2016.90", p.DOI)
	assert.Equal(t, "https://doi.org/10.1109/cvpr.2016.90", p.URL)
	assert.Equal(t, 2016, p.Year)
	assert.Equal(t, 150000, p.CitationCount)
	assert.Equal(t, "CVPR", p.Venue)
	assert.Equal(t, []string{"Kaiming He"}, p.Authors)
	assert.Equal(t, "Deeper networks are hard", p.Abstract)
	assert.Equal(t, []string{"openalex:W1", "openalex:W2"}, p.References)
	assert.Equal(t, types.SourceOpenAlex, p.Source)

	assert.Equal(t, "https://openalex.org/W99", papers[1].URL)
	assert.Empty(t, papers[1].Venue)
}

func TestOpenAlexBackendPerPageCap(t *testing.T) {
	var perPage string
	ts := withOpenAlexServer(t, func(w http.ResponseWriter, r *http.Request) {
		perPage = r.URL.Query().Get("per_page")
		fmt.Fprint(w, `{"results":[]}`)
	})
	cfg := testCfg()
	cfg.MaxResults = 500
	b := &OpenAlexBackend{Client: ts.Client()}
	papers, err := b.Search(context.Background(), Query{FreeText: "x"}, cfg)
	require.NoError(t, err)
	assert.Empty(t, papers)
	assert.Equal(t, "200", perPage)
}

func TestOpenAlexBackendHTTPNon200(t *testing.T) {
	ts := withOpenAlexServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	b := &OpenAlexBackend{Client: ts.Client()}
	_, err := b.Search(context.Background(), Query{FreeText: "x"}, testCfg())
	assert.EqualError(t, err, "OpenAlex API returned HTTP 403")
}

func TestOpenAlexBackendEmptyQuery(t *testing.T) {
	b := &OpenAlexBackend{Client: http.DefaultClient}
	_, err := b.Search(context.Background(), Query{}, testCfg())
	assert.Error(t, err)
}

func TestOpenAlexCiting(t *testing.T) {
	var captured *http.Request
	ts := withOpenAlexServer(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"results":[{"id":"https://openalex.org/W7","title":"Citer","cited_by_count":4}]}`)
	})
	b := &OpenAlexBackend{Client: ts.Client()}

	papers, err := b.Citing(context.Background(), types.Paper{ID: "s2:x", Aliases: []string{"openalex:W42"}}, 10, testCfg())
	require.NoError(t, err)
	assert.Equal(t, "cites:W42", captured.URL.Query().Get("filter"))
	assert.Equal(t, "10", captured.URL.Query().Get("per_page"))
	require.Len(t, papers, 1)
	assert.Equal(t, "openalex:W7", papers[0].ID)

	_, err = b.Citing(context.Background(), types.Paper{ID: "arxiv:1"}, 10, testCfg())
	assert.ErrorIs(t, err, ErrUnsupportedSeed)
}

func TestBackendNames(t *testing.T) {
	assert.Equal(t, "arxiv", (&ArxivBackend{}).Name())
	assert.Equal(t, "semantic_scholar", (&SemanticScholarBackend{}).Name())
	assert.Equal(t, "openalex", (&OpenAlexBackend{}).Name())
}
