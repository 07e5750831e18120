// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

const semanticSearchJSON = `{"total":2,"offset":0,"data":[
  {"paperId":"abc123","title":"BERT: <i>Pre-training</i> of Deep Bidirectional Transformers",
   "abstract":"We introduce BERT.","year":2019,"venue":"NAACL","citationCount":80000,
   "url":"https://www.semanticscholar.org/paper/abc123",
   "authors":[{"authorId":"1","name":"Jacob Devlin"},{"authorId":"2","name":" Ming-Wei Chang "}],
   "externalIds":{"DOI":"10.18653/v1/N19-1423","ArXiv":"1810.04805"}},
  {"paperId":"def456","title":"No Year Paper","publicationDate":"2021-03-04","authors":[],"externalIds":{}},
  {"paperId":"","title":"Missing ID"}
]}`

func withSemanticServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	old := semanticAPIBase
	semanticAPIBase = ts.URL
	t.Cleanup(func() {
		semanticAPIBase = old
		ts.Close()
	})
	return ts
}

func TestSemanticSearchRequestParams(t *testing.T) {
	var capturedReq *http.Request
	ts := withSemanticServer(t, func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		fmt.Fprint(w, `{"total":0,"offset":0,"data":[]}`)
	})

	cfg := testCfg()
	cfg.MaxResults = 15

	b := &SemanticScholarBackend{Client: ts.Client()}
	_, err := b.Search(context.Background(), Query{
		FreeText: "attention",
		DateFrom: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}, cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if capturedReq.URL.Path != "/paper/search" {
		t.Errorf("path = %q, want /paper/search", capturedReq.URL.Path)
	}
	q := capturedReq.URL.Query()
	if got := q.Get("query"); got != "attention" {
		t.Errorf("query param = %q, want %q", got, "attention")
	}
	if got := q.Get("limit"); got != "15" {
		t.Errorf("limit param = %q, want %q", got, "15")
	}
	fields := q.Get("fields")
	for _, f := range []string{"title", "externalIds", "venue", "citationCount", "url"} {
		if !strings.Contains(fields, f) {
			t.Errorf("fields param %q missing %q", fields, f)
		}
	}
	if got := q.Get("year"); got != "2020-2023" {
		t.Errorf("year param = %q, want %q", got, "2020-2023")
	}
}

func TestSemanticSearchAPIKeyHeader(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
	}{
		{"with API key", "test-key-123"},
		{"without API key", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			ts := withSemanticServer(t, func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("x-api-key")
				fmt.Fprint(w, `{"data":[]}`)
			})
			b := &SemanticScholarBackend{Client: ts.Client(), APIKey: tt.apiKey}
			_, err := b.Search(context.Background(), Query{FreeText: "x"}, testCfg())
			require.NoError(t, err)
			assert.Equal(t, tt.apiKey, got)
		})
	}
}

func TestSemanticSearchConvertsPapers(t *testing.T) {
	ts := withSemanticServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, semanticSearchJSON)
	})
	b := &SemanticScholarBackend{Client: ts.Client()}
	papers, err := b.Search(context.Background(), Query{FreeText: "bert"}, testCfg())
	require.NoError(t, err)
	require.Len(t, papers, 2, "records without a paperId are skipped")

	p := papers[0]
	assert.Equal(t, "s2:abc123", p.ID)
	assert.Equal(t, "BERT: Pre-training of Deep Bidirectional Transformers", p.Title)
	assert.Equal(t, "10.18653/v1/N19-1423", p.DOI)
	assert.Equal(t, 2019, p.Year)
	assert.Equal(t, "NAACL", p.Venue)
	assert.Equal(t, 80000, p.CitationCount)
	assert.Equal(t, []string{"Jacob Devlin", "Ming-Wei Chang"}, p.Authors)
	assert.Equal(t, []string{"arxiv:1810.04805"}, p.Aliases)
	assert.Equal(t, types.SourceSemanticScholar, p.Source)

	assert.Equal(t, 2021, papers[1].Year, "year falls back to publicationDate")
	assert.Nil(t, papers[1].Aliases)
}

func TestSemanticSearchHTTPErrors(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusInternalServerError} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			ts := withSemanticServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
			})
			b := &SemanticScholarBackend{Client: ts.Client()}
			_, err := b.Search(context.Background(), Query{FreeText: "x"}, testCfg())
			assert.EqualError(t, err, fmt.Sprintf("Semantic Scholar API returned HTTP %d", code))
		})
	}
}

func TestSemanticSearchMalformedJSON(t *testing.T) {
	ts := withSemanticServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"data": [`)
	})
	b := &SemanticScholarBackend{Client: ts.Client()}
	_, err := b.Search(context.Background(), Query{FreeText: "x"}, testCfg())
	assert.ErrorContains(t, err, "parsing Semantic Scholar response")
}

func TestSemanticSearchEmptyQuery(t *testing.T) {
	b := &SemanticScholarBackend{Client: http.DefaultClient}
	_, err := b.Search(context.Background(), Query{}, testCfg())
	assert.Error(t, err)
}

func TestSemanticCiting(t *testing.T) {
	var path string
	ts := withSemanticServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{"data":[{"citingPaper":{"paperId":"c1","title":"Citing One","year":2020,"citationCount":3}}]}`)
	})
	b := &SemanticScholarBackend{Client: ts.Client()}

	papers, err := b.Citing(context.Background(), types.Paper{ID: "s2:abc"}, 5, testCfg())
	require.NoError(t, err)
	assert.Equal(t, "/paper/abc/citations", path)
	require.Len(t, papers, 1)
	assert.Equal(t, "s2:c1", papers[0].ID)
}

func TestSemanticHandle(t *testing.T) {
	tests := []struct {
		name string
		seed types.Paper
		want string
	}{
		{"own id", types.Paper{ID: "s2:abc", DOI: "10.1/x"}, "abc"},
		{"alias", types.Paper{ID: "arxiv:1", Aliases: []string{"s2:zzz"}}, "zzz"},
		{"doi", types.Paper{ID: "openalex:W1", DOI: "https://doi.org/10.1/X"}, "DOI:10.1/x"},
		{"arxiv", types.Paper{ID: "arxiv:1706.03762"}, "arXiv:1706.03762"},
		{"nothing", types.Paper{ID: "openalex:W1"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, semanticHandle(tt.seed))
		})
	}

	b := &SemanticScholarBackend{Client: http.DefaultClient}
	_, err := b.Citing(context.Background(), types.Paper{ID: "openalex:W1"}, 5, testCfg())
	assert.ErrorIs(t, err, ErrUnsupportedSeed)
}

func TestBuildYearRange(t *testing.T) {
	y := func(n int) time.Time { return time.Date(n, 1, 1, 0, 0, 0, 0, time.UTC) }
	assert.Equal(t, "2020-2023", buildYearRange(y(2020), y(2023)))
	assert.Equal(t, "2020-", buildYearRange(y(2020), time.Time{}))
	assert.Equal(t, "-2023", buildYearRange(time.Time{}, y(2023)))
	assert.Equal(t, "", buildYearRange(time.Time{}, time.Time{}))
}
