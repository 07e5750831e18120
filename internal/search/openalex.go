// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/pdiddy/research-analyzer/internal/httputil"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

const openAlexIDPrefix = "https://openalex.org/"

// OpenAlexBackend queries the OpenAlex API.
type OpenAlexBackend struct {
	Client *http.Client
	// Email is sent as mailto parameter for polite pool access.
	Email string
}

// Name returns the backend identifier.
func (b *OpenAlexBackend) Name() string { return types.SourceOpenAlex }

// Search queries the OpenAlex works search. Works carry their reference
// lists, so OpenAlex papers contribute explicit citation edges.
func (b *OpenAlexBackend) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Paper, error) {
	searchText := query.Text()
	if searchText == "" {
		return nil, fmt.Errorf("empty OpenAlex query")
	}

	var filters []string
	if !query.DateFrom.IsZero() {
		filters = append(filters, "from_publication_date:"+query.DateFrom.Format(dateFmt))
	}
	if !query.DateTo.IsZero() {
		filters = append(filters, "to_publication_date:"+query.DateTo.Format(dateFmt))
	}

	params := url.Values{"search": {searchText}}
	if len(filters) > 0 {
		params.Set("filter", strings.Join(filters, ","))
	}
	return b.works(ctx, params, cfg.MaxResults, cfg)
}

// Citing returns works whose reference lists include seed.
func (b *OpenAlexBackend) Citing(ctx context.Context, seed types.Paper, limit int, cfg types.SearchConfig) ([]types.Paper, error) {
	work := openAlexWorkID(seed)
	if work == "" {
		return nil, ErrUnsupportedSeed
	}
	params := url.Values{
		"filter": {"cites:" + work},
		"sort":   {"cited_by_count:desc"},
	}
	return b.works(ctx, params, limit, cfg)
}

func (b *OpenAlexBackend) works(ctx context.Context, params url.Values, perPage int, cfg types.SearchConfig) ([]types.Paper, error) {
	if perPage <= 0 {
		perPage = defaultMaxResults
	}
	if perPage > 200 {
		perPage = 200
	}
	params.Set("per_page", fmt.Sprintf("%d", perPage))
	params.Set("page", "1")
	if b.Email != "" {
		params.Set("mailto", b.Email)
	}

	var oar openAlexResponse
	reqURL := openAlexSearchBase + "?" + params.Encode()
	if err := httputil.GetJSON(ctx, b.Client, "OpenAlex", reqURL, cfg.UserAgent, nil, &oar); err != nil {
		return nil, err
	}

	var papers []types.Paper
	for _, w := range oar.Results {
		if p, ok := w.toPaper(); ok {
			papers = append(papers, p)
		}
	}
	return papers, nil
}

// openAlexWorkID returns the bare work ID (W123) for seed, if it has one.
func openAlexWorkID(seed types.Paper) string {
	for _, id := range append([]string{seed.ID}, seed.Aliases...) {
		if rest, ok := strings.CutPrefix(id, "openalex:"); ok {
			return rest
		}
	}
	return ""
}

func (w openAlexWork) toPaper() (types.Paper, bool) {
	work := strings.TrimPrefix(w.ID, openAlexIDPrefix)
	if work == "" {
		return types.Paper{}, false
	}

	p := types.Paper{
		ID:            "openalex:" + work,
		DOI:           strings.TrimPrefix(w.DOI, "https://doi.org/"),
		Title:         CleanMarkup(w.Title),
		Abstract:      CleanMarkup(reconstructAbstract(w.AbstractInvertedIndex)),
		Year:          w.PublicationYear,
		CitationCount: w.CitedByCount,
		Source:        types.SourceOpenAlex,
		URL:           w.ID,
	}
	if w.DOI != "" {
		p.URL = w.DOI
	}
	if w.PrimaryLocation.Source != nil {
		p.Venue = strings.TrimSpace(w.PrimaryLocation.Source.DisplayName)
	}
	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			p.Authors = append(p.Authors, a.Author.DisplayName)
		}
	}
	for _, ref := range w.ReferencedWorks {
		if r := strings.TrimPrefix(ref, openAlexIDPrefix); r != "" {
			p.References = append(p.References, "openalex:"+r)
		}
	}
	return p, true
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationYear       int                  `json:"publication_year"`
	CitedByCount          int                  `json:"cited_by_count"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	PrimaryLocation       openAlexLocation     `json:"primary_location"`
	ReferencedWorks       []string             `json:"referenced_works"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexLocation struct {
	Source *openAlexSource `json:"source"`
}

type openAlexSource struct {
	DisplayName string `json:"display_name"`
}
