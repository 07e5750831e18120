// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/research-analyzer/internal/dedup"
	"github.com/pdiddy/research-analyzer/internal/httputil"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

// semanticAPIBase is the Semantic Scholar Graph API root. Declared as a var
// so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1"

const semanticFields = "paperId,title,abstract,authors,externalIds,year,venue,citationCount,url,publicationDate"

// SemanticScholarBackend queries the Semantic Scholar API.
type SemanticScholarBackend struct {
	Client *http.Client
	APIKey string
}

// Name returns the backend identifier.
func (b *SemanticScholarBackend) Name() string { return types.SourceSemanticScholar }

func (b *SemanticScholarBackend) headers() map[string]string {
	if b.APIKey == "" {
		return nil
	}
	return map[string]string{"x-api-key": b.APIKey}
}

// Search queries the Semantic Scholar paper search endpoint.
func (b *SemanticScholarBackend) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Paper, error) {
	q := query.Text()
	if q == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > 100 {
		maxResults = 100
	}

	params := url.Values{
		"query":  {q},
		"limit":  {fmt.Sprintf("%d", maxResults)},
		"fields": {semanticFields},
	}
	if yr := buildYearRange(query.DateFrom, query.DateTo); yr != "" {
		params.Set("year", yr)
	}

	var sr semanticResponse
	reqURL := semanticAPIBase + "/paper/search?" + params.Encode()
	if err := httputil.GetJSON(ctx, b.Client, "Semantic Scholar", reqURL, cfg.UserAgent, b.headers(), &sr); err != nil {
		return nil, err
	}

	var papers []types.Paper
	for _, sp := range sr.Data {
		if p, ok := sp.toPaper(); ok {
			papers = append(papers, p)
		}
	}
	return papers, nil
}

// Citing returns papers that cite seed, as listed by the Semantic Scholar
// citations endpoint.
func (b *SemanticScholarBackend) Citing(ctx context.Context, seed types.Paper, limit int, cfg types.SearchConfig) ([]types.Paper, error) {
	handle := semanticHandle(seed)
	if handle == "" {
		return nil, ErrUnsupportedSeed
	}
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}

	params := url.Values{
		"limit":  {fmt.Sprintf("%d", limit)},
		"fields": {semanticFields},
	}
	reqURL := semanticAPIBase + "/paper/" + handle + "/citations?" + params.Encode()

	var cr semanticCitationResponse
	if err := httputil.GetJSON(ctx, b.Client, "Semantic Scholar", reqURL, cfg.UserAgent, b.headers(), &cr); err != nil {
		return nil, err
	}

	var papers []types.Paper
	for _, c := range cr.Data {
		if p, ok := c.CitingPaper.toPaper(); ok {
			papers = append(papers, p)
		}
	}
	return papers, nil
}

// semanticHandle picks the identifier Semantic Scholar accepts for seed:
// its own paper ID, then DOI, then an arXiv ID.
func semanticHandle(seed types.Paper) string {
	for _, id := range append([]string{seed.ID}, seed.Aliases...) {
		if rest, ok := strings.CutPrefix(id, "s2:"); ok {
			return rest
		}
	}
	if doi := dedup.NormalizeDOI(seed.DOI); doi != "" {
		return "DOI:" + doi
	}
	for _, id := range append([]string{seed.ID}, seed.Aliases...) {
		if rest, ok := strings.CutPrefix(id, "arxiv:"); ok {
			return "arXiv:" + rest
		}
	}
	return ""
}

// buildYearRange returns a Semantic Scholar year filter string (e.g. "2020-2023").
func buildYearRange(from, to time.Time) string {
	switch {
	case !from.IsZero() && !to.IsZero():
		return fmt.Sprintf("%d-%d", from.Year(), to.Year())
	case !from.IsZero():
		return fmt.Sprintf("%d-", from.Year())
	case !to.IsZero():
		return fmt.Sprintf("-%d", to.Year())
	default:
		return ""
	}
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticCitationResponse struct {
	Data []struct {
		CitingPaper semanticPaper `json:"citingPaper"`
	} `json:"data"`
}

type semanticPaper struct {
	PaperID         string              `json:"paperId"`
	Title           string              `json:"title"`
	Abstract        string              `json:"abstract"`
	Year            int                 `json:"year"`
	Venue           string              `json:"venue"`
	CitationCount   int                 `json:"citationCount"`
	URL             string              `json:"url"`
	PublicationDate string              `json:"publicationDate"`
	Authors         []semanticAuthor    `json:"authors"`
	ExternalIDs     semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI      string `json:"DOI"`
	ArXiv    string `json:"ArXiv"`
	CorpusID int    `json:"CorpusId"`
}

func (sp semanticPaper) toPaper() (types.Paper, bool) {
	if sp.PaperID == "" {
		return types.Paper{}, false
	}
	p := types.Paper{
		ID:            "s2:" + sp.PaperID,
		DOI:           sp.ExternalIDs.DOI,
		Title:         CleanMarkup(sp.Title),
		Abstract:      CleanMarkup(sp.Abstract),
		Year:          sp.Year,
		Venue:         strings.TrimSpace(sp.Venue),
		CitationCount: sp.CitationCount,
		Source:        types.SourceSemanticScholar,
		URL:           sp.URL,
	}
	if p.Year == 0 && sp.PublicationDate != "" {
		if t, err := time.Parse("2006-01-02", sp.PublicationDate); err == nil {
			p.Year = t.Year()
		}
	}
	if sp.ExternalIDs.ArXiv != "" {
		p.Aliases = []string{"arxiv:" + stripArxivVersion(sp.ExternalIDs.ArXiv)}
	}
	for _, a := range sp.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	return p, true
}
