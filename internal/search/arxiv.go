// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/research-analyzer/internal/httputil"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivBackend queries the arXiv API.
type ArxivBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *ArxivBackend) Name() string { return types.SourceArxiv }

// Search queries the arXiv API. arXiv reports no citation counts, so every
// paper comes back with CitationCount 0.
func (b *ArxivBackend) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Paper, error) {
	q := buildArxivQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	url := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, q, maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var papers []types.Paper
	for _, entry := range feed.Entries {
		if p, ok := entry.toPaper(); ok {
			papers = append(papers, p)
		}
	}
	return papers, nil
}

func (e arxivEntry) toPaper() (types.Paper, bool) {
	arxivID := extractArxivID(e.ID)
	if arxivID == "" {
		return types.Paper{}, false
	}

	p := types.Paper{
		ID:       "arxiv:" + arxivID,
		DOI:      strings.TrimSpace(e.DOI),
		Title:    CleanMarkup(e.Title),
		Abstract: CleanMarkup(e.Summary),
		Venue:    CleanMarkup(e.JournalRef),
		Source:   types.SourceArxiv,
		URL:      "https://arxiv.org/abs/" + arxivID,
	}
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		p.Year = t.Year()
	}
	return p, true
}

// buildArxivQuery constructs the search_query parameter from structured fields.
func buildArxivQuery(q Query) string {
	var parts []string

	if q.FreeText != "" {
		parts = append(parts, "all:"+strings.Join(strings.Fields(q.FreeText), "+"))
	}
	if q.Author != "" {
		parts = append(parts, "au:"+strings.Join(strings.Fields(q.Author), "+"))
	}
	for _, kw := range q.Keywords {
		parts = append(parts, "all:"+strings.Join(strings.Fields(kw), "+"))
	}
	if !q.DateFrom.IsZero() || !q.DateTo.IsZero() {
		from, to := "190001010000", "299912312359"
		if !q.DateFrom.IsZero() {
			from = q.DateFrom.Format("200601021504")
		}
		if !q.DateTo.IsZero() {
			to = q.DateTo.Format("20060102") + "2359"
		}
		parts = append(parts, "submittedDate:["+from+"+TO+"+to+"]")
	}

	return strings.Join(parts, "+AND+")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string        `xml:"id"`
	Title      string        `xml:"title"`
	Summary    string        `xml:"summary"`
	Published  string        `xml:"published"`
	Authors    []arxivAuthor `xml:"author"`
	DOI        string        `xml:"http://arxiv.org/schemas/atom doi"`
	JournalRef string        `xml:"http://arxiv.org/schemas/atom journal_ref"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return stripArxivVersion(idURL[idx+len(prefix):])
}

// stripArxivVersion removes a trailing "v2"-style version suffix.
func stripArxivVersion(id string) string {
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			return id[:vIdx]
		}
	}
	return id
}
