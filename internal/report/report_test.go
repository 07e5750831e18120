// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-analyzer/internal/graph"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

func samplePapers() []types.Paper {
	return []types.Paper{
		{ID: "s2:a", Title: "Alpha", Year: 2019, Venue: "ICML", CitationCount: 10, Authors: []string{"Ada Lovelace"}, References: []string{"s2:c"}},
		{ID: "s2:b", Title: "Beta | Gamma", Year: 2020, Venue: "ICML", CitationCount: 30, References: []string{"s2:c"}},
		{ID: "s2:c", Title: "Core", Year: 2015, Venue: "NeurIPS", CitationCount: 500, DOI: "https://doi.org/10.1/CORE"},
	}
}

func analyze(t *testing.T, papers []types.Paper) types.AnalysisResult {
	t.Helper()
	res, err := graph.Analyze(papers, types.DefaultGraphConfig())
	require.NoError(t, err)
	return res
}

func TestFormatRanking(t *testing.T) {
	papers := samplePapers()
	var buf bytes.Buffer
	FormatRanking(&buf, analyze(t, papers), papers, 2)
	out := buf.String()

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, lines[0], "PageRank")
	assert.Contains(t, lines[2], "Core", "the most cited-by paper ranks first")
	assert.Contains(t, out, "3 papers, 2 edges (explicit mode)")
	assert.NotContains(t, out, "approximate")
}

func TestFormatRankingApproximate(t *testing.T) {
	papers := []types.Paper{{ID: "x", Title: "X", CitationCount: 3}, {ID: "y", Title: "Y"}}
	var buf bytes.Buffer
	FormatRanking(&buf, analyze(t, papers), papers, 0)
	assert.Contains(t, buf.String(), "synthetic mode")
	assert.Contains(t, buf.String(), "only approximate influence")
}

func TestFormatRankingEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatRanking(&buf, types.AnalysisResult{}, nil, 10)
	assert.Equal(t, "No papers to rank.\n", buf.String())
}

func TestFormatGroups(t *testing.T) {
	var buf bytes.Buffer
	FormatGroups(&buf, analyze(t, samplePapers()))
	assert.Contains(t, buf.String(), "Groups by venue:")
	assert.Contains(t, buf.String(), "Venue: ICML")
}

func TestBuildAndMarkdown(t *testing.T) {
	papers := samplePapers()
	r := Build("Citation analysis", papers, analyze(t, papers), types.StatsConfig{TopN: 2, HistogramBins: 5})
	r.SessionID = "session_20260101_120000_graphs"
	r.ExperimentID = "0b1c"

	require.Len(t, r.Top, 2)
	assert.Equal(t, "s2:c", r.Top[0].ID)
	assert.Equal(t, 500, r.Top[0].Citations)
	assert.Equal(t, 3, r.Citations.Count)
	assert.Equal(t, 30.0, r.Citations.Median)
	assert.Equal(t, "ICML", r.Venues.Top[0].Value)
	require.NotNil(t, r.CitationsByYear)
	assert.Equal(t, "negative", r.CitationsByYear.Direction)

	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, r))
	md := buf.String()

	assert.True(t, strings.HasPrefix(md, "# Citation analysis\n"))
	assert.Contains(t, md, "`session_20260101_120000_graphs`")
	assert.Contains(t, md, "## Most influential papers")
	assert.Contains(t, md, "| 1 | Core | 2015 | 500 |")
	assert.Contains(t, md, "Groups are buckets of a shared attribute")
	assert.Contains(t, md, "- ICML: 2 (66.7%)")
	assert.Contains(t, md, "| 2019 | 1 | 10 |")
	assert.NotContains(t, md, "Approximate scores")
}

func TestMarkdownEscapesPipes(t *testing.T) {
	papers := samplePapers()
	r := Build("T", papers, analyze(t, papers), types.StatsConfig{})
	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, r))
	assert.Contains(t, buf.String(), `Beta \| Gamma`)
}

func TestMarkdownApproximateBanner(t *testing.T) {
	papers := []types.Paper{{ID: "x", Title: "X", CitationCount: 3}, {ID: "y", Title: "Y"}}
	r := Build("T", papers, analyze(t, papers), types.StatsConfig{})
	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, r))
	assert.Contains(t, buf.String(), "Approximate scores")
	assert.Nil(t, r.CitationsByYear)
}

func TestWriteJSONAndYAML(t *testing.T) {
	res := analyze(t, samplePapers())

	var js bytes.Buffer
	require.NoError(t, WriteJSON(&js, res))
	var back types.AnalysisResult
	require.NoError(t, json.Unmarshal(js.Bytes(), &back))
	assert.Equal(t, res.Graph, back.Graph)
	assert.InDelta(t, res.Scores["s2:c"].PageRank, back.Scores["s2:c"].PageRank, 1e-12)

	var ys bytes.Buffer
	require.NoError(t, WriteYAML(&ys, res))
	var fromYAML types.AnalysisResult
	require.NoError(t, yaml.Unmarshal(ys.Bytes(), &fromYAML))
	assert.Equal(t, res.GroupBy, fromYAML.GroupBy)
	assert.Len(t, fromYAML.Scores, 3)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	require.NoError(t, WriteFile(path, func(w io.Writer) error { return WriteJSON(w, map[string]int{"n": 1}) }))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(data))
}

func TestFormatCSL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatCSL(&buf, samplePapers()))

	var items []CSLItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 3)

	assert.Equal(t, "s2_a", items[0].ID)
	assert.Equal(t, "article-journal", items[0].Type)
	assert.Equal(t, "ICML", items[0].ContainerTitle)
	assert.Equal(t, []CSLName{{Family: "Lovelace", Given: "Ada"}}, items[0].Author)
	assert.Equal(t, [][]int{{2019}}, items[0].Issued.DateParts)
	assert.Equal(t, "10.1/core", items[2].DOI)
}

func TestToCSLItemPreprint(t *testing.T) {
	item := toCSLItem(types.Paper{ID: "arxiv:2301.00001", Title: "P"})
	assert.Equal(t, "article", item.Type)
	assert.Equal(t, "arxiv_2301.00001", item.ID)
	assert.Nil(t, item.Issued)
}

func TestParseAuthorName(t *testing.T) {
	tests := []struct {
		in   string
		want CSLName
	}{
		{"Ada Lovelace", CSLName{Given: "Ada", Family: "Lovelace"}},
		{"Lovelace, Ada", CSLName{Given: "Ada", Family: "Lovelace"}},
		{"John von Neumann", CSLName{Given: "John von", Family: "Neumann"}},
		{"Plato", CSLName{Literal: "Plato"}},
		{"  ", CSLName{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseAuthorName(tt.in), tt.in)
	}
}
