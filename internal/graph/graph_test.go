// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

func paper(id string, refs ...string) types.Paper {
	return types.Paper{ID: id, Title: "Paper " + id, Source: types.SourceOpenAlex, References: refs}
}

func cycle(ids ...string) []types.Paper {
	papers := make([]types.Paper, len(ids))
	for i, id := range ids {
		papers[i] = paper(id, ids[(i+1)%len(ids)])
	}
	return papers
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

func TestBuild_ResolvesAndDropsReferences(t *testing.T) {
	papers := []types.Paper{
		paper("a", "b", "missing", "a", "b"),
		{ID: "b", Title: "B", DOI: "10.1/B", References: []string{"https://doi.org/10.1/c"}},
		{ID: "c", Title: "C", DOI: "10.1/c", Aliases: []string{"arxiv:1"}},
		paper("d", "arxiv:1"),
	}
	g := Build(papers, types.EdgeAuto)

	assert.Equal(t, 4, g.Len())
	assert.Equal(t, types.EdgeExplicit, g.Mode())
	assert.False(t, g.Approximate())
	assert.Equal(t, 3, g.Edges(), "a→b, b→c via DOI, d→c via alias")
	s := g.Summary()
	assert.Equal(t, 2, s.DroppedEdges, "unresolved reference and self-citation")
	assert.Equal(t, []int{1}, g.Successors(0))
	assert.Equal(t, []int{2}, g.Successors(1))
	assert.Equal(t, []int{2}, g.Successors(3))
}

func TestBuild_RepeatedIDsIgnored(t *testing.T) {
	g := Build([]types.Paper{paper("a", "b"), paper("b"), paper("a")}, types.EdgeExplicit)
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 1, g.Edges())
}

func TestBuild_AutoFallsBackToSynthetic(t *testing.T) {
	papers := []types.Paper{paper("a", "nowhere"), paper("b")}
	g := Build(papers, types.EdgeAuto)
	assert.Equal(t, types.EdgeSynthetic, g.Mode())
	assert.True(t, g.Approximate())

	// The unresolved reference is still counted after the fallback.
	s := g.Summary()
	assert.Equal(t, 1, s.DroppedEdges)
	assert.True(t, s.Approximate)

	explicit := Build(papers, types.EdgeExplicit)
	assert.Equal(t, types.EdgeExplicit, explicit.Mode())
	assert.Equal(t, 1, explicit.Summary().DroppedEdges)
}

func TestPageRank_Cycles(t *testing.T) {
	for _, n := range []int{3, 4, 7} {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i))
		}
		g := Build(cycle(ids...), types.EdgeExplicit)
		res := PageRank(g, types.DefaultGraphConfig())

		assert.True(t, res.Converged, "n=%d", n)
		for i, s := range res.Scores {
			assert.InDelta(t, 1/float64(n), s, 1e-9, "n=%d node %d", n, i)
		}
	}
}

func TestPageRank_SumsToOneAndNonNegative(t *testing.T) {
	papers := []types.Paper{
		paper("a", "b", "c"),
		paper("b", "c"),
		paper("c"),
		paper("d", "a", "c"),
		paper("e"),
	}
	g := Build(papers, types.EdgeExplicit)
	res := PageRank(g, types.DefaultGraphConfig())

	require.Len(t, res.Scores, 5)
	assert.InDelta(t, 1.0, sum(res.Scores), 1e-9)
	for _, s := range res.Scores {
		assert.GreaterOrEqual(t, s, 0.0)
	}
	assert.True(t, res.Converged)
	assert.Greater(t, res.Scores[2], res.Scores[0], "c is cited by everyone")
	assert.Greater(t, res.Scores[0], res.Scores[3], "d is never cited")
	assert.InDelta(t, res.Scores[3], res.Scores[4], 1e-12, "uncited nodes receive only teleport and dangling mass")
}

func TestPageRank_IterationCeiling(t *testing.T) {
	papers := []types.Paper{paper("a", "b"), paper("b", "c"), paper("c", "a"), paper("d", "a")}
	g := Build(papers, types.EdgeExplicit)

	cfg := types.DefaultGraphConfig()
	cfg.MaxIterations = 1
	res := PageRank(g, cfg)

	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
	assert.Greater(t, res.Delta, cfg.Tolerance)
	assert.InDelta(t, 1.0, sum(res.Scores), 1e-9)
}

func TestPageRank_Synthetic(t *testing.T) {
	papers := []types.Paper{
		{ID: "a", Title: "A", CitationCount: 0},
		{ID: "b", Title: "B", CitationCount: 1},
		{ID: "c", Title: "C", CitationCount: 2},
	}
	g := Build(papers, types.EdgeSynthetic)
	res := PageRank(g, types.DefaultGraphConfig())

	assert.True(t, res.Converged)
	assert.InDelta(t, 1.0/6, res.Scores[0], 1e-9)
	assert.InDelta(t, 2.0/6, res.Scores[1], 1e-9)
	assert.InDelta(t, 3.0/6, res.Scores[2], 1e-9)
}

func TestPageRank_EmptyGraph(t *testing.T) {
	res := PageRank(Build(nil, types.EdgeAuto), types.DefaultGraphConfig())
	assert.Empty(t, res.Scores)
	assert.True(t, res.Converged)
}

func TestBetweenness(t *testing.T) {
	t.Run("path", func(t *testing.T) {
		g := Build([]types.Paper{paper("a", "b"), paper("b", "c"), paper("c")}, types.EdgeExplicit)
		assert.Equal(t, []float64{0, 1, 0}, Betweenness(g, false))
		assert.Equal(t, []float64{0, 0.5, 0}, Betweenness(g, true))
	})

	t.Run("star through hub", func(t *testing.T) {
		papers := []types.Paper{
			paper("x", "h"), paper("y", "h"),
			paper("h", "p", "q"),
			paper("p"), paper("q"),
		}
		g := Build(papers, types.EdgeExplicit)
		bc := Betweenness(g, false)
		assert.Equal(t, 4.0, bc[2], "x and y each reach p and q only through h")
		for _, i := range []int{0, 1, 3, 4} {
			assert.Zero(t, bc[i])
		}
	})

	t.Run("split shortest paths", func(t *testing.T) {
		papers := []types.Paper{paper("s", "u", "v"), paper("u", "t"), paper("v", "t"), paper("t")}
		bc := Betweenness(Build(papers, types.EdgeExplicit), false)
		assert.Equal(t, []float64{0, 0.5, 0.5, 0}, bc)
	})

	t.Run("isolated and edgeless", func(t *testing.T) {
		g := Build([]types.Paper{paper("a", "b"), paper("b", "c"), paper("c"), paper("lonely")}, types.EdgeExplicit)
		assert.Zero(t, Betweenness(g, true)[3])

		empty := Build([]types.Paper{paper("a"), paper("b")}, types.EdgeSynthetic)
		assert.Equal(t, []float64{0, 0}, Betweenness(empty, true))
	})
}

func TestDegreeCentrality(t *testing.T) {
	g := Build([]types.Paper{paper("a", "c"), paper("b", "c", "a"), paper("c")}, types.EdgeExplicit)
	assert.Equal(t, []float64{0.5, 0, 1}, DegreeCentrality(g))

	syn := Build([]types.Paper{
		{ID: "a", Title: "A", CitationCount: 10},
		{ID: "b", Title: "B", CitationCount: 40},
		{ID: "c", Title: "C"},
	}, types.EdgeSynthetic)
	assert.Equal(t, []float64{0.25, 1, 0}, DegreeCentrality(syn))

	flat := Build([]types.Paper{paper("a"), paper("b")}, types.EdgeSynthetic)
	assert.Equal(t, []float64{0, 0}, DegreeCentrality(flat))
}

func TestGroupByAttribute(t *testing.T) {
	papers := []types.Paper{
		{ID: "1", Title: "T", Venue: "NeurIPS", Year: 2020, Authors: []string{"Ada Lovelace"}},
		{ID: "2", Title: "T", Venue: "ICML", Year: 2021, Authors: []string{"Alan Turing"}},
		{ID: "3", Title: "T", Venue: "NeurIPS", Year: 2021, Authors: []string{"Ada Lovelace", "X"}},
		{ID: "4", Title: "T", Source: types.SourceArxiv},
		{ID: "5", Title: "T"},
	}

	t.Run("venue", func(t *testing.T) {
		groups, err := GroupByAttribute(papers, types.GroupByVenue, 1)
		require.NoError(t, err)
		assert.Equal(t, []types.Group{
			{Label: "Venue: NeurIPS", Members: []string{"1", "3"}},
			{Label: "Venue: ICML", Members: []string{"2"}},
			{Label: "Venue: Unknown", Members: []string{"5"}},
			{Label: "Venue: arxiv", Members: []string{"4"}},
		}, groups)
	})

	t.Run("year with min size", func(t *testing.T) {
		groups, err := GroupByAttribute(papers, types.GroupByYear, 2)
		require.NoError(t, err)
		assert.Equal(t, []types.Group{
			{Label: "Year: 2021", Members: []string{"2", "3"}},
			{Label: "Year: Unknown", Members: []string{"4", "5"}},
		}, groups)
	})

	t.Run("author", func(t *testing.T) {
		groups, err := GroupByAttribute(papers, types.GroupByAuthor, 2)
		require.NoError(t, err)
		assert.Equal(t, []types.Group{
			{Label: "Author: Ada Lovelace", Members: []string{"1", "3"}},
			{Label: "Author: Unknown", Members: []string{"4", "5"}},
		}, groups)
	})

	t.Run("unknown attribute", func(t *testing.T) {
		_, err := GroupByAttribute(papers, types.GroupBy("colour"), 1)
		assert.Error(t, err)
	})
}

func TestLabelPropagation_TwoTriangles(t *testing.T) {
	papers := append(cycle("a", "b", "c"), cycle("d", "e", "f")...)
	papers = append(papers, paper("g"))
	g := Build(papers, types.EdgeExplicit)

	communities := LabelPropagation(g, 10)
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1, 2}, communities)

	groups := CommunityGroups(g, communities, 2)
	assert.Equal(t, []types.Group{
		{Label: "Community 1", Members: []string{"a", "b", "c"}},
		{Label: "Community 2", Members: []string{"d", "e", "f"}},
	}, groups)
}

func TestAnalyze(t *testing.T) {
	papers := []types.Paper{
		{ID: "a", Title: "A", Venue: "V1", References: []string{"b"}},
		{ID: "b", Title: "B", Venue: "V1", References: []string{"c"}},
		{ID: "c", Title: "C", Venue: "V2"},
	}
	before := append([]types.Paper(nil), papers...)

	res, err := Analyze(papers, types.GraphConfig{})
	require.NoError(t, err)

	assert.Equal(t, before, papers)
	assert.Len(t, res.Scores, 3)
	assert.Equal(t, types.GroupByVenue, res.GroupBy)
	assert.Equal(t, types.EdgeExplicit, res.Graph.Mode)
	assert.Equal(t, 2, res.Graph.Edges)
	assert.True(t, res.Convergence.Converged)
	assert.Equal(t, "Venue: V1", res.Scores["a"].Group)
	assert.Equal(t, 1.0, res.Scores["c"].Degree)

	top := res.TopByPageRank(1)
	require.Len(t, top, 1)
	assert.Equal(t, "c", top[0].ID)

	again, err := Analyze(papers, types.GraphConfig{})
	require.NoError(t, err)
	assert.Equal(t, res, again)
}

func TestAnalyze_LabelPropagation(t *testing.T) {
	cfg := types.DefaultGraphConfig()
	cfg.GroupBy = types.GroupByLabelPropagation
	res, err := Analyze(cycle("a", "b", "c"), cfg)
	require.NoError(t, err)
	assert.Equal(t, "Community 1", res.Scores["b"].Group)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, []string{"a", "b", "c"}, res.Groups[0].Members)
}

func TestAnalyze_Empty(t *testing.T) {
	res, err := Analyze(nil, types.DefaultGraphConfig())
	require.NoError(t, err)
	assert.Empty(t, res.Scores)
	assert.Empty(t, res.Groups)
	assert.Equal(t, 0, res.Graph.Nodes)
}

func TestAnalyze_InvalidConfig(t *testing.T) {
	_, err := Analyze(cycle("a", "b"), types.GraphConfig{GroupBy: "planet"})
	assert.Error(t, err)

	_, err = Analyze(cycle("a", "b"), types.GraphConfig{EdgeMode: "psychic"})
	assert.Error(t, err)
}
