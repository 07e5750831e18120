// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup collapses paper records gathered from several sources into
// one record per distinct paper.
//
// Each record is compared against every member of every cluster seen so far
// using an ordered cascade of rules (identifier, DOI, exact normalized
// title, fuzzy title+year, author surnames+year). The first rule that
// matches any cluster wins. A cluster keeps the signatures of all its
// members, and clusters that come to match each other are joined, so the
// clusters found do not depend on input order. Within a cluster the representative is the
// record from the most preferred source, then the one with more filled
// fields, then the first seen; the other records backfill its empty fields.
package dedup

import (
	"sort"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

// Match records one merge performed by the deduplicator.
type Match struct {
	KeptID   string `json:"kept_id" yaml:"kept_id"`
	MergedID string `json:"merged_id" yaml:"merged_id"`
	Rule     string `json:"rule" yaml:"rule"`
}

// Result holds the deduplicated collection and counts for the caller to report.
type Result struct {
	Papers []types.Paper

	// Duplicates is the number of records merged into another record.
	Duplicates int

	// Dropped is the number of malformed records (no title) excluded.
	Dropped int

	Matches []Match

	// Passes is the number of sweeps run before reaching a fixed point.
	Passes int
}

// Deduplicator applies a fixed rule cascade and source priority.
type Deduplicator struct {
	rules    []Rule
	priority map[string]int
}

// New validates cfg and builds a Deduplicator. Zero thresholds fall back
// to the defaults in types.DefaultDedupConfig.
func New(cfg types.DedupConfig) (*Deduplicator, error) {
	def := types.DefaultDedupConfig()
	if len(cfg.SourcePriority) == 0 {
		cfg.SourcePriority = def.SourcePriority
	}
	if cfg.FuzzyTitleThreshold <= 0 {
		cfg.FuzzyTitleThreshold = def.FuzzyTitleThreshold
	}
	if cfg.AuthorTitleThreshold <= 0 {
		cfg.AuthorTitleThreshold = def.AuthorTitleThreshold
	}
	if cfg.AuthorOverlap <= 0 {
		cfg.AuthorOverlap = def.AuthorOverlap
	}

	rules, err := buildRules(cfg)
	if err != nil {
		return nil, err
	}

	priority := make(map[string]int, len(cfg.SourcePriority))
	for i, s := range cfg.SourcePriority {
		if _, dup := priority[s]; !dup {
			priority[s] = i
		}
	}
	return &Deduplicator{rules: rules, priority: priority}, nil
}

// Rules returns the names of the active rules in cascade order.
func (d *Deduplicator) Rules() []string {
	names := make([]string, len(d.rules))
	for i, r := range d.rules {
		names[i] = r.Name
	}
	return names
}

// Deduplicate returns at most one record per distinct paper. The input is
// not modified. Sweeps repeat until one merges nothing, so deduplicating
// the output again returns it unchanged.
func (d *Deduplicator) Deduplicate(papers []types.Paper) Result {
	var res Result

	valid := make([]types.Paper, 0, len(papers))
	for _, p := range papers {
		if !p.HasTitle() {
			res.Dropped++
			continue
		}
		if p.ID == "" {
			p.ID = syntheticID(p)
		}
		valid = append(valid, p)
	}

	current := valid
	for {
		res.Passes++
		next, matches := d.sweep(current)
		res.Matches = append(res.Matches, matches...)
		res.Duplicates += len(matches)
		current = next
		if len(matches) == 0 {
			break
		}
	}

	res.Papers = current
	return res
}

// cluster is a group of records judged to be one paper. paper is the
// merged representative; members keeps every record's own signatures.
type cluster struct {
	paper   types.Paper
	members []*entry

	// first is the input position of the earliest member.
	first int
}

// sweep makes one pass over papers and returns the surviving records in
// first-seen cluster order.
func (d *Deduplicator) sweep(papers []types.Paper) ([]types.Paper, []Match) {
	var clusters []*cluster
	var matches []Match

	for i, p := range papers {
		c := &cluster{paper: p, members: []*entry{newEntry(p)}, first: i}
		for {
			j, rule := d.find(c, clusters)
			if j < 0 {
				break
			}
			other := clusters[j]
			clusters = append(clusters[:j], clusters[j+1:]...)
			matches = append(matches, d.join(c, other, rule))
		}
		clusters = append(clusters, c)
	}

	sort.SliceStable(clusters, func(a, b int) bool {
		return clusters[a].first < clusters[b].first
	})
	out := make([]types.Paper, len(clusters))
	for i, c := range clusters {
		out[i] = c.paper
	}
	return out, matches
}

// find walks the cascade: for each rule in order, the index of the first
// cluster with a member matching a member of c is returned, or -1.
func (d *Deduplicator) find(c *cluster, clusters []*cluster) (int, string) {
	for _, r := range d.rules {
		for i, other := range clusters {
			if matchAny(r, c, other) {
				return i, r.Name
			}
		}
	}
	return -1, ""
}

func matchAny(r Rule, a, b *cluster) bool {
	for _, x := range a.members {
		for _, y := range b.members {
			if r.Match(x, y) {
				return true
			}
		}
	}
	return false
}

// join folds other into c. The earlier cluster's representative is the
// current one; the candidate replaces it only when preferred.
func (d *Deduplicator) join(c, other *cluster, rule string) Match {
	current, candidate := other, c
	if c.first < other.first {
		current, candidate = c, other
	}
	winner, loser := current.paper, candidate.paper
	if d.prefer(candidate.paper, current.paper) {
		winner, loser = candidate.paper, current.paper
	}

	c.paper = merge(winner, loser)
	c.members = append(c.members, other.members...)
	c.first = current.first
	return Match{KeptID: winner.ID, MergedID: loser.ID, Rule: rule}
}

// prefer reports whether candidate should replace the current representative.
// Ties keep the current one, which was seen first.
func (d *Deduplicator) prefer(candidate, current types.Paper) bool {
	pc, pr := d.rank(candidate.Source), d.rank(current.Source)
	if pc != pr {
		return pc < pr
	}
	return candidate.FilledFields() > current.FilledFields()
}

func (d *Deduplicator) rank(source string) int {
	if r, ok := d.priority[source]; ok {
		return r
	}
	return len(d.priority)
}

// merge backfills the winner's empty fields from the loser and records the
// loser's identifiers as aliases.
func merge(winner, loser types.Paper) types.Paper {
	out := winner
	if out.DOI == "" {
		out.DOI = loser.DOI
	}
	if len(out.Authors) == 0 && len(loser.Authors) > 0 {
		out.Authors = append([]string(nil), loser.Authors...)
	}
	if out.Year == 0 {
		out.Year = loser.Year
	}
	if out.Abstract == "" {
		out.Abstract = loser.Abstract
	}
	if out.Venue == "" {
		out.Venue = loser.Venue
	}
	if out.URL == "" {
		out.URL = loser.URL
	}
	if loser.CitationCount > out.CitationCount {
		out.CitationCount = loser.CitationCount
	}
	out.References = union(winner.References, loser.References)

	ids := append([]string(nil), winner.Aliases...)
	if loser.ID != winner.ID {
		ids = append(ids, loser.ID)
	}
	ids = append(ids, loser.Aliases...)
	out.Aliases = without(union(ids, nil), winner.ID)
	return out
}

// union concatenates a and b, dropping repeats and keeping first occurrences.
func union(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range append(append([]string(nil), a...), b...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func without(list []string, drop string) []string {
	var out []string
	for _, s := range list {
		if s != drop {
			out = append(out, s)
		}
	}
	return out
}

// syntheticID derives a stable identifier for records that arrive without one.
func syntheticID(p types.Paper) string {
	if doi := NormalizeDOI(p.DOI); doi != "" {
		return "doi:" + doi
	}
	return "title:" + NormalizeTitle(p.Title)
}
