// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"fmt"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

// Rule names, in default cascade order.
const (
	RuleID          = "id"
	RuleDOI         = "doi"
	RuleTitle       = "title"
	RuleTitleYear   = "title-year"
	RuleAuthorsYear = "authors-year"
)

// DefaultRules is the cascade applied when DedupConfig.Rules is empty.
var DefaultRules = []string{RuleID, RuleDOI, RuleTitle, RuleTitleYear, RuleAuthorsYear}

// Rule is one identity signature. Match reports whether two records
// describe the same paper. Rules are pure and independent so each can be
// tested on its own.
type Rule struct {
	Name  string
	Match func(in, rep *entry) bool
}

// entry caches the derived signatures of one record so rules do not
// recompute them on every comparison.
type entry struct {
	paper  types.Paper
	ids    map[string]bool
	doi    string
	title  string
	tokens map[string]bool
}

func newEntry(p types.Paper) *entry {
	e := &entry{paper: p, ids: map[string]bool{}}
	if p.ID != "" {
		e.ids[p.ID] = true
	}
	for _, a := range p.Aliases {
		e.ids[a] = true
	}
	e.doi = NormalizeDOI(p.DOI)
	e.title = NormalizeTitle(p.Title)
	e.tokens = tokenSet(e.title)
	return e
}

// titleRatio is TokenSetRatio over the cached token sets.
func titleRatio(a, b *entry) float64 {
	if len(a.tokens) == 0 || len(b.tokens) == 0 {
		return 0
	}
	inter := 0
	for t := range a.tokens {
		if b.tokens[t] {
			inter++
		}
	}
	return float64(inter) / float64(len(a.tokens)+len(b.tokens)-inter)
}

func sameKnownYear(a, b *entry) bool {
	return a.paper.Year > 0 && a.paper.Year == b.paper.Year
}

// buildRules resolves rule names against the thresholds in cfg.
func buildRules(cfg types.DedupConfig) ([]Rule, error) {
	names := cfg.Rules
	if len(names) == 0 {
		names = DefaultRules
	}

	catalog := map[string]Rule{
		RuleID: {Name: RuleID, Match: func(in, rep *entry) bool {
			for id := range in.ids {
				if rep.ids[id] {
					return true
				}
			}
			return false
		}},
		RuleDOI: {Name: RuleDOI, Match: func(in, rep *entry) bool {
			return in.doi != "" && in.doi == rep.doi
		}},
		RuleTitle: {Name: RuleTitle, Match: func(in, rep *entry) bool {
			return in.title != "" && in.title == rep.title
		}},
		RuleTitleYear: {Name: RuleTitleYear, Match: func(in, rep *entry) bool {
			return sameKnownYear(in, rep) && titleRatio(in, rep) >= cfg.FuzzyTitleThreshold
		}},
		RuleAuthorsYear: {Name: RuleAuthorsYear, Match: func(in, rep *entry) bool {
			if !sameKnownYear(in, rep) || len(in.paper.Authors) == 0 || len(rep.paper.Authors) == 0 {
				return false
			}
			if AuthorOverlap(in.paper.Authors, rep.paper.Authors) < cfg.AuthorOverlap {
				return false
			}
			return titleRatio(in, rep) >= cfg.AuthorTitleThreshold
		}},
	}

	rules := make([]Rule, 0, len(names))
	for _, n := range names {
		r, ok := catalog[n]
		if !ok {
			return nil, fmt.Errorf("unknown dedup rule %q", n)
		}
		rules = append(rules, r)
	}
	return rules, nil
}
