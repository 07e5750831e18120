// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

// ErrUnsupportedSeed is returned by an Expander that has no identifier it
// can query for a seed paper.
var ErrUnsupportedSeed = errors.New("seed has no identifier this source understands")

// Expander lists papers that cite a seed. SemanticScholarBackend and
// OpenAlexBackend implement it.
type Expander interface {
	Name() string
	Citing(ctx context.Context, seed types.Paper, limit int, cfg types.SearchConfig) ([]types.Paper, error)
}

// ExpandOutput holds the citing papers found for a set of seeds.
type ExpandOutput struct {
	Papers  []types.Paper
	Skipped int
	Errors  []string
}

// Expand collects papers citing each seed, trying expanders in order until
// one answers. Each citing paper records the seed ID in its References so
// the graph analyzer sees a real edge. At most perSeed papers are taken per
// seed and limit overall; zero means no cap. Expansion stops early if ctx
// is cancelled.
func Expand(ctx context.Context, seeds []types.Paper, expanders []Expander, perSeed, limit int, cfg types.SearchConfig, w io.Writer) (ExpandOutput, error) {
	if len(expanders) == 0 {
		return ExpandOutput{}, fmt.Errorf("no citation sources configured")
	}

	var out ExpandOutput
	index := make(map[string]int)

	for _, seed := range seeds {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if limit > 0 && len(out.Papers) >= limit {
			break
		}

		citing, source, err := citingFrom(ctx, seed, expanders, perSeed, cfg, w)
		if err != nil {
			if errors.Is(err, ErrUnsupportedSeed) {
				out.Skipped++
				fmt.Fprintf(w, "skip %s: %v\n", seed.ID, err)
				continue
			}
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", seed.ID, err))
			continue
		}
		fmt.Fprintf(w, "%s: %d citing papers from %s\n", seed.ID, len(citing), source)

		for _, p := range citing {
			if i, ok := index[p.ID]; ok {
				out.Papers[i].References = appendUnique(out.Papers[i].References, seed.ID)
				continue
			}
			if limit > 0 && len(out.Papers) >= limit {
				break
			}
			p.References = appendUnique(p.References, seed.ID)
			index[p.ID] = len(out.Papers)
			out.Papers = append(out.Papers, p)
		}

		if cfg.InterBackendDelay > 0 {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			case <-time.After(cfg.InterBackendDelay):
			}
		}
	}
	return out, nil
}

// citingFrom asks each expander in turn. ErrUnsupportedSeed is returned only
// when no expander understands the seed.
func citingFrom(ctx context.Context, seed types.Paper, expanders []Expander, perSeed int, cfg types.SearchConfig, w io.Writer) ([]types.Paper, string, error) {
	var lastErr error
	for _, e := range expanders {
		papers, err := e.Citing(ctx, seed, perSeed, cfg)
		if err == nil {
			if perSeed > 0 && len(papers) > perSeed {
				papers = papers[:perSeed]
			}
			return papers, e.Name(), nil
		}
		if !errors.Is(err, ErrUnsupportedSeed) {
			fmt.Fprintf(w, "warning: %s citations for %s failed: %v\n", e.Name(), seed.ID, err)
			lastErr = err
		}
	}
	if lastErr != nil {
		return nil, "", lastErr
	}
	return nil, "", ErrUnsupportedSeed
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
