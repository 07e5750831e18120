// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

// DegreeCentrality returns in-degree divided by the maximum in-degree. In
// synthetic mode there are no edges, so citation counts stand in for
// in-degree. All zeros when the maximum is zero.
func DegreeCentrality(g *Graph) []float64 {
	n := g.Len()
	raw := make([]float64, n)
	for i := 0; i < n; i++ {
		if g.Approximate() {
			if c := g.citations[i]; c > 0 {
				raw[i] = float64(c)
			}
			continue
		}
		raw[i] = float64(len(g.in[i]))
	}

	maxv := 0.0
	for _, r := range raw {
		if r > maxv {
			maxv = r
		}
	}
	if maxv == 0 {
		return make([]float64, n)
	}
	for i := range raw {
		raw[i] /= maxv
	}
	return raw
}
