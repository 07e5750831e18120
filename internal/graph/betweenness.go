// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

// Betweenness computes directed betweenness centrality with Brandes'
// algorithm using breadth-first search (edges are unweighted). With
// normalize set and more than two nodes, scores are divided by (n-1)(n-2).
// Graphs without edges score zero everywhere.
func Betweenness(g *Graph, normalize bool) []float64 {
	n := g.Len()
	cb := make([]float64, n)
	if n == 0 || g.edges == 0 {
		return cb
	}

	sigma := make([]float64, n)
	dist := make([]int, n)
	delta := make([]float64, n)
	preds := make([][]int, n)
	stack := make([]int, 0, n)
	queue := make([]int, 0, n)

	for s := 0; s < n; s++ {
		for i := 0; i < n; i++ {
			sigma[i] = 0
			dist[i] = -1
			delta[i] = 0
			preds[i] = preds[i][:0]
		}
		stack = stack[:0]
		queue = append(queue[:0], s)
		sigma[s] = 1
		dist[s] = 0

		for head := 0; head < len(queue); head++ {
			v := queue[head]
			stack = append(stack, v)
			for _, w := range g.out[v] {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		for k := len(stack) - 1; k >= 0; k-- {
			w := stack[k]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				cb[w] += delta[w]
			}
		}
	}

	if normalize && n > 2 {
		scale := 1 / float64((n-1)*(n-2))
		for i := range cb {
			cb[i] *= scale
		}
	}
	return cb
}
