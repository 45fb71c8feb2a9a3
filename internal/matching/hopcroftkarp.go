package matching

import "math"

// unmatched marks a vertex with no partner in matchLeft / matchRight.
const unmatched = -1

// hopcroftKarp computes a maximum-cardinality matching on a bipartite
// adjacency (left vertex u -> receiver indices adj[u], receivers numbered
// [0, nRight)) and returns matchLeft, where matchLeft[u] is u's receiver or
// unmatched. Deterministic pure function of the adjacency: iteration order
// baked into adj decides which maximum matching is found when several
// exist, never its size.
//
// Each phase:
//  1. BFS layers left vertices by shortest alternating-path distance from
//     any free left vertex (unmatched edge left->right, matched edge
//     right->left).
//  2. Layer-restricted DFS from every free left vertex flips augmenting
//     paths found along those shortest distances.
//  3. Stop when BFS proves no free left vertex reaches a free receiver.
//
// At most O(sqrt(V)) phases, O(E*sqrt(V)) total.
func hopcroftKarp(adj [][]int, nRight int) []int {
	nLeft := len(adj)
	matchLeft := make([]int, nLeft)
	matchRight := make([]int, nRight)
	for u := range matchLeft {
		matchLeft[u] = unmatched
	}
	for v := range matchRight {
		matchRight[v] = unmatched
	}

	const inf = math.MaxInt
	dist := make([]int, nLeft)

	// freeDist is the BFS distance at which a free receiver was first
	// reached; augmenting paths in the DFS must end exactly there.
	var freeDist int

	bfs := func() bool {
		freeDist = inf
		queue := make([]int, 0, nLeft)
		for u := 0; u < nLeft; u++ {
			if matchLeft[u] == unmatched {
				dist[u] = 0
				queue = append(queue, u)
			} else {
				dist[u] = inf
			}
		}
		for head := 0; head < len(queue); head++ {
			u := queue[head]
			if dist[u] >= freeDist {
				continue
			}
			for _, v := range adj[u] {
				w := matchRight[v]
				if w == unmatched {
					if freeDist == inf {
						freeDist = dist[u] + 1
					}
				} else if dist[w] == inf {
					dist[w] = dist[u] + 1
					queue = append(queue, w)
				}
			}
		}
		return freeDist != inf
	}

	var dfs func(u int) bool
	dfs = func(u int) bool {
		for _, v := range adj[u] {
			w := matchRight[v]
			if w == unmatched {
				if dist[u]+1 != freeDist {
					continue
				}
			} else if dist[w] != dist[u]+1 || !dfs(w) {
				continue
			}
			matchLeft[u] = v
			matchRight[v] = u
			return true
		}
		// No augmenting path through u this phase.
		dist[u] = inf
		return false
	}

	for bfs() {
		for u := 0; u < nLeft; u++ {
			if matchLeft[u] == unmatched {
				dfs(u)
			}
		}
	}
	return matchLeft
}
