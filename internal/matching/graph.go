package matching

import (
	"math/rand"

	"github.com/jkowalik/giftdraw/internal/roster"
)

// buildAdjacency turns the roster into the bipartite constraint graph for
// one attempt: givers on the left, receivers on the right. Receivers are
// indexed by roster record order; the returned adjacency holds receiver
// indices. An edge (g, r) exists iff r != g and g's allowlist is empty or
// contains r. Self edges never exist, even when a participant lists
// themself in allowed.
//
// When rng is non-nil, giver order and each giver's candidate order are
// shuffled independently from the same stream. Edge membership is fixed by
// the roster; only ordering varies between attempts.
func buildAdjacency(ros *roster.Roster, rng *rand.Rand) (givers []string, adj [][]int) {
	receivers := ros.Names()
	index := make(map[string]int, len(receivers))
	for i, name := range receivers {
		index[name] = i
	}

	givers = ros.Names()
	if rng != nil {
		rng.Shuffle(len(givers), func(i, j int) {
			givers[i], givers[j] = givers[j], givers[i]
		})
	}

	adj = make([][]int, len(givers))
	for gi, giver := range givers {
		p, _ := ros.ByName(giver)
		var candidates []int
		if len(p.Allowed) == 0 {
			candidates = make([]int, 0, len(receivers)-1)
			for ri, name := range receivers {
				if name != giver {
					candidates = append(candidates, ri)
				}
			}
		} else {
			candidates = make([]int, 0, len(p.Allowed))
			for _, target := range p.Allowed {
				if target != giver {
					candidates = append(candidates, index[target])
				}
			}
		}
		if rng != nil {
			rng.Shuffle(len(candidates), func(i, j int) {
				candidates[i], candidates[j] = candidates[j], candidates[i]
			})
		}
		adj[gi] = candidates
	}
	return givers, adj
}
