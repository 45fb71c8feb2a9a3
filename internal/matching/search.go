package matching

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/jkowalik/giftdraw/internal/roster"
)

// ErrNoPerfectMatching is returned when the attempt budget is exhausted
// without finding a perfect matching. The constraint set may be infeasible,
// or merely unlucky; callers should suggest relaxing allowlists or raising
// Attempts.
var ErrNoPerfectMatching = fmt.Errorf("matching: %w", errNoPerfectMatching)
var errNoPerfectMatching = fmt.Errorf("no perfect matching found within the attempt budget")

// DefaultAttempts is the search ceiling used when Config.Attempts is unset.
const DefaultAttempts = 50

// Config configures the randomized search.
//   - Attempts: hard ceiling on shuffle-and-match tries (default 50).
//   - Seed: seeds the generator for reproducible draws; nil means a
//     non-deterministic seed.
//   - CollectAll: when false, stop at the first perfect matching; when
//     true, run all attempts, dedup the perfect matchings found, and pick
//     one uniformly at random among the distinct set.
type Config struct {
	Attempts   int
	Seed       *int64
	CollectAll bool
}

// normalize fills defaults in place.
func (c *Config) normalize() {
	if c.Attempts <= 0 {
		c.Attempts = DefaultAttempts
	}
}

// Searcher owns the search configuration and the single random generator
// all shuffles and the final collect-all choice draw from. A Searcher with
// a fixed seed produces the identical assignment on every run against the
// same roster.
type Searcher struct {
	cfg  Config
	seed int64
	rng  *rand.Rand
}

// NewSearcher builds a Searcher from cfg, resolving a nil Seed to the
// current time.
func NewSearcher(cfg Config) *Searcher {
	cfg.normalize()
	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	return &Searcher{
		cfg:  cfg,
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// EffectiveSeed returns the seed the generator was created with, resolved
// or supplied. Persisting it alongside the draw makes any run reproducible
// after the fact.
func (s *Searcher) EffectiveSeed() int64 { return s.seed }

// Attempts returns the normalized attempt ceiling.
func (s *Searcher) Attempts() int { return s.cfg.Attempts }

// CollectAll reports the configured selection policy.
func (s *Searcher) CollectAll() bool { return s.cfg.CollectAll }

// Run searches for a perfect matching over the roster and returns the
// chosen giver -> receiver assignment. Attempts are examined in a fixed
// sequence so seeded runs are reproducible. Returns ErrNoPerfectMatching
// when the budget is exhausted with nothing to show.
func (s *Searcher) Run(ros *roster.Roster) (map[string]string, error) {
	receivers := ros.Names()

	var distinct []map[string]string
	seen := make(map[string]struct{})

	for attempt := 0; attempt < s.cfg.Attempts; attempt++ {
		givers, adj := buildAdjacency(ros, s.rng)
		matchLeft := hopcroftKarp(adj, len(receivers))

		assignment, perfect := toAssignment(givers, receivers, matchLeft)
		if !perfect {
			continue
		}
		if !s.cfg.CollectAll {
			return assignment, nil
		}
		key := canonicalKey(assignment)
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			distinct = append(distinct, assignment)
		}
	}

	if len(distinct) == 0 {
		return nil, ErrNoPerfectMatching
	}
	return distinct[s.rng.Intn(len(distinct))], nil
}

// toAssignment converts matchLeft into a name mapping. perfect is false as
// soon as any giver is unmatched.
func toAssignment(givers, receivers []string, matchLeft []int) (assignment map[string]string, perfect bool) {
	assignment = make(map[string]string, len(givers))
	for u, v := range matchLeft {
		if v == unmatched {
			return nil, false
		}
		assignment[givers[u]] = receivers[v]
	}
	return assignment, true
}

// canonicalKey serializes an assignment into a value-equality key: sorted
// "giver=receiver" pairs. Two attempts that land on the same mapping in a
// different discovery order dedup to one entry.
func canonicalKey(assignment map[string]string) string {
	pairs := make([]string, 0, len(assignment))
	for giver, receiver := range assignment {
		pairs = append(pairs, giver+"="+receiver)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ";")
}
