// Package matching finds a constrained perfect assignment over a roster:
// everyone gives to exactly one other participant, nobody draws themselves,
// and per-participant allowlists are honored.
//
// The search is randomized retry on top of Hopcroft-Karp maximum bipartite
// matching: each attempt permutes the giver order and every giver's
// candidate order, runs the engine, and keeps the result only if the
// matching is perfect. A seeded Searcher is fully reproducible.
package matching
