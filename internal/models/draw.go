package models

// Draw represents one persisted matching result.
//
// Seed, Attempts and CollectAll record the search configuration that
// produced the draw, so any draw in the history can be reproduced by
// re-running against the same roster.
type Draw struct {
	// ID is the unique identifier for the draw (UUID format).
	ID string

	// Assignments maps giver full name -> receiver full name.
	// Every participant appears exactly once as a giver and exactly
	// once as a receiver.
	Assignments map[string]string

	// Seed is the effective random seed the search ran with.
	Seed int64

	// Attempts is the search ceiling the draw was produced under.
	Attempts int

	// CollectAll records whether the search collected all distinct
	// perfect matchings before choosing, or stopped at the first.
	CollectAll bool

	// CreatedAt is the Unix timestamp when the draw was persisted.
	CreatedAt int64
}
