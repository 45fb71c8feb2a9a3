// Package roster builds a validated, immutable view of the participant
// list. All identity rules live here: full names must be unique, and every
// allowlist entry must name a known participant. The matching package
// consumes the roster read-only.
package roster

import (
	"fmt"

	"github.com/jkowalik/giftdraw/internal/models"
)

// DuplicateError reports two participant records deriving the same full name.
type DuplicateError struct {
	FullName string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("roster: duplicate full name %q", e.FullName)
}

// UnknownReferenceError reports an allowlist entry that names no known
// participant.
type UnknownReferenceError struct {
	FullName string // participant whose allowlist is invalid
	Target   string // the unresolvable entry
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("roster: participant %q lists unknown recipient %q", e.FullName, e.Target)
}

// Roster is the validated, immutable participant set. Construct with New;
// a zero Roster is empty.
type Roster struct {
	names  []string
	byName map[string]models.Participant
}

// New validates records and builds the roster. Validation runs before any
// matching attempt: duplicate full names and unresolvable allowlist entries
// are fatal. A participant listing themself in allowed is accepted here;
// the self edge is simply never part of the constraint graph, so such an
// entry only shrinks that participant's options.
func New(records []models.Participant) (*Roster, error) {
	r := &Roster{
		names:  make([]string, 0, len(records)),
		byName: make(map[string]models.Participant, len(records)),
	}
	for _, p := range records {
		name := p.FullName()
		if _, exists := r.byName[name]; exists {
			return nil, &DuplicateError{FullName: name}
		}
		r.byName[name] = p
		r.names = append(r.names, name)
	}
	for _, name := range r.names {
		for _, target := range r.byName[name].Allowed {
			if _, known := r.byName[target]; !known {
				return nil, &UnknownReferenceError{FullName: name, Target: target}
			}
		}
	}
	return r, nil
}

// Len returns the number of participants.
func (r *Roster) Len() int { return len(r.names) }

// Names returns the participant full names in record order. The returned
// slice is a copy; callers may permute it freely.
func (r *Roster) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// ByName looks up a participant by full name.
func (r *Roster) ByName(name string) (models.Participant, bool) {
	p, ok := r.byName[name]
	return p, ok
}
