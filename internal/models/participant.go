package models

// Participant represents one person in the gift exchange, as loaded from
// people.json.
type Participant struct {
	// FirstName and LastName together derive the participant's identity.
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// Email is where this participant's assignment notification is sent.
	Email string `json:"email"`

	// Allowed lists the full names this participant may draw.
	// Empty or absent means "anyone except themselves".
	Allowed []string `json:"allowed,omitempty"`
}

// FullName returns the derived identity "FirstName LastName".
// It must be unique across the roster; the roster package enforces this.
func (p Participant) FullName() string {
	return p.FirstName + " " + p.LastName
}
