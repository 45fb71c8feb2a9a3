package roster

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jkowalik/giftdraw/internal/models"
)

// Load reads a people.json file (an array of participant records) and
// returns the validated roster. Validation errors from New pass through
// unwrapped so callers can match on their concrete types.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roster: failed to read %s: %w", path, err)
	}
	var records []models.Participant
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("roster: failed to decode %s: %w", path, err)
	}
	return New(records)
}
