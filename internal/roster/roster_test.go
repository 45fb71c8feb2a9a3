package roster

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jkowalik/giftdraw/internal/models"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		records      []models.Participant
		wantErr      error
		validateFunc func(t *testing.T, r *Roster)
	}{
		{
			name: "valid roster with mixed allowlists",
			records: []models.Participant{
				{FirstName: "Jan", LastName: "Kowalski", Email: "jan@example.com"},
				{FirstName: "Anna", LastName: "Nowak", Email: "anna@example.com", Allowed: []string{"Jan Kowalski"}},
				{FirstName: "Piotr", LastName: "Wisniewski", Email: "piotr@example.com"},
			},
			validateFunc: func(t *testing.T, r *Roster) {
				if r.Len() != 3 {
					t.Errorf("Len() = %d, want 3", r.Len())
				}
				names := r.Names()
				want := []string{"Jan Kowalski", "Anna Nowak", "Piotr Wisniewski"}
				for i, n := range want {
					if names[i] != n {
						t.Errorf("Names()[%d] = %q, want %q", i, names[i], n)
					}
				}
				p, ok := r.ByName("Anna Nowak")
				if !ok {
					t.Fatal("ByName(Anna Nowak) not found")
				}
				if p.Email != "anna@example.com" {
					t.Errorf("Email = %q, want anna@example.com", p.Email)
				}
			},
		},
		{
			name: "duplicate full name is fatal",
			records: []models.Participant{
				{FirstName: "Jan", LastName: "Kowalski", Email: "jan1@example.com"},
				{FirstName: "Jan", LastName: "Kowalski", Email: "jan2@example.com"},
			},
			wantErr: &DuplicateError{},
		},
		{
			name: "unknown allowlist entry is fatal",
			records: []models.Participant{
				{FirstName: "Jan", LastName: "Kowalski", Email: "jan@example.com",
					Allowed: []string{"Nieznany Ktos"}},
				{FirstName: "Anna", LastName: "Nowak", Email: "anna@example.com"},
			},
			wantErr: &UnknownReferenceError{},
		},
		{
			name: "self in allowlist is accepted at validation time",
			records: []models.Participant{
				{FirstName: "Jan", LastName: "Kowalski", Email: "jan@example.com",
					Allowed: []string{"Jan Kowalski"}},
				{FirstName: "Anna", LastName: "Nowak", Email: "anna@example.com"},
			},
			validateFunc: func(t *testing.T, r *Roster) {
				if r.Len() != 2 {
					t.Errorf("Len() = %d, want 2", r.Len())
				}
			},
		},
		{
			name:    "empty roster is valid",
			records: nil,
			validateFunc: func(t *testing.T, r *Roster) {
				if r.Len() != 0 {
					t.Errorf("Len() = %d, want 0", r.Len())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.records)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("New() succeeded, want error")
				}
				switch tt.wantErr.(type) {
				case *DuplicateError:
					var de *DuplicateError
					if !errors.As(err, &de) {
						t.Fatalf("New() error = %v, want DuplicateError", err)
					}
				case *UnknownReferenceError:
					var ue *UnknownReferenceError
					if !errors.As(err, &ue) {
						t.Fatalf("New() error = %v, want UnknownReferenceError", err)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, r)
			}
		})
	}
}

func TestDuplicateErrorCarriesName(t *testing.T) {
	_, err := New([]models.Participant{
		{FirstName: "Jan", LastName: "Kowalski"},
		{FirstName: "Jan", LastName: "Kowalski"},
	})
	var de *DuplicateError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want DuplicateError", err)
	}
	if de.FullName != "Jan Kowalski" {
		t.Errorf("FullName = %q, want Jan Kowalski", de.FullName)
	}
}

func TestUnknownReferenceErrorCarriesNames(t *testing.T) {
	_, err := New([]models.Participant{
		{FirstName: "Jan", LastName: "Kowalski", Allowed: []string{"Nieznany Ktos"}},
	})
	var ue *UnknownReferenceError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want UnknownReferenceError", err)
	}
	if ue.FullName != "Jan Kowalski" || ue.Target != "Nieznany Ktos" {
		t.Errorf("got (%q, %q), want (Jan Kowalski, Nieznany Ktos)", ue.FullName, ue.Target)
	}
}

func TestNamesReturnsCopy(t *testing.T) {
	r, err := New([]models.Participant{
		{FirstName: "Jan", LastName: "Kowalski"},
		{FirstName: "Anna", LastName: "Nowak"},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	names := r.Names()
	names[0] = "tampered"
	if got := r.Names()[0]; got != "Jan Kowalski" {
		t.Errorf("Names()[0] after tampering = %q, want Jan Kowalski", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.json")
	content := `[
  {"first_name": "Jan", "last_name": "Kowalski", "email": "jan@example.com"},
  {"first_name": "Anna", "last_name": "Nowak", "email": "anna@example.com", "allowed": ["Jan Kowalski"]}
]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
	p, ok := r.ByName("Anna Nowak")
	if !ok {
		t.Fatal("ByName(Anna Nowak) not found")
	}
	if len(p.Allowed) != 1 || p.Allowed[0] != "Jan Kowalski" {
		t.Errorf("Allowed = %v, want [Jan Kowalski]", p.Allowed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("Load() succeeded on a missing file")
	}
}
