package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS draws (
    id TEXT PRIMARY KEY,
    seed INTEGER NOT NULL,
    attempts INTEGER NOT NULL,
    collect_all INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS draw_assignments (
    draw_id TEXT NOT NULL,
    giver TEXT NOT NULL,
    receiver TEXT NOT NULL,
    PRIMARY KEY (draw_id, giver),
    FOREIGN KEY (draw_id) REFERENCES draws(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_draw_assignments_draw_id ON draw_assignments(draw_id);
CREATE INDEX IF NOT EXISTS idx_draws_created_at ON draws(created_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
