package sqlite

import (
	"context"
	"database/sql"
)

// schema sets up the database. It runs on startup and is idempotent.
// Child tables carry a position column so rows read back in insertion order.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bar_nights (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    total_amount REAL NOT NULL,
    date TEXT NOT NULL,
    created_by TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bar_night_participants (
    bar_night_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    share_amount REAL NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (bar_night_id, user_id),
    FOREIGN KEY (bar_night_id) REFERENCES bar_nights(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS bar_night_payments (
    bar_night_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    amount REAL NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (bar_night_id, user_id),
    FOREIGN KEY (bar_night_id) REFERENCES bar_nights(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS individual_items (
    id TEXT PRIMARY KEY,
    bar_night_id TEXT NOT NULL,
    description TEXT NOT NULL,
    amount REAL NOT NULL,
    position INTEGER NOT NULL,
    FOREIGN KEY (bar_night_id) REFERENCES bar_nights(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS individual_item_participants (
    item_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    share_amount REAL NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (item_id, user_id),
    FOREIGN KEY (item_id) REFERENCES individual_items(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    event_type TEXT NOT NULL,
    event_data TEXT NOT NULL,
    event_metadata TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bar_nights_date ON bar_nights(date DESC, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_participants_bar_night_id ON bar_night_participants(bar_night_id);
CREATE INDEX IF NOT EXISTS idx_payments_bar_night_id ON bar_night_payments(bar_night_id);
CREATE INDEX IF NOT EXISTS idx_items_bar_night_id ON individual_items(bar_night_id);
CREATE INDEX IF NOT EXISTS idx_item_participants_item_id ON individual_item_participants(item_id);
CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type, created_at);
`

// runMigrations executes the schema setup.
func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
