package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS splits (
    id TEXT PRIMARY KEY,
    total_amount REAL NOT NULL,
    total_users INTEGER NOT NULL,
    per_user_amount REAL NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS split_users (
    split_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    user_name TEXT NOT NULL,
    initial_share REAL NOT NULL,
    current_balance REAL NOT NULL,
    is_paid INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL,
    PRIMARY KEY (split_id, user_id),
    FOREIGN KEY (split_id) REFERENCES splits(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS purchases (
    id TEXT PRIMARY KEY,
    split_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    item_name TEXT NOT NULL,
    amount REAL NOT NULL,
    created_at INTEGER NOT NULL,
    position INTEGER NOT NULL,
    FOREIGN KEY (split_id) REFERENCES splits(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS calculations (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    total_amount REAL NOT NULL,
    user_amount REAL NOT NULL,
    result REAL NOT NULL,
    percentage REAL NOT NULL,
    remaining REAL NOT NULL,
    calculation_type TEXT NOT NULL,
    formula TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_split_users_split_id ON split_users(split_id);
CREATE INDEX IF NOT EXISTS idx_purchases_split_id ON purchases(split_id);
CREATE INDEX IF NOT EXISTS idx_splits_created_at ON splits(created_at);
CREATE INDEX IF NOT EXISTS idx_calculations_created_at ON calculations(created_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
