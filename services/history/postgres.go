package history

import (
	"database/sql"

	"cruisescanner/logger"
	"cruisescanner/pkg/errors"

	_ "github.com/lib/pq"
)

// PostgresStore persists the identity set in a single-column table, for
// deployments where the worker has no durable filesystem.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and ensures the backing table exists
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewHistory("postgres", "failed to open connection", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.NewHistory("postgres", "failed to ping database", err)
	}

	createTable := `
		CREATE TABLE IF NOT EXISTS seen_listings (
			identity   TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, errors.NewHistory("postgres", "failed to create table", err)
	}

	return &PostgresStore{db: db}, nil
}

// Load reads all recorded identities. Query failures degrade to an empty
// set, matching the file store's fail-soft contract.
func (p *PostgresStore) Load() *Set {
	log := logger.ForHistory()

	rows, err := p.db.Query(`SELECT identity FROM seen_listings`)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to query history table, starting empty")
		return NewSet()
	}
	defer rows.Close()

	set := NewSet()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			log.Warn().Err(err).Msg("Failed to scan history row, starting empty")
			return NewSet()
		}
		set.Add(id)
	}
	if err := rows.Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to iterate history rows, starting empty")
		return NewSet()
	}
	return set
}

// Save upserts every identity in the set; already-present rows are left
// untouched so the table mirrors the set's monotonic growth.
func (p *PostgresStore) Save(set *Set) error {
	tx, err := p.db.Begin()
	if err != nil {
		return errors.NewHistory("postgres", "failed to begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO seen_listings (identity) VALUES ($1) ON CONFLICT (identity) DO NOTHING`)
	if err != nil {
		return errors.NewHistory("postgres", "failed to prepare insert", err)
	}
	defer stmt.Close()

	for _, id := range set.Identities() {
		if _, err := stmt.Exec(id); err != nil {
			return errors.NewHistory("postgres", "failed to insert identity", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewHistory("postgres", "failed to commit", err)
	}
	return nil
}

// Close releases the database connection
func (p *PostgresStore) Close() error {
	return p.db.Close()
}
