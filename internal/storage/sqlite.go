// Package storage handles person/relation persistence in JSONL and SQLite
// formats. JSONL files are the git-versionable source of truth; SQLite is an
// ephemeral query cache rebuilt from them.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/knutsen/biograph/internal/person"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// ErrUnavailable indicates the underlying store could not be reached or
// queried. Callers treat it as retryable; the store itself never retries.
var ErrUnavailable = errors.New("store unavailable")

// storeErr wraps a low-level database failure so callers can distinguish
// store outages from input errors with errors.Is(err, ErrUnavailable).
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

const selectPersonFields = `id, name, alt_name, birth_year, death_year`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	d := &DB{db: db}
	if err := d.createRelationsSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating relations schema: %w", err)
	}
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- Main persons table
		CREATE TABLE IF NOT EXISTS persons (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			alt_name TEXT,
			birth_year INTEGER,
			death_year INTEGER
		);

		-- Full-text search virtual table for name lookup
		CREATE VIRTUAL TABLE IF NOT EXISTS persons_fts USING fts5(
			id,
			name,
			alt_name
		);

		-- Relation-code display labels, namespaced by relation type
		CREATE TABLE IF NOT EXISTS rel_codes (
			rel_type TEXT NOT NULL,
			code INTEGER NOT NULL,
			label TEXT NOT NULL,
			PRIMARY KEY (rel_type, code)
		);
	`

	_, err := db.Exec(schema)
	return err
}

// GetPerson retrieves a person by ID. Returns nil (not an error) when the
// record does not exist.
func (d *DB) GetPerson(id person.Key) (*person.Person, error) {
	row := d.db.QueryRow(`SELECT `+selectPersonFields+` FROM persons WHERE id = ?`, int64(id))
	p, err := scanPerson(row)
	if err != nil {
		return nil, storeErr("querying person", err)
	}
	return p, nil
}

// FindNodes retrieves person records for the entire batch of IDs in a single
// query. Duplicate input IDs are deduplicated; IDs with no record are simply
// absent from the result. Input must be non-empty.
func (d *DB) FindNodes(personIDs []person.Key) ([]person.Person, error) {
	if len(personIDs) == 0 {
		return nil, errors.New("FindNodes: person ID batch is empty")
	}
	ids := person.DedupeKeys(personIDs)

	query := `SELECT ` + selectPersonFields + ` FROM persons WHERE id IN (` + placeholders(len(ids)) + `) ORDER BY id`
	rows, err := d.db.Query(query, keyArgs(ids)...)
	if err != nil {
		return nil, storeErr("querying person batch", err)
	}
	defer rows.Close()

	return scanPersons(rows)
}

// CountPersons returns the total number of persons.
func (d *DB) CountPersons() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM persons").Scan(&count)
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return 0, nil
		}
		return 0, storeErr("counting persons", err)
	}
	return count, nil
}

// InsertPerson inserts or replaces a single person, keeping the FTS table
// in sync. The row and its FTS entry commit together, so a mid-sequence
// failure never leaves the index stale until the next rebuild.
func (d *DB) InsertPerson(p person.Person) error {
	tx, err := d.db.Begin()
	if err != nil {
		return storeErr("beginning person insert", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO persons (id, name, alt_name, birth_year, death_year)
		VALUES (?, ?, ?, ?, ?)
	`, int64(p.ID), p.Name, nullableStringValue(p.AltName), nullableInt(p.BirthYear), nullableInt(p.DeathYear)); err != nil {
		return storeErr("inserting person", err)
	}

	if _, err := tx.Exec(`DELETE FROM persons_fts WHERE id = ?`, p.ID.String()); err != nil {
		return storeErr("clearing person fts", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO persons_fts (id, name, alt_name) VALUES (?, ?, ?)
	`, p.ID.String(), p.Name, p.AltName); err != nil {
		return storeErr("inserting person fts", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("committing person insert", err)
	}
	return nil
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPerson(s scanner) (*person.Person, error) {
	var p person.Person
	var id int64
	var altName sql.NullString
	var birthYear, deathYear sql.NullInt64

	err := s.Scan(&id, &p.Name, &altName, &birthYear, &deathYear)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	p.ID = person.Key(id)
	p.AltName = altName.String
	if birthYear.Valid {
		p.BirthYear = int(birthYear.Int64)
	}
	if deathYear.Valid {
		p.DeathYear = int(deathYear.Int64)
	}
	return &p, nil
}

func scanPersons(rows *sql.Rows) ([]person.Person, error) {
	var persons []person.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, storeErr("scanning person", err)
		}
		if p != nil {
			persons = append(persons, *p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("reading person rows", err)
	}
	return persons, nil
}

// placeholders builds a "?, ?, ?" list for IN clauses.
func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// keyArgs converts person keys to query arguments.
func keyArgs(ids []person.Key) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = int64(id)
	}
	return args
}

func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullableInt(v int) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If query contains special chars, quote it
	if strings.ContainsAny(query, "\"*+-:(){}[]^~,") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
