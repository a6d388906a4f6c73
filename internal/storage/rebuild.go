package storage

import (
	"fmt"
)

// RebuildPersonsFromJSONL clears the persons tables and rebuilds them from a
// JSONL file. Returns the number of persons loaded.
func (d *DB) RebuildPersonsFromJSONL(jsonlPath string) (int, error) {
	persons, err := ReadAllPersons(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading persons JSONL: %w", err)
	}

	if _, err := d.db.Exec("DELETE FROM persons"); err != nil {
		return 0, fmt.Errorf("clearing persons table: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM persons_fts"); err != nil {
		return 0, fmt.Errorf("clearing persons_fts table: %w", err)
	}

	personsStmt, err := d.db.Prepare(`
		INSERT INTO persons (id, name, alt_name, birth_year, death_year)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing persons insert: %w", err)
	}
	defer personsStmt.Close()

	ftsStmt, err := d.db.Prepare(`
		INSERT INTO persons_fts (id, name, alt_name) VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, p := range persons {
		_, err = personsStmt.Exec(int64(p.ID), p.Name, nullableStringValue(p.AltName),
			nullableInt(p.BirthYear), nullableInt(p.DeathYear))
		if err != nil {
			return 0, fmt.Errorf("inserting person %d: %w", p.ID, err)
		}
		if _, err = ftsStmt.Exec(p.ID.String(), p.Name, p.AltName); err != nil {
			return 0, fmt.Errorf("inserting fts for %d: %w", p.ID, err)
		}
	}

	return len(persons), nil
}

// RebuildRelationsFromJSONL clears the relations table and rebuilds it from
// a JSONL file. Returns the number of relations loaded.
func (d *DB) RebuildRelationsFromJSONL(jsonlPath string) (int, error) {
	if err := d.createRelationsSchema(); err != nil {
		return 0, fmt.Errorf("creating relations schema: %w", err)
	}

	relations, err := ReadAllRelations(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading relations JSONL: %w", err)
	}

	if _, err := d.db.Exec("DELETE FROM relations"); err != nil {
		return 0, fmt.Errorf("clearing relations table: %w", err)
	}

	stmt, err := d.db.Prepare(`
		INSERT OR REPLACE INTO relations (source_id, target_id, rel_type, rel_code, label, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing relations insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range relations {
		_, err = stmt.Exec(int64(r.SourceID), int64(r.TargetID), string(r.Type), r.Code, r.Label, r.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("inserting relation: %w", err)
		}
	}

	return len(relations), nil
}

// RebuildCodesFromJSONL clears the relation-code table and rebuilds it from
// a JSONL file. Returns the number of code labels loaded.
func (d *DB) RebuildCodesFromJSONL(jsonlPath string) (int, error) {
	codes, err := ReadAllCodes(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading codes JSONL: %w", err)
	}

	if _, err := d.db.Exec("DELETE FROM rel_codes"); err != nil {
		return 0, fmt.Errorf("clearing rel_codes table: %w", err)
	}

	stmt, err := d.db.Prepare(`
		INSERT INTO rel_codes (rel_type, code, label) VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing codes insert: %w", err)
	}
	defer stmt.Close()

	for key, label := range codes {
		if _, err = stmt.Exec(string(key.Type), key.Code, label); err != nil {
			return 0, fmt.Errorf("inserting code %s#%d: %w", key.Type, key.Code, err)
		}
	}

	return len(codes), nil
}
