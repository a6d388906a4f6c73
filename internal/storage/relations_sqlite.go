package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/knutsen/biograph/internal/person"
	"github.com/knutsen/biograph/internal/relation"
)

// createRelationsSchema creates the relations table and indexes.
func (d *DB) createRelationsSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS relations (
			source_id INTEGER NOT NULL,
			target_id INTEGER NOT NULL,
			rel_type TEXT NOT NULL,
			rel_code INTEGER NOT NULL DEFAULT 0,
			label TEXT NOT NULL DEFAULT '',
			created_at TEXT,
			PRIMARY KEY (source_id, target_id, rel_type, rel_code)
		);

		CREATE INDEX IF NOT EXISTS idx_relations_source ON relations(source_id);
		CREATE INDEX IF NOT EXISTS idx_relations_target ON relations(target_id);
		CREATE INDEX IF NOT EXISTS idx_relations_type ON relations(rel_type);
	`
	_, err := d.db.Exec(schema)
	return err
}

// FindEdges retrieves every relation touching any of the given person IDs,
// restricted to the given relation types, in a single query. This is the
// batch boundary that keeps BFS expansion from issuing one query per node.
//
// Duplicate input IDs are deduplicated before querying. An empty type filter
// yields an empty edge set, not all types. The ID batch must be non-empty.
func (d *DB) FindEdges(personIDs []person.Key, types []relation.Type) ([]relation.Relation, error) {
	if len(personIDs) == 0 {
		return nil, errors.New("FindEdges: person ID batch is empty")
	}
	if len(types) == 0 {
		return nil, nil
	}
	ids := person.DedupeKeys(personIDs)

	idList := placeholders(len(ids))
	query := `
		SELECT source_id, target_id, rel_type, rel_code, label, created_at
		FROM relations
		WHERE (source_id IN (` + idList + `) OR target_id IN (` + idList + `))
		AND rel_type IN (` + placeholders(len(types)) + `)
		ORDER BY source_id, target_id, rel_type, rel_code
	`

	args := make([]interface{}, 0, 2*len(ids)+len(types))
	args = append(args, keyArgs(ids)...)
	args = append(args, keyArgs(ids)...)
	for _, t := range types {
		args = append(args, string(t))
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, storeErr("querying relation batch", err)
	}
	defer rows.Close()

	return scanRelations(rows)
}

// RelationCounts returns the total relation-edge count per person for the
// given batch, counting both directions. Persons with no relations are
// absent from the result map.
func (d *DB) RelationCounts(personIDs []person.Key) (map[person.Key]int, error) {
	if len(personIDs) == 0 {
		return map[person.Key]int{}, nil
	}
	ids := person.DedupeKeys(personIDs)
	idList := placeholders(len(ids))

	query := `
		SELECT id, SUM(cnt) FROM (
			SELECT source_id AS id, COUNT(*) AS cnt FROM relations
				WHERE source_id IN (` + idList + `) GROUP BY source_id
			UNION ALL
			SELECT target_id AS id, COUNT(*) AS cnt FROM relations
				WHERE target_id IN (` + idList + `) GROUP BY target_id
		) GROUP BY id
	`

	args := make([]interface{}, 0, 2*len(ids))
	args = append(args, keyArgs(ids)...)
	args = append(args, keyArgs(ids)...)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, storeErr("counting relations per person", err)
	}
	defer rows.Close()

	counts := make(map[person.Key]int, len(ids))
	for rows.Next() {
		var id int64
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, storeErr("scanning relation counts", err)
		}
		counts[person.Key(id)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("reading relation counts", err)
	}
	return counts, nil
}

// RelationCountsByType returns relation counts per type for one person.
func (d *DB) RelationCountsByType(id person.Key) (map[relation.Type]int, error) {
	rows, err := d.db.Query(`
		SELECT rel_type, COUNT(*) FROM relations
		WHERE source_id = ? OR target_id = ?
		GROUP BY rel_type
	`, int64(id), int64(id))
	if err != nil {
		return nil, storeErr("counting relations by type", err)
	}
	defer rows.Close()

	counts := make(map[relation.Type]int)
	for rows.Next() {
		var t string
		var count int
		if err := rows.Scan(&t, &count); err != nil {
			return nil, storeErr("scanning type counts", err)
		}
		counts[relation.Type(t)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("reading type counts", err)
	}
	return counts, nil
}

// InsertRelation inserts a single relation into the database.
func (d *DB) InsertRelation(r relation.Relation) error {
	if err := d.createRelationsSchema(); err != nil {
		return fmt.Errorf("creating relations schema: %w", err)
	}

	_, err := d.db.Exec(`
		INSERT OR REPLACE INTO relations (source_id, target_id, rel_type, rel_code, label, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, int64(r.SourceID), int64(r.TargetID), string(r.Type), r.Code, r.Label, r.CreatedAt)
	if err != nil {
		return storeErr("inserting relation", err)
	}
	return nil
}

// CountRelations returns the total number of relations.
func (d *DB) CountRelations() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM relations").Scan(&count)
	if err != nil {
		// Table might not exist yet
		if strings.Contains(err.Error(), "no such table") {
			return 0, nil
		}
		return 0, storeErr("counting relations", err)
	}
	return count, nil
}

// AllRelationCodes returns the full relation-code label table.
func (d *DB) AllRelationCodes() (map[relation.CodeKey]string, error) {
	rows, err := d.db.Query(`SELECT rel_type, code, label FROM rel_codes`)
	if err != nil {
		return nil, storeErr("querying relation codes", err)
	}
	defer rows.Close()

	labels := make(map[relation.CodeKey]string)
	for rows.Next() {
		var t string
		var code int
		var label string
		if err := rows.Scan(&t, &code, &label); err != nil {
			return nil, storeErr("scanning relation code", err)
		}
		labels[relation.CodeKey{Type: relation.Type(t), Code: code}] = label
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("reading relation codes", err)
	}
	return labels, nil
}

// SetRelationCode inserts or replaces a relation-code label.
func (d *DB) SetRelationCode(key relation.CodeKey, label string) error {
	_, err := d.db.Exec(`
		INSERT OR REPLACE INTO rel_codes (rel_type, code, label) VALUES (?, ?, ?)
	`, string(key.Type), key.Code, label)
	if err != nil {
		return storeErr("inserting relation code", err)
	}
	return nil
}

// scanRelations scans rows into a slice of relations.
func scanRelations(rows *sql.Rows) ([]relation.Relation, error) {
	var relations []relation.Relation
	for rows.Next() {
		var r relation.Relation
		var sourceID, targetID int64
		var relType string
		var createdAt sql.NullString
		err := rows.Scan(&sourceID, &targetID, &relType, &r.Code, &r.Label, &createdAt)
		if err != nil {
			return nil, storeErr("scanning relation", err)
		}
		r.SourceID = person.Key(sourceID)
		r.TargetID = person.Key(targetID)
		r.Type = relation.Type(relType)
		if createdAt.Valid {
			r.CreatedAt = createdAt.String
		}
		relations = append(relations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("reading relation rows", err)
	}
	return relations, nil
}
