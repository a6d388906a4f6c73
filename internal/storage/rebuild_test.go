package storage

import (
	"testing"

	"github.com/knutsen/biograph/internal/person"
	"github.com/knutsen/biograph/internal/relation"
)

func TestRebuildPersonsFromJSONL(t *testing.T) {
	db := testDB(t)
	// Stale row that the rebuild must clear.
	if err := db.InsertPerson(person.Person{ID: 424242, Name: "Stale"}); err != nil {
		t.Fatalf("InsertPerson: %v", err)
	}

	dir := t.TempDir()
	path := writeFile(t, dir, "persons.jsonl",
		`{"id": 1762, "name": "Wang Anshi", "alt_name": "Wang Jiefu"}
{"id": 526, "name": "Wang Pang"}
`)

	n, err := db.RebuildPersonsFromJSONL(path)
	if err != nil {
		t.Fatalf("RebuildPersonsFromJSONL: %v", err)
	}
	if n != 2 {
		t.Errorf("loaded %d persons, want 2", n)
	}

	stale, err := db.GetPerson(424242)
	if err != nil {
		t.Fatalf("GetPerson: %v", err)
	}
	if stale != nil {
		t.Error("stale person survived the rebuild")
	}

	// The FTS index is rebuilt along with the table.
	persons, total, err := db.FindByName("Jiefu", SearchOptions{})
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if total != 1 || len(persons) != 1 || persons[0].ID != 1762 {
		t.Errorf("post-rebuild search = %d total, %+v", total, persons)
	}
}

func TestRebuildRelationsFromJSONL(t *testing.T) {
	db := testDB(t)
	if err := db.InsertRelation(relation.Relation{
		SourceID: 9, TargetID: 10, Type: relation.Office, Code: 1,
	}); err != nil {
		t.Fatalf("InsertRelation: %v", err)
	}

	dir := t.TempDir()
	path := writeFile(t, dir, "relations.jsonl",
		`{"source_id": 1762, "target_id": 526, "type": "kinship", "code": 180, "label": "son"}
`)

	n, err := db.RebuildRelationsFromJSONL(path)
	if err != nil {
		t.Fatalf("RebuildRelationsFromJSONL: %v", err)
	}
	if n != 1 {
		t.Errorf("loaded %d relations, want 1", n)
	}

	count, err := db.CountRelations()
	if err != nil {
		t.Fatalf("CountRelations: %v", err)
	}
	if count != 1 {
		t.Errorf("CountRelations = %d, want 1", count)
	}

	rels, err := db.FindEdges([]person.Key{1762}, relation.AllTypes)
	if err != nil {
		t.Fatalf("FindEdges: %v", err)
	}
	if len(rels) != 1 || rels[0].Label != "son" {
		t.Errorf("FindEdges = %+v", rels)
	}
}

func TestRebuildCodesFromJSONL(t *testing.T) {
	db := testDB(t)
	if err := db.SetRelationCode(relation.CodeKey{Type: relation.Office, Code: 99}, "stale"); err != nil {
		t.Fatalf("SetRelationCode: %v", err)
	}

	dir := t.TempDir()
	path := writeFile(t, dir, "codes.jsonl",
		`{"type": "kinship", "code": 75, "label": "father"}
`)

	n, err := db.RebuildCodesFromJSONL(path)
	if err != nil {
		t.Fatalf("RebuildCodesFromJSONL: %v", err)
	}
	if n != 1 {
		t.Errorf("loaded %d codes, want 1", n)
	}

	labels, err := db.AllRelationCodes()
	if err != nil {
		t.Fatalf("AllRelationCodes: %v", err)
	}
	if len(labels) != 1 {
		t.Fatalf("got %d labels, want 1: %v", len(labels), labels)
	}
	if labels[relation.CodeKey{Type: relation.Kinship, Code: 75}] != "father" {
		t.Errorf("labels = %v", labels)
	}
}
