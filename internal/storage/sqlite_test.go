package storage

import (
	"path/filepath"
	"testing"

	"github.com/knutsen/biograph/internal/person"
	"github.com/knutsen/biograph/internal/relation"
)

// testDB opens a fresh database in a temp dir.
func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "persons.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedWangFixture loads a small fixture: Wang Anshi with a kinship edge to
// his son and an association edge to Su Shi.
func seedWangFixture(t *testing.T, db *DB) {
	t.Helper()
	persons := []person.Person{
		{ID: 1762, Name: "Wang Anshi", AltName: "Wang Jiefu", BirthYear: 1021, DeathYear: 1086},
		{ID: 526, Name: "Wang Pang"},
		{ID: 999, Name: "Su Shi"},
	}
	for _, p := range persons {
		if err := db.InsertPerson(p); err != nil {
			t.Fatalf("InsertPerson(%d): %v", p.ID, err)
		}
	}
	relations := []relation.Relation{
		{SourceID: 1762, TargetID: 526, Type: relation.Kinship, Code: 180, Label: "son"},
		{SourceID: 1762, TargetID: 999, Type: relation.Association, Code: 12, Label: "opposed"},
	}
	for _, r := range relations {
		if err := db.InsertRelation(r); err != nil {
			t.Fatalf("InsertRelation: %v", err)
		}
	}
}

func TestGetPerson(t *testing.T) {
	db := testDB(t)
	seedWangFixture(t, db)

	p, err := db.GetPerson(1762)
	if err != nil {
		t.Fatalf("GetPerson: %v", err)
	}
	if p == nil {
		t.Fatal("GetPerson returned nil for an existing person")
	}
	if p.Name != "Wang Anshi" || p.AltName != "Wang Jiefu" || p.BirthYear != 1021 || p.DeathYear != 1086 {
		t.Errorf("GetPerson = %+v", p)
	}

	missing, err := db.GetPerson(424242)
	if err != nil {
		t.Fatalf("GetPerson(missing): %v", err)
	}
	if missing != nil {
		t.Errorf("GetPerson(missing) = %+v, want nil", missing)
	}
}

func TestFindNodes(t *testing.T) {
	db := testDB(t)
	seedWangFixture(t, db)

	// Duplicates and missing IDs in one batch.
	persons, err := db.FindNodes([]person.Key{1762, 999, 1762, 424242})
	if err != nil {
		t.Fatalf("FindNodes: %v", err)
	}
	if len(persons) != 2 {
		t.Fatalf("FindNodes returned %d persons, want 2: %+v", len(persons), persons)
	}
	// Ordered by ID; the missing ID is simply absent.
	if persons[0].ID != 999 || persons[1].ID != 1762 {
		t.Errorf("FindNodes order = %v, %v", persons[0].ID, persons[1].ID)
	}

	if _, err := db.FindNodes(nil); err == nil {
		t.Error("FindNodes accepted an empty batch")
	}
}

func TestInsertPersonReplaces(t *testing.T) {
	db := testDB(t)
	if err := db.InsertPerson(person.Person{ID: 1, Name: "Old Name"}); err != nil {
		t.Fatalf("InsertPerson: %v", err)
	}
	if err := db.InsertPerson(person.Person{ID: 1, Name: "New Name"}); err != nil {
		t.Fatalf("InsertPerson (replace): %v", err)
	}

	p, err := db.GetPerson(1)
	if err != nil {
		t.Fatalf("GetPerson: %v", err)
	}
	if p.Name != "New Name" {
		t.Errorf("Name = %q, want %q", p.Name, "New Name")
	}

	count, err := db.CountPersons()
	if err != nil {
		t.Fatalf("CountPersons: %v", err)
	}
	if count != 1 {
		t.Errorf("CountPersons = %d, want 1", count)
	}

	// The FTS index commits with the row: the old name is gone, the new
	// one is searchable.
	if _, total, err := db.FindByName("Old", SearchOptions{}); err != nil || total != 0 {
		t.Errorf("stale FTS entry: total = %d, err = %v", total, err)
	}
	persons, total, err := db.FindByName("New", SearchOptions{})
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if total != 1 || len(persons) != 1 || persons[0].ID != 1 {
		t.Errorf("replaced FTS entry = %d total, %+v", total, persons)
	}
}

func TestCountsOnFreshDB(t *testing.T) {
	db := testDB(t)

	persons, err := db.CountPersons()
	if err != nil || persons != 0 {
		t.Errorf("CountPersons = %d, %v; want 0, nil", persons, err)
	}
	relations, err := db.CountRelations()
	if err != nil || relations != 0 {
		t.Errorf("CountRelations = %d, %v; want 0, nil", relations, err)
	}
}
