package storage

import (
	"testing"

	"github.com/knutsen/biograph/internal/person"
	"github.com/knutsen/biograph/internal/relation"
)

func TestFindEdgesTypeFilter(t *testing.T) {
	db := testDB(t)
	seedWangFixture(t, db)

	// Kinship only: the association edge to Su Shi must not appear.
	rels, err := db.FindEdges([]person.Key{1762}, []relation.Type{relation.Kinship})
	if err != nil {
		t.Fatalf("FindEdges: %v", err)
	}
	if len(rels) != 1 {
		t.Fatalf("FindEdges returned %d relations, want 1: %+v", len(rels), rels)
	}
	r := rels[0]
	if r.SourceID != 1762 || r.TargetID != 526 || r.Type != relation.Kinship || r.Code != 180 || r.Label != "son" {
		t.Errorf("FindEdges = %+v", r)
	}

	// All types: both edges.
	rels, err = db.FindEdges([]person.Key{1762}, relation.AllTypes)
	if err != nil {
		t.Fatalf("FindEdges: %v", err)
	}
	if len(rels) != 2 {
		t.Errorf("FindEdges returned %d relations, want 2", len(rels))
	}
}

func TestFindEdgesMatchesEitherEndpoint(t *testing.T) {
	db := testDB(t)
	seedWangFixture(t, db)

	// 526 only appears as a target; the edge must still be found.
	rels, err := db.FindEdges([]person.Key{526}, relation.AllTypes)
	if err != nil {
		t.Fatalf("FindEdges: %v", err)
	}
	if len(rels) != 1 || rels[0].SourceID != 1762 {
		t.Errorf("FindEdges(target side) = %+v", rels)
	}
}

func TestFindEdgesEmptyInputs(t *testing.T) {
	db := testDB(t)
	seedWangFixture(t, db)

	if _, err := db.FindEdges(nil, relation.AllTypes); err == nil {
		t.Error("FindEdges accepted an empty ID batch")
	}

	// Empty type filter means fetch nothing, not everything.
	rels, err := db.FindEdges([]person.Key{1762}, nil)
	if err != nil {
		t.Fatalf("FindEdges: %v", err)
	}
	if len(rels) != 0 {
		t.Errorf("FindEdges with empty types returned %d relations", len(rels))
	}
}

func TestRelationCounts(t *testing.T) {
	db := testDB(t)
	seedWangFixture(t, db)

	counts, err := db.RelationCounts([]person.Key{1762, 526, 999, 424242})
	if err != nil {
		t.Fatalf("RelationCounts: %v", err)
	}
	if counts[1762] != 2 {
		t.Errorf("counts[1762] = %d, want 2", counts[1762])
	}
	if counts[526] != 1 || counts[999] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if _, ok := counts[424242]; ok {
		t.Error("count present for person with no relations")
	}

	empty, err := db.RelationCounts(nil)
	if err != nil {
		t.Fatalf("RelationCounts(nil): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("RelationCounts(nil) = %v", empty)
	}
}

func TestRelationCountsByType(t *testing.T) {
	db := testDB(t)
	seedWangFixture(t, db)

	counts, err := db.RelationCountsByType(1762)
	if err != nil {
		t.Fatalf("RelationCountsByType: %v", err)
	}
	if counts[relation.Kinship] != 1 || counts[relation.Association] != 1 || counts[relation.Office] != 0 {
		t.Errorf("counts = %v", counts)
	}
}

func TestInsertRelationIdentity(t *testing.T) {
	db := testDB(t)

	r := relation.Relation{SourceID: 1, TargetID: 2, Type: relation.Kinship, Code: 5, Label: "old"}
	if err := db.InsertRelation(r); err != nil {
		t.Fatalf("InsertRelation: %v", err)
	}
	// Same identity tuple replaces instead of duplicating.
	r.Label = "new"
	if err := db.InsertRelation(r); err != nil {
		t.Fatalf("InsertRelation (replace): %v", err)
	}
	// A different code under the same pair is a distinct relation.
	r.Code = 6
	if err := db.InsertRelation(r); err != nil {
		t.Fatalf("InsertRelation (new code): %v", err)
	}

	count, err := db.CountRelations()
	if err != nil {
		t.Fatalf("CountRelations: %v", err)
	}
	if count != 2 {
		t.Errorf("CountRelations = %d, want 2", count)
	}
}

func TestRelationCodes(t *testing.T) {
	db := testDB(t)

	if err := db.SetRelationCode(relation.CodeKey{Type: relation.Kinship, Code: 75}, "father"); err != nil {
		t.Fatalf("SetRelationCode: %v", err)
	}
	if err := db.SetRelationCode(relation.CodeKey{Type: relation.Association, Code: 75}, "patron of"); err != nil {
		t.Fatalf("SetRelationCode: %v", err)
	}

	labels, err := db.AllRelationCodes()
	if err != nil {
		t.Fatalf("AllRelationCodes: %v", err)
	}
	if len(labels) != 2 {
		t.Fatalf("got %d code labels, want 2: %v", len(labels), labels)
	}
	// The same numeric code resolves per type.
	if labels[relation.CodeKey{Type: relation.Kinship, Code: 75}] != "father" {
		t.Errorf("kinship#75 = %q", labels[relation.CodeKey{Type: relation.Kinship, Code: 75}])
	}
	if labels[relation.CodeKey{Type: relation.Association, Code: 75}] != "patron of" {
		t.Errorf("association#75 = %q", labels[relation.CodeKey{Type: relation.Association, Code: 75}])
	}
}
