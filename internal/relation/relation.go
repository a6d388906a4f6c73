// Package relation defines the core domain types for relationship edges
// between persons: kinship, association, and office-colleague links.
package relation

import (
	"errors"
	"fmt"
	"time"

	"github.com/knutsen/biograph/internal/person"
)

// Type classifies a relation edge.
type Type string

const (
	// Kinship is a family relation (parent, sibling, spouse, etc.).
	Kinship Type = "kinship"
	// Association is a non-kin social or professional relation.
	Association Type = "association"
	// Office is a derived colleague link between holders of related posts.
	Office Type = "office"
)

// AllTypes lists every valid relation type in canonical order.
var AllTypes = []Type{Kinship, Association, Office}

// ParseType validates a relation-type string.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case Kinship, Association, Office:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown relation type %q: must be kinship, association, or office", s)
}

// ParseTypes validates a list of relation-type strings, removing duplicates
// while preserving order. An empty input yields an empty set, which callers
// treat as "fetch nothing", not "fetch everything".
func ParseTypes(ss []string) ([]Type, error) {
	seen := make(map[Type]bool, len(ss))
	out := make([]Type, 0, len(ss))
	for _, s := range ss {
		t, err := ParseType(s)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

// Relation represents a directed relationship between two persons as stored.
// Graph assembly consumes relations as undirected.
type Relation struct {
	// Identity: (SourceID, TargetID, Type, Code) tuple
	SourceID person.Key `json:"source_id"`
	TargetID person.Key `json:"target_id"`
	Type     Type       `json:"type"`
	Code     int        `json:"code"`

	// Metadata
	Label     string `json:"label,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Validation errors.
var (
	ErrInvalidSourceID = errors.New("source_id must be positive")
	ErrInvalidTargetID = errors.New("target_id must be positive")
	ErrInvalidType     = errors.New("relation type is required")
	ErrSelfRelation    = errors.New("source_id and target_id cannot be the same")
)

// ValidateForCreate validates a relation for insertion.
func (r *Relation) ValidateForCreate() error {
	if r.SourceID <= 0 {
		return ErrInvalidSourceID
	}
	if r.TargetID <= 0 {
		return ErrInvalidTargetID
	}
	if _, err := ParseType(string(r.Type)); err != nil {
		return ErrInvalidType
	}
	if r.SourceID == r.TargetID {
		return ErrSelfRelation
	}
	return nil
}

// SetCreatedAt sets the CreatedAt timestamp to the current time if unset.
func (r *Relation) SetCreatedAt() {
	if r.CreatedAt == "" {
		r.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
}

// CodeKey identifies a relation-code label: codes are namespaced by type.
type CodeKey struct {
	Type Type
	Code int
}
