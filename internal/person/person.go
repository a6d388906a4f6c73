// Package person defines the core domain types for biographical persons.
package person

import (
	"errors"
	"strconv"
)

// Key is the stable identifier for a person across the store and all
// graph assembly. Keys are plain numeric IDs from the biographical database.
type Key int64

// String returns the decimal form of the key, used for labels and JSON maps.
func (k Key) String() string {
	return strconv.FormatInt(int64(k), 10)
}

// ParseKey parses a decimal person key.
func ParseKey(s string) (Key, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.New("person key must be a decimal integer")
	}
	return Key(id), nil
}

// Person represents a biographical record.
type Person struct {
	ID        Key    `json:"id"`
	Name      string `json:"name"`
	AltName   string `json:"alt_name,omitempty"` // transliteration or courtesy name
	BirthYear int    `json:"birth_year,omitempty"`
	DeathYear int    `json:"death_year,omitempty"`
}

// Validation errors.
var (
	ErrInvalidID = errors.New("person id must be positive")
	ErrEmptyName = errors.New("name is required")
)

// ValidateForCreate validates a person for insertion into the store.
func (p *Person) ValidateForCreate() error {
	if p.ID <= 0 {
		return ErrInvalidID
	}
	if p.Name == "" {
		return ErrEmptyName
	}
	return nil
}

// Label returns the display label for a person: the name, or the key in
// decimal form when the record carries no name.
func (p *Person) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID.String()
}

// DedupeKeys returns the input keys with duplicates removed, preserving
// first-occurrence order.
func DedupeKeys(keys []Key) []Key {
	seen := make(map[Key]bool, len(keys))
	out := make([]Key, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
