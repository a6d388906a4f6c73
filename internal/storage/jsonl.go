package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/knutsen/biograph/internal/person"
	"github.com/knutsen/biograph/internal/relation"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines
// (1MB per line). Shared across all JSONL file readers.
const MaxJSONLLineCapacity = 1024 * 1024

// readJSONL reads a JSONL file line by line, calling parse for each
// non-empty line. A missing file is treated as empty, not an error.
func readJSONL(path, what string, parse func(line []byte, lineNum int) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening %s file: %w", what, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := parse(line, lineNum); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s file: %w", what, err)
	}
	return nil
}

// ReadAllPersons reads all persons from a JSONL file.
// Returns an error if any record fails structural validation (fail-fast).
func ReadAllPersons(path string) ([]person.Person, error) {
	var persons []person.Person
	err := readJSONL(path, "persons", func(line []byte, lineNum int) error {
		var p person.Person
		if err := json.Unmarshal(line, &p); err != nil {
			return fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		if err := p.ValidateForCreate(); err != nil {
			return fmt.Errorf("invalid person at line %d: %w", lineNum, err)
		}
		persons = append(persons, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return persons, nil
}

// ReadAllRelations reads all relations from a JSONL file.
// Returns an error if any relation fails structural validation (fail-fast).
func ReadAllRelations(path string) ([]relation.Relation, error) {
	var relations []relation.Relation
	err := readJSONL(path, "relations", func(line []byte, lineNum int) error {
		var r relation.Relation
		if err := json.Unmarshal(line, &r); err != nil {
			return fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		if err := r.ValidateForCreate(); err != nil {
			return fmt.Errorf("invalid relation at line %d: %w", lineNum, err)
		}
		relations = append(relations, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return relations, nil
}

// codeRecord is the JSONL form of a relation-code label entry.
type codeRecord struct {
	Type  relation.Type `json:"type"`
	Code  int           `json:"code"`
	Label string        `json:"label"`
}

// ReadAllCodes reads all relation-code labels from a JSONL file.
func ReadAllCodes(path string) (map[relation.CodeKey]string, error) {
	codes := make(map[relation.CodeKey]string)
	err := readJSONL(path, "codes", func(line []byte, lineNum int) error {
		var rec codeRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		if _, err := relation.ParseType(string(rec.Type)); err != nil {
			return fmt.Errorf("invalid code entry at line %d: %w", lineNum, err)
		}
		codes[relation.CodeKey{Type: rec.Type, Code: rec.Code}] = rec.Label
		return nil
	})
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// appendJSONL appends one JSON line to a file, creating it if needed.
func appendJSONL(path, what string, v interface{}) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s file for append: %w", what, err)
	}
	defer f.Close()

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", what, err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing %s: %w", what, err)
	}
	return nil
}

// AppendPerson adds a person to the end of a JSONL file.
func AppendPerson(path string, p person.Person) error {
	return appendJSONL(path, "persons", p)
}

// AppendRelation adds a relation to the end of a JSONL file.
func AppendRelation(path string, r relation.Relation) error {
	return appendJSONL(path, "relations", r)
}
