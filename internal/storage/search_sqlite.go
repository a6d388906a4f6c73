package storage

import (
	"errors"

	"github.com/knutsen/biograph/internal/person"
)

// SearchOptions controls name-search behavior.
type SearchOptions struct {
	Accurate bool // structured surname/given matching instead of full-text search
	Start    int  // result offset for paging
	Limit    int  // max results per page (0 = DefaultSearchLimit)
}

// DefaultSearchLimit bounds name searches that do not specify a limit.
const DefaultSearchLimit = 50

// FindByName searches persons by name and returns one page of results plus
// the total match count. The query is parsed into surname and given-name
// parts first, so "Wang, Anshi" and "Anshi Wang" search the same terms.
// The total is computed over the same predicate as the page, so paging
// never changes result-set membership.
func (d *DB) FindByName(query string, opts SearchOptions) ([]person.Person, int, error) {
	q := person.ParseQuery(query)
	if q.Surname == "" {
		return nil, 0, errors.New("FindByName: query is empty")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	if opts.Accurate {
		return d.findByNameStructured(q, opts.Start, limit)
	}

	terms := q.Surname
	if q.Given != "" {
		terms += " " + q.Given
	}
	predicate := `id IN (SELECT id FROM persons_fts WHERE persons_fts MATCH ?)`
	args := []interface{}{prepareFTSQuery(terms)}

	var total int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM persons WHERE `+predicate, args...).Scan(&total); err != nil {
		return nil, 0, storeErr("counting name matches", err)
	}

	rows, err := d.db.Query(
		`SELECT `+selectPersonFields+` FROM persons WHERE `+predicate+` ORDER BY id LIMIT ? OFFSET ?`,
		append(args, limit, opts.Start)...)
	if err != nil {
		return nil, 0, storeErr("searching persons by name", err)
	}
	defer rows.Close()

	persons, err := scanPersons(rows)
	if err != nil {
		return nil, 0, err
	}
	return persons, total, nil
}

// findByNameStructured applies the full matching rules (surname substring,
// given-name word prefix, either name field) in memory. A surname prefilter
// keeps the candidate set small; the page and the total come from the same
// filtered slice.
func (d *DB) findByNameStructured(q person.Query, start, limit int) ([]person.Person, int, error) {
	pattern := "%" + q.Surname + "%"
	rows, err := d.db.Query(
		`SELECT `+selectPersonFields+` FROM persons WHERE name LIKE ? OR alt_name LIKE ? ORDER BY id`,
		pattern, pattern)
	if err != nil {
		return nil, 0, storeErr("searching persons by name", err)
	}
	defer rows.Close()

	candidates, err := scanPersons(rows)
	if err != nil {
		return nil, 0, err
	}

	var matched []person.Person
	for _, p := range candidates {
		if q.Matches(p) {
			matched = append(matched, p)
		}
	}

	total := len(matched)
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}
