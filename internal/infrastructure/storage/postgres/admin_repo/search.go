package admin_repo

import (
	"strings"

	"github.com/Masterminds/squirrel"

	"wikihost/internal/core/listing"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PatternSearch matches the search term as a case-insensitive substring of any
// of a listing's search columns.
type PatternSearch struct {
	columns func(listing string) []string
}

var _ listing.Searcher = PatternSearch{}

// NewPatternSearch creates a searcher. columns returns the columns to match per listing.
func NewPatternSearch(columns func(listing string) []string) PatternSearch {
	return PatternSearch{columns: columns}
}

// Search ANDs one OR-group of ILIKE conditions onto rs.
// Listings without search columns are returned unchanged.
func (p PatternSearch) Search(rs listing.RecordSet, name, term string) listing.RecordSet {
	cols := p.columns(name)
	if len(cols) == 0 {
		return rs
	}

	pattern := "%" + likeEscaper.Replace(term) + "%"
	match := make(squirrel.Or, 0, len(cols))
	for _, col := range cols {
		match = append(match, squirrel.ILike{col: pattern})
	}
	return rs.Where(match)
}
