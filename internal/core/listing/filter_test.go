package listing

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikihost/internal/core/apperror"
)

func TestFilterRegistry_Apply(t *testing.T) {
	reg := MustFilterRegistry(privateFilter, prefixFilter)
	base := squirrel.Select("id").From("sites")

	tests := []struct {
		name        string
		filter      string
		raw         string
		wantSQL     string
		wantArgs    []any
		wantOutcome Outcome
		wantLabel   string
	}{
		{
			name:        "enum match",
			filter:      "private",
			raw:         "1",
			wantSQL:     "SELECT id FROM sites WHERE sites.is_private = ?",
			wantArgs:    []any{true},
			wantOutcome: Matched,
			wantLabel:   "private",
		},
		{
			name:        "enum other code",
			filter:      "private",
			raw:         "0",
			wantSQL:     "SELECT id FROM sites WHERE sites.is_private = ?",
			wantArgs:    []any{false},
			wantOutcome: Matched,
			wantLabel:   "public",
		},
		{
			name:        "enum unmatched code is a no-op",
			filter:      "private",
			raw:         "yes",
			wantSQL:     "SELECT id FROM sites",
			wantOutcome: Unmatched,
		},
		{
			name:        "param passes value through",
			filter:      "prefix",
			raw:         "wiki",
			wantSQL:     "SELECT id FROM sites WHERE sites.name LIKE ?",
			wantArgs:    []any{"wiki%"},
			wantOutcome: Matched,
			wantLabel:   "wiki",
		},
		{
			name:        "param blank is a no-op",
			filter:      "prefix",
			raw:         "  ",
			wantSQL:     "SELECT id FROM sites",
			wantOutcome: Blank,
		},
		{
			name:        "unknown filter is a no-op",
			filter:      "color",
			raw:         "red",
			wantSQL:     "SELECT id FROM sites",
			wantOutcome: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, applied, outcome := reg.Apply(base, tt.filter, tt.raw)
			assert.Equal(t, tt.wantOutcome, outcome)

			sql, args, err := q.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}

			if outcome == Matched {
				assert.Equal(t, tt.filter, applied.Name)
				assert.Equal(t, tt.raw, applied.Value)
				assert.Equal(t, tt.wantLabel, applied.Label)
			} else {
				assert.Equal(t, Applied{}, applied)
			}
		})
	}
}

func TestNewFilterRegistry_ConfigurationErrors(t *testing.T) {
	noop := Where(squirrel.Eq{"a": 1})

	tests := []struct {
		name  string
		specs []FilterSpec
	}{
		{"duplicate name", []FilterSpec{privateFilter, Enum("private", Opt("1", "x", noop))}},
		{"enum without options", []FilterSpec{Enum("empty")}},
		{"duplicate code", []FilterSpec{Enum("dup", Opt("1", "a", noop), Opt("1", "b", noop))}},
		{"empty code", []FilterSpec{Enum("blank", Opt("", "a", noop))}},
		{"option without predicate", []FilterSpec{Enum("nil", Opt("1", "a", nil))}},
		{"param without predicate", []FilterSpec{Param("kind", nil)}},
		{"no name", []FilterSpec{Param("", func(rs RecordSet, _ string) RecordSet { return rs })}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFilterRegistry(tt.specs...)
			require.Error(t, err)
			assert.True(t, apperror.IsConfiguration(err))
		})
	}
}

func TestFilterRegistry_OnlyKeepsOrder(t *testing.T) {
	reg := MustFilterRegistry(privateFilter, savedFilter, ownedFilter)

	sub, err := reg.Only("owned", "private")
	require.NoError(t, err)
	assert.Equal(t, []string{"owned", "private"}, sub.Names())

	_, err = reg.Only("bogus")
	assert.True(t, apperror.IsConfiguration(err))
}
