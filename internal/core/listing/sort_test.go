package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikihost/internal/core/apperror"
)

func TestParseSortToken(t *testing.T) {
	tests := []struct {
		token  string
		want   SortState
		wantOK bool
	}{
		{"created_desc", SortState{Name: "created", Direction: Desc}, true},
		{"name_asc", SortState{Name: "name", Direction: Asc}, true},
		{"no_stub_asc", SortState{Name: "no_stub", Direction: Asc}, true},
		{"name_ASC", SortState{}, false},
		{"name", SortState{}, false},
		{"_asc", SortState{}, false},
		{"name_sideways", SortState{}, false},
		{"", SortState{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseSortToken(tt.token)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			if ok {
				assert.Equal(t, tt.token, got.Token())
			}
		})
	}
}

func TestSortSpec_OrderBy(t *testing.T) {
	reg := testSorts()

	spec, ok := reg.Resolve("description")
	require.True(t, ok)
	assert.Equal(t, []string{"NULLIF(sites.description, '') ASC NULLS LAST"}, spec.OrderBy(Asc))
	assert.Equal(t, []string{"NULLIF(sites.description, '') DESC NULLS LAST"}, spec.OrderBy(Desc))

	spec, ok = reg.Resolve("flags")
	require.True(t, ok)
	assert.Equal(t, []string{"sites.is_private DESC", "sites.save_count DESC"}, spec.OrderBy(Desc))

	first := SortSpec{Name: "x", Expressions: []string{"x"}, Nulls: NullsFirst}
	assert.Equal(t, []string{"x ASC NULLS FIRST"}, first.OrderBy(Asc))
}

func TestSortRegistry_ResolveKnownAndUnknown(t *testing.T) {
	reg := testSorts()

	for _, name := range reg.Names() {
		spec, ok := reg.Resolve(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, spec.Expressions, name)
	}

	_, ok := reg.Resolve("bogus")
	assert.False(t, ok)
}

func TestNewSortRegistry_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name      string
		specs     []SortSpec
		nullsLast []string
	}{
		{"duplicate", []SortSpec{Sort("a", "a"), Sort("a", "b")}, nil},
		{"no expressions", []SortSpec{Sort("a")}, nil},
		{"blank expression", []SortSpec{Sort("a", " ")}, nil},
		{"no name", []SortSpec{Sort("", "a")}, nil},
		{"null-sensitive without expressions", []SortSpec{Sort("a", "a")}, []string{"b"}},
		{"bad initial", []SortSpec{{Name: "a", Expressions: []string{"a"}, Initial: "up"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSortRegistry(tt.specs, tt.nullsLast...)
			require.Error(t, err)
			assert.True(t, apperror.IsConfiguration(err))
		})
	}

	assert.Panics(t, func() { MustSortRegistry([]SortSpec{Sort("a")}) })
}

func TestSortRegistry_Only(t *testing.T) {
	reg := testSorts()

	sub, err := reg.Only("name", "created")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "created"}, sub.Names())
	assert.False(t, sub.Has("owner"))

	_, err = reg.Only("name", "bogus")
	assert.True(t, apperror.IsConfiguration(err))
}

func TestSortRegistry_DoesNotAliasInput(t *testing.T) {
	exprs := []string{"a"}
	reg := MustSortRegistry([]SortSpec{Sort("a", exprs...)})
	exprs[0] = "DROP TABLE users"

	spec, _ := reg.Resolve("a")
	assert.Equal(t, []string{"a"}, spec.Expressions)
}
