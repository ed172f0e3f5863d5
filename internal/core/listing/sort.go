package listing

import (
	"strings"

	"wikihost/internal/core/apperror"
)

// Direction is the ORDER BY direction of a sort key.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts "asc" or "desc" (lower case only, as emitted by sort links).
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case Asc, Desc:
		return Direction(s), true
	}
	return "", false
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// SQL returns the keyword used in ORDER BY.
func (d Direction) SQL() string {
	if d == Asc {
		return "ASC"
	}
	return "DESC"
}

// NullPolicy controls where NULL values land in the ordering.
type NullPolicy int

const (
	// NullsDefault leaves placement to the storage engine.
	NullsDefault NullPolicy = iota
	// NullsFirst forces NULLs before all values regardless of direction.
	NullsFirst
	// NullsLast forces NULLs after all values regardless of direction.
	NullsLast
)

func (p NullPolicy) clause() string {
	switch p {
	case NullsFirst:
		return " NULLS FIRST"
	case NullsLast:
		return " NULLS LAST"
	}
	return ""
}

// SortSpec maps a sort key to one or more SQL expressions.
// Expressions are server-authored constants; nothing derived from a request may end up here.
type SortSpec struct {
	Name        string
	Expressions []string
	Nulls       NullPolicy

	// Initial is the direction used when the key is newly selected in a sort link.
	// Zero value means descending.
	Initial Direction
}

// Sort is shorthand for a SortSpec with default null placement.
func Sort(name string, expressions ...string) SortSpec {
	return SortSpec{Name: name, Expressions: expressions}
}

// Ascending returns a copy of the spec whose sort links start ascending.
func (s SortSpec) Ascending() SortSpec {
	s.Initial = Asc
	return s
}

// InitialDirection returns the direction a newly selected key starts with.
func (s SortSpec) InitialDirection() Direction {
	if s.Initial == "" {
		return Desc
	}
	return s.Initial
}

// OrderBy renders one ORDER BY term per expression, all sharing direction.
func (s SortSpec) OrderBy(dir Direction) []string {
	terms := make([]string, len(s.Expressions))
	for i, expr := range s.Expressions {
		terms[i] = expr + " " + dir.SQL() + s.Nulls.clause()
	}
	return terms
}

// SortState is the parsed form of a "<name>_<direction>" request token.
type SortState struct {
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
}

// ParseSortToken splits a token at its last underscore.
// The second return value is false when the token is malformed.
func ParseSortToken(token string) (SortState, bool) {
	i := strings.LastIndexByte(token, '_')
	if i <= 0 {
		return SortState{}, false
	}
	dir, ok := ParseDirection(token[i+1:])
	if !ok {
		return SortState{}, false
	}
	return SortState{Name: token[:i], Direction: dir}, true
}

// MustSortState parses a token or panics. Use only for configuration constants.
func MustSortState(token string) SortState {
	s, ok := ParseSortToken(token)
	if !ok {
		panic("listing: malformed sort token " + token)
	}
	return s
}

// Token renders the state back into request form.
func (s SortState) Token() string {
	return s.Name + "_" + string(s.Direction)
}

// IsZero reports whether no sort is set.
func (s SortState) IsZero() bool {
	return s.Name == ""
}

// SortRegistry is an immutable table of sort keys.
type SortRegistry struct {
	specs map[string]SortSpec
	names []string
}

// NewSortRegistry validates specs and marks every name in nullsLast as null-sensitive.
func NewSortRegistry(specs []SortSpec, nullsLast ...string) (*SortRegistry, error) {
	r := &SortRegistry{
		specs: make(map[string]SortSpec, len(specs)),
		names: make([]string, 0, len(specs)),
	}

	for _, spec := range specs {
		if spec.Name == "" {
			return nil, apperror.NewConfiguration("sort key without a name")
		}
		if _, dup := r.specs[spec.Name]; dup {
			return nil, apperror.NewConfiguration("duplicate sort key").WithDetail("key", spec.Name)
		}
		if len(spec.Expressions) == 0 {
			return nil, apperror.NewConfiguration("sort key without expressions").WithDetail("key", spec.Name)
		}
		for _, expr := range spec.Expressions {
			if strings.TrimSpace(expr) == "" {
				return nil, apperror.NewConfiguration("blank sort expression").WithDetail("key", spec.Name)
			}
		}
		if spec.Initial != "" {
			if _, ok := ParseDirection(string(spec.Initial)); !ok {
				return nil, apperror.NewConfiguration("invalid initial direction").WithDetail("key", spec.Name)
			}
		}

		spec.Expressions = append([]string(nil), spec.Expressions...)
		r.specs[spec.Name] = spec
		r.names = append(r.names, spec.Name)
	}

	for _, name := range nullsLast {
		spec, ok := r.specs[name]
		if !ok {
			return nil, apperror.NewConfiguration("null-sensitive key has no expressions").WithDetail("key", name)
		}
		spec.Nulls = NullsLast
		r.specs[name] = spec
	}

	return r, nil
}

// MustSortRegistry is NewSortRegistry for package-level configuration; it panics on error.
func MustSortRegistry(specs []SortSpec, nullsLast ...string) *SortRegistry {
	r, err := NewSortRegistry(specs, nullsLast...)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve looks a key up. Unknown keys are absent, not errors.
func (r *SortRegistry) Resolve(name string) (SortSpec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

// Has reports whether the key is registered.
func (r *SortRegistry) Has(name string) bool {
	_, ok := r.specs[name]
	return ok
}

// Names returns keys in registration order.
func (r *SortRegistry) Names() []string {
	return append([]string(nil), r.names...)
}

// Only derives a registry restricted to names, keeping the given order.
func (r *SortRegistry) Only(names ...string) (*SortRegistry, error) {
	sub := &SortRegistry{
		specs: make(map[string]SortSpec, len(names)),
		names: make([]string, 0, len(names)),
	}
	for _, name := range names {
		spec, ok := r.specs[name]
		if !ok {
			return nil, apperror.NewConfiguration("unknown sort key").WithDetail("key", name)
		}
		if _, dup := sub.specs[name]; dup {
			return nil, apperror.NewConfiguration("duplicate sort key").WithDetail("key", name)
		}
		sub.specs[name] = spec
		sub.names = append(sub.names, name)
	}
	return sub, nil
}
