package listing

import (
	"strings"

	"github.com/Masterminds/squirrel"

	"wikihost/internal/core/apperror"
)

// RecordSet is an already joined and grouped query supplied by the caller.
// Predicates narrow it; they never replace FROM or GROUP BY.
type RecordSet = squirrel.SelectBuilder

// Predicate narrows a record set.
type Predicate func(rs RecordSet) RecordSet

// ParamPredicate narrows a record set by an arbitrary request value.
// Validating the value is the predicate's job.
type ParamPredicate func(rs RecordSet, value string) RecordSet

// Where adapts a squirrel condition into a Predicate. Conditions are ANDed onto the set.
func Where(cond squirrel.Sqlizer) Predicate {
	return func(rs RecordSet) RecordSet {
		return rs.Where(cond)
	}
}

// FilterSpec is either an EnumFilter or a ParamFilter.
type FilterSpec interface {
	FilterName() string
	isFilterSpec()
}

// Option is one accepted code of an enumerated filter.
type Option struct {
	Code      string
	Label     string
	Predicate Predicate
}

// Opt builds an Option.
func Opt(code, label string, p Predicate) Option {
	return Option{Code: code, Label: label, Predicate: p}
}

// EnumFilter accepts only its registered option codes (typically "0"/"1").
type EnumFilter struct {
	Name    string
	Options []Option
}

// Enum builds an EnumFilter.
func Enum(name string, options ...Option) EnumFilter {
	return EnumFilter{Name: name, Options: options}
}

func (f EnumFilter) FilterName() string { return f.Name }
func (EnumFilter) isFilterSpec()        {}

func (f EnumFilter) option(code string) (Option, bool) {
	for _, o := range f.Options {
		if o.Code == code {
			return o, true
		}
	}
	return Option{}, false
}

// ParamFilter passes the raw request value to its predicate.
type ParamFilter struct {
	Name  string
	Apply ParamPredicate
}

// Param builds a ParamFilter.
func Param(name string, apply ParamPredicate) ParamFilter {
	return ParamFilter{Name: name, Apply: apply}
}

func (f ParamFilter) FilterName() string { return f.Name }
func (ParamFilter) isFilterSpec()        {}

// Applied describes an active filter for breadcrumb rendering.
type Applied struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// Outcome reports what Apply did with a filter request.
type Outcome int

const (
	// Matched means the predicate was applied.
	Matched Outcome = iota
	// Unknown means the name is not registered.
	Unknown
	// Unmatched means an enumerated filter got a code it does not know.
	Unmatched
	// Blank means the value was empty.
	Blank
)

// FilterRegistry is an immutable table of filters.
type FilterRegistry struct {
	specs map[string]FilterSpec
	names []string
}

// NewFilterRegistry validates specs and keeps their order, which is also the order filters apply in.
func NewFilterRegistry(specs ...FilterSpec) (*FilterRegistry, error) {
	r := &FilterRegistry{
		specs: make(map[string]FilterSpec, len(specs)),
		names: make([]string, 0, len(specs)),
	}

	for _, spec := range specs {
		name := spec.FilterName()
		if name == "" {
			return nil, apperror.NewConfiguration("filter without a name")
		}
		if _, dup := r.specs[name]; dup {
			return nil, apperror.NewConfiguration("duplicate filter").WithDetail("filter", name)
		}

		switch f := spec.(type) {
		case EnumFilter:
			if len(f.Options) == 0 {
				return nil, apperror.NewConfiguration("enumerated filter without options").WithDetail("filter", name)
			}
			seen := make(map[string]struct{}, len(f.Options))
			for _, o := range f.Options {
				if o.Code == "" {
					return nil, apperror.NewConfiguration("empty option code").WithDetail("filter", name)
				}
				if _, dup := seen[o.Code]; dup {
					return nil, apperror.NewConfiguration("duplicate option code").
						WithDetail("filter", name).
						WithDetail("code", o.Code)
				}
				if o.Predicate == nil {
					return nil, apperror.NewConfiguration("option without predicate").
						WithDetail("filter", name).
						WithDetail("code", o.Code)
				}
				seen[o.Code] = struct{}{}
			}
			f.Options = append([]Option(nil), f.Options...)
			spec = f
		case ParamFilter:
			if f.Apply == nil {
				return nil, apperror.NewConfiguration("parametric filter without predicate").WithDetail("filter", name)
			}
		default:
			return nil, apperror.NewConfiguration("unsupported filter kind").WithDetail("filter", name)
		}

		r.specs[name] = spec
		r.names = append(r.names, name)
	}

	return r, nil
}

// MustFilterRegistry is NewFilterRegistry for package-level configuration; it panics on error.
func MustFilterRegistry(specs ...FilterSpec) *FilterRegistry {
	r, err := NewFilterRegistry(specs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the spec registered under name.
func (r *FilterRegistry) Lookup(name string) (FilterSpec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

// Names returns filter names in registration order.
func (r *FilterRegistry) Names() []string {
	return append([]string(nil), r.names...)
}

// Only derives a registry restricted to names, keeping the given order.
func (r *FilterRegistry) Only(names ...string) (*FilterRegistry, error) {
	specs := make([]FilterSpec, 0, len(names))
	for _, name := range names {
		spec, ok := r.specs[name]
		if !ok {
			return nil, apperror.NewConfiguration("unknown filter").WithDetail("filter", name)
		}
		specs = append(specs, spec)
	}
	return NewFilterRegistry(specs...)
}

// Apply narrows rs by one filter. Anything it cannot honour is a no-op.
func (r *FilterRegistry) Apply(rs RecordSet, name, raw string) (RecordSet, Applied, Outcome) {
	spec, ok := r.specs[name]
	if !ok {
		return rs, Applied{}, Unknown
	}

	switch f := spec.(type) {
	case EnumFilter:
		opt, ok := f.option(raw)
		if !ok {
			return rs, Applied{}, Unmatched
		}
		return opt.Predicate(rs), Applied{Name: name, Value: raw, Label: opt.Label}, Matched
	case ParamFilter:
		if strings.TrimSpace(raw) == "" {
			return rs, Applied{}, Blank
		}
		return f.Apply(rs, raw), Applied{Name: name, Value: raw, Label: raw}, Matched
	}

	return rs, Applied{}, Unknown
}
