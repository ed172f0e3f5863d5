package listing

import (
	"net/url"
	"strconv"
)

// NextSortToken returns the token a sort link for candidate should carry.
// Clicking the active key flips its direction; any other key starts at initial.
func NextSortToken(current SortState, candidate string, initial Direction) string {
	if candidate == current.Name {
		return SortState{Name: candidate, Direction: current.Direction.Flip()}.Token()
	}
	if initial == "" {
		initial = Desc
	}
	return SortState{Name: candidate, Direction: initial}.Token()
}

// NextToken is NextSortToken using the key's configured initial direction.
func (r *SortRegistry) NextToken(current SortState, candidate string) string {
	initial := Desc
	if spec, ok := r.Resolve(candidate); ok {
		initial = spec.InitialDirection()
	}
	return NextSortToken(current, candidate, initial)
}

// SortLinks returns the next token for every registered key.
func SortLinks(r *SortRegistry, current SortState) map[string]string {
	links := make(map[string]string, len(r.names))
	for _, name := range r.names {
		links[name] = r.NextToken(current, name)
	}
	return links
}

// NextSortParams copies values with the sort replaced. The page is dropped since
// the old page number means nothing under a new ordering.
func NextSortParams(values url.Values, token string) url.Values {
	next := clone(values)
	next.Set(SortKey, token)
	next.Del(PageKey)
	return next
}

// NextFilterParams copies values with filter name toggled to code.
// Selecting the code that is already active removes the filter.
func NextFilterParams(values url.Values, name, code string) url.Values {
	next := clone(values)
	if next.Get(name) == code {
		next.Del(name)
	} else {
		next.Set(name, code)
	}
	next.Del(PageKey)
	return next
}

// Values renders the plan's effective state as request values. Ignored inputs are
// not carried over, so links built from it never repeat a degraded parameter.
func (p Plan) Values() url.Values {
	values := url.Values{}
	if !p.Sort.IsZero() {
		values.Set(SortKey, p.Sort.Token())
	}
	if p.Page.Number > 1 {
		values.Set(PageKey, strconv.Itoa(p.Page.Number))
	}
	if p.Owner != nil {
		values.Set(OwnerKey, strconv.FormatInt(p.Owner.ID, 10))
	}
	if p.Search != "" {
		values.Set(SearchKey, p.Search)
	}
	for _, a := range p.Applied {
		values.Set(a.Name, a.Value)
	}
	return values
}

// SortQueries returns, per registered sort key, the encoded query a sort link should carry.
func SortQueries(r *SortRegistry, current SortState, values url.Values) map[string]string {
	queries := make(map[string]string, len(r.names))
	for _, name := range r.names {
		queries[name] = NextSortParams(values, r.NextToken(current, name)).Encode()
	}
	return queries
}

// FilterLinks returns filter name -> option code -> encoded query for every
// enumerated filter. Parametric filters take free values and get no links.
func FilterLinks(r *FilterRegistry, values url.Values) map[string]map[string]string {
	links := make(map[string]map[string]string)
	for _, name := range r.names {
		f, ok := r.specs[name].(EnumFilter)
		if !ok {
			continue
		}
		codes := make(map[string]string, len(f.Options))
		for _, o := range f.Options {
			codes[o.Code] = NextFilterParams(values, name, o.Code).Encode()
		}
		links[name] = codes
	}
	return links
}

func clone(values url.Values) url.Values {
	next := make(url.Values, len(values))
	for k, v := range values {
		next[k] = append([]string(nil), v...)
	}
	return next
}
