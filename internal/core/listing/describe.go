package listing

// Description is the public shape of a listing: what may be sorted and filtered.
type Description struct {
	Name        string              `json:"name"`
	Title       string              `json:"title"`
	DefaultSort string              `json:"defaultSort"`
	Sorts       []string            `json:"sorts"`
	Filters     []FilterDescription `json:"filters"`
	Ownable     bool                `json:"ownable"`
}

// FilterDescription describes one filter. Options is empty for parametric filters.
type FilterDescription struct {
	Name    string              `json:"name"`
	Kind    string              `json:"kind"`
	Options []OptionDescription `json:"options,omitempty"`
}

// OptionDescription is one enumerated code and its label.
type OptionDescription struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Describe summarises the listing's registries.
func (l Listing) Describe() Description {
	d := Description{
		Name:        l.Name,
		Title:       l.Title,
		DefaultSort: l.DefaultSort.Token(),
		Sorts:       l.Sorts.Names(),
		Ownable:     l.Owner.Narrow != nil,
	}

	for _, name := range l.Filters.Names() {
		spec, _ := l.Filters.Lookup(name)
		switch f := spec.(type) {
		case EnumFilter:
			fd := FilterDescription{Name: name, Kind: "enum"}
			for _, o := range f.Options {
				fd.Options = append(fd.Options, OptionDescription{Code: o.Code, Label: o.Label})
			}
			d.Filters = append(d.Filters, fd)
		case ParamFilter:
			d.Filters = append(d.Filters, FilterDescription{Name: name, Kind: "param"})
		}
	}

	return d
}
