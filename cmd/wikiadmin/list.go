package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wikihost/internal/core/listing"
	"wikihost/internal/domain/admin"
)

type listOptions struct {
	sort    string
	page    int
	user    string
	search  string
	filters []string
	json    bool
}

func newListCmd(root *rootOptions) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:       "list <users|sites|tspot_sites>",
		Short:     "Print one page of an admin listing",
		Args:      cobra.ExactArgs(1),
		ValidArgs: admin.MustCatalog().Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.service.List(s.ctx, args[0], opts.params())
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			return writeTable(cmd.OutOrStdout(), res)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.sort, "sort", "", "sort token, e.g. name_asc")
	f.IntVar(&opts.page, "page", 1, "page number")
	f.StringVar(&opts.user, "user", "", "scope to records owned by this user id")
	f.StringVarP(&opts.search, "query", "q", "", "search term")
	f.StringArrayVarP(&opts.filters, "filter", "f", nil, "filter as name=code, repeatable")
	f.BoolVar(&opts.json, "json", false, "print JSON instead of a table")
	return cmd
}

// params builds listing params the same way the HTTP query string would.
func (o *listOptions) params() listing.Params {
	values := url.Values{}
	if o.sort != "" {
		values.Set(listing.SortKey, o.sort)
	}
	if o.page > 0 {
		values.Set(listing.PageKey, fmt.Sprint(o.page))
	}
	if o.user != "" {
		values.Set(listing.OwnerKey, o.user)
	}
	if o.search != "" {
		values.Set(listing.SearchKey, o.search)
	}
	for _, f := range o.filters {
		name, code, _ := strings.Cut(f, "=")
		values.Set(strings.TrimSpace(name), strings.TrimSpace(code))
	}
	return listing.ParamsFromValues(values)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, res *admin.ListResult) error {
	fmt.Fprintf(w, "%s  sort=%s  page %d/%d  (%d records)\n",
		res.Title, res.Sort.Token(), res.Page, res.TotalPages, res.TotalCount)
	for _, a := range res.Applied {
		fmt.Fprintf(w, "  %s: %s\n", a.Name, a.Label)
	}
	for _, n := range res.Notices {
		fmt.Fprintf(w, "  ignored %s=%q (%s)\n", n.Key, n.Value, n.Kind)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := reflect.ValueOf(res.Items)
	if rows.Kind() != reflect.Slice || rows.Len() == 0 {
		fmt.Fprintln(tw, "(no records)")
		return tw.Flush()
	}

	cols := tableColumns(rows.Type().Elem())
	fmt.Fprintln(tw, strings.Join(cols.headers, "\t"))
	for i := 0; i < rows.Len(); i++ {
		row := rows.Index(i)
		cells := make([]string, len(cols.index))
		for j, idx := range cols.index {
			cells[j] = cell(row.Field(idx))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

type columns struct {
	headers []string
	index   []int
}

// tableColumns picks the json-named fields of a row type.
func tableColumns(t reflect.Type) columns {
	var c columns
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		c.headers = append(c.headers, name)
		c.index = append(c.index, i)
	}
	return c
}

func cell(v reflect.Value) string {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "-"
		}
		v = v.Elem()
	}
	if t, ok := v.Interface().(interface{ Format(string) string }); ok {
		return t.Format("2006-01-02 15:04")
	}
	return fmt.Sprint(v.Interface())
}

func newListingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listings",
		Short: "Describe sortable keys and filters of every listing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), admin.MustCatalog().Describe())
		},
	}
}
