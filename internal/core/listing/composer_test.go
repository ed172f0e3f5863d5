package listing

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikihost/internal/core/apperror"
)

func composeSQL(t *testing.T, c *Composer, l Listing, p Params) (Plan, string, []any) {
	t.Helper()
	plan, err := c.Compose(context.Background(), l, p)
	require.NoError(t, err)
	sql, args, err := plan.Query.Limit(plan.Page.Limit()).Offset(plan.Page.Offset()).ToSql()
	require.NoError(t, err)
	return plan, sql, args
}

func TestCompose_SQL(t *testing.T) {
	c := NewComposer(testActors(), nil)
	l := testListing()

	tests := []struct {
		name     string
		params   Params
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "defaults",
			params:  Params{},
			wantSQL: baseSQL + " GROUP BY sites.id ORDER BY sites.created_at DESC, sites.id DESC LIMIT 15 OFFSET 0",
		},
		{
			name:     "filter and sort",
			params:   Params{Sort: "name_asc", Filters: map[string]string{"private": "1"}},
			wantSQL:  baseSQL + " WHERE sites.is_private = ? GROUP BY sites.id ORDER BY sites.name ASC, sites.id ASC LIMIT 15 OFFSET 0",
			wantArgs: []any{true},
		},
		{
			name:    "null-sensitive key",
			params:  Params{Sort: "description_desc"},
			wantSQL: baseSQL + " GROUP BY sites.id ORDER BY NULLIF(sites.description, '') DESC NULLS LAST, sites.id DESC LIMIT 15 OFFSET 0",
		},
		{
			name:    "tie-break not repeated",
			params:  Params{Sort: "id_asc"},
			wantSQL: baseSQL + " GROUP BY sites.id ORDER BY sites.id ASC LIMIT 15 OFFSET 0",
		},
		{
			name:    "aggregate key",
			params:  Params{Sort: "versions_desc", Page: 3},
			wantSQL: baseSQL + " GROUP BY sites.id ORDER BY COUNT(versions.id) DESC, sites.id DESC LIMIT 15 OFFSET 30",
		},
		{
			name:     "owner scope",
			params:   Params{Owner: "1", Filters: map[string]string{"saved": "0"}},
			wantSQL:  baseSQL + " WHERE sites.user_id = ? AND sites.save_count = ? GROUP BY sites.id ORDER BY sites.created_at DESC, sites.id DESC LIMIT 15 OFFSET 0",
			wantArgs: []any{int64(1), 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sql, args := composeSQL(t, c, l, tt.params)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestCompose_UnknownSortFallsBackToDefault(t *testing.T) {
	c := NewComposer(nil, nil)
	l := testListing()

	for _, token := range []string{"bogus_asc", "name", "name_up", "_desc"} {
		t.Run(token, func(t *testing.T) {
			plan, sql, _ := composeSQL(t, c, l, Params{Sort: token})
			assert.Equal(t, l.DefaultSort, plan.Sort)
			assert.Contains(t, sql, "ORDER BY sites.created_at DESC, sites.id DESC")
			require.Len(t, plan.Notices, 1)
			assert.Equal(t, Notice{Kind: NoticeUnknownSort, Key: SortKey, Value: token}, plan.Notices[0])
		})
	}
}

func TestCompose_EmptySortIsNotANotice(t *testing.T) {
	plan, err := NewComposer(nil, nil).Compose(context.Background(), testListing(), Params{})
	require.NoError(t, err)
	assert.Empty(t, plan.Notices)
	assert.Equal(t, "created_desc", plan.Sort.Token())
}

func TestCompose_FiltersIgnoreUnknownAndUnmatched(t *testing.T) {
	c := NewComposer(nil, nil)
	l := testListing()

	plan, sql, args := composeSQL(t, c, l, Params{Filters: map[string]string{
		"private": "maybe",
		"color":   "red",
		"saved":   "1",
		"prefix":  "",
	}})

	assert.Equal(t, baseSQL+" WHERE sites.save_count <> ? GROUP BY sites.id ORDER BY sites.created_at DESC, sites.id DESC LIMIT 15 OFFSET 0", sql)
	assert.Equal(t, []any{0}, args)
	assert.Equal(t, []Applied{{Name: "saved", Value: "1", Label: "saved"}}, plan.Applied)
	assert.Equal(t, []Notice{{Kind: NoticeUnmatchedFilter, Key: "private", Value: "maybe"}}, plan.Notices)
}

func TestCompose_AppliedFollowsRegistryOrder(t *testing.T) {
	c := NewComposer(nil, nil)

	plan, err := c.Compose(context.Background(), testListing(), Params{Filters: map[string]string{
		"prefix":  "site",
		"owned":   "1",
		"private": "0",
	}})
	require.NoError(t, err)

	names := make([]string, len(plan.Applied))
	for i, a := range plan.Applied {
		names[i] = a.Name
	}
	assert.Equal(t, []string{"private", "owned", "prefix"}, names)
}

func TestCompose_FilterOrderDoesNotChangeConditions(t *testing.T) {
	c := NewComposer(nil, nil)
	filters := map[string]string{"private": "1", "saved": "1"}

	a, err := c.Compose(context.Background(), testListing(privateFilter, savedFilter), Params{Filters: filters})
	require.NoError(t, err)
	b, err := c.Compose(context.Background(), testListing(savedFilter, privateFilter), Params{Filters: filters})
	require.NoError(t, err)

	sqlA, argsA, err := a.Query.ToSql()
	require.NoError(t, err)
	sqlB, argsB, err := b.Query.ToSql()
	require.NoError(t, err)

	assert.Contains(t, sqlA, "WHERE sites.is_private = ? AND sites.save_count <> ?")
	assert.Contains(t, sqlB, "WHERE sites.save_count <> ? AND sites.is_private = ?")
	assert.ElementsMatch(t, argsA, argsB)
}

func TestCompose_IsDeterministic(t *testing.T) {
	c := NewComposer(testActors(), nil)
	l := testListing()
	p := Params{Sort: "owner_asc", Page: 2, Owner: "1", Filters: map[string]string{"private": "0", "prefix": "s"}}

	_, sql1, args1 := composeSQL(t, c, l, p)
	_, sql2, args2 := composeSQL(t, c, l, p)

	assert.Equal(t, sql1, sql2)
	assert.Equal(t, args1, args2)
}

func TestCompose_Owner(t *testing.T) {
	l := testListing()

	t.Run("known owner narrows and retitles", func(t *testing.T) {
		plan, err := NewComposer(testActors(), nil).Compose(context.Background(), l, Params{Owner: "1"})
		require.NoError(t, err)
		assert.Equal(t, "alice's Sites", plan.Title)
		require.NotNil(t, plan.Owner)
		assert.Equal(t, int64(1), plan.Owner.ID)
	})

	t.Run("unknown owner is ignored", func(t *testing.T) {
		plan, sql, _ := composeSQL(t, NewComposer(testActors(), nil), l, Params{Owner: "999"})
		assert.Equal(t, "Sites", plan.Title)
		assert.Nil(t, plan.Owner)
		assert.NotContains(t, sql, "user_id")
		assert.Equal(t, []Notice{{Kind: NoticeUnknownOwner, Key: OwnerKey, Value: "999"}}, plan.Notices)
	})

	t.Run("no resolver", func(t *testing.T) {
		plan, err := NewComposer(nil, nil).Compose(context.Background(), l, Params{Owner: "1"})
		require.NoError(t, err)
		assert.Equal(t, "Sites", plan.Title)
		assert.Len(t, plan.Notices, 1)
	})

	t.Run("resolver failure propagates", func(t *testing.T) {
		boom := errors.New("connection refused")
		_, err := NewComposer(fakeActors{err: boom}, nil).Compose(context.Background(), l, Params{Owner: "1"})
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
	})
}

func TestCompose_Search(t *testing.T) {
	var gotListing, gotTerm string
	search := SearchFunc(func(rs RecordSet, listing, term string) RecordSet {
		gotListing, gotTerm = listing, term
		return rs.Where(squirrel.Like{"sites.name": "%" + term + "%"})
	})

	plan, sql, args := composeSQL(t, NewComposer(nil, search), testListing(), Params{Search: "  wiki "})

	assert.Equal(t, "sites", gotListing)
	assert.Equal(t, "wiki", gotTerm)
	assert.Equal(t, "wiki", plan.Search)
	assert.Contains(t, sql, "WHERE sites.name LIKE ?")
	assert.Equal(t, []any{"%wiki%"}, args)
	assert.Equal(t, []Applied{{Name: SearchKey, Value: "wiki", Label: "wiki"}}, plan.Applied)
}

func TestCompose_PageClamping(t *testing.T) {
	c := NewComposer(nil, nil)
	l := testListing()

	tests := []struct {
		page       int
		wantNumber int
		wantOffset string
		wantNotice bool
	}{
		{page: 0, wantNumber: 1, wantOffset: "OFFSET 0"},
		{page: 1, wantNumber: 1, wantOffset: "OFFSET 0"},
		{page: -4, wantNumber: 1, wantOffset: "OFFSET 0", wantNotice: true},
		{page: 2, wantNumber: 2, wantOffset: "OFFSET 15"},
		{page: 1000, wantNumber: 1000, wantOffset: "OFFSET 14985"},
		{page: 1229782938247303443, wantNumber: 1229782938247303443, wantOffset: "OFFSET 9223372036854775800"},
	}

	for _, tt := range tests {
		plan, sql, _ := composeSQL(t, c, l, Params{Page: tt.page})
		assert.Equal(t, tt.wantNumber, plan.Page.Number, "page %d", tt.page)
		assert.Contains(t, sql, "LIMIT 15 "+tt.wantOffset, "page %d", tt.page)
		assert.Equal(t, tt.wantNotice, len(plan.Notices) == 1, "page %d", tt.page)
	}
}

func TestParamsFromValues(t *testing.T) {
	values := url.Values{
		"sort":    {"name_asc"},
		"page":    {"abc"},
		"user":    {"7"},
		"q":       {"wiki"},
		"private": {"1"},
		"color":   {"red"},
	}

	p := ParamsFromValues(values)

	assert.Equal(t, "name_asc", p.Sort)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, "7", p.Owner)
	assert.Equal(t, "wiki", p.Search)
	assert.Equal(t, map[string]string{"private": "1", "color": "red"}, p.Filters)
}

func TestListing_Validate(t *testing.T) {
	require.NoError(t, testListing().Validate())

	tests := []struct {
		name   string
		mutate func(l *Listing)
	}{
		{"no name", func(l *Listing) { l.Name = "" }},
		{"no base", func(l *Listing) { l.Base = nil }},
		{"no sorts", func(l *Listing) { l.Sorts = nil }},
		{"no filters", func(l *Listing) { l.Filters = nil }},
		{"default sort unregistered", func(l *Listing) { l.DefaultSort = SortState{Name: "bogus", Direction: Asc} }},
		{"default sort without direction", func(l *Listing) { l.DefaultSort = SortState{Name: "name"} }},
		{"reserved filter key", func(l *Listing) {
			l.Filters = MustFilterRegistry(Param("q", func(rs RecordSet, _ string) RecordSet { return rs }))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := testListing()
			tt.mutate(&l)
			err := l.Validate()
			require.Error(t, err)
			assert.True(t, apperror.IsConfiguration(err))
		})
	}
}

func TestListing_Describe(t *testing.T) {
	d := testListing().Describe()

	assert.Equal(t, "sites", d.Name)
	assert.Equal(t, "created_desc", d.DefaultSort)
	assert.True(t, d.Ownable)
	assert.Equal(t, testSorts().Names(), d.Sorts)
	require.Len(t, d.Filters, 4)
	assert.Equal(t, FilterDescription{
		Name: "private",
		Kind: "enum",
		Options: []OptionDescription{
			{Code: "1", Label: "private"},
			{Code: "0", Label: "public"},
		},
	}, d.Filters[0])
	assert.Equal(t, FilterDescription{Name: "prefix", Kind: "param"}, d.Filters[3])
}
