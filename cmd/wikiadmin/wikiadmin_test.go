package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikihost/internal/core/listing"
	"wikihost/internal/domain/admin"
	"wikihost/internal/domain/auth"
)

func TestListOptions_Params(t *testing.T) {
	opts := listOptions{
		sort:    "name_asc",
		page:    3,
		user:    "7",
		search:  "notes",
		filters: []string{"private=1", " kind = feather "},
	}

	p := opts.params()
	assert.Equal(t, "name_asc", p.Sort)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, "7", p.Owner)
	assert.Equal(t, "notes", p.Search)
	assert.Equal(t, map[string]string{"private": "1", "kind": "feather"}, p.Filters)
}

func TestWriteTable(t *testing.T) {
	desc := "first"
	res := &admin.ListResult{
		Title:      "Sites",
		Sort:       listing.MustSortState("name_asc"),
		Applied:    []listing.Applied{{Name: "private", Value: "1", Label: "private"}},
		Notices:    []listing.Notice{{Kind: listing.NoticeUnknownOwner, Key: "user", Value: "zz"}},
		Page:       1,
		TotalPages: 1,
		TotalCount: 2,
		Items: []admin.SiteRow{
			{ID: 1, Name: "alpha", Description: &desc, CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)},
			{ID: 2, Name: "beta"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, res))
	out := buf.String()

	assert.Contains(t, out, "Sites  sort=name_asc  page 1/1  (2 records)")
	assert.Contains(t, out, "private: private")
	assert.Contains(t, out, `ignored user="zz" (unknown_owner)`)
	lines := strings.Split(out, "\n")
	var header string
	for _, l := range lines {
		if strings.HasPrefix(l, "id") {
			header = l
		}
	}
	assert.Contains(t, header, "name")
	assert.Contains(t, out, "2024-05-01 09:30")
	assert.Contains(t, out, "alpha")
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, &admin.ListResult{Title: "Users", Items: []admin.UserRow{}}))
	assert.Contains(t, buf.String(), "(no records)")
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("WIKIHOST_JWT_SECRET", "cli-secret")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--env-file", "", "token", "--user-id", "5", "--username", "ops"})
	require.NoError(t, cmd.Execute())

	user, err := auth.NewJWTService(auth.DefaultJWTConfig("cli-secret")).ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "5", user.UserID)
	assert.Equal(t, "ops", user.Username)
	assert.True(t, user.IsAdmin)
}

func TestListingsCmd(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"listings"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"name": "tspot_sites"`)
}
