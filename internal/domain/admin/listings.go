package admin

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"wikihost/internal/core/apperror"
	"wikihost/internal/core/listing"
)

// Listing names, also used as URL segments.
const (
	UsersListing      = "users"
	SitesListing      = "sites"
	TspotSitesListing = "tspot_sites"
)

// Reserved owner keys (user, q) are handled by the composer, so they are not registered here.
var (
	userSorts = []string{
		"id", "created", "createdip", "currentsignin", "lastsignin", "logins",
		"email", "username", "type", "av", "subscr", "sites", "tspotsites",
	}
	userFilters = []string{"signedin", "subscription", "new_pass"}

	siteSorts = []string{
		"id", "name", "owner", "description", "created", "lastupdate", "lastaccess",
		"accesses", "views", "clone", "clones", "empty", "kind", "version",
		"private", "hub", "template", "iframes", "put", "upload", "saves",
		"rawmb", "versions",
	}
	siteFilters = []string{"owned", "saved", "private", "hub", "template", "deleted", "kind"}

	tspotSiteSorts = []string{
		"id", "name", "owner", "description", "created", "lastupdate", "lastaccess",
		"accesses", "kind", "version", "private", "hub", "iframes", "put",
		"upload", "saves", "rawmb", "versions",
	}
	tspotSiteFilters = []string{"owned", "saved", "private", "hub", "no_stub", "deleted", "kind"}
)

func usersBase() listing.RecordSet {
	return sq.
		Select(
			"users.id", "users.email", "users.username", "users.user_type_id",
			"users.created_ip", "users.created_at", "users.current_sign_in_at",
			"users.last_sign_in_at", "users.sign_in_count", "users.use_gravatar",
			"users.use_libravatar",
			"users.password_digest IS NOT NULL AS has_password",
			"COUNT(DISTINCT sites.id) AS site_count",
			"COUNT(DISTINCT tspot_sites.id) AS tspot_site_count",
			"MAX(pay_subscriptions.status) AS subscription_status",
		).
		From("users").
		LeftJoin("sites ON sites.user_id = users.id").
		LeftJoin("tspot_sites ON tspot_sites.user_id = users.id").
		LeftJoin("pay_customers ON pay_customers.owner_id = users.id").
		LeftJoin("pay_subscriptions ON pay_subscriptions.customer_id = pay_customers.id").
		GroupBy("users.id")
}

func sitesBase() listing.RecordSet {
	return sq.
		Select(
			"sites.id", "sites.name", "sites.description", "sites.user_id",
			"COALESCE(users.username, users.email) AS owner_name",
			"empties.name AS empty_name",
			"sites.is_private", "sites.is_searchable", "sites.allow_public_clone",
			"sites.allow_in_iframe", "sites.prefer_put_saver", "sites.prefer_upload_saver",
			"sites.deleted", "sites.access_count", "sites.view_count", "sites.save_count",
			"sites.clone_count", "sites.cloned_from_id", "sites.tw_kind", "sites.tw_version",
			"sites.raw_byte_size",
			"COUNT(DISTINCT active_storage_blobs.id) AS version_count",
			"sites.created_at", "sites.updated_at", "sites.accessed_at",
		).
		From("sites").
		LeftJoin("users ON users.id = sites.user_id").
		LeftJoin("empties ON empties.id = sites.empty_id").
		LeftJoin(blobsFor("sites", "Site")).
		LeftJoin("active_storage_blobs ON active_storage_blobs.id = active_storage_attachments.blob_id").
		GroupBy("sites.id", "users.id", "empties.id")
}

func tspotSitesBase() listing.RecordSet {
	return sq.
		Select(
			"tspot_sites.id", "tspot_sites.name", "tspot_sites.description", "tspot_sites.user_id",
			"COALESCE(users.username, users.email) AS owner_name",
			`tspot_sites."exists" AS "exists"`,
			"tspot_sites.is_private", "tspot_sites.is_searchable", "tspot_sites.allow_in_iframe",
			"tspot_sites.prefer_put_saver", "tspot_sites.prefer_upload_saver", "tspot_sites.deleted",
			"tspot_sites.access_count", "tspot_sites.save_count", "tspot_sites.tw_kind",
			"tspot_sites.tw_version", "tspot_sites.raw_byte_size",
			"COUNT(DISTINCT active_storage_blobs.id) AS version_count",
			"tspot_sites.created_at", "tspot_sites.updated_at", "tspot_sites.accessed_at",
		).
		From("tspot_sites").
		LeftJoin("users ON users.id = tspot_sites.user_id").
		LeftJoin(blobsFor("tspot_sites", "TspotSite")).
		LeftJoin("active_storage_blobs ON active_storage_blobs.id = active_storage_attachments.blob_id").
		GroupBy("tspot_sites.id", "users.id")
}

func blobsFor(table, recordType string) string {
	return fmt.Sprintf(
		"active_storage_attachments ON active_storage_attachments.record_id = %s.id AND active_storage_attachments.record_type = '%s'",
		table, recordType,
	)
}

func ownedBy(column string) func(listing.RecordSet, listing.Actor) listing.RecordSet {
	return func(rs listing.RecordSet, a listing.Actor) listing.RecordSet {
		return rs.Where(sq.Eq{column: a.ID})
	}
}

func ownerTitle(actor listing.Actor, title string) string {
	return actor.Name + "'s " + title
}

func detailsTitle(actor listing.Actor, _ string) string {
	return actor.Name + "'s Details"
}

// Catalog holds the admin listings. It is built once at startup and read concurrently.
type Catalog struct {
	listings map[string]listing.Listing
	names    []string
}

// NewCatalog builds and validates the three admin listings.
func NewCatalog() (*Catalog, error) {
	sites, err := build(listingDef{
		name:     SitesListing,
		title:    "Sites",
		base:     sitesBase,
		sorts:    siteSorts,
		filters:  siteFilters,
		def:      "created_desc",
		tieBreak: "sites.id",
		owner:    listing.OwnerScope{Narrow: ownedBy("sites.user_id"), Title: ownerTitle},
	})
	if err != nil {
		return nil, err
	}

	tspot, err := build(listingDef{
		name:     TspotSitesListing,
		title:    "Tspot Sites",
		base:     tspotSitesBase,
		sorts:    tspotSiteSorts,
		filters:  tspotSiteFilters,
		def:      "lastupdate_desc",
		tieBreak: "tspot_sites.id",
		owner:    listing.OwnerScope{Narrow: ownedBy("tspot_sites.user_id"), Title: ownerTitle},
	})
	if err != nil {
		return nil, err
	}

	users, err := build(listingDef{
		name:     UsersListing,
		title:    "Users",
		base:     usersBase,
		sorts:    userSorts,
		filters:  userFilters,
		def:      "created_desc",
		tieBreak: "users.id",
		owner:    listing.OwnerScope{Narrow: ownedBy("users.id"), Title: detailsTitle},
	})
	if err != nil {
		return nil, err
	}

	c := &Catalog{listings: make(map[string]listing.Listing, 3)}
	for _, l := range []listing.Listing{users, sites, tspot} {
		c.listings[l.Name] = l
		c.names = append(c.names, l.Name)
	}
	return c, nil
}

// MustCatalog is NewCatalog that panics on misconfiguration.
func MustCatalog() *Catalog {
	c, err := NewCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns a listing by name.
func (c *Catalog) Lookup(name string) (listing.Listing, bool) {
	l, ok := c.listings[name]
	return l, ok
}

// Names returns listing names in display order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Describe returns the public description of every listing.
func (c *Catalog) Describe() []listing.Description {
	out := make([]listing.Description, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.listings[name].Describe())
	}
	return out
}

type listingDef struct {
	name     string
	title    string
	base     func() listing.RecordSet
	sorts    []string
	filters  []string
	def      string
	tieBreak string
	owner    listing.OwnerScope
}

func build(d listingDef) (listing.Listing, error) {
	all, err := listing.NewSortRegistry(sortTable(d.name), nullAlwaysLast...)
	if err != nil {
		return listing.Listing{}, err
	}
	sorts, err := all.Only(d.sorts...)
	if err != nil {
		return listing.Listing{}, err
	}

	allFilters, err := listing.NewFilterRegistry(filterTable(d.name)...)
	if err != nil {
		return listing.Listing{}, err
	}
	filters, err := allFilters.Only(d.filters...)
	if err != nil {
		return listing.Listing{}, err
	}

	def, ok := listing.ParseSortToken(d.def)
	if !ok {
		return listing.Listing{}, apperror.NewConfiguration("malformed default sort").
			WithDetail("listing", d.name).
			WithDetail("sort", d.def)
	}

	l := listing.Listing{
		Name:        d.name,
		Title:       d.title,
		Base:        d.base,
		Sorts:       sorts,
		Filters:     filters,
		DefaultSort: def,
		TieBreak:    d.tieBreak,
		Owner:       d.owner,
	}
	if err := l.Validate(); err != nil {
		return listing.Listing{}, err
	}
	return l, nil
}
