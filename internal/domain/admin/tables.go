package admin

import (
	sq "github.com/Masterminds/squirrel"

	"wikihost/internal/core/listing"
)

// nullAlwaysLast lists the keys whose NULLs sort last in both directions.
var nullAlwaysLast = []string{
	"username",
	"description",
	"owner",
	"version",
	"kind",
	"clone",
	"subscr",
}

// sortTable returns every admin sort key with plain columns qualified by table.
// Each listing picks the keys that make sense for its joins with Only.
func sortTable(table string) []listing.SortSpec {
	col := func(name string) string { return table + "." + name }

	return []listing.SortSpec{
		listing.Sort("accesses", col("access_count")),
		listing.Sort("clone", col("cloned_from_id")),
		listing.Sort("clones", col("clone_count")),
		listing.Sort("created", col("created_at")),
		listing.Sort("createdip", col("created_ip")),
		listing.Sort("currentsignin", col("current_sign_in_at")),
		listing.Sort("description", "NULLIF("+col("description")+", '')").Ascending(),
		listing.Sort("email", "users.email").Ascending(),
		listing.Sort("empty", "empties.name").Ascending(),
		listing.Sort("av", "users.use_gravatar", "users.use_libravatar"),
		listing.Sort("id", col("id")),
		listing.Sort("iframes", col("allow_in_iframe")),
		listing.Sort("kind", col("tw_kind")).Ascending(),
		listing.Sort("lastaccess", col("accessed_at")),
		listing.Sort("lastsignin", col("last_sign_in_at")),
		listing.Sort("lastupdate", col("updated_at")),
		listing.Sort("logins", col("sign_in_count")),
		listing.Sort("name", col("name")).Ascending(),
		listing.Sort("owner", "COALESCE(users.username, users.email)").Ascending(),
		listing.Sort("type", col("user_type_id")),
		// Aggregated because the users listing is grouped by users.id.
		listing.Sort("subscr", "MAX(pay_subscriptions.status)", "MAX(pay_subscriptions.id)"),
		listing.Sort("private", col("is_private")),
		listing.Sort("put", col("prefer_put_saver")),
		listing.Sort("saves", col("save_count")),
		listing.Sort("hub", col("is_searchable")),
		listing.Sort("rawmb", col("raw_byte_size")),
		listing.Sort("sites", "COUNT(DISTINCT sites.id)"),
		listing.Sort("template", col("allow_public_clone")),
		listing.Sort("tspotsites", "COUNT(DISTINCT tspot_sites.id)"),
		listing.Sort("upload", col("prefer_upload_saver")),
		listing.Sort("username", "NULLIF(users.username, '')").Ascending(),
		listing.Sort("version", col("tw_version")),
		listing.Sort("versions", "COUNT(DISTINCT active_storage_blobs.id)"),
		listing.Sort("views", col("view_count")),
	}
}

func flag(name, on, off, column string) listing.EnumFilter {
	return listing.Enum(name,
		listing.Opt("1", on, listing.Where(sq.NotEq{column: false})),
		listing.Opt("0", off, listing.Where(sq.Eq{column: false})),
	)
}

// filterTable returns every admin filter with columns qualified by table.
func filterTable(table string) []listing.FilterSpec {
	col := func(name string) string { return table + "." + name }

	return []listing.FilterSpec{
		listing.Enum("owned",
			listing.Opt("1", "owned", listing.Where(sq.NotEq{col("user_id"): nil})),
			listing.Opt("0", "unowned", listing.Where(sq.Eq{col("user_id"): nil})),
		),
		listing.Enum("saved",
			listing.Opt("1", "saved", listing.Where(sq.NotEq{col("save_count"): 0})),
			listing.Opt("0", "unsaved", listing.Where(sq.Eq{col("save_count"): 0})),
		),
		flag("private", "private", "public", col("is_private")),
		flag("hub", "hub", "non-hub", col("is_searchable")),
		flag("template", "template", "non-template", col("allow_public_clone")),
		listing.Enum("no_stub",
			listing.Opt("1", "non-stub", listing.Where(sq.Eq{col(`"exists"`): true})),
			listing.Opt("0", "stub", listing.Where(sq.Eq{col(`"exists"`): false})),
		),
		listing.Enum("new_pass",
			listing.Opt("1", "new passwd", listing.Where(sq.NotEq{"users.password_digest": nil})),
			listing.Opt("0", "legacy passwd", listing.Where(sq.Eq{"users.password_digest": nil})),
		),
		flag("deleted", "deleted", "not deleted", col("deleted")),
		listing.Param("kind", func(rs listing.RecordSet, kind string) listing.RecordSet {
			return rs.Where(sq.Eq{col("tw_kind"): kind})
		}),
		listing.Enum("signedin",
			listing.Opt("1", "signed in", listing.Where(sq.Gt{"users.sign_in_count": 0})),
			listing.Opt("0", "never signed in", listing.Where(sq.Eq{"users.sign_in_count": 0})),
		),
		listing.Enum("subscription",
			listing.Opt("2", "current", listing.Where(sq.Eq{"pay_subscriptions.status": "active"})),
			listing.Opt("1", "any status", listing.Where(sq.NotEq{"pay_subscriptions.id": nil})),
			listing.Opt("0", "no subscription", listing.Where(sq.Eq{"pay_subscriptions.id": nil})),
		),
	}
}

// searchColumns are matched by the free-text search, per listing.
var searchColumns = map[string][]string{
	UsersListing:      {"users.email", "users.username", "users.created_ip"},
	SitesListing:      {"sites.name", "sites.description", "users.email", "users.username"},
	TspotSitesListing: {"tspot_sites.name", "tspot_sites.description", "users.email", "users.username"},
}

// SearchColumns returns the columns free-text search matches for a listing.
func SearchColumns(name string) []string {
	return append([]string(nil), searchColumns[name]...)
}
