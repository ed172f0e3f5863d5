// Package admin holds the back office listings: the sort and filter tables, the three
// record listings built from them, and the dashboard statistics.
package admin

import "time"

// UserRow is one line of the users listing.
type UserRow struct {
	ID                 int64      `db:"id" json:"id"`
	Email              string     `db:"email" json:"email"`
	Username           *string    `db:"username" json:"username"`
	UserTypeID         int        `db:"user_type_id" json:"userTypeId"`
	CreatedIP          *string    `db:"created_ip" json:"createdIp"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
	CurrentSignInAt    *time.Time `db:"current_sign_in_at" json:"currentSignInAt"`
	LastSignInAt       *time.Time `db:"last_sign_in_at" json:"lastSignInAt"`
	SignInCount        int        `db:"sign_in_count" json:"signInCount"`
	UseGravatar        bool       `db:"use_gravatar" json:"useGravatar"`
	UseLibravatar      bool       `db:"use_libravatar" json:"useLibravatar"`
	HasPassword        bool       `db:"has_password" json:"hasPassword"`
	SiteCount          int64      `db:"site_count" json:"siteCount"`
	TspotSiteCount     int64      `db:"tspot_site_count" json:"tspotSiteCount"`
	SubscriptionStatus *string    `db:"subscription_status" json:"subscriptionStatus"`
}

// DisplayName is the username, or the email when no username is set.
func (u UserRow) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return u.Email
}

// SiteRow is one line of the sites listing.
type SiteRow struct {
	ID                int64      `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	Description       *string    `db:"description" json:"description"`
	OwnerID           *int64     `db:"user_id" json:"ownerId"`
	OwnerName         *string    `db:"owner_name" json:"ownerName"`
	EmptyName         *string    `db:"empty_name" json:"emptyName"`
	IsPrivate         bool       `db:"is_private" json:"isPrivate"`
	IsSearchable      bool       `db:"is_searchable" json:"isSearchable"`
	AllowPublicClone  bool       `db:"allow_public_clone" json:"allowPublicClone"`
	AllowInIframe     bool       `db:"allow_in_iframe" json:"allowInIframe"`
	PreferPutSaver    bool       `db:"prefer_put_saver" json:"preferPutSaver"`
	PreferUploadSaver bool       `db:"prefer_upload_saver" json:"preferUploadSaver"`
	Deleted           bool       `db:"deleted" json:"deleted"`
	AccessCount       int64      `db:"access_count" json:"accessCount"`
	ViewCount         int64      `db:"view_count" json:"viewCount"`
	SaveCount         int64      `db:"save_count" json:"saveCount"`
	CloneCount        int64      `db:"clone_count" json:"cloneCount"`
	ClonedFromID      *int64     `db:"cloned_from_id" json:"clonedFromId"`
	TwKind            *string    `db:"tw_kind" json:"twKind"`
	TwVersion         *string    `db:"tw_version" json:"twVersion"`
	RawByteSize       *int64     `db:"raw_byte_size" json:"rawByteSize"`
	VersionCount      int64      `db:"version_count" json:"versionCount"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`
	AccessedAt        *time.Time `db:"accessed_at" json:"accessedAt"`
}

// TspotSiteRow is one line of the legacy tspot sites listing.
type TspotSiteRow struct {
	ID                int64      `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	Description       *string    `db:"description" json:"description"`
	OwnerID           *int64     `db:"user_id" json:"ownerId"`
	OwnerName         *string    `db:"owner_name" json:"ownerName"`
	Exists            bool       `db:"exists" json:"exists"`
	IsPrivate         bool       `db:"is_private" json:"isPrivate"`
	IsSearchable      bool       `db:"is_searchable" json:"isSearchable"`
	AllowInIframe     bool       `db:"allow_in_iframe" json:"allowInIframe"`
	PreferPutSaver    bool       `db:"prefer_put_saver" json:"preferPutSaver"`
	PreferUploadSaver bool       `db:"prefer_upload_saver" json:"preferUploadSaver"`
	Deleted           bool       `db:"deleted" json:"deleted"`
	AccessCount       int64      `db:"access_count" json:"accessCount"`
	SaveCount         int64      `db:"save_count" json:"saveCount"`
	TwKind            *string    `db:"tw_kind" json:"twKind"`
	TwVersion         *string    `db:"tw_version" json:"twVersion"`
	RawByteSize       *int64     `db:"raw_byte_size" json:"rawByteSize"`
	VersionCount      int64      `db:"version_count" json:"versionCount"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`
	AccessedAt        *time.Time `db:"accessed_at" json:"accessedAt"`
}
