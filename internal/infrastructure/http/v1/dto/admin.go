package dto

import (
	"wikihost/internal/core/listing"
	"wikihost/internal/domain/admin"
)

// SortResponse is the active ordering. Token is what a link would send back.
type SortResponse struct {
	Name      string `json:"name"`
	Direction string `json:"direction"`
	Token     string `json:"token"`
}

// FilterResponse is one applied filter, for breadcrumbs.
type FilterResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// OwnerResponse is the user a listing is scoped to.
type OwnerResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NoticeResponse reports one ignored or replaced input.
type NoticeResponse struct {
	Kind  string `json:"kind"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ListingResponse is one page of an admin listing.
type ListingResponse struct {
	Listing    string             `json:"listing"`
	Title      string             `json:"title"`
	Sort       SortResponse       `json:"sort"`
	Filters    []FilterResponse   `json:"filters"`
	Owner      *OwnerResponse     `json:"owner,omitempty"`
	Search     string             `json:"search,omitempty"`
	Items      any                `json:"items"`
	Pagination PaginationResponse `json:"pagination"`
	SortLinks  map[string]string  `json:"sortLinks"`
	Notices    []NoticeResponse   `json:"notices,omitempty"`

	// Encoded query strings: sort key -> query, filter -> option code -> query.
	SortQueries map[string]string            `json:"sortQueries"`
	FilterLinks map[string]map[string]string `json:"filterLinks"`
}

// FromListResult converts a service result.
func FromListResult(r *admin.ListResult) ListingResponse {
	resp := ListingResponse{
		Listing: r.Listing,
		Title:   r.Title,
		Sort: SortResponse{
			Name:      r.Sort.Name,
			Direction: string(r.Sort.Direction),
			Token:     r.Sort.Token(),
		},
		Filters:    make([]FilterResponse, 0, len(r.Applied)),
		Search:     r.Search,
		Items:      r.Items,
		Pagination: NewPaginationResponse(r.Page, r.PageSize, r.TotalCount),
		SortLinks:  r.SortLinks,

		SortQueries: r.SortQueries,
		FilterLinks: r.FilterLinks,
	}
	for _, a := range r.Applied {
		resp.Filters = append(resp.Filters, FilterResponse(a))
	}
	if r.Owner != nil {
		owner := OwnerResponse(*r.Owner)
		resp.Owner = &owner
	}
	for _, n := range r.Notices {
		resp.Notices = append(resp.Notices, NoticeResponse{Kind: string(n.Kind), Key: n.Key, Value: n.Value})
	}
	return resp
}

// ListingsResponse describes every listing.
type ListingsResponse struct {
	Listings []listing.Description `json:"listings"`
}
