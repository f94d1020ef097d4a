// Package catalog is the boundary to the remote course catalog: request
// parameters, the HTTP client, error classification and a page cache.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/gorilla/schema"

	"coursedeck/internal/domain"
	"coursedeck/internal/location"
)

// DefaultPageSize is used when no limit is configured
const DefaultPageSize = 12

// Client fetches one page of courses
type Client interface {
	FetchCourses(ctx context.Context, p Params) (Page, error)
}

// Params are the query parameters of a catalog request. Empty values are not
// sent; sortBy and page always are.
type Params struct {
	Search     string `schema:"search,omitempty"`
	Category   string `schema:"category,omitempty"`
	Level      string `schema:"level,omitempty"`
	Rating     int    `schema:"rating,omitempty"`
	Language   string `schema:"language,omitempty"`
	PriceRange string `schema:"priceRange,omitempty"`
	MinPrice   string `schema:"minPrice,omitempty"`
	MaxPrice   string `schema:"maxPrice,omitempty"`
	SortBy     string `schema:"sortBy"`
	Page       int    `schema:"page"`
	Limit      int    `schema:"limit,omitempty"`
}

// Page is one page of results plus the total match count
type Page struct {
	Courses      []domain.Course `json:"courses"`
	TotalCourses int             `json:"totalCourses"`
}

var encoder = schema.NewEncoder()

// ParamsFromFilter derives request parameters from a filter model. Both price
// kinds are sent when a hand-written location carries both.
func ParamsFromFilter(m domain.FilterModel, page, limit int) Params {
	m = m.Normalize()
	if page < 1 {
		page = 1
	}
	return Params{
		Search:     m.SearchText,
		Category:   m.Category,
		Level:      string(m.Level),
		Rating:     m.Rating,
		Language:   m.Language,
		PriceRange: string(m.PriceRange),
		MinPrice:   location.FormatAmount(m.MinPrice),
		MaxPrice:   location.FormatAmount(m.MaxPrice),
		SortBy:     string(m.SortBy),
		Page:       page,
		Limit:      limit,
	}
}

// Values encodes p as query values
func (p Params) Values() url.Values {
	values := url.Values{}
	if err := encoder.Encode(p, values); err != nil {
		// only reachable with unsupported field types
		panic(fmt.Sprintf("catalog: encoding params: %v", err))
	}
	return values
}

// Encode returns the canonical query string; keys are sorted
func (p Params) Encode() string {
	return p.Values().Encode()
}

// Error is a classified fetch failure
type Error struct {
	Kind   domain.ErrorKind
	Status int // HTTP status for server errors, 0 otherwise
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog %s error (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("catalog %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf classifies err. Anything that is not a catalog Error counts as a
// network failure.
func KindOf(err error) domain.ErrorKind {
	if err == nil {
		return domain.ErrorNone
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return domain.ErrorNetwork
}

type noCacheKey struct{}

// WithoutCache marks ctx so cached clients go to the network
func WithoutCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, noCacheKey{}, true)
}

func skipCache(ctx context.Context) bool {
	v, _ := ctx.Value(noCacheKey{}).(bool)
	return v
}
