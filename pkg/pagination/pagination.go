// Package pagination parses page/limit query parameters and computes page
// counts for list endpoints.
package pagination

import (
	"net/url"
	"strconv"

	apperrors "github.com/Sudhanshu9000/BazzarNet1.1/pkg/errors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds a validated page request.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// DefaultParams returns page 1 with the default limit.
func DefaultParams() Params {
	return Params{Page: DefaultPage, Limit: DefaultLimit}
}

// Offset is the number of rows skipped before the requested page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// FromQuery reads page and limit from q. Absent values take the defaults.
// Values that are not positive integers, or a limit above MaxLimit, produce
// an invalid input error.
func FromQuery(q url.Values) (Params, error) {
	p := DefaultParams()

	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return Params{}, apperrors.InvalidInput("page must be a positive integer")
		}
		p.Page = v
	}

	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > MaxLimit {
			return Params{}, apperrors.InvalidInput("limit must be an integer between 1 and " + strconv.Itoa(MaxLimit))
		}
		p.Limit = v
	}

	return p, nil
}

// TotalPages returns ceil(count / limit). A non-positive limit yields 0.
func TotalPages(count, limit int) int {
	if limit <= 0 || count <= 0 {
		return 0
	}
	pages := count / limit
	if count%limit > 0 {
		pages++
	}
	return pages
}
