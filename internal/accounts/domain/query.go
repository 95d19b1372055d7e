package domain

import (
	"time"

	apperrors "github.com/durfee/passwords/internal/errors"
)

// Sort field names accepted by the orderBy option. These are the caller-facing
// names; the repository maps them to storage columns. Unlike the original
// system, the field is validated against this set instead of being passed
// through to the storage engine unchecked.
const (
	SortByDomainName = "domainName"
	SortByUsername   = "username"
	SortByCreatedAt  = "createdAt"
	SortByModifiedAt = "modifiedAt"
	SortByAccessedAt = "accessedAt"
)

// Sort directions for the order option.
const (
	OrderAscending  = "asc"
	OrderDescending = "desc"
)

// sortFields is the allow-list for the orderBy option.
var sortFields = map[string]struct{}{
	SortByDomainName: {},
	SortByUsername:   {},
	SortByCreatedAt:  {},
	SortByModifiedAt: {},
	SortByAccessedAt: {},
}

// ListOptions is the closed set of recognized filter and sort options for
// listing accounts. Filter fields are nil when unset; set fields contribute
// AND-ed predicate fragments. OrderBy and Order shape only the sort spec.
type ListOptions struct {
	DomainName         *string
	DomainNameEndsWith *string
	DomainNameContains *string

	Username           *string
	UsernameStartsWith *string
	UsernameContains   *string

	CreatedAt     *time.Time
	CreatedBefore *time.Time
	CreatedAfter  *time.Time

	ModifiedAt     *time.Time
	ModifiedBefore *time.Time
	ModifiedAfter  *time.Time

	AccessedAt     *time.Time
	AccessedBefore *time.Time
	AccessedAfter  *time.Time

	// OrderBy is the sort field, one of the SortBy constants. Defaults to domainName.
	OrderBy string
	// Order is the sort direction. "asc" sorts ascending, anything else descending.
	Order string
}

// NewListOptions returns options with the default sort spec and no filters.
func NewListOptions() *ListOptions {
	return &ListOptions{
		OrderBy: SortByDomainName,
		Order:   OrderAscending,
	}
}

// Ascending reports whether results should sort ascending. Only the literal
// "asc" (the default) sorts ascending; any other value sorts descending.
func (o *ListOptions) Ascending() bool {
	return o.Order == OrderAscending
}

// ParseListOptions translates raw query parameters into ListOptions. Exactly
// the recognized keys are accepted; any other key fails with an error wrapping
// ErrUnsupportedParameter that names the offending key. Timestamp values must
// be RFC 3339; malformed values wrap ErrInvalidInput.
func ParseListOptions(params map[string]string) (*ListOptions, error) {
	opts := NewListOptions()

	for key, value := range params {
		switch key {
		case "domainName":
			opts.DomainName = ptr(value)
		case "domainNameEndsWith":
			opts.DomainNameEndsWith = ptr(value)
		case "domainNameContains":
			opts.DomainNameContains = ptr(value)
		case "username":
			opts.Username = ptr(value)
		case "usernameStartsWith":
			opts.UsernameStartsWith = ptr(value)
		case "usernameContains":
			opts.UsernameContains = ptr(value)
		case "createdAt":
			ts, err := parseTimestamp(key, value)
			if err != nil {
				return nil, err
			}
			opts.CreatedAt = ts
		case "createdBefore":
			ts, err := parseTimestamp(key, value)
			if err != nil {
				return nil, err
			}
			opts.CreatedBefore = ts
		case "createdAfter":
			ts, err := parseTimestamp(key, value)
			if err != nil {
				return nil, err
			}
			opts.CreatedAfter = ts
		case "modifiedAt":
			ts, err := parseTimestamp(key, value)
			if err != nil {
				return nil, err
			}
			opts.ModifiedAt = ts
		case "modifiedBefore":
			ts, err := parseTimestamp(key, value)
			if err != nil {
				return nil, err
			}
			opts.ModifiedBefore = ts
		case "modifiedAfter":
			ts, err := parseTimestamp(key, value)
			if err != nil {
				return nil, err
			}
			opts.ModifiedAfter = ts
		case "accessedAt":
			ts, err := parseTimestamp(key, value)
			if err != nil {
				return nil, err
			}
			opts.AccessedAt = ts
		case "accessedBefore":
			ts, err := parseTimestamp(key, value)
			if err != nil {
				return nil, err
			}
			opts.AccessedBefore = ts
		case "accessedAfter":
			ts, err := parseTimestamp(key, value)
			if err != nil {
				return nil, err
			}
			opts.AccessedAfter = ts
		case "order":
			if value == OrderAscending {
				opts.Order = OrderAscending
			} else {
				opts.Order = OrderDescending
			}
		case "orderBy":
			if _, ok := sortFields[value]; !ok {
				return nil, apperrors.Wrap(
					apperrors.ErrInvalidInput,
					"orderBy field "+value+" is not sortable",
				)
			}
			opts.OrderBy = value
		default:
			return nil, apperrors.Wrap(
				apperrors.ErrUnsupportedParameter,
				"query parameter "+key+" is not supported",
			)
		}
	}

	return opts, nil
}

// parseTimestamp parses an RFC 3339 timestamp query value.
func parseTimestamp(key, value string) (*time.Time, error) {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, apperrors.Wrap(
			apperrors.ErrInvalidInput,
			"query parameter "+key+" must be an RFC 3339 timestamp",
		)
	}
	ts = ts.UTC()
	return &ts, nil
}

func ptr(s string) *string {
	return &s
}
