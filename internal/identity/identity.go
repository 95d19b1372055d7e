// Package identity parses the verified client identity forwarded by the TLS
// terminator into structured attributes. The tenant key that scopes every
// storage operation is derived from the subject's common name.
package identity

import (
	"strings"

	apperrors "github.com/durfee/passwords/internal/errors"
)

// TenantAttribute is the distinguished-name attribute the tenant key is taken from.
const TenantAttribute = "cn"

// ParseDN parses a comma-separated distinguished name string ("CN=alice, O=Example")
// into a map of lowercased attribute names to values. Whitespace around pairs,
// keys, and values is tolerated. When an attribute appears more than once, the
// earliest pair wins; later duplicates are ignored so parsing stays deterministic.
//
// An empty or all-whitespace input yields an empty map. A pair without '=' fails
// with an error wrapping ErrInvalidInput.
func ParseDN(dn string) (map[string]string, error) {
	attrs := make(map[string]string)

	if strings.TrimSpace(dn) == "" {
		return attrs, nil
	}

	for _, pair := range strings.Split(dn, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, apperrors.Wrap(
				apperrors.ErrInvalidInput,
				"malformed identity attribute "+pair,
			)
		}

		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		// Earliest pair wins on duplicate attributes.
		if _, exists := attrs[key]; !exists {
			attrs[key] = value
		}
	}

	return attrs, nil
}

// TenantKey extracts the tenant partition key from parsed identity attributes.
// A missing common name yields the empty string; downstream scoping then
// addresses only records whose tenant key is also empty, never all records.
func TenantKey(attrs map[string]string) string {
	return attrs[TenantAttribute]
}
