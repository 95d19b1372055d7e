package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/durfee/passwords/internal/errors"
)

func TestParseDN(t *testing.T) {
	t.Run("ParsesAttributes", func(t *testing.T) {
		attrs, err := ParseDN("CN=client-one, O=Example Org, C=US")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"cn": "client-one",
			"o":  "Example Org",
			"c":  "US",
		}, attrs)
	})

	t.Run("LowercasesKeysOnly", func(t *testing.T) {
		attrs, err := ParseDN("CN=Client-One")
		require.NoError(t, err)
		assert.Equal(t, "Client-One", attrs["cn"])
	})

	t.Run("ToleratesArbitraryWhitespace", func(t *testing.T) {
		attrs, err := ParseDN("  cn =  alice ,  o= Example ")
		require.NoError(t, err)
		assert.Equal(t, "alice", attrs["cn"])
		assert.Equal(t, "Example", attrs["o"])
	})

	t.Run("EmptyInputYieldsEmptyMap", func(t *testing.T) {
		attrs, err := ParseDN("")
		require.NoError(t, err)
		assert.Empty(t, attrs)

		attrs, err = ParseDN("   ")
		require.NoError(t, err)
		assert.Empty(t, attrs)
	})

	t.Run("EarliestDuplicateWins", func(t *testing.T) {
		attrs, err := ParseDN("CN=first, O=Example, CN=second")
		require.NoError(t, err)
		assert.Equal(t, "first", attrs["cn"])
	})

	t.Run("MalformedPairFails", func(t *testing.T) {
		_, err := ParseDN("CN=alice, garbage")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		assert.Contains(t, err.Error(), "garbage")
	})

	t.Run("EmptyValueIsAccepted", func(t *testing.T) {
		attrs, err := ParseDN("CN=")
		require.NoError(t, err)
		assert.Equal(t, "", attrs["cn"])
	})
}

func TestTenantKey(t *testing.T) {
	t.Run("ReturnsCommonName", func(t *testing.T) {
		attrs, err := ParseDN("CN=tenant-a, O=Example")
		require.NoError(t, err)
		assert.Equal(t, "tenant-a", TenantKey(attrs))
	})

	t.Run("MissingCommonNameYieldsEmptyString", func(t *testing.T) {
		attrs, err := ParseDN("O=Example")
		require.NoError(t, err)
		assert.Equal(t, "", TenantKey(attrs))
	})
}
