package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountsDomain "github.com/durfee/passwords/internal/accounts/domain"
)

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestBuildConditions_TenantScopeAlwaysFirst(t *testing.T) {
	conditions := buildConditions("alice", accountsDomain.NewListOptions())

	require.Len(t, conditions, 1)
	assert.Equal(t, "tenant_key", conditions[0].column)
	assert.Equal(t, "=", conditions[0].op)
	assert.Equal(t, "alice", conditions[0].value)
}

func TestBuildConditions_ReversesDomainValues(t *testing.T) {
	opts := accountsDomain.NewListOptions()
	opts.DomainName = strPtr("example.com")

	conditions := buildConditions("alice", opts)

	require.Len(t, conditions, 2)
	assert.Equal(t, "domain_name", conditions[1].column)
	assert.Equal(t, "=", conditions[1].op)
	assert.Equal(t, "moc.elpmaxe", conditions[1].value)
}

func TestBuildConditions_DomainSuffixBecomesPrefixScan(t *testing.T) {
	opts := accountsDomain.NewListOptions()
	opts.DomainNameEndsWith = strPtr(".com")

	conditions := buildConditions("alice", opts)

	require.Len(t, conditions, 2)
	assert.Equal(t, "domain_name", conditions[1].column)
	assert.Equal(t, "LIKE", conditions[1].op)
	assert.Equal(t, "moc.%", conditions[1].value)
}

func TestBuildConditions_UsernameFragments(t *testing.T) {
	opts := accountsDomain.NewListOptions()
	opts.UsernameStartsWith = strPtr("adm")

	conditions := buildConditions("alice", opts)

	require.Len(t, conditions, 2)
	assert.Equal(t, "username", conditions[1].column)
	assert.Equal(t, "LIKE", conditions[1].op)
	assert.Equal(t, "adm%", conditions[1].value)
}

func TestBuildConditions_LastFragmentWinsPerColumn(t *testing.T) {
	opts := accountsDomain.NewListOptions()
	opts.DomainName = strPtr("example.com")
	opts.DomainNameContains = strPtr("ample")

	conditions := buildConditions("alice", opts)

	// One fragment per column: the contains fragment overwrites the equality one.
	require.Len(t, conditions, 2)
	assert.Equal(t, "domain_name", conditions[1].column)
	assert.Equal(t, "LIKE", conditions[1].op)
	assert.Equal(t, "%"+accountsDomain.ReverseDomainName("ample")+"%", conditions[1].value)
}

func TestBuildConditions_TimestampFragments(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	before := at.Add(time.Hour)

	opts := accountsDomain.NewListOptions()
	opts.CreatedAt = timePtr(at)
	opts.CreatedBefore = timePtr(before)

	conditions := buildConditions("alice", opts)

	require.Len(t, conditions, 2)
	assert.Equal(t, "created_at", conditions[1].column)
	assert.Equal(t, "<", conditions[1].op)
	assert.Equal(t, before, conditions[1].value)
}

func TestBuildConditions_FixedColumnOrder(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	opts := accountsDomain.NewListOptions()
	opts.AccessedAfter = timePtr(at)
	opts.Username = strPtr("admin")
	opts.DomainNameEndsWith = strPtr(".org")

	conditions := buildConditions("alice", opts)

	require.Len(t, conditions, 4)
	assert.Equal(t, "tenant_key", conditions[0].column)
	assert.Equal(t, "domain_name", conditions[1].column)
	assert.Equal(t, "username", conditions[2].column)
	assert.Equal(t, "accessed_at", conditions[3].column)
}

func TestRenderWhere_PostgresPlaceholders(t *testing.T) {
	opts := accountsDomain.NewListOptions()
	opts.Username = strPtr("admin")

	where, args := renderWhere(postgresPlaceholders, 0, buildConditions("alice", opts))

	assert.Equal(t, "tenant_key = $1 AND username = $2", where)
	assert.Equal(t, []any{"alice", "admin"}, args)
}

func TestRenderWhere_PostgresPlaceholderOffset(t *testing.T) {
	where, args := renderWhere(postgresPlaceholders, 1, buildConditions("alice", accountsDomain.NewListOptions()))

	assert.Equal(t, "tenant_key = $2", where)
	assert.Equal(t, []any{"alice"}, args)
}

func TestRenderWhere_MySQLPlaceholders(t *testing.T) {
	opts := accountsDomain.NewListOptions()
	opts.Username = strPtr("admin")

	where, args := renderWhere(mysqlPlaceholders, 0, buildConditions("alice", opts))

	assert.Equal(t, "tenant_key = ? AND username = ?", where)
	assert.Equal(t, []any{"alice", "admin"}, args)
}

func TestOrderByClause_Default(t *testing.T) {
	assert.Equal(t, "ORDER BY domain_name ASC", orderByClause(accountsDomain.NewListOptions()))
}

func TestOrderByClause_Descending(t *testing.T) {
	opts := accountsDomain.NewListOptions()
	opts.OrderBy = accountsDomain.SortByModifiedAt
	opts.Order = accountsDomain.OrderDescending

	assert.Equal(t, "ORDER BY modified_at DESC", orderByClause(opts))
}

func TestOrderByClause_UnknownFieldFallsBack(t *testing.T) {
	opts := accountsDomain.NewListOptions()
	opts.OrderBy = "password; DROP TABLE accounts"

	assert.Equal(t, "ORDER BY domain_name ASC", orderByClause(opts))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%\_sure\\`, escapeLike(`100%_sure\`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
