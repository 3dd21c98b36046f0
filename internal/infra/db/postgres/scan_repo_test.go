package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

func TestWhereClause_NumbersPlaceholders(t *testing.T) {
	where, args := whereClause(domain.Filter{})
	assert.Empty(t, where)
	assert.Nil(t, args)

	where, args = whereClause(domain.Filter{Website: "example"})
	assert.Equal(t, " WHERE (website_url ILIKE $1 OR website_name ILIKE $1)", where)
	assert.Equal(t, []any{"%example%"}, args)

	where, args = whereClause(domain.Filter{Status: domain.StatusQueued, Website: "100%"})
	assert.Equal(t, " WHERE status = $1 AND (website_url ILIKE $2 OR website_name ILIKE $2)", where)
	assert.Equal(t, []any{"queued", `%100\%%`}, args)
}
