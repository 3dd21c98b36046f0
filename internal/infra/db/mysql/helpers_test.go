package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

func TestEscapeLikePattern(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLikePattern(`50%_off\`))
	assert.Equal(t, "example.com", escapeLikePattern("example.com"))
}

func TestWhereClause(t *testing.T) {
	where, args := whereClause(domain.Filter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = whereClause(domain.Filter{Status: domain.StatusCompleted})
	assert.Equal(t, " WHERE status = ?", where)
	assert.Equal(t, []any{"completed"}, args)

	where, args = whereClause(domain.Filter{Status: domain.StatusFailed, Website: " shop_1 "})
	assert.Contains(t, where, "status = ? AND (website_url LIKE ?")
	assert.Equal(t, []any{"failed", `%shop\_1%`, `%shop\_1%`}, args)
}
