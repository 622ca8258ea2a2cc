package listing

import (
	"testing"
	"time"

	"blogicum/internal/access"
	"blogicum/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw      string
		want     int
		notFound bool
	}{
		{"", 1, false},
		{"1", 1, false},
		{" 3 ", 3, false},
		{"last", LastPage, false},
		{"0", 0, true},
		{"-2", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePage(tt.raw)
			if tt.notFound {
				assert.True(t, pkg.IsCode(err, pkg.CodeNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaginate(t *testing.T) {
	p, err := Paginate(0, 1, PageSize)
	require.NoError(t, err)
	assert.Equal(t, Page{Number: 1, NumPages: 1, Count: 0}, p)

	p, err = Paginate(25, 2, PageSize)
	require.NoError(t, err)
	assert.Equal(t, 3, p.NumPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrevious)

	p, err = Paginate(25, LastPage, PageSize)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Number)
	assert.False(t, p.HasNext)

	_, err = Paginate(25, 4, PageSize)
	assert.True(t, pkg.IsCode(err, pkg.CodeNotFound))

	_, err = Paginate(0, 2, PageSize)
	assert.True(t, pkg.IsCode(err, pkg.CodeNotFound))
}

func TestQueryConstructors(t *testing.T) {
	now := time.Now()

	q := Index(access.Anonymous, now, 2)
	assert.Equal(t, ScopePublic, q.Scope)
	assert.Equal(t, 10, q.Offset())
	assert.Equal(t, 10, q.Limit())

	q = Index(access.Viewer{UserID: 4}, now, 1)
	assert.Equal(t, ScopePublicOrOwn, q.Scope)
	assert.Equal(t, uint64(4), q.ViewerID)

	q = Category(9, now, 1)
	require.NotNil(t, q.CategoryID)
	assert.Equal(t, uint64(9), *q.CategoryID)
	assert.Equal(t, ScopePublic, q.Scope)

	q = Profile(4, access.Viewer{UserID: 4}, now, 1)
	assert.Equal(t, ScopeAll, q.Scope)
	q = Profile(4, access.Viewer{UserID: 5}, now, 1)
	assert.Equal(t, ScopePublic, q.Scope)
	q = Profile(4, access.Anonymous, now, 1)
	assert.Equal(t, ScopePublic, q.Scope)
}
