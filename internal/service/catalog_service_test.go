package service

import (
	"context"
	"testing"

	"blogicum/internal/model"
	"blogicum/internal/pkg"
	"blogicum/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Categories(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, CategoryInput{Title: "Travel", Slug: "travel"})
	require.NoError(t, err)
	assert.True(t, c.IsPublished)

	_, err = svc.CreateCategory(ctx, CategoryInput{Title: "Dup", Slug: "travel"})
	assert.True(t, pkg.IsCode(err, pkg.CodeValidation))

	off := false
	c, err = svc.UpdateCategory(ctx, c.ID, CategoryInput{Title: "Trips", Slug: "travel", IsPublished: &off})
	require.NoError(t, err)
	assert.False(t, c.IsPublished)

	a := testutil.MakeUser(t, db, "a")
	p := testutil.MakePost(t, db, a, testutil.InCategory(c))
	require.NoError(t, svc.DeleteCategory(ctx, c.ID))
	var got model.Post
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Nil(t, got.CategoryID)

	assert.True(t, pkg.IsCode(svc.DeleteCategory(ctx, c.ID), pkg.CodeNotFound))
	_, err = svc.UpdateCategory(ctx, c.ID, CategoryInput{Slug: "x"})
	assert.True(t, pkg.IsCode(err, pkg.CodeNotFound))
}

func TestCatalogService_Locations(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	l, err := svc.CreateLocation(ctx, LocationInput{Name: "Moscow"})
	require.NoError(t, err)
	off := false
	l, err = svc.UpdateLocation(ctx, l.ID, LocationInput{Name: "Moscow", IsPublished: &off})
	require.NoError(t, err)
	assert.False(t, l.IsPublished)

	list, err := svc.ListLocations(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteLocation(ctx, l.ID))
	list, err = svc.ListLocations(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
