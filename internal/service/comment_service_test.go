package service

import (
	"context"
	"testing"

	"blogicum/internal/access"
	"blogicum/internal/pkg"
	"blogicum/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateAlwaysPublished(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCommentService(db)
	ctx := context.Background()
	a := testutil.MakeUser(t, db, "a")
	b := testutil.MakeUser(t, db, "b")
	p := testutil.MakePost(t, db, a)

	c, err := svc.Create(ctx, viewer(b), p.ID, "nice post")
	require.NoError(t, err)
	assert.True(t, c.IsPublished)
	assert.Equal(t, b.ID, c.AuthorID)
	assert.Equal(t, "b", c.Author.Username)

	_, err = svc.Create(ctx, access.Anonymous, p.ID, "anon")
	assert.True(t, pkg.IsCode(err, pkg.CodeUnauthenticated))

	_, err = svc.Create(ctx, viewer(b), p.ID, "   ")
	assert.True(t, pkg.IsCode(err, pkg.CodeValidation))
}

func TestCommentService_CreateOnHiddenPost(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCommentService(db)
	ctx := context.Background()
	a := testutil.MakeUser(t, db, "a")
	b := testutil.MakeUser(t, db, "b")
	draft := testutil.MakePost(t, db, a, testutil.Unpublished())

	_, err := svc.Create(ctx, viewer(b), draft.ID, "hi")
	assert.True(t, pkg.IsCode(err, pkg.CodeNotFound))

	_, err = svc.Create(ctx, viewer(a), draft.ID, "note to self")
	assert.NoError(t, err)
}

func TestCommentService_NonAuthorCannotEdit(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCommentService(db)
	ctx := context.Background()
	a := testutil.MakeUser(t, db, "a")
	b := testutil.MakeUser(t, db, "b")
	p := testutil.MakePost(t, db, a)
	c, err := svc.Create(ctx, viewer(a), p.ID, "mine")
	require.NoError(t, err)

	_, err = svc.Update(ctx, viewer(b), p.ID, c.ID, "hijacked")
	assert.True(t, pkg.IsCode(err, pkg.CodeForbidden))
	_, err = svc.EditForm(ctx, access.Anonymous, p.ID, c.ID)
	assert.True(t, pkg.IsCode(err, pkg.CodeUnauthenticated))
	assert.True(t, pkg.IsCode(svc.Delete(ctx, viewer(b), p.ID, c.ID), pkg.CodeForbidden))

	got, err := svc.EditForm(ctx, viewer(a), p.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Text)
}

func TestCommentService_MustBelongToPost(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCommentService(db)
	ctx := context.Background()
	a := testutil.MakeUser(t, db, "a")
	p := testutil.MakePost(t, db, a)
	other := testutil.MakePost(t, db, a)
	c := testutil.MakeComment(t, db, p, a, true)

	_, err := svc.DeleteForm(ctx, viewer(a), other.ID, c.ID)
	assert.True(t, pkg.IsCode(err, pkg.CodeNotFound))
	_, err = svc.Update(ctx, viewer(a), p.ID, 777, "x")
	assert.True(t, pkg.IsCode(err, pkg.CodeNotFound))
}

func TestCommentService_UpdateAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCommentService(db)
	ctx := context.Background()
	a := testutil.MakeUser(t, db, "a")
	p := testutil.MakePost(t, db, a)
	c := testutil.MakeComment(t, db, p, a, true)

	got, err := svc.Update(ctx, viewer(a), p.ID, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)

	_, err = svc.Update(ctx, viewer(a), p.ID, c.ID, "")
	assert.True(t, pkg.IsCode(err, pkg.CodeValidation))

	require.NoError(t, svc.Delete(ctx, viewer(a), p.ID, c.ID))
	_, err = svc.EditForm(ctx, viewer(a), p.ID, c.ID)
	assert.True(t, pkg.IsCode(err, pkg.CodeNotFound))
}
