package mysql_test

import (
	"context"
	"testing"

	"blogicum/internal/model"
	"blogicum/internal/repository/mysql"
	"blogicum/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ListPublishedOldestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := &mysql.CommentRepository{DB: db}
	ctx := context.Background()

	author := testutil.MakeUser(t, db, "author")
	p := testutil.MakePost(t, db, author)
	first := testutil.MakeComment(t, db, p, author, true)
	testutil.MakeComment(t, db, p, author, false)
	second := testutil.MakeComment(t, db, p, author, true)

	list, err := repo.ListPublishedByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, "author", list[0].Author.Username)
}

func TestCommentRepository_UpdateOnlyText(t *testing.T) {
	db := testutil.NewDB(t)
	repo := &mysql.CommentRepository{DB: db}
	ctx := context.Background()

	author := testutil.MakeUser(t, db, "author")
	p := testutil.MakePost(t, db, author)
	c := testutil.MakeComment(t, db, p, author, true)

	c.Text = "changed"
	require.NoError(t, repo.Update(ctx, c))

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Text)
	assert.Equal(t, p.ID, got.PostID)

	var events []model.Outbox
	require.NoError(t, db.Where("event_type = ?", model.EventCommentUpdated).Find(&events).Error)
	assert.Len(t, events, 1)
}

func TestOutboxRepository_RetryThenFail(t *testing.T) {
	db := testutil.NewDB(t)
	outbox := &mysql.OutboxRepository{DB: db}
	comments := &mysql.CommentRepository{DB: db}
	ctx := context.Background()

	author := testutil.MakeUser(t, db, "author")
	p := testutil.MakePost(t, db, author)
	c := &model.Comment{Text: "hi", PostID: p.ID, AuthorID: author.ID, IsPublished: true}
	require.NoError(t, comments.Create(ctx, c))

	rows, err := outbox.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	for i := 0; i < mysql.MaxOutboxRetry; i++ {
		require.NoError(t, outbox.RetryUpdate(ctx, rows[0].ID))
	}
	var ob model.Outbox
	require.NoError(t, db.First(&ob, rows[0].ID).Error)
	assert.Equal(t, model.OutboxFailed, ob.Status)
	assert.Equal(t, mysql.MaxOutboxRetry, ob.Retry)

	rows, err = outbox.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
