package mysql_test

import (
	"context"
	"regexp"
	"testing"

	"blogicum/internal/model"
	"blogicum/internal/repository/mysql"
	"blogicum/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestCategoryRepository_FindPublishedBySlug_SQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "title", "description", "slug", "is_published"}).
		AddRow(7, "Travel", "", "travel", true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `categories` WHERE slug = ? AND is_published = ?")).
		WithArgs("travel", true, 1).
		WillReturnRows(rows)

	repo := &mysql.CategoryRepository{DB: db}
	c, err := repo.FindPublishedBySlug(context.Background(), "travel")
	require.NoError(t, err)
	assert.EqualValues(t, 7, c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_UnpublishedSlugNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := &mysql.CategoryRepository{DB: db}
	testutil.MakeCategory(t, db, "hidden", false)

	_, err := repo.FindPublishedBySlug(context.Background(), "hidden")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCategoryRepository_DeleteNullsPostCategory(t *testing.T) {
	db := testutil.NewDB(t)
	repo := &mysql.CategoryRepository{DB: db}
	ctx := context.Background()

	author := testutil.MakeUser(t, db, "author")
	c := testutil.MakeCategory(t, db, "gone", true)
	p := testutil.MakePost(t, db, author, testutil.InCategory(c))

	require.NoError(t, repo.Delete(ctx, c.ID))

	var got model.Post
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Nil(t, got.CategoryID)
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), gorm.ErrRecordNotFound)
}

func TestLocationRepository_DeleteNullsPostLocation(t *testing.T) {
	db := testutil.NewDB(t)
	repo := &mysql.LocationRepository{DB: db}
	ctx := context.Background()

	author := testutil.MakeUser(t, db, "author")
	l := testutil.MakeLocation(t, db, "gone", true)
	p := testutil.MakePost(t, db, author, testutil.AtLocation(l))

	require.NoError(t, repo.Delete(ctx, l.ID))

	var got model.Post
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Nil(t, got.LocationID)
}
