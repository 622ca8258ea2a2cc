// Package testutil 测试公用：内存 SQLite、miniredis 与数据构造
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"blogicum/internal/model"
	"blogicum/internal/repository/mysql"
	redisrepo "blogicum/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Uint64

// NewDB 每个测试独立的内存库，单连接保证同一个库
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, mysql.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewRedis 启动 miniredis 并替换全局客户端
func NewRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := redisrepo.Client
	redisrepo.Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = redisrepo.Client.Close()
		redisrepo.Client = prev
	})
	return mr
}

func next() uint64 { return seq.Add(1) }

func MakeUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	if username == "" {
		username = fmt.Sprintf("user%d", next())
	}
	u := &model.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func MakeCategory(t *testing.T, db *gorm.DB, slug string, published bool) *model.Category {
	t.Helper()
	c := &model.Category{Title: slug, Description: slug, Slug: slug, IsPublished: published}
	require.NoError(t, db.Create(c).Error)
	return c
}

func MakeLocation(t *testing.T, db *gorm.DB, name string, published bool) *model.Location {
	t.Helper()
	l := &model.Location{Name: name, IsPublished: published}
	require.NoError(t, db.Create(l).Error)
	return l
}

// PostOpt 调整 MakePost 的默认值（已发布、一小时前）
type PostOpt func(p *model.Post)

func WithPubDate(at time.Time) PostOpt {
	return func(p *model.Post) { p.PubDate = at.UTC() }
}

func Unpublished() PostOpt {
	return func(p *model.Post) { p.IsPublished = false }
}

func InCategory(c *model.Category) PostOpt {
	return func(p *model.Post) { p.CategoryID = &c.ID }
}

func AtLocation(l *model.Location) PostOpt {
	return func(p *model.Post) { p.LocationID = &l.ID }
}

func MakePost(t *testing.T, db *gorm.DB, author *model.User, opts ...PostOpt) *model.Post {
	t.Helper()
	p := &model.Post{
		Title:       fmt.Sprintf("post %d", next()),
		Text:        "text",
		PubDate:     time.Now().UTC().Add(-time.Hour),
		AuthorID:    author.ID,
		IsPublished: true,
	}
	for _, o := range opts {
		o(p)
	}
	require.NoError(t, db.Omit("Author", "Category", "Location").Create(p).Error)
	return p
}

func MakeComment(t *testing.T, db *gorm.DB, post *model.Post, author *model.User, published bool) *model.Comment {
	t.Helper()
	c := &model.Comment{Text: "comment", PostID: post.ID, AuthorID: author.ID, IsPublished: published}
	require.NoError(t, db.Omit("Author", "Post").Create(c).Error)
	return c
}
