package mysql

import (
	"context"

	"blogicum/internal/listing"
	"blogicum/internal/model"

	"gorm.io/gorm"
)

const commentCountColumn = "(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

// publicCond 对外可见：已发布、发布时间已到、分类为空或已发布
const publicCond = "posts.is_published = ? AND posts.pub_date <= ? AND (posts.category_id IS NULL OR categories.is_published = ?)"

type PostRepository struct {
	DB *gorm.DB
}

// PostEvent outbox 中文章事件的负载
type PostEvent struct {
	PostID     uint64  `json:"post_id"`
	AuthorID   uint64  `json:"author_id"`
	Title      string  `json:"title,omitempty"`
	CategoryID *uint64 `json:"category_id,omitempty"`
}

func (r *PostRepository) filtered(ctx context.Context, q listing.PostQuery) *gorm.DB {
	db := r.DB.WithContext(ctx).Model(&model.Post{}).
		Joins("LEFT JOIN categories ON categories.id = posts.category_id")
	if q.AuthorID != nil {
		db = db.Where("posts.author_id = ?", *q.AuthorID)
	}
	if q.CategoryID != nil {
		db = db.Where("posts.category_id = ?", *q.CategoryID)
	}
	switch q.Scope {
	case listing.ScopePublic:
		db = db.Where("("+publicCond+")", true, q.Now, true)
	case listing.ScopePublicOrOwn:
		db = db.Where("(("+publicCond+") OR posts.author_id = ?)", true, q.Now, true, q.ViewerID)
	}
	return db
}

// Count 满足过滤条件的文章总数，用于计算页码
func (r *PostRepository) Count(ctx context.Context, q listing.PostQuery) (int64, error) {
	var total int64
	err := r.filtered(ctx, q).Count(&total).Error
	return total, err
}

// List 一页文章：(pub_date DESC, id DESC)，附带评论数并预加载作者/分类/地点
func (r *PostRepository) List(ctx context.Context, q listing.PostQuery) ([]model.Post, error) {
	list := make([]model.Post, 0, q.Limit())
	err := r.filtered(ctx, q).
		Select("posts.*, " + commentCountColumn).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Order("posts.pub_date DESC").
		Order("posts.id DESC").
		Offset(q.Offset()).
		Limit(q.Limit()).
		Find(&list).Error
	return list, err
}

// FindByID 详情页，可见性由 service 判断
func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).
		Select("posts.*, "+commentCountColumn).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Where("posts.id = ?", id).
		First(&post).Error
	return &post, err
}

// Create 只写外键，关联对象不级联写入
func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Category", "Location").Create(post).Error; err != nil {
			return err
		}
		return writeOutbox(tx, model.EventPostCreated, post.ID, post.AuthorID, PostEvent{
			PostID: post.ID, AuthorID: post.AuthorID, Title: post.Title, CategoryID: post.CategoryID,
		})
	})
}

// Update 作者与创建时间不可修改
func (r *PostRepository) Update(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Post{}).Where("id = ?", post.ID).Updates(map[string]any{
			"title":        post.Title,
			"text":         post.Text,
			"pub_date":     post.PubDate,
			"location_id":  post.LocationID,
			"category_id":  post.CategoryID,
			"image":        post.Image,
			"is_published": post.IsPublished,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&model.Post{}).Where("id = ?", post.ID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return writeOutbox(tx, model.EventPostUpdated, post.ID, post.AuthorID, PostEvent{
			PostID: post.ID, AuthorID: post.AuthorID, Title: post.Title, CategoryID: post.CategoryID,
		})
	})
}

// Delete 先删评论再删文章
func (r *PostRepository) Delete(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Post{}, post.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return writeOutbox(tx, model.EventPostDeleted, post.ID, post.AuthorID, PostEvent{
			PostID: post.ID, AuthorID: post.AuthorID,
		})
	})
}
