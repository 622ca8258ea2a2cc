package mysql

import (
	"context"

	"blogicum/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

type CommentEvent struct {
	CommentID uint64 `json:"comment_id"`
	PostID    uint64 `json:"post_id"`
	AuthorID  uint64 `json:"author_id"`
}

// ListPublishedByPost 文章下已发布的评论，按创建时间正序
func (r *CommentRepository) ListPublishedByPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	list := make([]model.Comment, 0)
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Where("post_id = ? AND is_published = ?", postID, true).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var c model.Comment
	err := r.DB.WithContext(ctx).Preload("Author").First(&c, id).Error
	return &c, err
}

func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Post").Create(c).Error; err != nil {
			return err
		}
		return writeOutbox(tx, model.EventCommentCreated, c.ID, c.AuthorID, CommentEvent{
			CommentID: c.ID, PostID: c.PostID, AuthorID: c.AuthorID,
		})
	})
}

// Update 只允许修改正文
func (r *CommentRepository) Update(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Comment{}).Where("id = ?", c.ID).
			Update("text", c.Text).Error; err != nil {
			return err
		}
		return writeOutbox(tx, model.EventCommentUpdated, c.ID, c.AuthorID, CommentEvent{
			CommentID: c.ID, PostID: c.PostID, AuthorID: c.AuthorID,
		})
	})
}

func (r *CommentRepository) Delete(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Comment{}, c.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return writeOutbox(tx, model.EventCommentDeleted, c.ID, c.AuthorID, CommentEvent{
			CommentID: c.ID, PostID: c.PostID, AuthorID: c.AuthorID,
		})
	})
}
