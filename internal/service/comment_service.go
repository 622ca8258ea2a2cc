package service

import (
	"context"
	"strings"
	"time"

	"blogicum/internal/access"
	"blogicum/internal/model"
	"blogicum/internal/pkg"
	"blogicum/internal/repository/mysql"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CommentService struct {
	posts    *mysql.PostRepository
	comments *mysql.CommentRepository
	now      func() time.Time
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		posts:    &mysql.PostRepository{DB: db},
		comments: &mysql.CommentRepository{DB: db},
		now:      time.Now,
	}
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return pkg.NewValidation(map[string]string{"text": "this field is required"})
	}
	return nil
}

// Create 只能评论对自己可见的文章；新评论一律为已发布
func (s *CommentService) Create(ctx context.Context, v access.Viewer, postID uint64, text string) (*model.Comment, error) {
	if !access.CanCreate(v) {
		return nil, pkg.NewUnauthenticated()
	}
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, "post")
	}
	if !access.IsVisibleTo(v, access.StateOf(post), s.now().UTC()) {
		return nil, pkg.NewNotFound("post")
	}
	if err := validateText(text); err != nil {
		return nil, err
	}
	c := &model.Comment{
		Text:        text,
		PostID:      post.ID,
		AuthorID:    v.UserID,
		IsPublished: true,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, wrap(err)
	}
	pkg.Logger.WithFields(logrus.Fields{"comment_id": c.ID, "post_id": post.ID}).Info("comment created")
	return s.reload(ctx, c.ID)
}

// mutable 评论必须属于 URL 中的文章，否则 404
func (s *CommentService) mutable(ctx context.Context, v access.Viewer, postID, commentID uint64) (*model.Comment, error) {
	c, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, notFound(err, "comment")
	}
	if c.PostID != postID {
		return nil, pkg.NewNotFound("comment")
	}
	if err := deny(access.CommentDecision(v, c.AuthorID)); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) EditForm(ctx context.Context, v access.Viewer, postID, commentID uint64) (*model.Comment, error) {
	return s.mutable(ctx, v, postID, commentID)
}

func (s *CommentService) Update(ctx context.Context, v access.Viewer, postID, commentID uint64, text string) (*model.Comment, error) {
	c, err := s.mutable(ctx, v, postID, commentID)
	if err != nil {
		return nil, err
	}
	if err := validateText(text); err != nil {
		return nil, err
	}
	c.Text = text
	if err := s.comments.Update(ctx, c); err != nil {
		return nil, wrap(err)
	}
	return s.reload(ctx, c.ID)
}

func (s *CommentService) DeleteForm(ctx context.Context, v access.Viewer, postID, commentID uint64) (*model.Comment, error) {
	return s.mutable(ctx, v, postID, commentID)
}

func (s *CommentService) Delete(ctx context.Context, v access.Viewer, postID, commentID uint64) error {
	c, err := s.mutable(ctx, v, postID, commentID)
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, c); err != nil {
		return notFound(err, "comment")
	}
	return nil
}

func (s *CommentService) reload(ctx context.Context, id uint64) (*model.Comment, error) {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "comment")
	}
	return c, nil
}
