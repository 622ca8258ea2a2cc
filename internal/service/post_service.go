package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"blogicum/internal/access"
	"blogicum/internal/listing"
	"blogicum/internal/model"
	"blogicum/internal/pkg"
	"blogicum/internal/repository/mysql"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 表单中 pub_date 可接受的格式，无时区的按配置时区解释
var pubDateLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02 15:04"}

type PostService struct {
	posts      *mysql.PostRepository
	comments   *mysql.CommentRepository
	categories *mysql.CategoryRepository
	locations  *mysql.LocationRepository
	users      *mysql.UserRepository
	loc        *time.Location
	now        func() time.Time
}

// PostInput 创建/编辑文章的表单字段，作者不在其中
type PostInput struct {
	Title       string
	Text        string
	PubDate     string
	LocationID  *uint64
	CategoryID  *uint64
	Image       string
	IsPublished *bool
}

type PostPage struct {
	Posts []model.Post `json:"post_list"`
	Page  listing.Page `json:"page"`
}

type CategoryPage struct {
	Category *model.Category `json:"category"`
	PostPage
}

type ProfilePage struct {
	Profile *model.User `json:"profile"`
	PostPage
}

type PostDetail struct {
	Post     *model.Post     `json:"post"`
	Comments []model.Comment `json:"comments"`
}

func NewPostService(db *gorm.DB, loc *time.Location) *PostService {
	if loc == nil {
		loc = time.UTC
	}
	return &PostService{
		posts:      &mysql.PostRepository{DB: db},
		comments:   &mysql.CommentRepository{DB: db},
		categories: &mysql.CategoryRepository{DB: db},
		locations:  &mysql.LocationRepository{DB: db},
		users:      &mysql.UserRepository{DB: db},
		loc:        loc,
		now:        time.Now,
	}
}

func (s *PostService) clock() time.Time {
	return s.now().UTC()
}

// page 先计数再取页，"last" 与越界页在这里换算/拒绝
func (s *PostService) page(ctx context.Context, q listing.PostQuery) (PostPage, error) {
	total, err := s.posts.Count(ctx, q)
	if err != nil {
		return PostPage{}, wrap(err)
	}
	pg, err := listing.Paginate(total, q.Page, q.Limit())
	if err != nil {
		return PostPage{}, err
	}
	q.Page = pg.Number
	if total == 0 {
		return PostPage{Posts: []model.Post{}, Page: pg}, nil
	}
	list, err := s.posts.List(ctx, q)
	if err != nil {
		return PostPage{}, wrap(err)
	}
	return PostPage{Posts: list, Page: pg}, nil
}

// Index 首页
func (s *PostService) Index(ctx context.Context, v access.Viewer, page int) (*PostPage, error) {
	res, err := s.page(ctx, listing.Index(v, s.clock(), page))
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CategoryPosts 分类不存在或未发布都返回 404
func (s *PostService) CategoryPosts(ctx context.Context, slug string, page int) (*CategoryPage, error) {
	category, err := s.categories.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "category")
	}
	res, err := s.page(ctx, listing.Category(category.ID, s.clock(), page))
	if err != nil {
		return nil, err
	}
	return &CategoryPage{Category: category, PostPage: res}, nil
}

func (s *PostService) Profile(ctx context.Context, v access.Viewer, username string, page int) (*ProfilePage, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user")
	}
	res, err := s.page(ctx, listing.Profile(user.ID, v, s.clock(), page))
	if err != nil {
		return nil, err
	}
	return &ProfilePage{Profile: user, PostPage: res}, nil
}

// visiblePost 对当前访问者不可见时同样返回 404，不暴露文章是否存在
func (s *PostService) visiblePost(ctx context.Context, v access.Viewer, id uint64) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "post")
	}
	if !access.IsVisibleTo(v, access.StateOf(post), s.clock()) {
		return nil, pkg.NewNotFound("post")
	}
	return post, nil
}

// Detail 文章详情及已发布评论（按时间正序）
func (s *PostService) Detail(ctx context.Context, v access.Viewer, id uint64) (*PostDetail, error) {
	post, err := s.visiblePost(ctx, v, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListPublishedByPost(ctx, post.ID)
	if err != nil {
		return nil, wrap(err)
	}
	return &PostDetail{Post: post, Comments: comments}, nil
}

func (s *PostService) Create(ctx context.Context, v access.Viewer, in PostInput) (*model.Post, error) {
	if !access.CanCreate(v) {
		return nil, pkg.NewUnauthenticated()
	}
	post := &model.Post{AuthorID: v.UserID}
	if err := s.apply(ctx, post, in); err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, wrap(err)
	}
	pkg.Logger.WithFields(logrus.Fields{"post_id": post.ID, "author_id": v.UserID}).Info("post created")
	return s.reload(ctx, post.ID)
}

// mutable 取文章并做作者校验
func (s *PostService) mutable(ctx context.Context, v access.Viewer, id uint64) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "post")
	}
	if err := deny(access.PostDecision(v, post.AuthorID)); err != nil {
		return nil, err
	}
	return post, nil
}

// EditForm 编辑页的初始数据
func (s *PostService) EditForm(ctx context.Context, v access.Viewer, id uint64) (*model.Post, error) {
	return s.mutable(ctx, v, id)
}

func (s *PostService) Update(ctx context.Context, v access.Viewer, id uint64, in PostInput) (*model.Post, error) {
	post, err := s.mutable(ctx, v, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, post, in); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, notFound(err, "post")
	}
	return s.reload(ctx, post.ID)
}

// DeleteForm 删除确认页
func (s *PostService) DeleteForm(ctx context.Context, v access.Viewer, id uint64) (*model.Post, error) {
	return s.mutable(ctx, v, id)
}

// Delete 返回被删除的文章（含作者），供跳转到作者主页
func (s *PostService) Delete(ctx context.Context, v access.Viewer, id uint64) (*model.Post, error) {
	post, err := s.mutable(ctx, v, id)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Delete(ctx, post); err != nil {
		return nil, notFound(err, "post")
	}
	pkg.Logger.WithFields(logrus.Fields{"post_id": post.ID, "author_id": v.UserID}).Info("post deleted")
	return post, nil
}

func (s *PostService) reload(ctx context.Context, id uint64) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "post")
	}
	return post, nil
}

// apply 校验表单并写入 post，出错时不修改任何已存储的数据
func (s *PostService) apply(ctx context.Context, post *model.Post, in PostInput) error {
	fields := map[string]string{}
	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		fields["title"] = "this field is required"
	case utf8.RuneCountInString(title) > 256:
		fields["title"] = "ensure this value has at most 256 characters"
	}
	if strings.TrimSpace(in.Text) == "" {
		fields["text"] = "this field is required"
	}
	pubDate, err := s.parsePubDate(in.PubDate)
	if err != nil {
		fields["pub_date"] = "enter a valid date/time"
	}
	if in.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *in.CategoryID); err != nil {
			if e := notFound(err, "category"); !pkg.IsCode(e, pkg.CodeNotFound) {
				return e
			}
			fields["category_id"] = "select a valid choice"
		}
	}
	if in.LocationID != nil {
		if _, err := s.locations.FindByID(ctx, *in.LocationID); err != nil {
			if e := notFound(err, "location"); !pkg.IsCode(e, pkg.CodeNotFound) {
				return e
			}
			fields["location_id"] = "select a valid choice"
		}
	}
	if len(fields) > 0 {
		return pkg.NewValidation(fields)
	}

	post.Title = title
	post.Text = in.Text
	post.PubDate = pubDate
	post.CategoryID = in.CategoryID
	post.LocationID = in.LocationID
	post.Image = in.Image
	post.IsPublished = in.IsPublished == nil || *in.IsPublished
	return nil
}

// parsePubDate 空值取当前时间；结果统一为 UTC
func (s *PostService) parsePubDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.clock().Truncate(time.Second), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	var lastErr error
	for _, layout := range pubDateLayouts {
		t, err := time.ParseInLocation(layout, raw, s.loc)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
