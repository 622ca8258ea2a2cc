package service

import (
	"context"
	"strings"

	"blogicum/internal/model"
	"blogicum/internal/pkg"
	"blogicum/internal/repository/mysql"

	"gorm.io/gorm"
)

// CatalogService 后台维护分类与地点
type CatalogService struct {
	categories *mysql.CategoryRepository
	locations  *mysql.LocationRepository
}

type CategoryInput struct {
	Title       string
	Description string
	Slug        string
	IsPublished *bool
}

type LocationInput struct {
	Name        string
	IsPublished *bool
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{
		categories: &mysql.CategoryRepository{DB: db},
		locations:  &mysql.LocationRepository{DB: db},
	}
}

func published(p *bool) bool {
	return p == nil || *p
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	list, err := s.categories.List(ctx)
	return list, wrap(err)
}

func (s *CatalogService) applyCategory(ctx context.Context, c *model.Category, in CategoryInput) error {
	in.Slug = strings.TrimSpace(in.Slug)
	taken, err := s.categories.SlugTaken(ctx, in.Slug, c.ID)
	if err != nil {
		return wrap(err)
	}
	if taken {
		return pkg.NewValidation(map[string]string{"slug": "category with this slug already exists"})
	}
	c.Title = strings.TrimSpace(in.Title)
	c.Description = in.Description
	c.Slug = in.Slug
	c.IsPublished = published(in.IsPublished)
	return nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	c := &model.Category{}
	if err := s.applyCategory(ctx, c, in); err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, wrap(err)
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint64, in CategoryInput) (*model.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	if err := s.applyCategory(ctx, c, in); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, wrap(err)
	}
	return c, nil
}

// DeleteCategory 文章保留，分类置空
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint64) error {
	return notFound(s.categories.Delete(ctx, id), "category")
}

func (s *CatalogService) ListLocations(ctx context.Context) ([]model.Location, error) {
	list, err := s.locations.List(ctx)
	return list, wrap(err)
}

func (s *CatalogService) CreateLocation(ctx context.Context, in LocationInput) (*model.Location, error) {
	l := &model.Location{Name: strings.TrimSpace(in.Name), IsPublished: published(in.IsPublished)}
	if err := s.locations.Create(ctx, l); err != nil {
		return nil, wrap(err)
	}
	return l, nil
}

func (s *CatalogService) UpdateLocation(ctx context.Context, id uint64, in LocationInput) (*model.Location, error) {
	l, err := s.locations.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "location")
	}
	l.Name = strings.TrimSpace(in.Name)
	l.IsPublished = published(in.IsPublished)
	if err := s.locations.Update(ctx, l); err != nil {
		return nil, wrap(err)
	}
	return l, nil
}

func (s *CatalogService) DeleteLocation(ctx context.Context, id uint64) error {
	return notFound(s.locations.Delete(ctx, id), "location")
}
