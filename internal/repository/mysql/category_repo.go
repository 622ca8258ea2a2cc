package mysql

import (
	"context"

	"blogicum/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint64) (*model.Category, error) {
	var category model.Category
	err := r.DB.WithContext(ctx).First(&category, id).Error
	return &category, err
}

// FindPublishedBySlug 未发布的分类即使 slug 正确也视为不存在
func (r *CategoryRepository) FindPublishedBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	err := r.DB.WithContext(ctx).Where("slug = ? AND is_published = ?", slug, true).First(&category).Error
	return &category, err
}

func (r *CategoryRepository) SlugTaken(ctx context.Context, slug string, exceptID uint64) (bool, error) {
	var count int64
	q := r.DB.WithContext(ctx).Model(&model.Category{}).Where("slug = ?", slug)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var list []model.Category
	err := r.DB.WithContext(ctx).Order("id").Find(&list).Error
	return list, err
}

func (r *CategoryRepository) Update(ctx context.Context, c *model.Category) error {
	return r.DB.WithContext(ctx).Model(c).Select("title", "description", "slug", "is_published").
		Updates(c).Error
}

// Delete 先把引用该分类的文章置空再删除分类，文章本身保留
func (r *CategoryRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Post{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
