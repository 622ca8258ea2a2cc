package mysql

import (
	"context"

	"blogicum/internal/model"

	"gorm.io/gorm"
)

type LocationRepository struct {
	DB *gorm.DB
}

func (r *LocationRepository) Create(ctx context.Context, l *model.Location) error {
	return r.DB.WithContext(ctx).Create(l).Error
}

func (r *LocationRepository) FindByID(ctx context.Context, id uint64) (*model.Location, error) {
	var location model.Location
	err := r.DB.WithContext(ctx).First(&location, id).Error
	return &location, err
}

func (r *LocationRepository) List(ctx context.Context) ([]model.Location, error) {
	var list []model.Location
	err := r.DB.WithContext(ctx).Order("id").Find(&list).Error
	return list, err
}

func (r *LocationRepository) Update(ctx context.Context, l *model.Location) error {
	return r.DB.WithContext(ctx).Model(l).Select("name", "is_published").Updates(l).Error
}

// Delete 与分类相同：文章的 location_id 置空
func (r *LocationRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Post{}).Where("location_id = ?", id).
			Update("location_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Location{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
