package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"foodgram/internal/domain"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&tags).Error
	return tags, err
}

func (r *TagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	var tag domain.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("tag %d", id))
	}
	return &tag, nil
}

func (r *TagRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error) {
	var tags []domain.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}

// Create inserts a tag; a taken slug yields apperror.ErrDuplicate.
func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	return translate(r.db.WithContext(ctx).Create(tag).Error, "tag "+tag.Slug)
}
