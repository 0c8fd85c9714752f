package tag

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperror"
	"foodgram/internal/pkg/validator"
)

type Store interface {
	List(ctx context.Context) ([]domain.Tag, error)
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)
	Create(ctx context.Context, tag *domain.Tag) error
}

type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,hexcolor,max=7"`
	Slug  string `json:"slug" validate:"required,max=200"`
}

var slugPattern = regexp.MustCompile(`^[-a-z0-9_]+$`)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	return tags, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Tag, error) {
	return s.store.GetByID(ctx, id)
}

// Create adds a tag. Slugs are unique; a taken one is reported as a duplicate.
func (s *Service) Create(ctx context.Context, req CreateTagRequest) (*domain.Tag, error) {
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	req.Color = strings.ToUpper(strings.TrimSpace(req.Color))
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, apperror.Validation("slug", "only letters, digits, '-' and '_' are allowed")
	}

	t := &domain.Tag{Name: strings.TrimSpace(req.Name), Color: req.Color, Slug: req.Slug}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
