package user

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
	ListFollowedBy(ctx context.Context, userID int64, limit, offset int) ([]domain.User, int64, error)
}

type LinkStore interface {
	Link(ctx context.Context, kind repository.LinkKind, subjectID, targetID int64, extra int) (int64, error)
	Unlink(ctx context.Context, kind repository.LinkKind, subjectID, targetID int64) error
	LinkedTargets(ctx context.Context, kind repository.LinkKind, subjectID int64, targetIDs []int64) (map[int64]bool, error)
}

type RecipeLister interface {
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error)
}
