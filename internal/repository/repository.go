package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// PlanRepository defines the interface for interacting with plan data.
// Every read is scoped to a userId so a foreign id behaves exactly like a
// missing one.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Plan, error)
	// GetActiveByUser returns the user's single InProgress plan, or
	// ErrNotFound when there is none.
	GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Plan, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Plan, error)
	Update(ctx context.Context, plan *domain.Plan) error
}

// CycleRepository defines the interface for interacting with cycle data.
type CycleRepository interface {
	Create(ctx context.Context, cycle *domain.Cycle) (primitive.ObjectID, error)
	GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Cycle, error)
	GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Cycle, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Cycle, error)
	Update(ctx context.Context, cycle *domain.Cycle) error
}

// PlanTemplateRepository defines the interface for interacting with plan
// template data.
type PlanTemplateRepository interface {
	Create(ctx context.Context, template *domain.PlanTemplate) (primitive.ObjectID, error)
	GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.PlanTemplate, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.PlanTemplate, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int, error)
	Update(ctx context.Context, template *domain.PlanTemplate) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}
