// internal/service/mocks_test.go
package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- Mock PlanRepository ---

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	args := m.Called(ctx, plan)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockPlanRepository) GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Plan, error) {
	args := m.Called(ctx, id, userID)
	if plan, ok := args.Get(0).(*domain.Plan); ok {
		return plan, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanRepository) GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Plan, error) {
	args := m.Called(ctx, userID)
	if plan, ok := args.Get(0).(*domain.Plan); ok {
		return plan, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Plan, error) {
	args := m.Called(ctx, userID)
	if plans, ok := args.Get(0).([]domain.Plan); ok {
		return plans, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanRepository) Update(ctx context.Context, plan *domain.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

// --- Mock CycleRepository ---

type MockCycleRepository struct {
	mock.Mock
}

func (m *MockCycleRepository) Create(ctx context.Context, cycle *domain.Cycle) (primitive.ObjectID, error) {
	args := m.Called(ctx, cycle)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockCycleRepository) GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Cycle, error) {
	args := m.Called(ctx, id, userID)
	if cycle, ok := args.Get(0).(*domain.Cycle); ok {
		return cycle, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCycleRepository) GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Cycle, error) {
	args := m.Called(ctx, userID)
	if cycle, ok := args.Get(0).(*domain.Cycle); ok {
		return cycle, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCycleRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Cycle, error) {
	args := m.Called(ctx, userID)
	if cycles, ok := args.Get(0).([]domain.Cycle); ok {
		return cycles, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCycleRepository) Update(ctx context.Context, cycle *domain.Cycle) error {
	args := m.Called(ctx, cycle)
	return args.Error(0)
}

// --- Mock PlanTemplateRepository ---

type MockPlanTemplateRepository struct {
	mock.Mock
}

func (m *MockPlanTemplateRepository) Create(ctx context.Context, template *domain.PlanTemplate) (primitive.ObjectID, error) {
	args := m.Called(ctx, template)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockPlanTemplateRepository) GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.PlanTemplate, error) {
	args := m.Called(ctx, id, userID)
	if template, ok := args.Get(0).(*domain.PlanTemplate); ok {
		return template, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanTemplateRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.PlanTemplate, error) {
	args := m.Called(ctx, userID)
	if templates, ok := args.Get(0).([]domain.PlanTemplate); ok {
		return templates, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanTemplateRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockPlanTemplateRepository) Update(ctx context.Context, template *domain.PlanTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockPlanTemplateRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
