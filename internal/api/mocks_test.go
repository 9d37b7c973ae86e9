// internal/api/mocks_test.go
package api

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
)

// --- Mock AuthService ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	args := m.Called(ctx, name, email, password)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	if user, ok := args.Get(1).(*domain.User); ok {
		return args.String(0), user, args.Error(2)
	}
	return args.String(0), nil, args.Error(2)
}

// --- Mock CycleService ---

type MockCycleService struct {
	mock.Mock
}

func (m *MockCycleService) StartCycle(ctx context.Context, userID primitive.ObjectID, startDate time.Time, notes string) (*domain.Cycle, error) {
	args := m.Called(ctx, userID, startDate, notes)
	if cycle, ok := args.Get(0).(*domain.Cycle); ok {
		return cycle, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCycleService) UpdateCycle(ctx context.Context, userID, cycleID primitive.ObjectID, startDate *time.Time, notes *string) (*domain.Cycle, error) {
	args := m.Called(ctx, userID, cycleID, startDate, notes)
	if cycle, ok := args.Get(0).(*domain.Cycle); ok {
		return cycle, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCycleService) CompleteCycle(ctx context.Context, userID, cycleID primitive.ObjectID, endDate *time.Time) (*domain.Cycle, error) {
	args := m.Called(ctx, userID, cycleID, endDate)
	if cycle, ok := args.Get(0).(*domain.Cycle); ok {
		return cycle, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCycleService) GetCycle(ctx context.Context, userID, cycleID primitive.ObjectID) (*domain.Cycle, error) {
	args := m.Called(ctx, userID, cycleID)
	if cycle, ok := args.Get(0).(*domain.Cycle); ok {
		return cycle, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCycleService) GetActiveCycle(ctx context.Context, userID primitive.ObjectID) (*domain.Cycle, error) {
	args := m.Called(ctx, userID)
	if cycle, ok := args.Get(0).(*domain.Cycle); ok {
		return cycle, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCycleService) ListCycles(ctx context.Context, userID primitive.ObjectID) ([]domain.Cycle, error) {
	args := m.Called(ctx, userID)
	if cycles, ok := args.Get(0).([]domain.Cycle); ok {
		return cycles, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- Mock PlanService ---

type MockPlanService struct {
	mock.Mock
}

func (m *MockPlanService) CreatePlan(ctx context.Context, userID primitive.ObjectID, name, description string, startDate time.Time, configs []domain.PeriodConfig) (*domain.Plan, error) {
	args := m.Called(ctx, userID, name, description, startDate, configs)
	if plan, ok := args.Get(0).(*domain.Plan); ok {
		return plan, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanService) GetPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Plan, error) {
	args := m.Called(ctx, userID, planID)
	if plan, ok := args.Get(0).(*domain.Plan); ok {
		return plan, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanService) GetPlanPeriod(ctx context.Context, userID, planID primitive.ObjectID, order int) (*domain.Period, error) {
	args := m.Called(ctx, userID, planID, order)
	if period, ok := args.Get(0).(*domain.Period); ok {
		return period, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanService) GetActivePlan(ctx context.Context, userID primitive.ObjectID) (*domain.Plan, error) {
	args := m.Called(ctx, userID)
	if plan, ok := args.Get(0).(*domain.Plan); ok {
		return plan, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanService) ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.Plan, error) {
	args := m.Called(ctx, userID)
	if plans, ok := args.Get(0).([]domain.Plan); ok {
		return plans, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanService) UpdatePlanMetadata(ctx context.Context, userID, planID primitive.ObjectID, name, description *string) (*domain.Plan, error) {
	args := m.Called(ctx, userID, planID, name, description)
	if plan, ok := args.Get(0).(*domain.Plan); ok {
		return plan, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanService) UpdatePlanStartDate(ctx context.Context, userID, planID primitive.ObjectID, startDate time.Time) (*domain.Plan, error) {
	args := m.Called(ctx, userID, planID, startDate)
	if plan, ok := args.Get(0).(*domain.Plan); ok {
		return plan, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanService) UpdatePlanPeriods(ctx context.Context, userID, planID primitive.ObjectID, configs []domain.PeriodConfig) (*domain.Plan, error) {
	args := m.Called(ctx, userID, planID, configs)
	if plan, ok := args.Get(0).(*domain.Plan); ok {
		return plan, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanService) CancelPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Plan, error) {
	args := m.Called(ctx, userID, planID)
	if plan, ok := args.Get(0).(*domain.Plan); ok {
		return plan, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanService) CompletePlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Plan, error) {
	args := m.Called(ctx, userID, planID)
	if plan, ok := args.Get(0).(*domain.Plan); ok {
		return plan, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- Mock PlanTemplateService ---

type MockPlanTemplateService struct {
	mock.Mock
}

func (m *MockPlanTemplateService) CreateFromPlan(ctx context.Context, userID, planID primitive.ObjectID, name string) (*domain.PlanTemplate, error) {
	args := m.Called(ctx, userID, planID, name)
	if template, ok := args.Get(0).(*domain.PlanTemplate); ok {
		return template, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanTemplateService) GetTemplate(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.PlanTemplate, error) {
	args := m.Called(ctx, userID, templateID)
	if template, ok := args.Get(0).(*domain.PlanTemplate); ok {
		return template, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanTemplateService) ListTemplates(ctx context.Context, userID primitive.ObjectID) ([]domain.PlanTemplate, error) {
	args := m.Called(ctx, userID)
	if templates, ok := args.Get(0).([]domain.PlanTemplate); ok {
		return templates, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanTemplateService) UpdateTemplateMetadata(ctx context.Context, userID, templateID primitive.ObjectID, name, description *string) (*domain.PlanTemplate, error) {
	args := m.Called(ctx, userID, templateID, name, description)
	if template, ok := args.Get(0).(*domain.PlanTemplate); ok {
		return template, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanTemplateService) DeleteTemplate(ctx context.Context, userID, templateID primitive.ObjectID) error {
	args := m.Called(ctx, userID, templateID)
	return args.Error(0)
}

func (m *MockPlanTemplateService) DuplicateTemplate(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.PlanTemplate, error) {
	args := m.Called(ctx, userID, templateID)
	if template, ok := args.Get(0).(*domain.PlanTemplate); ok {
		return template, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanTemplateService) ApplyTemplate(ctx context.Context, userID, templateID primitive.ObjectID, startDate time.Time) (*domain.Plan, error) {
	args := m.Called(ctx, userID, templateID, startDate)
	if plan, ok := args.Get(0).(*domain.Plan); ok {
		return plan, args.Error(1)
	}
	return nil, args.Error(1)
}
