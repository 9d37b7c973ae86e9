// internal/machine/service_gateway.go
package machine

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/service"
)

// serviceGateway adapts the service layer to the Gateway contract for one
// authenticated user. It exists so the machines can run in-process (tests,
// tooling) against the same validation path the HTTP handlers use.
type serviceGateway struct {
	userID    primitive.ObjectID
	plans     service.PlanService
	cycles    service.CycleService
	templates service.PlanTemplateService
}

// NewServiceGateway builds a Gateway bound to a single user.
func NewServiceGateway(userID primitive.ObjectID, plans service.PlanService, cycles service.CycleService, templates service.PlanTemplateService) Gateway {
	return &serviceGateway{
		userID:    userID,
		plans:     plans,
		cycles:    cycles,
		templates: templates,
	}
}

func (g *serviceGateway) GetPlan(ctx context.Context, planID primitive.ObjectID) (*domain.Plan, error) {
	return g.plans.GetPlan(ctx, g.userID, planID)
}

func (g *serviceGateway) UpdatePlanName(ctx context.Context, planID primitive.ObjectID, name string) (*domain.Plan, error) {
	return g.plans.UpdatePlanMetadata(ctx, g.userID, planID, &name, nil)
}

func (g *serviceGateway) UpdatePlanDescription(ctx context.Context, planID primitive.ObjectID, description string) (*domain.Plan, error) {
	return g.plans.UpdatePlanMetadata(ctx, g.userID, planID, nil, &description)
}

func (g *serviceGateway) UpdatePlanStartDate(ctx context.Context, planID primitive.ObjectID, startDate time.Time) (*domain.Plan, error) {
	return g.plans.UpdatePlanStartDate(ctx, g.userID, planID, startDate)
}

func (g *serviceGateway) UpdatePlanPeriods(ctx context.Context, planID primitive.ObjectID, periods []domain.PeriodConfig) (*domain.Plan, error) {
	return g.plans.UpdatePlanPeriods(ctx, g.userID, planID, periods)
}

func (g *serviceGateway) ListTemplates(ctx context.Context) ([]domain.PlanTemplate, error) {
	return g.templates.ListTemplates(ctx, g.userID)
}

func (g *serviceGateway) CreateTemplateFromPlan(ctx context.Context, planID primitive.ObjectID, name string) (*domain.PlanTemplate, error) {
	return g.templates.CreateFromPlan(ctx, g.userID, planID, name)
}

func (g *serviceGateway) GetActiveCycle(ctx context.Context) (*domain.Cycle, error) {
	return g.cycles.GetActiveCycle(ctx, g.userID)
}

func (g *serviceGateway) GetActivePlan(ctx context.Context) (*domain.Plan, error) {
	return g.plans.GetActivePlan(ctx, g.userID)
}
