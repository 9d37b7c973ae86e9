// Package machine holds the client-side finite-state machines that sequence
// multi-step save operations against the API. Each machine is a plain
// event-driven FSM: a named state set, a sealed event union, and typed emits
// delivered through a listener interface. Machines run on one logical
// thread; a gateway call is made while the machine sits in its in-flight
// state, and only the events a state declares have any effect — everything
// else is a no-op.
package machine

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
)

// Gateway is the narrow contract the machines use to reach the API. It is
// already scoped to the authenticated user; implementations map transport
// DTOs to domain types and surface the domain error taxonomy unchanged.
type Gateway interface {
	GetPlan(ctx context.Context, planID primitive.ObjectID) (*domain.Plan, error)
	UpdatePlanName(ctx context.Context, planID primitive.ObjectID, name string) (*domain.Plan, error)
	UpdatePlanDescription(ctx context.Context, planID primitive.ObjectID, description string) (*domain.Plan, error)
	UpdatePlanStartDate(ctx context.Context, planID primitive.ObjectID, startDate time.Time) (*domain.Plan, error)
	UpdatePlanPeriods(ctx context.Context, planID primitive.ObjectID, periods []domain.PeriodConfig) (*domain.Plan, error)

	ListTemplates(ctx context.Context) ([]domain.PlanTemplate, error)
	CreateTemplateFromPlan(ctx context.Context, planID primitive.ObjectID, name string) (*domain.PlanTemplate, error)

	// GetActiveCycle and GetActivePlan return (nil, nil) when the user holds
	// no such resource.
	GetActiveCycle(ctx context.Context) (*domain.Cycle, error)
	GetActivePlan(ctx context.Context) (*domain.Plan, error)
}
