// internal/service/plan_service.go
package service

import (
	"context"
	"errors"
	"sort"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/repository"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/schedule"
)

// --- Error Definitions ---
var (
	ErrInvalidPlanName        = errors.New("plan name must be between 1 and 100 characters")
	ErrInvalidPlanDescription = errors.New("plan description must be at most 500 characters")
)

// --- Service Interface ---
type PlanService interface {
	CreatePlan(ctx context.Context, userID primitive.ObjectID, name, description string, startDate time.Time, configs []domain.PeriodConfig) (*domain.Plan, error)
	GetPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Plan, error)
	GetPlanPeriod(ctx context.Context, userID, planID primitive.ObjectID, order int) (*domain.Period, error)
	// GetActivePlan returns (nil, nil) when the user has no InProgress plan.
	GetActivePlan(ctx context.Context, userID primitive.ObjectID) (*domain.Plan, error)
	ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.Plan, error)
	UpdatePlanMetadata(ctx context.Context, userID, planID primitive.ObjectID, name, description *string) (*domain.Plan, error)
	UpdatePlanStartDate(ctx context.Context, userID, planID primitive.ObjectID, startDate time.Time) (*domain.Plan, error)
	UpdatePlanPeriods(ctx context.Context, userID, planID primitive.ObjectID, configs []domain.PeriodConfig) (*domain.Plan, error)
	CancelPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Plan, error)
	CompletePlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Plan, error)
}

// --- Service Implementation ---

// planService implements the PlanService interface. Every mutating method
// re-validates against the persisted state: client-side decisions are a UX
// aid, never the gate.
type planService struct {
	planRepo  repository.PlanRepository
	cycleRepo repository.CycleRepository
	now       func() time.Time
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository, cycleRepo repository.CycleRepository, now func() time.Time) PlanService {
	if now == nil {
		now = time.Now
	}
	return &planService{
		planRepo:  planRepo,
		cycleRepo: cycleRepo,
		now:       now,
	}
}

// Name and description bounds count characters, not bytes.
func validatePlanName(name string) error {
	if n := utf8.RuneCountInString(name); n < domain.MinPlanNameLen || n > domain.MaxPlanNameLen {
		return ErrInvalidPlanName
	}
	return nil
}

func validatePlanDescription(description string) error {
	if utf8.RuneCountInString(description) > domain.MaxPlanDescriptionLen {
		return ErrInvalidPlanDescription
	}
	return nil
}

// assertPlanIsInProgress is the precondition for every plan mutation.
func assertPlanIsInProgress(plan *domain.Plan) error {
	if !plan.IsInProgress() {
		return &domain.PlanInvalidStateError{Current: plan.Status, Expected: domain.PlanInProgress}
	}
	return nil
}

// validateConfigs checks count bounds and each duration pair.
func validateConfigs(configs []domain.PeriodConfig) error {
	if err := schedule.ValidatePeriodCount(len(configs)); err != nil {
		return err
	}
	for _, cfg := range configs {
		if err := schedule.ValidateDurations(cfg); err != nil {
			return err
		}
	}
	return nil
}

// checkCycleOverlap rejects a computed period layout that intersects any of
// the user's recorded cycles.
func (s *planService) checkCycleOverlap(ctx context.Context, userID primitive.ObjectID, periods []domain.Period) error {
	if len(periods) == 0 {
		return nil
	}
	cycles, err := s.cycleRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	start := periods[0].StartDate
	end := periods[len(periods)-1].EndDate
	if cycle, overlaps := schedule.FindOverlappingCycle(s.now(), start, end, cycles); overlaps {
		return &domain.PeriodOverlapWithCycleError{CycleID: cycle.ID}
	}
	return nil
}

// CreatePlan creates a new InProgress plan.
func (s *planService) CreatePlan(ctx context.Context, userID primitive.ObjectID, name, description string, startDate time.Time, configs []domain.PeriodConfig) (*domain.Plan, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}

	// 1. Input bounds.
	if err := validatePlanName(name); err != nil {
		return nil, err
	}
	if err := validatePlanDescription(description); err != nil {
		return nil, err
	}
	if err := validateConfigs(configs); err != nil {
		return nil, err
	}

	// 2. The plan starts in the past, like a cycle does.
	if err := schedule.ValidateCycleStart(s.now(), startDate); err != nil {
		return nil, err
	}

	// 3. Mutual exclusivity, cycle block first.
	in, err := activeResources(ctx, s.cycleRepo, s.planRepo, userID)
	if err != nil {
		return nil, err
	}
	if err := blockingResourceError(in); err != nil {
		return nil, err
	}

	// 4. Lay out the periods and check them against recorded cycles.
	periods := schedule.CalculatePeriodDates(startDate, configs)
	if err := s.checkCycleOverlap(ctx, userID, periods); err != nil {
		return nil, err
	}

	// 5. Persist.
	plan := &domain.Plan{
		UserID:      userID,
		Name:        name,
		Description: description,
		Status:      domain.PlanInProgress,
		StartDate:   startDate,
		Periods:     periods,
	}
	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID
	return plan, nil
}

// GetPlan retrieves one plan scoped to its owner.
func (s *planService) GetPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Plan, error) {
	return s.getOwned(ctx, userID, planID)
}

// GetPlanPeriod retrieves a single period of a plan by its order.
func (s *planService) GetPlanPeriod(ctx context.Context, userID, planID primitive.ObjectID, order int) (*domain.Period, error) {
	plan, err := s.getOwned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	for i := range plan.Periods {
		if plan.Periods[i].Order == order {
			return &plan.Periods[i], nil
		}
	}
	return nil, &domain.PeriodNotFoundError{Order: order}
}

// GetActivePlan retrieves the user's InProgress plan, or nil when none.
func (s *planService) GetActivePlan(ctx context.Context, userID primitive.ObjectID) (*domain.Plan, error) {
	plan, err := s.planRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return plan, nil
}

// ListPlans retrieves the user's plan history.
func (s *planService) ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.Plan, error) {
	return s.planRepo.ListByUser(ctx, userID)
}

// UpdatePlanMetadata changes the name and/or description of an InProgress
// plan.
func (s *planService) UpdatePlanMetadata(ctx context.Context, userID, planID primitive.ObjectID, name, description *string) (*domain.Plan, error) {
	plan, err := s.getOwned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if err := assertPlanIsInProgress(plan); err != nil {
		return nil, err
	}

	if name != nil {
		if err := validatePlanName(*name); err != nil {
			return nil, err
		}
		plan.Name = *name
	}
	if description != nil {
		if err := validatePlanDescription(*description); err != nil {
			return nil, err
		}
		plan.Description = *description
	}

	if err := s.update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdatePlanStartDate moves an InProgress plan and recomputes every period
// from the new start. Old dates are discarded; durations survive.
func (s *planService) UpdatePlanStartDate(ctx context.Context, userID, planID primitive.ObjectID, startDate time.Time) (*domain.Plan, error) {
	plan, err := s.getOwned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if err := assertPlanIsInProgress(plan); err != nil {
		return nil, err
	}
	if err := schedule.ValidateCycleStart(s.now(), startDate); err != nil {
		return nil, err
	}

	periods := schedule.RecalculatePeriodDates(startDate, plan.Periods)
	if err := s.checkCycleOverlap(ctx, userID, periods); err != nil {
		return nil, err
	}

	plan.StartDate = startDate
	plan.Periods = periods
	if err := s.update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdatePlanPeriods replaces an InProgress plan's period durations. The
// payload must cover exactly the plan's existing periods, addressed by
// order; dates are always recomputed server-side from the plan's start date.
func (s *planService) UpdatePlanPeriods(ctx context.Context, userID, planID primitive.ObjectID, configs []domain.PeriodConfig) (*domain.Plan, error) {
	plan, err := s.getOwned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if err := assertPlanIsInProgress(plan); err != nil {
		return nil, err
	}

	if len(configs) != len(plan.Periods) {
		return nil, &domain.PeriodsMismatchError{Expected: len(plan.Periods), Actual: len(configs)}
	}
	seen := make(map[int]bool, len(configs))
	for _, cfg := range configs {
		// Each order must address exactly one existing period; a duplicate
		// would leave another period unaddressed.
		if cfg.Order < 1 || cfg.Order > len(plan.Periods) || seen[cfg.Order] {
			return nil, &domain.PeriodNotInPlanError{Order: cfg.Order}
		}
		seen[cfg.Order] = true
	}
	if err := validateConfigs(configs); err != nil {
		return nil, err
	}

	ordered := make([]domain.PeriodConfig, len(configs))
	copy(ordered, configs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	periods := schedule.CalculatePeriodDates(plan.StartDate, ordered)
	if err := s.checkCycleOverlap(ctx, userID, periods); err != nil {
		return nil, err
	}

	plan.Periods = periods
	if err := s.update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// CancelPlan moves an InProgress plan to its terminal Cancelled state.
func (s *planService) CancelPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Plan, error) {
	plan, err := s.getOwned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if err := assertPlanIsInProgress(plan); err != nil {
		return nil, err
	}

	plan.Status = domain.PlanCancelled
	if err := s.update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// CompletePlan moves an InProgress plan to Completed once every period has
// finished.
func (s *planService) CompletePlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Plan, error) {
	plan, err := s.getOwned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if err := assertPlanIsInProgress(plan); err != nil {
		return nil, err
	}

	now := s.now()
	remaining := 0
	for _, p := range plan.Periods {
		if p.EndDate.After(now) {
			remaining++
		}
	}
	if remaining > 0 {
		return nil, &domain.PeriodsNotCompletedError{Remaining: remaining}
	}

	plan.Status = domain.PlanCompleted
	if err := s.update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) getOwned(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Plan, error) {
	plan, err := s.planRepo.GetByIDAndUser(ctx, planID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Cross-user access lands here too, on purpose.
			return nil, &domain.PlanNotFoundError{PlanID: planID}
		}
		return nil, err
	}
	return plan, nil
}

func (s *planService) update(ctx context.Context, plan *domain.Plan) error {
	if err := s.planRepo.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.PlanNotFoundError{PlanID: plan.ID}
		}
		return err
	}
	return nil
}
