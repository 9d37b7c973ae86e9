// internal/service/cycle_service.go
package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/decision"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/repository"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/schedule"
)

// --- Error Definitions ---
var (
	ErrCycleNotInProgress = errors.New("cycle is not in progress")
)

// --- Service Interface ---
type CycleService interface {
	StartCycle(ctx context.Context, userID primitive.ObjectID, startDate time.Time, notes string) (*domain.Cycle, error)
	UpdateCycle(ctx context.Context, userID, cycleID primitive.ObjectID, startDate *time.Time, notes *string) (*domain.Cycle, error)
	CompleteCycle(ctx context.Context, userID, cycleID primitive.ObjectID, endDate *time.Time) (*domain.Cycle, error)
	GetCycle(ctx context.Context, userID, cycleID primitive.ObjectID) (*domain.Cycle, error)
	// GetActiveCycle returns (nil, nil) when the user has no running cycle.
	GetActiveCycle(ctx context.Context, userID primitive.ObjectID) (*domain.Cycle, error)
	ListCycles(ctx context.Context, userID primitive.ObjectID) ([]domain.Cycle, error)
}

// --- Service Implementation ---

// cycleService implements the CycleService interface. The now func is the
// clock seam; tests freeze it.
type cycleService struct {
	cycleRepo repository.CycleRepository
	planRepo  repository.PlanRepository
	now       func() time.Time
}

// NewCycleService creates a new instance of cycleService.
func NewCycleService(cycleRepo repository.CycleRepository, planRepo repository.PlanRepository, now func() time.Time) CycleService {
	if now == nil {
		now = time.Now
	}
	return &cycleService{
		cycleRepo: cycleRepo,
		planRepo:  planRepo,
		now:       now,
	}
}

// activeResources looks up the user's InProgress cycle and plan ids for the
// creation decision. Absence is not an error here.
func activeResources(ctx context.Context, cycleRepo repository.CycleRepository, planRepo repository.PlanRepository, userID primitive.ObjectID) (decision.PlanCreationInput, error) {
	in := decision.PlanCreationInput{UserID: userID}

	cycle, err := cycleRepo.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return in, err
	}
	if cycle != nil {
		in.ActiveCycleID = &cycle.ID
	}

	plan, err := planRepo.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return in, err
	}
	if plan != nil {
		in.ActivePlanID = &plan.ID
	}
	return in, nil
}

// blockingResourceError turns the creation decision into the 409 errors the
// API returns, or nil when creation may proceed.
func blockingResourceError(in decision.PlanCreationInput) error {
	var err error
	decision.DecidePlanCreation(in).Match(
		func() {},
		func(_, cycleID primitive.ObjectID) {
			err = &domain.ActiveCycleExistsError{CycleID: cycleID}
		},
		func(_, planID primitive.ObjectID) {
			err = &domain.PlanAlreadyActiveError{PlanID: planID}
		},
	)
	return err
}

// StartCycle begins a new fast. The start must be strictly in the past, the
// user may hold no other active cycle or plan, and the new fast must not
// overlap a recorded one.
func (s *cycleService) StartCycle(ctx context.Context, userID primitive.ObjectID, startDate time.Time, notes string) (*domain.Cycle, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	now := s.now()

	// 1. Date rule: a fast starts in the past, never the future.
	if err := schedule.ValidateCycleStart(now, startDate); err != nil {
		return nil, err
	}

	// 2. Mutual exclusivity: no active cycle, no active plan (cycle first).
	in, err := activeResources(ctx, s.cycleRepo, s.planRepo, userID)
	if err != nil {
		return nil, err
	}
	if err := blockingResourceError(in); err != nil {
		return nil, err
	}

	// 3. The running range [startDate, now) must not overlap recorded fasts.
	existing, err := s.cycleRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, overlaps := schedule.FindOverlappingCycle(now, startDate, now, existing); overlaps {
		return nil, schedule.OverlappingCyclesError()
	}

	// 4. Persist.
	cycle := &domain.Cycle{
		UserID:    userID,
		Status:    domain.CycleInProgress,
		StartDate: startDate,
		Notes:     notes,
	}
	cycleID, err := s.cycleRepo.Create(ctx, cycle)
	if err != nil {
		return nil, err
	}
	cycle.ID = cycleID
	return cycle, nil
}

// UpdateCycle changes a running cycle's start date and/or notes.
func (s *cycleService) UpdateCycle(ctx context.Context, userID, cycleID primitive.ObjectID, startDate *time.Time, notes *string) (*domain.Cycle, error) {
	cycle, err := s.getOwned(ctx, userID, cycleID)
	if err != nil {
		return nil, err
	}

	if startDate != nil {
		// Only a running cycle may move its start.
		if !cycle.IsInProgress() {
			return nil, ErrCycleNotInProgress
		}
		now := s.now()
		if err := schedule.ValidateCycleStart(now, *startDate); err != nil {
			return nil, err
		}
		others, err := s.othersCycles(ctx, userID, cycleID)
		if err != nil {
			return nil, err
		}
		if _, overlaps := schedule.FindOverlappingCycle(now, *startDate, now, others); overlaps {
			return nil, schedule.OverlappingCyclesError()
		}
		cycle.StartDate = *startDate
	}
	if notes != nil {
		cycle.Notes = *notes
	}

	if err := s.cycleRepo.Update(ctx, cycle); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.CycleNotFoundError{CycleID: cycleID}
		}
		return nil, err
	}
	return cycle, nil
}

// CompleteCycle ends a running fast. A nil endDate means "now". The full
// cycle date rule set applies, plus the overlap rule against other records.
func (s *cycleService) CompleteCycle(ctx context.Context, userID, cycleID primitive.ObjectID, endDate *time.Time) (*domain.Cycle, error) {
	cycle, err := s.getOwned(ctx, userID, cycleID)
	if err != nil {
		return nil, err
	}
	if !cycle.IsInProgress() {
		return nil, ErrCycleNotInProgress
	}

	now := s.now()
	end := now
	if endDate != nil {
		end = *endDate
	}

	if err := schedule.ValidateCycleDates(now, cycle.StartDate, end); err != nil {
		return nil, err
	}

	others, err := s.othersCycles(ctx, userID, cycleID)
	if err != nil {
		return nil, err
	}
	if _, overlaps := schedule.FindOverlappingCycle(now, cycle.StartDate, end, others); overlaps {
		return nil, schedule.OverlappingCyclesError()
	}

	cycle.Status = domain.CycleCompleted
	cycle.EndDate = &end
	if err := s.cycleRepo.Update(ctx, cycle); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.CycleNotFoundError{CycleID: cycleID}
		}
		return nil, err
	}
	return cycle, nil
}

// GetCycle retrieves one cycle scoped to its owner.
func (s *cycleService) GetCycle(ctx context.Context, userID, cycleID primitive.ObjectID) (*domain.Cycle, error) {
	return s.getOwned(ctx, userID, cycleID)
}

// GetActiveCycle retrieves the user's running cycle, or nil when none.
func (s *cycleService) GetActiveCycle(ctx context.Context, userID primitive.ObjectID) (*domain.Cycle, error) {
	cycle, err := s.cycleRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cycle, nil
}

// ListCycles retrieves the user's cycle history.
func (s *cycleService) ListCycles(ctx context.Context, userID primitive.ObjectID) ([]domain.Cycle, error) {
	return s.cycleRepo.ListByUser(ctx, userID)
}

func (s *cycleService) getOwned(ctx context.Context, userID, cycleID primitive.ObjectID) (*domain.Cycle, error) {
	cycle, err := s.cycleRepo.GetByIDAndUser(ctx, cycleID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Cross-user access lands here too, on purpose.
			return nil, &domain.CycleNotFoundError{CycleID: cycleID}
		}
		return nil, err
	}
	return cycle, nil
}

// othersCycles lists the user's cycles minus the one being mutated.
func (s *cycleService) othersCycles(ctx context.Context, userID, exclude primitive.ObjectID) ([]domain.Cycle, error) {
	all, err := s.cycleRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	others := all[:0]
	for _, c := range all {
		if c.ID != exclude {
			others = append(others, c)
		}
	}
	return others, nil
}
