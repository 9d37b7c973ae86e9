// internal/service/plan_service_test.go
package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/repository"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/schedule"
)

func newPlanServiceForTest(t *testing.T) (PlanService, *MockPlanRepository, *MockCycleRepository) {
	t.Helper()
	planRepo := new(MockPlanRepository)
	cycleRepo := new(MockCycleRepository)
	svc := NewPlanService(planRepo, cycleRepo, frozenClock())
	return svc, planRepo, cycleRepo
}

func sixteenEight(n int) []domain.PeriodConfig {
	configs := make([]domain.PeriodConfig, n)
	for i := range configs {
		configs[i] = domain.PeriodConfig{Order: i + 1, FastingDuration: 16, EatingWindow: 8}
	}
	return configs
}

// inProgressPlan builds a plan whose periods are laid out from start.
func inProgressPlan(userID primitive.ObjectID, start time.Time, n int) *domain.Plan {
	return &domain.Plan{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Name:      "16:8 routine",
		Status:    domain.PlanInProgress,
		StartDate: start,
		Periods:   schedule.CalculatePeriodDates(start, sixteenEight(n)),
	}
}

func TestCreatePlan_Success(t *testing.T) {
	svc, planRepo, cycleRepo := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	newID := primitive.NewObjectID()
	start := testNow.Add(-time.Hour)

	expectNoActiveResources(cycleRepo, planRepo, userID)
	cycleRepo.On("ListByUser", mock.Anything, userID).Return([]domain.Cycle{}, nil)
	planRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Plan")).Return(newID, nil)

	plan, err := svc.CreatePlan(context.Background(), userID, "16:8 routine", "three days", start, sixteenEight(3))

	require.NoError(t, err)
	assert.Equal(t, newID, plan.ID)
	assert.Equal(t, domain.PlanInProgress, plan.Status)
	require.Len(t, plan.Periods, 3)
	assert.True(t, schedule.ValidatePeriodContiguity(plan.Periods))
	assert.True(t, plan.Periods[0].StartDate.Equal(start))
}

func TestCreatePlan_NameBounds(t *testing.T) {
	svc, planRepo, _ := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	start := testNow.Add(-time.Hour)

	_, err := svc.CreatePlan(context.Background(), userID, "", "", start, sixteenEight(1))
	assert.ErrorIs(t, err, ErrInvalidPlanName)

	long := make([]byte, domain.MaxPlanNameLen+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.CreatePlan(context.Background(), userID, string(long), "", start, sixteenEight(1))
	assert.ErrorIs(t, err, ErrInvalidPlanName)

	planRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePlan_NameBoundsCountCharacters(t *testing.T) {
	svc, planRepo, cycleRepo := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	start := testNow.Add(-time.Hour)

	// 100 CJK characters is 300 bytes but still within the name bound.
	name := strings.Repeat("断", domain.MaxPlanNameLen)

	expectNoActiveResources(cycleRepo, planRepo, userID)
	cycleRepo.On("ListByUser", mock.Anything, userID).Return([]domain.Cycle{}, nil)
	planRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Plan")).Return(primitive.NewObjectID(), nil)

	plan, err := svc.CreatePlan(context.Background(), userID, name, "", start, sixteenEight(1))

	require.NoError(t, err)
	assert.Equal(t, name, plan.Name)

	_, err = svc.CreatePlan(context.Background(), userID, name+"食", "", start, sixteenEight(1))
	assert.ErrorIs(t, err, ErrInvalidPlanName)
}

func TestCreatePlan_PeriodCountBounds(t *testing.T) {
	svc, _, _ := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	start := testNow.Add(-time.Hour)

	_, err := svc.CreatePlan(context.Background(), userID, "empty", "", start, nil)
	var countErr *domain.InvalidPeriodCountError
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, 0, countErr.Count)

	_, err = svc.CreatePlan(context.Background(), userID, "too many", "", start, sixteenEight(domain.MaxPeriods+1))
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, domain.MaxPeriods+1, countErr.Count)
}

func TestCreatePlan_StartInFuture(t *testing.T) {
	svc, _, _ := newPlanServiceForTest(t)

	_, err := svc.CreatePlan(context.Background(), primitive.NewObjectID(), "future", "", testNow.Add(time.Minute), sixteenEight(1))

	var valErr *domain.CycleValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "start-in-future", valErr.Code)
}

func TestCreatePlan_BlockedByActiveCycle(t *testing.T) {
	svc, planRepo, cycleRepo := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	active := &domain.Cycle{ID: primitive.NewObjectID(), UserID: userID, Status: domain.CycleInProgress}

	cycleRepo.On("GetActiveByUser", mock.Anything, userID).Return(active, nil)
	planRepo.On("GetActiveByUser", mock.Anything, userID).Return(nil, repository.ErrNotFound)

	_, err := svc.CreatePlan(context.Background(), userID, "blocked", "", testNow.Add(-time.Hour), sixteenEight(1))

	var conflict *domain.ActiveCycleExistsError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, active.ID, conflict.CycleID)
}

func TestCreatePlan_SecondActivePlanRejected(t *testing.T) {
	svc, planRepo, cycleRepo := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	active := inProgressPlan(userID, testNow.Add(-48*time.Hour), 2)

	cycleRepo.On("GetActiveByUser", mock.Anything, userID).Return(nil, repository.ErrNotFound)
	planRepo.On("GetActiveByUser", mock.Anything, userID).Return(active, nil)

	_, err := svc.CreatePlan(context.Background(), userID, "second", "", testNow.Add(-time.Hour), sixteenEight(1))

	var conflict *domain.PlanAlreadyActiveError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, active.ID, conflict.PlanID)
	planRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePlan_OverlapsRecordedCycle(t *testing.T) {
	svc, planRepo, cycleRepo := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	start := testNow.Add(-2 * time.Hour)
	recordedEnd := testNow.Add(-time.Hour)
	recorded := domain.Cycle{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Status:    domain.CycleCompleted,
		StartDate: testNow.Add(-6 * time.Hour),
		EndDate:   &recordedEnd,
	}

	expectNoActiveResources(cycleRepo, planRepo, userID)
	cycleRepo.On("ListByUser", mock.Anything, userID).Return([]domain.Cycle{recorded}, nil)

	_, err := svc.CreatePlan(context.Background(), userID, "overlapping", "", start, sixteenEight(1))

	var overlap *domain.PeriodOverlapWithCycleError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, recorded.ID, overlap.CycleID)
	planRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdatePlanMetadata_OnCompletedPlan(t *testing.T) {
	svc, planRepo, _ := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	plan := inProgressPlan(userID, testNow.Add(-72*time.Hour), 2)
	plan.Status = domain.PlanCompleted
	name := "renamed"

	planRepo.On("GetByIDAndUser", mock.Anything, plan.ID, userID).Return(plan, nil)

	_, err := svc.UpdatePlanMetadata(context.Background(), userID, plan.ID, &name, nil)

	var stateErr *domain.PlanInvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, domain.PlanCompleted, stateErr.Current)
	assert.Equal(t, domain.PlanInProgress, stateErr.Expected)
	planRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdatePlanStartDate_Recalculates(t *testing.T) {
	svc, planRepo, cycleRepo := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	plan := inProgressPlan(userID, testNow.Add(-48*time.Hour), 2)
	newStart := testNow.Add(-24 * time.Hour)

	planRepo.On("GetByIDAndUser", mock.Anything, plan.ID, userID).Return(plan, nil)
	cycleRepo.On("ListByUser", mock.Anything, userID).Return([]domain.Cycle{}, nil)
	planRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Plan")).Return(nil)

	updated, err := svc.UpdatePlanStartDate(context.Background(), userID, plan.ID, newStart)

	require.NoError(t, err)
	assert.True(t, updated.StartDate.Equal(newStart))
	require.Len(t, updated.Periods, 2)
	assert.True(t, updated.Periods[0].StartDate.Equal(newStart))
	assert.True(t, schedule.ValidatePeriodContiguity(updated.Periods))
	// Durations survive the move.
	assert.Equal(t, 16.0, updated.Periods[0].FastingDuration)
	assert.Equal(t, 8.0, updated.Periods[1].EatingWindow)
}

func TestUpdatePlanPeriods_CountMismatch(t *testing.T) {
	svc, planRepo, _ := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	plan := inProgressPlan(userID, testNow.Add(-48*time.Hour), 3)

	planRepo.On("GetByIDAndUser", mock.Anything, plan.ID, userID).Return(plan, nil)

	_, err := svc.UpdatePlanPeriods(context.Background(), userID, plan.ID, sixteenEight(2))

	var mismatch *domain.PeriodsMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Expected)
	assert.Equal(t, 2, mismatch.Actual)
}

func TestUpdatePlanPeriods_UnknownOrder(t *testing.T) {
	svc, planRepo, _ := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	plan := inProgressPlan(userID, testNow.Add(-48*time.Hour), 2)

	configs := sixteenEight(2)
	configs[1].Order = 7

	planRepo.On("GetByIDAndUser", mock.Anything, plan.ID, userID).Return(plan, nil)

	_, err := svc.UpdatePlanPeriods(context.Background(), userID, plan.ID, configs)

	var notInPlan *domain.PeriodNotInPlanError
	require.ErrorAs(t, err, &notInPlan)
	assert.Equal(t, 7, notInPlan.Order)
}

func TestUpdatePlanPeriods_DuplicateOrder(t *testing.T) {
	svc, planRepo, _ := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	plan := inProgressPlan(userID, testNow.Add(-48*time.Hour), 2)

	// Right count, but order 1 is addressed twice and order 2 never.
	configs := []domain.PeriodConfig{
		{Order: 1, FastingDuration: 16, EatingWindow: 8},
		{Order: 1, FastingDuration: 20, EatingWindow: 4},
	}

	planRepo.On("GetByIDAndUser", mock.Anything, plan.ID, userID).Return(plan, nil)

	_, err := svc.UpdatePlanPeriods(context.Background(), userID, plan.ID, configs)

	var notInPlan *domain.PeriodNotInPlanError
	require.ErrorAs(t, err, &notInPlan)
	assert.Equal(t, 1, notInPlan.Order)
	planRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdatePlanPeriods_RecomputesFromPlanStart(t *testing.T) {
	svc, planRepo, cycleRepo := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	start := testNow.Add(-48 * time.Hour)
	plan := inProgressPlan(userID, start, 2)

	configs := []domain.PeriodConfig{
		{Order: 1, FastingDuration: 18, EatingWindow: 6},
		{Order: 2, FastingDuration: 20, EatingWindow: 4},
	}

	planRepo.On("GetByIDAndUser", mock.Anything, plan.ID, userID).Return(plan, nil)
	cycleRepo.On("ListByUser", mock.Anything, userID).Return([]domain.Cycle{}, nil)
	planRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Plan")).Return(nil)

	updated, err := svc.UpdatePlanPeriods(context.Background(), userID, plan.ID, configs)

	require.NoError(t, err)
	assert.True(t, updated.Periods[0].StartDate.Equal(start))
	assert.Equal(t, 18.0, updated.Periods[0].FastingDuration)
	assert.Equal(t, 4.0, updated.Periods[1].EatingWindow)
	assert.True(t, schedule.ValidatePeriodContiguity(updated.Periods))
}

func TestUpdatePlanPeriods_InvalidDuration(t *testing.T) {
	svc, planRepo, _ := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	plan := inProgressPlan(userID, testNow.Add(-48*time.Hour), 1)

	// 16.1 is not a 15-minute step.
	configs := []domain.PeriodConfig{{Order: 1, FastingDuration: 16.1, EatingWindow: 8}}

	planRepo.On("GetByIDAndUser", mock.Anything, plan.ID, userID).Return(plan, nil)

	_, err := svc.UpdatePlanPeriods(context.Background(), userID, plan.ID, configs)

	var valErr *domain.CycleValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "invalid-duration", valErr.Code)
}

func TestCancelPlan_Success(t *testing.T) {
	svc, planRepo, _ := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	plan := inProgressPlan(userID, testNow.Add(-time.Hour), 2)

	planRepo.On("GetByIDAndUser", mock.Anything, plan.ID, userID).Return(plan, nil)
	planRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Plan")).Return(nil)

	cancelled, err := svc.CancelPlan(context.Background(), userID, plan.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.PlanCancelled, cancelled.Status)
}

func TestCancelPlan_TerminalStateIsFinal(t *testing.T) {
	svc, planRepo, _ := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	plan := inProgressPlan(userID, testNow.Add(-72*time.Hour), 1)
	plan.Status = domain.PlanCancelled

	planRepo.On("GetByIDAndUser", mock.Anything, plan.ID, userID).Return(plan, nil)

	_, err := svc.CancelPlan(context.Background(), userID, plan.ID)

	var stateErr *domain.PlanInvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, domain.PlanCancelled, stateErr.Current)
}

func TestCompletePlan_PeriodsStillRunning(t *testing.T) {
	svc, planRepo, _ := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	// Two 24h periods starting one hour ago: both unfinished.
	plan := inProgressPlan(userID, testNow.Add(-time.Hour), 2)

	planRepo.On("GetByIDAndUser", mock.Anything, plan.ID, userID).Return(plan, nil)

	_, err := svc.CompletePlan(context.Background(), userID, plan.ID)

	var notDone *domain.PeriodsNotCompletedError
	require.ErrorAs(t, err, &notDone)
	assert.Equal(t, 2, notDone.Remaining)
	planRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCompletePlan_AllPeriodsFinished(t *testing.T) {
	svc, planRepo, _ := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	// Two 24h periods that ended well before now.
	plan := inProgressPlan(userID, testNow.Add(-96*time.Hour), 2)

	planRepo.On("GetByIDAndUser", mock.Anything, plan.ID, userID).Return(plan, nil)
	planRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Plan")).Return(nil)

	completed, err := svc.CompletePlan(context.Background(), userID, plan.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.PlanCompleted, completed.Status)
}

func TestGetPlanPeriod(t *testing.T) {
	svc, planRepo, _ := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	plan := inProgressPlan(userID, testNow.Add(-48*time.Hour), 3)

	planRepo.On("GetByIDAndUser", mock.Anything, plan.ID, userID).Return(plan, nil)

	period, err := svc.GetPlanPeriod(context.Background(), userID, plan.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, period.Order)

	_, err = svc.GetPlanPeriod(context.Background(), userID, plan.ID, 9)
	var notFound *domain.PeriodNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 9, notFound.Order)
}

func TestGetPlan_ForeignIDResolvesAsNotFound(t *testing.T) {
	svc, planRepo, _ := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()
	foreignID := primitive.NewObjectID()

	planRepo.On("GetByIDAndUser", mock.Anything, foreignID, userID).Return(nil, repository.ErrNotFound)

	_, err := svc.GetPlan(context.Background(), userID, foreignID)

	var notFound *domain.PlanNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, foreignID, notFound.PlanID)
}

func TestGetActivePlan_NoneIsNotAnError(t *testing.T) {
	svc, planRepo, _ := newPlanServiceForTest(t)
	userID := primitive.NewObjectID()

	planRepo.On("GetActiveByUser", mock.Anything, userID).Return(nil, repository.ErrNotFound)

	plan, err := svc.GetActivePlan(context.Background(), userID)

	require.NoError(t, err)
	assert.Nil(t, plan)
}
