// Package decision holds the reified business decisions: each function
// evaluates a rule against plain inputs and returns a closed tagged variant
// instead of an error. Callers consume the outcome through an exhaustive
// Match helper, so every variant must be handled explicitly — there is no
// default branch to fall through.
package decision

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
)

// --- Plan creation ---

// PlanCreationInput carries the user's currently active resources, if any.
type PlanCreationInput struct {
	UserID        primitive.ObjectID
	ActiveCycleID *primitive.ObjectID
	ActivePlanID  *primitive.ObjectID
}

type planCreationTag int

const (
	planCreationCanCreate planCreationTag = iota
	planCreationBlockedByActiveCycle
	planCreationBlockedByActivePlan
)

// PlanCreation is the outcome of DecidePlanCreation.
type PlanCreation struct {
	tag     planCreationTag
	userID  primitive.ObjectID
	cycleID primitive.ObjectID
	planID  primitive.ObjectID
}

// DecidePlanCreation decides whether a user may create a new plan (or start
// a new cycle). The active cycle is checked before the active plan, so a
// user holding both is told about the cycle first.
func DecidePlanCreation(in PlanCreationInput) PlanCreation {
	if in.ActiveCycleID != nil && *in.ActiveCycleID != primitive.NilObjectID {
		return PlanCreation{tag: planCreationBlockedByActiveCycle, userID: in.UserID, cycleID: *in.ActiveCycleID}
	}
	if in.ActivePlanID != nil && *in.ActivePlanID != primitive.NilObjectID {
		return PlanCreation{tag: planCreationBlockedByActivePlan, userID: in.UserID, planID: *in.ActivePlanID}
	}
	return PlanCreation{tag: planCreationCanCreate, userID: in.UserID}
}

// Match dispatches on the outcome. All three handlers are required.
func (d PlanCreation) Match(
	onCanCreate func(),
	onBlockedByActiveCycle func(userID, cycleID primitive.ObjectID),
	onBlockedByActivePlan func(userID, planID primitive.ObjectID),
) {
	switch d.tag {
	case planCreationCanCreate:
		onCanCreate()
	case planCreationBlockedByActiveCycle:
		onBlockedByActiveCycle(d.userID, d.cycleID)
	case planCreationBlockedByActivePlan:
		onBlockedByActivePlan(d.userID, d.planID)
	}
}

// --- Template creation / duplication ---

type templateCreationTag int

const (
	templateCreationCanCreate templateCreationTag = iota
	templateCreationLimitReached
)

// TemplateCreation is the outcome of DecideTemplateCreation.
type TemplateCreation struct {
	tag          templateCreationTag
	currentCount int
	maxTemplates int
}

// DecideTemplateCreation decides whether another template fits under the
// per-user cap. currentCount >= maxTemplates blocks creation.
func DecideTemplateCreation(currentCount, maxTemplates int) TemplateCreation {
	if currentCount >= maxTemplates {
		return TemplateCreation{tag: templateCreationLimitReached, currentCount: currentCount, maxTemplates: maxTemplates}
	}
	return TemplateCreation{tag: templateCreationCanCreate, currentCount: currentCount, maxTemplates: maxTemplates}
}

// Match dispatches on the outcome.
func (d TemplateCreation) Match(
	onCanCreate func(),
	onLimitReached func(currentCount, maxTemplates int),
) {
	switch d.tag {
	case templateCreationCanCreate:
		onCanCreate()
	case templateCreationLimitReached:
		onLimitReached(d.currentCount, d.maxTemplates)
	}
}

// --- Save timeline ---

// SaveTimelineInput compares a plan-edit screen's current values against the
// plan as originally loaded. A nil CurrentStartDate or CurrentPeriods means
// the user never touched that part of the timeline.
type SaveTimelineInput struct {
	OriginalPlan     *domain.Plan
	CurrentStartDate *time.Time
	CurrentPeriods   []domain.PeriodConfig
}

type saveTimelineTag int

const (
	saveTimelineNoChanges saveTimelineTag = iota
	saveTimelineOnlyStartDate
	saveTimelineOnlyPeriods
	saveTimelineStartDateAndPeriods
)

// SaveTimeline is the outcome of DecideSaveTimeline. It tells the plan-edit
// machine which update calls to issue and in what order: the API has no
// atomic "replace everything" call, a start-date update must precede a
// periods update, and untouched parts must not produce round trips at all.
type SaveTimeline struct {
	tag       saveTimelineTag
	startDate time.Time
	periods   []domain.PeriodConfig
}

// DecideSaveTimeline compares the current start date against the original
// first period start (millisecond equality) and each current duration pair
// against the original periods (value equality, length included).
func DecideSaveTimeline(in SaveTimelineInput) SaveTimeline {
	startChanged := in.CurrentStartDate != nil && !in.CurrentStartDate.Equal(originalStart(in.OriginalPlan))
	periodsChanged := in.CurrentPeriods != nil && periodsDiffer(in.OriginalPlan.Periods, in.CurrentPeriods)

	switch {
	case startChanged && periodsChanged:
		return SaveTimeline{tag: saveTimelineStartDateAndPeriods, startDate: *in.CurrentStartDate, periods: in.CurrentPeriods}
	case startChanged:
		return SaveTimeline{tag: saveTimelineOnlyStartDate, startDate: *in.CurrentStartDate}
	case periodsChanged:
		return SaveTimeline{tag: saveTimelineOnlyPeriods, periods: in.CurrentPeriods}
	default:
		return SaveTimeline{tag: saveTimelineNoChanges}
	}
}

func originalStart(plan *domain.Plan) time.Time {
	if len(plan.Periods) > 0 {
		return plan.Periods[0].StartDate
	}
	return plan.StartDate
}

func periodsDiffer(original []domain.Period, current []domain.PeriodConfig) bool {
	if len(original) != len(current) {
		return true
	}
	for i := range current {
		if original[i].FastingDuration != current[i].FastingDuration ||
			original[i].EatingWindow != current[i].EatingWindow {
			return true
		}
	}
	return false
}

// Match dispatches on the outcome. All four handlers are required.
func (d SaveTimeline) Match(
	onNoChanges func(),
	onOnlyStartDate func(startDate time.Time),
	onOnlyPeriods func(periods []domain.PeriodConfig),
	onStartDateAndPeriods func(startDate time.Time, periods []domain.PeriodConfig),
) {
	switch d.tag {
	case saveTimelineNoChanges:
		onNoChanges()
	case saveTimelineOnlyStartDate:
		onOnlyStartDate(d.startDate)
	case saveTimelineOnlyPeriods:
		onOnlyPeriods(d.periods)
	case saveTimelineStartDateAndPeriods:
		onStartDateAndPeriods(d.startDate, d.periods)
	}
}
