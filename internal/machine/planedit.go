// internal/machine/planedit.go
package machine

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/decision"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
)

// PlanEditState names the states of the plan-edit machine.
type PlanEditState string

const (
	StateIdle                PlanEditState = "idle"
	StateLoading             PlanEditState = "loading"
	StateReady               PlanEditState = "ready"
	StateUpdatingName        PlanEditState = "updatingName"
	StateUpdatingDescription PlanEditState = "updatingDescription"
	StateUpdatingStartDate   PlanEditState = "updatingStartDate"
	StateUpdatingPeriods     PlanEditState = "updatingPeriods"
	StateSavingAsTemplate    PlanEditState = "savingAsTemplate"
	StateError               PlanEditState = "error"
)

// PlanEditEvent is the sealed event union of the plan-edit machine.
type PlanEditEvent interface{ isPlanEditEvent() }

// LoadPlan asks the machine to fetch a plan. Accepted in Idle and Error.
type LoadPlan struct {
	PlanID primitive.ObjectID
}

// SaveName persists a new plan name. Accepted in Ready.
type SaveName struct {
	Name string
}

// SaveDescription persists a new plan description. Accepted in Ready.
type SaveDescription struct {
	Description string
}

// SaveTimeline persists a changed start date and/or changed periods.
// Accepted in Ready. A nil field means that part of the timeline was never
// touched by the user.
type SaveTimeline struct {
	StartDate *time.Time
	Periods   []domain.PeriodConfig
}

// SaveAsTemplate snapshots the loaded plan as a reusable template.
// Accepted in Ready.
type SaveAsTemplate struct {
	Name string
}

func (LoadPlan) isPlanEditEvent()        {}
func (SaveName) isPlanEditEvent()        {}
func (SaveDescription) isPlanEditEvent() {}
func (SaveTimeline) isPlanEditEvent()    {}
func (SaveAsTemplate) isPlanEditEvent()  {}

// PlanEditListener receives the machine's emits. A two-step timeline save
// fires TimelineSaved exactly once; single-leg saves fire their own
// completion emit instead.
type PlanEditListener interface {
	PlanLoaded(plan *domain.Plan)
	LoadFailed(err error)
	NameSaved(plan *domain.Plan)
	DescriptionSaved(plan *domain.Plan)
	StartDateSaved(plan *domain.Plan)
	PeriodsSaved(plan *domain.Plan)
	TimelineSaved(plan *domain.Plan)
	TemplateSaved(template *domain.PlanTemplate)
	TemplateLimitReached(currentCount, maxTemplates int)
	SaveFailed(err error)
}

// PlanEditMachine sequences the plan-edit screen's save operations. It owns
// its context exclusively and must be driven from a single goroutine; each
// Send runs any gateway call to completion before returning, so no second
// mutating event can interleave with an in-flight one.
type PlanEditMachine struct {
	gateway  Gateway
	listener PlanEditListener

	state          PlanEditState
	plan           *domain.Plan
	pendingPeriods []domain.PeriodConfig
}

// NewPlanEditMachine creates a machine in Idle.
func NewPlanEditMachine(gateway Gateway, listener PlanEditListener) *PlanEditMachine {
	return &PlanEditMachine{
		gateway:  gateway,
		listener: listener,
		state:    StateIdle,
	}
}

// State returns the machine's current state.
func (m *PlanEditMachine) State() PlanEditState {
	return m.state
}

// Plan returns the currently loaded plan, or nil before a successful load.
func (m *PlanEditMachine) Plan() *domain.Plan {
	return m.plan
}

// Send feeds one event into the machine. Events a state does not declare
// are ignored.
func (m *PlanEditMachine) Send(ctx context.Context, event PlanEditEvent) {
	switch m.state {
	case StateIdle, StateError:
		if ev, ok := event.(LoadPlan); ok {
			m.load(ctx, ev.PlanID)
		}
	case StateReady:
		switch ev := event.(type) {
		case LoadPlan:
			m.load(ctx, ev.PlanID)
		case SaveName:
			m.updateName(ctx, ev.Name)
		case SaveDescription:
			m.updateDescription(ctx, ev.Description)
		case SaveTimeline:
			m.saveTimeline(ctx, ev)
		case SaveAsTemplate:
			m.saveAsTemplate(ctx, ev.Name)
		}
	}
	// In-flight states declare no external events; Send is synchronous, so
	// the machine is never observed in one from outside anyway.
}

func (m *PlanEditMachine) load(ctx context.Context, planID primitive.ObjectID) {
	m.state = StateLoading
	plan, err := m.gateway.GetPlan(ctx, planID)
	if err != nil {
		m.state = StateError
		m.listener.LoadFailed(err)
		return
	}
	m.plan = plan
	m.state = StateReady
	m.listener.PlanLoaded(plan)
}

func (m *PlanEditMachine) updateName(ctx context.Context, name string) {
	m.state = StateUpdatingName
	plan, err := m.gateway.UpdatePlanName(ctx, m.plan.ID, name)
	if err != nil {
		m.fail(err)
		return
	}
	m.plan = plan
	m.state = StateReady
	m.listener.NameSaved(plan)
}

func (m *PlanEditMachine) updateDescription(ctx context.Context, description string) {
	m.state = StateUpdatingDescription
	plan, err := m.gateway.UpdatePlanDescription(ctx, m.plan.ID, description)
	if err != nil {
		m.fail(err)
		return
	}
	m.plan = plan
	m.state = StateReady
	m.listener.DescriptionSaved(plan)
}

// saveTimeline consults the save-timeline decision and issues only the calls
// it prescribes. The API recomputes periods relative to the start date, so
// for a combined change the start-date update must land first; the periods
// payload waits in pendingPeriods until it does.
func (m *PlanEditMachine) saveTimeline(ctx context.Context, ev SaveTimeline) {
	d := decision.DecideSaveTimeline(decision.SaveTimelineInput{
		OriginalPlan:     m.plan,
		CurrentStartDate: ev.StartDate,
		CurrentPeriods:   ev.Periods,
	})

	d.Match(
		func() {
			// Nothing changed: no network call, no emit.
		},
		func(startDate time.Time) {
			if m.updateStartDate(ctx, startDate) {
				m.listener.StartDateSaved(m.plan)
			}
		},
		func(periods []domain.PeriodConfig) {
			if m.updatePeriods(ctx, periods) {
				m.listener.PeriodsSaved(m.plan)
			}
		},
		func(startDate time.Time, periods []domain.PeriodConfig) {
			m.pendingPeriods = periods
			if !m.updateStartDate(ctx, startDate) {
				return
			}
			pending := m.pendingPeriods
			m.pendingPeriods = nil
			if m.updatePeriods(ctx, pending) {
				m.listener.TimelineSaved(m.plan)
			}
		},
	)
}

// updateStartDate runs the start-date leg. Returns false after a failure,
// which has already been emitted and has reset the machine to Ready.
func (m *PlanEditMachine) updateStartDate(ctx context.Context, startDate time.Time) bool {
	m.state = StateUpdatingStartDate
	plan, err := m.gateway.UpdatePlanStartDate(ctx, m.plan.ID, startDate)
	if err != nil {
		m.fail(err)
		return false
	}
	m.plan = plan
	m.state = StateReady
	return true
}

// updatePeriods runs the periods leg. Same failure contract as
// updateStartDate.
func (m *PlanEditMachine) updatePeriods(ctx context.Context, periods []domain.PeriodConfig) bool {
	m.state = StateUpdatingPeriods
	plan, err := m.gateway.UpdatePlanPeriods(ctx, m.plan.ID, periods)
	if err != nil {
		m.fail(err)
		return false
	}
	m.plan = plan
	m.state = StateReady
	return true
}

// saveAsTemplate pre-checks the template cap locally so a request that is
// guaranteed to fail is never sent. The server re-checks the cap regardless.
func (m *PlanEditMachine) saveAsTemplate(ctx context.Context, name string) {
	m.state = StateSavingAsTemplate
	templates, err := m.gateway.ListTemplates(ctx)
	if err != nil {
		m.fail(err)
		return
	}

	decision.DecideTemplateCreation(len(templates), domain.MaxPlanTemplates).Match(
		func() {
			template, err := m.gateway.CreateTemplateFromPlan(ctx, m.plan.ID, name)
			if err != nil {
				m.fail(err)
				return
			}
			m.state = StateReady
			m.listener.TemplateSaved(template)
		},
		func(currentCount, maxTemplates int) {
			m.state = StateReady
			m.listener.TemplateLimitReached(currentCount, maxTemplates)
		},
	)
}

// fail clears any pending payload, returns the machine to Ready and emits
// the typed failure. The machine never retries on its own.
func (m *PlanEditMachine) fail(err error) {
	m.pendingPeriods = nil
	m.state = StateReady
	m.listener.SaveFailed(err)
}
