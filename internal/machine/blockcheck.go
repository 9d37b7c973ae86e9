// internal/machine/blockcheck.go
package machine

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/decision"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
)

// BlockCheckState names the states of the blocking-resource machines.
type BlockCheckState string

const (
	BlockIdle     BlockCheckState = "idle"
	BlockChecking BlockCheckState = "checking"
	BlockBlocked  BlockCheckState = "blocked"
)

// BlockCheckEvent is the sealed event union of the blocking-resource
// machines.
type BlockCheckEvent interface{ isBlockCheckEvent() }

// Check asks the machine to query the user's active resources. Accepted in
// Idle.
type Check struct{}

// Dismiss closes the blocked dialog. Accepted in Blocked.
type Dismiss struct{}

func (Check) isBlockCheckEvent()   {}
func (Dismiss) isBlockCheckEvent() {}

// BlockCheckListener receives the outcome of a check. Proceed means the user
// may go ahead with the action that triggered the check.
type BlockCheckListener interface {
	Proceed()
	BlockedByCycle(cycle *domain.Cycle)
	BlockedByPlan(plan *domain.Plan)
}

// CycleBlockMachine guards actions that require no active cycle (starting a
// new cycle from the dialog). A check that errors fails open: blocking the
// user because a status probe transiently failed is worse than letting the
// create request hit the server's authoritative 409.
type CycleBlockMachine struct {
	gateway  Gateway
	listener BlockCheckListener
	state    BlockCheckState
}

// NewCycleBlockMachine creates a machine in Idle.
func NewCycleBlockMachine(gateway Gateway, listener BlockCheckListener) *CycleBlockMachine {
	return &CycleBlockMachine{gateway: gateway, listener: listener, state: BlockIdle}
}

// State returns the machine's current state.
func (m *CycleBlockMachine) State() BlockCheckState {
	return m.state
}

// Send feeds one event into the machine; undeclared events are ignored.
func (m *CycleBlockMachine) Send(ctx context.Context, event BlockCheckEvent) {
	switch m.state {
	case BlockIdle:
		if _, ok := event.(Check); ok {
			m.check(ctx)
		}
	case BlockBlocked:
		if _, ok := event.(Dismiss); ok {
			m.state = BlockIdle
		}
	}
}

func (m *CycleBlockMachine) check(ctx context.Context) {
	m.state = BlockChecking
	cycle, err := m.gateway.GetActiveCycle(ctx)
	if err != nil || cycle == nil {
		// Fail open on errors.
		m.state = BlockIdle
		m.listener.Proceed()
		return
	}
	m.state = BlockBlocked
	m.listener.BlockedByCycle(cycle)
}

// BlockingResourcesMachine guards plan creation: the user may hold neither
// an active cycle nor an active plan. The cycle probe runs first, matching
// the plan-creation decision's precedence. Errors fail open like
// CycleBlockMachine.
type BlockingResourcesMachine struct {
	gateway  Gateway
	listener BlockCheckListener
	state    BlockCheckState
}

// NewBlockingResourcesMachine creates a machine in Idle.
func NewBlockingResourcesMachine(gateway Gateway, listener BlockCheckListener) *BlockingResourcesMachine {
	return &BlockingResourcesMachine{gateway: gateway, listener: listener, state: BlockIdle}
}

// State returns the machine's current state.
func (m *BlockingResourcesMachine) State() BlockCheckState {
	return m.state
}

// Send feeds one event into the machine; undeclared events are ignored.
func (m *BlockingResourcesMachine) Send(ctx context.Context, event BlockCheckEvent) {
	switch m.state {
	case BlockIdle:
		if _, ok := event.(Check); ok {
			m.check(ctx)
		}
	case BlockBlocked:
		if _, ok := event.(Dismiss); ok {
			m.state = BlockIdle
		}
	}
}

func (m *BlockingResourcesMachine) check(ctx context.Context) {
	m.state = BlockChecking

	in := decision.PlanCreationInput{}
	cycle, err := m.gateway.GetActiveCycle(ctx)
	if err == nil && cycle != nil {
		in.ActiveCycleID = &cycle.ID
	}
	plan, err := m.gateway.GetActivePlan(ctx)
	if err == nil && plan != nil {
		in.ActivePlanID = &plan.ID
	}

	decision.DecidePlanCreation(in).Match(
		func() {
			m.state = BlockIdle
			m.listener.Proceed()
		},
		func(_, _ primitive.ObjectID) {
			m.state = BlockBlocked
			m.listener.BlockedByCycle(cycle)
		},
		func(_, _ primitive.ObjectID) {
			m.state = BlockBlocked
			m.listener.BlockedByPlan(plan)
		},
	)
}
