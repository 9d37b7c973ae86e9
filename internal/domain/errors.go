// internal/domain/errors.go
package domain

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The error taxonomy below is shared by the services (which produce it), the
// API layer (which maps it to status codes) and the client machines (which
// react to it). Every error carries the structured fields a caller needs to
// render a message and offer a recovery action, not just text.

// --- Validation errors (400/422) ---

// InvalidPeriodCountError signals a period count outside the 1..31 bounds.
type InvalidPeriodCountError struct {
	Count int
	Min   int
	Max   int
}

func (e *InvalidPeriodCountError) Error() string {
	return fmt.Sprintf("invalid period count %d: must be between %d and %d", e.Count, e.Min, e.Max)
}

// PeriodsMismatchError signals a periods payload whose length does not match
// the plan it targets.
type PeriodsMismatchError struct {
	Expected int
	Actual   int
}

func (e *PeriodsMismatchError) Error() string {
	return fmt.Sprintf("periods mismatch: plan has %d periods, payload has %d", e.Expected, e.Actual)
}

// PeriodNotInPlanError signals a period order referenced by a request that
// the target plan does not contain.
type PeriodNotInPlanError struct {
	Order int
}

func (e *PeriodNotInPlanError) Error() string {
	return fmt.Sprintf("period with order %d is not part of the plan", e.Order)
}

// CycleValidationError carries one entry of the cycle date-rule message
// table: a short summary plus a longer detail for the UI.
type CycleValidationError struct {
	Code    string // duration-too-short, start-in-future, end-in-future, overlapping-cycles, invalid-duration
	Summary string
	Detail  string
}

func (e *CycleValidationError) Error() string {
	return e.Summary + ": " + e.Detail
}

// --- State-conflict errors (409) ---

// PlanInvalidStateError signals an operation attempted against a plan that
// is not in the lifecycle state the operation requires.
type PlanInvalidStateError struct {
	Current  PlanStatus
	Expected PlanStatus
}

func (e *PlanInvalidStateError) Error() string {
	return fmt.Sprintf("plan is %s, expected %s", e.Current, e.Expected)
}

// CycleIDMismatchError signals a cycle-scoped request whose body references
// a different cycle than the URL.
type CycleIDMismatchError struct {
	Expected primitive.ObjectID
	Actual   primitive.ObjectID
}

func (e *CycleIDMismatchError) Error() string {
	return fmt.Sprintf("cycle id mismatch: expected %s, got %s", e.Expected.Hex(), e.Actual.Hex())
}

// PeriodOverlapWithCycleError signals that a proposed plan or cycle range
// overlaps an existing cycle record for the same user.
type PeriodOverlapWithCycleError struct {
	CycleID primitive.ObjectID
}

func (e *PeriodOverlapWithCycleError) Error() string {
	return fmt.Sprintf("periods overlap with existing cycle %s", e.CycleID.Hex())
}

// PlanAlreadyActiveError signals that the user already holds an InProgress
// plan.
type PlanAlreadyActiveError struct {
	PlanID primitive.ObjectID
}

func (e *PlanAlreadyActiveError) Error() string {
	return fmt.Sprintf("an active plan already exists: %s", e.PlanID.Hex())
}

// ActiveCycleExistsError signals that the user already holds an InProgress
// cycle.
type ActiveCycleExistsError struct {
	CycleID primitive.ObjectID
}

func (e *ActiveCycleExistsError) Error() string {
	return fmt.Sprintf("an active cycle already exists: %s", e.CycleID.Hex())
}

// PlanTemplateLimitReachedError signals that the user is at the template cap.
type PlanTemplateLimitReachedError struct {
	CurrentCount int
	MaxTemplates int
}

func (e *PlanTemplateLimitReachedError) Error() string {
	return fmt.Sprintf("template limit reached: %d of %d", e.CurrentCount, e.MaxTemplates)
}

// --- Not-found errors (404) ---
// Cross-user access resolves to these same errors on purpose: a caller must
// not be able to distinguish "someone else's id" from "no such id".

type PlanNotFoundError struct {
	PlanID primitive.ObjectID
}

func (e *PlanNotFoundError) Error() string {
	return fmt.Sprintf("plan %s not found", e.PlanID.Hex())
}

type CycleNotFoundError struct {
	CycleID primitive.ObjectID
}

func (e *CycleNotFoundError) Error() string {
	return fmt.Sprintf("cycle %s not found", e.CycleID.Hex())
}

type PlanTemplateNotFoundError struct {
	TemplateID primitive.ObjectID
}

func (e *PlanTemplateNotFoundError) Error() string {
	return fmt.Sprintf("plan template %s not found", e.TemplateID.Hex())
}

type PeriodNotFoundError struct {
	Order int
}

func (e *PeriodNotFoundError) Error() string {
	return fmt.Sprintf("period %d not found", e.Order)
}

// --- Not-completed ---

// PeriodsNotCompletedError signals plan completion attempted while periods
// are still running.
type PeriodsNotCompletedError struct {
	Remaining int
}

func (e *PeriodsNotCompletedError) Error() string {
	return fmt.Sprintf("plan has %d unfinished periods", e.Remaining)
}
