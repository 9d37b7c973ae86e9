// internal/domain/plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanStatus type for the plan lifecycle.
type PlanStatus string

// Define constants for plan lifecycle states.
const (
	PlanInProgress PlanStatus = "InProgress"
	PlanCompleted  PlanStatus = "Completed"
	PlanCancelled  PlanStatus = "Cancelled"
)

// Bounds for plans and periods.
const (
	MinPeriods = 1
	MaxPeriods = 31

	MinPlanNameLen        = 1
	MaxPlanNameLen        = 100
	MaxPlanDescriptionLen = 500

	// Durations are expressed in hours and must land on 15-minute steps.
	MinFastingHours = 1.0
	MaxFastingHours = 168.0
	MinEatingHours  = 1.0
	MaxEatingHours  = 24.0
	HoursStep       = 0.25
)

// PeriodConfig is the date-free shape of a period: just its position and
// duration pair. Used as calculator input and as template period storage.
type PeriodConfig struct {
	Order           int     `bson:"order" json:"order"`
	FastingDuration float64 `bson:"fastingDuration" json:"fastingDuration"` // hours
	EatingWindow    float64 `bson:"eatingWindow" json:"eatingWindow"`       // hours
}

// Period is one fasting+eating segment of a plan with its four phase
// timestamps laid out. StartDate always equals FastingStartDate and EndDate
// always equals EatingEndDate; consecutive periods in a plan are contiguous.
type Period struct {
	Order            int       `bson:"order" json:"order"`
	FastingDuration  float64   `bson:"fastingDuration" json:"fastingDuration"` // hours
	EatingWindow     float64   `bson:"eatingWindow" json:"eatingWindow"`       // hours
	StartDate        time.Time `bson:"startDate" json:"startDate"`
	EndDate          time.Time `bson:"endDate" json:"endDate"`
	FastingStartDate time.Time `bson:"fastingStartDate" json:"fastingStartDate"`
	FastingEndDate   time.Time `bson:"fastingEndDate" json:"fastingEndDate"`
	EatingStartDate  time.Time `bson:"eatingStartDate" json:"eatingStartDate"`
	EatingEndDate    time.Time `bson:"eatingEndDate" json:"eatingEndDate"`
}

// Config strips a laid-out period back to its date-free duration pair.
func (p Period) Config() PeriodConfig {
	return PeriodConfig{
		Order:           p.Order,
		FastingDuration: p.FastingDuration,
		EatingWindow:    p.EatingWindow,
	}
}

// Plan represents a multi-period fasting schedule owned by a single user.
type Plan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      PlanStatus         `bson:"status" json:"status"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	Periods     []Period           `bson:"periods" json:"periods"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsInProgress reports whether the plan can still be mutated.
func (p *Plan) IsInProgress() bool {
	return p.Status == PlanInProgress
}

// EndDate is the eating end of the last period.
func (p *Plan) EndDate() time.Time {
	if len(p.Periods) == 0 {
		return p.StartDate
	}
	return p.Periods[len(p.Periods)-1].EndDate
}
