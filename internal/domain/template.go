// internal/domain/template.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxPlanTemplates caps how many templates a single user may keep.
const MaxPlanTemplates = 10

// PlanTemplate is a reusable, date-free snapshot of a plan's period
// durations. Applying a template instantiates a fresh plan with dates
// recalculated from a supplied start date.
type PlanTemplate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	PeriodCount int                `bson:"periodCount" json:"periodCount"`
	Periods     []PeriodConfig     `bson:"periods" json:"periods"`
	LastUsedAt  *time.Time         `bson:"lastUsedAt,omitempty" json:"lastUsedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
