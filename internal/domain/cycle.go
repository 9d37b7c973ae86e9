// internal/domain/cycle.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CycleStatus type for the cycle lifecycle.
type CycleStatus string

const (
	CycleInProgress CycleStatus = "InProgress"
	CycleCompleted  CycleStatus = "Completed"
)

// MinCycleDuration is the shortest fast that can be recorded.
const MinCycleDuration = time.Hour

// Cycle represents a single fast with an explicit start and, once completed,
// an explicit end. At most one cycle per user may be InProgress, and never
// alongside an InProgress plan.
type Cycle struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Status    CycleStatus        `bson:"status" json:"status"`
	StartDate time.Time          `bson:"startDate" json:"startDate"`
	EndDate   *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"` // Set on completion
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsInProgress reports whether the cycle is still running.
func (c *Cycle) IsInProgress() bool {
	return c.Status == CycleInProgress
}
