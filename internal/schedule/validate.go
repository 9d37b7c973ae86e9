package schedule

import (
	"math"
	"time"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
)

// ValidatePeriodCount checks the 1..31 period bound.
func ValidatePeriodCount(count int) error {
	if count < domain.MinPeriods || count > domain.MaxPeriods {
		return &domain.InvalidPeriodCountError{Count: count, Min: domain.MinPeriods, Max: domain.MaxPeriods}
	}
	return nil
}

// onStep reports whether hours lands on a 15-minute boundary.
func onStep(hours float64) bool {
	steps := hours / domain.HoursStep
	return steps == math.Trunc(steps)
}

// ValidateDurations checks one duration pair against its range and the
// 15-minute step requirement.
func ValidateDurations(cfg domain.PeriodConfig) error {
	if cfg.FastingDuration < domain.MinFastingHours || cfg.FastingDuration > domain.MaxFastingHours || !onStep(cfg.FastingDuration) {
		return &domain.CycleValidationError{
			Code:    "invalid-duration",
			Summary: CycleValidationMessages["invalid-duration"].Summary,
			Detail:  CycleValidationMessages["invalid-duration"].Detail,
		}
	}
	if cfg.EatingWindow < domain.MinEatingHours || cfg.EatingWindow > domain.MaxEatingHours || !onStep(cfg.EatingWindow) {
		return &domain.CycleValidationError{
			Code:    "invalid-duration",
			Summary: CycleValidationMessages["invalid-duration"].Summary,
			Detail:  CycleValidationMessages["invalid-duration"].Detail,
		}
	}
	return nil
}

// ValidatePeriodContiguity reports whether every period starts exactly where
// the previous one ends. The calculator guarantees this for its own output;
// this check guards periods arriving from persistence or external input.
func ValidatePeriodContiguity(periods []domain.Period) bool {
	for i := 1; i < len(periods); i++ {
		if !periods[i-1].EndDate.Equal(periods[i].StartDate) {
			return false
		}
	}
	return true
}

// ValidatePhaseInvariants reports whether a single period's phase timestamps
// hold the ordering chain:
// fastingStart < fastingEnd == eatingStart < eatingEnd, with startDate and
// endDate pinned to the outer phases.
func ValidatePhaseInvariants(p domain.Period) bool {
	if !p.StartDate.Equal(p.FastingStartDate) || !p.EndDate.Equal(p.EatingEndDate) {
		return false
	}
	if !p.FastingStartDate.Before(p.FastingEndDate) {
		return false
	}
	if !p.FastingEndDate.Equal(p.EatingStartDate) {
		return false
	}
	return p.EatingStartDate.Before(p.EatingEndDate)
}

// ValidationMessage is one summary/detail pair of the cycle rule table.
type ValidationMessage struct {
	Summary string
	Detail  string
}

// CycleValidationMessages maps each cycle date-rule code to the text the API
// returns for it.
var CycleValidationMessages = map[string]ValidationMessage{
	"duration-too-short": {
		Summary: "Fast too short",
		Detail:  "A fast must last at least 1 hour.",
	},
	"start-in-future": {
		Summary: "Start date is in the future",
		Detail:  "A fast must start in the past.",
	},
	"end-in-future": {
		Summary: "End date is in the future",
		Detail:  "A fast cannot end in the future.",
	},
	"overlapping-cycles": {
		Summary: "Overlapping fasts",
		Detail:  "This time range overlaps an existing fast.",
	},
	"invalid-duration": {
		Summary: "Invalid duration",
		Detail:  "Durations must use 15-minute steps within the allowed range.",
	},
}

func cycleValidationError(code string) *domain.CycleValidationError {
	msg := CycleValidationMessages[code]
	return &domain.CycleValidationError{Code: code, Summary: msg.Summary, Detail: msg.Detail}
}

// OverlappingCyclesError is the overlap entry of the message table, raised
// when a new or completed fast would intersect a recorded one.
func OverlappingCyclesError() error {
	return cycleValidationError("overlapping-cycles")
}

// ValidateCycleStart checks the creation-time rule: a cycle's start must be
// strictly in the past relative to now.
func ValidateCycleStart(now, startDate time.Time) error {
	if !startDate.Before(now) {
		return cycleValidationError("start-in-future")
	}
	return nil
}

// ValidateCycleDates checks the full date rule set applied when a cycle is
// completed or backfilled: start strictly past, end not in the future, end
// after start, and a duration of at least one hour.
func ValidateCycleDates(now, startDate, endDate time.Time) error {
	if err := ValidateCycleStart(now, startDate); err != nil {
		return err
	}
	if endDate.After(now) {
		return cycleValidationError("end-in-future")
	}
	if !endDate.After(startDate) {
		return cycleValidationError("invalid-duration")
	}
	if endDate.Sub(startDate) < domain.MinCycleDuration {
		return cycleValidationError("duration-too-short")
	}
	return nil
}

// RangesOverlap reports whether two half-open [start, end) ranges intersect.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FindOverlappingCycle returns the first cycle whose recorded range overlaps
// [start, end). A cycle still in progress is treated as running until now.
func FindOverlappingCycle(now, start, end time.Time, cycles []domain.Cycle) (domain.Cycle, bool) {
	for _, c := range cycles {
		cycleEnd := now
		if c.EndDate != nil {
			cycleEnd = *c.EndDate
		}
		if RangesOverlap(start, end, c.StartDate, cycleEnd) {
			return c, true
		}
	}
	return domain.Cycle{}, false
}
