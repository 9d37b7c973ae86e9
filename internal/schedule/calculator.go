// Package schedule holds the pure date-arithmetic core: laying out the
// contiguous fasting/eating periods of a plan and the validation rules that
// guard them. Nothing in this package does I/O or reads the wall clock.
package schedule

import (
	"time"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
)

// hoursToDuration converts an hour count (15-minute steps) to a duration.
func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// CalculatePeriodDates lays out the phase timestamps for a sequence of
// periods starting at startDate. A running cursor advances through each
// period's fasting phase and then its eating window, so consecutive periods
// are contiguous by construction: period i ends exactly where period i+1
// starts.
func CalculatePeriodDates(startDate time.Time, configs []domain.PeriodConfig) []domain.Period {
	periods := make([]domain.Period, len(configs))
	cursor := startDate
	for i, cfg := range configs {
		fastingStart := cursor
		fastingEnd := fastingStart.Add(hoursToDuration(cfg.FastingDuration))
		eatingStart := fastingEnd
		eatingEnd := eatingStart.Add(hoursToDuration(cfg.EatingWindow))

		periods[i] = domain.Period{
			Order:            i + 1,
			FastingDuration:  cfg.FastingDuration,
			EatingWindow:     cfg.EatingWindow,
			StartDate:        fastingStart,
			EndDate:          eatingEnd,
			FastingStartDate: fastingStart,
			FastingEndDate:   fastingEnd,
			EatingStartDate:  eatingStart,
			EatingEndDate:    eatingEnd,
		}
		cursor = eatingEnd
	}
	return periods
}

// RecalculatePeriodDates re-lays out existing periods from a new start date.
// Old dates are discarded entirely; only each period's duration pair and its
// order survive. Used when a plan's start date changes.
func RecalculatePeriodDates(newStartDate time.Time, periods []domain.Period) []domain.Period {
	configs := make([]domain.PeriodConfig, len(periods))
	for i, p := range periods {
		configs[i] = p.Config()
	}
	return CalculatePeriodDates(newStartDate, configs)
}
