package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/service"
)

// respondDomainError maps the domain error taxonomy onto HTTP statuses.
// Structured errors keep their fields in the body so clients can react
// without parsing message text. Anything unrecognized is a 500.
func respondDomainError(c *gin.Context, err error) {
	// --- Validation (400/422) ---
	var cycleVal *domain.CycleValidationError
	if errors.As(err, &cycleVal) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   cycleVal.Summary,
			"code":    cycleVal.Code,
			"summary": cycleVal.Summary,
			"detail":  cycleVal.Detail,
		})
		return
	}
	if errors.Is(err, service.ErrInvalidPlanName) || errors.Is(err, service.ErrInvalidPlanDescription) {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	var countErr *domain.InvalidPeriodCountError
	if errors.As(err, &countErr) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error": countErr.Error(),
			"count": countErr.Count,
			"min":   countErr.Min,
			"max":   countErr.Max,
		})
		return
	}
	var mismatchErr *domain.PeriodsMismatchError
	if errors.As(err, &mismatchErr) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":    mismatchErr.Error(),
			"expected": mismatchErr.Expected,
			"actual":   mismatchErr.Actual,
		})
		return
	}
	var notInPlanErr *domain.PeriodNotInPlanError
	if errors.As(err, &notInPlanErr) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error": notInPlanErr.Error(),
			"order": notInPlanErr.Order,
		})
		return
	}

	// --- Not found (404) ---
	var planNotFound *domain.PlanNotFoundError
	var cycleNotFound *domain.CycleNotFoundError
	var templateNotFound *domain.PlanTemplateNotFoundError
	var periodNotFound *domain.PeriodNotFoundError
	if errors.As(err, &planNotFound) || errors.As(err, &cycleNotFound) ||
		errors.As(err, &templateNotFound) || errors.As(err, &periodNotFound) {
		abortWithError(c, http.StatusNotFound, err.Error())
		return
	}

	// --- State conflicts (409) ---
	var stateErr *domain.PlanInvalidStateError
	if errors.As(err, &stateErr) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":         stateErr.Error(),
			"currentState":  stateErr.Current,
			"expectedState": stateErr.Expected,
		})
		return
	}
	var idMismatch *domain.CycleIDMismatchError
	if errors.As(err, &idMismatch) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":    idMismatch.Error(),
			"expected": idMismatch.Expected.Hex(),
			"actual":   idMismatch.Actual.Hex(),
		})
		return
	}
	var overlapErr *domain.PeriodOverlapWithCycleError
	if errors.As(err, &overlapErr) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":   overlapErr.Error(),
			"cycleId": overlapErr.CycleID.Hex(),
		})
		return
	}
	var planActive *domain.PlanAlreadyActiveError
	if errors.As(err, &planActive) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":  planActive.Error(),
			"planId": planActive.PlanID.Hex(),
		})
		return
	}
	var cycleActive *domain.ActiveCycleExistsError
	if errors.As(err, &cycleActive) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":   cycleActive.Error(),
			"cycleId": cycleActive.CycleID.Hex(),
		})
		return
	}
	var limitErr *domain.PlanTemplateLimitReachedError
	if errors.As(err, &limitErr) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":        limitErr.Error(),
			"currentCount": limitErr.CurrentCount,
			"maxTemplates": limitErr.MaxTemplates,
		})
		return
	}
	if errors.Is(err, service.ErrCycleNotInProgress) {
		abortWithError(c, http.StatusConflict, err.Error())
		return
	}

	// --- Not completed (409) ---
	var notDone *domain.PeriodsNotCompletedError
	if errors.As(err, &notDone) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     notDone.Error(),
			"remaining": notDone.Remaining,
		})
		return
	}

	abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
}
