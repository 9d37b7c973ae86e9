package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/service"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- Request/Response Structs ---

type PeriodConfigRequest struct {
	Order           int     `json:"order" binding:"required,min=1"`
	FastingDuration float64 `json:"fastingDuration" binding:"required"`
	EatingWindow    float64 `json:"eatingWindow" binding:"required"`
}

type CreatePlanRequest struct {
	Name        string                `json:"name" binding:"required"`
	Description string                `json:"description"`
	StartDate   time.Time             `json:"startDate" binding:"required"`
	Periods     []PeriodConfigRequest `json:"periods" binding:"required"`
}

type UpdatePlanRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
}

type UpdatePlanPeriodsRequest struct {
	Periods []PeriodConfigRequest `json:"periods" binding:"required"`
}

type PeriodResponse struct {
	Order            int       `json:"order"`
	FastingDuration  float64   `json:"fastingDuration"`
	EatingWindow     float64   `json:"eatingWindow"`
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	FastingStartDate time.Time `json:"fastingStartDate"`
	FastingEndDate   time.Time `json:"fastingEndDate"`
	EatingStartDate  time.Time `json:"eatingStartDate"`
	EatingEndDate    time.Time `json:"eatingEndDate"`
}

type PlanResponse struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Status      string           `json:"status"`
	StartDate   time.Time        `json:"startDate"`
	Periods     []PeriodResponse `json:"periods"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// --- Handler Methods ---

// CreatePlan godoc
// @Summary Create a fasting plan
// @Description Lays out 1 to 31 contiguous periods from the start date. The user may hold no other active plan or cycle, and the computed periods must not overlap recorded cycles.
// @Tags Plans
// @Accept json
// @Produce json
// @Param plan body CreatePlanRequest true "Plan details"
// @Success 201 {object} PlanResponse "Plan created"
// @Failure 400 {object} gin.H "Invalid input or date rule violation"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 409 {object} gin.H "Active plan/cycle exists or periods overlap a cycle"
// @Failure 422 {object} gin.H "Period count out of bounds"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), userID, req.Name, req.Description, req.StartDate, mapPeriodConfigs(req.Periods))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// ListPlans godoc
// @Summary List the caller's plans
// @Tags Plans
// @Produce json
// @Success 200 {array} PlanResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = MapPlanToResponse(&plans[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetActivePlan godoc
// @Summary Get the caller's in-progress plan
// @Description Returns 204 when no plan is in progress.
// @Tags Plans
// @Produce json
// @Success 200 {object} PlanResponse
// @Success 204 "No active plan"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /plans/active [get]
func (h *PlanHandler) GetActivePlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}

	plan, err := h.planService.GetActivePlan(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if plan == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// GetPlan godoc
// @Summary Get one plan by id
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} PlanResponse
// @Failure 404 {object} gin.H "Not found (including foreign ids)"
// @Router /plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), userID, planID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// GetPlanPeriod godoc
// @Summary Get a single period of a plan by its order
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Param order path int true "Period order (1-based)"
// @Success 200 {object} PeriodResponse
// @Failure 404 {object} gin.H "Plan or period not found"
// @Router /plans/{id}/periods/{order} [get]
func (h *PlanHandler) GetPlanPeriod(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := strconv.Atoi(c.Param("order"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid order parameter")
		return
	}

	period, err := h.planService.GetPlanPeriod(c.Request.Context(), userID, planID, order)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPeriodToResponse(*period))
}

// UpdatePlan godoc
// @Summary Update a plan's name, description and/or start date
// @Description Metadata and start date may change only while the plan is in progress. A start date change recomputes every period.
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param plan body UpdatePlanRequest true "Fields to update"
// @Success 200 {object} PlanResponse
// @Failure 400 {object} gin.H "Invalid input or date rule violation"
// @Failure 404 {object} gin.H "Not found"
// @Failure 409 {object} gin.H "Plan not in progress or periods overlap a cycle"
// @Router /plans/{id} [patch]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	var plan *domain.Plan
	if req.Name != nil || req.Description != nil {
		plan, err = h.planService.UpdatePlanMetadata(c.Request.Context(), userID, planID, req.Name, req.Description)
		if err != nil {
			respondDomainError(c, err)
			return
		}
	}
	// The start-date change runs after metadata so a combined request either
	// applies both or fails after the metadata write, same as two calls.
	if req.StartDate != nil {
		plan, err = h.planService.UpdatePlanStartDate(c.Request.Context(), userID, planID, *req.StartDate)
		if err != nil {
			respondDomainError(c, err)
			return
		}
	}
	if plan == nil {
		abortWithError(c, http.StatusBadRequest, "No updatable fields in request")
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// UpdatePlanPeriods godoc
// @Summary Replace a plan's period durations
// @Description The payload must address exactly the plan's existing periods by order. Dates are recomputed from the plan's start date.
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param periods body UpdatePlanPeriodsRequest true "New durations"
// @Success 200 {object} PlanResponse
// @Failure 400 {object} gin.H "Invalid durations"
// @Failure 404 {object} gin.H "Not found"
// @Failure 409 {object} gin.H "Plan not in progress or periods overlap a cycle"
// @Failure 422 {object} gin.H "Period count mismatch or unknown order"
// @Router /plans/{id}/periods [put]
func (h *PlanHandler) UpdatePlanPeriods(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePlanPeriodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.UpdatePlanPeriods(c.Request.Context(), userID, planID, mapPeriodConfigs(req.Periods))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// CancelPlan godoc
// @Summary Cancel an in-progress plan
// @Description Cancellation is terminal; the plan can no longer be mutated.
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} PlanResponse
// @Failure 404 {object} gin.H "Not found"
// @Failure 409 {object} gin.H "Plan not in progress"
// @Router /plans/{id}/cancel [post]
func (h *PlanHandler) CancelPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.CancelPlan(c.Request.Context(), userID, planID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// CompletePlan godoc
// @Summary Complete an in-progress plan
// @Description Succeeds only once every period has finished.
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} PlanResponse
// @Failure 404 {object} gin.H "Not found"
// @Failure 409 {object} gin.H "Plan not in progress or periods still running"
// @Router /plans/{id}/complete [post]
func (h *PlanHandler) CompletePlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.CompletePlan(c.Request.Context(), userID, planID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// --- Mapping Helpers ---

func mapPeriodConfigs(reqs []PeriodConfigRequest) []domain.PeriodConfig {
	configs := make([]domain.PeriodConfig, len(reqs))
	for i, r := range reqs {
		configs[i] = domain.PeriodConfig{
			Order:           r.Order,
			FastingDuration: r.FastingDuration,
			EatingWindow:    r.EatingWindow,
		}
	}
	return configs
}

func mapPeriodToResponse(p domain.Period) PeriodResponse {
	return PeriodResponse{
		Order:            p.Order,
		FastingDuration:  p.FastingDuration,
		EatingWindow:     p.EatingWindow,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		FastingStartDate: p.FastingStartDate,
		FastingEndDate:   p.FastingEndDate,
		EatingStartDate:  p.EatingStartDate,
		EatingEndDate:    p.EatingEndDate,
	}
}

// MapPlanToResponse converts a domain Plan to its DTO.
func MapPlanToResponse(plan *domain.Plan) PlanResponse {
	if plan == nil {
		return PlanResponse{}
	}
	periods := make([]PeriodResponse, len(plan.Periods))
	for i, p := range plan.Periods {
		periods[i] = mapPeriodToResponse(p)
	}
	return PlanResponse{
		ID:          plan.ID.Hex(),
		UserID:      plan.UserID.Hex(),
		Name:        plan.Name,
		Description: plan.Description,
		Status:      string(plan.Status),
		StartDate:   plan.StartDate,
		Periods:     periods,
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   plan.UpdatedAt,
	}
}
