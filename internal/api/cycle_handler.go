package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/service"
)

// CycleHandler holds the cycle service dependency.
type CycleHandler struct {
	cycleService service.CycleService
}

// NewCycleHandler creates a new CycleHandler.
func NewCycleHandler(cycleService service.CycleService) *CycleHandler {
	return &CycleHandler{cycleService: cycleService}
}

// --- Request/Response Structs ---

type StartCycleRequest struct {
	StartDate time.Time `json:"startDate" binding:"required"`
	Notes     string    `json:"notes"`
}

type UpdateCycleRequest struct {
	ID        *string    `json:"id"` // must match the URL when present
	StartDate *time.Time `json:"startDate"`
	Notes     *string    `json:"notes"`
}

type CompleteCycleRequest struct {
	EndDate *time.Time `json:"endDate"` // nil means "now"
}

type CycleResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Status    string     `json:"status"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// --- Handler Methods ---

// StartCycle godoc
// @Summary Start a fasting cycle
// @Description Begins a new fast. The start date must be in the past and the user may hold no other active cycle or plan.
// @Tags Cycles
// @Accept json
// @Produce json
// @Param cycle body StartCycleRequest true "Cycle details"
// @Success 201 {object} CycleResponse "Cycle started"
// @Failure 400 {object} gin.H "Invalid input or date rule violation"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 409 {object} gin.H "Active cycle or plan already exists"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /cycles [post]
func (h *CycleHandler) StartCycle(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}

	var req StartCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	cycle, err := h.cycleService.StartCycle(c.Request.Context(), userID, req.StartDate, req.Notes)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapCycleToResponse(cycle))
}

// ListCycles godoc
// @Summary List the caller's cycles
// @Tags Cycles
// @Produce json
// @Success 200 {array} CycleResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /cycles [get]
func (h *CycleHandler) ListCycles(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}

	cycles, err := h.cycleService.ListCycles(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	responses := make([]CycleResponse, len(cycles))
	for i := range cycles {
		responses[i] = MapCycleToResponse(&cycles[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetActiveCycle godoc
// @Summary Get the caller's running cycle
// @Description Returns 204 when no cycle is in progress.
// @Tags Cycles
// @Produce json
// @Success 200 {object} CycleResponse
// @Success 204 "No active cycle"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /cycles/active [get]
func (h *CycleHandler) GetActiveCycle(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}

	cycle, err := h.cycleService.GetActiveCycle(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if cycle == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, MapCycleToResponse(cycle))
}

// GetCycle godoc
// @Summary Get one cycle by id
// @Tags Cycles
// @Produce json
// @Param id path string true "Cycle ID"
// @Success 200 {object} CycleResponse
// @Failure 404 {object} gin.H "Not found (including foreign ids)"
// @Router /cycles/{id} [get]
func (h *CycleHandler) GetCycle(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}
	cycleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cycle, err := h.cycleService.GetCycle(c.Request.Context(), userID, cycleID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapCycleToResponse(cycle))
}

// UpdateCycle godoc
// @Summary Update a cycle's start date and/or notes
// @Description Moving the start date is only allowed while the cycle is in progress. A body id, when present, must match the URL.
// @Tags Cycles
// @Accept json
// @Produce json
// @Param id path string true "Cycle ID"
// @Param cycle body UpdateCycleRequest true "Fields to update"
// @Success 200 {object} CycleResponse
// @Failure 400 {object} gin.H "Invalid input or date rule violation"
// @Failure 404 {object} gin.H "Not found"
// @Failure 409 {object} gin.H "Id mismatch or cycle not in progress"
// @Router /cycles/{id} [patch]
func (h *CycleHandler) UpdateCycle(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}
	cycleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	// A body id must agree with the URL.
	if req.ID != nil {
		bodyID, err := primitive.ObjectIDFromHex(*req.ID)
		if err != nil || bodyID != cycleID {
			respondDomainError(c, &domain.CycleIDMismatchError{Expected: cycleID, Actual: bodyID})
			return
		}
	}

	cycle, err := h.cycleService.UpdateCycle(c.Request.Context(), userID, cycleID, req.StartDate, req.Notes)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapCycleToResponse(cycle))
}

// CompleteCycle godoc
// @Summary Complete a running cycle
// @Description Ends the fast. Omitting endDate completes it at the current time. The full date rule set applies.
// @Tags Cycles
// @Accept json
// @Produce json
// @Param id path string true "Cycle ID"
// @Param completion body CompleteCycleRequest false "Optional end date"
// @Success 200 {object} CycleResponse
// @Failure 400 {object} gin.H "Date rule violation"
// @Failure 404 {object} gin.H "Not found"
// @Failure 409 {object} gin.H "Cycle not in progress or overlap"
// @Router /cycles/{id}/complete [post]
func (h *CycleHandler) CompleteCycle(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}
	cycleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CompleteCycleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
			return
		}
	}

	cycle, err := h.cycleService.CompleteCycle(c.Request.Context(), userID, cycleID, req.EndDate)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapCycleToResponse(cycle))
}

// --- Helpers ---

// parseIDParam reads an ObjectID path parameter, aborting with 400 on junk.
func parseIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s parameter", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// MapCycleToResponse converts a domain Cycle to its DTO.
func MapCycleToResponse(cycle *domain.Cycle) CycleResponse {
	if cycle == nil {
		return CycleResponse{}
	}
	return CycleResponse{
		ID:        cycle.ID.Hex(),
		UserID:    cycle.UserID.Hex(),
		Status:    string(cycle.Status),
		StartDate: cycle.StartDate,
		EndDate:   cycle.EndDate,
		Notes:     cycle.Notes,
		CreatedAt: cycle.CreatedAt,
		UpdatedAt: cycle.UpdatedAt,
	}
}
