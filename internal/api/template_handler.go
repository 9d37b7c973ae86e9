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

// TemplateHandler holds the plan template service dependency.
type TemplateHandler struct {
	templateService service.PlanTemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService service.PlanTemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// --- Request/Response Structs ---

type CreateTemplateRequest struct {
	PlanID string `json:"planId" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

type UpdateTemplateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ApplyTemplateRequest struct {
	StartDate time.Time `json:"startDate" binding:"required"`
}

type TemplateResponse struct {
	ID          string                `json:"id"`
	UserID      string                `json:"userId"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	PeriodCount int                   `json:"periodCount"`
	Periods     []PeriodConfigRequest `json:"periods"`
	LastUsedAt  *time.Time            `json:"lastUsedAt,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// --- Handler Methods ---

// CreateTemplate godoc
// @Summary Create a template from an existing plan
// @Description Snapshots the plan's period durations, stripped of dates. Each user may keep a limited number of templates.
// @Tags Templates
// @Accept json
// @Produce json
// @Param template body CreateTemplateRequest true "Source plan and template name"
// @Success 201 {object} TemplateResponse "Template created"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Source plan not found"
// @Failure 409 {object} gin.H "Template limit reached"
// @Router /plan-templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid planId")
		return
	}

	template, err := h.templateService.CreateFromPlan(c.Request.Context(), userID, planID, req.Name)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapTemplateToResponse(template))
}

// ListTemplates godoc
// @Summary List the caller's templates
// @Tags Templates
// @Produce json
// @Success 200 {array} TemplateResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /plan-templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}

	templates, err := h.templateService.ListTemplates(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	responses := make([]TemplateResponse, len(templates))
	for i := range templates {
		responses[i] = MapTemplateToResponse(&templates[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetTemplate godoc
// @Summary Get one template by id
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} TemplateResponse
// @Failure 404 {object} gin.H "Not found (including foreign ids)"
// @Router /plan-templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	template, err := h.templateService.GetTemplate(c.Request.Context(), userID, templateID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTemplateToResponse(template))
}

// UpdateTemplate godoc
// @Summary Update a template's name and/or description
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param template body UpdateTemplateRequest true "Fields to update"
// @Success 200 {object} TemplateResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Not found"
// @Router /plan-templates/{id} [patch]
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	template, err := h.templateService.UpdateTemplateMetadata(c.Request.Context(), userID, templateID, req.Name, req.Description)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTemplateToResponse(template))
}

// DeleteTemplate godoc
// @Summary Delete a template
// @Tags Templates
// @Param id path string true "Template ID"
// @Success 204 "Template deleted"
// @Failure 404 {object} gin.H "Not found"
// @Router /plan-templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.templateService.DeleteTemplate(c.Request.Context(), userID, templateID); err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DuplicateTemplate godoc
// @Summary Duplicate a template
// @Description Creates a copy of the template. The copy counts against the template limit.
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 201 {object} TemplateResponse "Copy created"
// @Failure 404 {object} gin.H "Not found"
// @Failure 409 {object} gin.H "Template limit reached"
// @Router /plan-templates/{id}/duplicate [post]
func (h *TemplateHandler) DuplicateTemplate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	duplicate, err := h.templateService.DuplicateTemplate(c.Request.Context(), userID, templateID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapTemplateToResponse(duplicate))
}

// ApplyTemplate godoc
// @Summary Instantiate a plan from a template
// @Description Creates a new plan from the template's durations with dates laid out from the supplied start date. Every plan creation rule applies.
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param application body ApplyTemplateRequest true "Start date for the new plan"
// @Success 201 {object} PlanResponse "Plan created"
// @Failure 400 {object} gin.H "Invalid input or date rule violation"
// @Failure 404 {object} gin.H "Not found"
// @Failure 409 {object} gin.H "Active plan/cycle exists or periods overlap a cycle"
// @Router /plan-templates/{id}/apply [post]
func (h *TemplateHandler) ApplyTemplate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identifier in token")
		return
	}
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ApplyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.templateService.ApplyTemplate(c.Request.Context(), userID, templateID, req.StartDate)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// MapTemplateToResponse converts a domain PlanTemplate to its DTO.
func MapTemplateToResponse(template *domain.PlanTemplate) TemplateResponse {
	if template == nil {
		return TemplateResponse{}
	}
	periods := make([]PeriodConfigRequest, len(template.Periods))
	for i, p := range template.Periods {
		periods[i] = PeriodConfigRequest{
			Order:           p.Order,
			FastingDuration: p.FastingDuration,
			EatingWindow:    p.EatingWindow,
		}
	}
	return TemplateResponse{
		ID:          template.ID.Hex(),
		UserID:      template.UserID.Hex(),
		Name:        template.Name,
		Description: template.Description,
		PeriodCount: template.PeriodCount,
		Periods:     periods,
		LastUsedAt:  template.LastUsedAt,
		CreatedAt:   template.CreatedAt,
		UpdatedAt:   template.UpdatedAt,
	}
}
