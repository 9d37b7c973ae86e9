// internal/service/template_service.go
package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/decision"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/repository"
)

// --- Service Interface ---
type PlanTemplateService interface {
	CreateFromPlan(ctx context.Context, userID, planID primitive.ObjectID, name string) (*domain.PlanTemplate, error)
	GetTemplate(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.PlanTemplate, error)
	ListTemplates(ctx context.Context, userID primitive.ObjectID) ([]domain.PlanTemplate, error)
	UpdateTemplateMetadata(ctx context.Context, userID, templateID primitive.ObjectID, name, description *string) (*domain.PlanTemplate, error)
	DeleteTemplate(ctx context.Context, userID, templateID primitive.ObjectID) error
	DuplicateTemplate(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.PlanTemplate, error)
	ApplyTemplate(ctx context.Context, userID, templateID primitive.ObjectID, startDate time.Time) (*domain.Plan, error)
}

// --- Service Implementation ---

// planTemplateService implements the PlanTemplateService interface.
// ApplyTemplate delegates plan instantiation to PlanService so templates
// go through the exact validation path a hand-built plan would.
type planTemplateService struct {
	templateRepo repository.PlanTemplateRepository
	planService  PlanService
	now          func() time.Time
}

// NewPlanTemplateService creates a new instance of planTemplateService.
func NewPlanTemplateService(templateRepo repository.PlanTemplateRepository, planService PlanService, now func() time.Time) PlanTemplateService {
	if now == nil {
		now = time.Now
	}
	return &planTemplateService{
		templateRepo: templateRepo,
		planService:  planService,
		now:          now,
	}
}

// checkTemplateLimit enforces the per-user template cap before any insert.
func (s *planTemplateService) checkTemplateLimit(ctx context.Context, userID primitive.ObjectID) error {
	count, err := s.templateRepo.CountByUser(ctx, userID)
	if err != nil {
		return err
	}
	var limitErr error
	decision.DecideTemplateCreation(count, domain.MaxPlanTemplates).Match(
		func() {},
		func(current, max int) {
			limitErr = &domain.PlanTemplateLimitReachedError{CurrentCount: current, MaxTemplates: max}
		},
	)
	return limitErr
}

// CreateFromPlan snapshots a plan's period durations into a new template.
// Dates are not stored; only the duration pairs survive.
func (s *planTemplateService) CreateFromPlan(ctx context.Context, userID, planID primitive.ObjectID, name string) (*domain.PlanTemplate, error) {
	if err := validatePlanName(name); err != nil {
		return nil, err
	}
	if err := s.checkTemplateLimit(ctx, userID); err != nil {
		return nil, err
	}

	plan, err := s.planService.GetPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	configs := make([]domain.PeriodConfig, len(plan.Periods))
	for i, p := range plan.Periods {
		configs[i] = p.Config()
	}

	template := &domain.PlanTemplate{
		UserID:      userID,
		Name:        name,
		Description: plan.Description,
		PeriodCount: len(configs),
		Periods:     configs,
	}
	templateID, err := s.templateRepo.Create(ctx, template)
	if err != nil {
		return nil, err
	}
	template.ID = templateID
	return template, nil
}

// GetTemplate retrieves one template scoped to its owner.
func (s *planTemplateService) GetTemplate(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.PlanTemplate, error) {
	return s.getOwned(ctx, userID, templateID)
}

// ListTemplates retrieves the user's templates, newest first.
func (s *planTemplateService) ListTemplates(ctx context.Context, userID primitive.ObjectID) ([]domain.PlanTemplate, error) {
	return s.templateRepo.ListByUser(ctx, userID)
}

// UpdateTemplateMetadata changes a template's name and/or description.
func (s *planTemplateService) UpdateTemplateMetadata(ctx context.Context, userID, templateID primitive.ObjectID, name, description *string) (*domain.PlanTemplate, error) {
	template, err := s.getOwned(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		if err := validatePlanName(*name); err != nil {
			return nil, err
		}
		template.Name = *name
	}
	if description != nil {
		if err := validatePlanDescription(*description); err != nil {
			return nil, err
		}
		template.Description = *description
	}

	if err := s.update(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

// DeleteTemplate removes a template, scoped to its owner.
func (s *planTemplateService) DeleteTemplate(ctx context.Context, userID, templateID primitive.ObjectID) error {
	err := s.templateRepo.Delete(ctx, templateID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.PlanTemplateNotFoundError{TemplateID: templateID}
	}
	return err
}

// DuplicateTemplate copies an existing template under a "(copy)" name. The
// copy counts against the same per-user limit.
func (s *planTemplateService) DuplicateTemplate(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.PlanTemplate, error) {
	original, err := s.getOwned(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTemplateLimit(ctx, userID); err != nil {
		return nil, err
	}

	name := original.Name + " (copy)"
	if runes := []rune(name); len(runes) > domain.MaxPlanNameLen {
		name = string(runes[:domain.MaxPlanNameLen])
	}

	configs := make([]domain.PeriodConfig, len(original.Periods))
	copy(configs, original.Periods)

	duplicate := &domain.PlanTemplate{
		UserID:      userID,
		Name:        name,
		Description: original.Description,
		PeriodCount: original.PeriodCount,
		Periods:     configs,
	}
	duplicateID, err := s.templateRepo.Create(ctx, duplicate)
	if err != nil {
		return nil, err
	}
	duplicate.ID = duplicateID
	return duplicate, nil
}

// ApplyTemplate instantiates a plan from a template at the given start date.
// All plan creation rules apply: mutual exclusivity, duration bounds and the
// overlap check against recorded cycles.
func (s *planTemplateService) ApplyTemplate(ctx context.Context, userID, templateID primitive.ObjectID, startDate time.Time) (*domain.Plan, error) {
	template, err := s.getOwned(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}

	plan, err := s.planService.CreatePlan(ctx, userID, template.Name, template.Description, startDate, template.Periods)
	if err != nil {
		return nil, err
	}

	usedAt := s.now()
	template.LastUsedAt = &usedAt
	if err := s.update(ctx, template); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planTemplateService) getOwned(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.PlanTemplate, error) {
	template, err := s.templateRepo.GetByIDAndUser(ctx, templateID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.PlanTemplateNotFoundError{TemplateID: templateID}
		}
		return nil, err
	}
	return template, nil
}

func (s *planTemplateService) update(ctx context.Context, template *domain.PlanTemplate) error {
	if err := s.templateRepo.Update(ctx, template); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.PlanTemplateNotFoundError{TemplateID: template.ID}
		}
		return err
	}
	return nil
}
