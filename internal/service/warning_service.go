package service

import (
	"context"
	"log/slog"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/events"
	"github.com/aryan0dhankhar/venueguard/internal/observability/metrics"
	"github.com/aryan0dhankhar/venueguard/internal/security"
)

type CreateWarningInput struct {
	Date      domain.Date `json:"date" validate:"required"`
	Offender  string      `json:"offender" validate:"required,uuid"`
	Incidents []string    `json:"incidents" validate:"required,min=1,dive,uuid"`
}

type UpdateWarningInput struct {
	Date      *domain.Date `json:"date"`
	Offender  *string      `json:"offender" validate:"omitempty,uuid"`
	Incidents *[]string    `json:"incidents" validate:"omitempty,min=1,dive,uuid"`
}

func (in UpdateWarningInput) empty() bool {
	return in.Date == nil && in.Offender == nil && in.Incidents == nil
}

// WarningService handles warnings. A warning is visible to staff when at
// least one of its incidents belongs to one of their venues.
type WarningService struct {
	base
}

func (s *WarningService) List(ctx context.Context, actor domain.Actor) ([]WarningView, error) {
	return s.list(ctx, actor, "")
}

// ForOffender returns the visible warnings naming one offender
func (s *WarningService) ForOffender(ctx context.Context, actor domain.Actor, offenderID string) ([]WarningView, error) {
	return s.list(ctx, actor, offenderID)
}

func (s *WarningService) list(ctx context.Context, actor domain.Actor, offenderID string) ([]WarningView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermViewWarnings); err != nil {
		return nil, err
	}
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	filter, err := s.scopes.WarningFilter(ctx, scope)
	if err != nil {
		return nil, err
	}
	filter.OffenderID = offenderID

	warnings, err := s.store.Repos().Warnings.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.hydrator.Warnings(ctx, warnings)
}

func (s *WarningService) Get(ctx context.Context, actor domain.Actor, id string) (*WarningView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermViewWarnings); err != nil {
		return nil, err
	}
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	warning, err := s.store.Repos().Warnings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	visible, err := s.scopes.warningVisible(ctx, scope, warning)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, domain.NotFound("warning %s not found", id)
	}
	return s.one(ctx, warning)
}

func (s *WarningService) Create(ctx context.Context, actor domain.Actor, in CreateWarningInput) (*WarningView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageWarnings); err != nil {
		return nil, err
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	warning := &domain.Warning{
		Date:        in.Date.Time(),
		OffenderID:  in.Offender,
		Incidents:   unique(in.Incidents),
		SubmittedBy: actor.ID,
	}
	if err := s.store.Repos().Warnings.Create(ctx, warning); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "warning created",
		slog.String("warning_id", warning.ID),
		slog.String("offender_id", warning.OffenderID),
		slog.Int("incidents", len(warning.Incidents)),
	)
	metrics.ObserveCreated("warning")
	s.changes.record(ctx, events.WarningCreated, actor, warning.ID, 0)

	return s.one(ctx, warning)
}

func (s *WarningService) Update(ctx context.Context, actor domain.Actor, id string, in UpdateWarningInput) (*WarningView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageWarnings); err != nil {
		return nil, err
	}
	if in.empty() {
		return nil, domain.InvalidInput("no update fields provided")
	}
	if in.Incidents != nil && len(*in.Incidents) == 0 {
		return nil, domain.InvalidInput("at least one incident is required")
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	warning, err := repos.Warnings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Date != nil {
		warning.Date = in.Date.Time()
	}
	if in.Offender != nil {
		warning.OffenderID = *in.Offender
	}
	if in.Incidents != nil {
		warning.Incidents = unique(*in.Incidents)
	}

	if err := repos.Warnings.Update(ctx, warning); err != nil {
		return nil, err
	}

	s.changes.record(ctx, events.WarningUpdated, actor, warning.ID, 0)
	return s.one(ctx, warning)
}

// Delete removes a warning. Bans citing it keep the dangling id, which
// hydration drops.
func (s *WarningService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageWarnings); err != nil {
		return err
	}
	if err := s.store.Repos().Warnings.Delete(ctx, id); err != nil {
		return err
	}

	metrics.ObserveDeleted("warning")
	s.changes.record(ctx, events.WarningDeleted, actor, id, 0)
	return nil
}

func (s *WarningService) one(ctx context.Context, warning *domain.Warning) (*WarningView, error) {
	views, err := s.hydrator.Warnings(ctx, []*domain.Warning{warning})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
