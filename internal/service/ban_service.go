package service

import (
	"context"
	"log/slog"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/events"
	"github.com/aryan0dhankhar/venueguard/internal/observability/metrics"
	"github.com/aryan0dhankhar/venueguard/internal/security"
)

type CreateBanInput struct {
	Date     domain.Date `json:"date" validate:"required"`
	Offender string      `json:"offender" validate:"required,uuid"`
	Warnings []string    `json:"warnings" validate:"required,min=1,dive,uuid"`
}

type UpdateBanInput struct {
	Date     *domain.Date `json:"date"`
	Offender *string      `json:"offender" validate:"omitempty,uuid"`
	Warnings *[]string    `json:"warnings" validate:"omitempty,min=1,dive,uuid"`
}

func (in UpdateBanInput) empty() bool {
	return in.Date == nil && in.Offender == nil && in.Warnings == nil
}

// BanService handles bans. A ban is visible to staff when one of its
// warnings is.
type BanService struct {
	base
}

func (s *BanService) List(ctx context.Context, actor domain.Actor) ([]BanView, error) {
	return s.list(ctx, actor, "")
}

// ForOffender returns the visible bans naming one offender
func (s *BanService) ForOffender(ctx context.Context, actor domain.Actor, offenderID string) ([]BanView, error) {
	return s.list(ctx, actor, offenderID)
}

func (s *BanService) list(ctx context.Context, actor domain.Actor, offenderID string) ([]BanView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermViewBans); err != nil {
		return nil, err
	}
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	filter, err := s.scopes.BanFilter(ctx, scope)
	if err != nil {
		return nil, err
	}
	filter.OffenderID = offenderID

	bans, err := s.store.Repos().Bans.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.hydrator.Bans(ctx, bans)
}

func (s *BanService) Get(ctx context.Context, actor domain.Actor, id string) (*BanView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermViewBans); err != nil {
		return nil, err
	}
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	ban, err := s.store.Repos().Bans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	visible, err := s.scopes.banVisible(ctx, scope, ban)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, domain.NotFound("ban %s not found", id)
	}
	return s.one(ctx, ban)
}

func (s *BanService) Create(ctx context.Context, actor domain.Actor, in CreateBanInput) (*BanView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageBans); err != nil {
		return nil, err
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	ban := &domain.Ban{
		Date:        in.Date.Time(),
		OffenderID:  in.Offender,
		Warnings:    unique(in.Warnings),
		SubmittedBy: actor.ID,
	}
	if err := s.store.Repos().Bans.Create(ctx, ban); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "ban created",
		slog.String("ban_id", ban.ID),
		slog.String("offender_id", ban.OffenderID),
	)
	metrics.ObserveCreated("ban")
	s.changes.record(ctx, events.BanCreated, actor, ban.ID, 0)

	return s.one(ctx, ban)
}

func (s *BanService) Update(ctx context.Context, actor domain.Actor, id string, in UpdateBanInput) (*BanView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageBans); err != nil {
		return nil, err
	}
	if in.empty() {
		return nil, domain.InvalidInput("no update fields provided")
	}
	if in.Warnings != nil && len(*in.Warnings) == 0 {
		return nil, domain.InvalidInput("at least one warning is required")
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	ban, err := repos.Bans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Date != nil {
		ban.Date = in.Date.Time()
	}
	if in.Offender != nil {
		ban.OffenderID = *in.Offender
	}
	if in.Warnings != nil {
		ban.Warnings = unique(*in.Warnings)
	}

	if err := repos.Bans.Update(ctx, ban); err != nil {
		return nil, err
	}

	s.changes.record(ctx, events.BanUpdated, actor, ban.ID, 0)
	return s.one(ctx, ban)
}

func (s *BanService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageBans); err != nil {
		return err
	}
	if err := s.store.Repos().Bans.Delete(ctx, id); err != nil {
		return err
	}

	metrics.ObserveDeleted("ban")
	s.changes.record(ctx, events.BanDeleted, actor, id, 0)
	return nil
}

func (s *BanService) one(ctx context.Context, ban *domain.Ban) (*BanView, error) {
	views, err := s.hydrator.Bans(ctx, []*domain.Ban{ban})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
