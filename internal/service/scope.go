package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/security"
)

// ScopeResolver derives what an actor may see from their stored user record
type ScopeResolver struct {
	store  domain.Store
	logger *slog.Logger
}

func NewScopeResolver(store domain.Store, logger *slog.Logger) *ScopeResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScopeResolver{store: store, logger: logger}
}

// Resolve loads the actor and returns their scope.
// A deleted actor is rejected rather than treated as unrestricted.
func (r *ScopeResolver) Resolve(ctx context.Context, actor domain.Actor) (security.Scope, error) {
	user, err := r.store.Repos().Users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Warn("scope requested for unknown user", slog.String("user_id", actor.ID))
			return security.Scope{}, domain.NotFound("user %s not found", actor.ID)
		}
		return security.Scope{}, err
	}
	return security.ScopeFor(user), nil
}

// WarningFilter extends the scope to warnings through their incidents
func (r *ScopeResolver) WarningFilter(ctx context.Context, scope security.Scope) (domain.WarningFilter, error) {
	if scope.All {
		return domain.WarningFilter{}, nil
	}
	incidents, err := r.store.Repos().Incidents.List(ctx, scope.IncidentFilter())
	if err != nil {
		return domain.WarningFilter{}, err
	}
	ids := make([]string, 0, len(incidents))
	for _, i := range incidents {
		ids = append(ids, i.ID)
	}
	return domain.WarningFilter{Scoped: true, IncidentIDs: ids}, nil
}

// BanFilter extends the scope to bans through their warnings
func (r *ScopeResolver) BanFilter(ctx context.Context, scope security.Scope) (domain.BanFilter, error) {
	if scope.All {
		return domain.BanFilter{}, nil
	}
	wf, err := r.WarningFilter(ctx, scope)
	if err != nil {
		return domain.BanFilter{}, err
	}
	warnings, err := r.store.Repos().Warnings.List(ctx, wf)
	if err != nil {
		return domain.BanFilter{}, err
	}
	ids := make([]string, 0, len(warnings))
	for _, w := range warnings {
		ids = append(ids, w.ID)
	}
	return domain.BanFilter{Scoped: true, WarningIDs: ids}, nil
}

// warningVisible reports whether any incident of w is in scope
func (r *ScopeResolver) warningVisible(ctx context.Context, scope security.Scope, w *domain.Warning) (bool, error) {
	if scope.All {
		return true, nil
	}
	incidents, err := r.store.Repos().Incidents.GetByIDs(ctx, w.Incidents)
	if err != nil {
		return false, err
	}
	for _, i := range incidents {
		if scope.AllowsVenue(i.VenueID) {
			return true, nil
		}
	}
	return false, nil
}

// banVisible reports whether any warning of b is in scope
func (r *ScopeResolver) banVisible(ctx context.Context, scope security.Scope, b *domain.Ban) (bool, error) {
	if scope.All {
		return true, nil
	}
	warnings, err := r.store.Repos().Warnings.GetByIDs(ctx, b.Warnings)
	if err != nil {
		return false, err
	}
	for _, w := range warnings {
		ok, err := r.warningVisible(ctx, scope, w)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}
