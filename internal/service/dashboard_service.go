package service

import (
	"context"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/security"
)

// RecentLimit is the size of each recent-records list
const RecentLimit = 5

// DashboardService builds the scoped dashboard: recent records and counts
type DashboardService struct {
	base
	cache domain.StatsCache
}

// RecentIncidents returns the latest incidents by date in the actor's scope
func (s *DashboardService) RecentIncidents(ctx context.Context, actor domain.Actor) ([]IncidentView, error) {
	scope, err := s.gate(ctx, actor)
	if err != nil {
		return nil, err
	}
	filter := scope.IncidentFilter()
	filter.Order = domain.SortDateDesc
	filter.Limit = RecentLimit

	incidents, err := s.store.Repos().Incidents.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.hydrator.Incidents(ctx, incidents)
}

func (s *DashboardService) RecentWarnings(ctx context.Context, actor domain.Actor) ([]WarningView, error) {
	scope, err := s.gate(ctx, actor)
	if err != nil {
		return nil, err
	}
	filter, err := s.scopes.WarningFilter(ctx, scope)
	if err != nil {
		return nil, err
	}
	filter.Order = domain.SortDateDesc
	filter.Limit = RecentLimit

	warnings, err := s.store.Repos().Warnings.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.hydrator.Warnings(ctx, warnings)
}

func (s *DashboardService) RecentBans(ctx context.Context, actor domain.Actor) ([]BanView, error) {
	scope, err := s.gate(ctx, actor)
	if err != nil {
		return nil, err
	}
	filter, err := s.scopes.BanFilter(ctx, scope)
	if err != nil {
		return nil, err
	}
	filter.Order = domain.SortDateDesc
	filter.Limit = RecentLimit

	bans, err := s.store.Repos().Bans.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.hydrator.Bans(ctx, bans)
}

// Stats counts the records in the actor's scope. Staff see the number of
// venues assigned to them, everyone else the total number of venues.
func (s *DashboardService) Stats(ctx context.Context, actor domain.Actor) (*domain.DashboardStats, error) {
	scope, err := s.gate(ctx, actor)
	if err != nil {
		return nil, err
	}

	gen := int64(-1)
	if s.cache != nil {
		cached, g, ok := s.cache.Get(ctx, actor.ID)
		if ok {
			return cached, nil
		}
		gen = g
	}

	repos := s.store.Repos()
	var stats domain.DashboardStats

	if stats.TotalIncidents, err = repos.Incidents.Count(ctx, scope.IncidentFilter()); err != nil {
		return nil, err
	}

	wf, err := s.scopes.WarningFilter(ctx, scope)
	if err != nil {
		return nil, err
	}
	if stats.TotalWarnings, err = repos.Warnings.Count(ctx, wf); err != nil {
		return nil, err
	}

	bf, err := s.scopes.BanFilter(ctx, scope)
	if err != nil {
		return nil, err
	}
	if stats.TotalBans, err = repos.Bans.Count(ctx, bf); err != nil {
		return nil, err
	}

	if scope.All {
		if stats.TotalVenues, err = repos.Venues.Count(ctx); err != nil {
			return nil, err
		}
	} else {
		stats.TotalVenues = len(scope.VenueIDs)
	}

	if s.cache != nil {
		s.cache.Set(ctx, actor.ID, gen, stats)
	}
	return &stats, nil
}

func (s *DashboardService) gate(ctx context.Context, actor domain.Actor) (security.Scope, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermViewDashboard); err != nil {
		return security.Scope{}, err
	}
	return s.scopes.Resolve(ctx, actor)
}
