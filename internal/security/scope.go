package security

import (
	"log/slog"
	"slices"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

// Scope is the set of venues whose records an actor may see
type Scope struct {
	All      bool
	VenueIDs []string
}

// ScopeFor derives the visibility scope of a user.
// Staff are limited to their assigned venues; managers and admins see everything.
func ScopeFor(user *domain.User) Scope {
	if user.Role != domain.RoleStaff {
		return Scope{All: true}
	}
	venues := make([]string, len(user.Venues))
	copy(venues, user.Venues)
	return Scope{VenueIDs: venues}
}

// AllowsVenue reports whether records owned by venueID are visible
func (s Scope) AllowsVenue(venueID string) bool {
	return s.All || slices.Contains(s.VenueIDs, venueID)
}

// IncidentFilter turns the scope into a store filter
func (s Scope) IncidentFilter() domain.IncidentFilter {
	if s.All {
		return domain.IncidentFilter{}
	}
	return domain.IncidentFilter{Scoped: true, VenueIDs: s.VenueIDs}
}

// ValidateVenueAccess rejects access to a venue outside the scope
func ValidateVenueAccess(logger *slog.Logger, actor domain.Actor, scope Scope, venueID string) error {
	if scope.AllowsVenue(venueID) {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("venue access denied",
		slog.String("user_id", actor.ID),
		slog.String("role", string(actor.Role)),
		slog.String("venue_id", venueID),
	)
	return domain.NotFound("venue %s not found", venueID)
}
