package security

import (
	"errors"
	"testing"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

func TestScopeForStaffIsVenueBound(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleStaff, Venues: []string{"v1"}}
	scope := ScopeFor(user)
	if scope.All {
		t.Fatalf("staff scope must not be unrestricted")
	}
	if !scope.AllowsVenue("v1") || scope.AllowsVenue("v2") {
		t.Fatalf("unexpected venue visibility: %+v", scope)
	}
	f := scope.IncidentFilter()
	if !f.Scoped || len(f.VenueIDs) != 1 {
		t.Fatalf("unexpected filter %+v", f)
	}

	user.Venues[0] = "changed"
	if !scope.AllowsVenue("v1") {
		t.Fatalf("scope should not alias the user's venue slice")
	}
}

func TestScopeForStaffWithoutVenuesSeesNothing(t *testing.T) {
	scope := ScopeFor(&domain.User{Role: domain.RoleStaff})
	if scope.All || scope.AllowsVenue("v1") {
		t.Fatalf("staff without venues must see nothing")
	}
	if !scope.IncidentFilter().Scoped {
		t.Fatalf("empty venue set must still be a scoped filter")
	}
}

func TestScopeForManagerAndAdmin(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleManager, domain.RoleAdmin} {
		scope := ScopeFor(&domain.User{Role: role})
		if !scope.All || !scope.AllowsVenue("anything") {
			t.Fatalf("%s should see all venues", role)
		}
		if scope.IncidentFilter().Scoped {
			t.Fatalf("%s filter should be unscoped", role)
		}
	}
}

func TestValidateVenueAccess(t *testing.T) {
	actor := domain.Actor{ID: "u1", Role: domain.RoleStaff}
	scope := Scope{VenueIDs: []string{"v1"}}
	if err := ValidateVenueAccess(nil, actor, scope, "v1"); err != nil {
		t.Fatalf("expected access: %v", err)
	}
	if err := ValidateVenueAccess(nil, actor, scope, "v2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
