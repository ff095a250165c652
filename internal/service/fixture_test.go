package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/repository"
	"github.com/aryan0dhankhar/venueguard/internal/repository/memory"
	"github.com/aryan0dhankhar/venueguard/internal/security/auth"
)

// recorder captures published events
type recorder struct {
	mu     sync.Mutex
	events []string
	last   map[string]any
}

func (r *recorder) Publish(_ context.Context, subject string, data interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, subject)
	if r.last == nil {
		r.last = map[string]any{}
	}
	r.last[subject] = data
	return nil
}

func (r *recorder) Close() error { return nil }

// fixture is a small world: two venues, a staff user assigned to the first,
// one incident per venue, and a warning and ban chained to each incident.
type fixture struct {
	t      *testing.T
	ctx    context.Context
	store  *memory.Store
	svc    *Services
	events *recorder

	admin, manager, staff, idle domain.Actor

	downtown, beachside *domain.Venue
	john, jane          *domain.Offender

	incident1, incident2 *domain.Incident
	warning1, warning2   *domain.Warning
	ban1, ban2           *domain.Ban
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T, scopedOffenders bool) *fixture {
	t.Helper()
	f := &fixture{
		t:      t,
		ctx:    context.Background(),
		store:  memory.NewStore(),
		events: &recorder{},
	}
	repos := f.store.Repos()

	f.downtown = &domain.Venue{Name: "Downtown Club", Address: "123 Main St, Cityville"}
	f.beachside = &domain.Venue{Name: "Beachside Bar", Address: "456 Ocean Ave, Seaside"}
	require.NoError(t, repos.Venues.Create(f.ctx, f.downtown))
	require.NoError(t, repos.Venues.Create(f.ctx, f.beachside))

	f.admin = f.user("admin", domain.RoleAdmin, nil)
	f.manager = f.user("manager", domain.RoleManager, nil)
	f.staff = f.user("staff", domain.RoleStaff, []string{f.downtown.ID})
	f.idle = f.user("idle", domain.RoleStaff, nil)

	dob := day(1990, time.January, 15)
	f.john = &domain.Offender{FirstName: "John", LastName: "Doe", DateOfBirth: &dob}
	f.jane = &domain.Offender{FirstName: "Jane", LastName: "Smith"}
	require.NoError(t, repos.Offenders.Create(f.ctx, f.john))
	require.NoError(t, repos.Offenders.Create(f.ctx, f.jane))

	f.incident1 = &domain.Incident{Date: day(2024, time.May, 10), Description: "Verbal altercation at the bar", VenueID: f.downtown.ID, SubmittedBy: f.staff.ID}
	f.incident2 = &domain.Incident{Date: day(2024, time.June, 20), Description: "Unauthorized entry attempt", VenueID: f.beachside.ID, SubmittedBy: f.manager.ID}
	require.NoError(t, repos.Incidents.Create(f.ctx, f.incident1))
	require.NoError(t, repos.Incidents.Create(f.ctx, f.incident2))

	f.warning1 = &domain.Warning{Date: day(2024, time.May, 11), OffenderID: f.john.ID, Incidents: []string{f.incident1.ID}, SubmittedBy: f.staff.ID}
	f.warning2 = &domain.Warning{Date: day(2024, time.June, 21), OffenderID: f.jane.ID, Incidents: []string{f.incident2.ID}, SubmittedBy: f.manager.ID}
	require.NoError(t, repos.Warnings.Create(f.ctx, f.warning1))
	require.NoError(t, repos.Warnings.Create(f.ctx, f.warning2))

	f.ban1 = &domain.Ban{Date: day(2024, time.May, 15), OffenderID: f.john.ID, Warnings: []string{f.warning1.ID}, SubmittedBy: f.manager.ID}
	f.ban2 = &domain.Ban{Date: day(2024, time.June, 25), OffenderID: f.jane.ID, Warnings: []string{f.warning2.ID}, SubmittedBy: f.admin.ID}
	require.NoError(t, repos.Bans.Create(f.ctx, f.ban1))
	require.NoError(t, repos.Bans.Create(f.ctx, f.ban2))

	f.svc = New(Dependencies{
		Store:           f.store,
		Events:          f.events,
		StatsCache:      repository.NewMemoryStatsCache(time.Minute),
		Tokens:          auth.NewTokenManager("test-secret", "venueguard"),
		TokenTTL:        time.Hour,
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		ScopedOffenders: scopedOffenders,
	})
	return f
}

func (f *fixture) user(name string, role domain.Role, venues []string) domain.Actor {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(name+"password"), bcrypt.MinCost)
	require.NoError(f.t, err)

	u := &domain.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
		Venues:       venues,
	}
	require.NoError(f.t, f.store.Repos().Users.Create(f.ctx, u))
	return domain.Actor{ID: u.ID, Role: role}
}

func incidentIDs(views []IncidentView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func warningIDs(views []WarningView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func banIDs(views []BanView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func ptr[T any](v T) *T { return &v }
