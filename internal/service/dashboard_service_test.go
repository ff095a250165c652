package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

func TestRecentBansAreCappedAndNewestFirst(t *testing.T) {
	f := newFixture(t, false)
	repos := f.store.Repos()

	for i := 1; i <= 6; i++ {
		b := &domain.Ban{Date: day(2024, 3, i), OffenderID: f.john.ID, Warnings: []string{f.warning1.ID}, SubmittedBy: f.admin.ID}
		require.NoError(t, repos.Bans.Create(f.ctx, b))
	}

	got, err := f.svc.Dashboard.RecentBans(f.ctx, f.staff)
	require.NoError(t, err)
	require.Len(t, got, RecentLimit)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Date.After(got[i-1].Date), "bans must be sorted by date descending")
	}
	assert.Equal(t, f.ban1.ID, got[0].ID)
	for _, b := range got {
		assert.NotEqual(t, f.ban2.ID, b.ID)
	}
}

func TestRecentIncidentsTiesKeepInsertionOrder(t *testing.T) {
	f := newFixture(t, false)
	repos := f.store.Repos()

	same := day(2024, 12, 24)
	first := &domain.Incident{Date: same, Description: "first", VenueID: f.downtown.ID, SubmittedBy: f.staff.ID}
	second := &domain.Incident{Date: same, Description: "second", VenueID: f.downtown.ID, SubmittedBy: f.staff.ID}
	require.NoError(t, repos.Incidents.Create(f.ctx, first))
	require.NoError(t, repos.Incidents.Create(f.ctx, second))

	got, err := f.svc.Dashboard.RecentIncidents(f.ctx, f.staff)
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID, f.incident1.ID}, incidentIDs(got))
}

func TestRecentWarningsVisibleToManagers(t *testing.T) {
	f := newFixture(t, false)

	got, err := f.svc.Dashboard.RecentWarnings(f.ctx, f.manager)
	require.NoError(t, err)
	assert.Equal(t, []string{f.warning2.ID, f.warning1.ID}, warningIDs(got))
	require.NotNil(t, got[0].Offender)
	assert.Equal(t, "Jane", got[0].Offender.FirstName)
	require.Len(t, got[0].Incidents, 1)
	assert.Equal(t, "Beachside Bar", got[0].Incidents[0].Venue.Name)
}

func TestStatsAreScoped(t *testing.T) {
	f := newFixture(t, false)

	staff, err := f.svc.Dashboard.Stats(f.ctx, f.staff)
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{TotalIncidents: 1, TotalWarnings: 1, TotalBans: 1, TotalVenues: 1}, *staff)

	admin, err := f.svc.Dashboard.Stats(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{TotalIncidents: 2, TotalWarnings: 2, TotalBans: 2, TotalVenues: 2}, *admin)

	idle, err := f.svc.Dashboard.Stats(f.ctx, f.idle)
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{}, *idle)
}

func TestStatsCacheInvalidatedByMutation(t *testing.T) {
	f := newFixture(t, false)

	before, err := f.svc.Dashboard.Stats(f.ctx, f.staff)
	require.NoError(t, err)
	assert.Equal(t, 1, before.TotalIncidents)

	// writes that bypass the services are not seen while the entry is cached
	direct := &domain.Incident{Date: day(2024, 10, 1), Description: "direct", VenueID: f.downtown.ID, SubmittedBy: f.staff.ID}
	require.NoError(t, f.store.Repos().Incidents.Create(f.ctx, direct))
	cached, err := f.svc.Dashboard.Stats(f.ctx, f.staff)
	require.NoError(t, err)
	assert.Equal(t, 1, cached.TotalIncidents)

	_, err = f.svc.Incidents.Create(f.ctx, f.staff, CreateIncidentInput{
		Date:        domain.DateOf(day(2024, 10, 2)),
		Description: "through the service",
		Venue:       f.downtown.ID,
	})
	require.NoError(t, err)

	after, err := f.svc.Dashboard.Stats(f.ctx, f.staff)
	require.NoError(t, err)
	assert.Equal(t, 3, after.TotalIncidents)
}

func TestReportResolvesNames(t *testing.T) {
	f := newFixture(t, false)

	report, err := f.svc.Reports.BuildIncidentReport(f.ctx, f.manager, "2024-05-01", "2024-05-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", report.StartDate)
	assert.Equal(t, "2024-05-31", report.EndDate)
	assert.Equal(t, 1, report.TotalIncidents)
	require.Len(t, report.Incidents, 1)
	assert.Equal(t, "Downtown Club", report.Incidents[0].Venue)
	assert.Equal(t, "staff", report.Incidents[0].SubmittedBy)
	assert.Equal(t, "Verbal altercation at the bar", report.Incidents[0].Description)
}

func TestReportIsUnscopedAndInclusive(t *testing.T) {
	f := newFixture(t, false)
	repos := f.store.Repos()

	late := &domain.Incident{Date: time.Date(2024, 6, 30, 23, 30, 0, 0, time.UTC), Description: "late", VenueID: "7c9e2b4a-1d3f-4e5a-8b6c-0a2d4f6b8e10", SubmittedBy: "3e5a7c9b-2d4f-4a6b-8c0e-1f3b5d7a9c20"}
	require.NoError(t, repos.Incidents.Create(f.ctx, late))

	report, err := f.svc.Reports.BuildIncidentReport(f.ctx, f.admin, "2024-06-01", "2024-06-30")
	require.NoError(t, err)
	require.Equal(t, 2, report.TotalIncidents)
	assert.Equal(t, f.incident2.ID, report.Incidents[0].ID)
	assert.Equal(t, "Beachside Bar", report.Incidents[0].Venue)
	assert.Equal(t, "Unknown Venue", report.Incidents[1].Venue)
	assert.Equal(t, "Unknown User", report.Incidents[1].SubmittedBy)
}

// countingStore records every repository access
type countingStore struct {
	domain.Store
	calls int
}

func (s *countingStore) Repos() *domain.Repositories {
	s.calls++
	return s.Store.Repos()
}

func (s *countingStore) RunInTx(ctx context.Context, fn func(context.Context, *domain.Repositories) error) error {
	s.calls++
	return s.Store.RunInTx(ctx, fn)
}

func TestReportRejectsBadRangeBeforeQuerying(t *testing.T) {
	f := newFixture(t, false)
	store := &countingStore{Store: f.store}
	reports := New(Dependencies{Store: store, Logger: f.svc.Reports.logger}).Reports

	_, err := reports.BuildIncidentReport(f.ctx, f.manager, "2024-05-01", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = reports.BuildIncidentReport(f.ctx, f.manager, "2024-06-01", "2024-05-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = reports.BuildIncidentReport(f.ctx, f.manager, "yesterday", "2024-05-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = reports.BuildIncidentReport(f.ctx, f.staff, "2024-05-01", "2024-05-31")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.Zero(t, store.calls)
}
