package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/events"
)

func TestDeleteIncidentPullsItFromWarnings(t *testing.T) {
	f := newFixture(t, false)
	repos := f.store.Repos()

	shared := &domain.Warning{Date: day(2024, 7, 2), OffenderID: f.john.ID, Incidents: []string{f.incident1.ID, f.incident2.ID}, SubmittedBy: f.admin.ID}
	require.NoError(t, repos.Warnings.Create(f.ctx, shared))

	require.NoError(t, f.svc.Incidents.Delete(f.ctx, f.staff, f.incident1.ID))

	remaining, err := repos.Warnings.List(f.ctx, domain.WarningFilter{Scoped: true, IncidentIDs: []string{f.incident1.ID}})
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// emptied warnings and the bans citing them survive
	w1, err := repos.Warnings.GetByID(f.ctx, f.warning1.ID)
	require.NoError(t, err)
	assert.Empty(t, w1.Incidents)
	_, err = repos.Bans.GetByID(f.ctx, f.ban1.ID)
	assert.NoError(t, err)

	got, err := repos.Warnings.GetByID(f.ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{f.incident2.ID}, got.Incidents)

	evt, ok := f.events.last[events.IncidentDeleted].(events.RecordEvent)
	require.True(t, ok)
	assert.Equal(t, int64(2), evt.Affected)
}

func TestDeleteIncidentTwiceIsNotFound(t *testing.T) {
	f := newFixture(t, false)
	repos := f.store.Repos()

	require.NoError(t, f.svc.Incidents.Delete(f.ctx, f.admin, f.incident2.ID))
	before, err := repos.Warnings.List(f.ctx, domain.WarningFilter{})
	require.NoError(t, err)

	err = f.svc.Incidents.Delete(f.ctx, f.admin, f.incident2.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	after, err := repos.Warnings.List(f.ctx, domain.WarningFilter{})
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

// failingDelete wraps the store so that incident deletes fail inside transactions
type failingDelete struct {
	domain.Store
}

type brokenIncidents struct {
	domain.IncidentRepository
}

func (brokenIncidents) Delete(context.Context, string) error {
	return domain.StoreFailure("failed to delete incident", assert.AnError)
}

func (s failingDelete) RunInTx(ctx context.Context, fn func(context.Context, *domain.Repositories) error) error {
	return s.Store.RunInTx(ctx, func(ctx context.Context, repos *domain.Repositories) error {
		wrapped := *repos
		wrapped.Incidents = brokenIncidents{repos.Incidents}
		return fn(ctx, &wrapped)
	})
}

func TestDeleteIncidentRollsBackCascadeOnFailure(t *testing.T) {
	f := newFixture(t, false)
	f.svc = New(Dependencies{Store: failingDelete{f.store}, Logger: f.svc.Incidents.logger})

	err := f.svc.Incidents.Delete(f.ctx, f.admin, f.incident1.ID)
	assert.ErrorIs(t, err, domain.ErrStoreFailure)

	w1, err := f.store.Repos().Warnings.GetByID(f.ctx, f.warning1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{f.incident1.ID}, w1.Incidents)
}

func TestCreateIncidentSetsSubmitterAndHydrates(t *testing.T) {
	f := newFixture(t, false)

	view, err := f.svc.Incidents.Create(f.ctx, f.staff, CreateIncidentInput{
		Date:        domain.DateOf(day(2024, 8, 1)),
		Description: "Glass thrown",
		Venue:       f.beachside.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, view.SubmittedBy)
	assert.Equal(t, f.staff.ID, view.SubmittedBy.ID)
	assert.Equal(t, "staff", view.SubmittedBy.Username)
	assert.Equal(t, "Beachside Bar", view.Venue.Name)
	assert.Contains(t, f.events.events, events.IncidentCreated)
}

func TestCreateIncidentValidation(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.Incidents.Create(f.ctx, f.staff, CreateIncidentInput{Description: "x", Venue: f.downtown.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "date is required", domain.MessageOf(err))

	_, err = f.svc.Incidents.Create(f.ctx, f.staff, CreateIncidentInput{Date: domain.DateOf(time.Now()), Description: "x", Venue: "downtown"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Incidents.Create(f.ctx, f.staff, CreateIncidentInput{
		Date:        domain.DateOf(time.Now()),
		Description: "x",
		Venue:       "0d7c1f0a-3b8e-4a7f-9e41-6f0a2b5c8d93",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.svc.Incidents.List(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUpdateIncidentIsPartial(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.Incidents.Update(f.ctx, f.staff, f.incident1.ID, UpdateIncidentInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "no update fields provided", domain.MessageOf(err))

	view, err := f.svc.Incidents.Update(f.ctx, f.staff, f.incident1.ID, UpdateIncidentInput{Description: ptr("Shouting match")})
	require.NoError(t, err)
	assert.Equal(t, "Shouting match", view.Description)
	assert.True(t, view.Date.Equal(f.incident1.Date))
	assert.Equal(t, f.staff.ID, view.SubmittedBy.ID)

	_, err = f.svc.Incidents.Update(f.ctx, f.staff, "6a1e0f3c-2d4b-4c8a-9f7e-1b3d5c7e9a20", UpdateIncidentInput{Description: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVenueDeleteLeavesIncidents(t *testing.T) {
	f := newFixture(t, false)

	venue, err := f.svc.Venues.Create(f.ctx, f.manager, CreateVenueInput{Name: "Harbour Lounge", Address: "9 Dock Rd"})
	require.NoError(t, err)

	incident, err := f.svc.Incidents.Create(f.ctx, f.manager, CreateIncidentInput{
		Date:        domain.DateOf(day(2024, 9, 3)),
		Description: "Fight on the terrace",
		Venue:       venue.ID,
	})
	require.NoError(t, err)

	got, err := f.svc.Incidents.Get(f.ctx, f.manager, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, "Harbour Lounge", got.Venue.Name)

	require.NoError(t, f.svc.Venues.Delete(f.ctx, f.manager, venue.ID))

	got, err = f.svc.Incidents.Get(f.ctx, f.manager, incident.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Venue)
}
