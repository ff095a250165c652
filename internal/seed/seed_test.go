package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/repository/memory"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRunLoadsDemoData(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	sum, err := Run(ctx, store, Options{Cost: bcrypt.MinCost}, quiet())
	require.NoError(t, err)
	assert.Equal(t, Summary{Users: 3, Venues: 2, Contacts: 2, Offenders: 2, Incidents: 2, Warnings: 2, Bans: 2}, *sum)

	repos := store.Repos()
	staff, err := repos.Users.GetByEmail(ctx, "staff@example.com")
	require.NoError(t, err)
	require.Len(t, staff.Venues, 1)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte("staffpassword")))

	incidents, err := repos.Incidents.List(ctx, domain.IncidentFilter{Scoped: true, VenueIDs: staff.Venues})
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, "Verbal altercation at the bar", incidents[0].Description)
	assert.Equal(t, "2024-05-10", domain.FormatDay(incidents[0].Date))

	warnings, err := repos.Warnings.List(ctx, domain.WarningFilter{Scoped: true, IncidentIDs: []string{incidents[0].ID}})
	require.NoError(t, err)
	require.Len(t, warnings, 1)

	bans, err := repos.Bans.List(ctx, domain.BanFilter{Scoped: true, WarningIDs: []string{warnings[0].ID}})
	require.NoError(t, err)
	assert.Len(t, bans, 1)
}

func TestRunSkipsSeededStoreUnlessReset(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	_, err := Run(ctx, store, Options{Cost: bcrypt.MinCost}, quiet())
	require.NoError(t, err)

	sum, err := Run(ctx, store, Options{Cost: bcrypt.MinCost}, quiet())
	require.NoError(t, err)
	assert.True(t, sum.Skipped)

	sum, err = Run(ctx, store, Options{Cost: bcrypt.MinCost, Reset: true}, quiet())
	require.NoError(t, err)
	assert.False(t, sum.Skipped)

	users, err := store.Repos().Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
	n, err := store.Repos().Incidents.Count(ctx, domain.IncidentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
