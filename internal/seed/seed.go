// Package seed loads the demo data set: three users, two venues with a
// contact each, two offenders and a chain of incidents, warnings and bans.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

// Options controls a seed run
type Options struct {
	// Reset deletes every existing record first. Without it a store that
	// already holds users is left untouched.
	Reset bool
	// Cost is the bcrypt cost for the demo passwords
	Cost int
}

// Summary reports what a seed run wrote
type Summary struct {
	Skipped   bool
	Users     int
	Venues    int
	Contacts  int
	Offenders int
	Incidents int
	Warnings  int
	Bans      int
}

type demoUser struct {
	name string
	role domain.Role
}

var demoUsers = []demoUser{
	{"admin", domain.RoleAdmin},
	{"manager", domain.RoleManager},
	{"staff", domain.RoleStaff},
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// Run seeds store in a single transaction
func Run(ctx context.Context, store domain.Store, opts Options, logger *slog.Logger) (*Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Cost == 0 {
		opts.Cost = bcrypt.DefaultCost
	}

	sum := &Summary{}
	err := store.RunInTx(ctx, func(ctx context.Context, repos *domain.Repositories) error {
		existing, err := repos.Users.List(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 && !opts.Reset {
			sum.Skipped = true
			return nil
		}
		if opts.Reset {
			if err := wipe(ctx, repos); err != nil {
				return err
			}
			logger.Info("existing data cleared")
		}
		return load(ctx, repos, opts.Cost, sum)
	})
	if err != nil {
		return nil, err
	}

	if sum.Skipped {
		logger.Info("store already seeded, skipping")
	} else {
		logger.Info("database seeded",
			slog.Int("users", sum.Users),
			slog.Int("incidents", sum.Incidents),
			slog.Int("warnings", sum.Warnings),
			slog.Int("bans", sum.Bans),
		)
	}
	return sum, nil
}

func load(ctx context.Context, repos *domain.Repositories, cost int, sum *Summary) error {
	downtown := &domain.Venue{Name: "Downtown Club", Address: "123 Main St, Cityville"}
	beachside := &domain.Venue{Name: "Beachside Bar", Address: "456 Ocean Ave, Seaside"}

	alice := &domain.Contact{FirstName: "Alice", LastName: "Johnson", Phone: "123-456-7890", Email: "alice@venue.com"}
	bob := &domain.Contact{FirstName: "Bob", LastName: "Smith", Phone: "098-765-4321", Email: "bob@venue.com"}
	for _, c := range []*domain.Contact{alice, bob} {
		if err := repos.Contacts.Create(ctx, c); err != nil {
			return err
		}
		sum.Contacts++
	}

	downtown.Contacts = []string{alice.ID}
	beachside.Contacts = []string{bob.ID}
	for _, v := range []*domain.Venue{downtown, beachside} {
		if err := repos.Venues.Create(ctx, v); err != nil {
			return err
		}
		sum.Venues++
	}

	users := make(map[string]*domain.User, len(demoUsers))
	for _, du := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(du.name+"password"), cost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", du.name, err)
		}
		u := &domain.User{
			Username:     du.name,
			Email:        du.name + "@example.com",
			PasswordHash: string(hash),
			Role:         du.role,
			Venues:       []string{},
		}
		if du.role == domain.RoleStaff {
			u.Venues = []string{downtown.ID}
		}
		if err := repos.Users.Create(ctx, u); err != nil {
			return err
		}
		users[du.name] = u
		sum.Users++
	}

	johnDOB, janeDOB := day("1990-01-15"), day("1985-07-22")
	john := &domain.Offender{FirstName: "John", LastName: "Doe", DateOfBirth: &johnDOB}
	jane := &domain.Offender{FirstName: "Jane", LastName: "Smith", DateOfBirth: &janeDOB}
	for _, o := range []*domain.Offender{john, jane} {
		if err := repos.Offenders.Create(ctx, o); err != nil {
			return err
		}
		sum.Offenders++
	}

	incident1 := &domain.Incident{Date: day("2024-05-10"), Description: "Verbal altercation at the bar", VenueID: downtown.ID, SubmittedBy: users["staff"].ID}
	incident2 := &domain.Incident{Date: day("2024-06-20"), Description: "Unauthorized entry attempt", VenueID: beachside.ID, SubmittedBy: users["manager"].ID}
	for _, i := range []*domain.Incident{incident1, incident2} {
		if err := repos.Incidents.Create(ctx, i); err != nil {
			return err
		}
		sum.Incidents++
	}

	warning1 := &domain.Warning{Date: day("2024-05-11"), OffenderID: john.ID, Incidents: []string{incident1.ID}, SubmittedBy: users["staff"].ID}
	warning2 := &domain.Warning{Date: day("2024-06-21"), OffenderID: jane.ID, Incidents: []string{incident2.ID}, SubmittedBy: users["manager"].ID}
	for _, w := range []*domain.Warning{warning1, warning2} {
		if err := repos.Warnings.Create(ctx, w); err != nil {
			return err
		}
		sum.Warnings++
	}

	bans := []*domain.Ban{
		{Date: day("2024-05-15"), OffenderID: john.ID, Warnings: []string{warning1.ID}, SubmittedBy: users["manager"].ID},
		{Date: day("2024-06-25"), OffenderID: jane.ID, Warnings: []string{warning2.ID}, SubmittedBy: users["admin"].ID},
	}
	for _, b := range bans {
		if err := repos.Bans.Create(ctx, b); err != nil {
			return err
		}
		sum.Bans++
	}
	return nil
}

// wipe removes records in reverse dependency order
func wipe(ctx context.Context, repos *domain.Repositories) error {
	bans, err := repos.Bans.List(ctx, domain.BanFilter{})
	if err != nil {
		return err
	}
	for _, b := range bans {
		if err := repos.Bans.Delete(ctx, b.ID); err != nil {
			return err
		}
	}

	warnings, err := repos.Warnings.List(ctx, domain.WarningFilter{})
	if err != nil {
		return err
	}
	for _, w := range warnings {
		if err := repos.Warnings.Delete(ctx, w.ID); err != nil {
			return err
		}
	}

	incidents, err := repos.Incidents.List(ctx, domain.IncidentFilter{})
	if err != nil {
		return err
	}
	for _, i := range incidents {
		if err := repos.Incidents.Delete(ctx, i.ID); err != nil {
			return err
		}
	}

	offenders, err := repos.Offenders.List(ctx)
	if err != nil {
		return err
	}
	for _, o := range offenders {
		if err := repos.Offenders.Delete(ctx, o.ID); err != nil {
			return err
		}
	}

	venues, err := repos.Venues.List(ctx)
	if err != nil {
		return err
	}
	for _, v := range venues {
		if err := repos.Venues.Delete(ctx, v.ID); err != nil {
			return err
		}
	}

	contacts, err := repos.Contacts.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range contacts {
		if err := repos.Contacts.Delete(ctx, c.ID); err != nil {
			return err
		}
	}

	users, err := repos.Users.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if err := repos.Users.Delete(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}
