// Package memory is an in-process entity store used for local runs without
// PostgreSQL and as the fixture store in service and handler tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

type table[T any] struct {
	rows  map[string]*T
	order []string
}

func newTable[T any]() table[T] {
	return table[T]{rows: map[string]*T{}}
}

func (t *table[T]) put(id string, v *T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	t.order = slices.DeleteFunc(t.order, func(o string) bool { return o == id })
	return true
}

// all returns the rows in insertion order
func (t *table[T]) all() []*T {
	out := make([]*T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) byIDs(ids []string) []*T {
	seen := make(map[string]bool, len(ids))
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if v, ok := t.rows[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T]) clone(cp func(*T) *T) table[T] {
	out := table[T]{rows: make(map[string]*T, len(t.rows)), order: slices.Clone(t.order)}
	for id, v := range t.rows {
		out.rows[id] = cp(v)
	}
	return out
}

type tables struct {
	users     table[domain.User]
	venues    table[domain.Venue]
	contacts  table[domain.Contact]
	offenders table[domain.Offender]
	incidents table[domain.Incident]
	warnings  table[domain.Warning]
	bans      table[domain.Ban]
}

func (t *tables) clone() tables {
	return tables{
		users:     t.users.clone(copyUser),
		venues:    t.venues.clone(copyVenue),
		contacts:  t.contacts.clone(copyContact),
		offenders: t.offenders.clone(copyOffender),
		incidents: t.incidents.clone(copyIncident),
		warnings:  t.warnings.clone(copyWarning),
		bans:      t.bans.clone(copyBan),
	}
}

// Store keeps every record in memory behind one lock
type Store struct {
	mu    sync.RWMutex
	data  tables
	now   func() time.Time
	repos *domain.Repositories
}

// session is the store as seen by one repository set. Inside RunInTx the
// store lock is already held for writing and the session does not lock again.
type session struct {
	*Store
	held bool
}

func (s *session) lock() {
	if !s.held {
		s.mu.Lock()
	}
}

func (s *session) unlock() {
	if !s.held {
		s.mu.Unlock()
	}
}

func (s *session) rlock() {
	if !s.held {
		s.mu.RLock()
	}
}

func (s *session) runlock() {
	if !s.held {
		s.mu.RUnlock()
	}
}

func (s *Store) bind(held bool) *domain.Repositories {
	ss := &session{Store: s, held: held}
	return &domain.Repositories{
		Users:     &userRepo{ss},
		Venues:    &venueRepo{ss},
		Contacts:  &contactRepo{ss},
		Offenders: &offenderRepo{ss},
		Incidents: &incidentRepo{ss},
		Warnings:  &warningRepo{ss},
		Bans:      &banRepo{ss},
	}
}

// NewStore creates an empty store
func NewStore() *Store {
	s := &Store{
		data: tables{
			users:     newTable[domain.User](),
			venues:    newTable[domain.Venue](),
			contacts:  newTable[domain.Contact](),
			offenders: newTable[domain.Offender](),
			incidents: newTable[domain.Incident](),
			warnings:  newTable[domain.Warning](),
			bans:      newTable[domain.Ban](),
		},
		now: time.Now,
	}
	s.repos = s.bind(false)
	return s
}

func (s *Store) Repos() *domain.Repositories { return s.repos }

// RunInTx holds the store lock while fn runs and restores the previous state
// when fn fails. Writes from other callers wait for the transaction to finish.
// fn must only use the repositories it is given.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, repos *domain.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(ctx, s.bind(true)); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) stamp(id *string, created, updated *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := s.now()
	if created.IsZero() {
		*created = now
	}
	*updated = *created
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.Venues = slices.Clone(u.Venues)
	return &c
}

func copyVenue(v *domain.Venue) *domain.Venue {
	c := *v
	c.Contacts = slices.Clone(v.Contacts)
	return &c
}

func copyContact(v *domain.Contact) *domain.Contact {
	c := *v
	return &c
}

func copyOffender(o *domain.Offender) *domain.Offender {
	c := *o
	if o.DateOfBirth != nil {
		dob := *o.DateOfBirth
		c.DateOfBirth = &dob
	}
	return &c
}

func copyIncident(i *domain.Incident) *domain.Incident {
	c := *i
	return &c
}

func copyWarning(w *domain.Warning) *domain.Warning {
	c := *w
	c.Incidents = slices.Clone(w.Incidents)
	return &c
}

func copyBan(b *domain.Ban) *domain.Ban {
	c := *b
	c.Warnings = slices.Clone(b.Warnings)
	return &c
}

func copyAll[T any](in []*T, cp func(*T) *T) []*T {
	out := make([]*T, len(in))
	for i, v := range in {
		out[i] = cp(v)
	}
	return out
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if slices.Contains(b, x) {
			return true
		}
	}
	return false
}

// sortByDate orders rows by date while keeping insertion order for ties
func sortByDate[T any](rows []*T, order domain.SortOrder, date func(*T) time.Time) {
	switch order {
	case domain.SortDateAsc:
		slices.SortStableFunc(rows, func(a, b *T) int { return date(a).Compare(date(b)) })
	case domain.SortDateDesc:
		slices.SortStableFunc(rows, func(a, b *T) int { return date(b).Compare(date(a)) })
	}
}

func limit[T any](rows []*T, n int) []*T {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}
