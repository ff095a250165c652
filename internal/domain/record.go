package domain

import (
	"context"
	"time"
)

// Offender is a person named in warnings and bans
type Offender struct {
	ID          string
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Incident is the lowest disciplinary tier, tied to one venue
type Incident struct {
	ID          string
	Date        time.Time
	Description string
	VenueID     string
	SubmittedBy string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Warning aggregates incidents against one offender
type Warning struct {
	ID          string
	Date        time.Time
	OffenderID  string
	Incidents   []string
	SubmittedBy string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Ban aggregates warnings against one offender
type Ban struct {
	ID          string
	Date        time.Time
	OffenderID  string
	Warnings    []string
	SubmittedBy string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SortOrder selects the ordering of list results.
// Every order breaks ties by creation time, oldest first.
type SortOrder int

const (
	SortCreated SortOrder = iota
	SortDateAsc
	SortDateDesc
)

// IncidentFilter narrows an incident listing.
// When Scoped is set only incidents whose venue is in VenueIDs match, so an empty set matches nothing.
type IncidentFilter struct {
	Scoped   bool
	VenueIDs []string
	From     *time.Time
	To       *time.Time
	Order    SortOrder
	Limit    int
}

// WarningFilter narrows a warning listing.
// When Scoped is set only warnings sharing at least one incident with IncidentIDs match.
type WarningFilter struct {
	Scoped      bool
	IncidentIDs []string
	OffenderID  string
	Order       SortOrder
	Limit       int
}

// BanFilter narrows a ban listing.
// When Scoped is set only bans sharing at least one warning with WarningIDs match.
type BanFilter struct {
	Scoped     bool
	WarningIDs []string
	OffenderID string
	Order      SortOrder
	Limit      int
}

// OffenderRepository defines data access for offenders
type OffenderRepository interface {
	Create(ctx context.Context, offender *Offender) error
	GetByID(ctx context.Context, id string) (*Offender, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Offender, error)
	Update(ctx context.Context, offender *Offender) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Offender, error)
}

// IncidentRepository defines data access for incidents
type IncidentRepository interface {
	Create(ctx context.Context, incident *Incident) error
	GetByID(ctx context.Context, id string) (*Incident, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Incident, error)
	Update(ctx context.Context, incident *Incident) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter IncidentFilter) ([]*Incident, error)
	Count(ctx context.Context, filter IncidentFilter) (int, error)
}

// WarningRepository defines data access for warnings
type WarningRepository interface {
	Create(ctx context.Context, warning *Warning) error
	GetByID(ctx context.Context, id string) (*Warning, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Warning, error)
	Update(ctx context.Context, warning *Warning) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter WarningFilter) ([]*Warning, error)
	Count(ctx context.Context, filter WarningFilter) (int, error)
	// PullIncident removes incidentID from every warning that lists it and
	// returns the number of warnings changed.
	PullIncident(ctx context.Context, incidentID string) (int64, error)
}

// BanRepository defines data access for bans
type BanRepository interface {
	Create(ctx context.Context, ban *Ban) error
	GetByID(ctx context.Context, id string) (*Ban, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Ban, error)
	Update(ctx context.Context, ban *Ban) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter BanFilter) ([]*Ban, error)
	Count(ctx context.Context, filter BanFilter) (int, error)
}

// Repositories groups the repositories bound to one connection or transaction
type Repositories struct {
	Users     UserRepository
	Venues    VenueRepository
	Contacts  ContactRepository
	Offenders OffenderRepository
	Incidents IncidentRepository
	Warnings  WarningRepository
	Bans      BanRepository
}

// Store is the entity store
type Store interface {
	Repos() *Repositories
	// RunInTx runs fn against repositories bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	RunInTx(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error
	Ping(ctx context.Context) error
}
