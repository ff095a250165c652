package service

import (
	"context"
	"time"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

// VenueRef is the projection of a venue embedded in other records
type VenueRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserRef is the projection of a submitter
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// OffenderRef is the projection of an offender
type OffenderRef struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// IncidentRef is an incident as listed inside a warning
type IncidentRef struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Venue       *VenueRef `json:"venue"`
}

// WarningRef is a warning as listed inside a ban
type WarningRef struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
}

type IncidentView struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Venue       *VenueRef `json:"venue"`
	SubmittedBy *UserRef  `json:"submittedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type WarningView struct {
	ID          string        `json:"id"`
	Date        time.Time     `json:"date"`
	Offender    *OffenderRef  `json:"offender"`
	Incidents   []IncidentRef `json:"incidents"`
	SubmittedBy *UserRef      `json:"submittedBy"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type BanView struct {
	ID          string       `json:"id"`
	Date        time.Time    `json:"date"`
	Offender    *OffenderRef `json:"offender"`
	Warnings    []WarningRef `json:"warnings"`
	SubmittedBy *UserRef     `json:"submittedBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Hydrator replaces reference ids with fixed projections of the referenced
// records. References are fetched in one batch per record kind. A missing
// single reference becomes nil and missing members of an id set are dropped.
type Hydrator struct {
	store domain.Store
}

func NewHydrator(store domain.Store) *Hydrator {
	return &Hydrator{store: store}
}

func (h *Hydrator) Incidents(ctx context.Context, incidents []*domain.Incident) ([]IncidentView, error) {
	repos := h.store.Repos()

	venueIDs := make([]string, 0, len(incidents))
	userIDs := make([]string, 0, len(incidents))
	for _, i := range incidents {
		venueIDs = append(venueIDs, i.VenueID)
		userIDs = append(userIDs, i.SubmittedBy)
	}

	venues, err := h.venues(ctx, repos, venueIDs)
	if err != nil {
		return nil, err
	}
	users, err := h.users(ctx, repos, userIDs)
	if err != nil {
		return nil, err
	}

	out := make([]IncidentView, 0, len(incidents))
	for _, i := range incidents {
		out = append(out, IncidentView{
			ID:          i.ID,
			Date:        i.Date,
			Description: i.Description,
			Venue:       venues[i.VenueID],
			SubmittedBy: users[i.SubmittedBy],
			CreatedAt:   i.CreatedAt,
			UpdatedAt:   i.UpdatedAt,
		})
	}
	return out, nil
}

func (h *Hydrator) Warnings(ctx context.Context, warnings []*domain.Warning) ([]WarningView, error) {
	repos := h.store.Repos()

	var incidentIDs, offenderIDs, userIDs []string
	for _, w := range warnings {
		incidentIDs = append(incidentIDs, w.Incidents...)
		offenderIDs = append(offenderIDs, w.OffenderID)
		userIDs = append(userIDs, w.SubmittedBy)
	}

	incidents, err := repos.Incidents.GetByIDs(ctx, unique(incidentIDs))
	if err != nil {
		return nil, err
	}
	venueIDs := make([]string, 0, len(incidents))
	for _, i := range incidents {
		venueIDs = append(venueIDs, i.VenueID)
	}
	venues, err := h.venues(ctx, repos, venueIDs)
	if err != nil {
		return nil, err
	}
	incidentByID := make(map[string]IncidentRef, len(incidents))
	for _, i := range incidents {
		incidentByID[i.ID] = IncidentRef{ID: i.ID, Date: i.Date, Description: i.Description, Venue: venues[i.VenueID]}
	}

	offenders, err := h.offenders(ctx, repos, offenderIDs)
	if err != nil {
		return nil, err
	}
	users, err := h.users(ctx, repos, userIDs)
	if err != nil {
		return nil, err
	}

	out := make([]WarningView, 0, len(warnings))
	for _, w := range warnings {
		refs := make([]IncidentRef, 0, len(w.Incidents))
		for _, id := range w.Incidents {
			if ref, ok := incidentByID[id]; ok {
				refs = append(refs, ref)
			}
		}
		out = append(out, WarningView{
			ID:          w.ID,
			Date:        w.Date,
			Offender:    offenders[w.OffenderID],
			Incidents:   refs,
			SubmittedBy: users[w.SubmittedBy],
			CreatedAt:   w.CreatedAt,
			UpdatedAt:   w.UpdatedAt,
		})
	}
	return out, nil
}

func (h *Hydrator) Bans(ctx context.Context, bans []*domain.Ban) ([]BanView, error) {
	repos := h.store.Repos()

	var warningIDs, offenderIDs, userIDs []string
	for _, b := range bans {
		warningIDs = append(warningIDs, b.Warnings...)
		offenderIDs = append(offenderIDs, b.OffenderID)
		userIDs = append(userIDs, b.SubmittedBy)
	}

	warnings, err := repos.Warnings.GetByIDs(ctx, unique(warningIDs))
	if err != nil {
		return nil, err
	}
	warningByID := make(map[string]WarningRef, len(warnings))
	for _, w := range warnings {
		warningByID[w.ID] = WarningRef{ID: w.ID, Date: w.Date}
	}

	offenders, err := h.offenders(ctx, repos, offenderIDs)
	if err != nil {
		return nil, err
	}
	users, err := h.users(ctx, repos, userIDs)
	if err != nil {
		return nil, err
	}

	out := make([]BanView, 0, len(bans))
	for _, b := range bans {
		refs := make([]WarningRef, 0, len(b.Warnings))
		for _, id := range b.Warnings {
			if ref, ok := warningByID[id]; ok {
				refs = append(refs, ref)
			}
		}
		out = append(out, BanView{
			ID:          b.ID,
			Date:        b.Date,
			Offender:    offenders[b.OffenderID],
			Warnings:    refs,
			SubmittedBy: users[b.SubmittedBy],
			CreatedAt:   b.CreatedAt,
			UpdatedAt:   b.UpdatedAt,
		})
	}
	return out, nil
}

func (h *Hydrator) venues(ctx context.Context, repos *domain.Repositories, ids []string) (map[string]*VenueRef, error) {
	venues, err := repos.Venues.GetByIDs(ctx, unique(ids))
	if err != nil {
		return nil, err
	}
	out := make(map[string]*VenueRef, len(venues))
	for _, v := range venues {
		out[v.ID] = &VenueRef{ID: v.ID, Name: v.Name}
	}
	return out, nil
}

func (h *Hydrator) users(ctx context.Context, repos *domain.Repositories, ids []string) (map[string]*UserRef, error) {
	users, err := repos.Users.GetByIDs(ctx, unique(ids))
	if err != nil {
		return nil, err
	}
	out := make(map[string]*UserRef, len(users))
	for _, u := range users {
		out[u.ID] = &UserRef{ID: u.ID, Username: u.Username}
	}
	return out, nil
}

func (h *Hydrator) offenders(ctx context.Context, repos *domain.Repositories, ids []string) (map[string]*OffenderRef, error) {
	offenders, err := repos.Offenders.GetByIDs(ctx, unique(ids))
	if err != nil {
		return nil, err
	}
	out := make(map[string]*OffenderRef, len(offenders))
	for _, o := range offenders {
		out[o.ID] = &OffenderRef{ID: o.ID, FirstName: o.FirstName, LastName: o.LastName}
	}
	return out, nil
}

// unique drops duplicates and blanks, keeping first-seen order
func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
