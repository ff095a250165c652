package memory

import (
	"context"
	"slices"
	"time"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

type offenderRepo struct{ s *session }

func (r *offenderRepo) Create(ctx context.Context, offender *domain.Offender) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.stamp(&offender.ID, &offender.CreatedAt, &offender.UpdatedAt)
	r.s.data.offenders.put(offender.ID, copyOffender(offender))
	return nil
}

func (r *offenderRepo) GetByID(ctx context.Context, id string) (*domain.Offender, error) {
	r.s.rlock()
	defer r.s.runlock()
	o, ok := r.s.data.offenders.rows[id]
	if !ok {
		return nil, domain.NotFound("offender %s not found", id)
	}
	return copyOffender(o), nil
}

func (r *offenderRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.Offender, error) {
	r.s.rlock()
	defer r.s.runlock()
	return copyAll(r.s.data.offenders.byIDs(ids), copyOffender), nil
}

func (r *offenderRepo) Update(ctx context.Context, offender *domain.Offender) error {
	r.s.lock()
	defer r.s.unlock()
	cur, ok := r.s.data.offenders.rows[offender.ID]
	if !ok {
		return domain.NotFound("offender %s not found", offender.ID)
	}
	offender.CreatedAt = cur.CreatedAt
	offender.UpdatedAt = r.s.now()
	r.s.data.offenders.put(offender.ID, copyOffender(offender))
	return nil
}

func (r *offenderRepo) Delete(ctx context.Context, id string) error {
	r.s.lock()
	defer r.s.unlock()
	if !r.s.data.offenders.remove(id) {
		return domain.NotFound("offender %s not found", id)
	}
	return nil
}

func (r *offenderRepo) List(ctx context.Context) ([]*domain.Offender, error) {
	r.s.rlock()
	defer r.s.runlock()
	return copyAll(r.s.data.offenders.all(), copyOffender), nil
}

type incidentRepo struct{ s *session }

func (r *incidentRepo) Create(ctx context.Context, incident *domain.Incident) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.stamp(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	r.s.data.incidents.put(incident.ID, copyIncident(incident))
	return nil
}

func (r *incidentRepo) GetByID(ctx context.Context, id string) (*domain.Incident, error) {
	r.s.rlock()
	defer r.s.runlock()
	i, ok := r.s.data.incidents.rows[id]
	if !ok {
		return nil, domain.NotFound("incident %s not found", id)
	}
	return copyIncident(i), nil
}

func (r *incidentRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.Incident, error) {
	r.s.rlock()
	defer r.s.runlock()
	return copyAll(r.s.data.incidents.byIDs(ids), copyIncident), nil
}

func (r *incidentRepo) Update(ctx context.Context, incident *domain.Incident) error {
	r.s.lock()
	defer r.s.unlock()
	cur, ok := r.s.data.incidents.rows[incident.ID]
	if !ok {
		return domain.NotFound("incident %s not found", incident.ID)
	}
	incident.CreatedAt = cur.CreatedAt
	incident.UpdatedAt = r.s.now()
	r.s.data.incidents.put(incident.ID, copyIncident(incident))
	return nil
}

func (r *incidentRepo) Delete(ctx context.Context, id string) error {
	r.s.lock()
	defer r.s.unlock()
	if !r.s.data.incidents.remove(id) {
		return domain.NotFound("incident %s not found", id)
	}
	return nil
}

func (r *incidentRepo) match(f domain.IncidentFilter) []*domain.Incident {
	var out []*domain.Incident
	for _, i := range r.s.data.incidents.all() {
		if f.Scoped && !slices.Contains(f.VenueIDs, i.VenueID) {
			continue
		}
		if f.From != nil && i.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && i.Date.After(*f.To) {
			continue
		}
		out = append(out, i)
	}
	return out
}

func (r *incidentRepo) List(ctx context.Context, filter domain.IncidentFilter) ([]*domain.Incident, error) {
	r.s.rlock()
	defer r.s.runlock()
	rows := r.match(filter)
	sortByDate(rows, filter.Order, func(i *domain.Incident) time.Time { return i.Date })
	return copyAll(limit(rows, filter.Limit), copyIncident), nil
}

func (r *incidentRepo) Count(ctx context.Context, filter domain.IncidentFilter) (int, error) {
	r.s.rlock()
	defer r.s.runlock()
	return len(r.match(filter)), nil
}

type warningRepo struct{ s *session }

func (r *warningRepo) Create(ctx context.Context, warning *domain.Warning) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.stamp(&warning.ID, &warning.CreatedAt, &warning.UpdatedAt)
	r.s.data.warnings.put(warning.ID, copyWarning(warning))
	return nil
}

func (r *warningRepo) GetByID(ctx context.Context, id string) (*domain.Warning, error) {
	r.s.rlock()
	defer r.s.runlock()
	w, ok := r.s.data.warnings.rows[id]
	if !ok {
		return nil, domain.NotFound("warning %s not found", id)
	}
	return copyWarning(w), nil
}

func (r *warningRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.Warning, error) {
	r.s.rlock()
	defer r.s.runlock()
	return copyAll(r.s.data.warnings.byIDs(ids), copyWarning), nil
}

func (r *warningRepo) Update(ctx context.Context, warning *domain.Warning) error {
	r.s.lock()
	defer r.s.unlock()
	cur, ok := r.s.data.warnings.rows[warning.ID]
	if !ok {
		return domain.NotFound("warning %s not found", warning.ID)
	}
	warning.CreatedAt = cur.CreatedAt
	warning.UpdatedAt = r.s.now()
	r.s.data.warnings.put(warning.ID, copyWarning(warning))
	return nil
}

func (r *warningRepo) Delete(ctx context.Context, id string) error {
	r.s.lock()
	defer r.s.unlock()
	if !r.s.data.warnings.remove(id) {
		return domain.NotFound("warning %s not found", id)
	}
	return nil
}

func (r *warningRepo) match(f domain.WarningFilter) []*domain.Warning {
	var out []*domain.Warning
	for _, w := range r.s.data.warnings.all() {
		if f.Scoped && !intersects(w.Incidents, f.IncidentIDs) {
			continue
		}
		if f.OffenderID != "" && w.OffenderID != f.OffenderID {
			continue
		}
		out = append(out, w)
	}
	return out
}

func (r *warningRepo) List(ctx context.Context, filter domain.WarningFilter) ([]*domain.Warning, error) {
	r.s.rlock()
	defer r.s.runlock()
	rows := r.match(filter)
	sortByDate(rows, filter.Order, func(w *domain.Warning) time.Time { return w.Date })
	return copyAll(limit(rows, filter.Limit), copyWarning), nil
}

func (r *warningRepo) Count(ctx context.Context, filter domain.WarningFilter) (int, error) {
	r.s.rlock()
	defer r.s.runlock()
	return len(r.match(filter)), nil
}

func (r *warningRepo) PullIncident(ctx context.Context, incidentID string) (int64, error) {
	r.s.lock()
	defer r.s.unlock()
	var changed int64
	for _, w := range r.s.data.warnings.rows {
		if !slices.Contains(w.Incidents, incidentID) {
			continue
		}
		w.Incidents = slices.DeleteFunc(w.Incidents, func(id string) bool { return id == incidentID })
		w.UpdatedAt = r.s.now()
		changed++
	}
	return changed, nil
}

type banRepo struct{ s *session }

func (r *banRepo) Create(ctx context.Context, ban *domain.Ban) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.stamp(&ban.ID, &ban.CreatedAt, &ban.UpdatedAt)
	r.s.data.bans.put(ban.ID, copyBan(ban))
	return nil
}

func (r *banRepo) GetByID(ctx context.Context, id string) (*domain.Ban, error) {
	r.s.rlock()
	defer r.s.runlock()
	b, ok := r.s.data.bans.rows[id]
	if !ok {
		return nil, domain.NotFound("ban %s not found", id)
	}
	return copyBan(b), nil
}

func (r *banRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.Ban, error) {
	r.s.rlock()
	defer r.s.runlock()
	return copyAll(r.s.data.bans.byIDs(ids), copyBan), nil
}

func (r *banRepo) Update(ctx context.Context, ban *domain.Ban) error {
	r.s.lock()
	defer r.s.unlock()
	cur, ok := r.s.data.bans.rows[ban.ID]
	if !ok {
		return domain.NotFound("ban %s not found", ban.ID)
	}
	ban.CreatedAt = cur.CreatedAt
	ban.UpdatedAt = r.s.now()
	r.s.data.bans.put(ban.ID, copyBan(ban))
	return nil
}

func (r *banRepo) Delete(ctx context.Context, id string) error {
	r.s.lock()
	defer r.s.unlock()
	if !r.s.data.bans.remove(id) {
		return domain.NotFound("ban %s not found", id)
	}
	return nil
}

func (r *banRepo) match(f domain.BanFilter) []*domain.Ban {
	var out []*domain.Ban
	for _, b := range r.s.data.bans.all() {
		if f.Scoped && !intersects(b.Warnings, f.WarningIDs) {
			continue
		}
		if f.OffenderID != "" && b.OffenderID != f.OffenderID {
			continue
		}
		out = append(out, b)
	}
	return out
}

func (r *banRepo) List(ctx context.Context, filter domain.BanFilter) ([]*domain.Ban, error) {
	r.s.rlock()
	defer r.s.runlock()
	rows := r.match(filter)
	sortByDate(rows, filter.Order, func(b *domain.Ban) time.Time { return b.Date })
	return copyAll(limit(rows, filter.Limit), copyBan), nil
}

func (r *banRepo) Count(ctx context.Context, filter domain.BanFilter) (int, error) {
	r.s.rlock()
	defer r.s.runlock()
	return len(r.match(filter)), nil
}
