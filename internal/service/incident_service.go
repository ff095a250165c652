package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/events"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/venueguard/internal/observability/metrics"
	"github.com/aryan0dhankhar/venueguard/internal/security"
)

var tracer = otel.Tracer("github.com/aryan0dhankhar/venueguard/internal/service")

// CreateIncidentInput carries the editable fields of an incident.
// The submitter is always the acting user.
type CreateIncidentInput struct {
	Date        domain.Date `json:"date" validate:"required"`
	Description string      `json:"description" validate:"required,notblank"`
	Venue       string      `json:"venue" validate:"required,uuid"`
}

type UpdateIncidentInput struct {
	Date        *domain.Date `json:"date"`
	Description *string      `json:"description" validate:"omitempty,notblank"`
	Venue       *string      `json:"venue" validate:"omitempty,uuid"`
}

func (in UpdateIncidentInput) empty() bool {
	return in.Date == nil && in.Description == nil && in.Venue == nil
}

// IncidentService handles incidents and the cascade on their deletion
type IncidentService struct {
	base
}

// List returns the incidents in the actor's scope
func (s *IncidentService) List(ctx context.Context, actor domain.Actor) ([]IncidentView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermViewIncidents); err != nil {
		return nil, err
	}
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	incidents, err := s.store.Repos().Incidents.List(ctx, scope.IncidentFilter())
	if err != nil {
		return nil, err
	}
	return s.hydrator.Incidents(ctx, incidents)
}

// ForVenue returns the incidents of one venue, intersected with the actor's scope
func (s *IncidentService) ForVenue(ctx context.Context, actor domain.Actor, venueID string) ([]IncidentView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermViewIncidents); err != nil {
		return nil, err
	}
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsVenue(venueID) {
		return []IncidentView{}, nil
	}

	incidents, err := s.store.Repos().Incidents.List(ctx, domain.IncidentFilter{Scoped: true, VenueIDs: []string{venueID}})
	if err != nil {
		return nil, err
	}
	return s.hydrator.Incidents(ctx, incidents)
}

// Get returns one incident if it is in the actor's scope
func (s *IncidentService) Get(ctx context.Context, actor domain.Actor, id string) (*IncidentView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermViewIncidents); err != nil {
		return nil, err
	}
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	incident, err := s.store.Repos().Incidents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsVenue(incident.VenueID) {
		return nil, domain.NotFound("incident %s not found", id)
	}
	return s.one(ctx, incident)
}

func (s *IncidentService) Create(ctx context.Context, actor domain.Actor, in CreateIncidentInput) (*IncidentView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageIncidents); err != nil {
		return nil, err
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	if _, err := repos.Venues.GetByID(ctx, in.Venue); err != nil {
		return nil, err
	}

	incident := &domain.Incident{
		Date:        in.Date.Time(),
		Description: in.Description,
		VenueID:     in.Venue,
		SubmittedBy: actor.ID,
	}
	if err := repos.Incidents.Create(ctx, incident); err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Info("incident created",
		slog.String("incident_id", incident.ID),
		slog.String("venue_id", incident.VenueID),
		slog.String("actor_id", actor.ID),
	)
	metrics.ObserveCreated("incident")
	s.changes.record(ctx, events.IncidentCreated, actor, incident.ID, 0)

	return s.one(ctx, incident)
}

func (s *IncidentService) Update(ctx context.Context, actor domain.Actor, id string, in UpdateIncidentInput) (*IncidentView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageIncidents); err != nil {
		return nil, err
	}
	if in.empty() {
		return nil, domain.InvalidInput("no update fields provided")
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	incident, err := repos.Incidents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Date != nil {
		incident.Date = in.Date.Time()
	}
	if in.Description != nil {
		incident.Description = *in.Description
	}
	if in.Venue != nil {
		if _, err := repos.Venues.GetByID(ctx, *in.Venue); err != nil {
			return nil, err
		}
		incident.VenueID = *in.Venue
	}

	if err := repos.Incidents.Update(ctx, incident); err != nil {
		return nil, err
	}

	s.changes.record(ctx, events.IncidentUpdated, actor, incident.ID, 0)
	return s.one(ctx, incident)
}

// Delete removes an incident and pulls its id out of every warning that cites it.
// Both steps commit together; warnings are kept even when left empty.
func (s *IncidentService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageIncidents); err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "incident.delete")
	defer span.End()
	span.SetAttributes(attribute.String("incident.id", id))

	var pulled int64
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos *domain.Repositories) error {
		if _, err := repos.Incidents.GetByID(ctx, id); err != nil {
			return err
		}

		n, err := repos.Warnings.PullIncident(ctx, id)
		if err != nil {
			return err
		}
		pulled = n

		return repos.Incidents.Delete(ctx, id)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.MessageOf(err))
		return err
	}

	span.SetAttributes(attribute.Int64("warnings.updated", pulled))
	logger.FromContext(ctx, s.logger).Info("incident deleted",
		slog.String("incident_id", id),
		slog.Int64("warnings_updated", pulled),
		slog.String("actor_id", actor.ID),
	)
	metrics.ObserveCascade(pulled)
	metrics.ObserveDeleted("incident")
	s.changes.record(ctx, events.IncidentDeleted, actor, id, pulled)

	return nil
}

func (s *IncidentService) one(ctx context.Context, incident *domain.Incident) (*IncidentView, error) {
	views, err := s.hydrator.Incidents(ctx, []*domain.Incident{incident})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
