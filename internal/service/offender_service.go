package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/events"
	"github.com/aryan0dhankhar/venueguard/internal/observability/metrics"
	"github.com/aryan0dhankhar/venueguard/internal/security"
)

type OffenderView struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DateOfBirth *string   `json:"dateOfBirth"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func offenderView(o *domain.Offender) OffenderView {
	v := OffenderView{
		ID:        o.ID,
		FirstName: o.FirstName,
		LastName:  o.LastName,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if o.DateOfBirth != nil {
		day := domain.FormatDay(*o.DateOfBirth)
		v.DateOfBirth = &day
	}
	return v
}

type CreateOffenderInput struct {
	FirstName   string       `json:"firstName" validate:"required,notblank"`
	LastName    string       `json:"lastName" validate:"required,notblank"`
	DateOfBirth *domain.Date `json:"dateOfBirth" validate:"omitempty,past"`
}

type UpdateOffenderInput struct {
	FirstName   *string      `json:"firstName" validate:"omitempty,notblank"`
	LastName    *string      `json:"lastName" validate:"omitempty,notblank"`
	DateOfBirth *domain.Date `json:"dateOfBirth" validate:"omitempty,past"`
}

func (in UpdateOffenderInput) empty() bool {
	return in.FirstName == nil && in.LastName == nil && in.DateOfBirth == nil
}

// OffenderService handles offenders. Listings are unscoped unless scoped is
// set, in which case staff only see offenders named by warnings or bans in
// their scope.
type OffenderService struct {
	base
	scoped bool
}

func (s *OffenderService) List(ctx context.Context, actor domain.Actor) ([]OffenderView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermViewOffenders); err != nil {
		return nil, err
	}

	offenders, err := s.visible(ctx, actor)
	if err != nil {
		return nil, err
	}

	out := make([]OffenderView, 0, len(offenders))
	for _, o := range offenders {
		out = append(out, offenderView(o))
	}
	return out, nil
}

func (s *OffenderService) Get(ctx context.Context, actor domain.Actor, id string) (*OffenderView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermViewOffenders); err != nil {
		return nil, err
	}

	if s.scoped {
		offenders, err := s.visible(ctx, actor)
		if err != nil {
			return nil, err
		}
		i := slices.IndexFunc(offenders, func(o *domain.Offender) bool { return o.ID == id })
		if i < 0 {
			return nil, domain.NotFound("offender %s not found", id)
		}
		v := offenderView(offenders[i])
		return &v, nil
	}

	offender, err := s.store.Repos().Offenders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := offenderView(offender)
	return &v, nil
}

// visible returns the offenders the actor may list
func (s *OffenderService) visible(ctx context.Context, actor domain.Actor) ([]*domain.Offender, error) {
	repos := s.store.Repos()
	if !s.scoped {
		return repos.Offenders.List(ctx)
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if scope.All {
		return repos.Offenders.List(ctx)
	}

	wf, err := s.scopes.WarningFilter(ctx, scope)
	if err != nil {
		return nil, err
	}
	warnings, err := repos.Warnings.List(ctx, wf)
	if err != nil {
		return nil, err
	}
	bf, err := s.scopes.BanFilter(ctx, scope)
	if err != nil {
		return nil, err
	}
	bans, err := repos.Bans.List(ctx, bf)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(warnings)+len(bans))
	for _, w := range warnings {
		ids = append(ids, w.OffenderID)
	}
	for _, b := range bans {
		ids = append(ids, b.OffenderID)
	}

	offenders, err := repos.Offenders.GetByIDs(ctx, unique(ids))
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(offenders, func(a, b *domain.Offender) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return offenders, nil
}

func (s *OffenderService) Create(ctx context.Context, actor domain.Actor, in CreateOffenderInput) (*OffenderView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageOffenders); err != nil {
		return nil, err
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	offender := &domain.Offender{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	if in.DateOfBirth != nil {
		dob := in.DateOfBirth.Time()
		offender.DateOfBirth = &dob
	}
	if err := s.store.Repos().Offenders.Create(ctx, offender); err != nil {
		return nil, err
	}

	metrics.ObserveCreated("offender")
	s.changes.record(ctx, events.OffenderCreated, actor, offender.ID, 0)

	v := offenderView(offender)
	return &v, nil
}

func (s *OffenderService) Update(ctx context.Context, actor domain.Actor, id string, in UpdateOffenderInput) (*OffenderView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageOffenders); err != nil {
		return nil, err
	}
	if in.empty() {
		return nil, domain.InvalidInput("no update fields provided")
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	offender, err := repos.Offenders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		offender.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		offender.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.DateOfBirth != nil {
		dob := in.DateOfBirth.Time()
		offender.DateOfBirth = &dob
	}

	if err := repos.Offenders.Update(ctx, offender); err != nil {
		return nil, err
	}

	s.changes.record(ctx, events.OffenderUpdated, actor, offender.ID, 0)
	v := offenderView(offender)
	return &v, nil
}

// Delete removes an offender. Warnings and bans naming them keep the id and
// hydrate the offender as null.
func (s *OffenderService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageOffenders); err != nil {
		return err
	}
	if err := s.store.Repos().Offenders.Delete(ctx, id); err != nil {
		return err
	}

	metrics.ObserveDeleted("offender")
	s.changes.record(ctx, events.OffenderDeleted, actor, id, 0)
	return nil
}
