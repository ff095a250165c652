package service

import (
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/events"
	"github.com/aryan0dhankhar/venueguard/internal/security"
	"github.com/aryan0dhankhar/venueguard/internal/security/auth"
	"github.com/aryan0dhankhar/venueguard/internal/validator"
)

// Dependencies are the collaborators shared by every service
type Dependencies struct {
	Store      domain.Store
	Events     events.Publisher
	StatsCache domain.StatsCache
	Tokens     *auth.TokenManager
	TokenTTL   time.Duration
	Logger     *slog.Logger
	// ScopedOffenders limits staff offender listings to offenders named in
	// warnings or bans they can see.
	ScopedOffenders bool
}

// Services groups the application services
type Services struct {
	Auth      *AuthService
	Users     *UserService
	Venues    *VenueService
	Contacts  *ContactService
	Offenders *OffenderService
	Incidents *IncidentService
	Warnings  *WarningService
	Bans      *BanService
	Dashboard *DashboardService
	Reports   *ReportService
}

// base carries what each service needs to gate, scope and hydrate
type base struct {
	store    domain.Store
	authz    *security.AuthorizationService
	scopes   *ScopeResolver
	hydrator *Hydrator
	validate *validator.Validator
	changes  *changeFeed
	logger   *slog.Logger
}

// New wires every service over deps
func New(deps Dependencies) *Services {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	b := base{
		store:    deps.Store,
		authz:    security.NewAuthorizationService(logger),
		scopes:   NewScopeResolver(deps.Store, logger),
		hydrator: NewHydrator(deps.Store),
		validate: validator.New(),
		changes:  newChangeFeed(deps.Events, deps.StatsCache, logger),
		logger:   logger,
	}

	return &Services{
		Auth:      NewAuthService(b, deps.Tokens, deps.TokenTTL),
		Users:     &UserService{base: b},
		Venues:    &VenueService{base: b},
		Contacts:  &ContactService{base: b},
		Offenders: &OffenderService{base: b, scoped: deps.ScopedOffenders},
		Incidents: &IncidentService{base: b},
		Warnings:  &WarningService{base: b},
		Bans:      &BanService{base: b},
		Dashboard: &DashboardService{base: b, cache: deps.StatsCache},
		Reports:   &ReportService{base: b},
	}
}
