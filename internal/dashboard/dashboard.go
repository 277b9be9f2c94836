package dashboard

import (
	"context"
	"fuel-dispatch-dashboard/internal/adapters/session"
	"fuel-dispatch-dashboard/internal/domain"
	"fuel-dispatch-dashboard/internal/ports"
	"fuel-dispatch-dashboard/internal/query"
	"fuel-dispatch-dashboard/internal/services"
	"time"

	"github.com/rs/zerolog"
)

// Resource kinds. Mutations invalidate by kind, so a kind covers both the
// list and the per-id entries of a resource.
const (
	KindTrucks          = "trucks"
	KindStations        = "stations"
	KindTrips           = "trips"
	KindRecommendations = "dispatch-recommendations"
	KindFilters         = "dispatch-filters"
	KindMe              = "me"
	KindHealth          = "health"
	KindWeather         = "weather"
	KindTomTom          = "tomtom-route"
	KindReachableRange  = "reachable-range"
)

const (
	recommendationsStaleTime = 5 * time.Minute
	filtersStaleTime         = 10 * time.Minute
)

type Deps struct {
	Cache    *query.Client
	Backend  ports.Backend
	Tokens   ports.TokenStore
	Defaults services.Defaults
	Logger   zerolog.Logger
}

// Dashboard exposes the typed read and write hooks the UI binds to.
type Dashboard struct {
	cache  *query.Client
	tokens ports.TokenStore
	log    zerolog.Logger
	now    func() time.Time

	routes   *services.Routes
	dispatch *services.Dispatch
	trucks   *services.Trucks
	stations *services.Stations
	trips    *services.Trips
	auth     *services.Auth
	weather  *services.Weather
	health   *services.Health

	optimizeDispatch *query.Mutation[domain.DispatchRequest, domain.DispatchResult]
	createTruck      *query.Mutation[domain.NewTruck, domain.Truck]
	optimizeRoute    *query.Mutation[domain.RouteRequest, domain.RouteResult]
	login            *query.Mutation[domain.Credentials, domain.Token]
	register         *query.Mutation[domain.Registration, domain.User]
	logout           *query.Mutation[struct{}, struct{}]
}

func New(deps Deps) *Dashboard {
	d := &Dashboard{
		cache:    deps.Cache,
		tokens:   deps.Tokens,
		log:      deps.Logger,
		now:      time.Now,
		routes:   services.NewRoutes(deps.Backend, deps.Defaults),
		dispatch: services.NewDispatch(deps.Backend, deps.Defaults),
		trucks:   services.NewTrucks(deps.Backend),
		stations: services.NewStations(deps.Backend),
		trips:    services.NewTrips(deps.Backend, deps.Defaults),
		auth:     services.NewAuth(deps.Backend, deps.Tokens),
		weather:  services.NewWeather(deps.Backend),
		health:   services.NewHealth(deps.Backend),
	}

	d.optimizeDispatch = query.NewMutation(d.cache, d.dispatch.Optimize, KindTrucks, KindStations)
	d.createTruck = query.NewMutation(d.cache, d.trucks.Create, KindTrucks)
	d.optimizeRoute = query.NewMutation(d.cache, d.routes.Optimize)
	d.login = query.NewMutation(d.cache, d.doLogin)
	d.register = query.NewMutation(d.cache, d.auth.Register)
	d.logout = query.NewMutation(d.cache, d.doLogout)

	return d
}

// Authenticated reports whether authenticated reads may fire.
func (d *Dashboard) Authenticated() bool {
	return session.Authenticated(d.tokens, d.now())
}

// gated enables a query only with a usable session and, for per-id reads,
// a non-empty id.
func (d *Dashboard) gated(id ...string) func() bool {
	return func() bool {
		for _, s := range id {
			if s == "" {
				return false
			}
		}
		return d.Authenticated()
	}
}

func (d *Dashboard) Trucks() *query.Query[domain.TruckList] {
	return query.NewQuery(d.cache, query.Options[domain.TruckList]{
		Key:     query.NewKey(KindTrucks, "", nil),
		Fetch:   d.trucks.List,
		Enabled: d.gated(),
	})
}

func (d *Dashboard) Truck(id string) *query.Query[domain.Truck] {
	return query.NewQuery(d.cache, query.Options[domain.Truck]{
		Key: query.NewKey(KindTrucks, id, nil),
		Fetch: func(ctx context.Context) (domain.Truck, error) {
			return d.trucks.Get(ctx, id)
		},
		Enabled: d.gated(id),
	})
}

func (d *Dashboard) Stations() *query.Query[domain.StationList] {
	return query.NewQuery(d.cache, query.Options[domain.StationList]{
		Key:     query.NewKey(KindStations, "", nil),
		Fetch:   d.stations.List,
		Enabled: d.gated(),
	})
}

func (d *Dashboard) Station(id string) *query.Query[domain.Station] {
	return query.NewQuery(d.cache, query.Options[domain.Station]{
		Key: query.NewKey(KindStations, id, nil),
		Fetch: func(ctx context.Context) (domain.Station, error) {
			return d.stations.Get(ctx, id)
		},
		Enabled: d.gated(id),
	})
}

func (d *Dashboard) Trips(f domain.TripFilter) *query.Query[domain.TripList] {
	f = d.trips.NormalizeFilter(f)
	return query.NewQuery(d.cache, query.Options[domain.TripList]{
		Key: query.NewKey(KindTrips, "", f),
		Fetch: func(ctx context.Context) (domain.TripList, error) {
			return d.trips.List(ctx, f)
		},
		Enabled: d.gated(),
	})
}

func (d *Dashboard) Trip(id string) *query.Query[domain.Trip] {
	return query.NewQuery(d.cache, query.Options[domain.Trip]{
		Key: query.NewKey(KindTrips, id, nil),
		Fetch: func(ctx context.Context) (domain.Trip, error) {
			return d.trips.Get(ctx, id)
		},
		Enabled: d.gated(id),
	})
}

// DispatchRecommendations fires only when enabled is set, so the UI can hold
// it back until the dispatcher asks for recommendations.
func (d *Dashboard) DispatchRecommendations(params domain.RecommendationsRequest, enabled bool) *query.Query[domain.Recommendations] {
	params = d.dispatch.NormalizeRecommendations(params)
	gate := d.gated()
	return query.NewQuery(d.cache, query.Options[domain.Recommendations]{
		Key: query.NewKey(KindRecommendations, "", params),
		Fetch: func(ctx context.Context) (domain.Recommendations, error) {
			return d.dispatch.Recommendations(ctx, params)
		},
		Enabled:   func() bool { return enabled && gate() },
		StaleTime: recommendationsStaleTime,
	})
}

func (d *Dashboard) DispatchFilters() *query.Query[domain.DispatchFilters] {
	return query.NewQuery(d.cache, query.Options[domain.DispatchFilters]{
		Key:       query.NewKey(KindFilters, "", nil),
		Fetch:     d.dispatch.Filters,
		Enabled:   d.gated(),
		StaleTime: filtersStaleTime,
	})
}

func (d *Dashboard) Me() *query.Query[domain.User] {
	return query.NewQuery(d.cache, query.Options[domain.User]{
		Key:     query.NewKey(KindMe, "", nil),
		Fetch:   d.auth.Me,
		Enabled: d.gated(),
	})
}

// Health needs no session.
func (d *Dashboard) Health() *query.Query[domain.Health] {
	return query.NewQuery(d.cache, query.Options[domain.Health]{
		Key:   query.NewKey(KindHealth, "", nil),
		Fetch: d.health.Check,
	})
}

func (d *Dashboard) Weather(city string) *query.Query[domain.Weather] {
	return query.NewQuery(d.cache, query.Options[domain.Weather]{
		Key: query.NewKey(KindWeather, city, nil),
		Fetch: func(ctx context.Context) (domain.Weather, error) {
			return d.weather.Get(ctx, city)
		},
		Enabled: d.gated(city),
	})
}

func (d *Dashboard) TomTomRoute(req domain.TomTomRouteRequest) *query.Query[domain.TomTomRoute] {
	return query.NewQuery(d.cache, query.Options[domain.TomTomRoute]{
		Key: query.NewKey(KindTomTom, "", req),
		Fetch: func(ctx context.Context) (domain.TomTomRoute, error) {
			return d.routes.TomTom(ctx, req)
		},
		Enabled: d.gated(),
	})
}

func (d *Dashboard) ReachableRange(req domain.ReachableRangeRequest) *query.Query[domain.ReachableRange] {
	return query.NewQuery(d.cache, query.Options[domain.ReachableRange]{
		Key: query.NewKey(KindReachableRange, "", req),
		Fetch: func(ctx context.Context) (domain.ReachableRange, error) {
			return d.routes.ReachableRange(ctx, req)
		},
		Enabled: d.gated(),
	})
}

// OptimizeDispatch invalidates trucks and stations on success.
func (d *Dashboard) OptimizeDispatch() *query.Mutation[domain.DispatchRequest, domain.DispatchResult] {
	return d.optimizeDispatch
}

// CreateTruck invalidates the truck list on success.
func (d *Dashboard) CreateTruck() *query.Mutation[domain.NewTruck, domain.Truck] {
	return d.createTruck
}

// OptimizeRoute changes no backend state and invalidates nothing.
func (d *Dashboard) OptimizeRoute() *query.Mutation[domain.RouteRequest, domain.RouteResult] {
	return d.optimizeRoute
}

// Login stores the new token and starts the session with an empty cache.
func (d *Dashboard) Login() *query.Mutation[domain.Credentials, domain.Token] {
	return d.login
}

// Register creates an account. It does not sign in.
func (d *Dashboard) Register() *query.Mutation[domain.Registration, domain.User] {
	return d.register
}

// Logout clears the token and every cached entry.
func (d *Dashboard) Logout() *query.Mutation[struct{}, struct{}] {
	return d.logout
}

func (d *Dashboard) doLogin(ctx context.Context, c domain.Credentials) (domain.Token, error) {
	tok, err := d.auth.Login(ctx, c)
	if err != nil {
		return domain.Token{}, err
	}
	d.cache.Clear()
	d.log.Info().Str("username", c.Username).Msg("signed in")
	return tok, nil
}

func (d *Dashboard) doLogout(ctx context.Context, _ struct{}) (struct{}, error) {
	err := d.auth.Logout(ctx)
	d.cache.Clear()
	if err != nil {
		d.log.Warn().Err(err).Msg("backend logout failed, local session cleared")
	}
	return struct{}{}, err
}

// CalculateRoute runs a route optimization. Failures come back as
// *OptimizationError carrying the normalized message.
func (d *Dashboard) CalculateRoute(
	ctx context.Context,
	from string,
	to string,
	model string,
	timeData *domain.TimeData,
) (domain.RouteResult, error) {
	res, err := d.optimizeRoute.Do(ctx, domain.RouteRequest{
		From:  from,
		To:    to,
		Model: model,
		Time:  timeData,
	})
	if err != nil {
		return domain.RouteResult{}, newOptimizationError("route", err)
	}
	return res, nil
}

func (d *Dashboard) CalculateDispatch(ctx context.Context, req domain.DispatchRequest) (domain.DispatchResult, error) {
	res, err := d.optimizeDispatch.Do(ctx, req)
	if err != nil {
		return domain.DispatchResult{}, newOptimizationError("dispatch", err)
	}
	return res, nil
}
