package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/common/observability"
)

// APIPrefix keeps API routes apart from the /auth and /dashboard pages.
const APIPrefix = "/api"

// Routes holds one handler per API endpoint. Nil entries are not mounted.
type Routes struct {
	SendNotification http.Handler
	BroadcastEmail   http.Handler
	SearchUsers      http.Handler
	GetSettings      http.HandlerFunc
	PostSettings     http.HandlerFunc
	AdInteraction    http.Handler

	SessionInit    http.HandlerFunc
	SessionRefresh http.HandlerFunc
	SignOut        http.HandlerFunc

	RegisterStation    http.Handler
	UploadPhoto        http.Handler
	VerificationStatus http.Handler
	ManagerStation     http.Handler

	ListVerifications  http.HandlerFunc
	DecideVerification http.HandlerFunc

	LivePrices http.Handler
}

type RouterOptions struct {
	Routes        Routes
	Gates         *Gates
	PageGate      *PageGate
	StaticDir     string
	ReadyChecks   []Check
	Observability *observability.Observability
	Logger        logger.Logger
}

func mount(r chi.Router, method, pattern string, h http.Handler) {
	if h == nil {
		return
	}
	r.Method(method, pattern, h)
}

func mountFunc(r chi.Router, method, pattern string, h http.HandlerFunc) {
	if h == nil {
		return
	}
	r.Method(method, pattern, h)
}

// NewRouter wires middleware, health checks, the API and the gated pages.
func NewRouter(opts RouterOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	obs := opts.Observability
	if obs == nil {
		obs = observability.NewNoop()
	}
	errs := apperrors.NewErrorHandler(log)
	g := opts.Gates
	rt := opts.Routes

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Recover(log, errs))
	r.Use(Instrument(log, obs))

	r.Get("/health", Health)
	r.Get("/ready", Ready(opts.ReadyChecks...))
	r.Handle("/metrics", promhttp.Handler())

	r.Route(APIPrefix, func(api chi.Router) {
		api.Use(g.Authenticate)

		// public
		mountFunc(api, http.MethodGet, "/settings", rt.GetSettings)
		mount(api, http.MethodPost, "/ad-interaction", rt.AdInteraction)
		mount(api, http.MethodGet, "/prices/live", rt.LivePrices)

		// bearer token, verified inside the handler
		mountFunc(api, http.MethodPost, "/auth/session", rt.SessionInit)
		mountFunc(api, http.MethodPost, "/auth/session/refresh", rt.SessionRefresh)
		mountFunc(api, http.MethodPost, "/auth/signout", rt.SignOut)

		api.Group(func(s chi.Router) {
			s.Use(g.RequireSession)
			mount(s, http.MethodPost, "/managers/register", rt.RegisterStation)
		})

		api.Group(func(m chi.Router) {
			m.Use(g.RequireManager)
			mount(m, http.MethodPost, "/verification/photo", rt.UploadPhoto)
			mount(m, http.MethodGet, "/verification/status", rt.VerificationStatus)
		})

		api.Group(func(v chi.Router) {
			v.Use(g.RequireVerifiedManager)
			mount(v, http.MethodGet, "/manager/station", rt.ManagerStation)
		})

		api.Group(func(a chi.Router) {
			a.Use(g.RequireAdmin)
			mount(a, http.MethodPost, "/notifications/send", rt.SendNotification)
			mount(a, http.MethodPost, "/broadcast-email", rt.BroadcastEmail)
			mount(a, http.MethodGet, "/users/search", rt.SearchUsers)
			mountFunc(a, http.MethodPost, "/settings", rt.PostSettings)
			mountFunc(a, http.MethodGet, "/admin/verifications", rt.ListVerifications)
			mountFunc(a, http.MethodPost, "/admin/verifications/{managerID}/{decision}", rt.DecideVerification)
		})

		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			errs.HandleHTTPError(w, r, apperrors.NewNotFoundError("route", r.URL.Path))
		})
	})

	if opts.StaticDir != "" && opts.PageGate != nil {
		pages := g.Authenticate(opts.PageGate.Wrap(http.FileServer(http.Dir(opts.StaticDir))))
		r.Handle(PathDashboard, pages)
		r.Handle(PathDashboard+"/*", pages)
		r.Handle("/auth/*", pages)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, PathDashboard, http.StatusFound)
		})
	}

	return r
}
