package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Terence890/Nebula-Stream/api"
)

// Routes bundles the handlers and guards mounted by Register.
type Routes struct {
	Auth      *AuthHandler
	Profiles  *ProfilesHandler
	Titles    *TitlesHandler
	Watchlist *WatchlistHandler
	History   *HistoryHandler
	Version   *VersionHandler

	Sessions  api.SessionValidator
	Ownership api.ProfileOwnershipChecker

	// AuthLimiter throttles register and login per client IP. Optional.
	AuthLimiter *api.IPRateLimiter
	// Metrics instruments every route and serves /metrics. Optional.
	Metrics *api.Metrics
}

// Register mounts the REST API on r.
func Register(r *mux.Router, rt Routes) {
	if rt.Metrics != nil {
		r.Use(rt.Metrics.Middleware)
		r.Handle("/metrics", rt.Metrics.Handler()).Methods(http.MethodGet)
	}

	apiRouter := r.PathPrefix("/api").Subrouter()

	if rt.Version != nil {
		apiRouter.HandleFunc("/version", rt.Version.GetVersion).Methods(http.MethodGet, http.MethodOptions)
	}

	// Public auth endpoints
	limited := func(h http.HandlerFunc) http.Handler {
		if rt.AuthLimiter == nil {
			return h
		}
		return api.RateLimitHandler(rt.AuthLimiter, h)
	}
	apiRouter.Handle("/auth/register", limited(rt.Auth.Register)).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.Handle("/auth/login", limited(rt.Auth.Login)).Methods(http.MethodPost, http.MethodOptions)

	// Catalog
	apiRouter.HandleFunc("/titles/trending", rt.Titles.Trending).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/titles/popular", rt.Titles.Popular).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/titles/search", rt.Titles.Search).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/titles/{media_type}/{id:[0-9]+}", rt.Titles.Details).Methods(http.MethodGet, http.MethodOptions)

	// Account scoped
	protected := apiRouter.NewRoute().Subrouter()
	protected.Use(api.AccountAuthMiddleware(rt.Sessions))
	protected.HandleFunc("/auth/me", rt.Auth.Me).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/auth/logout", rt.Auth.Logout).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/auth/refresh", rt.Auth.Refresh).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/profiles", rt.Profiles.List).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/profiles", rt.Profiles.Create).Methods(http.MethodPost)

	// Profile scoped: ?profile_id= must belong to the caller
	scoped := protected.NewRoute().Subrouter()
	scoped.Use(api.ProfileOwnershipMiddleware(rt.Ownership))
	scoped.HandleFunc("/watchlist", rt.Watchlist.List).Methods(http.MethodGet, http.MethodOptions)
	scoped.HandleFunc("/watchlist", rt.Watchlist.Add).Methods(http.MethodPost)
	scoped.HandleFunc("/watchlist/{tmdb_id:[0-9]+}", rt.Watchlist.Remove).Methods(http.MethodDelete, http.MethodOptions)
	scoped.HandleFunc("/watch-history", rt.History.List).Methods(http.MethodGet, http.MethodOptions)
	scoped.HandleFunc("/watch-history", rt.History.Record).Methods(http.MethodPost)
}
