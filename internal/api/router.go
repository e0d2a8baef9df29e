package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/likelyhq/reckon/internal/catalog"
	"github.com/likelyhq/reckon/internal/events"
	"github.com/likelyhq/reckon/internal/nav"
	"github.com/likelyhq/reckon/internal/store"
)

func NewRouter(cat *catalog.Catalog, resolver *nav.Resolver, s store.Store, ev events.Client, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(240))

	catalogH := NewCatalogHandler(cat)
	scoreH := NewScoreHandler(cat)
	navH := NewNavHandler(resolver)
	entities := NewEntitiesHandler(s, ev)
	prefs := NewPrefsHandler(s, ev)
	admin := NewAdminHandler(cat, s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", catalogH.Full)
		r.Get("/catalog/{category}", catalogH.Category)
		r.Get("/catalog/{category}/{profile}", catalogH.Profile)

		r.Post("/score", scoreH.Compute)
		r.Get("/descriptor", scoreH.Descriptor)

		r.Get("/resolve", navH.Resolve)

		r.Route("/categories/{category}/entities", func(r chi.Router) {
			r.Get("/", entities.List)
			r.Post("/", entities.Create)
			r.Delete("/{name}", entities.Delete)
			r.Get("/{name}/image", entities.GetImage)
			r.Put("/{name}/image", entities.SetImage)
			r.Get("/{name}/results/{profile}", entities.LoadResult)
			r.Put("/{name}/results/{profile}", entities.SaveResult)
		})

		r.Route("/prefs", func(r chi.Router) {
			r.Get("/", prefs.Get)
			r.Post("/visit", prefs.Visit)
			r.Put("/explainer", prefs.SetExplainer)
			r.Put("/disclaimers/{category}/{profile}", prefs.SetDisclaimer)
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
