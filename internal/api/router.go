package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures the HTTP middleware stack.
type Options struct {
	CORSAllowedOrigins []string

	// RateLimitRequests is the number of requests allowed per client IP in
	// RateLimitWindow. Zero disables rate limiting.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(Observe)
	r.Use(middleware.Recoverer)

	origins := opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{"Location", RequestIDHeader},
		MaxAge:         300,
	}))

	if opts.RateLimitRequests > 0 {
		window := opts.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		r.Use(httprate.LimitByIP(opts.RateLimitRequests, window))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	health := &HealthHandler{DB: db}
	items := &ItemsHandler{DB: db}
	users := &UsersHandler{DB: db}
	groups := &GroupsHandler{DB: db}

	r.Get("/healthz", health.Check)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", handle(items.List))
			r.Post("/", handle(items.Create))

			r.Route("/{item_id}", func(r chi.Router) {
				r.Use(items.ResolveItem)
				r.Get("/", handle(items.Get))
				r.Patch("/", handle(items.Update))
				r.Delete("/", handle(items.Delete))
			})
		})

		r.Get("/projects", handle(groups.ListProjects))
		r.Post("/projects", handle(groups.CreateProject))
		r.Get("/scenes", handle(groups.ListScenes))
		r.Post("/scenes", handle(groups.CreateScene))
		r.Get("/acquisitions", handle(groups.ListAcquisitions))
		r.Post("/acquisitions", handle(groups.CreateAcquisition))

		r.Get("/users", handle(users.List))
		r.Post("/users", handle(users.Create))
		r.Get("/users/{username}", handle(users.Get))
	})

	return r
}
