package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/avelis/taskhub/internal/auth"
	"github.com/avelis/taskhub/internal/metrics"
	"github.com/avelis/taskhub/internal/project"
	"github.com/avelis/taskhub/internal/report"
	"github.com/avelis/taskhub/internal/tag"
	"github.com/avelis/taskhub/internal/task"
	"github.com/avelis/taskhub/internal/team"
	"github.com/avelis/taskhub/internal/user"
)

// RouterDeps holds all dependencies for the API router.
type RouterDeps struct {
	UserStore    *user.Store
	TaskStore    *task.Store
	TaskWriter   *task.Writer
	TagStore     *tag.Store
	ProjectStore *project.Store
	TeamStore    *team.Store
	ReportStore  *report.Store
	Auth         *auth.Service
	Issuer       *auth.Issuer
	Metrics      *metrics.Metrics

	AllowedOrigins []string
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.AllowedOrigins))
	r.Use(slogRequestLogger)
	if deps.Metrics != nil {
		r.Use(httpMetricsMiddleware(deps.Metrics))
	}

	// Handlers.
	authH := newAuthHandler(deps.UserStore, deps.Issuer, deps.Metrics)
	tasks := newTasksHandler(deps.TaskStore, deps.TaskWriter)
	tags := newTagsHandler(deps.TagStore)
	projects := newProjectsHandler(deps.ProjectStore)
	teams := newTeamsHandler(deps.TeamStore)
	users := newUsersHandler(deps.UserStore)
	reports := newReportHandler(deps.ReportStore)

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Well-known manifest.
	r.Get("/.well-known/taskhub.json", WellKnownHandler)

	// Metrics summary.
	if deps.Metrics != nil {
		r.Get("/metrics/summary", deps.Metrics.Handler())
	}

	// Public (unauthenticated) routes. Login attempts are throttled per IP.
	loginRL := newLoginRateLimiter(10, time.Minute)
	r.Post("/api/v1/auth/signup", authH.Signup)
	r.Post("/api/v1/auth/login", withLoginRateLimit(loginRL, authH.Login))

	// Bearer-authed routes.
	r.Route("/api/v1", func(ar chi.Router) {
		var obs auth.GateObserver
		if deps.Metrics != nil {
			obs = deps.Metrics
		}
		ar.Use(auth.MiddlewareWithObserver(deps.Auth, obs))

		ar.Get("/auth/me", authH.Me)

		// Tasks.
		ar.Post("/tasks", tasks.CreateTask)
		ar.Get("/tasks", tasks.ListTasks)
		ar.Get("/tasks/{id}", tasks.GetTask)
		ar.Put("/tasks/{id}", tasks.UpdateTask)
		ar.Delete("/tasks/{id}", tasks.DeleteTask)

		// Projects.
		ar.Post("/projects", projects.CreateProject)
		ar.Get("/projects", projects.ListProjects)
		ar.Get("/projects/{id}", projects.GetProject)
		ar.Put("/projects/{id}", projects.UpdateProject)
		ar.Delete("/projects/{id}", projects.DeleteProject)

		// Teams.
		ar.Post("/teams", teams.CreateTeam)
		ar.Get("/teams", teams.ListTeams)
		ar.Get("/teams/{id}", teams.GetTeam)
		ar.Put("/teams/{id}", teams.UpdateTeam)
		ar.Post("/teams/{id}/members", teams.AddMembers)
		ar.Delete("/teams/{id}", teams.DeleteTeam)

		// Tags.
		ar.Post("/tags", tags.CreateTag)
		ar.Get("/tags", tags.ListTags)
		ar.Get("/tags/{id}", tags.GetTag)
		ar.Delete("/tags/{id}", tags.DeleteTag)

		// Users.
		ar.Get("/users", users.ListUsers)
		ar.Get("/users/{id}", users.GetUser)
		ar.Put("/users/{id}", users.UpdateUser)
		ar.Delete("/users/{id}", users.DeleteUser)

		// Reports.
		ar.Get("/report/last-week", reports.LastWeekCompleted)
		ar.Get("/report/pending", reports.PendingDays)
		ar.Get("/report/closed-tasks", reports.ClosedTaskCounts)
	})

	return r
}

// slogRequestLogger is a simple structured logging middleware using slog.
func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", ww.BytesWritten(),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

// httpMetricsMiddleware records request counts and latency, labelled by the
// matched chi route pattern rather than the raw path.
func httpMetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}
			m.ObserveHTTPRequest(r.Method, pattern, ww.Status(), time.Since(start).Seconds())
		})
	}
}
