package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"charityhub/internal/http/handlers"
	"charityhub/internal/infra"
	"charityhub/internal/middleware"
)

// NewRouter wires every route. The public surface is the auth pair, the
// health probe and the donation transparency feed; everything else sits
// behind bearer auth. Project routes stay on the shared tree rather
// than a mounted subrouter so the public ledger GET and the
// authenticated donation POST can share one path.
func NewRouter(app *handlers.App, cfg *infra.Config) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))

	r.Get("/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", app.AuthRegister)
		r.Post("/auth/login", app.AuthLogin)

		// Public transparency feed: no auth.
		r.Get("/projects/{id}/donations", app.DonationLedger)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(cfg.JWTSecret))

			r.Get("/users/me", app.Me)
			r.Patch("/users/me", app.MeUpdate)
			r.Get("/users/{id}", app.UserGet)
			r.Patch("/users/{id}", app.UserUpdate)

			r.Post("/projects", app.ProjectCreate)
			r.Get("/projects", app.ProjectList)
			r.Get("/projects/{id}", app.ProjectGet)
			r.Patch("/projects/{id}", app.ProjectUpdate)
			r.Delete("/projects/{id}", app.ProjectDelete)
			r.Post("/projects/{id}/close", app.ProjectClose)
			r.Post("/projects/{id}/members", app.ProjectAddMember)
			r.Delete("/projects/{id}/members/{userID}", app.ProjectRemoveMember)
			r.Post("/projects/{id}/report", app.ProjectAttachReport)
			r.Get("/projects/{id}/issues", app.ProjectIssues)
			r.Get("/projects/{id}/issues/stats", app.ProjectIssueStats)
			r.Post("/projects/{id}/donations", app.DonationCreate)

			r.Post("/issues", app.IssueCreate)
			r.Get("/issues/{id}", app.IssueGet)
			r.Patch("/issues/{id}", app.IssueUpdate)
			r.Delete("/issues/{id}", app.IssueDelete)
			r.Post("/issues/{id}/assign", app.IssueAssign)
			r.Post("/issues/{id}/close", app.IssueClose)

			r.Get("/notifications", app.NotificationList)
			r.Post("/notifications/{id}/read", app.NotificationMarkRead)
			r.Delete("/notifications/{id}", app.NotificationDelete)

			r.Get("/admin/users", app.AdminUserList)
			r.Post("/admin/users/{id}/activate", app.AdminUserActivate)
			r.Post("/admin/users/{id}/deactivate", app.AdminUserDeactivate)
			r.Patch("/admin/users/{id}/role", app.AdminUserChangeRole)
			r.Get("/admin/stats", app.AdminStats)
			r.Post("/admin/projects/{id}/verify", app.AdminProjectVerify)
		})
	})

	return r
}
