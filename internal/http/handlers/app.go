package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"charityhub/internal/auth"
	"charityhub/internal/domain"
	"charityhub/internal/middleware"
	"charityhub/internal/rating"
	"charityhub/internal/service"
)

// App bundles the services the HTTP layer dispatches into.
type App struct {
	Users         *service.UserService
	Projects      *service.ProjectService
	Issues        *service.IssueService
	Donations     *service.DonationService
	Notifications *service.NotificationService
	Rating        *rating.Engine
	Logger        zerolog.Logger
}

func NewApp(users *service.UserService, projects *service.ProjectService, issues *service.IssueService, donations *service.DonationService, notifications *service.NotificationService, engine *rating.Engine, logger zerolog.Logger) *App {
	return &App{
		Users:         users,
		Projects:      projects,
		Issues:        issues,
		Donations:     donations,
		Notifications: notifications,
		Rating:        engine,
		Logger:        logger,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]any{"error": map[string]string{"code": slug, "message": message}})
}

// domainError maps service errors onto HTTP statuses.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrConflict):
		a.error(w, http.StatusConflict, "conflict", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// identity returns the verified caller, or reports 401 and false when
// the auth middleware did not run.
func (a *App) identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
	}
	return id, ok
}
