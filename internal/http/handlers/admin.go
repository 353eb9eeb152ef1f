package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"charityhub/internal/domain"
)

func (a *App) AdminUserList(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	users, err := a.Users.List(r.Context(), actor)
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]userDTO, 0, len(users))
	for i := range users {
		items = append(items, a.userDTO(&users[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) AdminUserDeactivate(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	user, err := a.Users.Deactivate(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, a.userDTO(user))
}

func (a *App) AdminUserActivate(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	user, err := a.Users.Activate(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, a.userDTO(user))
}

type roleChangeRequest struct {
	Role string `json:"role"`
}

func (a *App) AdminUserChangeRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	var req roleChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	user, err := a.Users.ChangeRole(r.Context(), actor, chi.URLParam(r, "id"), domain.UserRole(req.Role))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, a.userDTO(user))
}

func (a *App) AdminStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	stats, err := a.Users.Stats(r.Context(), actor)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"total_users":  stats.TotalUsers,
		"active_users": stats.ActiveUsers,
	})
}

func (a *App) AdminProjectVerify(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	project, err := a.Projects.Verify(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toProjectDTO(project))
}
