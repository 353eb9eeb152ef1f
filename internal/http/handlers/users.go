package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"charityhub/internal/auth"
	"charityhub/internal/service"
)

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	user, err := a.Users.Get(r.Context(), actor, actor.UserID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, a.userDTO(user))
}

func (a *App) UserGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	user, err := a.Users.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, a.userDTO(user))
}

type profileUpdateRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

func (a *App) MeUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	a.updateProfile(w, r, actor, actor.UserID)
}

func (a *App) UserUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	a.updateProfile(w, r, actor, chi.URLParam(r, "id"))
}

func (a *App) updateProfile(w http.ResponseWriter, r *http.Request, actor auth.Identity, id string) {
	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	user, err := a.Users.UpdateProfile(r.Context(), actor, id, service.ProfileUpdate{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, a.userDTO(user))
}
