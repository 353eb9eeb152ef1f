package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *App) NotificationList(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	notifications, err := a.Notifications.List(r.Context(), actor)
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]notificationDTO, 0, len(notifications))
	for i := range notifications {
		items = append(items, toNotificationDTO(&notifications[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) NotificationMarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	n, err := a.Notifications.MarkRead(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toNotificationDTO(n))
}

func (a *App) NotificationDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	if err := a.Notifications.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
