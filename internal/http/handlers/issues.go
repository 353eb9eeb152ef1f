package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"charityhub/internal/domain"
	"charityhub/internal/service"
)

type createIssueRequest struct {
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

func (a *App) IssueCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	var req createIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	issue, err := a.Issues.Create(r.Context(), actor, service.CreateIssueInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    domain.IssuePriority(req.Priority),
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toIssueDTO(issue))
}

func (a *App) IssueGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	issue, err := a.Issues.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toIssueDTO(issue))
}

type updateIssueRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
}

func (a *App) IssueUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	var req updateIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	upd := service.IssueUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}
	if req.Priority != nil {
		p := domain.IssuePriority(*req.Priority)
		upd.Priority = &p
	}
	issue, err := a.Issues.Update(r.Context(), actor, chi.URLParam(r, "id"), upd)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toIssueDTO(issue))
}

type assignIssueRequest struct {
	VolunteerID string `json:"volunteer_id"`
}

func (a *App) IssueAssign(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	var req assignIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	issue, err := a.Issues.Assign(r.Context(), actor, chi.URLParam(r, "id"), req.VolunteerID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toIssueDTO(issue))
}

func (a *App) IssueClose(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	issue, err := a.Issues.Close(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toIssueDTO(issue))
}

func (a *App) IssueDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	if err := a.Issues.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
