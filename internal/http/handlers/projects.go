package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"charityhub/internal/domain"
	"charityhub/internal/middleware"
	"charityhub/internal/service"
)

type createProjectRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	GoalAmount  int64        `json:"goal_amount"`
	Location    *geoPointDTO `json:"location"`
}

func (a *App) ProjectCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	in := service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		ClientIP:    middleware.ClientIP(r),
	}
	if req.Location != nil {
		in.Location = &domain.GeoPoint{Lat: req.Location.Lat, Lng: req.Location.Lng}
	}
	project, err := a.Projects.Create(r.Context(), actor, in)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toProjectDTO(project))
}

func (a *App) ProjectList(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	projects, err := a.Projects.List(r.Context(), actor)
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]projectDTO, 0, len(projects))
	for i := range projects {
		items = append(items, toProjectDTO(&projects[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) ProjectGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	project, err := a.Projects.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toProjectDTO(project))
}

type updateProjectRequest struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	GoalAmount  *int64       `json:"goal_amount"`
	Location    *geoPointDTO `json:"location"`
}

func (a *App) ProjectUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	upd := service.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
	}
	if req.Location != nil {
		upd.Location = &domain.GeoPoint{Lat: req.Location.Lat, Lng: req.Location.Lng}
	}
	project, err := a.Projects.Update(r.Context(), actor, chi.URLParam(r, "id"), upd)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toProjectDTO(project))
}

func (a *App) ProjectDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	if err := a.Projects.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) ProjectClose(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	project, err := a.Projects.Close(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toProjectDTO(project))
}

type memberRequest struct {
	UserID string `json:"user_id"`
}

func (a *App) ProjectAddMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	project, err := a.Projects.AddMember(r.Context(), actor, chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toProjectDTO(project))
}

func (a *App) ProjectRemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	project, err := a.Projects.RemoveMember(r.Context(), actor, chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toProjectDTO(project))
}

type attachReportRequest struct {
	URL string `json:"url"`
}

func (a *App) ProjectAttachReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	var req attachReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	project, err := a.Projects.AttachReport(r.Context(), actor, chi.URLParam(r, "id"), req.URL)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toProjectDTO(project))
}

func (a *App) ProjectIssues(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	issues, err := a.Issues.List(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]issueDTO, 0, len(issues))
	for i := range issues {
		items = append(items, toIssueDTO(&issues[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) ProjectIssueStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	stats, err := a.Issues.Stats(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"project_id": stats.ProjectID,
		"open":       stats.Open,
		"assigned":   stats.Assigned,
		"closed":     stats.Closed,
		"total":      stats.Total(),
	})
}
