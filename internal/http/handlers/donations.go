package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type donationRequest struct {
	Amount    int64 `json:"amount"`
	Anonymous bool  `json:"anonymous"`
}

func (a *App) DonationCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.identity(w, r)
	if !ok {
		return
	}
	var req donationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	donation, err := a.Donations.Record(r.Context(), actor, chi.URLParam(r, "id"), req.Amount, req.Anonymous)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toDonationDTO(donation))
}

// DonationLedger serves the public transparency feed. It requires no
// authentication: anyone can audit where a project's money came from,
// with anonymous donors masked.
func (a *App) DonationLedger(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	entries, err := a.Donations.PublicView(r.Context(), projectID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	total, err := a.Donations.Total(r.Context(), projectID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]ledgerEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, ledgerEntryDTO{Donor: e.DonorDisplay, Amount: e.Amount, CreatedAt: e.CreatedAt})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items, "total": total})
}
