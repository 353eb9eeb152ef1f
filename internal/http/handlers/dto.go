package handlers

import (
	"time"

	"charityhub/internal/domain"
)

type geoPointDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type userDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Experience int64     `json:"experience"`
	Tier       string    `json:"tier"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

func (a *App) userDTO(u *domain.User) userDTO {
	return userDTO{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		Experience: u.Experience,
		Tier:       string(a.Rating.Thresholds().TierFor(u.Experience)),
		Active:     u.Active,
		CreatedAt:  u.CreatedAt,
	}
}

type projectDTO struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	OwnerID       string       `json:"owner_id"`
	Members       []string     `json:"members"`
	GoalAmount    int64        `json:"goal_amount"`
	CurrentAmount int64        `json:"current_amount"`
	Location      *geoPointDTO `json:"location"`
	Verified      bool         `json:"verified"`
	ReportURL     string       `json:"report_url,omitempty"`
	Status        string       `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func toProjectDTO(p *domain.Project) projectDTO {
	dto := projectDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		OwnerID:       p.OwnerID,
		Members:       p.Members,
		GoalAmount:    p.GoalAmount,
		CurrentAmount: p.CurrentAmount,
		Verified:      p.Verified,
		ReportURL:     p.ReportURL,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Location != nil {
		dto.Location = &geoPointDTO{Lat: p.Location.Lat, Lng: p.Location.Lng}
	}
	return dto
}

type issueDTO struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	ReporterID  string    `json:"reporter_id"`
	AssigneeID  *string   `json:"assignee_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toIssueDTO(i *domain.Issue) issueDTO {
	return issueDTO{
		ID:          i.ID,
		ProjectID:   i.ProjectID,
		Title:       i.Title,
		Description: i.Description,
		Category:    i.Category,
		Priority:    string(i.Priority),
		Status:      string(i.Status),
		ReporterID:  i.ReporterID,
		AssigneeID:  i.AssigneeID,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

type donationDTO struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Amount    int64     `json:"amount"`
	Anonymous bool      `json:"anonymous"`
	CreatedAt time.Time `json:"created_at"`
}

func toDonationDTO(d *domain.Donation) donationDTO {
	return donationDTO{
		ID:        d.ID,
		ProjectID: d.ProjectID,
		Amount:    d.Amount,
		Anonymous: d.Anonymous,
		CreatedAt: d.CreatedAt,
	}
}

type ledgerEntryDTO struct {
	Donor     string    `json:"donor"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

type notificationDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationDTO(n *domain.Notification) notificationDTO {
	return notificationDTO{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
