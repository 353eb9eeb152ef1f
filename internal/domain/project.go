package domain

import "time"

// ProjectStatus enumerates project lifecycle states.
type ProjectStatus string

const (
	ProjectStatusActive ProjectStatus = "active"
	ProjectStatusClosed ProjectStatus = "closed"
)

// GeoPoint is an optional latitude/longitude pair.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// Project represents a charity project run by an owner together with its members.
type Project struct {
	ID            string
	Name          string
	Description   string
	OwnerID       string
	Members       []string
	GoalAmount    int64
	CurrentAmount int64
	Location      *GeoPoint
	Verified      bool
	ReportURL     string
	Status        ProjectStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasMember reports whether the given user belongs to the project.
func (p Project) HasMember(userID string) bool {
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}
