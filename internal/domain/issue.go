package domain

import "time"

// IssueStatus enumerates issue lifecycle states.
type IssueStatus string

const (
	IssueStatusOpen     IssueStatus = "open"
	IssueStatusAssigned IssueStatus = "assigned"
	IssueStatusClosed   IssueStatus = "closed"
)

// IssuePriority enumerates supported priorities.
type IssuePriority string

const (
	IssuePriorityLow    IssuePriority = "low"
	IssuePriorityMedium IssuePriority = "medium"
	IssuePriorityHigh   IssuePriority = "high"
)

// Issue is a unit of volunteer work tracked against a project.
type Issue struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Category    string
	Priority    IssuePriority
	Status      IssueStatus
	ReporterID  string
	AssigneeID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IssueStats aggregates issue counts for a project.
type IssueStats struct {
	ProjectID string
	Open      int
	Assigned  int
	Closed    int
}

// Total returns the overall issue count.
func (s IssueStats) Total() int {
	return s.Open + s.Assigned + s.Closed
}
