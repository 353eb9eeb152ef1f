package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	// AddExperience atomically adds amount to the user's experience
	// total and returns the updated user.
	AddExperience(ctx context.Context, id string, amount int64) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// ProjectRepository defines persistence for projects.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project *Project) error
	GetProjectByID(ctx context.Context, id string) (*Project, error)
	UpdateProject(ctx context.Context, project *Project) error
	DeleteProject(ctx context.Context, id string) error
	ListProjectsByMember(ctx context.Context, userID string) ([]Project, error)
	ListAllProjects(ctx context.Context) ([]Project, error)
}

// IssueRepository defines persistence for issues. AssignIssue and
// CloseIssue are compare-and-set transitions so that concurrent callers
// serialize on the stored status rather than on a read-then-write in
// the service.
type IssueRepository interface {
	CreateIssue(ctx context.Context, issue *Issue) error
	GetIssueByID(ctx context.Context, id string) (*Issue, error)
	UpdateIssue(ctx context.Context, issue *Issue) error
	DeleteIssue(ctx context.Context, id string) error
	ListIssuesByProject(ctx context.Context, projectID string) ([]Issue, error)
	// AssignIssue sets the assignee and moves the issue to assigned
	// unless it is already closed, in which case ErrInvalidArgument is
	// returned.
	AssignIssue(ctx context.Context, id, volunteerID string) (*Issue, error)
	// CloseIssue moves the issue to closed. The boolean reports whether
	// this call performed the transition; closing an already-closed
	// issue returns the issue unchanged with false.
	CloseIssue(ctx context.Context, id string) (*Issue, bool, error)
	IssueStatsByProject(ctx context.Context, projectID string) (IssueStats, error)
}

// DonationRepository handles the append-only donation ledger.
type DonationRepository interface {
	// RecordDonation appends the donation and increments the project's
	// current amount by the same value. Both effects are atomic: no
	// reader sees one without the other.
	RecordDonation(ctx context.Context, donation *Donation) error
	// ListDonationsByProject returns donations ordered most recent first.
	ListDonationsByProject(ctx context.Context, projectID string) ([]Donation, error)
	SumDonationsByProject(ctx context.Context, projectID string) (int64, error)
}

// NotificationRepository handles persistence for notifications.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *Notification) error
	GetNotificationByID(ctx context.Context, id string) (*Notification, error)
	UpdateNotification(ctx context.Context, notification *Notification) error
	DeleteNotification(ctx context.Context, id string) error
	ListNotificationsByRecipient(ctx context.Context, recipientID string) ([]Notification, error)
}
