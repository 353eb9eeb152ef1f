// Package memory provides a mutex-guarded in-memory implementation of
// every repository. It is safe for concurrent use and is primarily
// intended for tests and local development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"charityhub/internal/domain"
)

// Store holds all entity collections behind a single mutex, which is
// what makes the paired donation/total and close/credit updates atomic
// with respect to readers.
type Store struct {
	mu            sync.RWMutex
	users         map[string]domain.User
	usersByEmail  map[string]string
	projects      map[string]domain.Project
	issues        map[string]domain.Issue
	donations     map[string][]domain.Donation // keyed by project id, append order
	notifications map[string]domain.Notification
}

var _ domain.UserRepository = (*Store)(nil)
var _ domain.ProjectRepository = (*Store)(nil)
var _ domain.IssueRepository = (*Store)(nil)
var _ domain.DonationRepository = (*Store)(nil)
var _ domain.NotificationRepository = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		users:         make(map[string]domain.User),
		usersByEmail:  make(map[string]string),
		projects:      make(map[string]domain.Project),
		issues:        make(map[string]domain.Issue),
		donations:     make(map[string][]domain.Donation),
		notifications: make(map[string]domain.Notification),
	}
}

// UserRepository implementation ----------------------------------------------

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := s.usersByEmail[email]; exists {
		return fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}
	s.users[user.ID] = *user
	s.usersByEmail[email] = user.ID
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *Store) UpdateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if !strings.EqualFold(current.Email, user.Email) {
		delete(s.usersByEmail, strings.ToLower(current.Email))
		s.usersByEmail[strings.ToLower(user.Email)] = user.ID
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *Store) AddExperience(_ context.Context, id string, amount int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Experience += amount
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return &u, nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ProjectRepository implementation --------------------------------------------

func (s *Store) CreateProject(_ context.Context, project *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.projects[project.ID]; exists {
		return fmt.Errorf("%w: project %s", domain.ErrConflict, project.ID)
	}
	s.projects[project.ID] = cloneProject(*project)
	return nil
}

func (s *Store) GetProjectByID(_ context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p = cloneProject(p)
	return &p, nil
}

func (s *Store) UpdateProject(_ context.Context, project *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.projects[project.ID]
	if !ok {
		return domain.ErrNotFound
	}
	project.UpdatedAt = time.Now()
	// The aggregate total is owned by the donation ledger; plain updates
	// never touch it.
	project.CurrentAmount = current.CurrentAmount
	s.projects[project.ID] = cloneProject(*project)
	return nil
}

func (s *Store) DeleteProject(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.projects, id)
	delete(s.donations, id)
	for issueID, issue := range s.issues {
		if issue.ProjectID == id {
			delete(s.issues, issueID)
		}
	}
	return nil
}

func (s *Store) ListProjectsByMember(_ context.Context, userID string) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Project
	for _, p := range s.projects {
		if p.HasMember(userID) {
			out = append(out, cloneProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListAllProjects(_ context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// IssueRepository implementation ----------------------------------------------

func (s *Store) CreateIssue(_ context.Context, issue *domain.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.issues[issue.ID]; exists {
		return fmt.Errorf("%w: issue %s", domain.ErrConflict, issue.ID)
	}
	s.issues[issue.ID] = cloneIssue(*issue)
	return nil
}

func (s *Store) GetIssueByID(_ context.Context, id string) (*domain.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.issues[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	i = cloneIssue(i)
	return &i, nil
}

func (s *Store) UpdateIssue(_ context.Context, issue *domain.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.issues[issue.ID]
	if !ok {
		return domain.ErrNotFound
	}
	issue.UpdatedAt = time.Now()
	// Status moves only through Assign and Close.
	issue.Status = current.Status
	issue.AssigneeID = current.AssigneeID
	s.issues[issue.ID] = cloneIssue(*issue)
	return nil
}

func (s *Store) DeleteIssue(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.issues[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.issues, id)
	return nil
}

func (s *Store) ListIssuesByProject(_ context.Context, projectID string) ([]domain.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Issue
	for _, i := range s.issues {
		if i.ProjectID == projectID {
			out = append(out, cloneIssue(i))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) AssignIssue(_ context.Context, id, volunteerID string) (*domain.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.issues[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if i.Status == domain.IssueStatusClosed {
		return nil, fmt.Errorf("%w: cannot assign a closed issue", domain.ErrInvalidArgument)
	}
	assignee := volunteerID
	i.AssigneeID = &assignee
	i.Status = domain.IssueStatusAssigned
	i.UpdatedAt = time.Now()
	s.issues[id] = cloneIssue(i)
	i = cloneIssue(i)
	return &i, nil
}

func (s *Store) CloseIssue(_ context.Context, id string) (*domain.Issue, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.issues[id]
	if !ok {
		return nil, false, domain.ErrNotFound
	}
	if i.Status == domain.IssueStatusClosed {
		i = cloneIssue(i)
		return &i, false, nil
	}
	i.Status = domain.IssueStatusClosed
	i.UpdatedAt = time.Now()
	s.issues[id] = cloneIssue(i)
	i = cloneIssue(i)
	return &i, true, nil
}

func (s *Store) IssueStatsByProject(_ context.Context, projectID string) (domain.IssueStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.IssueStats{ProjectID: projectID}
	for _, i := range s.issues {
		if i.ProjectID != projectID {
			continue
		}
		switch i.Status {
		case domain.IssueStatusOpen:
			stats.Open++
		case domain.IssueStatusAssigned:
			stats.Assigned++
		case domain.IssueStatusClosed:
			stats.Closed++
		}
	}
	return stats, nil
}

// DonationRepository implementation -------------------------------------------

func (s *Store) RecordDonation(_ context.Context, donation *domain.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[donation.ProjectID]
	if !ok {
		return domain.ErrNotFound
	}
	s.donations[donation.ProjectID] = append(s.donations[donation.ProjectID], *donation)
	p.CurrentAmount += donation.Amount
	p.UpdatedAt = time.Now()
	s.projects[donation.ProjectID] = p
	return nil
}

func (s *Store) ListDonationsByProject(_ context.Context, projectID string) ([]domain.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ledger := s.donations[projectID]
	out := make([]domain.Donation, 0, len(ledger))
	// Newest first for the transparency feed.
	for idx := len(ledger) - 1; idx >= 0; idx-- {
		out = append(out, ledger[idx])
	}
	return out, nil
}

func (s *Store) SumDonationsByProject(_ context.Context, projectID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, d := range s.donations[projectID] {
		total += d.Amount
	}
	return total, nil
}

// NotificationRepository implementation ---------------------------------------

func (s *Store) CreateNotification(_ context.Context, notification *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications[notification.ID] = *notification
	return nil
}

func (s *Store) GetNotificationByID(_ context.Context, id string) (*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &n, nil
}

func (s *Store) UpdateNotification(_ context.Context, notification *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[notification.ID]; !ok {
		return domain.ErrNotFound
	}
	s.notifications[notification.ID] = *notification
	return nil
}

func (s *Store) DeleteNotification(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.notifications, id)
	return nil
}

func (s *Store) ListNotificationsByRecipient(_ context.Context, recipientID string) ([]domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Notification
	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func cloneProject(p domain.Project) domain.Project {
	p.Members = append([]string(nil), p.Members...)
	if p.Location != nil {
		loc := *p.Location
		p.Location = &loc
	}
	return p
}

func cloneIssue(i domain.Issue) domain.Issue {
	if i.AssigneeID != nil {
		assignee := *i.AssigneeID
		i.AssigneeID = &assignee
	}
	return i
}
