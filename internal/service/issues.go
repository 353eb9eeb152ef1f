package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"charityhub/internal/access"
	"charityhub/internal/auth"
	"charityhub/internal/domain"
	"charityhub/internal/rating"
)

// IssueService runs the issue state machine: open -> assigned -> closed,
// with a direct open -> closed transition also legal. Closure is the
// only place experience is credited.
type IssueService struct {
	issues        domain.IssueRepository
	projects      domain.ProjectRepository
	notifications domain.NotificationRepository
	rating        *rating.Engine
	closeAward    int64
	logger        zerolog.Logger
}

// NewIssueService builds an IssueService. closeAward is the XP credited
// to the assignee when an issue they hold is closed.
func NewIssueService(issues domain.IssueRepository, projects domain.ProjectRepository, notifications domain.NotificationRepository, engine *rating.Engine, closeAward int64, logger zerolog.Logger) *IssueService {
	return &IssueService{
		issues:        issues,
		projects:      projects,
		notifications: notifications,
		rating:        engine,
		closeAward:    closeAward,
		logger:        logger,
	}
}

// CreateIssueInput carries the fields accepted at issue creation.
type CreateIssueInput struct {
	ProjectID   string
	Title       string
	Description string
	Category    string
	Priority    domain.IssuePriority
}

// Create opens a new issue; project members only.
func (s *IssueService) Create(ctx context.Context, actor auth.Identity, in CreateIssueInput) (*domain.Issue, error) {
	project, err := s.projects.GetProjectByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionIssueCreate, access.ForProject(project)); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.IssuePriorityMedium
	}
	switch priority {
	case domain.IssuePriorityLow, domain.IssuePriorityMedium, domain.IssuePriorityHigh:
	default:
		return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidArgument, priority)
	}

	now := time.Now()
	issue := &domain.Issue{
		ID:          uuid.NewString(),
		ProjectID:   project.ID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Priority:    priority,
		Status:      domain.IssueStatusOpen,
		ReporterID:  actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.issues.CreateIssue(ctx, issue); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}
	return issue, nil
}

// Get returns an issue for a member of its project.
func (s *IssueService) Get(ctx context.Context, actor auth.Identity, id string) (*domain.Issue, error) {
	issue, project, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionIssueRead, access.ForIssue(project, issue)); err != nil {
		return nil, err
	}
	return issue, nil
}

// List returns a project's issues for its members.
func (s *IssueService) List(ctx context.Context, actor auth.Identity, projectID string) ([]domain.Issue, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionIssueRead, access.ForProject(project)); err != nil {
		return nil, err
	}
	return s.issues.ListIssuesByProject(ctx, projectID)
}

// IssueUpdate carries optional descriptive-field mutations. Status is
// deliberately absent: it moves only through Assign and Close.
type IssueUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *domain.IssuePriority
}

// Update edits descriptive fields; reporter only. Editing a closed
// issue's descriptive fields is permitted, but its status never moves
// backward.
func (s *IssueService) Update(ctx context.Context, actor auth.Identity, id string, upd IssueUpdate) (*domain.Issue, error) {
	issue, project, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionIssueUpdate, access.ForIssue(project, issue)); err != nil {
		return nil, err
	}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidArgument)
		}
		issue.Title = title
	}
	if upd.Description != nil {
		issue.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Category != nil {
		issue.Category = strings.TrimSpace(*upd.Category)
	}
	if upd.Priority != nil {
		switch *upd.Priority {
		case domain.IssuePriorityLow, domain.IssuePriorityMedium, domain.IssuePriorityHigh:
			issue.Priority = *upd.Priority
		default:
			return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidArgument, *upd.Priority)
		}
	}
	if err := s.issues.UpdateIssue(ctx, issue); err != nil {
		return nil, fmt.Errorf("update issue: %w", err)
	}
	return issue, nil
}

// Assign puts the issue in the volunteer's hands; any project member
// may assign, and the volunteer must be a member too. Reassigning an
// already-assigned issue to a different volunteer is permitted without
// a return to open.
func (s *IssueService) Assign(ctx context.Context, actor auth.Identity, id, volunteerID string) (*domain.Issue, error) {
	issue, project, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionIssueTransition, access.ForIssue(project, issue)); err != nil {
		return nil, err
	}
	if !project.HasMember(volunteerID) {
		return nil, fmt.Errorf("%w: volunteer is not a member of the project", domain.ErrInvalidArgument)
	}
	issue, err = s.issues.AssignIssue(ctx, id, volunteerID)
	if err != nil {
		return nil, err
	}
	if volunteerID != actor.UserID {
		notify(ctx, s.notifications, s.logger, volunteerID,
			"Issue assigned to you",
			fmt.Sprintf("You have been assigned %q in %q", issue.Title, project.Name),
			domain.NotificationTypeIssue)
	}
	return issue, nil
}

// Close resolves the issue. The repository transition decides whether
// this call actually closed it; experience is credited to the assignee
// only on a real transition, which makes retried and concurrent close
// requests credit at most once. Closing an already-closed issue is a
// silent no-op.
func (s *IssueService) Close(ctx context.Context, actor auth.Identity, id string) (*domain.Issue, error) {
	issue, project, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionIssueTransition, access.ForIssue(project, issue)); err != nil {
		return nil, err
	}
	issue, transitioned, err := s.issues.CloseIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return issue, nil
	}
	if issue.AssigneeID == nil {
		// No contributor of record, nothing to credit.
		return issue, nil
	}
	assignee := *issue.AssigneeID
	if _, err := s.rating.Credit(ctx, assignee, s.closeAward); err != nil {
		s.logger.Error().Err(err).Str("issue_id", id).Str("user_id", assignee).Msg("experience credit failed")
	}
	notify(ctx, s.notifications, s.logger, assignee,
		"Issue resolved",
		fmt.Sprintf("%q in %q was closed; thank you for contributing", issue.Title, project.Name),
		domain.NotificationTypeIssue)
	return issue, nil
}

// Delete removes an issue; reporter only.
func (s *IssueService) Delete(ctx context.Context, actor auth.Identity, id string) error {
	issue, project, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := access.Authorize(actor, access.ActionIssueDelete, access.ForIssue(project, issue)); err != nil {
		return err
	}
	return s.issues.DeleteIssue(ctx, id)
}

// Stats returns issue counts for a project; members only.
func (s *IssueService) Stats(ctx context.Context, actor auth.Identity, projectID string) (domain.IssueStats, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return domain.IssueStats{}, err
	}
	if err := access.Authorize(actor, access.ActionIssueRead, access.ForProject(project)); err != nil {
		return domain.IssueStats{}, err
	}
	return s.issues.IssueStatsByProject(ctx, projectID)
}

func (s *IssueService) load(ctx context.Context, id string) (*domain.Issue, *domain.Project, error) {
	issue, err := s.issues.GetIssueByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	project, err := s.projects.GetProjectByID(ctx, issue.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("load issue project: %w", err)
	}
	return issue, project, nil
}
