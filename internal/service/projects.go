package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"charityhub/internal/access"
	"charityhub/internal/auth"
	"charityhub/internal/domain"
)

// Locator resolves an approximate geolocation for a client IP. A nil
// result with nil error means the location is simply unknown.
type Locator interface {
	Locate(ip string) (*domain.GeoPoint, error)
}

// ProjectService covers the project lifecycle: creation, membership,
// verification and report attachment.
type ProjectService struct {
	projects      domain.ProjectRepository
	users         domain.UserRepository
	notifications domain.NotificationRepository
	locator       Locator
	logger        zerolog.Logger
}

// NewProjectService builds a ProjectService. locator may be nil.
func NewProjectService(projects domain.ProjectRepository, users domain.UserRepository, notifications domain.NotificationRepository, locator Locator, logger zerolog.Logger) *ProjectService {
	return &ProjectService{projects: projects, users: users, notifications: notifications, locator: locator, logger: logger}
}

// CreateProjectInput carries the fields accepted at project creation.
type CreateProjectInput struct {
	Name        string
	Description string
	GoalAmount  int64
	Location    *domain.GeoPoint
	// ClientIP is used to default the location when none is supplied.
	ClientIP string
}

// Create registers a new project. The creator becomes owner and is
// always a member of their own project.
func (s *ProjectService) Create(ctx context.Context, actor auth.Identity, in CreateProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	}
	if in.GoalAmount < 0 {
		return nil, fmt.Errorf("%w: goal amount must not be negative", domain.ErrInvalidArgument)
	}

	location := in.Location
	if location == nil && s.locator != nil && in.ClientIP != "" {
		if loc, err := s.locator.Locate(in.ClientIP); err == nil {
			location = loc
		} else {
			s.logger.Debug().Err(err).Str("ip", in.ClientIP).Msg("geoip lookup failed")
		}
	}

	now := time.Now()
	project := &domain.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		OwnerID:     actor.UserID,
		Members:     []string{actor.UserID},
		GoalAmount:  in.GoalAmount,
		Location:    location,
		Status:      domain.ProjectStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	s.logger.Info().Str("project_id", project.ID).Str("owner_id", actor.UserID).Msg("project created")
	return project, nil
}

// Get returns a project for a member or an admin. An absent id yields
// ErrNotFound; an existing project read by a non-member yields
// ErrForbidden, so existence is disclosed only to authenticated callers.
func (s *ProjectService) Get(ctx context.Context, actor auth.Identity, id string) (*domain.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionProjectRead, access.ForProject(project)); err != nil {
		return nil, err
	}
	return project, nil
}

// List returns the actor's projects; admins see all projects.
func (s *ProjectService) List(ctx context.Context, actor auth.Identity) ([]domain.Project, error) {
	if actor.Role == domain.UserRoleAdmin {
		return s.projects.ListAllProjects(ctx)
	}
	return s.projects.ListProjectsByMember(ctx, actor.UserID)
}

// ProjectUpdate carries optional project attribute mutations.
type ProjectUpdate struct {
	Name        *string
	Description *string
	GoalAmount  *int64
	Location    *domain.GeoPoint
}

// Update applies attribute changes; owner only.
func (s *ProjectService) Update(ctx context.Context, actor auth.Identity, id string, upd ProjectUpdate) (*domain.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionProjectUpdate, access.ForProject(project)); err != nil {
		return nil, err
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidArgument)
		}
		project.Name = name
	}
	if upd.Description != nil {
		project.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.GoalAmount != nil {
		if *upd.GoalAmount < 0 {
			return nil, fmt.Errorf("%w: goal amount must not be negative", domain.ErrInvalidArgument)
		}
		project.GoalAmount = *upd.GoalAmount
	}
	if upd.Location != nil {
		project.Location = upd.Location
	}
	if err := s.projects.UpdateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

// Delete removes a project; owner only.
func (s *ProjectService) Delete(ctx context.Context, actor auth.Identity, id string) error {
	project, err := s.projects.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}
	if err := access.Authorize(actor, access.ActionProjectDelete, access.ForProject(project)); err != nil {
		return err
	}
	if err := s.projects.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	s.logger.Info().Str("project_id", id).Msg("project deleted")
	return nil
}

// Close sets the project status to closed; owner only.
func (s *ProjectService) Close(ctx context.Context, actor auth.Identity, id string) (*domain.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionProjectClose, access.ForProject(project)); err != nil {
		return nil, err
	}
	project.Status = domain.ProjectStatusClosed
	if err := s.projects.UpdateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("close project: %w", err)
	}
	return project, nil
}

// AddMember adds a user to the project's member set; owner only.
func (s *ProjectService) AddMember(ctx context.Context, actor auth.Identity, projectID, userID string) (*domain.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionProjectAddMember, access.ForProject(project)); err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
		}
		return nil, err
	}
	if project.HasMember(userID) {
		return project, nil
	}
	project.Members = append(project.Members, userID)
	if err := s.projects.UpdateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	notify(ctx, s.notifications, s.logger, user.ID,
		"Added to project",
		fmt.Sprintf("You have been added to %q", project.Name),
		domain.NotificationTypeMembership)
	return project, nil
}

// RemoveMember removes a user from the member set; owner only. The
// owner's own membership is never removable.
func (s *ProjectService) RemoveMember(ctx context.Context, actor auth.Identity, projectID, userID string) (*domain.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionProjectRemoveMember, access.ForProject(project)); err != nil {
		return nil, err
	}
	if userID == project.OwnerID {
		return nil, fmt.Errorf("%w: the owner cannot be removed from their project", domain.ErrInvalidArgument)
	}
	members := project.Members[:0]
	for _, m := range project.Members {
		if m != userID {
			members = append(members, m)
		}
	}
	project.Members = members
	if err := s.projects.UpdateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("remove member: %w", err)
	}
	return project, nil
}

// Verify marks the project's use of funds as attested; admin only.
// Verification is irreversible: there is no unverify operation.
func (s *ProjectService) Verify(ctx context.Context, actor auth.Identity, id string) (*domain.Project, error) {
	if err := access.Authorize(actor, access.ActionProjectVerify, access.Resource{}); err != nil {
		return nil, err
	}
	project, err := s.projects.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.Verified {
		return project, nil
	}
	project.Verified = true
	if err := s.projects.UpdateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("verify project: %w", err)
	}
	notify(ctx, s.notifications, s.logger, project.OwnerID,
		"Project verified",
		fmt.Sprintf("%q has been verified by an administrator", project.Name),
		domain.NotificationTypeSystem)
	s.logger.Info().Str("project_id", id).Msg("project verified")
	return project, nil
}

// AttachReport sets the project's report reference; owner or admin.
// Independent of verification and allowed at any time.
func (s *ProjectService) AttachReport(ctx context.Context, actor auth.Identity, id, url string) (*domain.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionProjectAttachReport, access.ForProject(project)); err != nil {
		return nil, err
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: report url is required", domain.ErrInvalidArgument)
	}
	project.ReportURL = url
	if err := s.projects.UpdateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("attach report: %w", err)
	}
	return project, nil
}
