package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"charityhub/internal/access"
	"charityhub/internal/auth"
	"charityhub/internal/domain"
)

// UserService covers registration, login and profile management.
type UserService struct {
	users       domain.UserRepository
	tokenSecret string
	tokenTTL    time.Duration
	logger      zerolog.Logger
}

// NewUserService builds a UserService.
func NewUserService(users domain.UserRepository, tokenSecret string, tokenTTL time.Duration, logger zerolog.Logger) *UserService {
	return &UserService{users: users, tokenSecret: tokenSecret, tokenTTL: tokenTTL, logger: logger}
}

var displayNameCaser = cases.Title(language.English, cases.NoLower)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new member account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name := displayNameCaser.String(strings.TrimSpace(in.Name))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidArgument)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidArgument)
	}
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.UserRoleMember,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login checks the credentials and issues a bearer credential for the
// account. Deactivated accounts cannot log in.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if !user.Active {
		return "", nil, fmt.Errorf("%w: account deactivated", domain.ErrUnauthorized)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	token, err := auth.Issue(s.tokenSecret, user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Get returns a user profile, visible to the user themselves and admins.
func (s *UserService) Get(ctx context.Context, actor auth.Identity, id string) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionProfileRead, access.ForSelf(user.ID)); err != nil {
		return nil, err
	}
	return user, nil
}

// ProfileUpdate carries optional profile mutations.
type ProfileUpdate struct {
	Name     *string
	Password *string
}

// UpdateProfile applies a profile update for the user themselves or an admin.
func (s *UserService) UpdateProfile(ctx context.Context, actor auth.Identity, id string, upd ProfileUpdate) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionProfileUpdate, access.ForSelf(user.ID)); err != nil {
		return nil, err
	}
	if upd.Name != nil {
		name := displayNameCaser.String(strings.TrimSpace(*upd.Name))
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidArgument)
		}
		user.Name = name
	}
	if upd.Password != nil {
		if len(*upd.Password) < 8 {
			return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidArgument)
		}
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// List returns all users; admin only.
func (s *UserService) List(ctx context.Context, actor auth.Identity) ([]domain.User, error) {
	if err := access.Authorize(actor, access.ActionUserList, access.Resource{}); err != nil {
		return nil, err
	}
	return s.users.ListUsers(ctx)
}

// Deactivate marks an account inactive; admin only. Accounts are never
// hard-deleted once referenced by other entities.
func (s *UserService) Deactivate(ctx context.Context, actor auth.Identity, id string) (*domain.User, error) {
	return s.setActive(ctx, actor, id, access.ActionUserDeactivate, false)
}

// Activate reverses a deactivation; admin only.
func (s *UserService) Activate(ctx context.Context, actor auth.Identity, id string) (*domain.User, error) {
	return s.setActive(ctx, actor, id, access.ActionUserActivate, true)
}

func (s *UserService) setActive(ctx context.Context, actor auth.Identity, id string, action access.Action, active bool) (*domain.User, error) {
	if err := access.Authorize(actor, action, access.Resource{}); err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Active = active
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.logger.Info().Str("user_id", id).Bool("active", active).Msg("user active flag changed")
	return user, nil
}

// ChangeRole sets a user's role; admin only.
func (s *UserService) ChangeRole(ctx context.Context, actor auth.Identity, id string, role domain.UserRole) (*domain.User, error) {
	if err := access.Authorize(actor, access.ActionUserRoleChange, access.Resource{}); err != nil {
		return nil, err
	}
	if role != domain.UserRoleMember && role != domain.UserRoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidArgument, role)
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// SystemStats summarizes account counts; admin only.
type SystemStats struct {
	TotalUsers  int
	ActiveUsers int
}

// Stats returns system-wide account counts; admin only.
func (s *UserService) Stats(ctx context.Context, actor auth.Identity) (SystemStats, error) {
	if err := access.Authorize(actor, access.ActionSystemStats, access.Resource{}); err != nil {
		return SystemStats{}, err
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return SystemStats{}, err
	}
	stats := SystemStats{TotalUsers: len(users)}
	for _, u := range users {
		if u.Active {
			stats.ActiveUsers++
		}
	}
	return stats, nil
}
