package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"charityhub/internal/adapter/memory"
	"charityhub/internal/auth"
	"charityhub/internal/domain"
	"charityhub/internal/rating"
)

const testCloseAward = 50

// fixture wires every service over one in-memory store.
type fixture struct {
	store         *memory.Store
	users         *UserService
	projects      *ProjectService
	issues        *IssueService
	donations     *DonationService
	notifications *NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	logger := zerolog.Nop()
	engine := rating.NewEngine(store, rating.DefaultThresholds, logger)
	return &fixture{
		store:         store,
		users:         NewUserService(store, "test-secret", time.Hour, logger),
		projects:      NewProjectService(store, store, store, nil, logger),
		issues:        NewIssueService(store, store, store, engine, testCloseAward, logger),
		donations:     NewDonationService(store, store, store, store, logger),
		notifications: NewNotificationService(store, logger),
	}
}

// seedUser creates an active user directly in the store and returns its
// identity.
func (f *fixture) seedUser(t *testing.T, id, name string, role domain.UserRole) auth.Identity {
	t.Helper()
	now := time.Now()
	err := f.store.CreateUser(context.Background(), &domain.User{
		ID:        id,
		Name:      name,
		Email:     id + "@example.com",
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
	return auth.Identity{UserID: id, Role: role}
}

// seedProject creates a project owned by owner with the given extra members.
func (f *fixture) seedProject(t *testing.T, owner auth.Identity, extraMembers ...auth.Identity) *domain.Project {
	t.Helper()
	project, err := f.projects.Create(context.Background(), owner, CreateProjectInput{
		Name:       "Downtown Food Drive",
		GoalAmount: 100000,
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	for _, m := range extraMembers {
		if _, err := f.projects.AddMember(context.Background(), owner, project.ID, m.UserID); err != nil {
			t.Fatalf("seed member %s: %v", m.UserID, err)
		}
	}
	project, err = f.store.GetProjectByID(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("reload project: %v", err)
	}
	return project
}

func (f *fixture) xp(t *testing.T, userID string) int64 {
	t.Helper()
	user, err := f.store.GetUserByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("load user %s: %v", userID, err)
	}
	return user.Experience
}
