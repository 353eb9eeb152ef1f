package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"charityhub/internal/domain"
)

func TestIssueLifecycle_AssignThenClose(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reporter := f.seedUser(t, "user-a", "Alice", domain.UserRoleMember)
	volunteer := f.seedUser(t, "user-b", "Bob", domain.UserRoleMember)
	project := f.seedProject(t, reporter, volunteer)

	issue, err := f.issues.Create(ctx, reporter, CreateIssueInput{
		ProjectID: project.ID,
		Title:     "Need more volunteers",
	})
	if err != nil {
		t.Fatalf("create issue: %v", err)
	}
	if issue.Status != domain.IssueStatusOpen {
		t.Fatalf("new issue should be open, got %q", issue.Status)
	}
	if issue.Priority != domain.IssuePriorityMedium {
		t.Errorf("expected default medium priority, got %q", issue.Priority)
	}

	issue, err = f.issues.Assign(ctx, reporter, issue.ID, volunteer.UserID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if issue.Status != domain.IssueStatusAssigned {
		t.Errorf("expected assigned, got %q", issue.Status)
	}
	if issue.AssigneeID == nil || *issue.AssigneeID != volunteer.UserID {
		t.Errorf("unexpected assignee: %v", issue.AssigneeID)
	}

	issue, err = f.issues.Close(ctx, reporter, issue.ID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if issue.Status != domain.IssueStatusClosed {
		t.Errorf("expected closed, got %q", issue.Status)
	}
	if got := f.xp(t, volunteer.UserID); got != testCloseAward {
		t.Errorf("expected %d XP for the assignee, got %d", testCloseAward, got)
	}
}

func TestIssueClose_IdempotentCreditsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reporter := f.seedUser(t, "user-a", "Alice", domain.UserRoleMember)
	volunteer := f.seedUser(t, "user-b", "Bob", domain.UserRoleMember)
	project := f.seedProject(t, reporter, volunteer)

	issue, err := f.issues.Create(ctx, reporter, CreateIssueInput{ProjectID: project.ID, Title: "Task"})
	if err != nil {
		t.Fatalf("create issue: %v", err)
	}
	if _, err := f.issues.Assign(ctx, reporter, issue.ID, volunteer.UserID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	first, err := f.issues.Close(ctx, reporter, issue.ID)
	if err != nil {
		t.Fatalf("first close: %v", err)
	}
	second, err := f.issues.Close(ctx, reporter, issue.ID)
	if err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
	if first.Status != second.Status || second.Status != domain.IssueStatusClosed {
		t.Errorf("statuses diverged: %q vs %q", first.Status, second.Status)
	}
	if got := f.xp(t, volunteer.UserID); got != testCloseAward {
		t.Errorf("double close must credit once: expected %d XP, got %d", testCloseAward, got)
	}
}

func TestIssueClose_ConcurrentCreditsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reporter := f.seedUser(t, "user-a", "Alice", domain.UserRoleMember)
	volunteer := f.seedUser(t, "user-b", "Bob", domain.UserRoleMember)
	project := f.seedProject(t, reporter, volunteer)

	issue, err := f.issues.Create(ctx, reporter, CreateIssueInput{ProjectID: project.ID, Title: "Task"})
	if err != nil {
		t.Fatalf("create issue: %v", err)
	}
	if _, err := f.issues.Assign(ctx, reporter, issue.ID, volunteer.UserID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.issues.Close(ctx, reporter, issue.ID)
		}()
	}
	wg.Wait()

	if got := f.xp(t, volunteer.UserID); got != testCloseAward {
		t.Errorf("concurrent closes must credit once: expected %d XP, got %d", testCloseAward, got)
	}
}

func TestIssueClose_WithoutAssigneeCreditsNobody(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reporter := f.seedUser(t, "user-a", "Alice", domain.UserRoleMember)
	project := f.seedProject(t, reporter)

	issue, err := f.issues.Create(ctx, reporter, CreateIssueInput{ProjectID: project.ID, Title: "Task"})
	if err != nil {
		t.Fatalf("create issue: %v", err)
	}
	closed, err := f.issues.Close(ctx, reporter, issue.ID)
	if err != nil {
		t.Fatalf("direct open->closed must be legal: %v", err)
	}
	if closed.Status != domain.IssueStatusClosed {
		t.Errorf("expected closed, got %q", closed.Status)
	}
	if got := f.xp(t, reporter.UserID); got != 0 {
		t.Errorf("no assignee means no credit, got %d XP", got)
	}
}

func TestIssueAssign_RejectsNonMemberVolunteer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reporter := f.seedUser(t, "user-a", "Alice", domain.UserRoleMember)
	outsider := f.seedUser(t, "user-c", "Carol", domain.UserRoleMember)
	project := f.seedProject(t, reporter)

	issue, err := f.issues.Create(ctx, reporter, CreateIssueInput{ProjectID: project.ID, Title: "Task"})
	if err != nil {
		t.Fatalf("create issue: %v", err)
	}
	if _, err := f.issues.Assign(ctx, reporter, issue.ID, outsider.UserID); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestIssueAssign_ReassignmentAllowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reporter := f.seedUser(t, "user-a", "Alice", domain.UserRoleMember)
	first := f.seedUser(t, "user-b", "Bob", domain.UserRoleMember)
	second := f.seedUser(t, "user-c", "Carol", domain.UserRoleMember)
	project := f.seedProject(t, reporter, first, second)

	issue, err := f.issues.Create(ctx, reporter, CreateIssueInput{ProjectID: project.ID, Title: "Task"})
	if err != nil {
		t.Fatalf("create issue: %v", err)
	}
	if _, err := f.issues.Assign(ctx, reporter, issue.ID, first.UserID); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	issue, err = f.issues.Assign(ctx, reporter, issue.ID, second.UserID)
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if issue.AssigneeID == nil || *issue.AssigneeID != second.UserID {
		t.Errorf("expected reassignment to %s, got %v", second.UserID, issue.AssigneeID)
	}
	if issue.Status != domain.IssueStatusAssigned {
		t.Errorf("expected assigned, got %q", issue.Status)
	}
}

func TestIssueAssign_ClosedIssueRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reporter := f.seedUser(t, "user-a", "Alice", domain.UserRoleMember)
	volunteer := f.seedUser(t, "user-b", "Bob", domain.UserRoleMember)
	project := f.seedProject(t, reporter, volunteer)

	issue, err := f.issues.Create(ctx, reporter, CreateIssueInput{ProjectID: project.ID, Title: "Task"})
	if err != nil {
		t.Fatalf("create issue: %v", err)
	}
	if _, err := f.issues.Close(ctx, reporter, issue.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := f.issues.Assign(ctx, reporter, issue.ID, volunteer.UserID); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestIssueUpdate_ClosedDescriptiveFieldsEditable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reporter := f.seedUser(t, "user-a", "Alice", domain.UserRoleMember)
	project := f.seedProject(t, reporter)

	issue, err := f.issues.Create(ctx, reporter, CreateIssueInput{ProjectID: project.ID, Title: "Task"})
	if err != nil {
		t.Fatalf("create issue: %v", err)
	}
	if _, err := f.issues.Close(ctx, reporter, issue.ID); err != nil {
		t.Fatalf("close: %v", err)
	}

	title := "Task (amended)"
	updated, err := f.issues.Update(ctx, reporter, issue.ID, IssueUpdate{Title: &title})
	if err != nil {
		t.Fatalf("history edit on closed issue should be permitted: %v", err)
	}
	if updated.Title != title {
		t.Errorf("expected amended title, got %q", updated.Title)
	}
	if updated.Status != domain.IssueStatusClosed {
		t.Errorf("status must not move backward from closed, got %q", updated.Status)
	}
}

func TestIssueCreate_NonMemberForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "user-a", "Alice", domain.UserRoleMember)
	outsider := f.seedUser(t, "user-c", "Carol", domain.UserRoleMember)
	project := f.seedProject(t, owner)

	if _, err := f.issues.Create(ctx, outsider, CreateIssueInput{ProjectID: project.ID, Title: "Task"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestIssueStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reporter := f.seedUser(t, "user-a", "Alice", domain.UserRoleMember)
	volunteer := f.seedUser(t, "user-b", "Bob", domain.UserRoleMember)
	project := f.seedProject(t, reporter, volunteer)

	if _, err := f.issues.Create(ctx, reporter, CreateIssueInput{ProjectID: project.ID, Title: "Open one"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	assigned, err := f.issues.Create(ctx, reporter, CreateIssueInput{ProjectID: project.ID, Title: "Assigned one"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.issues.Assign(ctx, reporter, assigned.ID, volunteer.UserID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	closed, err := f.issues.Create(ctx, reporter, CreateIssueInput{ProjectID: project.ID, Title: "Closed one"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.issues.Close(ctx, reporter, closed.ID); err != nil {
		t.Fatalf("close: %v", err)
	}

	stats, err := f.issues.Stats(ctx, reporter, project.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Open != 1 || stats.Assigned != 1 || stats.Closed != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.Total() != 3 {
		t.Errorf("expected total 3, got %d", stats.Total())
	}
}
