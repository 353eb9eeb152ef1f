// Package access holds the single authorization decision table. Every
// permission check in the system goes through Authorize so the rules
// have one source of truth and one place to test.
package access

import (
	"fmt"

	"charityhub/internal/auth"
	"charityhub/internal/domain"
)

// Action identifies an operation being authorized.
type Action string

const (
	// Administrative actions.
	ActionUserList       Action = "user.list"
	ActionUserDeactivate Action = "user.deactivate"
	ActionUserActivate   Action = "user.activate"
	ActionUserRoleChange Action = "user.role_change"
	ActionSystemStats    Action = "system.stats"
	ActionProjectVerify  Action = "project.verify"

	// Project-scoped actions.
	ActionProjectRead         Action = "project.read"
	ActionProjectUpdate       Action = "project.update"
	ActionProjectDelete       Action = "project.delete"
	ActionProjectClose        Action = "project.close"
	ActionProjectAddMember    Action = "project.member_add"
	ActionProjectRemoveMember Action = "project.member_remove"
	ActionProjectAttachReport Action = "project.attach_report"

	// Issue-scoped actions.
	ActionIssueCreate     Action = "issue.create"
	ActionIssueRead       Action = "issue.read"
	ActionIssueUpdate     Action = "issue.update"
	ActionIssueTransition Action = "issue.transition"
	ActionIssueDelete     Action = "issue.delete"

	// Self-scoped actions.
	ActionProfileRead        Action = "profile.read"
	ActionProfileUpdate      Action = "profile.update"
	ActionNotificationRead   Action = "notification.read"
	ActionNotificationUpdate Action = "notification.update"
	ActionNotificationDelete Action = "notification.delete"
)

// Reason is a stable denial code carried for observability.
type Reason string

const (
	ReasonNotMember     Reason = "not_a_member"
	ReasonNotOwner      Reason = "not_owner"
	ReasonNotSelf       Reason = "not_self"
	ReasonAdminRequired Reason = "admin_required"
)

// DeniedError is the typed denial returned by Authorize. It unwraps to
// domain.ErrForbidden so callers can map it with errors.Is.
type DeniedError struct {
	Reason Reason
}

func (e *DeniedError) Error() string {
	return "access denied: " + string(e.Reason)
}

func (e *DeniedError) Unwrap() error {
	return domain.ErrForbidden
}

// Resource carries the ownership facts Authorize evaluates against.
// Services build it from loaded entities via the constructors below.
type Resource struct {
	ProjectOwnerID  string
	ProjectMembers  []string
	IssueReporterID string
	SelfUserID      string
}

// ForProject builds the resource for project-scoped actions.
func ForProject(p *domain.Project) Resource {
	return Resource{ProjectOwnerID: p.OwnerID, ProjectMembers: p.Members}
}

// ForIssue builds the resource for issue-scoped actions; membership is
// evaluated against the issue's project.
func ForIssue(p *domain.Project, i *domain.Issue) Resource {
	return Resource{
		ProjectOwnerID:  p.OwnerID,
		ProjectMembers:  p.Members,
		IssueReporterID: i.ReporterID,
	}
}

// ForSelf builds the resource for self-scoped actions on a user's own
// profile or notifications.
func ForSelf(ownerUserID string) Resource {
	return Resource{SelfUserID: ownerUserID}
}

// Authorize decides whether the actor may perform the action on the
// resource. Rules apply in priority order: admin role for
// administrative actions, then resource membership, then ownership,
// then self scope. Deny is the default; every denial carries a reason.
func Authorize(actor auth.Identity, action Action, res Resource) error {
	switch action {
	case ActionUserList, ActionUserDeactivate, ActionUserActivate,
		ActionUserRoleChange, ActionSystemStats, ActionProjectVerify:
		if actor.Role == domain.UserRoleAdmin {
			return nil
		}
		return &DeniedError{Reason: ReasonAdminRequired}

	case ActionProjectRead, ActionIssueCreate, ActionIssueRead, ActionIssueTransition:
		if actor.Role == domain.UserRoleAdmin {
			return nil
		}
		if isMember(res.ProjectMembers, actor.UserID) {
			return nil
		}
		return &DeniedError{Reason: ReasonNotMember}

	case ActionProjectUpdate, ActionProjectDelete, ActionProjectClose,
		ActionProjectAddMember, ActionProjectRemoveMember:
		if actor.UserID == res.ProjectOwnerID {
			return nil
		}
		return &DeniedError{Reason: ReasonNotOwner}

	case ActionProjectAttachReport:
		if actor.Role == domain.UserRoleAdmin {
			return nil
		}
		if actor.UserID == res.ProjectOwnerID {
			return nil
		}
		return &DeniedError{Reason: ReasonNotOwner}

	case ActionIssueUpdate, ActionIssueDelete:
		if actor.UserID == res.IssueReporterID {
			return nil
		}
		return &DeniedError{Reason: ReasonNotOwner}

	case ActionProfileRead, ActionProfileUpdate:
		if actor.Role == domain.UserRoleAdmin {
			return nil
		}
		if actor.UserID == res.SelfUserID {
			return nil
		}
		return &DeniedError{Reason: ReasonNotSelf}

	case ActionNotificationRead, ActionNotificationUpdate, ActionNotificationDelete:
		// Notifications are mutable only by their recipient, admins included.
		if actor.UserID == res.SelfUserID {
			return nil
		}
		return &DeniedError{Reason: ReasonNotSelf}
	}

	return fmt.Errorf("%w: unknown action %q", domain.ErrForbidden, action)
}

func isMember(members []string, userID string) bool {
	for _, m := range members {
		if m == userID {
			return true
		}
	}
	return false
}
