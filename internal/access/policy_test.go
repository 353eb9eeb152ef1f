package access

import (
	"errors"
	"testing"

	"charityhub/internal/auth"
	"charityhub/internal/domain"
)

var (
	admin  = auth.Identity{UserID: "admin-1", Role: domain.UserRoleAdmin}
	owner  = auth.Identity{UserID: "owner-1", Role: domain.UserRoleMember}
	member = auth.Identity{UserID: "member-1", Role: domain.UserRoleMember}
	other  = auth.Identity{UserID: "other-1", Role: domain.UserRoleMember}
)

func projectResource() Resource {
	return ForProject(&domain.Project{
		OwnerID: owner.UserID,
		Members: []string{owner.UserID, member.UserID},
	})
}

func issueResource(reporterID string) Resource {
	return ForIssue(
		&domain.Project{OwnerID: owner.UserID, Members: []string{owner.UserID, member.UserID}},
		&domain.Issue{ReporterID: reporterID},
	)
}

func TestAuthorize_DecisionTable(t *testing.T) {
	cases := []struct {
		name   string
		actor  auth.Identity
		action Action
		res    Resource
		reason Reason // empty means allow
	}{
		{"admin verifies project", admin, ActionProjectVerify, projectResource(), ""},
		{"owner cannot verify project", owner, ActionProjectVerify, projectResource(), ReasonAdminRequired},
		{"member cannot deactivate user", member, ActionUserDeactivate, ForSelf("x"), ReasonAdminRequired},
		{"admin changes role", admin, ActionUserRoleChange, ForSelf("x"), ""},

		{"member reads project", member, ActionProjectRead, projectResource(), ""},
		{"admin reads any project", admin, ActionProjectRead, projectResource(), ""},
		{"non-member denied project read", other, ActionProjectRead, projectResource(), ReasonNotMember},
		{"member creates issue", member, ActionIssueCreate, projectResource(), ""},
		{"non-member denied issue create", other, ActionIssueCreate, projectResource(), ReasonNotMember},
		{"member transitions issue", member, ActionIssueTransition, issueResource(owner.UserID), ""},
		{"non-member denied transition", other, ActionIssueTransition, issueResource(owner.UserID), ReasonNotMember},

		{"owner updates project", owner, ActionProjectUpdate, projectResource(), ""},
		{"member denied project update", member, ActionProjectUpdate, projectResource(), ReasonNotOwner},
		{"owner deletes project", owner, ActionProjectDelete, projectResource(), ""},
		{"owner adds member", owner, ActionProjectAddMember, projectResource(), ""},
		{"member denied member add", member, ActionProjectAddMember, projectResource(), ReasonNotOwner},

		{"owner attaches report", owner, ActionProjectAttachReport, projectResource(), ""},
		{"admin attaches report", admin, ActionProjectAttachReport, projectResource(), ""},
		{"member denied report attach", member, ActionProjectAttachReport, projectResource(), ReasonNotOwner},

		{"reporter updates issue", member, ActionIssueUpdate, issueResource(member.UserID), ""},
		{"non-reporter denied issue update", owner, ActionIssueUpdate, issueResource(member.UserID), ReasonNotOwner},
		{"reporter deletes issue", member, ActionIssueDelete, issueResource(member.UserID), ""},

		{"self reads profile", member, ActionProfileRead, ForSelf(member.UserID), ""},
		{"admin reads any profile", admin, ActionProfileRead, ForSelf(member.UserID), ""},
		{"other denied profile read", other, ActionProfileRead, ForSelf(member.UserID), ReasonNotSelf},

		{"recipient marks notification read", member, ActionNotificationUpdate, ForSelf(member.UserID), ""},
		{"admin denied foreign notification", admin, ActionNotificationUpdate, ForSelf(member.UserID), ReasonNotSelf},
		{"other denied notification delete", other, ActionNotificationDelete, ForSelf(member.UserID), ReasonNotSelf},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.actor, tc.action, tc.res)
			if tc.reason == "" {
				if err != nil {
					t.Fatalf("expected allow, got %v", err)
				}
				return
			}
			var denied *DeniedError
			if !errors.As(err, &denied) {
				t.Fatalf("expected DeniedError, got %v", err)
			}
			if denied.Reason != tc.reason {
				t.Errorf("expected reason %q, got %q", tc.reason, denied.Reason)
			}
			if !errors.Is(err, domain.ErrForbidden) {
				t.Error("denial should unwrap to ErrForbidden")
			}
		})
	}
}

func TestAuthorize_UnknownActionDenied(t *testing.T) {
	err := Authorize(admin, Action("bogus"), Resource{})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected default deny, got %v", err)
	}
}
