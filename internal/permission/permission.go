// Package permission implements the role model and the pure permission check
// gating every workflow operation.
package permission

import "lingoflow/internal/models"

// Role is a privilege level on a project, ascending.
type Role int

const (
	RoleNone Role = iota
	RoleViewer
	RoleReviewer
	RoleTranslator
	RoleAdmin
	RoleOwner
)

var roleNames = map[Role]string{
	RoleViewer:     "viewer",
	RoleReviewer:   "reviewer",
	RoleTranslator: "translator",
	RoleAdmin:      "admin",
	RoleOwner:      "owner",
}

var rolesByName = map[string]Role{
	"viewer":     RoleViewer,
	"reviewer":   RoleReviewer,
	"translator": RoleTranslator,
	"admin":      RoleAdmin,
	"owner":      RoleOwner,
}

// String returns the wire name of the role, or "none" for an unknown one.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "none"
}

// ParseRole maps a stored role name onto a Role. Unknown names are RoleNone,
// which grants nothing.
func ParseRole(name string) Role {
	return rolesByName[name]
}

// ValidRoleName reports whether name is a grantable role.
func ValidRoleName(name string) bool {
	_, ok := rolesByName[name]
	return ok
}

// Max returns the higher-privilege of two roles.
func Max(a, b Role) Role {
	if a > b {
		return a
	}
	return b
}

// Action is an operation subject to the permission check.
type Action string

const (
	ActionView              Action = "view"
	ActionComment           Action = "comment"
	ActionEditSegment       Action = "edit_segment"
	ActionReviewSegment     Action = "review_segment"
	ActionReopenSegment     Action = "reopen_segment"
	ActionResetSegment      Action = "reset_segment"
	ActionCreateDocument    Action = "create_document"
	ActionManageMembers     Action = "manage_members"
	ActionManageProject     Action = "manage_project"
	ActionArchiveProject    Action = "archive_project"
	ActionDeleteProject     Action = "delete_project"
	ActionTransferOwnership Action = "transfer_ownership"
)

// minimumRole is the role floor per action, before resource state is applied.
var minimumRole = map[Action]Role{
	ActionView:              RoleViewer,
	ActionComment:           RoleReviewer,
	ActionEditSegment:       RoleTranslator,
	ActionReviewSegment:     RoleReviewer,
	ActionReopenSegment:     RoleReviewer,
	ActionResetSegment:      RoleAdmin,
	ActionCreateDocument:    RoleTranslator,
	ActionManageMembers:     RoleAdmin,
	ActionManageProject:     RoleAdmin,
	ActionArchiveProject:    RoleAdmin,
	ActionDeleteProject:     RoleOwner,
	ActionTransferOwnership: RoleOwner,
}

// Actor is the caller identity the engine consumes: an id plus the effective
// role already resolved for the resource's project.
type Actor struct {
	ID   string
	Role Role
}

// SegmentState is the slice of resource state the permission check depends on.
type SegmentState struct {
	Status             string
	AssignedTranslator *string
}

// Can is a pure function of the actor's effective role and the resource's
// current state. Segment-independent actions pass seg == nil.
func Can(actor Actor, action Action, seg *SegmentState) bool {
	floor, ok := minimumRole[action]
	if !ok || actor.Role < floor {
		return false
	}

	if seg == nil {
		return true
	}

	switch action {
	case ActionEditSegment:
		// A reviewed segment must be re-opened before anyone edits it again.
		if seg.Status == models.SegmentStatusReviewed {
			return false
		}
		// Translators only touch segments on documents assigned to them; an
		// unassigned document is open to any translator. Admins and owners
		// bypass assignment.
		if actor.Role == RoleTranslator && seg.AssignedTranslator != nil && *seg.AssignedTranslator != actor.ID {
			return false
		}
		return true
	case ActionReviewSegment:
		// Only edited segments are reviewable.
		return seg.Status == models.SegmentStatusHumanEdited
	case ActionReopenSegment:
		return seg.Status == models.SegmentStatusReviewed
	default:
		return true
	}
}
