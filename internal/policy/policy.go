// Package policy computes the capabilities a user holds over a
// project from their global role and project ownership. Everything
// here is pure and advisory: the server independently re-validates
// every mutation, so these checks only keep the client from offering
// actions the server would reject.
package policy

import "github.com/tracklite/tracklite/internal/models"

// Permissions is the set of capabilities a user holds over one project
type Permissions struct {
	CanCreateProject bool
	CanDeleteProject bool
	CanManageMembers bool
	CanManageLabels  bool
	CanCreateTask    bool
	CanEditAnyTask   bool
}

// Effective computes the user's capabilities over the project.
// A nil user yields no capabilities; a nil project grants only the
// project-independent ones. Never panics.
func Effective(user *models.User, project *models.Project) Permissions {
	if user == nil {
		return Permissions{}
	}

	isAdmin := user.Role == models.RoleAdmin
	perms := Permissions{
		CanCreateProject: isAdmin,
	}
	if project == nil {
		return perms
	}

	isOwner := project.OwnerID == user.ID
	perms.CanDeleteProject = isOwner || isAdmin
	perms.CanManageMembers = isOwner || isAdmin
	perms.CanManageLabels = isOwner || isAdmin

	// Any member may create and edit tasks; a non-member never gets
	// this far because the project fetch fails upstream with Forbidden.
	perms.CanCreateTask = true
	perms.CanEditAnyTask = true

	return perms
}

// DisplayRole returns the badge shown next to the user's name on a
// project: ADMIN over OWNER over MEMBER. Presentation only; it is not
// consulted for any capability check.
func DisplayRole(user *models.User, project *models.Project) string {
	if user == nil {
		return ""
	}
	if user.Role == models.RoleAdmin {
		return "ADMIN"
	}
	if project != nil && project.OwnerID == user.ID {
		return "OWNER"
	}
	return "MEMBER"
}
