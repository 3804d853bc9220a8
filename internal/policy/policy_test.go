package policy

import (
	"testing"

	"github.com/tracklite/tracklite/internal/models"
)

func TestEffectiveNilUser(t *testing.T) {
	perms := Effective(nil, &models.Project{ID: 1, OwnerID: 10})
	if perms != (Permissions{}) {
		t.Errorf("nil user should hold no capabilities, got %+v", perms)
	}
}

func TestEffectiveCanDeleteProject(t *testing.T) {
	project := &models.Project{ID: 1, OwnerID: 10}

	tests := []struct {
		name string
		user models.User
		want bool
	}{
		{"owner with member role", models.User{ID: 10, Role: models.RoleMember}, true},
		{"admin non-owner", models.User{ID: 20, Role: models.RoleAdmin}, true},
		{"admin owner", models.User{ID: 10, Role: models.RoleAdmin}, true},
		{"plain member", models.User{ID: 30, Role: models.RoleMember}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perms := Effective(&tt.user, project)
			if perms.CanDeleteProject != tt.want {
				t.Errorf("CanDeleteProject = %v, want %v", perms.CanDeleteProject, tt.want)
			}
			// Delete, member management, and label management share
			// the same owner-or-admin rule.
			if perms.CanManageMembers != tt.want {
				t.Errorf("CanManageMembers = %v, want %v", perms.CanManageMembers, tt.want)
			}
			if perms.CanManageLabels != tt.want {
				t.Errorf("CanManageLabels = %v, want %v", perms.CanManageLabels, tt.want)
			}
		})
	}
}

func TestEffectiveOwnerWithoutAdminRole(t *testing.T) {
	// An owner who is a plain MEMBER may delete their project but may
	// not create new projects.
	project := &models.Project{ID: 1, OwnerID: 10}
	user := &models.User{ID: 10, Role: models.RoleMember}

	perms := Effective(user, project)
	if !perms.CanDeleteProject {
		t.Error("owner should be able to delete the project")
	}
	if perms.CanCreateProject {
		t.Error("non-admin should not be able to create projects")
	}
}

func TestEffectiveCreateProjectIsAdminOnly(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	member := &models.User{ID: 2, Role: models.RoleMember}

	if !Effective(admin, nil).CanCreateProject {
		t.Error("admin should be able to create projects")
	}
	if Effective(member, nil).CanCreateProject {
		t.Error("member should not be able to create projects")
	}
}

func TestEffectiveAnyMemberCanCreateTasks(t *testing.T) {
	project := &models.Project{ID: 1, OwnerID: 10, Members: []models.User{{ID: 10}, {ID: 30}}}
	member := &models.User{ID: 30, Role: models.RoleMember}

	perms := Effective(member, project)
	if !perms.CanCreateTask {
		t.Error("project member should be able to create tasks")
	}
	if !perms.CanEditAnyTask {
		t.Error("project member should be able to edit tasks")
	}
}

func TestDisplayRolePrecedence(t *testing.T) {
	project := &models.Project{ID: 1, OwnerID: 10}

	tests := []struct {
		name string
		user *models.User
		want string
	}{
		{"admin beats owner", &models.User{ID: 10, Role: models.RoleAdmin}, "ADMIN"},
		{"owner beats member", &models.User{ID: 10, Role: models.RoleMember}, "OWNER"},
		{"plain member", &models.User{ID: 30, Role: models.RoleMember}, "MEMBER"},
		{"no user", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayRole(tt.user, project); got != tt.want {
				t.Errorf("DisplayRole = %q, want %q", got, tt.want)
			}
		})
	}
}
