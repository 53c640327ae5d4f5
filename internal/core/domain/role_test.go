package domain

import "testing"

// ---------------------------------------------------------------------------
// Capability matrix
// ---------------------------------------------------------------------------

func TestRole_CapabilityMatrix(t *testing.T) {
	tests := []struct {
		role          Role
		editProject   bool
		manageMembers bool
		deleteProject bool
		inviteMembers bool
	}{
		{RoleOwner, true, true, true, true},
		{RoleAdmin, true, true, false, true},
		{RoleEditor, true, false, false, false},
		{RoleViewer, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.CanEditProject(); got != tt.editProject {
				t.Errorf("CanEditProject() = %v, want %v", got, tt.editProject)
			}
			if got := tt.role.CanManageMembers(); got != tt.manageMembers {
				t.Errorf("CanManageMembers() = %v, want %v", got, tt.manageMembers)
			}
			if got := tt.role.CanDeleteProject(); got != tt.deleteProject {
				t.Errorf("CanDeleteProject() = %v, want %v", got, tt.deleteProject)
			}
			if got := tt.role.CanInviteMembers(); got != tt.inviteMembers {
				t.Errorf("CanInviteMembers() = %v, want %v", got, tt.inviteMembers)
			}
		})
	}
}

func TestRole_CanViewActivityLog_AllValidRoles(t *testing.T) {
	for _, r := range AllRoles {
		if !r.CanViewActivityLog() {
			t.Errorf("role %q must be able to view the activity log", r)
		}
	}
	if Role("intruder").CanViewActivityLog() {
		t.Error("unknown role must not be able to view the activity log")
	}
}

func TestRole_Ordering(t *testing.T) {
	if !RoleOwner.AtLeast(RoleAdmin) || !RoleAdmin.AtLeast(RoleEditor) || !RoleEditor.AtLeast(RoleViewer) {
		t.Error("role ordering broken: want viewer < editor < admin < owner")
	}
	if RoleViewer.AtLeast(RoleEditor) {
		t.Error("viewer must not rank at or above editor")
	}
	if Role("ghost").AtLeast(RoleViewer) {
		t.Error("unknown role must rank below viewer")
	}
}

// ---------------------------------------------------------------------------
// Role changes and the assignment ceiling
// ---------------------------------------------------------------------------

func TestRole_CanChangeRole(t *testing.T) {
	tests := []struct {
		actor  Role
		target Role
		want   bool
	}{
		{RoleOwner, RoleOwner, true},
		{RoleOwner, RoleAdmin, true},
		{RoleOwner, RoleViewer, true},
		{RoleAdmin, RoleOwner, false},
		{RoleAdmin, RoleAdmin, false},
		{RoleAdmin, RoleEditor, true},
		{RoleAdmin, RoleViewer, true},
		{RoleEditor, RoleViewer, false},
		{RoleViewer, RoleViewer, false},
	}

	for _, tt := range tests {
		if got := tt.actor.CanChangeRole(tt.target); got != tt.want {
			t.Errorf("%s.CanChangeRole(%s) = %v, want %v", tt.actor, tt.target, got, tt.want)
		}
	}
}

func TestRole_AssignableRoles(t *testing.T) {
	owner := RoleOwner.AssignableRoles()
	if len(owner) != 4 {
		t.Errorf("owner must be able to assign all 4 roles, got %d", len(owner))
	}

	admin := RoleAdmin.AssignableRoles()
	if len(admin) != 2 {
		t.Fatalf("admin must be able to assign exactly 2 roles, got %d", len(admin))
	}
	for _, r := range admin {
		if r == RoleOwner || r == RoleAdmin {
			t.Errorf("admin must not be able to assign %q", r)
		}
	}

	if RoleEditor.AssignableRoles() != nil {
		t.Error("editor must not be able to assign any role")
	}
	if RoleViewer.AssignableRoles() != nil {
		t.Error("viewer must not be able to assign any role")
	}
}

// For owner and admin, the roles they may assign and the targets whose
// role they may change are the same set. The two predicates are separate
// functions answering separate questions, so drift in either one must
// fail here.
func TestRole_AssignableMatchesChangeableTargets(t *testing.T) {
	all := []Role{RoleOwner, RoleAdmin, RoleEditor, RoleViewer}

	for _, actor := range []Role{RoleOwner, RoleAdmin} {
		changeable := make(map[Role]bool)
		for _, target := range all {
			if actor.CanChangeRole(target) {
				changeable[target] = true
			}
		}

		assignable := make(map[Role]bool)
		for _, r := range actor.AssignableRoles() {
			assignable[r] = true
		}

		if len(changeable) != len(assignable) {
			t.Fatalf("%s: changeable targets %v, assignable roles %v", actor, changeable, assignable)
		}
		for r := range changeable {
			if !assignable[r] {
				t.Errorf("%s: may change %q but not assign it", actor, r)
			}
		}
	}
}

func TestRole_CanAssign(t *testing.T) {
	if RoleAdmin.CanAssign(RoleAdmin) {
		t.Error("admin must not be able to grant admin")
	}
	if RoleAdmin.CanAssign(RoleOwner) {
		t.Error("admin must not be able to grant owner")
	}
	if !RoleAdmin.CanAssign(RoleEditor) {
		t.Error("admin must be able to grant editor")
	}
	if !RoleOwner.CanAssign(RoleOwner) {
		t.Error("owner must be able to grant owner")
	}
}

// ---------------------------------------------------------------------------
// Removal
// ---------------------------------------------------------------------------

func TestRole_CanRemoveMember_SelfAlwaysDenied(t *testing.T) {
	for _, r := range AllRoles {
		if r.CanRemoveMember(RoleViewer, "u1", "u1") {
			t.Errorf("role %q must not be able to remove itself", r)
		}
	}
}

func TestRole_CanRemoveMember(t *testing.T) {
	tests := []struct {
		actor  Role
		target Role
		want   bool
	}{
		{RoleOwner, RoleAdmin, true},
		{RoleOwner, RoleOwner, true},
		{RoleAdmin, RoleEditor, true},
		{RoleAdmin, RoleAdmin, false},
		{RoleAdmin, RoleOwner, false},
		{RoleEditor, RoleViewer, false},
		{RoleViewer, RoleViewer, false},
	}

	for _, tt := range tests {
		if got := tt.actor.CanRemoveMember(tt.target, "actor", "target"); got != tt.want {
			t.Errorf("%s.CanRemoveMember(%s) = %v, want %v", tt.actor, tt.target, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Display
// ---------------------------------------------------------------------------

func TestRole_LabelAndColorTag(t *testing.T) {
	tests := []struct {
		role  Role
		label string
		color string
	}{
		{RoleOwner, "Owner", "teal"},
		{RoleAdmin, "Admin", "yellow"},
		{RoleEditor, "Editor", "blue"},
		{RoleViewer, "Viewer", "gray"},
		{Role("mystery"), "Unknown", "gray"},
	}

	for _, tt := range tests {
		if got := tt.role.Label(); got != tt.label {
			t.Errorf("%q.Label() = %q, want %q", tt.role, got, tt.label)
		}
		if got := tt.role.ColorTag(); got != tt.color {
			t.Errorf("%q.ColorTag() = %q, want %q", tt.role, got, tt.color)
		}
	}
}
