package crew

import "testing"

func TestReviveRoll(t *testing.T) {
	tests := []struct {
		name   string
		member Member
		want   int
	}{
		{"captain", Member{Kind: KindCaptain, CaptainType: CaptainExplorer}, 6},
		{"doctor", Member{Kind: KindBasic, Role: RoleDoctor}, 6},
		{"medic", Member{Kind: KindBasic, Role: RoleMedic}, 6},
		{"first officer", Member{Kind: KindOfficer, Role: RoleFirstOfficer}, 6},
		{"engineer", Member{Kind: KindBasic, Role: RoleEngineer}, 3},
		{"android", Member{Kind: KindOfficer, Role: RoleAndroid}, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ReviveRoll(&tc.member); got != tc.want {
				t.Fatalf("revive roll = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestNeedsLifeSupport(t *testing.T) {
	android := &Member{Kind: KindOfficer, Role: RoleAndroid, Status: StatusActive}
	if android.NeedsLifeSupport() {
		t.Fatal("android officers should not draw life support")
	}
	engineer := &Member{Kind: KindBasic, Role: RoleEngineer, Status: StatusActive}
	if !engineer.NeedsLifeSupport() {
		t.Fatal("active basic crew should draw life support")
	}
	engineer.Status = StatusUnconscious
	if engineer.NeedsLifeSupport() {
		t.Fatal("unconscious crew should not draw life support")
	}
}

func TestBonusTablesAreTotal(t *testing.T) {
	roles := []Role{RoleNone, RoleEngineer, RoleDoctor, RoleMedic, RoleScientist, RolePilot, RoleSoldier, RoleFirstOfficer, RoleAndroid}
	for _, r := range roles {
		for _, fn := range []func(Role) int{RestoreBonus, AccelBonus, RangeBonus, DamageBonus, ReviveBonus} {
			if got := fn(r); got < 0 {
				t.Fatalf("negative bonus for role %s", r)
			}
		}
		for _, item := range []ItemType{ItemTorpedo, ItemProbe} {
			if AssembleRoll(r, item) <= 0 {
				t.Fatalf("assemble roll must be positive for %s/%s", r, item)
			}
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := &Member{
		ID:               "c1",
		Kind:             KindBasic,
		Role:             RoleEngineer,
		AssembleProgress: map[ItemType]int{ItemTorpedo: 3},
	}
	clone := m.Clone()
	clone.AssembleProgress[ItemTorpedo] = 7
	if m.AssembleProgress[ItemTorpedo] != 3 {
		t.Fatal("clone shares assemble progress map with original")
	}
}
