package authz

import "testing"

func TestRegistryPermissionSetsNonEmpty(t *testing.T) {
	for _, def := range Roles() {
		if len(def.Permissions) == 0 {
			t.Fatalf("role %s has an empty permission set", def.Name)
		}
	}
}

func TestSystemAdminIsNotMillScoped(t *testing.T) {
	def, ok := Definition(RoleSystemAdmin)
	if !ok {
		t.Fatal("system_admin missing from registry")
	}
	if def.MillScoped {
		t.Fatal("system_admin must not be mill-scoped")
	}
	if def.Level <= 0 {
		t.Fatalf("unexpected admin level %d", def.Level)
	}
	for _, other := range Roles() {
		if other.Name != RoleSystemAdmin && other.Level >= def.Level {
			t.Fatalf("role %s outranks system_admin", other.Name)
		}
	}
}

func TestRolesOrderedBySeniority(t *testing.T) {
	roles := Roles()
	if len(roles) == 0 {
		t.Fatal("empty registry")
	}
	if roles[0].Name != RoleSystemAdmin {
		t.Fatalf("expected system_admin first, got %s", roles[0].Name)
	}
	for i := 1; i < len(roles); i++ {
		if roles[i].Level > roles[i-1].Level {
			t.Fatalf("roles not sorted: %s before %s", roles[i-1].Name, roles[i].Name)
		}
	}
}

func TestPermissionsOf(t *testing.T) {
	perms := PermissionsOf(RoleDriver)
	if len(perms) != 2 {
		t.Fatalf("expected 2 driver permissions, got %v", perms)
	}
	if perms[0] != PermDeliveryUpdate && perms[1] != PermDeliveryUpdate {
		t.Fatalf("driver missing delivery.update: %v", perms)
	}
	if PermissionsOf("ghost") != nil {
		t.Fatal("unknown role should have no permissions")
	}
}

func TestPermissionCatalogCoversRegistry(t *testing.T) {
	known := make(map[Permission]struct{})
	for _, pd := range Permissions() {
		known[pd.Key] = struct{}{}
	}
	for _, def := range Roles() {
		for p := range def.Permissions {
			if _, ok := known[p]; !ok {
				t.Fatalf("role %s grants uncataloged permission %s", def.Name, p)
			}
		}
	}
}
