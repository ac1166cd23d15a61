package authz

import "testing"

func TestBuildScopeAdminPassthrough(t *testing.T) {
	base := Where("mill_id", "m9")
	got := BuildScope(Session{UserID: "u-admin", Role: RoleSystemAdmin}, base)
	if got.MatchNone || len(got.Conditions) != 1 {
		t.Fatalf("admin scope must be the base filter, got %+v", got)
	}
}

func TestBuildScopeTenantAndMillConjunction(t *testing.T) {
	sess := Session{UserID: "u1", Role: RoleProductionOperator, TenantID: "t1", MillID: "m1"}
	got := BuildScope(sess, Filter{})
	if got.MatchNone {
		t.Fatalf("unexpected MatchNone: %+v", got)
	}
	if len(got.Conditions) != 2 {
		t.Fatalf("expected tenant and mill clauses, got %+v", got.Conditions)
	}
	if got.Conditions[0].Column != "tenant_id" || got.Conditions[0].Value != "t1" {
		t.Fatalf("missing tenant clause: %+v", got.Conditions)
	}
	if got.Conditions[1].Column != "mill_id" || got.Conditions[1].Value != "m1" {
		t.Fatalf("missing mill clause: %+v", got.Conditions)
	}
}

func TestBuildScopeOrgWideRoleTenantOnly(t *testing.T) {
	sess := Session{UserID: "u1", Role: RoleInspector, TenantID: "t1"}
	got := BuildScope(sess, Filter{})
	if len(got.Conditions) != 1 || got.Conditions[0].Column != "tenant_id" {
		t.Fatalf("inspector scope should be tenant-only, got %+v", got.Conditions)
	}
}

func TestBuildScopeEmptyMillMatchesNothing(t *testing.T) {
	sess := Session{UserID: "u1", Role: RoleLabTechnician, TenantID: "t1"}
	got := BuildScope(sess, Filter{})
	if !got.MatchNone {
		t.Fatalf("mill-scoped session without mill must match nothing, got %+v", got)
	}
	where, args := got.SQL(1)
	if where != "false" || args != nil {
		t.Fatalf("MatchNone must render to false, got %q %v", where, args)
	}
}

func TestBuildScopeUnknownRoleMatchesNothing(t *testing.T) {
	got := BuildScope(Session{UserID: "u1", Role: "intruder", TenantID: "t1"}, Filter{})
	if !got.MatchNone {
		t.Fatalf("unknown role must fail closed, got %+v", got)
	}
}

func TestFilterSQLRendering(t *testing.T) {
	f := Where("tenant_id", "t1").And("mill_id", "m1")
	where, args := f.SQL(3)
	if where != "tenant_id = $3 and mill_id = $4" {
		t.Fatalf("unexpected where fragment: %q", where)
	}
	if len(args) != 2 || args[0] != "t1" || args[1] != "m1" {
		t.Fatalf("unexpected args: %v", args)
	}

	empty, args := Filter{}.SQL(1)
	if empty != "true" || args != nil {
		t.Fatalf("empty filter must render to true, got %q %v", empty, args)
	}
}

func TestFilterAndDoesNotAliasBase(t *testing.T) {
	base := Where("tenant_id", "t1")
	_ = base.And("mill_id", "m1")
	if len(base.Conditions) != 1 {
		t.Fatalf("And mutated its receiver: %+v", base.Conditions)
	}
}
