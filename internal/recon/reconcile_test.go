package recon

import (
	"reflect"
	"testing"
)

// buildGrants is a shorthand for assembling a GrantTable in tests.
func buildGrants(group map[string][]string, public []string, direct map[string][]string) *GrantTable {
	grants := &GrantTable{
		GroupAccess:  make(map[string]Set),
		PublicAccess: NewSet(public...),
		DirectAccess: make(map[string]Set),
	}
	for g, codes := range group {
		grants.GroupAccess[g] = NewSet(codes...)
	}
	for u, codes := range direct {
		grants.DirectAccess[u] = NewSet(codes...)
	}
	return grants
}

func TestReconcile_GroupPlusPublicPlusDirect(t *testing.T) {
	// alice is in GRFIN which grants READ; LOGIN is public; alice also holds
	// a direct WRITE grant nothing explains.
	users := []UserGroupRecord{
		{User: "alice", MainGroup: "GRFIN", AddlGroups: NewSet()},
	}
	grants := buildGrants(
		map[string][]string{"GRFIN": {"READ"}},
		[]string{"LOGIN"},
		map[string][]string{"alice": {"WRITE"}},
	)

	results := Reconcile(users, grants)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	r := results[0]
	if !reflect.DeepEqual(r.ImpliedAccess, []string{"LOGIN", "READ"}) {
		t.Errorf("implied = %v, want [LOGIN READ]", r.ImpliedAccess)
	}
	if !reflect.DeepEqual(r.ActualAccess, []string{"LOGIN", "READ", "WRITE"}) {
		t.Errorf("actual = %v, want [LOGIN READ WRITE]", r.ActualAccess)
	}
	if !reflect.DeepEqual(r.ExtraAccess, []string{"WRITE"}) {
		t.Errorf("extra = %v, want [WRITE]", r.ExtraAccess)
	}
}

func TestReconcile_DirectOnlyUserIncluded(t *testing.T) {
	// bob has a direct grant but no group record at all: the grant must be
	// surfaced as extra, not silently dropped.
	grants := buildGrants(nil, nil, map[string][]string{"bob": {"DELETE"}})

	results := Reconcile(nil, grants)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	r := results[0]
	if r.User != "bob" {
		t.Fatalf("expected bob, got %q", r.User)
	}
	if len(r.Groups) != 0 {
		t.Errorf("expected empty group set, got %v", r.Groups)
	}
	if !reflect.DeepEqual(r.ExtraAccess, []string{"DELETE"}) {
		t.Errorf("extra = %v, want [DELETE]", r.ExtraAccess)
	}
}

func TestReconcile_NoGroupsMeansAllDirectIsExtra(t *testing.T) {
	users := []UserGroupRecord{
		{User: "carol", MainGroup: "", AddlGroups: NewSet()},
	}
	grants := buildGrants(nil, nil, map[string][]string{"carol": {"A", "B", "C"}})

	r := Reconcile(users, grants)[0]
	if !reflect.DeepEqual(r.ExtraAccess, []string{"A", "B", "C"}) {
		t.Errorf("extra = %v, want every direct grant", r.ExtraAccess)
	}
	if !reflect.DeepEqual(r.ExtraAccess, r.ActualAccess) {
		t.Errorf("with no groups and no public access, extra should equal actual")
	}
}

func TestReconcile_PublicAccessNeverExtra(t *testing.T) {
	// LOGIN is public; alice holding it directly as well must not flag it.
	users := []UserGroupRecord{
		{User: "alice", MainGroup: "", AddlGroups: NewSet()},
	}
	grants := buildGrants(nil, []string{"LOGIN"}, map[string][]string{"alice": {"LOGIN"}})

	r := Reconcile(users, grants)[0]
	if len(r.ExtraAccess) != 0 {
		t.Errorf("public access flagged as extra: %v", r.ExtraAccess)
	}
	if !reflect.DeepEqual(r.ImpliedAccess, []string{"LOGIN"}) {
		t.Errorf("implied = %v, want [LOGIN]", r.ImpliedAccess)
	}
}

func TestReconcile_AddingGroupNeverGrowsExtra(t *testing.T) {
	grants := buildGrants(
		map[string][]string{"GRFIN": {"READ"}, "GRIT": {"WRITE"}},
		nil,
		map[string][]string{"alice": {"READ", "WRITE", "ADMIN"}},
	)

	without := Reconcile([]UserGroupRecord{
		{User: "alice", MainGroup: "GRFIN", AddlGroups: NewSet()},
	}, grants)[0]

	with := Reconcile([]UserGroupRecord{
		{User: "alice", MainGroup: "GRFIN", AddlGroups: NewSet("GRIT")},
	}, grants)[0]

	if len(with.ExtraAccess) > len(without.ExtraAccess) {
		t.Errorf("extra grew from %v to %v after adding a group", without.ExtraAccess, with.ExtraAccess)
	}
	for _, code := range with.ExtraAccess {
		found := false
		for _, prev := range without.ExtraAccess {
			if prev == code {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("code %q appeared as extra only after adding a group", code)
		}
	}
}

func TestReconcile_UnknownGroupContributesNothing(t *testing.T) {
	users := []UserGroupRecord{
		{User: "alice", MainGroup: "GRNOPE", AddlGroups: NewSet()},
	}
	grants := buildGrants(nil, nil, map[string][]string{"alice": {"READ"}})

	r := Reconcile(users, grants)[0]
	if len(r.ImpliedAccess) != 0 {
		t.Errorf("implied = %v, want empty for unmapped group", r.ImpliedAccess)
	}
	if !reflect.DeepEqual(r.ExtraAccess, []string{"READ"}) {
		t.Errorf("extra = %v, want [READ]", r.ExtraAccess)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	users := []UserGroupRecord{
		{User: "alice", MainGroup: "GRFIN", AddlGroups: NewSet("GRIT")},
		{User: "bob", MainGroup: "GRIT", AddlGroups: NewSet()},
	}
	grants := buildGrants(
		map[string][]string{"GRFIN": {"READ"}, "GRIT": {"WRITE"}},
		[]string{"LOGIN"},
		map[string][]string{"alice": {"ADMIN"}, "carol": {"DELETE"}},
	)

	first := Reconcile(users, grants)
	second := Reconcile(users, grants)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different result sequences")
	}
}

func TestReconcile_SortedByUser(t *testing.T) {
	users := []UserGroupRecord{
		{User: "zoe", MainGroup: "GRIT", AddlGroups: NewSet()},
		{User: "adam", MainGroup: "GRIT", AddlGroups: NewSet()},
	}
	grants := buildGrants(nil, nil, map[string][]string{"mallory": {"X"}})

	results := Reconcile(users, grants)
	var names []string
	for _, r := range results {
		names = append(names, r.User)
	}
	if !reflect.DeepEqual(names, []string{"adam", "mallory", "zoe"}) {
		t.Errorf("results not sorted by user: %v", names)
	}
}

func TestReconcile_EmptyInputs(t *testing.T) {
	results := Reconcile(nil, buildGrants(nil, nil, nil))
	if len(results) != 0 {
		t.Errorf("expected empty result sequence, got %d results", len(results))
	}
}
