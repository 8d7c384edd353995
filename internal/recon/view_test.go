package recon

import (
	"reflect"
	"testing"
)

// fixtureResultSet reconciles a small population exercising all three grant
// channels.
func fixtureResultSet() *ResultSet {
	users := []UserGroupRecord{
		{User: "alice", MainGroup: "GRFIN", AddlGroups: NewSet()},
		{User: "bob", MainGroup: "GRIT", AddlGroups: NewSet()},
	}
	grants := buildGrants(
		map[string][]string{"GRFIN": {"READ"}, "GRIT": {"WRITE"}},
		[]string{"LOGIN"},
		map[string][]string{"alice": {"READ", "ADMIN"}, "carol": {"DELETE"}},
	)
	return NewResultSet(Reconcile(users, grants), grants)
}

func TestResultSet_FindByUser(t *testing.T) {
	rs := fixtureResultSet()

	r, ok := rs.FindByUser("alice")
	if !ok {
		t.Fatal("alice not found")
	}
	if !reflect.DeepEqual(r.ExtraAccess, []string{"ADMIN"}) {
		t.Errorf("alice extra = %v, want [ADMIN]", r.ExtraAccess)
	}

	if _, ok := rs.FindByUser("nobody"); ok {
		t.Error("expected miss for unknown user")
	}
	// Exact match only: case differs, no result.
	if _, ok := rs.FindByUser("Alice"); ok {
		t.Error("lookups must be case-sensitive")
	}
}

func TestResultSet_FilterByAccessCode_Channels(t *testing.T) {
	rs := fixtureResultSet()

	tests := []struct {
		code string
		want map[string][]MatchChannel
	}{
		{"READ", map[string][]MatchChannel{
			"alice": {MatchDirect, MatchGroup},
		}},
		{"LOGIN", map[string][]MatchChannel{
			"alice": {MatchPublic},
			"bob":   {MatchPublic},
			"carol": {MatchPublic},
		}},
		{"DELETE", map[string][]MatchChannel{
			"carol": {MatchDirect},
		}},
		{"NOPE", map[string][]MatchChannel{}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			matches := rs.FilterByAccessCode(tt.code)
			if len(matches) != len(tt.want) {
				t.Fatalf("got %d matches, want %d: %+v", len(matches), len(tt.want), matches)
			}
			for _, m := range matches {
				want, ok := tt.want[m.User]
				if !ok {
					t.Errorf("unexpected match for user %q", m.User)
					continue
				}
				if !reflect.DeepEqual(m.Via, want) {
					t.Errorf("user %q via = %v, want %v", m.User, m.Via, want)
				}
			}
		})
	}
}

func TestResultSet_SummaryStats(t *testing.T) {
	rs := fixtureResultSet()
	stats := rs.SummaryStats()

	if stats.TotalUsers != 3 {
		t.Errorf("total users = %d, want 3", stats.TotalUsers)
	}
	if stats.TotalGroups != 2 {
		t.Errorf("total groups = %d, want 2", stats.TotalGroups)
	}
	// alice holds ADMIN, carol holds DELETE beyond what groups explain.
	if stats.UsersWithExtraAccess != 2 {
		t.Errorf("users with extra = %d, want 2", stats.UsersWithExtraAccess)
	}
	if stats.TotalExtraGrants != 2 {
		t.Errorf("total extra grants = %d, want 2", stats.TotalExtraGrants)
	}
	if stats.PublicAccesses != 1 {
		t.Errorf("public accesses = %d, want 1", stats.PublicAccesses)
	}
	// ADMIN, DELETE, LOGIN, READ, WRITE
	if stats.TotalUniqueAccesses != 5 {
		t.Errorf("unique accesses = %d, want 5", stats.TotalUniqueAccesses)
	}
	if got := stats.AccessCodeDistribution["LOGIN"]; got != 3 {
		t.Errorf("LOGIN held by %d users, want 3", got)
	}
	if len(stats.TopAccessCodes) == 0 || stats.TopAccessCodes[0].Name != "LOGIN" {
		t.Errorf("most common access should be LOGIN, got %+v", stats.TopAccessCodes)
	}
}

func TestSummaryStats_EmptyResults(t *testing.T) {
	grants := buildGrants(nil, nil, nil)
	rs := NewResultSet(nil, grants)

	stats := rs.SummaryStats()
	if stats.TotalUsers != 0 || stats.AvgGroupsPerUser != 0 {
		t.Errorf("empty result set should produce zero stats: %+v", stats)
	}
}

func TestTopN_TieBrokenByName(t *testing.T) {
	counts := map[string]int{"B": 2, "A": 2, "C": 5}

	got := topN(counts, 2)
	want := []CodeCount{{Name: "C", Count: 5}, {Name: "A", Count: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("topN = %v, want %v", got, want)
	}
}
