package recon

import "sort"

// Reconcile computes one Result per user: the access implied by declared
// group membership plus public access, the access actually held, and the
// difference the report exists to surface.
//
//	implied = public ∪ (∪ groupAccess[g] for g in effective groups)
//	actual  = direct ∪ implied
//	extra   = direct − implied
//
// Users that appear only in the direct-grant table (no group record) are
// included with an empty group set, so access without any group mapping is
// visible rather than silently dropped. Results are sorted by user name.
// Pure transformation: no side effects, no failure modes.
func Reconcile(users []UserGroupRecord, grants *GrantTable) []Result {
	known := make(map[string]struct{}, len(users))
	results := make([]Result, 0, len(users))

	for _, u := range users {
		known[u.User] = struct{}{}
		results = append(results, reconcileUser(u.User, u.EffectiveGroups(), grants))
	}

	for user := range grants.DirectAccess {
		if _, ok := known[user]; ok {
			continue
		}
		results = append(results, reconcileUser(user, make(Set), grants))
	}

	sort.Slice(results, func(i, j int) bool { return results[i].User < results[j].User })
	return results
}

func reconcileUser(user string, groups Set, grants *GrantTable) Result {
	implied := make(Set)
	implied.AddAll(grants.PublicAccess)
	for g := range groups {
		implied.AddAll(grants.GroupAccess[g])
	}

	direct := grants.DirectAccess[user]

	actual := make(Set, len(direct)+len(implied))
	actual.AddAll(direct)
	actual.AddAll(implied)

	return Result{
		User:          user,
		Groups:        groups.Sorted(),
		ImpliedAccess: implied.Sorted(),
		ActualAccess:  actual.Sorted(),
		ExtraAccess:   direct.Diff(implied).Sorted(),
	}
}
