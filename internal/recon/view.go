package recon

import "sort"

// MatchChannel names the route through which a user holds an access code.
type MatchChannel string

const (
	MatchDirect MatchChannel = "direct"
	MatchGroup  MatchChannel = "group"
	MatchPublic MatchChannel = "public"
)

// AccessMatch is one user holding a queried access code, with every channel
// that granted it.
type AccessMatch struct {
	User   string         `json:"user"`
	Groups []string       `json:"groups"`
	Via    []MatchChannel `json:"matched_via"`
}

// CodeCount is a name with an occurrence count, used for top-N summaries.
type CodeCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarizes one reconciliation run.
type Stats struct {
	TotalUsers           int `json:"total_users"`
	TotalGroups          int `json:"total_groups"`
	UsersWithExtraAccess int `json:"users_with_extra_access"`
	TotalExtraGrants     int `json:"total_extra_grants"`
	TotalUniqueAccesses  int `json:"total_unique_accesses"`
	PublicAccesses       int `json:"public_accesses"`

	AvgGroupsPerUser    float64 `json:"avg_groups_per_user"`
	AvgAccessesPerUser  float64 `json:"avg_accesses_per_user"`
	AvgAccessesPerGroup float64 `json:"avg_accesses_per_group"`

	// AccessCodeDistribution counts, per access code, how many users
	// actually hold it.
	AccessCodeDistribution map[string]int `json:"access_code_distribution"`

	TopGroups      []CodeCount `json:"most_common_groups"`
	TopAccessCodes []CodeCount `json:"most_common_accesses"`
}

// ResultSet is a read-only query view over reconciliation results. It never
// mutates the underlying results; every operation is recomputable.
type ResultSet struct {
	results []Result
	byUser  map[string]int
	grants  *GrantTable
}

// NewResultSet indexes results for querying. grants is retained read-only to
// answer channel attribution in FilterByAccessCode.
func NewResultSet(results []Result, grants *GrantTable) *ResultSet {
	byUser := make(map[string]int, len(results))
	for i, r := range results {
		byUser[r.User] = i
	}
	return &ResultSet{results: results, byUser: byUser, grants: grants}
}

// All returns the full result sequence, ordered by user name.
func (rs *ResultSet) All() []Result {
	return rs.results
}

// Len returns the number of reconciled users.
func (rs *ResultSet) Len() int {
	return len(rs.results)
}

// FindByUser returns the result for an exact user name, reporting absence
// rather than failing.
func (rs *ResultSet) FindByUser(name string) (Result, bool) {
	i, ok := rs.byUser[name]
	if !ok {
		return Result{}, false
	}
	return rs.results[i], true
}

// FilterByAccessCode returns every user whose actual access contains code,
// with the channel(s) that granted it.
func (rs *ResultSet) FilterByAccessCode(code string) []AccessMatch {
	var matches []AccessMatch
	for _, r := range rs.results {
		if !contains(r.ActualAccess, code) {
			continue
		}

		var via []MatchChannel
		if rs.grants.DirectAccess[r.User].Has(code) {
			via = append(via, MatchDirect)
		}
		for _, g := range r.Groups {
			if rs.grants.GroupAccess[g].Has(code) {
				via = append(via, MatchGroup)
				break
			}
		}
		if rs.grants.PublicAccess.Has(code) {
			via = append(via, MatchPublic)
		}

		matches = append(matches, AccessMatch{User: r.User, Groups: r.Groups, Via: via})
	}
	return matches
}

// SummaryStats computes aggregate statistics over the result set.
func (rs *ResultSet) SummaryStats() Stats {
	stats := Stats{
		TotalUsers:             len(rs.results),
		TotalGroups:            len(rs.grants.GroupAccess),
		PublicAccesses:         len(rs.grants.PublicAccess),
		AccessCodeDistribution: make(map[string]int),
	}

	unique := make(Set)
	groupCounts := make(map[string]int)
	var totalGroups, totalAccesses int

	for _, r := range rs.results {
		if r.HasExtra() {
			stats.UsersWithExtraAccess++
			stats.TotalExtraGrants += len(r.ExtraAccess)
		}
		totalGroups += len(r.Groups)
		totalAccesses += len(r.ActualAccess)
		for _, g := range r.Groups {
			groupCounts[g]++
		}
		for _, a := range r.ActualAccess {
			stats.AccessCodeDistribution[a]++
			unique.Add(a)
		}
	}
	stats.TotalUniqueAccesses = len(unique)

	if n := len(rs.results); n > 0 {
		stats.AvgGroupsPerUser = float64(totalGroups) / float64(n)
		stats.AvgAccessesPerUser = float64(totalAccesses) / float64(n)
	}
	if n := len(rs.grants.GroupAccess); n > 0 {
		var total int
		for _, set := range rs.grants.GroupAccess {
			total += len(set)
		}
		stats.AvgAccessesPerGroup = float64(total) / float64(n)
	}

	stats.TopGroups = topN(groupCounts, 5)
	stats.TopAccessCodes = topN(stats.AccessCodeDistribution, 5)
	return stats
}

// topN returns the n highest counts, ties broken by name for determinism.
func topN(counts map[string]int, n int) []CodeCount {
	out := make([]CodeCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, CodeCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func contains(sorted []string, v string) bool {
	i := sort.SearchStrings(sorted, v)
	return i < len(sorted) && sorted[i] == v
}
