// Package recon implements the access reconciliation core. It compares the
// access implied by a user's declared group memberships against the access
// actually granted, and surfaces anything extra. The package has no I/O and
// no UI dependencies; callers hand it parsed tables and read back results.
package recon

import "sort"

// Reserved subject values in the grants table.
const (
	// GroupPrefix marks a grants-table subject as a group identifier.
	// Group ids keep the prefix throughout: both input tables carry it, so
	// retained keys match effective group sets without any translation.
	GroupPrefix = "GR"

	// PublicSubject is the sentinel whose grants apply to every user.
	PublicSubject = "*PUBLIC"
)

// Column names of the user_groups table.
const (
	ColUserName  = "USER_NAME"
	ColMainGroup = "MAIN_GROUP"
	ColAddlGroup = "ADDL_GROUP"
)

// Column names of the grants (master_users_groups) table.
const (
	ColSubject = "JNUSER"
	ColAccess  = "VHFROM"
)

// Set is a set of identifiers (access codes or group ids). Comparisons are
// case-sensitive exact match everywhere.
type Set map[string]struct{}

// NewSet builds a Set from values, ignoring empty strings.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v unless it is empty.
func (s Set) Add(v string) {
	if v != "" {
		s[v] = struct{}{}
	}
}

// Has reports membership.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// AddAll inserts every element of other.
func (s Set) AddAll(other Set) {
	for v := range other {
		s[v] = struct{}{}
	}
}

// Diff returns the elements of s not present in other.
func (s Set) Diff(other Set) Set {
	out := make(Set)
	for v := range s {
		if !other.Has(v) {
			out[v] = struct{}{}
		}
	}
	return out
}

// Sorted returns the elements in lexicographic order. An empty set yields an
// empty (non-nil) slice so JSON encodes [] rather than null.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// UserGroupRecord is one user's declared group membership: a main group plus
// zero or more additional groups parsed from the multi-valued ADDL_GROUP
// field.
type UserGroupRecord struct {
	User       string
	MainGroup  string
	AddlGroups Set
}

// EffectiveGroups returns {main group} ∪ addl groups with empty identifiers
// filtered out. The main group is never counted twice when it also appears in
// the additional groups.
func (r UserGroupRecord) EffectiveGroups() Set {
	groups := make(Set, len(r.AddlGroups)+1)
	groups.Add(r.MainGroup)
	groups.AddAll(r.AddlGroups)
	return groups
}

// GrantTable holds the grants table classified into its three meanings. The
// raw table overloads the subject column; classification happens once at
// ingestion and the ambiguous rows never travel further.
type GrantTable struct {
	// GroupAccess maps a group id (GR-prefixed) to the access codes granted
	// to the group.
	GroupAccess map[string]Set

	// PublicAccess is the set of access codes every user holds implicitly.
	PublicAccess Set

	// DirectAccess maps a user name to the access codes granted to that user
	// individually. Group and public rows are excluded.
	DirectAccess map[string]Set
}

// Result is the reconciliation outcome for one user. Element slices are
// sorted for deterministic output.
type Result struct {
	User          string   `json:"user"`
	Groups        []string `json:"groups"`
	ImpliedAccess []string `json:"implied_access"`
	ActualAccess  []string `json:"actual_access"`
	ExtraAccess   []string `json:"extra_access"`
}

// HasExtra reports whether the user holds any access beyond what groups and
// public access explain.
func (r Result) HasExtra() bool {
	return len(r.ExtraAccess) > 0
}
