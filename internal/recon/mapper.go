package recon

import (
	"strings"

	"github.com/govrecon/accessrecon/internal/csvx"
)

// ParseGrants classifies every row of the grants table into exactly one of
// three collections: group grants (subject starts with the GR prefix), public
// grants (subject is *PUBLIC), or direct user grants (everything else).
//
// Rows are independent and accumulation is commutative set union, so input
// order never matters. Rows with an empty access code are skipped, not
// errors. Group ids are stored with their prefix intact.
func ParseGrants(t *csvx.Table) (*GrantTable, error) {
	if col, ok := t.HasColumns(ColSubject, ColAccess); !ok {
		return nil, &MalformedInputError{Table: t.Name, Column: col}
	}

	grants := &GrantTable{
		GroupAccess:  make(map[string]Set),
		PublicAccess: make(Set),
		DirectAccess: make(map[string]Set),
	}

	for _, row := range t.Rows {
		subject := t.Field(row, ColSubject)
		access := t.Field(row, ColAccess)
		if subject == "" || access == "" {
			continue
		}

		switch {
		case subject == PublicSubject:
			grants.PublicAccess.Add(access)
		case strings.HasPrefix(subject, GroupPrefix):
			set, ok := grants.GroupAccess[subject]
			if !ok {
				set = make(Set)
				grants.GroupAccess[subject] = set
			}
			set.Add(access)
		default:
			set, ok := grants.DirectAccess[subject]
			if !ok {
				set = make(Set)
				grants.DirectAccess[subject] = set
			}
			set.Add(access)
		}
	}

	return grants, nil
}
