package recon

import (
	"fmt"
	"time"

	"github.com/govrecon/accessrecon/internal/csvx"
)

// Analysis is the immutable outcome of one reconciliation run over a pair of
// uploaded tables. Everything is recomputed from scratch per run; nothing is
// carried across sessions.
type Analysis struct {
	Results   *ResultSet
	Stats     Stats
	Warnings  []string
	CreatedAt time.Time
}

// Analyze runs the full pipeline: normalize the user_groups table, classify
// the grants table, reconcile, and build the query view.
//
// A missing required column in either table aborts with MalformedInputError
// before any partial result exists. Empty tables are not errors: the run
// proceeds and the condition is reported as a warning.
func Analyze(userGroups, grants *csvx.Table) (*Analysis, error) {
	users, err := ParseUserGroups(userGroups)
	if err != nil {
		return nil, err
	}

	grantTable, err := ParseGrants(grants)
	if err != nil {
		return nil, err
	}

	var warnings []string
	if userGroups.Len() == 0 {
		warnings = append(warnings, fmt.Sprintf("table %q has no rows", userGroups.Name))
	}
	if grants.Len() == 0 {
		warnings = append(warnings, fmt.Sprintf("table %q has no rows", grants.Name))
	}

	results := NewResultSet(Reconcile(users, grantTable), grantTable)

	return &Analysis{
		Results:   results,
		Stats:     results.SummaryStats(),
		Warnings:  warnings,
		CreatedAt: time.Now().UTC(),
	}, nil
}
