package recon

import (
	"regexp"
	"sort"

	"github.com/govrecon/accessrecon/internal/csvx"
)

// Pre-compiled splitter for the multi-valued ADDL_GROUP field: any run of
// commas and/or whitespace separates tokens.
var groupSplitRegex = regexp.MustCompile(`[,\s]+`)

// SplitGroups splits a raw multi-valued group field into tokens, discarding
// empty ones. "G1, G2  G3" parses to ["G1" "G2" "G3"].
func SplitGroups(raw string) []string {
	var out []string
	for _, tok := range groupSplitRegex.Split(raw, -1) {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// ParseUserGroups normalizes the user_groups table into one UserGroupRecord
// per distinct user, sorted by user name.
//
// Duplicate USER_NAME rows are merged rather than overwritten: the first
// non-empty main group wins and every other group lands in AddlGroups, so no
// declared membership is silently lost. Rows with an empty USER_NAME are
// skipped. Case is preserved; comparisons are exact.
func ParseUserGroups(t *csvx.Table) ([]UserGroupRecord, error) {
	if col, ok := t.HasColumns(ColUserName, ColMainGroup, ColAddlGroup); !ok {
		return nil, &MalformedInputError{Table: t.Name, Column: col}
	}

	byUser := make(map[string]*UserGroupRecord)
	for _, row := range t.Rows {
		name := t.Field(row, ColUserName)
		if name == "" {
			continue
		}

		rec, ok := byUser[name]
		if !ok {
			rec = &UserGroupRecord{User: name, AddlGroups: make(Set)}
			byUser[name] = rec
		}

		main := t.Field(row, ColMainGroup)
		if rec.MainGroup == "" {
			rec.MainGroup = main
		} else if main != "" && main != rec.MainGroup {
			rec.AddlGroups.Add(main)
		}

		for _, g := range SplitGroups(t.Field(row, ColAddlGroup)) {
			rec.AddlGroups.Add(g)
		}
	}

	records := make([]UserGroupRecord, 0, len(byUser))
	for _, rec := range byUser {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].User < records[j].User })
	return records, nil
}
