package recon

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// exportHeader is the column layout of the report CSV.
var exportHeader = []string{"user", "groups", "implied_access", "actual_access", "extra_access"}

// WriteCSV serializes results as the report CSV. Set-valued columns are
// comma-joined with elements already in sorted order, so identical inputs
// always produce byte-identical output.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}

	for _, r := range results {
		record := []string{
			r.User,
			strings.Join(r.Groups, ","),
			strings.Join(r.ImpliedAccess, ","),
			strings.Join(r.ActualAccess, ","),
			strings.Join(r.ExtraAccess, ","),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing export row for %s: %w", r.User, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
