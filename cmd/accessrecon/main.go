// Command accessrecon runs a one-shot reconciliation from the command line:
// two exported CSV tables in, the access report CSV out. It is the offline
// twin of the HTTP service for scripted governance reviews.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/govrecon/accessrecon/internal/csvx"
	"github.com/govrecon/accessrecon/internal/recon"
)

var (
	outPath   string
	showStats bool
	onlyExtra bool
)

var rootCmd = &cobra.Command{
	Use:   "accessrecon",
	Short: "Compare group-implied access against actually granted access",
	Long: `accessrecon reconciles declared group memberships against recorded
access grants and reports any access a user holds beyond what their
groups and public access explain.`,
	SilenceUsage: true,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <user-groups.csv> <grants.csv>",
	Short: "Run one reconciliation over two exported tables",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the report CSV to a file instead of stdout")
	analyzeCmd.Flags().BoolVar(&showStats, "stats", false, "print summary statistics to stderr")
	analyzeCmd.Flags().BoolVar(&onlyExtra, "only-extra", false, "report only users holding extra access")
	rootCmd.AddCommand(analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	userGroups, err := readTable("user_groups", args[0])
	if err != nil {
		return err
	}
	grants, err := readTable("grants", args[1])
	if err != nil {
		return err
	}

	analysis, err := recon.Analyze(userGroups, grants)
	if err != nil {
		return err
	}

	for _, warning := range analysis.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", warning)
	}

	results := analysis.Results.All()
	if onlyExtra {
		var flagged []recon.Result
		for _, r := range results {
			if r.HasExtra() {
				flagged = append(flagged, r)
			}
		}
		results = flagged
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	if err := recon.WriteCSV(out, results); err != nil {
		return err
	}

	if showStats {
		printStats(analysis.Stats)
	}
	return nil
}

func readTable(name, path string) (*csvx.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return csvx.Read(name, f)
}

func printStats(stats recon.Stats) {
	fmt.Fprintf(os.Stderr, "users:              %d\n", stats.TotalUsers)
	fmt.Fprintf(os.Stderr, "groups:             %d\n", stats.TotalGroups)
	fmt.Fprintf(os.Stderr, "users with extra:   %d\n", stats.UsersWithExtraAccess)
	fmt.Fprintf(os.Stderr, "extra grants:       %d\n", stats.TotalExtraGrants)
	fmt.Fprintf(os.Stderr, "unique access codes: %d\n", stats.TotalUniqueAccesses)
	fmt.Fprintf(os.Stderr, "public access codes: %d\n", stats.PublicAccesses)
}
