package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/distsort/internal/config"
	"github.com/JonMunkholm/distsort/internal/core"
	"github.com/JonMunkholm/distsort/internal/logging"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "distsort",
		Short:         "Sort selected properties by distance",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupWriter(cmd.ErrOrStderr(), logLevel, "text")
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug|info|warn|error")

	root.AddCommand(
		newColumnsCmd(),
		newSortCmd(),
	)
	return root
}

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns FILE",
		Short: "Show the columns of a file and the guessed roles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printColumns(cmd.OutOrStdout(), sess.Snapshot())
			return nil
		},
	}
}

// sortOptions are the flags of the sort command.
type sortOptions struct {
	selected        []string
	all             bool
	search          string
	desc            bool
	nameCol         string
	distanceCol     string
	neighborhoodCol string
	analyze         bool
	out             string
}

func newSortCmd() *cobra.Command {
	var opts sortOptions

	cmd := &cobra.Command{
		Use:   "sort FILE",
		Short: "Sort the selected properties by distance",
		Long: `Sort the selected properties by distance and print a numbered list.

Properties are chosen with --select. With --search and no --select, every
property whose name contains the search text is used; --all uses every
property in the file.

Example: distsort sort listings.csv --select "Maple Court,Birch Lane" --desc --out sorted.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&opts.selected, "select", nil, "Comma-separated property names to include")
	f.BoolVar(&opts.all, "all", false, "Include every property")
	f.StringVar(&opts.search, "search", "", "Only offer properties whose name contains this text")
	f.BoolVar(&opts.desc, "desc", false, "Sort farthest first")
	f.StringVar(&opts.nameCol, "name-col", "", "Column holding the property name")
	f.StringVar(&opts.distanceCol, "distance-col", "", "Column holding the distance")
	f.StringVar(&opts.neighborhoodCol, "neighborhood-col", "", "Column holding the neighborhood")
	f.BoolVar(&opts.analyze, "analyze", false, "Print a distance summary")
	f.StringVar(&opts.out, "out", "", "Write the result to a .csv or .xlsx file")
	return cmd
}

func runSort(ctx context.Context, w io.Writer, path string, opts sortOptions) error {
	sess, err := openSession(ctx, path)
	if err != nil {
		return err
	}

	overrides := []struct {
		role core.Role
		col  string
	}{
		{core.RoleName, opts.nameCol},
		{core.RoleDistance, opts.distanceCol},
		{core.RoleNeighborhood, opts.neighborhoodCol},
	}
	for _, o := range overrides {
		if o.col == "" {
			continue
		}
		if err := sess.SetColumn(o.role, o.col); err != nil {
			return fmt.Errorf("--%s-col: %w", o.role, err)
		}
	}

	sess.SetSearch(opts.search)
	names := opts.selected
	if len(names) == 0 && (opts.all || opts.search != "") {
		if names, err = sess.Candidates(opts.search); err != nil {
			return err
		}
	}

	order := core.Ascending
	if opts.desc {
		order = core.Descending
	}

	res, err := sess.Run(core.RunRequest{
		Selection: core.NewSelection(names...),
		Order:     order,
		Analyze:   opts.analyze,
	})
	if err != nil {
		return err
	}

	snap := sess.Snapshot()
	fmt.Fprintf(w, "%s\n", order)
	for _, line := range snap.Numbered {
		fmt.Fprintln(w, line)
	}
	if res.Dropped > 0 {
		fmt.Fprintf(w, "(%d selected row(s) without a numeric distance were skipped)\n", res.Dropped)
	}
	if snap.Summary != nil {
		printSummary(w, snap.Summary)
	}

	if opts.out != "" {
		if err := writeResult(res, opts.out); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %s\n", opts.out)
	}
	return nil
}

// openSession loads path into a fresh session using the environment's
// configuration.
func openSession(ctx context.Context, path string) (*core.Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	svc := core.NewService(cfg)
	sess := svc.NewSession()
	if err := svc.Upload(ctx, sess, filepath.Base(path), f); err != nil {
		return nil, err
	}
	return sess, nil
}

func writeResult(res *core.Result, path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		data, err = res.XLSX()
	default:
		data, err = res.CSV()
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func printColumns(w io.Writer, snap core.SessionSnapshot) {
	fmt.Fprintf(w, "File: %s (%d rows", snap.FileName, snap.Rows)
	if snap.Encoding != "" {
		fmt.Fprintf(w, ", %s", snap.Encoding)
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintf(w, "Columns: %s\n", strings.Join(snap.Columns, ", "))
	fmt.Fprintf(w, "Name: %s\n", orUnresolved(snap.Binding.Name))
	fmt.Fprintf(w, "Distance: %s\n", orUnresolved(snap.Binding.Distance))
	if snap.Features.Neighborhood {
		fmt.Fprintf(w, "Neighborhood: %s\n", orUnresolved(snap.Binding.Neighborhood))
	}
}

func orUnresolved(col string) string {
	if col == "" {
		return "(unresolved)"
	}
	return col
}

func printSummary(w io.Writer, s *core.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Properties: %d\n", s.Count)
	fmt.Fprintf(w, "Closest:    %s (%.2f mi)\n", s.Closest, s.Min)
	fmt.Fprintf(w, "Farthest:   %s (%.2f mi)\n", s.Farthest, s.Max)
	fmt.Fprintf(w, "Mean:       %.2f mi\n", s.Mean)
	fmt.Fprintf(w, "Median:     %.2f mi\n", s.Median)
	fmt.Fprintf(w, "P90:        %.2f mi\n", s.P90)
	for _, n := range s.Neighborhoods {
		fmt.Fprintf(w, "  %s: %d\n", n.Neighborhood, n.Count)
	}
}
