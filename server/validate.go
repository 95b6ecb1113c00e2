package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meikuraledutech/automation"
	"github.com/meikuraledutech/automation/graphfile"
)

var errInvalidGraph = errors.New("automation is invalid")

var strictFlag bool

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a YAML or JSON automation file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := graphfile.ReadFile(args[0])
		if err != nil {
			return err
		}
		strict := strictFlag || cfg.Validation.Strict
		out := cmd.OutOrStdout()
		problems := automation.Validate(&g, automation.WithStrict(strict))
		if len(problems) > 0 {
			for _, p := range problems {
				fmt.Fprintln(out, p)
			}
			return fmt.Errorf("%s: %w", args[0], errInvalidGraph)
		}
		rec := automation.ToRecord(&g)
		fmt.Fprintf(out, "%s: ok (%s, %s, responds with %s)\n", args[0], rec.Platform, rec.Type, rec.Response)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every stored automation as YAML to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, store, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		recs, err := exportAll(cmd.Context(), store)
		if err != nil {
			return err
		}
		return graphfile.EncodeRecords(cmd.OutOrStdout(), recs)
	},
}

// exportAll loads the full record, nodes and edges included, for every
// stored automation.
func exportAll(ctx context.Context, store automation.Store) ([]automation.Record, error) {
	summaries, err := store.ListAutomations(ctx, automation.ListFilter{})
	if err != nil {
		return nil, err
	}
	recs := make([]automation.Record, 0, len(summaries))
	for _, s := range summaries {
		rec, err := store.GetAutomation(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			continue
		}
		recs = append(recs, *rec)
	}
	return recs, nil
}

func init() {
	validateCmd.Flags().BoolVar(&strictFlag, "strict", false, "also reject loops, dangling connections and incomplete nodes")
}
