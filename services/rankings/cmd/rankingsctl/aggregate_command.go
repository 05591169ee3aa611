package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/catalog"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
)

func newAggregateCommand(ctx *commandContext) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Build (or read) the all-platform report and print its summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			report, err := a.Service.Aggregate(cmd.Context(), refresh)
			if err != nil {
				return err
			}
			if ctx.json() {
				return writeJSON(cmd, report)
			}
			printSummary(cmd, report.Summary)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the aggregate and per-pair cache")
	return cmd
}

func printSummary(cmd *cobra.Command, sum model.AggregateSummary) {
	var rows [][]string
	for _, p := range catalog.Pairs() {
		st, ok := sum.Platforms[p.Platform.String()][p.Category.String()]
		if !ok {
			continue
		}
		rows = append(rows, []string{p.Platform.String(), p.Category.String(), st.Status, strconv.Itoa(st.Count)})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable([]string{"Platform", "Category", "Status", "Items"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}))
	fmt.Fprintf(out, "Built:     %s\n", sum.Timestamp)
	fmt.Fprintf(out, "Requests:  %d/%d successful\n", sum.SuccessfulRequests, sum.TotalRequests)
	fmt.Fprintf(out, "Platforms: %d/%d with data\n", sum.SuccessfulPlatforms, sum.TotalPlatforms)
	fmt.Fprintf(out, "Cache hit: %s\n", sum.CacheHitRate)
}
