package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "fetch <platform> <category>",
		Short: "Resolve one top-10 list through the cache",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			out, err := a.Service.Resolve(cmd.Context(), args[0], args[1], refresh)
			if err != nil {
				return err
			}
			if !out.HasData() {
				if out.Err != nil {
					return fmt.Errorf("no data for %s/%s: %w", args[0], args[1], out.Err)
				}
				return fmt.Errorf("no data for %s/%s", args[0], args[1])
			}
			if ctx.json() {
				return writeJSON(cmd, out.Items)
			}
			source := "upstream"
			if out.FromCache {
				source = "cache"
			}
			printItems(cmd.OutOrStdout(), out.Items)
			fmt.Fprintf(cmd.OutOrStdout(), "%d items from %s\n", len(out.Items), source)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the cache")
	return cmd
}

func printItems(w io.Writer, items []model.RankedItem) {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{
			strconv.Itoa(it.Rank),
			it.Title,
			it.Tenure,
			optionalInt64(it.CatalogID),
			optionalKind(it.MediaKind),
			optionalInt(it.Year),
			optionalFloat(it.Confidence),
		}
	}
	headers := []string{"#", "Title", "Days", "TMDB", "Type", "Year", "Conf"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight}
	fmt.Fprintln(w, renderTable(headers, rows, aligns))
}

func optionalInt64(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func optionalFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 3, 64)
}

func optionalKind(v *model.MediaKind) string {
	if v == nil {
		return "-"
	}
	return string(*v)
}
