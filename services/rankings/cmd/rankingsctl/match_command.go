package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/catalog"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "match <title>",
		Short: "Show the TMDB match the service would attach to a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			if a.Matcher == nil {
				return errors.New("matching is disabled; set TMDB_API_KEY")
			}
			c, err := catalog.ParseCategory(category)
			if err != nil {
				return err
			}
			m, ok := a.Matcher.Match(cmd.Context(), args[0], c)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "no match for %q\n", args[0])
				return nil
			}
			if ctx.json() {
				return writeJSON(cmd, m)
			}
			rows := [][]string{
				{"TMDB id", strconv.FormatInt(m.CatalogID, 10)},
				{"Type", string(m.MediaKind)},
				{"Title", m.MatchedTitle},
				{"Year", strconv.Itoa(m.Year)},
				{"Confidence", strconv.FormatFloat(m.Confidence, 'f', 3, 64)},
				{"Poster", m.PosterPath},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "overall", "Category that decides which media types are searched")
	return cmd
}
