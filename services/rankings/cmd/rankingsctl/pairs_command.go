package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/catalog"
)

type pairView struct {
	Platform    string `json:"platform"`
	ResponseKey string `json:"response_key"`
	Category    string `json:"category"`
	Section     string `json:"section"`
}

func newPairsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pairs",
		Short: "List the published platform/category pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs := catalog.Pairs()
			views := make([]pairView, len(pairs))
			for i, p := range pairs {
				views[i] = pairView{
					Platform:    p.Platform.String(),
					ResponseKey: catalog.ResponseKey(p.Platform.String()),
					Category:    p.Category.String(),
					Section:     p.Category.Section(),
				}
			}
			if ctx.json() {
				return writeJSON(cmd, views)
			}
			rows := make([][]string, len(views))
			for i, v := range views {
				rows[i] = []string{v.Platform, v.Category, v.Section}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Platform", "Category", "Section"}, rows, nil))
			fmt.Fprintf(cmd.OutOrStdout(), "%d platforms, %d pairs (%s)\n",
				len(catalog.Platforms()), len(pairs), strings.Join(catalog.PlatformSlugs(), ", "))
			return nil
		},
	}
}
