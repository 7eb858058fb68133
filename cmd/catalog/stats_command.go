package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	models "creationrights/internal/domain/models/catalog"
	svc "creationrights/internal/domain/services/catalog"
	"creationrights/internal/service/catalog"
)

const recentCount = 5

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise the catalog by type and list recent creations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws svc.Workspace) error {
				stats := ws.Stats()
				out := cmd.OutOrStdout()

				counts := catalogTable{
					headers: []string{"Type", "Count"},
					rows:    make([][]string, 0, len(models.CreationTypes)),
					totals: [][]string{
						{"Total creations", strconv.Itoa(stats.Total)},
						{"Folders", strconv.Itoa(stats.Folders)},
					},
					right: []int{1},
				}
				for _, t := range models.CreationTypes {
					counts.rows = append(counts.rows, []string{string(t), strconv.Itoa(stats.ByType[t])})
				}
				fmt.Fprint(out, counts.render(out))

				recent := catalog.RecentCreations(ws.Creations(), recentCount)
				if len(recent) == 0 {
					return nil
				}
				fmt.Fprintln(out, "Recent")
				writeCreationTable(out, recent)
				return nil
			})
		},
	}
}
