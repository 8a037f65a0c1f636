package main

import (
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	historyKind  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		repo, closeDB, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		recent, err := repo.Recent(ctx, historyKind, historyLimit)
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"id", "kind", "created at", "report"})
		table.SetAutoWrapText(false)
		for _, r := range recent {
			table.Append([]string{r.ID, r.Kind, r.CreatedAt.Format(time.RFC3339), r.Report})
		}
		table.Render()

		return nil
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyKind, "kind", "k", "", "Only list runs of this kind (samples, geocode, keycheck, crosscheck)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list")
}
