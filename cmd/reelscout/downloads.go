package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/datallboy/reelscout/internal/app"
)

func newDownloadsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "downloads",
		Short: "List finished artifacts and recorded job history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Close()

			ctx := context.Background()
			a, err := app.Build(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			fmt.Fprintln(tw, "FILE\tQUALITY\tSIZE\tPATH")
			for _, art := range a.Scanner.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", art.Name, art.Quality, humanize.Bytes(uint64(art.Size)), art.Path)
			}

			history, err := a.Service.History(ctx, limit)
			if err != nil {
				return err
			}
			if len(history) > 0 {
				fmt.Fprintln(tw, "\nRUN\tJOB\tSTATUS\tSTARTED")
				for _, rec := range history {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rec.RunID, rec.JobID, rec.Status, humanize.Time(rec.StartedAt))
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "history entries to show")
	return cmd
}
