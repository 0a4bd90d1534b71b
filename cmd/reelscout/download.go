package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/datallboy/reelscout/internal/app"
	"github.com/datallboy/reelscout/internal/domain"
	"github.com/datallboy/reelscout/internal/service"
)

func newDownloadCmd() *cobra.Command {
	var magnet, quality string

	cmd := &cobra.Command{
		Use:   "download <title>",
		Short: "Run one simulated download in the foreground",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.Build(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := a.Service.StartDownload(ctx, service.DownloadRequest{
				Magnet:  magnet,
				Title:   strings.Join(args, " "),
				Quality: domain.Quality(quality),
			})
			if err != nil {
				return err
			}

			return watchProgress(ctx, cmd.OutOrStdout(), a, id, cfg.Download.TickInterval)
		},
	}
	cmd.Flags().StringVar(&magnet, "magnet", "", "magnet link of the chosen source")
	cmd.Flags().StringVar(&quality, "quality", string(domain.Quality1080p), "quality label")
	_ = cmd.MarkFlagRequired("magnet")
	return cmd
}

// watchProgress renders the job until it completes or ctx is cancelled.
func watchProgress(ctx context.Context, w io.Writer, a *app.Context, id string, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		job, ok := a.Registry.Get(id)
		if !ok {
			return fmt.Errorf("job %s disappeared", id)
		}
		renderProgress(w, job)

		if job.Status == domain.StatusCompleted {
			fmt.Fprintf(w, "\nSaved to %s\n", job.FilePath)
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			fmt.Fprintln(w)
			return ctx.Err()
		}
	}
}

func renderProgress(w io.Writer, job domain.DownloadJob) {
	const width = 30
	filled := job.Progress * width / domain.MaxProgress
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", width-filled)

	elapsed := time.Since(job.StartedAt).Round(time.Second)
	fmt.Fprintf(w, "\r%s [%s] %3d%% %s", job.ID, bar, job.Progress, elapsed)
}
