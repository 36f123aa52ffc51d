package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"zotsearch/internal/covers"
)

func newCoversCmd() *cobra.Command {
	var (
		out     string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "covers <terms...>",
		Short: "Download the cover images of a query's results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, resp, err := searchOnce(cmd.Context(), args)
			if err != nil {
				return err
			}
			if len(resp.Data) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No results found for %q.\n", q.Q)
				return nil
			}

			bar := progressbar.Default(int64(len(resp.Data)), "covers")
			f := covers.NewFetcher(cfg.CoverBase(), out,
				covers.WithWorkers(workers),
				covers.WithLogger(logrus.StandardLogger()),
				covers.WithProgress(func() { _ = bar.Add(1) }),
			)
			stats, err := f.Fetch(cmd.Context(), resp.Data)
			_ = bar.Finish()

			logrus.WithFields(logrus.Fields{
				"query":   q.Q,
				"dir":     out,
				"fetched": stats.Fetched,
				"skipped": stats.Skipped,
				"failed":  stats.Failed,
			}).Info("covers.done")

			if url := cfg.Metrics.PushgatewayURL; url != "" {
				if perr := push.New(url, "zotsearch_covers").Gatherer(prometheus.DefaultGatherer).Push(); perr != nil {
					logrus.WithError(perr).Warn("metrics.push.failed")
				}
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "covers", "directory the images are written to")
	cmd.Flags().IntVarP(&workers, "workers", "w", covers.DefaultWorkers, "parallel downloads")
	return cmd
}
