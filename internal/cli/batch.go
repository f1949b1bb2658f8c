package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TrevorS/idpc/internal/batch"
	"github.com/TrevorS/idpc/internal/report"
)

func (c *CLI) batchCommand() *cobra.Command {
	var (
		jobs    int
		workers int
		format  string
		points  bool
	)

	cmd := &cobra.Command{
		Use:   "batch <jobs.toml>",
		Short: "Cluster several data sets concurrently",
		Long: `Cluster every data set listed in a TOML job file. Runs are independent:
a failing data set is reported and the others still complete.

  workers = 4

  [[dataset]]
  name = "flame"
  path = "dataset/flame.dat"
  centers = 2
  dc_percent = 3
  halo = true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			file, err := batch.LoadJobs(args[0])
			if err != nil {
				return err
			}

			concurrency := file.Workers
			if cmd.Flags().Changed("jobs") {
				concurrency = jobs
			}

			logger := c.slogger()
			logger.Info("batch started", "datasets", len(file.Datasets), "jobs", concurrency)

			outcomes, runErr := batch.Run(cmd.Context(), file.Datasets, batch.Options{
				Workers:        concurrency,
				ClusterWorkers: workers,
				Logger:         logger,
			})

			summaries := make([]report.Summary, 0, len(outcomes))
			failed := 0
			for _, o := range outcomes {
				if o.Err != nil {
					failed++
					summaries = append(summaries, report.Failed(o.Job.Name, o.RunID, o.Err))
					continue
				}
				summaries = append(summaries, report.NewSummary(o.Job.Name, o.RunID, o.Config, o.Result, points))
			}
			if err := report.Write(cmd.OutOrStdout(), f, summaries...); err != nil {
				return err
			}

			if runErr != nil {
				return runErr
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d data sets failed", failed, len(outcomes))
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&jobs, "jobs", "j", 4, "data sets clustered at once (overrides the job file)")
	fl.IntVar(&workers, "workers", 1, "goroutines per run for distance and density computation")
	fl.StringVarP(&format, "format", "o", "text", "output format: text, json or yaml")
	fl.BoolVar(&points, "points", false, "include members, labels, rho and delta in the output")

	return cmd
}
