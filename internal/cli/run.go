package cli

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/TrevorS/idpc"
	"github.com/TrevorS/idpc/internal/dataset"
	"github.com/TrevorS/idpc/internal/report"
)

type runOptions struct {
	centers       int
	cutoffMethod  int
	cutoffPercent int
	densityMethod int
	halo          bool
	workers       int
	format        string
	points        bool
	delimiter     string
	noHeader      bool
	columns       []int
	name          string
}

func (c *CLI) runCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Cluster the points in one file",
		Example: `  idpc run dataset/flame.dat -n 2 --dc-percent 3 --halo
  idpc run points.csv -n 5 --delimiter , --format json --points`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRun(cmd, args[0], opts)
		},
	}

	defaults := idpc.DefaultConfig()
	f := cmd.Flags()
	f.IntVarP(&opts.centers, "centers", "n", 0, "number of clusters (required)")
	f.IntVar(&opts.cutoffMethod, "dc-method", int(defaults.CutoffMethod), "cutoff search method (0 = bisection)")
	f.IntVar(&opts.cutoffPercent, "dc-percent", defaults.CutoffPercent, "percent of pairs that should lie within dc")
	f.IntVar(&opts.densityMethod, "rho-method", int(defaults.DensityMethod), "density method: 0 cutoff count, 1 gaussian, 2 neighborhood")
	f.BoolVar(&opts.halo, "halo", false, "demote low-density border points to noise")
	f.IntVar(&opts.workers, "workers", 1, "goroutines for distance and density computation")
	f.StringVarP(&opts.format, "format", "o", "text", "output format: text, json or yaml")
	f.BoolVar(&opts.points, "points", false, "include members, labels, rho and delta in the output")
	f.StringVar(&opts.delimiter, "delimiter", "\t", "field delimiter")
	f.BoolVar(&opts.noHeader, "no-header", false, "treat the first line as data")
	f.IntSliceVar(&opts.columns, "columns", nil, "zero-based coordinate columns (default 0,1)")
	f.StringVar(&opts.name, "name", "", "data set name shown in the output (default: file name)")
	_ = cmd.MarkFlagRequired("centers")

	return cmd
}

func (c *CLI) runRun(cmd *cobra.Command, path string, opts runOptions) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	dsOpts, err := datasetOptions(opts.delimiter, opts.noHeader, opts.columns)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := c.slogger().With("run_id", runID)

	table, err := dataset.Load(path, dsOpts)
	if err != nil {
		return err
	}
	logger.Debug("points loaded", "path", path, "points", len(table.Points), "columns", table.Columns)

	cfg := idpc.DefaultConfig()
	cfg.Centers = opts.centers
	cfg.CutoffMethod = idpc.CutoffMethod(opts.cutoffMethod)
	cfg.CutoffPercent = opts.cutoffPercent
	cfg.DensityMethod = idpc.DensityMethod(opts.densityMethod)
	cfg.Halo = opts.halo
	cfg.Workers = opts.workers
	cfg.Logger = logger

	res, err := idpc.Cluster(table.Points, cfg)
	if err != nil {
		return fmt.Errorf("cluster %s: %w", path, err)
	}

	name := opts.name
	if name == "" {
		name = filepath.Base(path)
	}
	return report.Write(cmd.OutOrStdout(), format, report.NewSummary(name, runID, cfg, res, opts.points))
}

func datasetOptions(delimiter string, noHeader bool, columns []int) (dataset.Options, error) {
	var opts dataset.Options
	r := []rune(delimiter)
	if len(r) != 1 {
		return opts, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	opts.Delimiter = r[0]
	if noHeader {
		opts.Header = dataset.HeaderAbsent
	}
	opts.Columns = columns
	return opts, nil
}
