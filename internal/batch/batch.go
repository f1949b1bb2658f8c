// Package batch runs IDPC over several data sets concurrently. Runs share
// no state, so they are scheduled independently and one failure does not
// stop the others.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/TrevorS/idpc"
	"github.com/TrevorS/idpc/internal/dataset"
)

// Job describes one data set and the parameters to cluster it with.
type Job struct {
	Name          string `toml:"name"`
	Path          string `toml:"path"`
	Centers       int    `toml:"centers"`
	CutoffMethod  int    `toml:"dc_method"`
	CutoffPercent *int   `toml:"dc_percent"`
	DensityMethod *int   `toml:"rho_method"`
	Halo          bool   `toml:"halo"`
	Delimiter     string `toml:"delimiter"`
	NoHeader      bool   `toml:"no_header"`
}

// File is the decoded form of a TOML job file.
type File struct {
	// Workers bounds the number of data sets clustered at once.
	Workers  int   `toml:"workers"`
	Datasets []Job `toml:"dataset"`
}

// LoadJobs decodes the job file at path. Unknown keys are rejected, and
// relative data set paths are resolved against the job file's directory.
func LoadJobs(path string) (*File, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("decode %s: unknown keys %v", path, undecoded)
	}

	dir := filepath.Dir(path)
	for i := range f.Datasets {
		j := &f.Datasets[i]
		if j.Path == "" {
			return nil, fmt.Errorf("decode %s: dataset %d has no path", path, i)
		}
		if !filepath.IsAbs(j.Path) {
			j.Path = filepath.Join(dir, j.Path)
		}
		if j.Name == "" {
			j.Name = filepath.Base(j.Path)
		}
	}
	return &f, nil
}

// Config converts the job's parameters into an idpc.Config.
func (j Job) Config() idpc.Config {
	cfg := idpc.DefaultConfig()
	cfg.Centers = j.Centers
	cfg.CutoffMethod = idpc.CutoffMethod(j.CutoffMethod)
	if j.CutoffPercent != nil {
		cfg.CutoffPercent = *j.CutoffPercent
	}
	if j.DensityMethod != nil {
		cfg.DensityMethod = idpc.DensityMethod(*j.DensityMethod)
	}
	cfg.Halo = j.Halo
	return cfg
}

func (j Job) datasetOptions() (dataset.Options, error) {
	var opts dataset.Options
	if j.Delimiter != "" {
		r := []rune(j.Delimiter)
		if len(r) != 1 {
			return opts, fmt.Errorf("delimiter must be a single character, got %q", j.Delimiter)
		}
		opts.Delimiter = r[0]
	}
	if j.NoHeader {
		opts.Header = dataset.HeaderAbsent
	}
	return opts, nil
}

// Options controls a batch.
type Options struct {
	// Workers bounds the number of concurrent runs. <= 0 means 4.
	Workers int

	// ClusterWorkers is passed to idpc.Config.Workers for each run.
	ClusterWorkers int

	// Logger receives progress records. nil discards them.
	Logger *slog.Logger
}

// Outcome is the result of one job.
type Outcome struct {
	Job     Job
	RunID   string
	Config  idpc.Config
	Result  *idpc.Result
	Err     error
	Elapsed time.Duration
}

// Run clusters every job and returns the outcomes in job order. Once ctx is
// cancelled no further jobs start; their outcomes carry ctx's error, which
// is also returned.
func Run(ctx context.Context, jobs []Job, opts Options) ([]Outcome, error) {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	outcomes := make([]Outcome, len(jobs))
	var g errgroup.Group
	g.SetLimit(opts.Workers)

	for i, job := range jobs {
		outcomes[i] = Outcome{Job: job, RunID: uuid.NewString(), Config: job.Config()}
		g.Go(func() error {
			o := &outcomes[i]
			if err := ctx.Err(); err != nil {
				o.Err = err
				return nil
			}
			runOne(o, opts)
			return nil
		})
	}

	_ = g.Wait()
	return outcomes, ctx.Err()
}

func runOne(o *Outcome, opts Options) {
	log := opts.Logger.With("dataset", o.Job.Name, "run_id", o.RunID)
	start := time.Now()
	defer func() { o.Elapsed = time.Since(start) }()

	dsOpts, err := o.Job.datasetOptions()
	if err != nil {
		o.Err = err
		log.Error("invalid job", "error", err)
		return
	}
	table, err := dataset.Load(o.Job.Path, dsOpts)
	if err != nil {
		o.Err = err
		log.Error("load failed", "error", err)
		return
	}

	o.Config.Workers = opts.ClusterWorkers
	o.Config.Logger = log
	res, err := idpc.Cluster(table.Points, o.Config)
	if err != nil {
		o.Err = err
		log.Error("clustering failed", "error", err)
		return
	}
	o.Result = res
	log.Info("clustering completed",
		"points", len(table.Points),
		"centers", len(res.Centers),
		"halo", len(res.Halo),
		"elapsed", time.Since(start),
	)
}
