// Package batch generates many independent pitch tracks concurrently and
// writes each one to its own file.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/voicegen/internal/export"
	"github.com/dgnsrekt/voicegen/voice"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidJob is returned for jobs that cannot be run.
var ErrInvalidJob = errors.New("invalid batch job")

// Job describes a batch of tracks sharing one configuration.
type Job struct {
	Config voice.Config
	Count  int
	// Workers bounds concurrency. Zero uses one worker per CPU.
	Workers int
	Dir     string
	Prefix  string
	// Ext selects the output format, e.g. ".csv" or ".json.zst".
	Ext string
}

// Result describes one written track.
type Result struct {
	Index int
	Seed  uint64
	Path  string
	Bytes int64
	Stats voice.Stats
}

func (j Job) validate() error {
	if j.Count < 1 {
		return fmt.Errorf("%w: count must be at least 1, got %d", ErrInvalidJob, j.Count)
	}
	if j.Dir == "" {
		return fmt.Errorf("%w: output directory is required", ErrInvalidJob)
	}
	if _, _, err := export.FormatFromPath("track" + j.Ext); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}
	return j.Config.Validate()
}

// Path returns the output file of track i.
func (j Job) Path(i int) string {
	prefix := j.Prefix
	if prefix == "" {
		prefix = "track"
	}
	width := len(strconv.Itoa(j.Count - 1))
	return filepath.Join(j.Dir, fmt.Sprintf("%s-%0*d%s", prefix, width, i, j.Ext))
}

// seed returns the seed of track i. A zero base seed keeps every track
// random.
func (j Job) seed(i int) uint64 {
	if j.Config.Seed == 0 {
		return 0
	}
	return j.Config.Seed + uint64(i) //nolint:gosec
}

// Run generates the tracks of job. Results are ordered by index. The first
// failure cancels the remaining work.
func Run(ctx context.Context, job Job) ([]Result, error) {
	if err := job.validate(); err != nil {
		return nil, err
	}
	workers := job.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, job.Count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range job.Count {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			cfg := job.Config
			cfg.Seed = job.seed(i)
			cfg.Verbose = false
			s := voice.New(cfg)

			path := job.Path(i)
			n, err := export.WriteFile(path, s.Samples())
			if err != nil {
				return fmt.Errorf("track %d: %w", i, err)
			}
			log.Debug("wrote track", "path", path, "size", humanize.Bytes(uint64(n))) //nolint:gosec

			results[i] = Result{
				Index: i,
				Seed:  cfg.Seed,
				Path:  path,
				Bytes: n,
				Stats: voice.Summarize(s),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// TotalBytes sums the sizes of results.
func TotalBytes(results []Result) int64 {
	var total int64
	for _, r := range results {
		total += r.Bytes
	}
	return total
}
