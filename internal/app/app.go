// Package app wires configuration, preprocessing, detection, storage and
// metrics together for the command line tools.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chrissnell/thermocline/internal/metrics"
	"github.com/chrissnell/thermocline/internal/profile"
	"github.com/chrissnell/thermocline/internal/signal"
	"github.com/chrissnell/thermocline/internal/storage"
	"github.com/chrissnell/thermocline/internal/storage/sqlite"
	"github.com/chrissnell/thermocline/internal/storage/timescaledb"
	"github.com/chrissnell/thermocline/internal/thermocline"
	"github.com/chrissnell/thermocline/pkg/config"
)

// Options are the per-invocation switches of the command line.
type Options struct {
	// Store persists every feature record to the configured stores.
	Store bool
	// SaveModel keeps the fitted segment list in each report.
	SaveModel bool
}

// App represents the main application
type App struct {
	cfg      *config.ConfigData
	opts     Options
	logger   *zap.SugaredLogger
	registry *prometheus.Registry
	metrics  *metrics.Recorder
	ensemble *thermocline.Ensemble
	store    storage.Store
}

// Result is the outcome of detection on one profile file.
type Result struct {
	Path     string
	Profile  profile.Profile
	Report   thermocline.Report
	RecordID uuid.UUID
	Err      error
}

// New creates a new application instance
func New(cfg *config.ConfigData, opts Options, logger *zap.SugaredLogger) (*App, error) {
	detector, err := cfg.Detector()
	if err != nil {
		return nil, err
	}
	detector.SaveModel = opts.SaveModel

	registry := prometheus.NewRegistry()
	rec, err := metrics.New(registry)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		opts:     opts,
		logger:   logger,
		registry: registry,
		metrics:  rec,
		ensemble: thermocline.NewEnsemble(detector, logger, rec),
	}, nil
}

// OpenStorage connects every configured store. It is a no-op unless Options.Store is set.
func (a *App) OpenStorage(ctx context.Context) error {
	if !a.opts.Store {
		return nil
	}

	var stores storage.Multi
	if c := a.cfg.Storage.SQLite; c != nil {
		s, err := sqlite.New(ctx, c.Path)
		if err != nil {
			return err
		}
		a.logger.Infof("storing features in SQLite database %s", c.Path)
		stores = append(stores, s)
	}
	if c := a.cfg.Storage.TimescaleDB; c != nil {
		s, err := timescaledb.New(ctx, c.ConnectionString)
		if err != nil {
			stores.Close()
			return err
		}
		stores = append(stores, s)
	}
	if len(stores) == 0 {
		return errors.New("--store given but no storage backend is configured")
	}

	if err := stores.CheckHealth(ctx); err != nil {
		stores.Close()
		return fmt.Errorf("storage health check: %w", err)
	}
	a.store = stores
	return nil
}

// SetStore replaces the configured stores.
func (a *App) SetStore(s storage.Store) {
	a.store = s
}

// Close releases the stores
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Preprocess resamples p onto the configured interval and despikes it with
// the median filter.
func (a *App) Preprocess(p profile.Profile) (profile.Profile, error) {
	resampled, err := p.Resample(a.cfg.Preprocessing.Interval)
	if err != nil {
		return profile.Profile{}, err
	}

	window := a.cfg.Preprocessing.MedianWindow
	if window <= 1 {
		return resampled, nil
	}
	filtered, err := signal.MedFilt(resampled.Temperatures(), window)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	return resampled.WithTemperatures(filtered), nil
}

// DetectFile loads, preprocesses and analyzes one CSV cast, storing the
// result when storage is open.
func (a *App) DetectFile(ctx context.Context, path string) (Result, error) {
	raw, err := profile.LoadCSV(path)
	if err != nil {
		return Result{Path: path}, err
	}
	return a.Detect(ctx, path, raw)
}

// Detect analyzes a loaded cast.
func (a *App) Detect(ctx context.Context, path string, raw profile.Profile) (Result, error) {
	res := Result{Path: path}

	p, err := a.Preprocess(raw)
	if err != nil {
		return res, err
	}
	res.Profile = p
	res.Report = a.ensemble.Detect(p)

	if a.store != nil {
		rec := storage.NewRecord(p.Name, res.Report.Features)
		if err := a.store.StoreRecord(ctx, rec); err != nil {
			return res, fmt.Errorf("store %s: %w", p.Name, err)
		}
		res.RecordID = rec.ID
		a.logger.Debugf("stored %s as %s", p.Name, rec.ID)
	}
	return res, nil
}

// BatchSummary counts the outcome of a batch run.
type BatchSummary struct {
	Processed int
	Failed    int
	Elapsed   time.Duration
}

// Batch runs DetectFile over paths with at most jobs files in flight. Results
// are returned in input order. Without keepGoing the first failing file
// cancels the batch and its error is returned.
func (a *App) Batch(ctx context.Context, paths []string, jobs int, keepGoing bool) ([]Result, BatchSummary, error) {
	start := time.Now()
	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
				return nil
			}

			res, err := a.DetectFile(ctx, path)
			res.Err = err
			results[i] = res
			if err == nil {
				return nil
			}
			if keepGoing {
				a.logger.Errorw("skipping profile", "path", path, "error", err)
				return nil
			}
			return fmt.Errorf("%s: %w", path, err)
		})
	}

	err := g.Wait()

	summary := BatchSummary{Elapsed: time.Since(start)}
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Processed++
		}
	}
	return results, summary, err
}

// WriteMetrics writes the detector metrics to a node_exporter textfile.
func (a *App) WriteMetrics(path string) error {
	return metrics.WriteTextfile(path, a.registry)
}

// Gatherer exposes the application's metric registry.
func (a *App) Gatherer() prometheus.Gatherer {
	return a.registry
}

// ExpandPaths replaces each directory argument with the CSV files it contains.
func ExpandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}
