// Package run wires the catalog pipeline end to end: configuration and label
// loading, the two-phase crawl, filtering, dedup, and artifact writing. It is
// the single entry point shared by the CLI and by integration tests.
package run

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/beckettonfilm-sys/raffaello/internal/catalog"
	"github.com/beckettonfilm-sys/raffaello/internal/config"
	"github.com/beckettonfilm-sys/raffaello/internal/fetch"
	"github.com/beckettonfilm-sys/raffaello/internal/labels"
	"github.com/beckettonfilm-sys/raffaello/internal/output"
	"github.com/beckettonfilm-sys/raffaello/internal/progress"
	"github.com/beckettonfilm-sys/raffaello/internal/scrape"
)

// DefaultConfigFile is the input file looked up under the run root when no
// explicit path is given.
const DefaultConfigFile = "FILES/plik_wejsciowy.txt"

// candidateBuffer bounds the hand-off between the listing goroutine and the
// album phase so listing can run ahead without unbounded memory growth.
const candidateBuffer = 256

// Options configures a single run.
type Options struct {
	// Root is the working directory holding the input FILES/ and receiving
	// the output artifacts. Defaults to the current directory.
	Root string
	// ConfigPath overrides the default input file location.
	ConfigPath string
	// DryRun crawls and filters but writes no artifacts.
	DryRun bool
	// Observer receives progress events; nil discards them.
	Observer progress.Observer
	// Logger is the structured logger; nil uses a no-op logger.
	Logger *zap.Logger
}

// FatalError carries the validation error code of a fail-fast abort.
type FatalError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Timing records run wall-clock boundaries.
type Timing struct {
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
}

// Result summarizes one run.
type Result struct {
	OK        bool             `json:"ok"`
	RunID     uuid.UUID        `json:"run_id"`
	OutputDir string           `json:"output_dir"`
	Files     output.Files     `json:"files"`
	Stats     catalog.Snapshot `json:"stats"`
	Timing    Timing           `json:"timing"`
	Err       *FatalError      `json:"error,omitempty"`
}

// Run executes the full pipeline. Validation failures are reported inside
// Result with a typed code; only infrastructure failures (output IO) surface
// as the returned error along with the partial Result.
func Run(ctx context.Context, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tracker := progress.NewTracker(opts.Observer)

	root := opts.Root
	if root == "" {
		root = "."
	}
	result := Result{
		RunID:     uuid.New(),
		OutputDir: root,
		Timing:    Timing{StartedAt: time.Now().UTC()},
	}
	logger = logger.With(zap.String("run_id", result.RunID.String()))

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = filepath.Join(root, filepath.FromSlash(DefaultConfigFile))
	}

	tracker.Step(progress.PhaseInit, "loading configuration", 0, 0)
	cfg, err := config.Load(configPath, logger)
	if err != nil {
		return fail(result, tracker, logger, err)
	}

	tracker.Step(progress.PhaseLabels, "loading labels", 0, 0)
	labelsPath := cfg.LabelsFile
	if !filepath.IsAbs(labelsPath) {
		labelsPath = filepath.Join(root, filepath.FromSlash(cfg.LabelsFile))
	}
	labelList, err := labels.Load(labelsPath)
	if err != nil {
		return fail(result, tracker, logger, err)
	}
	logger.Info("run starting",
		zap.Int("labels", len(labelList)),
		zap.String("date_from", cfg.DateFrom.Format()),
		zap.String("date_to", cfg.DateTo.Format()),
		zap.Bool("dry_run", opts.DryRun),
	)

	stats := &catalog.Stats{}
	stats.LabelsTotal.Store(int64(len(labelList)))

	fetcher := fetch.New(fetch.Config{
		UserAgent:      cfg.UserAgent,
		AcceptLanguage: cfg.AcceptLanguage,
		Timeout:        cfg.Timeout,
		Retries:        cfg.Retries,
	}, stats, logger)
	listingLane := fetch.NewLane("listing", cfg.ListingDelay())
	albumLane := fetch.NewLane("album", cfg.AlbumDelay())

	crawler := scrape.NewListingCrawler(cfg, fetcher, listingLane, stats, logger)
	filter := catalog.NewFilter(cfg, stats, logger)

	candidates := make(chan catalog.Candidate, candidateBuffer)

	// Listing phase runs ahead on its own lane; the album phase consumes
	// candidates as they arrive so the two request schedules interleave.
	go func() {
		defer close(candidates)
		for i, label := range labelList {
			if ctx.Err() != nil {
				return
			}
			tracker.Step(progress.PhaseListing,
				fmt.Sprintf("listing %s", label.Name), i, len(labelList))
			err := crawler.CrawlLabel(ctx, label, func(c catalog.Candidate) {
				select {
				case candidates <- c:
				case <-ctx.Done():
				}
			})
			if err != nil {
				logger.Warn("label crawl failed",
					zap.String("label", label.Name), zap.Error(err))
			}
			stats.LabelsProcessed.Add(1)
		}
		tracker.Step(progress.PhaseListing, "listing complete",
			len(labelList), len(labelList))
	}()

	var accepted []catalog.AcceptedRecord
	var missing []catalog.MissingDateEntry
	processed := 0
	for cand := range candidates {
		processed++
		total := int(stats.CandidatesTotal.Load())
		tracker.Step(progress.PhaseAlbums,
			fmt.Sprintf("album %d", processed), processed, total)

		var body string
		var ok bool
		err := albumLane.Do(ctx, func(lctx context.Context) {
			body, ok = fetcher.Fetch(lctx, cand.AlbumURL)
		})
		if err != nil {
			break // context canceled
		}
		if !ok {
			continue
		}
		stats.AlbumsFetched.Add(1)

		details, ok := scrape.ParseAlbum(body)
		if !ok {
			stats.ParseErrors.Add(1)
			logger.Warn("album page unusable", zap.String("url", cand.AlbumURL))
			continue
		}
		record, miss, ok := filter.Apply(cand, details)
		if miss != nil {
			missing = append(missing, *miss)
		}
		if ok {
			accepted = append(accepted, record)
		}
	}
	if err := ctx.Err(); err != nil {
		return fail(result, tracker, logger, err)
	}

	accepted = catalog.Dedup(accepted, stats)

	tracker.Step(progress.PhaseWriting, "writing artifacts", 0, 1)
	writer := output.NewWriter(root, opts.DryRun, logger)
	files, err := writer.Write(accepted, missing)
	if err != nil {
		res, _ := fail(result, tracker, logger, err)
		return res, err
	}
	tracker.Step(progress.PhaseWriting, "artifacts written", 1, 1)

	result.OK = true
	result.Files = files
	result.Stats = stats.Snapshot()
	result.Timing.FinishedAt = time.Now().UTC()
	result.Timing.Duration = result.Timing.FinishedAt.Sub(result.Timing.StartedAt)

	logger.Info("run finished",
		zap.Int64("candidates", result.Stats.CandidatesTotal),
		zap.Int64("accepted", result.Stats.Accepted),
		zap.Int64("rejected_genre", result.Stats.RejectedByGenre),
		zap.Int64("rejected_length", result.Stats.RejectedByLength),
		zap.Int64("rejected_date", result.Stats.RejectedByDateMismatch),
		zap.Int64("missing_album_date", result.Stats.MissingAlbumDate),
		zap.Int64("duplicates_removed", result.Stats.DuplicatesRemoved),
		zap.Duration("duration", result.Timing.Duration),
	)
	tracker.Done("run complete")
	return result, nil
}

// fail finalizes the result for an aborted run, mapping typed loader errors
// to their validation codes.
func fail(result Result, tracker *progress.Tracker, logger *zap.Logger, err error) (Result, error) {
	fe := &FatalError{Code: "Internal", Message: err.Error()}

	var cfgErr *config.Error
	var labErr *labels.Error
	switch {
	case errors.As(err, &cfgErr):
		fe = &FatalError{Code: cfgErr.Code, Message: cfgErr.Message, Details: cfgErr.Details}
	case errors.As(err, &labErr):
		fe = &FatalError{Code: labErr.Code, Message: labErr.Message, Details: labErr.Details}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		fe = &FatalError{Code: "Canceled", Message: err.Error()}
	}

	result.Err = fe
	result.Timing.FinishedAt = time.Now().UTC()
	result.Timing.Duration = result.Timing.FinishedAt.Sub(result.Timing.StartedAt)
	logger.Error("run aborted", zap.String("code", fe.Code), zap.Error(err))
	tracker.Fail(fe.Message)
	return result, nil
}
