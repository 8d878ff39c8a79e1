package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harvestly/siteharvest/internal/fetcher"
	"github.com/harvestly/siteharvest/internal/frontier"
	"github.com/harvestly/siteharvest/internal/model"
	"github.com/harvestly/siteharvest/internal/report"
	"github.com/harvestly/siteharvest/internal/store"
)

// State describes the engine's position in its lifecycle.
type State int32

const (
	// StateIdle means Run has not been called yet.
	StateIdle State = iota

	// StateRunning means batches are being dispatched.
	StateRunning

	// StateDraining means the frontier is empty, no work is in flight,
	// and the terminal writes are in progress.
	StateDraining

	// StateDone means the crawl has completed.
	StateDone
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Fetcher is the capability the engine uses to retrieve page bytes.
type Fetcher interface {
	// Fetch performs one GET request and returns the response, or a
	// classified error.
	Fetch(ctx context.Context, rawURL string) (*fetcher.Result, error)
}

// Extractor is the capability the engine uses to parse page bytes.
// Implementations must be deterministic and safe for concurrent use.
type Extractor interface {
	// Extract parses page bytes into a record plus candidate links.
	Extract(body []byte, sourceURL string) (*model.PageRecord, []string, error)
}

// Checkpointer is the capability the engine uses to persist results.
type Checkpointer interface {
	// WriteSnapshot persists the records as a periodic checkpoint named
	// by the cumulative page count, returning the file path.
	WriteSnapshot(records []*model.PageRecord, count int) (string, error)

	// WriteFinal persists the complete dataset and the spreadsheet
	// export, returning both paths.
	WriteFinal(records []*model.PageRecord) (datasetPath, workbookPath string, err error)
}

// History records fetched pages across runs. Recording is best-effort;
// the engine logs errors and continues.
type History interface {
	// BeginRun opens a new run row and returns its ID.
	BeginRun(ctx context.Context, seedURL string) (int64, error)

	// RecordPage records one successful fetch for the run.
	RecordPage(ctx context.Context, runID int64, row *store.PageRow) error

	// FinishRun closes the run row with final counters.
	FinishRun(ctx context.Context, runID int64, pages, failures int) error
}

// Engine coordinates the crawl. It owns the result store exclusively:
// records enter it only through the serialized merge path.
type Engine struct {
	frontier     *frontier.Frontier
	fetcher      Fetcher
	extractor    Extractor
	results      store.ResultStore
	checkpointer Checkpointer
	history      History

	seedURL            string
	maxWorkers         int
	delay              time.Duration
	checkpointInterval int

	logger   *slog.Logger
	progress io.Writer

	// state transitions are published atomically so Stats can be read
	// from other goroutines (e.g. tests) without the merge mutex.
	state atomic.Int32

	// inFlight counts URLs currently being processed by workers.
	inFlight atomic.Int64

	// mu guards the merge path: result append, checkpoint threshold,
	// failure counter, and the checkpoint path list.
	mu          sync.Mutex
	failures    int
	checkpoints []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxWorkers sets the worker pool size, which is also the batch size
// drawn from the frontier. Values below 1 are ignored.
func WithMaxWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxWorkers = n
		}
	}
}

// WithDelay sets the politeness delay slept after each batch.
func WithDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.delay = d
		}
	}
}

// WithCheckpointInterval sets the page-count interval between checkpoint
// snapshots. Values below 1 are ignored.
func WithCheckpointInterval(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.checkpointInterval = n
		}
	}
}

// WithLogger sets the logger for per-URL diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithProgressWriter sets the destination for progress lines
// (typically stdout). Use io.Discard to silence them.
func WithProgressWriter(w io.Writer) Option {
	return func(e *Engine) {
		e.progress = w
	}
}

// WithHistory enables best-effort crawl-history recording.
func WithHistory(h History) Option {
	return func(e *Engine) {
		e.history = h
	}
}

// New creates an Engine crawling from seedURL.
// The frontier must be constructed for the seed's host; the engine seeds
// it on Run.
func New(seedURL string, f *frontier.Frontier, fe Fetcher, ex Extractor, results store.ResultStore, cp Checkpointer, opts ...Option) *Engine {
	e := &Engine{
		frontier:           f,
		fetcher:            fe,
		extractor:          ex,
		results:            results,
		checkpointer:       cp,
		seedURL:            seedURL,
		maxWorkers:         3,
		delay:              2 * time.Second,
		checkpointInterval: 50,
		logger:             slog.Default(),
		progress:           io.Discard,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Stats is a point-in-time view of crawl progress.
type Stats struct {
	// State is the engine lifecycle state.
	State State

	// Pages is the number of records accumulated so far.
	Pages int

	// Failures is the number of per-URL failures so far.
	Failures int

	// Pending is the number of URLs awaiting dispatch.
	Pending int

	// InFlight is the number of URLs currently being processed.
	InFlight int
}

// Stats returns a snapshot of crawl progress.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	failures := e.failures
	e.mu.Unlock()

	return Stats{
		State:    e.State(),
		Pages:    e.results.Len(),
		Failures: failures,
		Pending:  e.frontier.PendingCount(),
		InFlight: int(e.inFlight.Load()),
	}
}

// Run executes the crawl to completion: seed the frontier, drain it in
// batches, then perform the terminal writes. It returns the run summary.
//
// Per-URL failures never abort the run. A checkpoint write failure is
// logged and the crawl continues; a terminal write failure is returned as
// the run's error since it represents loss of the full output. When ctx
// is cancelled the engine stops dispatching, still performs the terminal
// writes for the accumulated results, and returns ctx's error.
func (e *Engine) Run(ctx context.Context) (*report.Summary, error) {
	e.state.Store(int32(StateRunning))
	started := time.Now()

	var runID int64
	if e.history != nil {
		id, err := e.history.BeginRun(ctx, e.seedURL)
		if err != nil {
			e.logger.Warn("failed to begin history run", "error", err)
			e.history = nil
		} else {
			runID = id
		}
	}

	e.frontier.Offer([]string{e.seedURL})

	for {
		if ctx.Err() != nil {
			break
		}

		batch := e.frontier.TakeBatch(e.maxWorkers)
		if len(batch) == 0 {
			if e.frontier.IsEmpty() && e.inFlight.Load() == 0 {
				break
			}
			// Discovery may still be in progress; wait and retry.
			if !sleepCtx(ctx, e.delay) {
				break
			}
			continue
		}

		e.runBatch(ctx, runID, batch)

		// Politeness delay: the full delay is slept after every batch,
		// additive to fetch time.
		if !sleepCtx(ctx, e.delay) {
			break
		}
	}

	e.state.Store(int32(StateDraining))

	summary, err := e.finalize(started)

	if e.history != nil {
		if herr := e.history.FinishRun(context.WithoutCancel(ctx), runID, summary.Pages, summary.Failures); herr != nil {
			e.logger.Warn("failed to finish history run", "error", herr)
		}
	}

	e.state.Store(int32(StateDone))

	if err != nil {
		return summary, err
	}
	return summary, ctx.Err()
}

// runBatch dispatches one batch to the worker pool and waits for every
// worker in it to complete.
func (e *Engine) runBatch(ctx context.Context, runID int64, batch []string) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxWorkers)

	for _, pageURL := range batch {
		e.inFlight.Add(1)
		g.Go(func() error {
			defer e.inFlight.Add(-1)
			e.processURL(gctx, runID, pageURL)
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes completion.
	_ = g.Wait()
}

// processURL runs the fetch-then-extract pipeline for one URL and merges
// the outcome. All failures end here: logged, counted, dropped.
func (e *Engine) processURL(ctx context.Context, runID int64, pageURL string) {
	res, err := e.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		e.noteFailure(pageURL, err)
		return
	}

	if !res.IsHTML() {
		// Not an error: the URL passed the extension filter but served
		// non-HTML content. Nothing to extract.
		e.logger.Debug("skipping non-HTML response", "url", pageURL, "contentType", res.ContentType)
		return
	}

	record, links, err := e.extractor.Extract(res.Body, pageURL)
	if err != nil {
		e.noteFailure(pageURL, err)
		return
	}

	e.merge(record, links)

	if e.history != nil {
		hash := sha256.Sum256(res.Body)
		row := &store.PageRow{
			URL:         pageURL,
			Title:       record.Title,
			StatusCode:  res.StatusCode,
			ContentHash: hex.EncodeToString(hash[:]),
		}
		if err := e.history.RecordPage(ctx, runID, row); err != nil {
			e.logger.Warn("failed to record page history", "url", pageURL, "error", err)
		}
	}
}

// merge appends the record, offers the discovered links back to the
// frontier, and triggers a checkpoint when the result count crosses a
// multiple of the interval. The whole step runs under one mutex so the
// threshold check is atomic with the append; completion order between
// workers is otherwise unordered.
func (e *Engine) merge(record *model.PageRecord, links []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := e.results.Append(record)
	e.frontier.Offer(links)

	if count%e.checkpointInterval != 0 {
		return
	}

	snapshot := e.results.Snapshot()
	path, err := e.checkpointer.WriteSnapshot(snapshot, count)
	if err != nil {
		// Best-effort persistence: losing one checkpoint is recoverable,
		// the next one carries the cumulative data.
		e.logger.Warn("checkpoint write failed", "count", count, "error", err)
		return
	}

	e.checkpoints = append(e.checkpoints, path)
	fmt.Fprintf(e.progress, "Progress: %d pages scraped, %d URLs remaining\n",
		count, e.frontier.PendingCount())
}

// noteFailure logs a per-URL failure and counts it. The URL stays marked
// visited, so it is never re-enqueued.
func (e *Engine) noteFailure(pageURL string, err error) {
	e.logger.Warn("page failed", "url", pageURL, "error", err)

	e.mu.Lock()
	e.failures++
	e.mu.Unlock()
}

// finalize performs the terminal dataset and spreadsheet writes and
// assembles the run summary.
func (e *Engine) finalize(started time.Time) (*report.Summary, error) {
	e.mu.Lock()
	failures := e.failures
	checkpoints := append([]string(nil), e.checkpoints...)
	e.mu.Unlock()

	records := e.results.Snapshot()

	summary := &report.Summary{
		SeedURL:     e.seedURL,
		TargetHost:  hostOf(e.seedURL),
		Pages:       len(records),
		Failures:    failures,
		URLsSeen:    e.frontier.VisitedCount(),
		Duration:    time.Since(started),
		Checkpoints: checkpoints,
		FinishedAt:  time.Now(),
	}

	datasetPath, workbookPath, err := e.checkpointer.WriteFinal(records)
	if err != nil {
		return summary, fmt.Errorf("terminal write failed: %w", err)
	}

	summary.DatasetPath = datasetPath
	summary.WorkbookPath = workbookPath
	return summary, nil
}

// hostOf returns the authority of a URL, or "" when unparseable.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// sleepCtx sleeps for d unless the context is cancelled first.
// Returns false when the context ended the sleep early. A zero delay
// returns immediately.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
