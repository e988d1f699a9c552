package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/devbush/tubescribe/internal/domain"
	"github.com/devbush/tubescribe/internal/logger"
	"github.com/devbush/tubescribe/internal/ports"
)

// DefaultTaskTimeout bounds a single task when no timeout is configured.
const DefaultTaskTimeout = 30 * time.Minute

// BatchOptions configures a batch run
type BatchOptions struct {
	BatchID       string        // empty derives an id from the start time
	Concurrency   int           // 1 processes tasks strictly in sequence
	TaskTimeout   time.Duration // zero means DefaultTaskTimeout, negative disables
	NoCache       bool
	KeepWorkspace bool
	Language      string // recorded on cache entries
}

// BatchResult contains the outcome of a batch run
type BatchResult struct {
	Job         *domain.BatchJob
	Report      *domain.CombinedReport
	ReportPath  string
	SummaryPath string
	Extra       []string // paths of additional report renderings
	WriteErr    error    // set when the report could not be persisted
}

// HasFailures reports whether any task failed.
func (r *BatchResult) HasFailures() bool {
	return r.Job.Failed() > 0
}

// BatchService sequences acquisition, transcoding and recognition for
// every URL of a batch and isolates task failures.
type BatchService struct {
	workspace   ports.Workspace
	acquirer    ports.AudioAcquirer
	transcoder  ports.AudioTranscoder
	transcriber ports.Transcriber
	writer      ports.ReportWriter
	log         logger.Logger

	cache     ports.CacheStore
	cacheTTL  time.Duration
	observer  ports.ProgressObserver
	renderers []ports.ReportRenderer
	now       func() time.Time
}

// NewBatchService creates a new batch service
func NewBatchService(
	workspace ports.Workspace,
	acquirer ports.AudioAcquirer,
	transcoder ports.AudioTranscoder,
	transcriber ports.Transcriber,
	writer ports.ReportWriter,
	log logger.Logger,
) *BatchService {
	if log == nil {
		log = logger.NewNop()
	}
	return &BatchService{
		workspace:   workspace,
		acquirer:    acquirer,
		transcoder:  transcoder,
		transcriber: transcriber,
		writer:      writer,
		log:         log,
		now:         time.Now,
	}
}

// WithCache enables the transcript cache.
func (s *BatchService) WithCache(cache ports.CacheStore, ttl time.Duration) *BatchService {
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

// WithObserver registers a progress observer.
func (s *BatchService) WithObserver(observer ports.ProgressObserver) *BatchService {
	s.observer = observer
	return s
}

// WithRenderer adds a report format written next to the text report.
func (s *BatchService) WithRenderer(renderer ports.ReportRenderer) *BatchService {
	s.renderers = append(s.renderers, renderer)
	return s
}

// batchRun holds the state shared by the workers of one Run call. Each
// worker only touches the slots of its own task index.
type batchRun struct {
	job             *domain.BatchJob
	opts            BatchOptions
	transcriptPaths []string
}

// Run processes every URL and writes the combined report. It returns an
// error only for batch-fatal conditions; task failures are recorded in
// the report.
func (s *BatchService) Run(ctx context.Context, urls []string, opts BatchOptions) (*BatchResult, error) {
	job, err := domain.NewBatchJob(opts.BatchID, urls, s.now())
	if err != nil {
		return nil, err
	}

	root, err := s.workspace.CreateBatchRoot(job.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch workspace: %w", err)
	}
	job.Root = root

	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.TaskTimeout == 0 {
		opts.TaskTimeout = DefaultTaskTimeout
	}

	log := s.log.With("batch", job.ID)
	log.Info(ctx, "batch started", "tasks", len(job.Tasks), "root", root, "concurrency", opts.Concurrency)

	run := &batchRun{
		job:             job,
		opts:            opts,
		transcriptPaths: make([]string, len(job.Tasks)),
	}

	// Worker pool using semaphore pattern
	sem := newSemaphore(opts.Concurrency)
	var wg sync.WaitGroup

	for _, task := range job.Tasks {
		if err := sem.acquire(ctx); err != nil {
			break
		}
		wg.Add(1)
		go func(task *domain.VideoTask) {
			defer wg.Done()
			defer sem.release()
			s.runTask(ctx, run, task)
		}(task)
	}

	wg.Wait()

	// Tasks never started because the batch was cancelled.
	for _, task := range job.Tasks {
		if task.Status == domain.StatusPending {
			taskErr := domain.NewTaskError(domain.KindCancelled, "batch cancelled before task started", ctx.Err())
			if err := task.Fail(taskErr); err == nil {
				s.emit(run, task)
			}
		}
	}

	result := &BatchResult{
		Job:    job,
		Report: job.Report(),
	}

	result.ReportPath, result.WriteErr = s.writer.Write(root, result.Report)
	if result.WriteErr != nil {
		log.Error(ctx, "failed to write combined report", "error", result.WriteErr)
	}

	for _, renderer := range s.renderers {
		path, err := renderer.Render(root, result.Report)
		if err != nil {
			log.Warn(ctx, "failed to render report", "error", err)
			continue
		}
		result.Extra = append(result.Extra, path)
	}

	summary := job.Summary(result.ReportPath, func(t *domain.VideoTask) string {
		if opts.KeepWorkspace {
			return run.transcriptPaths[t.Index]
		}
		return ""
	})
	summaryPath, err := s.writer.WriteSummary(root, summary)
	if err != nil {
		log.Warn(ctx, "failed to write batch summary", "error", err)
	}
	result.SummaryPath = summaryPath

	if !opts.KeepWorkspace {
		s.cleanup(ctx, log, job)
	}

	log.Info(ctx, "batch finished",
		"succeeded", job.Succeeded(),
		"failed", job.Failed(),
		"report", result.ReportPath,
	)

	return result, nil
}

func (s *BatchService) runTask(ctx context.Context, run *batchRun, task *domain.VideoTask) {
	log := s.log.With("batch", run.job.ID, "task", task.ID, "index", task.Index, "url", task.URL)

	task.StartedAt = s.now()
	defer func() { task.FinishedAt = s.now() }()

	taskCtx := ctx
	if run.opts.TaskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, run.opts.TaskTimeout)
		defer cancel()
	}

	fail := func(taskErr *domain.TaskError) {
		if err := task.Fail(taskErr); err != nil {
			log.Error(ctx, "invalid task state", "error", err)
			return
		}
		log.Error(ctx, "task failed",
			"stage", taskErr.Stage,
			"kind", string(taskErr.Kind),
			"error", taskErr.Message,
		)
		if taskErr.Detail != "" {
			log.Debug(ctx, "task failure detail", "detail", taskErr.Detail)
		}
		s.emit(run, task)
	}

	if taskCtx.Err() != nil {
		fail(s.classify(ctx, taskCtx, run, nil, domain.KindCancelled))
		return
	}

	dir, err := s.workspace.CreateTaskDir(run.job.Root, task.Index)
	if err != nil {
		fail(domain.AsTaskError(err, domain.KindFilesystem))
		return
	}
	task.Dir = dir

	if text, ok := s.lookupCache(ctx, log, run, task); ok {
		task.Cached = true
		if err := task.Complete(text); err != nil {
			log.Error(ctx, "invalid task state", "error", err)
			return
		}
		s.saveTranscript(ctx, log, run, task)
		log.Info(ctx, "task done from cache")
		s.emit(run, task)
		return
	}

	// Stage 1: download
	if !s.advance(ctx, log, run, task, domain.StatusDownloading) {
		return
	}
	acquired, err := s.acquirer.Acquire(taskCtx, task.URL, dir)
	if err != nil {
		fail(s.classify(ctx, taskCtx, run, err, domain.KindDownload))
		return
	}
	task.Warnings = acquired.Warnings
	for _, w := range acquired.Warnings {
		log.Warn(ctx, "downloader warning", "stage", string(domain.StatusDownloading), "warning", w)
	}

	// Stage 2: transcode
	if !s.advance(ctx, log, run, task, domain.StatusTranscoding) {
		return
	}
	wavPath, err := s.transcoder.Transcode(taskCtx, acquired.AudioPath, dir)
	if err != nil {
		fail(s.classify(ctx, taskCtx, run, err, domain.KindTranscode))
		return
	}

	// Stage 3: recognize
	if !s.advance(ctx, log, run, task, domain.StatusTranscribing) {
		return
	}
	result := s.transcriber.Transcribe(taskCtx, wavPath)
	if !result.OK() {
		taskErr := result.Err()
		if taskCtx.Err() != nil && result.Outcome == domain.OutcomeBackendError {
			taskErr = s.classify(ctx, taskCtx, run, taskErr, domain.KindBackend)
		}
		fail(taskErr)
		return
	}

	if err := task.Complete(result.Text); err != nil {
		log.Error(ctx, "invalid task state", "error", err)
		return
	}
	s.saveTranscript(ctx, log, run, task)
	s.storeCache(ctx, log, run, task)

	log.Info(ctx, "task done", "chars", len(result.Text))
	s.emit(run, task)
}

// advance moves the task into the next stage and notifies the observer.
func (s *BatchService) advance(ctx context.Context, log logger.Logger, run *batchRun, task *domain.VideoTask, next domain.TaskStatus) bool {
	if err := task.Transition(next); err != nil {
		log.Error(ctx, "invalid task state", "error", err)
		return false
	}
	log.Debug(ctx, "task stage", "stage", string(next))
	s.emit(run, task)
	return true
}

// classify maps a stage error to a task error. Any error observed after
// the task deadline passed or the batch was cancelled becomes a
// cancellation.
func (s *BatchService) classify(parent, taskCtx context.Context, run *batchRun, err error, fallback domain.ErrorKind) *domain.TaskError {
	switch {
	case parent.Err() != nil:
		return domain.NewTaskError(domain.KindCancelled, "batch cancelled", parent.Err())
	case errors.Is(taskCtx.Err(), context.DeadlineExceeded):
		return domain.NewTaskError(domain.KindCancelled,
			fmt.Sprintf("task timed out after %s", run.opts.TaskTimeout), taskCtx.Err())
	}
	if err == nil {
		return domain.NewTaskError(fallback, "task aborted", nil)
	}
	return domain.AsTaskError(err, fallback)
}

func (s *BatchService) lookupCache(ctx context.Context, log logger.Logger, run *batchRun, task *domain.VideoTask) (string, bool) {
	if s.cache == nil || run.opts.NoCache {
		return "", false
	}
	item, err := s.cache.Get(ctx, task.URL)
	if err != nil || item == nil || item.Transcript == "" {
		if err != nil && !errors.Is(err, domain.ErrCacheMiss) && !errors.Is(err, domain.ErrCacheExpired) {
			log.Warn(ctx, "cache lookup failed", "error", err)
		}
		return "", false
	}
	return item.Transcript, true
}

func (s *BatchService) storeCache(ctx context.Context, log logger.Logger, run *batchRun, task *domain.VideoTask) {
	if s.cache == nil || run.opts.NoCache {
		return
	}
	now := s.now()
	item := &ports.CachedItem{
		URL:        task.URL,
		Transcript: task.Transcript,
		Backend:    s.transcriber.Name(),
		Language:   run.opts.Language,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.cacheTTL),
	}
	// Cache failures are non-fatal
	if err := s.cache.Set(ctx, task.URL, item); err != nil {
		log.Warn(ctx, "failed to cache transcript", "error", err)
	}
}

func (s *BatchService) saveTranscript(ctx context.Context, log logger.Logger, run *batchRun, task *domain.VideoTask) {
	path, err := s.writer.WriteTranscript(task.Dir, task.Transcript)
	if err != nil {
		log.Warn(ctx, "failed to write task transcript", "error", err)
		return
	}
	run.transcriptPaths[task.Index] = path
}

func (s *BatchService) cleanup(ctx context.Context, log logger.Logger, job *domain.BatchJob) {
	for _, task := range job.Tasks {
		if task.Dir == "" {
			continue
		}
		if err := s.workspace.RemoveTaskDir(task.Dir); err != nil {
			log.Warn(ctx, "failed to remove task directory", "dir", task.Dir, "error", err)
		}
	}
}

func (s *BatchService) emit(run *batchRun, task *domain.VideoTask) {
	if s.observer == nil {
		return
	}
	s.observer.OnTaskEvent(ports.TaskEvent{
		Index:  task.Index,
		Total:  len(run.job.Tasks),
		ID:     task.ID,
		URL:    task.URL,
		Status: task.Status,
		Cached: task.Cached,
		Err:    task.Err,
	})
}
