package domain

import (
	"strconv"
	"time"
)

// SummaryFileName is the fixed name of the JSON batch summary.
const SummaryFileName = "summary.json"

// TaskTranscriptFileName is written into a task directory on success.
const TaskTranscriptFileName = "transcript.txt"

// BatchJob is one invocation over an ordered list of URLs.
type BatchJob struct {
	ID        string
	Root      string
	CreatedAt time.Time
	Tasks     []*VideoTask
}

// NewBatchJob creates a job with one pending task per URL, in input order.
// An empty id defaults to the creation time in Unix milliseconds.
func NewBatchJob(id string, urls []string, now time.Time) (*BatchJob, error) {
	if len(urls) == 0 {
		return nil, ErrEmptyBatch
	}
	if id == "" {
		id = DefaultBatchID(now)
	}

	tasks := make([]*VideoTask, len(urls))
	for i, u := range urls {
		tasks[i] = NewVideoTask(i, u)
	}

	return &BatchJob{
		ID:        id,
		CreatedAt: now,
		Tasks:     tasks,
	}, nil
}

// DefaultBatchID derives a batch id from a timestamp.
func DefaultBatchID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// Succeeded returns the number of tasks that finished as done.
func (b *BatchJob) Succeeded() int {
	n := 0
	for _, t := range b.Tasks {
		if t.Status == StatusDone {
			n++
		}
	}
	return n
}

// Failed returns the number of tasks that finished as failed.
func (b *BatchJob) Failed() int {
	n := 0
	for _, t := range b.Tasks {
		if t.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Report builds the combined report from the tasks, in input order.
// Tasks that never finalized are reported as failures.
func (b *BatchJob) Report() *CombinedReport {
	report := NewCombinedReport(len(b.Tasks))
	for _, t := range b.Tasks {
		if t.Status == StatusDone {
			report.AddTranscript(t.URL, t.Transcript)
			continue
		}
		err := t.Err
		if err == nil {
			err = &TaskError{Stage: string(t.Status), Kind: KindCancelled, Message: "task did not finish"}
		}
		report.AddFailure(t.URL, err)
	}
	return report
}

// BatchSummary is the machine-readable outcome of a batch.
type BatchSummary struct {
	ID        string        `json:"id"`
	Root      string        `json:"root"`
	CreatedAt time.Time     `json:"created_at"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Report    string        `json:"report,omitempty"`
	Tasks     []TaskSummary `json:"tasks"`
}

// TaskSummary is the per-task line of a BatchSummary.
type TaskSummary struct {
	Index          int        `json:"index"`
	ID             string     `json:"id"`
	URL            string     `json:"url"`
	Status         TaskStatus `json:"status"`
	Cached         bool       `json:"cached,omitempty"`
	Stage          string     `json:"stage,omitempty"`
	ErrorKind      ErrorKind  `json:"error_kind,omitempty"`
	Message        string     `json:"message,omitempty"`
	DurationMs     int64      `json:"duration_ms"`
	Warnings       []string   `json:"warnings,omitempty"`
	TranscriptPath string     `json:"transcript_path,omitempty"`
}

// Summary builds the batch summary. transcriptPath maps a done task to
// the path of its per-task transcript file, if any.
func (b *BatchJob) Summary(reportPath string, transcriptPath func(*VideoTask) string) *BatchSummary {
	s := &BatchSummary{
		ID:        b.ID,
		Root:      b.Root,
		CreatedAt: b.CreatedAt,
		Total:     len(b.Tasks),
		Succeeded: b.Succeeded(),
		Failed:    b.Failed(),
		Report:    reportPath,
		Tasks:     make([]TaskSummary, 0, len(b.Tasks)),
	}

	for _, t := range b.Tasks {
		ts := TaskSummary{
			Index:      t.Index,
			ID:         t.ID,
			URL:        t.URL,
			Status:     t.Status,
			Cached:     t.Cached,
			DurationMs: t.Duration().Milliseconds(),
			Warnings:   t.Warnings,
		}
		if t.Err != nil {
			ts.Stage = t.Err.Stage
			ts.ErrorKind = t.Err.Kind
			ts.Message = t.Err.Message
		}
		if t.Status == StatusDone && transcriptPath != nil {
			ts.TranscriptPath = transcriptPath(t)
		}
		s.Tasks = append(s.Tasks, ts)
	}
	return s
}
