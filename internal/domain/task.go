package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStatus tracks the pipeline stage of one video task.
type TaskStatus string

const (
	StatusPending      TaskStatus = "pending"
	StatusDownloading  TaskStatus = "downloading"
	StatusTranscoding  TaskStatus = "transcoding"
	StatusTranscribing TaskStatus = "transcribing"
	StatusDone         TaskStatus = "done"
	StatusFailed       TaskStatus = "failed"
)

// StageWorkspace labels failures that happen before the first working
// stage (task directory allocation, batch cancellation).
const StageWorkspace = "workspace"

func (s TaskStatus) String() string {
	return string(s)
}

// IsWorking reports whether the status is one of the three pipeline stages.
func (s TaskStatus) IsWorking() bool {
	return s == StatusDownloading || s == StatusTranscoding || s == StatusTranscribing
}

// IsFinal reports whether the task has been finalized.
func (s TaskStatus) IsFinal() bool {
	return s == StatusDone || s == StatusFailed
}

// isValidTransition enforces the task state machine edges.
// pending -> done is the cache-hit shortcut; pending -> failed covers
// workspace errors and cancellation before the task started.
func isValidTransition(from, to TaskStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusDownloading || to == StatusDone || to == StatusFailed
	case StatusDownloading:
		return to == StatusTranscoding || to == StatusFailed
	case StatusTranscoding:
		return to == StatusTranscribing || to == StatusFailed
	case StatusTranscribing:
		return to == StatusDone || to == StatusFailed
	default:
		return false
	}
}

// VideoTask is the per-URL unit of work within a batch.
type VideoTask struct {
	Index      int        `json:"index"`
	ID         string     `json:"id"`
	URL        string     `json:"url"`
	Dir        string     `json:"dir,omitempty"`
	Status     TaskStatus `json:"status"`
	Err        *TaskError `json:"error,omitempty"`
	Transcript string     `json:"-"`
	Warnings   []string   `json:"warnings,omitempty"`
	Cached     bool       `json:"cached,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

// NewVideoTask creates a pending task for the URL at position index.
func NewVideoTask(index int, url string) *VideoTask {
	return &VideoTask{
		Index:  index,
		ID:     uuid.NewString(),
		URL:    url,
		Status: StatusPending,
	}
}

// Transition moves the task to a new status, rejecting invalid edges.
func (t *VideoTask) Transition(to TaskStatus) error {
	if !isValidTransition(t.Status, to) {
		return fmt.Errorf("invalid task transition: %s -> %s", t.Status, to)
	}
	t.Status = to
	return nil
}

// Fail finalizes the task as failed. The error's stage defaults to the
// stage the task was in when it failed.
func (t *VideoTask) Fail(err *TaskError) error {
	if err.Stage == "" {
		if t.Status.IsWorking() {
			err.Stage = string(t.Status)
		} else {
			err.Stage = StageWorkspace
		}
	}
	if transErr := t.Transition(StatusFailed); transErr != nil {
		return transErr
	}
	t.Err = err
	return nil
}

// Complete finalizes the task as done with its recognized transcript.
func (t *VideoTask) Complete(transcript string) error {
	if err := t.Transition(StatusDone); err != nil {
		return err
	}
	t.Transcript = transcript
	return nil
}

// Duration returns how long the task took, or zero while unfinished.
func (t *VideoTask) Duration() time.Duration {
	if t.StartedAt.IsZero() || t.FinishedAt.IsZero() {
		return 0
	}
	return t.FinishedAt.Sub(t.StartedAt)
}
