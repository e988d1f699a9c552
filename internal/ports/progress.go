package ports

import "github.com/devbush/tubescribe/internal/domain"

// TaskEvent describes a task status change.
type TaskEvent struct {
	Index  int
	Total  int
	ID     string
	URL    string
	Status domain.TaskStatus
	Cached bool
	Err    *domain.TaskError
}

// ProgressObserver receives task status changes. Implementations must be
// safe for concurrent use.
type ProgressObserver interface {
	OnTaskEvent(event TaskEvent)
}
