package ports

// Workspace allocates isolated directories for a batch and its tasks.
type Workspace interface {
	// CreateBatchRoot creates the root directory for batchID.
	CreateBatchRoot(batchID string) (string, error)

	// CreateTaskDir creates the subdirectory for the task at index.
	CreateTaskDir(batchRoot string, index int) (string, error)

	// RemoveTaskDir deletes a task subdirectory and its contents.
	RemoveTaskDir(dir string) error
}
