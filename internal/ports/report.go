package ports

import "github.com/devbush/tubescribe/internal/domain"

// ReportWriter persists batch artifacts under the batch root.
type ReportWriter interface {
	// Write persists the combined report and returns its path.
	Write(batchRoot string, report *domain.CombinedReport) (string, error)

	// WriteSummary persists the JSON batch summary and returns its path.
	WriteSummary(batchRoot string, summary *domain.BatchSummary) (string, error)

	// WriteTranscript stores a single task's transcript in its directory.
	WriteTranscript(taskDir string, transcript string) (string, error)
}

// ReportRenderer produces an additional report format.
type ReportRenderer interface {
	Render(batchRoot string, report *domain.CombinedReport) (string, error)
}
