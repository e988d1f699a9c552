package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/devbush/tubescribe/internal/domain"
)

// Writer persists batch artifacts on an afero filesystem.
type Writer struct {
	fs afero.Fs
}

// NewWriter creates a report writer on fs.
func NewWriter(fs afero.Fs) *Writer {
	return &Writer{fs: fs}
}

// NewOsWriter creates a report writer on the real filesystem.
func NewOsWriter() *Writer {
	return NewWriter(afero.NewOsFs())
}

// Write stores the combined report as <batchRoot>/combined_transcript.txt.
func (w *Writer) Write(batchRoot string, report *domain.CombinedReport) (string, error) {
	path := filepath.Join(batchRoot, domain.ReportFileName)
	if err := w.writeAtomic(path, []byte(report.Format())); err != nil {
		return "", domain.NewTaskError(domain.KindFilesystem, "failed to write combined report", err).WithDetail(err.Error())
	}
	return path, nil
}

// WriteSummary stores the batch summary as <batchRoot>/summary.json.
func (w *Writer) WriteSummary(batchRoot string, summary *domain.BatchSummary) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}

	path := filepath.Join(batchRoot, domain.SummaryFileName)
	if err := w.writeAtomic(path, data); err != nil {
		return "", domain.NewTaskError(domain.KindFilesystem, "failed to write batch summary", err)
	}
	return path, nil
}

// WriteTranscript stores one task's transcript in its directory.
func (w *Writer) WriteTranscript(taskDir string, transcript string) (string, error) {
	path := filepath.Join(taskDir, domain.TaskTranscriptFileName)
	text := strings.TrimSpace(transcript) + "\n"
	if err := afero.WriteFile(w.fs, path, []byte(text), 0644); err != nil {
		return "", domain.NewTaskError(domain.KindFilesystem, "failed to write task transcript", err)
	}
	return path, nil
}

// Read parses a combined report file.
func (w *Writer) Read(path string) ([]domain.ReportEntry, error) {
	f, err := w.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	return domain.ParseReport(f)
}

// writeAtomic writes to a temporary sibling and renames it into place so
// readers never observe a partial report.
func (w *Writer) writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(w.fs, tmp, data, 0644); err != nil {
		return err
	}
	if err := w.fs.Rename(tmp, path); err != nil {
		_ = w.fs.Remove(tmp)
		return err
	}
	return nil
}
