package domain

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	// ReportFileName is the fixed name of the combined report in the batch root.
	ReportFileName = "combined_transcript.txt"

	// FailedMarkerPrefix starts the body of every failed entry.
	FailedMarkerPrefix = "[FAILED]"

	reportHeaderPrefix = "Transcript for "
	reportHeaderSuffix = ":"
)

// ReportEntry is one (source URL, body) pair of a combined report.
type ReportEntry struct {
	URL    string `json:"url"`
	Body   string `json:"body"`
	Failed bool   `json:"failed"`
}

// CombinedReport holds one entry per task in input order.
type CombinedReport struct {
	entries []ReportEntry
}

// NewCombinedReport creates an empty report with room for n entries.
func NewCombinedReport(n int) *CombinedReport {
	return &CombinedReport{entries: make([]ReportEntry, 0, n)}
}

// AddTranscript appends a successful entry.
func (r *CombinedReport) AddTranscript(url, transcript string) {
	r.entries = append(r.entries, ReportEntry{
		URL:  normalizeURL(url),
		Body: normalizeBody(transcript),
	})
}

// AddFailure appends an error-marker entry for a failed task.
func (r *CombinedReport) AddFailure(url string, err *TaskError) {
	var body string
	if err == nil {
		body = FormatFailure("", "", "unknown error")
	} else {
		body = FormatFailure(err.Stage, err.Kind, err.Message)
	}
	r.entries = append(r.entries, ReportEntry{
		URL:    normalizeURL(url),
		Body:   normalizeBody(body),
		Failed: true,
	})
}

// Entries returns a copy of the report entries.
func (r *CombinedReport) Entries() []ReportEntry {
	out := make([]ReportEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries.
func (r *CombinedReport) Len() int {
	return len(r.entries)
}

// FailedCount returns the number of failed entries.
func (r *CombinedReport) FailedCount() int {
	n := 0
	for _, e := range r.entries {
		if e.Failed {
			n++
		}
	}
	return n
}

// Format renders the report in its on-disk text form.
func (r *CombinedReport) Format() string {
	var sb strings.Builder
	for _, e := range r.entries {
		sb.WriteString(reportHeaderPrefix)
		sb.WriteString(e.URL)
		sb.WriteString(reportHeaderSuffix)
		sb.WriteString("\n")
		sb.WriteString(e.Body)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// WriteTo writes the formatted report to w.
func (r *CombinedReport) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.Format())
	return int64(n), err
}

// FormatFailure builds the error-marker body for a failed entry.
func FormatFailure(stage string, kind ErrorKind, message string) string {
	label := string(kind)
	if stage != "" && kind != "" {
		label = stage + "/" + string(kind)
	} else if stage != "" {
		label = stage
	}
	if label == "" {
		return fmt.Sprintf("%s %s", FailedMarkerPrefix, message)
	}
	return fmt.Sprintf("%s %s: %s", FailedMarkerPrefix, label, message)
}

// ParseReport reads a combined report back into its entries.
func ParseReport(r io.Reader) ([]ReportEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var entries []ReportEntry
	i := 0
	for i < len(lines) {
		header := lines[i]
		if header == "" {
			i++
			continue
		}
		if !strings.HasPrefix(header, reportHeaderPrefix) || !strings.HasSuffix(header, reportHeaderSuffix) {
			return nil, fmt.Errorf("line %d: expected report header, got %q", i+1, header)
		}
		url := strings.TrimSuffix(strings.TrimPrefix(header, reportHeaderPrefix), reportHeaderSuffix)
		i++

		// An empty body is written as a single empty line before the separator.
		var body []string
		if i < len(lines) && lines[i] == "" {
			i++
		} else {
			for i < len(lines) && lines[i] != "" {
				body = append(body, lines[i])
				i++
			}
		}
		// skip separator
		if i < len(lines) && lines[i] == "" {
			i++
		}

		text := strings.Join(body, "\n")
		entries = append(entries, ReportEntry{
			URL:    url,
			Body:   text,
			Failed: strings.HasPrefix(text, FailedMarkerPrefix),
		})
	}
	return entries, nil
}

// normalizeBody trims the body, normalizes line endings and collapses
// blank lines so that a body never contains the block separator.
func normalizeBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")

	lines := strings.Split(body, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// normalizeURL keeps the header on a single line.
func normalizeURL(url string) string {
	return strings.Join(strings.Fields(strings.NewReplacer("\r", " ", "\n", " ").Replace(url)), " ")
}
