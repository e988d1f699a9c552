package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/devbush/tubescribe/internal/domain"
	"github.com/devbush/tubescribe/internal/ports"
)

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		current, total int
		width          int
		want           string
	}{
		{0, 10, 10, "[          ]"},
		{5, 10, 10, "[=====>    ]"},
		{10, 10, 10, "[==========]"},
		{3, 10, 10, "[===>      ]"},
		{9, 10, 10, "[=========>]"},
		{1, 0, 4, "[    ]"},
	}

	for _, tt := range tests {
		got := renderProgressBar(tt.current, tt.total, tt.width)
		if got != tt.want {
			t.Errorf("renderProgressBar(%d, %d, %d) = %q, want %q",
				tt.current, tt.total, tt.width, got, tt.want)
		}
	}
}

func TestBatchProgress_LinePerFinishedTask(t *testing.T) {
	var out bytes.Buffer
	bp := NewBatchProgress(&out, 3, false, false)

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	bp.now = func() time.Time { return clock }

	bp.OnTaskEvent(ports.TaskEvent{Index: 0, Total: 3, URL: "https://youtu.be/AAAAAAAAAAA", Status: domain.StatusDownloading})
	clock = clock.Add(1500 * time.Millisecond)
	bp.OnTaskEvent(ports.TaskEvent{Index: 0, Total: 3, URL: "https://youtu.be/AAAAAAAAAAA", Status: domain.StatusDone})
	bp.OnTaskEvent(ports.TaskEvent{
		Index:  1,
		Total:  3,
		URL:    "not a url",
		Status: domain.StatusFailed,
		Err:    &domain.TaskError{Stage: "downloading", Kind: domain.KindDownload, Message: "unsupported URL"},
	})
	bp.OnTaskEvent(ports.TaskEvent{Index: 2, Total: 3, URL: "https://youtu.be/BBBBBBBBBBB", Status: domain.StatusDone, Cached: true})

	got := out.String()
	for _, want := range []string{
		"[1/3] AAAAAAAAAAA (1.5s)",
		"[2/3] not a url: [FAILED] downloading/download: unsupported URL",
		"[3/3] BBBBBBBBBBB",
		"[cached]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "\n") != 3 {
		t.Errorf("expected one line per finished task, got:\n%s", got)
	}

	if bp.GetSuccessCount() != 2 || bp.GetFailureCount() != 1 {
		t.Errorf("counts = %d/%d, want 2/1", bp.GetSuccessCount(), bp.GetFailureCount())
	}

	out.Reset()
	bp.Complete("/out/1/combined_transcript.txt")
	summary := out.String()
	if !strings.Contains(summary, "Batch complete: 2/3 succeeded") {
		t.Errorf("summary missing totals:\n%s", summary)
	}
	if !strings.Contains(summary, "Report: /out/1/combined_transcript.txt") {
		t.Errorf("summary missing report path:\n%s", summary)
	}
}

func TestBatchProgress_Quiet(t *testing.T) {
	var out bytes.Buffer
	bp := NewBatchProgress(&out, 1, true, false)

	bp.OnTaskEvent(ports.TaskEvent{Index: 0, Total: 1, URL: "u", Status: domain.StatusDone})
	bp.Complete("report.txt")

	if out.Len() != 0 {
		t.Errorf("quiet progress wrote output: %q", out.String())
	}
	if bp.GetSuccessCount() != 1 {
		t.Errorf("GetSuccessCount() = %d, want 1", bp.GetSuccessCount())
	}
}

func TestBatchProgress_InteractiveRedraw(t *testing.T) {
	var out bytes.Buffer
	bp := NewBatchProgress(&out, 2, false, true)

	bp.OnTaskEvent(ports.TaskEvent{Index: 0, Total: 2, URL: "u1", Status: domain.StatusDownloading})
	bp.OnTaskEvent(ports.TaskEvent{Index: 0, Total: 2, URL: "u1", Status: domain.StatusDone})

	got := out.String()
	if !strings.Contains(got, "Transcribing 1/2") {
		t.Errorf("missing header:\n%s", got)
	}
	if !strings.Contains(got, "\033[1A") {
		t.Errorf("second render should move the cursor up over the first:\n%q", got)
	}
}
