package domain

import (
	"bytes"
	"strings"
	"testing"
)

func TestCombinedReport_Format(t *testing.T) {
	r := NewCombinedReport(2)
	r.AddTranscript("https://youtu.be/AAAAAAAAAAA", "hello")
	failure := NewTaskError(KindDownload, "Video unavailable", nil)
	failure.Stage = "downloading"
	r.AddFailure("not a url", failure)

	want := "Transcript for https://youtu.be/AAAAAAAAAAA:\nhello\n\n" +
		"Transcript for not a url:\n[FAILED] downloading/download: Video unavailable\n\n"

	if got := r.Format(); got != want {
		t.Errorf("Format() =\n%q\nwant\n%q", got, want)
	}
	if r.Len() != 2 || r.FailedCount() != 1 {
		t.Errorf("Len() = %d, FailedCount() = %d", r.Len(), r.FailedCount())
	}
}

func TestCombinedReport_NoMatchMarker(t *testing.T) {
	task := NewVideoTask(0, "u")
	_ = task.Transition(StatusDownloading)
	_ = task.Transition(StatusTranscoding)
	_ = task.Transition(StatusTranscribing)
	_ = task.Fail(NoMatch().Err())

	r := NewCombinedReport(1)
	r.AddFailure(task.URL, task.Err)

	want := "[FAILED] transcribing/no_match: no speech detected"
	if got := r.Entries()[0].Body; got != want {
		t.Errorf("Body = %q, want %q", got, want)
	}
}

func TestCombinedReport_NormalizesBody(t *testing.T) {
	r := NewCombinedReport(1)
	r.AddTranscript("u", "\r\n  first line\r\n\r\n\r\n  second line  \n\n")

	if got := r.Entries()[0].Body; got != "first line\n  second line" {
		t.Errorf("Body = %q", got)
	}
}

func TestCombinedReport_URLStaysOnOneLine(t *testing.T) {
	r := NewCombinedReport(1)
	r.AddTranscript("https://a\nb", "x")

	if got := r.Entries()[0].URL; got != "https://a b" {
		t.Errorf("URL = %q", got)
	}
}

func TestParseReport_RoundTrip(t *testing.T) {
	r := NewCombinedReport(4)
	r.AddTranscript("https://youtu.be/AAAAAAAAAAA", "hello\nsecond line")
	r.AddFailure("not a url", &TaskError{Stage: "downloading", Kind: KindDownload, Message: "invalid URL"})
	r.AddTranscript("https://example.com/x:y", "Transcript for fake:\nstill body")
	r.AddTranscript("https://youtu.be/BBBBBBBBBBB", "")

	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}

	entries, err := ParseReport(&buf)
	if err != nil {
		t.Fatalf("ParseReport() error = %v", err)
	}

	want := r.Entries()
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestParseReport_Invalid(t *testing.T) {
	_, err := ParseReport(strings.NewReader("garbage\n"))
	if err == nil {
		t.Error("expected error for input without header")
	}
}

func TestParseReport_Empty(t *testing.T) {
	entries, err := ParseReport(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseReport() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestFormatFailure(t *testing.T) {
	tests := []struct {
		stage string
		kind  ErrorKind
		msg   string
		want  string
	}{
		{"downloading", KindDownload, "boom", "[FAILED] downloading/download: boom"},
		{"", KindBackend, "boom", "[FAILED] backend: boom"},
		{"workspace", "", "boom", "[FAILED] workspace: boom"},
		{"", "", "boom", "[FAILED] boom"},
	}

	for _, tt := range tests {
		if got := FormatFailure(tt.stage, tt.kind, tt.msg); got != tt.want {
			t.Errorf("FormatFailure(%q, %q, %q) = %q, want %q", tt.stage, tt.kind, tt.msg, got, tt.want)
		}
	}
}
