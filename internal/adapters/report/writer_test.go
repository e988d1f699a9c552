package report

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/devbush/tubescribe/internal/domain"
)

func sampleReport() *domain.CombinedReport {
	r := domain.NewCombinedReport(3)
	r.AddTranscript("https://youtu.be/AAAAAAAAAAA", "hello")
	r.AddFailure("not a url", &domain.TaskError{Stage: "downloading", Kind: domain.KindDownload, Message: "invalid URL"})
	r.AddTranscript("https://youtu.be/BBBBBBBBBBB", "world\nsecond line")
	return r
}

func TestWriter_Write(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs)
	_ = fs.MkdirAll("/out/b1", 0755)

	path, err := w.Write("/out/b1", sampleReport())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if path != filepath.Join("/out/b1", domain.ReportFileName) {
		t.Errorf("path = %q", path)
	}

	data, _ := afero.ReadFile(fs, path)
	want := "Transcript for https://youtu.be/AAAAAAAAAAA:\nhello\n\n" +
		"Transcript for not a url:\n[FAILED] downloading/download: invalid URL\n\n" +
		"Transcript for https://youtu.be/BBBBBBBBBBB:\nworld\nsecond line\n\n"
	if string(data) != want {
		t.Errorf("file =\n%q\nwant\n%q", data, want)
	}

	if ok, _ := afero.Exists(fs, path+".tmp"); ok {
		t.Error("temporary file left behind")
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs)
	report := sampleReport()

	path, err := w.Write("/out", report)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	entries, err := w.Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := report.Entries()
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestWriter_Write_ReadOnly(t *testing.T) {
	w := NewWriter(afero.NewReadOnlyFs(afero.NewMemMapFs()))

	_, err := w.Write("/out", sampleReport())
	if !errors.Is(err, domain.ErrFilesystem) {
		t.Errorf("Write() error = %v, want ErrFilesystem", err)
	}
}

func TestWriter_WriteSummary(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs)

	summary := &domain.BatchSummary{
		ID:        "b1",
		Total:     2,
		Succeeded: 1,
		Failed:    1,
		Tasks: []domain.TaskSummary{
			{Index: 0, URL: "u0", Status: domain.StatusDone},
			{Index: 1, URL: "u1", Status: domain.StatusFailed, ErrorKind: domain.KindNoMatch},
		},
	}

	path, err := w.WriteSummary("/out/b1", summary)
	if err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	data, _ := afero.ReadFile(fs, path)
	var decoded domain.BatchSummary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid summary JSON: %v", err)
	}
	if decoded.Tasks[1].ErrorKind != domain.KindNoMatch {
		t.Errorf("decoded = %+v", decoded.Tasks[1])
	}
	if !strings.Contains(string(data), `"error_kind": "no_match"`) {
		t.Errorf("summary missing error kind:\n%s", data)
	}
}

func TestWriter_WriteTranscript(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs)

	path, err := w.WriteTranscript("/out/b1/task-0001", "  hello world \n")
	if err != nil {
		t.Fatalf("WriteTranscript() error = %v", err)
	}
	data, _ := afero.ReadFile(fs, path)
	if string(data) != "hello world\n" {
		t.Errorf("transcript = %q", data)
	}
}

func TestDocxRenderer_Render(t *testing.T) {
	dir := t.TempDir()

	path, err := NewDocxRenderer("").Render(dir, sampleReport())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if filepath.Base(path) != DocxFileName {
		t.Errorf("path = %q", path)
	}

	data, err := afero.ReadFile(afero.NewOsFs(), path)
	if err != nil {
		t.Fatalf("docx not written: %v", err)
	}
	if len(data) < 4 || string(data[:2]) != "PK" {
		t.Error("docx should be a zip archive")
	}
}
