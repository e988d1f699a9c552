package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReportShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "combined_transcript.txt")
	content := "Transcript for https://youtu.be/AAAAAAAAAAA:\nhello there\nsecond line\n\n" +
		"Transcript for not a url:\n[FAILED] downloading/download: unsupported URL\n\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"report", "show", path})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("report show error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"AAAAAAAAAAA", "hello there", "FAILED", "not a url", "2 entries, 1 failed"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "second line") {
		t.Errorf("summary should only preview the first line:\n%s", got)
	}
}

func TestReportShow_MissingFile(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"report", "show", filepath.Join(t.TempDir(), "missing.txt")})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for a missing report")
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	defer func() { configFlag = "" }()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "init", "--config", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "backend: azure") {
		t.Errorf("unexpected config:\n%s", data)
	}

	cmd = NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--config", path})
	if err := cmd.Execute(); err == nil {
		t.Error("second init without --force should fail")
	}
}
