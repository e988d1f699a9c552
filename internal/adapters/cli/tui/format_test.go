package tui

import (
	"testing"
	"time"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{462 * 1024 * 1024, "462.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if result := FormatSize(tt.input); result != tt.expected {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{0, "0.0s"},
		{850 * time.Millisecond, "0.8s"},
		{12300 * time.Millisecond, "12.3s"},
		{75 * time.Second, "1m15s"},
		{2*time.Hour + 400*time.Millisecond, "2h0m0s"},
	}

	for _, tt := range tests {
		if result := FormatDuration(tt.input); result != tt.expected {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestTaskLabel(t *testing.T) {
	tests := []struct {
		url      string
		maxLen   int
		expected string
	}{
		{"https://youtu.be/AAAAAAAAAAA", 20, "AAAAAAAAAAA"},
		{"https://www.youtube.com/watch?v=BBBBBBBBBBB&t=10", 20, "BBBBBBBBBBB"},
		{"not a url", 20, "not a url"},
		{"https://example.com/a/very/long/path/to/media", 20, "https://example.c..."},
	}

	for _, tt := range tests {
		if result := TaskLabel(tt.url, tt.maxLen); result != tt.expected {
			t.Errorf("TaskLabel(%q) = %q, want %q", tt.url, result, tt.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate() = %q, want short", got)
	}
	if got := Truncate("héllo wörld", 8); got != "héllo..." {
		t.Errorf("Truncate() = %q, want héllo...", got)
	}
}
