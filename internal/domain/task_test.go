package domain

import (
	"errors"
	"testing"
	"time"
)

func TestVideoTask_Transition(t *testing.T) {
	tests := []struct {
		name    string
		path    []TaskStatus
		wantErr bool
	}{
		{
			name: "happy path",
			path: []TaskStatus{StatusDownloading, StatusTranscoding, StatusTranscribing, StatusDone},
		},
		{
			name: "cache hit",
			path: []TaskStatus{StatusDone},
		},
		{
			name: "fail while downloading",
			path: []TaskStatus{StatusDownloading, StatusFailed},
		},
		{
			name: "fail before start",
			path: []TaskStatus{StatusFailed},
		},
		{
			name:    "skip transcoding",
			path:    []TaskStatus{StatusDownloading, StatusTranscribing},
			wantErr: true,
		},
		{
			name:    "leave done",
			path:    []TaskStatus{StatusDone, StatusFailed},
			wantErr: true,
		},
		{
			name:    "restart failed",
			path:    []TaskStatus{StatusFailed, StatusDownloading},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := NewVideoTask(0, "https://youtu.be/AAAAAAAAAAA")
			var err error
			for _, s := range tt.path {
				if err = task.Transition(s); err != nil {
					break
				}
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("Transition() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewVideoTask_UniqueIDs(t *testing.T) {
	a := NewVideoTask(0, "same")
	b := NewVideoTask(1, "same")

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if a.Status != StatusPending {
		t.Errorf("Status = %v, want pending", a.Status)
	}
}

func TestVideoTask_Fail_SetsStage(t *testing.T) {
	task := NewVideoTask(0, "u")
	_ = task.Transition(StatusDownloading)
	_ = task.Transition(StatusTranscoding)

	if err := task.Fail(NewTaskError(KindTranscode, "ffmpeg exited with 1", nil)); err != nil {
		t.Fatalf("Fail() error = %v", err)
	}
	if task.Status != StatusFailed {
		t.Errorf("Status = %v, want failed", task.Status)
	}
	if task.Err.Stage != "transcoding" {
		t.Errorf("Stage = %q, want transcoding", task.Err.Stage)
	}
	if !errors.Is(task.Err, ErrTranscode) {
		t.Error("expected errors.Is(err, ErrTranscode)")
	}
}

func TestVideoTask_Fail_PendingUsesWorkspaceStage(t *testing.T) {
	task := NewVideoTask(0, "u")
	if err := task.Fail(NewTaskError(KindFilesystem, "mkdir failed", nil)); err != nil {
		t.Fatalf("Fail() error = %v", err)
	}
	if task.Err.Stage != StageWorkspace {
		t.Errorf("Stage = %q, want %q", task.Err.Stage, StageWorkspace)
	}
}

func TestVideoTask_Complete_RequiresTranscribing(t *testing.T) {
	task := NewVideoTask(0, "u")
	_ = task.Transition(StatusDownloading)

	if err := task.Complete("hello"); err == nil {
		t.Error("expected error completing a downloading task")
	}
	if task.Transcript != "" {
		t.Errorf("Transcript = %q, want empty", task.Transcript)
	}
}

func TestVideoTask_Duration(t *testing.T) {
	task := NewVideoTask(0, "u")
	if task.Duration() != 0 {
		t.Error("expected zero duration for unstarted task")
	}

	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	task.StartedAt = start
	task.FinishedAt = start.Add(90 * time.Second)
	if task.Duration() != 90*time.Second {
		t.Errorf("Duration() = %v, want 90s", task.Duration())
	}
}
