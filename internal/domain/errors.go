package domain

import (
	"errors"
	"fmt"
)

var (
	// Batch errors
	ErrEmptyBatch = errors.New("no video URLs provided")

	// Task stage errors, matched through TaskError.Is
	ErrFilesystem    = errors.New("filesystem error")
	ErrDownload      = errors.New("download failed")
	ErrAudioNotFound = errors.New("download produced no audio file")
	ErrTranscode     = errors.New("transcode failed")
	ErrNoMatch       = errors.New("no speech detected")
	ErrCancelled     = errors.New("recognition cancelled")
	ErrBackend       = errors.New("speech backend error")

	// Process errors
	ErrMissingCredential = errors.New("speech subscription key is not configured (set AZURE_SPEECH_KEY)")

	// Cache errors
	ErrCacheExpired = errors.New("cache expired")
	ErrCacheMiss    = errors.New("cache miss")

	// Dependency errors
	ErrYtDlpNotFound  = errors.New("yt-dlp not found")
	ErrFFmpegNotFound = errors.New("ffmpeg not found")
	ErrModelNotFound  = errors.New("model not found")
)

// ErrorKind classifies a task failure so callers can switch on it
// instead of inspecting error strings.
type ErrorKind string

const (
	KindFilesystem    ErrorKind = "filesystem"
	KindDownload      ErrorKind = "download"
	KindAudioNotFound ErrorKind = "audio_not_found"
	KindTranscode     ErrorKind = "transcode"
	KindNoMatch       ErrorKind = "no_match"
	KindCancelled     ErrorKind = "cancelled"
	KindBackend       ErrorKind = "backend"
)

// Sentinel returns the package-level error matching this kind.
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindFilesystem:
		return ErrFilesystem
	case KindDownload:
		return ErrDownload
	case KindAudioNotFound:
		return ErrAudioNotFound
	case KindTranscode:
		return ErrTranscode
	case KindNoMatch:
		return ErrNoMatch
	case KindCancelled:
		return ErrCancelled
	case KindBackend:
		return ErrBackend
	default:
		return nil
	}
}

// TaskError is a stage-aware failure of a single video task. It never
// crosses the task boundary: the orchestrator turns it into a report marker.
type TaskError struct {
	Stage   string    `json:"stage,omitempty"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"` // diagnostic output of the external tool
	Err     error     `json:"-"`
}

// NewTaskError builds a TaskError of the given kind.
func NewTaskError(kind ErrorKind, message string, err error) *TaskError {
	return &TaskError{Kind: kind, Message: message, Err: err}
}

// WithDetail attaches tool diagnostics and returns the same error.
func (e *TaskError) WithDetail(detail string) *TaskError {
	e.Detail = detail
	return e
}

func (e *TaskError) Error() string {
	if e == nil {
		return ""
	}
	if e.Stage == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s/%s: %s", e.Stage, e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *TaskError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is makes errors.Is(err, ErrNoMatch) and friends work for every kind.
func (e *TaskError) Is(target error) bool {
	if e == nil {
		return false
	}
	sentinel := e.Kind.Sentinel()
	return sentinel != nil && sentinel == target
}

// AsTaskError returns err as a *TaskError, wrapping foreign errors with
// the fallback kind.
func AsTaskError(err error, fallback ErrorKind) *TaskError {
	if err == nil {
		return nil
	}
	var taskErr *TaskError
	if errors.As(err, &taskErr) {
		return taskErr
	}
	return NewTaskError(fallback, err.Error(), err)
}
