package domain

import "fmt"

// RecognitionOutcome identifies which variant of RecognitionResult is populated.
type RecognitionOutcome int

const (
	OutcomeRecognized RecognitionOutcome = iota
	OutcomeNoMatch
	OutcomeCancelled
	OutcomeBackendError
)

func (o RecognitionOutcome) String() string {
	switch o {
	case OutcomeRecognized:
		return "recognized"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeBackendError:
		return "backend_error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// RecognitionResult is the outcome of one recognition attempt. Use the
// constructors below; exactly one variant is populated.
type RecognitionResult struct {
	Outcome RecognitionOutcome
	Text    string // Recognized
	Reason  string // Cancelled
	Detail  string // Cancelled, BackendError
}

// Recognized returns a successful result carrying text.
func Recognized(text string) RecognitionResult {
	return RecognitionResult{Outcome: OutcomeRecognized, Text: text}
}

// NoMatch returns the "no speech could be recognized" result.
func NoMatch() RecognitionResult {
	return RecognitionResult{Outcome: OutcomeNoMatch}
}

// Cancelled returns a cancellation result with the backend's reason and detail.
func Cancelled(reason, detail string) RecognitionResult {
	return RecognitionResult{Outcome: OutcomeCancelled, Reason: reason, Detail: detail}
}

// BackendError returns a transport or backend failure result.
func BackendError(detail string) RecognitionResult {
	return RecognitionResult{Outcome: OutcomeBackendError, Detail: detail}
}

// OK reports whether speech was recognized.
func (r RecognitionResult) OK() bool {
	return r.Outcome == OutcomeRecognized
}

// Err converts a non-recognized result into a task error. It returns nil
// for Recognized.
func (r RecognitionResult) Err() *TaskError {
	switch r.Outcome {
	case OutcomeRecognized:
		return nil
	case OutcomeNoMatch:
		return NewTaskError(KindNoMatch, "no speech detected", nil)
	case OutcomeCancelled:
		msg := "recognition cancelled: " + r.Reason
		if r.Detail != "" {
			msg += " - " + r.Detail
		}
		return NewTaskError(KindCancelled, msg, nil).WithDetail(r.Detail)
	default:
		return NewTaskError(KindBackend, "error during recognition: "+r.Detail, nil).WithDetail(r.Detail)
	}
}
