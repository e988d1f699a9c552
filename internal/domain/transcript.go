package domain

import (
	"strings"
	"time"
)

// Segment represents a timed segment of transcribed text
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript represents the full output of a recognizer run
type Transcript struct {
	Text          string    `json:"text"`
	Segments      []Segment `json:"segments"`
	Backend       string    `json:"backend"`
	Language      string    `json:"language"`
	TranscribedAt time.Time `json:"transcribed_at"`
}

// ToText returns plain text concatenation of all segments
func (t *Transcript) ToText() string {
	if t.Text != "" {
		return strings.TrimSpace(t.Text)
	}

	var parts []string
	for _, seg := range t.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" || isNonSpeechToken(text) {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// Result converts the transcript into a recognition result. A transcript
// with no speech is a NoMatch.
func (t *Transcript) Result() RecognitionResult {
	text := t.ToText()
	if text == "" || isNonSpeechToken(text) {
		return NoMatch()
	}
	return Recognized(text)
}

// Whisper marks silence and noise with bracketed tokens such as
// [BLANK_AUDIO] or (music).
func isNonSpeechToken(s string) bool {
	if len(s) < 2 {
		return false
	}
	return (s[0] == '[' && s[len(s)-1] == ']') || (s[0] == '(' && s[len(s)-1] == ')')
}
