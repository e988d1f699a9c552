package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// Video identifies a remote video by its platform id when one can be
// recognized. It is used for display only; the downloader decides what
// it can fetch.
type Video struct {
	ID  string
	URL string
}

// Label returns a short name for progress lines and summaries.
func (v *Video) Label() string {
	if v.ID != "" {
		return v.ID
	}
	return v.URL
}

// WatchURL builds the canonical YouTube watch URL for the video.
func (v *Video) WatchURL() string {
	if v.ID == "" {
		return v.URL
	}
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", v.ID)
}

var (
	// Matches youtu.be/ID, /shorts/ID, /embed/ID, /live/ID and /v/ID
	videoPathPattern = regexp.MustCompile(`(?:youtu\.be/|youtube\.com/(?:shorts|embed|live|v)/)([A-Za-z0-9_-]{11})`)
	// Valid video ID pattern (11 chars of alphanumeric, dash, underscore)
	videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ParseVideoURL extracts a Video from a YouTube URL or a bare video ID.
func ParseVideoURL(input string) (*Video, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}

	if matches := videoPathPattern.FindStringSubmatch(input); len(matches) > 1 {
		return &Video{ID: matches[1], URL: input}, nil
	}

	if u, err := url.Parse(input); err == nil && strings.Contains(u.Host, "youtube.com") {
		if id := u.Query().Get("v"); videoIDPattern.MatchString(id) {
			return &Video{ID: id, URL: input}, nil
		}
	}

	if videoIDPattern.MatchString(input) {
		return &Video{ID: input}, nil
	}

	return nil, fmt.Errorf("invalid video URL or ID: %s", input)
}

// ValidateSourceURL checks the minimum shape of a URL handed to the
// downloader: non-empty after trimming and free of control characters.
func ValidateSourceURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("empty URL")
	}
	for _, r := range raw {
		if unicode.IsControl(r) {
			return fmt.Errorf("URL contains control character %q", r)
		}
	}
	return nil
}
