// Package azure implements speech recognition against the Azure Speech
// short-audio REST API.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/devbush/tubescribe/internal/config"
	"github.com/devbush/tubescribe/internal/domain"
	"github.com/devbush/tubescribe/internal/logger"
	"github.com/devbush/tubescribe/internal/ports"
)

const (
	// Issued tokens are valid for 10 minutes.
	tokenTTL       = 9 * time.Minute
	tokenCacheSize = 16

	// maxBodyDetail bounds how much of an error response ends up in reports.
	maxBodyDetail = 512

	audioContentType = "audio/wav; codecs=audio/pcm; samplerate=16000"
)

// Recognition statuses returned by the short-audio endpoint.
const (
	statusSuccess               = "Success"
	statusNoMatch               = "NoMatch"
	statusInitialSilenceTimeout = "InitialSilenceTimeout"
	statusBabbleTimeout         = "BabbleTimeout"
	statusError                 = "Error"
)

// Client submits WAV files to Azure Speech.
type Client struct {
	cfg    config.SpeechConfig
	http   *http.Client
	log    logger.Logger
	tokens *expirable.LRU[string, string]

	// tokenLock serializes token requests; a one-slot channel so waiters
	// can give up when their context ends.
	tokenLock chan struct{}
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a speech client. A missing subscription key is a
// configuration error reported as domain.ErrMissingCredential.
func NewClient(cfg config.SpeechConfig, opts ...Option) (*Client, error) {
	if err := cfg.RequireKey(); err != nil {
		return nil, err
	}
	if cfg.Region == "" {
		cfg.Region = "westeurope"
	}
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}

	c := &Client{
		cfg:       cfg,
		http:      &http.Client{},
		log:       logger.NewNop(),
		tokens:    expirable.NewLRU[string, string](tokenCacheSize, nil, tokenTTL),
		tokenLock: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Name() string {
	return config.BackendAzure
}

func (c *Client) recognitionURL() string {
	base := c.cfg.Endpoint
	if base == "" {
		base = fmt.Sprintf("https://%s.stt.speech.microsoft.com/speech/recognition/conversation/cognitiveservices/v1", c.cfg.Region)
	}
	q := url.Values{}
	q.Set("language", c.cfg.Language)
	q.Set("format", "simple")
	return base + "?" + q.Encode()
}

func (c *Client) tokenURL() string {
	if c.cfg.TokenEndpoint != "" {
		return c.cfg.TokenEndpoint
	}
	return fmt.Sprintf("https://%s.api.cognitive.microsoft.com/sts/v1.0/issueToken", c.cfg.Region)
}

func (c *Client) tokenKey() string {
	return c.cfg.Region + "|" + c.cfg.Key
}

// authError is returned when the service rejects the credentials.
type authError struct {
	status int
	body   string
}

func (e *authError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.status, e.body)
}

// token returns a cached bearer token or issues a new one.
func (c *Client) token(ctx context.Context) (string, error) {
	key := c.tokenKey()
	if tok, ok := c.tokens.Get(key); ok {
		return tok, nil
	}

	select {
	case c.tokenLock <- struct{}{}:
		defer func() { <-c.tokenLock }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	// Another worker may have fetched it while we waited.
	if tok, ok := c.tokens.Get(key); ok {
		return tok, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.Key)
	req.Header.Set("Content-Length", "0")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", &authError{status: resp.StatusCode, body: truncate(string(body))}
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("token request failed: HTTP %d: %s", resp.StatusCode, truncate(string(body)))
	}

	tok := strings.TrimSpace(string(body))
	if tok == "" {
		return "", fmt.Errorf("token request returned an empty token")
	}
	c.tokens.Add(key, tok)
	return tok, nil
}

type recognitionResponse struct {
	RecognitionStatus string `json:"RecognitionStatus"`
	DisplayText       string `json:"DisplayText"`
	Offset            int64  `json:"Offset"`
	Duration          int64  `json:"Duration"`
}

// Transcribe sends one WAV file for single-shot recognition.
func (c *Client) Transcribe(ctx context.Context, wavPath string) domain.RecognitionResult {
	audio, err := os.ReadFile(wavPath)
	if err != nil {
		return domain.BackendError(fmt.Sprintf("cannot read audio: %v", err))
	}

	tok, err := c.token(ctx)
	if err != nil {
		return c.failure(ctx, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.recognitionURL(), bytes.NewReader(audio))
	if err != nil {
		return domain.BackendError(fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", audioContentType)
	req.Header.Set("Accept", "application/json")

	c.log.Debug(ctx, "submitting audio", "backend", c.Name(), "bytes", len(audio), "language", c.cfg.Language)

	resp, err := c.http.Do(req)
	if err != nil {
		return c.failure(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.failure(ctx, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.tokens.Remove(c.tokenKey())
		return domain.Cancelled("AuthenticationFailure", fmt.Sprintf("HTTP %d: %s", resp.StatusCode, truncate(string(body))))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return domain.BackendError(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, truncate(string(body))))
	}

	var rr recognitionResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return domain.BackendError(fmt.Sprintf("invalid response: %v", err))
	}

	switch rr.RecognitionStatus {
	case statusSuccess:
		text := strings.TrimSpace(rr.DisplayText)
		if text == "" {
			return domain.NoMatch()
		}
		return domain.Recognized(text)
	case statusNoMatch, statusInitialSilenceTimeout, statusBabbleTimeout:
		return domain.NoMatch()
	case statusError:
		return domain.Cancelled(statusError, "the recognition service encountered an internal error")
	default:
		return domain.BackendError(fmt.Sprintf("unexpected recognition status %q", rr.RecognitionStatus))
	}
}

// failure maps transport and token errors onto recognition results.
func (c *Client) failure(ctx context.Context, err error) domain.RecognitionResult {
	var ae *authError
	switch {
	case errors.As(err, &ae):
		return domain.Cancelled("AuthenticationFailure", ae.Error())
	case errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
		return domain.Cancelled("Timeout", "recognition did not finish before the task deadline")
	case errors.Is(ctx.Err(), context.Canceled):
		return domain.Cancelled("Cancelled", "batch cancelled")
	default:
		return domain.BackendError(err.Error())
	}
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxBodyDetail {
		return s
	}
	cut := maxBodyDetail
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// Ensure Client implements interfaces
var _ ports.Transcriber = (*Client)(nil)
