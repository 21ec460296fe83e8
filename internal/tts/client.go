// Package tts is a small client for the Google Cloud Text-to-Speech REST API.
package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/hastingtx/backend/internal/ratelimit"
)

var ErrNoCredentials = errors.New("tts: API key not configured")

const limiterKey = "tts"

type Client struct {
	apiKey  string
	apiURL  string
	voice   string
	http    *http.Client
	limiter *ratelimit.KeyedLimiter
}

// New creates a TTS client. The limiter throttles outbound synth requests;
// Google caps synthesize calls per minute per project.
func New(apiKey, apiURL, voice string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		apiURL:  apiURL,
		voice:   voice,
		http:    &http.Client{Timeout: timeout},
		limiter: ratelimit.New(5, 7),
	}
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate"`
		Pitch         float64 `json:"pitch"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize renders text to MP3 bytes.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrNoCredentials
	}

	var req synthesizeRequest
	req.Input.Text = text
	req.Voice.LanguageCode = "en-US"
	req.Voice.Name = c.voice
	req.AudioConfig.AudioEncoding = "MP3"
	// Slightly slower for meditation.
	req.AudioConfig.SpeakingRate = 0.95
	req.AudioConfig.Pitch = 0.0

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("tts: marshal request: %w", err)
	}

	if err := c.limiter.Wait(ctx, limiterKey); err != nil {
		return nil, fmt.Errorf("tts: rate limiter: %w", err)
	}

	var audio []byte
	err = retry.Do(
		func() error {
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"?key="+c.apiKey, bytes.NewReader(payload))
			if err != nil {
				return err
			}
			httpReq.Header.Set("Content-Type", "application/json")

			resp, err := c.http.Do(httpReq)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("tts: synthesize returned %d: %s", resp.StatusCode, truncate(string(body), 200))
			}

			var sr synthesizeResponse
			if err := json.Unmarshal(body, &sr); err != nil {
				return fmt.Errorf("tts: decode response: %w", err)
			}
			audio, err = base64.StdEncoding.DecodeString(sr.AudioContent)
			return err
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("tts: after retries: %w", err)
	}
	return audio, nil
}

var (
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// StripHTML flattens stored HTML content to plain text for synthesis.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	clean := tagRe.ReplaceAllString(s, " ")
	clean = unescapeEntities(clean)
	clean = whitespaceRe.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean)
}

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
)

func unescapeEntities(s string) string {
	return entityReplacer.Replace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
