package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "hello world", "hello world"},
		{"tags removed", "<p>hello <b>world</b></p>", "hello world"},
		{"entities", "grace &amp; truth", "grace & truth"},
		{"whitespace collapsed", "a\n\n  b\tc", "a b c"},
		{"nested markup", `<div class="x"><span>day</span> one</div>`, "day one"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}

func TestSynthesizeRequiresKey(t *testing.T) {
	c := New("", "http://unused", "en-US-Neural2-D", time.Second)
	_, err := c.Synthesize(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestSynthesizeDecodesAudio(t *testing.T) {
	want := []byte("mp3-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req synthesizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Input.Text)
		assert.Equal(t, "MP3", req.AudioConfig.AudioEncoding)
		assert.InDelta(t, 0.95, req.AudioConfig.SpeakingRate, 0.001)

		json.NewEncoder(w).Encode(synthesizeResponse{
			AudioContent: base64.StdEncoding.EncodeToString(want),
		})
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, "en-US-Neural2-D", time.Second)
	got, err := c.Synthesize(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSynthesizeSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, "en-US-Neural2-D", time.Second)
	_, err := c.Synthesize(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
