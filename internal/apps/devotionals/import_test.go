package devotionals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() *ImportThreadPayload {
	return &ImportThreadPayload{
		ThreadTitle: "Streams in the Desert",
		Days: []ImportDayPayload{
			{Day: 1, Title: "First Waters", Devotional: "Opening text."},
			{Day: 2, Title: "Deeper Still", Devotional: "Second text."},
		},
	}
}

func TestValidateImport(t *testing.T) {
	require.NoError(t, validateImport(validPayload()))

	p := validPayload()
	p.ThreadTitle = "  "
	assert.ErrorContains(t, validateImport(p), "thread_title")

	p = validPayload()
	p.Days = nil
	assert.ErrorContains(t, validateImport(p), "at least one day")

	p = validPayload()
	p.Days[1].Day = 1
	assert.ErrorContains(t, validateImport(p), "duplicate day number")

	p = validPayload()
	p.Days[1].Day = 3
	assert.ErrorContains(t, validateImport(p), "missing day 2")

	p = validPayload()
	p.Days[0].Day = 0
	assert.ErrorContains(t, validateImport(p), "must be positive")

	p = validPayload()
	p.Days[0].Title = ""
	assert.ErrorContains(t, validateImport(p), "title is required")

	p = validPayload()
	p.Days[1].Devotional = ""
	assert.ErrorContains(t, validateImport(p), "devotional text is required")
}

func TestTextToHTML(t *testing.T) {
	assert.Equal(t, "", textToHTML("   "))

	// Blank-line separated blocks become paragraphs.
	got := textToHTML("First paragraph.\n\nSecond paragraph.")
	assert.Equal(t, "<p>First paragraph.</p>\n<p>Second paragraph.</p>", got)

	// Single newlines inside a block become line breaks.
	got = textToHTML("Line one\nLine two")
	assert.Equal(t, "<p>Line one<br>\nLine two</p>", got)

	// Special characters are escaped.
	got = textToHTML("Faith & hope < love")
	assert.Equal(t, "<p>Faith &amp; hope &lt; love</p>", got)

	// Already-HTML content passes through untouched.
	html := "<p>Already formatted.</p>"
	assert.Equal(t, html, textToHTML(html))

	// Windows line endings are normalized.
	got = textToHTML("One.\r\n\r\nTwo.")
	assert.Equal(t, "<p>One.</p>\n<p>Two.</p>", got)
}
