package devotionals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSpeechText(t *testing.T) {
	d := &Devotional{
		Title:               "The Narrow Gate",
		ScriptureReference:  "Matthew 7:13-14",
		ScriptureText:       "Enter through the narrow gate.",
		Content:             "<p>Today we consider the <em>narrow</em> way.</p>",
		ReflectionQuestions: "What gates have you chosen?",
		Prayer:              "Lord, guide our steps.",
	}

	got := buildSpeechText(d)
	assert.Contains(t, got, "The Narrow Gate")
	assert.Contains(t, got, "From Matthew 7:13-14.")
	assert.Contains(t, got, "Enter through the narrow gate.")
	assert.Contains(t, got, "Today we consider the narrow way.")
	assert.Contains(t, got, "Questions for reflection.")
	assert.Contains(t, got, "Let us pray.")
	assert.NotContains(t, got, "<p>")
	assert.NotContains(t, got, "<em>")
}

func TestBuildSpeechTextOmitsEmptySections(t *testing.T) {
	d := &Devotional{
		Title:   "Short Day",
		Content: "Body only.",
	}

	got := buildSpeechText(d)
	assert.Equal(t, "Short Day\n\nBody only.", got)
	assert.NotContains(t, got, "From ")
	assert.NotContains(t, got, "Questions for reflection.")
	assert.NotContains(t, got, "Let us pray.")
}
