package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const baseURL = "https://hastingtx.org"

func TestDayEmailBodies(t *testing.T) {
	day := DayEmail{
		ThreadIdentifier:    "grace-01",
		ThreadTitle:         "Grace & Truth",
		DayNumber:           2,
		TotalDays:           3,
		Title:               "Walking in Grace",
		ScriptureReference:  "John 1:14",
		ScriptureText:       "The Word became flesh...",
		Content:             "<p>Today we consider grace.</p>",
		ReflectionQuestions: "What does grace mean to you?\nWhere have you seen it?",
		Prayer:              "Lord, teach us grace.",
		HasAudio:            true,
		UnsubscribeToken:    "tok123",
		RecipientName:       "Ann",
	}

	html := day.html(baseURL)
	assert.Contains(t, html, "Day 2 of 3")
	assert.Contains(t, html, "Hello Ann,")
	assert.Contains(t, html, "Grace &amp; Truth")
	assert.Contains(t, html, "<p>Today we consider grace.</p>")
	assert.Contains(t, html, baseURL+"/devotionals/grace-01/day/2")
	assert.Contains(t, html, baseURL+"/devotionals/unsubscribe/tok123")
	assert.Contains(t, html, "Listen to Audio Version")
	assert.Contains(t, html, "What does grace mean to you?<br>Where have you seen it?")

	text := day.text(baseURL)
	assert.Contains(t, text, "Day 2 of 3: Grace & Truth")
	assert.Contains(t, text, "Today we consider grace.")
	assert.NotContains(t, text, "<p>")
	assert.Contains(t, text, "Unsubscribe: "+baseURL+"/devotionals/unsubscribe/tok123")
}

func TestDayEmailOmitsEmptySections(t *testing.T) {
	day := DayEmail{
		ThreadIdentifier: "grace-01",
		ThreadTitle:      "Grace",
		DayNumber:        1,
		TotalDays:        3,
		Title:            "Start",
		Content:          "<p>hi</p>",
		UnsubscribeToken: "tok",
	}

	html := day.html(baseURL)
	assert.NotContains(t, html, "scripture-ref")
	assert.NotContains(t, html, "Reflection Questions")
	assert.NotContains(t, html, "Prayer:")
	assert.NotContains(t, html, "Listen to Audio Version")
	assert.Contains(t, html, "Hello,")
}

func TestSyncBodies(t *testing.T) {
	html := syncHTML(baseURL, "sync-tok")
	assert.Contains(t, html, baseURL+"/devotionals/sync/sync-tok")
	assert.Contains(t, html, "Access My Progress")
	assert.Contains(t, html, baseURL+"/devotionals/unsubscribe/sync-tok")

	text := syncText(baseURL, "sync-tok")
	assert.Contains(t, text, baseURL+"/devotionals/sync/sync-tok")
	assert.Contains(t, text, "keep it private")
}

func TestDigestBodies(t *testing.T) {
	threads := []DigestThread{
		{Identifier: "hope-01", Title: "Hope <Rising>", Author: "R. Hasting", TotalDays: 5, Description: "A week of hope."},
		{Identifier: "peace-01", Title: "Peace", TotalDays: 7},
	}

	html := digestHTML(baseURL, threads, "tok")
	assert.Contains(t, html, "Hope &lt;Rising&gt;")
	assert.Contains(t, html, baseURL+"/devotionals/hope-01")
	assert.Contains(t, html, "7 days")

	text := digestText(baseURL, threads, "tok")
	assert.Contains(t, text, "Hope <Rising> (5 days)")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), baseURL+"/devotionals/unsubscribe/tok"))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "hello world", stripTags("<p>hello <b>world</b></p>"))
}
