package mailer

import (
	"fmt"
	"strings"
)

// DayEmail carries everything needed to render one devotional day email.
type DayEmail struct {
	ThreadIdentifier    string
	ThreadTitle         string
	DayNumber           int
	TotalDays           int
	Title               string
	ScriptureReference  string
	ScriptureText       string
	Content             string
	ReflectionQuestions string
	Prayer              string
	HasAudio            bool
	UnsubscribeToken    string
	RecipientName       string
}

// DigestThread is one entry in a new-series digest email.
type DigestThread struct {
	Identifier  string
	Title       string
	Description string
	Author      string
	TotalDays   int
}

func (d DayEmail) dayURL(baseURL string) string {
	return fmt.Sprintf("%s/devotionals/%s/day/%d", baseURL, d.ThreadIdentifier, d.DayNumber)
}

func unsubscribeURL(baseURL, token string) string {
	return fmt.Sprintf("%s/devotionals/unsubscribe/%s", baseURL, token)
}

func syncURL(baseURL, token string) string {
	return fmt.Sprintf("%s/devotionals/sync/%s", baseURL, token)
}

func (d DayEmail) html(baseURL string) string {
	greeting := "Hello,"
	if d.RecipientName != "" {
		greeting = fmt.Sprintf("Hello %s,", escapeHTML(d.RecipientName))
	}

	var b strings.Builder
	writeHTMLHead(&b)
	b.WriteString("<div class=\"header\">\n<h1>Pull The Thread</h1>\n")
	fmt.Fprintf(&b, "<p class=\"day-indicator\">Day %d of %d: %s</p>\n</div>\n", d.DayNumber, d.TotalDays, escapeHTML(d.ThreadTitle))
	fmt.Fprintf(&b, "<p>%s</p>\n", greeting)
	fmt.Fprintf(&b, "<h2>%s</h2>\n", escapeHTML(d.Title))

	if d.ScriptureReference != "" {
		b.WriteString("<div class=\"scripture\">\n")
		fmt.Fprintf(&b, "<p class=\"scripture-ref\">%s</p>\n", escapeHTML(d.ScriptureReference))
		fmt.Fprintf(&b, "<p>%s</p>\n</div>\n", escapeHTML(d.ScriptureText))
	}

	// Content is stored as sanitized HTML; render it as-is.
	fmt.Fprintf(&b, "<div class=\"content\">\n%s\n</div>\n", d.Content)

	if d.ReflectionQuestions != "" {
		fmt.Fprintf(&b, "<div class=\"reflection\">\n<h3>Reflection Questions</h3>\n%s\n</div>\n",
			nl2br(escapeHTML(d.ReflectionQuestions)))
	}
	if d.Prayer != "" {
		fmt.Fprintf(&b, "<div class=\"prayer\">\n<strong>Prayer:</strong><br>\n%s\n</div>\n",
			nl2br(escapeHTML(d.Prayer)))
	}
	if d.HasAudio {
		fmt.Fprintf(&b, "<div class=\"cta\">\n<a href=\"%s\">Listen to Audio Version</a>\n</div>\n", d.dayURL(baseURL))
	}
	fmt.Fprintf(&b, "<div class=\"cta\">\n<a href=\"%s\">Read Online</a>\n</div>\n", d.dayURL(baseURL))

	b.WriteString("<div class=\"footer\">\n")
	fmt.Fprintf(&b, "<p>You're receiving this because you subscribed to \"%s\" on hastingtx.org</p>\n", escapeHTML(d.ThreadTitle))
	fmt.Fprintf(&b, "<p><a href=\"%s\">Unsubscribe</a> from devotional emails</p>\n</div>\n", unsubscribeURL(baseURL, d.UnsubscribeToken))
	b.WriteString("</body>\n</html>")
	return b.String()
}

func (d DayEmail) text(baseURL string) string {
	var b strings.Builder
	b.WriteString("PULL THE THREAD\n")
	fmt.Fprintf(&b, "Day %d of %d: %s\n\n", d.DayNumber, d.TotalDays, d.ThreadTitle)
	fmt.Fprintf(&b, "%s\n%s\n\n", d.Title, strings.Repeat("=", len(d.Title)))

	if d.ScriptureReference != "" {
		fmt.Fprintf(&b, "Scripture: %s\n%s\n\n", d.ScriptureReference, d.ScriptureText)
	}
	fmt.Fprintf(&b, "%s\n\n", stripTags(d.Content))
	if d.ReflectionQuestions != "" {
		fmt.Fprintf(&b, "REFLECTION QUESTIONS\n%s\n\n", d.ReflectionQuestions)
	}
	if d.Prayer != "" {
		fmt.Fprintf(&b, "PRAYER\n%s\n\n", d.Prayer)
	}
	fmt.Fprintf(&b, "---\nRead online: %s\nUnsubscribe: %s\n", d.dayURL(baseURL), unsubscribeURL(baseURL, d.UnsubscribeToken))
	return b.String()
}

func syncHTML(baseURL, token string) string {
	var b strings.Builder
	writeHTMLHead(&b)
	b.WriteString("<div class=\"header\">\n<h1>Pull The Thread</h1>\n<p>Your Progress Sync Link</p>\n</div>\n")
	b.WriteString("<div class=\"content\">\n<p>Hello,</p>\n<p>Here's your personal link to access your devotional progress from any device:</p>\n</div>\n")
	fmt.Fprintf(&b, "<div class=\"cta\">\n<a href=\"%s\">Access My Progress</a>\n</div>\n", syncURL(baseURL, token))
	b.WriteString("<div class=\"note\">\n<strong>Save this email!</strong> You can use this link anytime to:\n<ul>\n")
	b.WriteString("<li>Continue your devotionals on a new device</li>\n")
	b.WriteString("<li>Restore your progress if you clear your browser</li>\n")
	b.WriteString("<li>Switch between your phone and computer</li>\n</ul>\n</div>\n")
	b.WriteString("<div class=\"content\">\n<p>This link is unique to you. Anyone with this link can access your progress, so keep it private.</p>\n</div>\n")
	b.WriteString("<div class=\"footer\">\n<p>You'll also receive notifications when new devotional series are available.</p>\n")
	fmt.Fprintf(&b, "<p><a href=\"%s\">Unsubscribe</a> from emails</p>\n</div>\n", unsubscribeURL(baseURL, token))
	b.WriteString("</body>\n</html>")
	return b.String()
}

func syncText(baseURL, token string) string {
	var b strings.Builder
	b.WriteString("PULL THE THREAD\nYour Progress Sync Link\n\nHello,\n\n")
	b.WriteString("Here's your personal link to access your devotional progress from any device:\n\n")
	fmt.Fprintf(&b, "%s\n\n", syncURL(baseURL, token))
	b.WriteString("SAVE THIS EMAIL! You can use this link anytime to:\n")
	b.WriteString("- Continue your devotionals on a new device\n")
	b.WriteString("- Restore your progress if you clear your browser\n")
	b.WriteString("- Switch between your phone and computer\n\n")
	b.WriteString("This link is unique to you. Anyone with this link can access your progress, so keep it private.\n\n")
	fmt.Fprintf(&b, "---\nUnsubscribe: %s\n", unsubscribeURL(baseURL, token))
	return b.String()
}

func digestHTML(baseURL string, threads []DigestThread, token string) string {
	var b strings.Builder
	writeHTMLHead(&b)
	b.WriteString("<div class=\"header\">\n<h1>Pull The Thread</h1>\n<p>New Devotional Series</p>\n</div>\n")
	b.WriteString("<div class=\"content\">\n<p>Hello,</p>\n<p>New devotional series are available:</p>\n</div>\n")
	for _, t := range threads {
		b.WriteString("<div class=\"note\">\n")
		fmt.Fprintf(&b, "<h3><a href=\"%s/devotionals/%s\">%s</a></h3>\n", baseURL, t.Identifier, escapeHTML(t.Title))
		if t.Author != "" {
			fmt.Fprintf(&b, "<p>by %s &bull; %d days</p>\n", escapeHTML(t.Author), t.TotalDays)
		} else {
			fmt.Fprintf(&b, "<p>%d days</p>\n", t.TotalDays)
		}
		if t.Description != "" {
			fmt.Fprintf(&b, "<p>%s</p>\n", escapeHTML(t.Description))
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("<div class=\"footer\">\n")
	fmt.Fprintf(&b, "<p><a href=\"%s\">Unsubscribe</a> from devotional emails</p>\n</div>\n", unsubscribeURL(baseURL, token))
	b.WriteString("</body>\n</html>")
	return b.String()
}

func digestText(baseURL string, threads []DigestThread, token string) string {
	var b strings.Builder
	b.WriteString("PULL THE THREAD\nNew Devotional Series\n\n")
	for _, t := range threads {
		fmt.Fprintf(&b, "%s (%d days)\n%s/devotionals/%s\n", t.Title, t.TotalDays, baseURL, t.Identifier)
		if t.Description != "" {
			fmt.Fprintf(&b, "%s\n", t.Description)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "---\nUnsubscribe: %s\n", unsubscribeURL(baseURL, token))
	return b.String()
}

func writeHTMLHead(b *strings.Builder) {
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n<style>\n")
	b.WriteString("body { font-family: Georgia, serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }\n")
	b.WriteString(".header { text-align: center; border-bottom: 2px solid #8B4513; padding-bottom: 20px; margin-bottom: 20px; }\n")
	b.WriteString(".header h1 { color: #8B4513; margin: 0; }\n")
	b.WriteString(".day-indicator { color: #666; font-size: 14px; }\n")
	b.WriteString(".scripture { background: #f5f5dc; padding: 15px; border-left: 4px solid #8B4513; margin: 20px 0; }\n")
	b.WriteString(".scripture-ref { font-weight: bold; color: #8B4513; }\n")
	b.WriteString(".content { margin: 20px 0; }\n")
	b.WriteString(".reflection { background: #f0f8ff; padding: 15px; border-radius: 8px; margin: 20px 0; }\n")
	b.WriteString(".reflection h3 { color: #2c5aa0; margin-top: 0; }\n")
	b.WriteString(".prayer { font-style: italic; background: #fff8dc; padding: 15px; border-radius: 8px; margin: 20px 0; }\n")
	b.WriteString(".note { background: #f5f5dc; padding: 15px; border-radius: 8px; margin: 20px 0; }\n")
	b.WriteString(".cta { text-align: center; margin: 30px 0; }\n")
	b.WriteString(".cta a { background: #8B4513; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; }\n")
	b.WriteString(".footer { text-align: center; font-size: 12px; color: #666; border-top: 1px solid #ddd; padding-top: 20px; margin-top: 30px; }\n")
	b.WriteString("</style>\n</head>\n<body>\n")
}

func nl2br(s string) string {
	return strings.ReplaceAll(s, "\n", "<br>")
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&#39;")
	return s
}
