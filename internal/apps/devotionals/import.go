package devotionals

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hastingtx/backend/internal/util"
	"gorm.io/gorm"
)

// Importer creates a whole thread with all its days from a single JSON
// payload, the bulk path used to load authored series.
type Importer struct {
	db      *gorm.DB
	enqueue func(d *Devotional)
}

// NewImporter wires the importer; enqueue schedules audio generation for a
// freshly created day and may be nil to skip audio entirely.
func NewImporter(db *gorm.DB, enqueue func(d *Devotional)) *Importer {
	return &Importer{db: db, enqueue: enqueue}
}

// Import validates the payload and creates the thread and its days in one
// transaction. Identifier defaults to a slug of the title; a duplicate
// identifier fails the whole import.
func (im *Importer) Import(payload *ImportThreadPayload) (*ImportThreadResult, error) {
	if err := validateImport(payload); err != nil {
		return nil, err
	}

	identifier := strings.TrimSpace(payload.ThreadID)
	if identifier == "" {
		identifier = util.Slugify(payload.ThreadTitle)
	}

	thread := Thread{
		Identifier:     identifier,
		Title:          strings.TrimSpace(payload.ThreadTitle),
		Description:    strings.TrimSpace(payload.ThreadDescription),
		Author:         strings.TrimSpace(payload.Author),
		TotalDays:      len(payload.Days),
		IsPublished:    payload.Publish,
		Series:         payload.Series,
		SeriesPosition: payload.SeriesPosition,
	}

	var created []Devotional
	err := im.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&Thread{}).Where("identifier = ?", identifier).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("thread %q already exists", identifier)
		}
		if err := tx.Create(&thread).Error; err != nil {
			return err
		}

		for _, d := range payload.Days {
			day := Devotional{
				ThreadID:            thread.ID,
				DayNumber:           d.Day,
				Title:               strings.TrimSpace(d.Title),
				Content:             textToHTML(d.Devotional),
				ScriptureReference:  strings.TrimSpace(d.ScriptureReference),
				ScriptureText:       strings.TrimSpace(d.ScriptureText),
				ReflectionQuestions: strings.TrimSpace(d.Reflection),
				Prayer:              strings.TrimSpace(d.Prayer),
			}
			if err := tx.Create(&day).Error; err != nil {
				return err
			}
			created = append(created, day)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if im.enqueue != nil && !payload.SkipAudio {
		for i := range created {
			im.enqueue(&created[i])
		}
	}

	return &ImportThreadResult{
		ThreadID:    thread.ID,
		Identifier:  thread.Identifier,
		Title:       thread.Title,
		DaysCreated: len(created),
		Message:     fmt.Sprintf("Imported %q with %d days", thread.Title, len(created)),
	}, nil
}

func validateImport(p *ImportThreadPayload) error {
	if strings.TrimSpace(p.ThreadTitle) == "" {
		return errors.New("thread_title is required")
	}
	if len(p.Days) == 0 {
		return errors.New("at least one day is required")
	}
	seen := make(map[int]bool, len(p.Days))
	for i, d := range p.Days {
		if d.Day < 1 {
			return fmt.Errorf("days[%d]: day number must be positive", i)
		}
		if seen[d.Day] {
			return fmt.Errorf("days[%d]: duplicate day number %d", i, d.Day)
		}
		seen[d.Day] = true
		if strings.TrimSpace(d.Title) == "" {
			return fmt.Errorf("days[%d]: title is required", i)
		}
		if strings.TrimSpace(d.Devotional) == "" {
			return fmt.Errorf("days[%d]: devotional text is required", i)
		}
	}
	for n := 1; n <= len(p.Days); n++ {
		if !seen[n] {
			return fmt.Errorf("day numbers must be contiguous from 1, missing day %d", n)
		}
	}
	return nil
}

// textToHTML converts plain authored text into simple paragraph HTML.
// Blank-line separated blocks become <p> elements; single newlines inside a
// block become <br>. Text that already looks like HTML passes through.
func textToHTML(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if strings.HasPrefix(text, "<") {
		return text
	}

	blocks := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	var b strings.Builder
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		block = strings.ReplaceAll(escapeText(block), "\n", "<br>\n")
		b.WriteString("<p>")
		b.WriteString(block)
		b.WriteString("</p>\n")
	}
	return strings.TrimSpace(b.String())
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
