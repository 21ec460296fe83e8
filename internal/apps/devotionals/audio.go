package devotionals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hastingtx/backend/internal/tts"
	"github.com/simonhull/audiometa"
	"gorm.io/gorm"
)

// Synthesizer is the slice of the TTS client the generator needs.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// AudioGenerator renders a devotional day to an MP3 on disk and records the
// filename and duration on the row. It is the process function behind the
// audio worker queue.
type AudioGenerator struct {
	db       *gorm.DB
	tts      Synthesizer
	audioDir string
}

func NewAudioGenerator(db *gorm.DB, synth Synthesizer, audioDir string) (*AudioGenerator, error) {
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return nil, fmt.Errorf("audio: create dir: %w", err)
	}
	return &AudioGenerator{db: db, tts: synth, audioDir: audioDir}, nil
}

// Generate synthesizes audio for one devotional day. Days that already have
// audio are skipped, so re-enqueueing is harmless.
func (g *AudioGenerator) Generate(ctx context.Context, devotionalID uuid.UUID) error {
	var day Devotional
	err := g.db.First(&day, "id = ?", devotionalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrDayNotFound
	}
	if err != nil {
		return err
	}
	if day.AudioFilename != "" {
		slog.Info("audio already present, skipping", "area", "devotionals", "devotional_id", devotionalID)
		return nil
	}

	start := time.Now()
	audio, err := g.tts.Synthesize(ctx, buildSpeechText(&day))
	if errors.Is(err, tts.ErrNoCredentials) {
		slog.Warn("audio generation skipped, no TTS credentials", "area", "devotionals", "devotional_id", devotionalID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("audio: synthesize day %d: %w", day.DayNumber, err)
	}

	filename := fmt.Sprintf("devotional_%s.mp3", devotionalID)
	path := filepath.Join(g.audioDir, filename)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return fmt.Errorf("audio: write file: %w", err)
	}

	duration := probeDuration(ctx, path)
	err = g.db.Model(&Devotional{}).Where("id = ?", devotionalID).
		Updates(map[string]interface{}{
			"audio_filename": filename,
			"audio_duration": duration,
		}).Error
	if err != nil {
		return fmt.Errorf("audio: record metadata: %w", err)
	}

	slog.Info("audio generated", "area", "devotionals",
		"devotional_id", devotionalID, "bytes", len(audio),
		"duration_sec", duration, "took", time.Since(start).String())
	return nil
}

// probeDuration reads the MP3 back to get its length. A probe failure is not
// fatal; the player can still stream a file with an unknown duration.
func probeDuration(ctx context.Context, path string) int {
	file, err := audiometa.OpenContext(ctx, path)
	if err != nil {
		slog.Warn("audio duration probe failed", "area", "devotionals", "path", path, "error", err.Error())
		return 0
	}
	defer file.Close()
	return int(file.Audio.Duration.Seconds())
}

// buildSpeechText flattens a day's sections into the narration script, HTML
// stripped and sections separated by pauses the voice renders naturally.
func buildSpeechText(d *Devotional) string {
	var parts []string
	add := func(s string) {
		s = strings.TrimSpace(tts.StripHTML(s))
		if s != "" {
			parts = append(parts, s)
		}
	}

	add(d.Title)
	if d.ScriptureReference != "" {
		add("From " + d.ScriptureReference + ".")
		add(d.ScriptureText)
	}
	add(d.Content)
	if d.ReflectionQuestions != "" {
		add("Questions for reflection.")
		add(d.ReflectionQuestions)
	}
	if d.Prayer != "" {
		add("Let us pray.")
		add(d.Prayer)
	}
	return strings.Join(parts, "\n\n")
}
