package devotionals

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hastingtx/backend/internal/mailer"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DripMailer is the slice of the mailer the drip sender needs.
type DripMailer interface {
	SendDay(ctx context.Context, to string, day mailer.DayEmail) error
}

// EnrollmentService delivers one devotional day per calendar day to each
// enrolled subscriber.
type EnrollmentService struct {
	db   *gorm.DB
	mail DripMailer
}

func NewEnrollmentService(db *gorm.DB, mail DripMailer) *EnrollmentService {
	return &EnrollmentService{db: db, mail: mail}
}

// Enroll signs a subscriber up for a thread's drip, starting tomorrow. An
// existing enrollment is left untouched so re-subscribing never resets
// someone mid-series.
func (s *EnrollmentService) Enroll(subscriberID, threadID uuid.UUID) (*Enrollment, error) {
	start := midnight(time.Now().AddDate(0, 0, 1))
	e := Enrollment{
		SubscriberID: subscriberID,
		ThreadID:     threadID,
		CurrentDay:   1,
		NextSendDate: &start,
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subscriber_id"}, {Name: "thread_id"}},
		DoNothing: true,
	}).Create(&e).Error; err != nil {
		return nil, err
	}

	var out Enrollment
	err := s.db.Where("subscriber_id = ? AND thread_id = ?", subscriberID, threadID).First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Due returns enrollments whose send date has arrived, with subscriber and
// thread preloaded.
func (s *EnrollmentService) Due(now time.Time) ([]Enrollment, error) {
	var due []Enrollment
	err := s.db.Preload("Subscriber").Preload("Thread").
		Where("is_complete = ? AND next_send_date IS NOT NULL AND next_send_date <= ?", false, midnight(now)).
		Find(&due).Error
	return due, err
}

// RunOnce processes every due enrollment: send the current day, then advance
// the cursor or mark the enrollment complete. Failures on one enrollment do
// not stop the rest.
func (s *EnrollmentService) RunOnce(ctx context.Context, now time.Time) (sent int, err error) {
	due, err := s.Due(now)
	if err != nil {
		return 0, err
	}

	for _, e := range due {
		if !e.Subscriber.IsActive {
			// Unsubscribed mid-series: stop the drip quietly.
			if err := s.complete(e.ID); err != nil {
				slog.Error("drip complete failed", "area", "devotionals", "enrollment_id", e.ID, "error", err.Error())
			}
			continue
		}

		var day Devotional
		err := s.db.Where("thread_id = ? AND day_number = ?", e.ThreadID, e.CurrentDay).First(&day).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Content for this day is not authored yet; try again tomorrow.
			if err := s.reschedule(e.ID, e.CurrentDay, now); err != nil {
				slog.Error("drip reschedule failed", "area", "devotionals", "enrollment_id", e.ID, "error", err.Error())
			}
			continue
		}
		if err != nil {
			slog.Error("drip day load failed", "area", "devotionals", "enrollment_id", e.ID, "error", err.Error())
			continue
		}

		msg := mailer.DayEmail{
			ThreadIdentifier:    e.Thread.Identifier,
			ThreadTitle:         e.Thread.Title,
			DayNumber:           day.DayNumber,
			TotalDays:           e.Thread.TotalDays,
			Title:               day.Title,
			ScriptureReference:  day.ScriptureReference,
			ScriptureText:       day.ScriptureText,
			Content:             day.Content,
			ReflectionQuestions: day.ReflectionQuestions,
			Prayer:              day.Prayer,
			HasAudio:            day.AudioFilename != "",
			UnsubscribeToken:    e.Subscriber.UnsubscribeToken,
			RecipientName:       e.Subscriber.Name,
		}
		if err := s.mail.SendDay(ctx, e.Subscriber.Email, msg); err != nil {
			slog.Error("drip send failed", "area", "devotionals", "enrollment_id", e.ID, "error", err.Error())
			continue
		}
		sent++

		if e.CurrentDay >= e.Thread.TotalDays {
			if err := s.complete(e.ID); err != nil {
				slog.Error("drip complete failed", "area", "devotionals", "enrollment_id", e.ID, "error", err.Error())
			}
			continue
		}
		if err := s.reschedule(e.ID, e.CurrentDay+1, now); err != nil {
			slog.Error("drip advance failed", "area", "devotionals", "enrollment_id", e.ID, "error", err.Error())
		}
	}
	return sent, nil
}

func (s *EnrollmentService) complete(id uuid.UUID) error {
	return s.db.Model(&Enrollment{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_complete": true, "next_send_date": nil}).Error
}

func (s *EnrollmentService) reschedule(id uuid.UUID, day int, now time.Time) error {
	next := midnight(now.AddDate(0, 0, 1))
	return s.db.Model(&Enrollment{}).Where("id = ?", id).
		Updates(map[string]interface{}{"current_day": day, "next_send_date": next}).Error
}

// StartDripSender runs the drip once shortly after boot and then daily,
// until done is closed.
func (s *EnrollmentService) StartDripSender(done <-chan struct{}) {
	go func() {
		timer := time.NewTimer(time.Minute)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-done:
			return
		}

		s.runLogged()
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runLogged()
			case <-done:
				return
			}
		}
	}()
}

func (s *EnrollmentService) runLogged() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	sent, err := s.RunOnce(ctx, time.Now())
	if err != nil {
		slog.Error("drip run failed", "area", "devotionals", "error", err.Error())
		return
	}
	slog.Info("drip run finished", "area", "devotionals", "sent", sent)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
