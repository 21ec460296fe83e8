package devotionals

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrThreadNotFound = errors.New("thread not found")
	ErrDayNotFound    = errors.New("day not found")
	ErrDayOutOfRange  = errors.New("day number out of range")
	ErrDayLocked      = errors.New("previous day not completed")
	ErrNotStarted     = errors.New("thread not started")
)

// ProgressService owns per-user reading state. All writes against a
// (thread, user) row are single atomic statements so concurrent completes
// from multiple tabs never lose a day.
type ProgressService struct {
	db *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

// GetOrCreate returns the progress row for this user and thread, creating a
// fresh day-1 row if none exists. Concurrent first visits race on the unique
// (thread_id, user_identifier) index; the loser re-reads the winner's row.
func (s *ProgressService) GetOrCreate(threadID uuid.UUID, userID string) (*Progress, error) {
	p := Progress{
		ThreadID:       threadID,
		UserIdentifier: userID,
		CurrentDay:     1,
		CompletedDays:  []int{},
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "thread_id"}, {Name: "user_identifier"}},
		DoNothing: true,
	}).Create(&p).Error; err != nil {
		return nil, err
	}
	return s.Get(threadID, userID)
}

// Get returns the progress row, or ErrNotStarted when the user has never
// opened this thread.
func (s *ProgressService) Get(threadID uuid.UUID, userID string) (*Progress, error) {
	var p Progress
	err := s.db.Where("thread_id = ? AND user_identifier = ?", threadID, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotStarted
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// IsDayAccessible reports whether the user may open the given day. Day 1 is
// always open; day N needs day N-1 completed. A missing progress row only
// unlocks day 1.
func (s *ProgressService) IsDayAccessible(threadID uuid.UUID, userID string, day int) (bool, error) {
	if day <= 1 {
		return day == 1, nil
	}
	p, err := s.Get(threadID, userID)
	if errors.Is(err, ErrNotStarted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return dayAccessible(p.CompletedDays, day), nil
}

// MarkDayComplete records the day as finished and advances the cursor. The
// completed_days append and the cursor bump happen in one UPDATE: the append
// is a no-op when the day is already present, and the cursor only ever moves
// forward. total_days is read from the thread at call time so day counts
// edited by an admin mid-read are honored.
func (s *ProgressService) MarkDayComplete(threadID uuid.UUID, userID string, day int) (*Progress, bool, error) {
	var thread Thread
	if err := s.db.Select("total_days").First(&thread, "id = ?", threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrThreadNotFound
		}
		return nil, false, err
	}
	if day < 1 || day > thread.TotalDays {
		return nil, false, ErrDayOutOfRange
	}

	p, err := s.Get(threadID, userID)
	if err != nil {
		return nil, false, err
	}
	if !dayAccessible(p.CompletedDays, day) {
		return nil, false, ErrDayLocked
	}

	next := nextDay(day, thread.TotalDays)
	res := s.db.Model(&Progress{}).
		Where("thread_id = ? AND user_identifier = ?", threadID, userID).
		Updates(map[string]interface{}{
			"completed_days": gorm.Expr(
				"CASE WHEN completed_days @> to_jsonb(?::int) THEN completed_days ELSE completed_days || to_jsonb(?::int) END",
				day, day,
			),
			"current_day":   gorm.Expr("GREATEST(current_day, ?)", next),
			"last_activity": time.Now(),
		})
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, ErrNotStarted
	}

	p, err = s.Get(threadID, userID)
	if err != nil {
		return nil, false, err
	}
	return p, len(p.CompletedDays) >= thread.TotalDays, nil
}

// Touch bumps last_activity without changing completion state.
func (s *ProgressService) Touch(threadID uuid.UUID, userID string) error {
	return s.db.Model(&Progress{}).
		Where("thread_id = ? AND user_identifier = ?", threadID, userID).
		UpdateColumn("last_activity", time.Now()).Error
}

// Summaries returns per-thread progress for a user, keyed by thread ID, for
// decorating catalog listings in one query.
func (s *ProgressService) Summaries(userID string) (map[uuid.UUID]ProgressSummary, error) {
	type row struct {
		ThreadID       uuid.UUID
		CurrentDay     int
		CompletedCount int
		TotalDays      int
	}
	var rows []row
	err := s.db.Model(&Progress{}).
		Select("devotional_progress.thread_id, devotional_progress.current_day, jsonb_array_length(devotional_progress.completed_days) AS completed_count, devotional_threads.total_days").
		Joins("JOIN devotional_threads ON devotional_threads.id = devotional_progress.thread_id").
		Where("devotional_progress.user_identifier = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]ProgressSummary, len(rows))
	for _, r := range rows {
		out[r.ThreadID] = ProgressSummary{
			CurrentDay:     r.CurrentDay,
			CompletedCount: r.CompletedCount,
			IsComplete:     r.CompletedCount >= r.TotalDays,
		}
	}
	return out, nil
}

// ReassignIdentity moves progress rows from one anonymous identifier to
// another after a sync-link visit. Rows that would collide with existing
// progress under the target identity are left alone; the target's own
// history wins.
func (s *ProgressService) ReassignIdentity(fromID, toID string) error {
	if fromID == "" || fromID == toID {
		return nil
	}
	return s.db.Exec(`
		UPDATE devotional_progress SET user_identifier = ?
		WHERE user_identifier = ?
		  AND NOT EXISTS (
			SELECT 1 FROM devotional_progress t
			WHERE t.user_identifier = ? AND t.thread_id = devotional_progress.thread_id
		  )`, toID, fromID, toID).Error
}

func summaryOf(p *Progress, totalDays int) *ProgressSummary {
	if p == nil {
		return nil
	}
	return &ProgressSummary{
		CurrentDay:     p.CurrentDay,
		CompletedCount: len(p.CompletedDays),
		IsComplete:     len(p.CompletedDays) >= totalDays,
	}
}

// dayAccessible implements the sequential gate: day 1 is free, any later day
// requires its predecessor in completed_days. Order of entries is irrelevant.
func dayAccessible(completed []int, day int) bool {
	if day == 1 {
		return true
	}
	if day < 1 {
		return false
	}
	return containsDay(completed, day-1)
}

// nextDay is the cursor value after completing day: one past it, clamped to
// the final day so the cursor never points beyond the thread.
func nextDay(day, totalDays int) int {
	if day+1 > totalDays {
		return totalDays
	}
	return day + 1
}

func containsDay(completed []int, day int) bool {
	for _, d := range completed {
		if d == day {
			return true
		}
	}
	return false
}
