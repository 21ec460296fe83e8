package devotionals

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService reads and writes threads and their days.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// seriesOrder puts series members first, grouped and ordered within their
// series, with standalone threads after, newest first.
const seriesOrder = "CASE WHEN series IS NULL THEN 1 ELSE 0 END, series ASC, series_position ASC, created_at DESC"

// ListPublished returns all published threads in catalog order.
func (s *CatalogService) ListPublished() ([]Thread, error) {
	var threads []Thread
	err := s.db.Where("is_published = ?", true).Order(seriesOrder).Find(&threads).Error
	return threads, err
}

// ListAll returns every thread, drafts included, in catalog order.
func (s *CatalogService) ListAll() ([]Thread, error) {
	var threads []Thread
	err := s.db.Order(seriesOrder).Find(&threads).Error
	return threads, err
}

// GetByIdentifier looks a thread up by its URL slug.
func (s *CatalogService) GetByIdentifier(identifier string) (*Thread, error) {
	var t Thread
	err := s.db.Where("identifier = ?", identifier).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrThreadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *CatalogService) GetThread(id uuid.UUID) (*Thread, error) {
	var t Thread
	err := s.db.First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrThreadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListDays returns the day rows of a thread in reading order.
func (s *CatalogService) ListDays(threadID uuid.UUID) ([]Devotional, error) {
	var days []Devotional
	err := s.db.Where("thread_id = ?", threadID).Order("day_number ASC").Find(&days).Error
	return days, err
}

// GetDay fetches a single day of a thread by its day number.
func (s *CatalogService) GetDay(threadID uuid.UUID, dayNumber int) (*Devotional, error) {
	var d Devotional
	err := s.db.Where("thread_id = ? AND day_number = ?", threadID, dayNumber).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDayNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *CatalogService) GetDayByID(id uuid.UUID) (*Devotional, error) {
	var d Devotional
	err := s.db.First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDayNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DayCount returns the number of day rows actually present, which may lag
// behind the thread's declared total_days while content is being authored.
func (s *CatalogService) DayCount(threadID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.Model(&Devotional{}).Where("thread_id = ?", threadID).Count(&n).Error
	return n, err
}

func (s *CatalogService) CreateThread(t *Thread) error {
	return s.db.Create(t).Error
}

func (s *CatalogService) UpdateThread(id uuid.UUID, updates map[string]interface{}) (*Thread, error) {
	if len(updates) > 0 {
		res := s.db.Model(&Thread{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrThreadNotFound
		}
	}
	return s.GetThread(id)
}

// DeleteThread removes a thread with its days, progress rows and
// enrollments.
func (s *CatalogService) DeleteThread(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_id = ?", id).Delete(&Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("thread_id = ?", id).Delete(&Progress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("thread_id = ?", id).Delete(&Devotional{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Thread{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrThreadNotFound
		}
		return nil
	})
}

func (s *CatalogService) CreateDay(d *Devotional) error {
	return s.db.Create(d).Error
}

func (s *CatalogService) UpdateDay(id uuid.UUID, updates map[string]interface{}) (*Devotional, error) {
	if len(updates) > 0 {
		res := s.db.Model(&Devotional{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrDayNotFound
		}
	}
	return s.GetDayByID(id)
}

func (s *CatalogService) DeleteDay(id uuid.UUID) error {
	res := s.db.Delete(&Devotional{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDayNotFound
	}
	return nil
}

// SetPublished flips a thread's visibility and returns the updated row.
func (s *CatalogService) SetPublished(id uuid.UUID, published bool) (*Thread, error) {
	return s.UpdateThread(id, map[string]interface{}{"is_published": published})
}
