package gallery

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hastingtx/backend/internal/util"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrImageNotFound   = errors.New("image not found")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
)

// Service owns gallery sections and their images.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListSections returns sections with published-image counts in display
// order.
func (s *Service) ListSections() ([]SectionWithCount, error) {
	var sections []SectionWithCount
	err := s.db.Model(&Section{}).
		Select("gallery_sections.*, COUNT(gallery_images.id) AS image_count").
		Joins("LEFT JOIN gallery_images ON gallery_images.section_id = gallery_sections.id AND gallery_images.is_published = true").
		Group("gallery_sections.id").
		Order("gallery_sections.sort_order ASC, gallery_sections.name ASC").
		Scan(&sections).Error
	return sections, err
}

func (s *Service) GetSection(slug string) (*Section, error) {
	var section Section
	err := s.db.Where("slug = ?", slug).First(&section).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// Dates returns the distinct dates a section has published images for,
// newest first.
func (s *Service) Dates(sectionID uuid.UUID) ([]string, error) {
	var dates []time.Time
	err := s.db.Model(&Image{}).
		Where("section_id = ? AND is_published = ?", sectionID, true).
		Distinct("taken_on").Order("taken_on DESC").
		Pluck("taken_on", &dates).Error
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(dateLayout))
	}
	return out, nil
}

// Day returns one date's images with the neighboring dates that have
// images, for previous/next navigation.
func (s *Service) Day(section *Section, date string) (*DayPage, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	var images []Image
	err = s.db.Where("section_id = ? AND is_published = ? AND taken_on = ?", section.ID, true, day).
		Order("created_at ASC").Find(&images).Error
	if err != nil {
		return nil, err
	}

	prev, err := s.adjacentDate(section.ID, day, true)
	if err != nil {
		return nil, err
	}
	next, err := s.adjacentDate(section.ID, day, false)
	if err != nil {
		return nil, err
	}

	return &DayPage{
		Section:  *section,
		Date:     date,
		Images:   images,
		PrevDate: prev,
		NextDate: next,
	}, nil
}

func (s *Service) adjacentDate(sectionID uuid.UUID, day time.Time, before bool) (*string, error) {
	q := s.db.Model(&Image{}).
		Where("section_id = ? AND is_published = ?", sectionID, true)
	if before {
		q = q.Where("taken_on < ?", day).Order("taken_on DESC")
	} else {
		q = q.Where("taken_on > ?", day).Order("taken_on ASC")
	}

	var found []time.Time
	err := q.Limit(1).Pluck("taken_on", &found).Error
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	formatted := found[0].Format(dateLayout)
	return &formatted, nil
}

// RecordView bumps the view counter in one statement.
func (s *Service) RecordView(id uuid.UUID) error {
	res := s.db.Model(&Image{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrImageNotFound
	}
	return nil
}

func (s *Service) CreateSection(name, description string, sortOrder int) (*Section, error) {
	section := Section{
		Slug:        util.Slugify(name),
		Name:        name,
		Description: description,
		SortOrder:   sortOrder,
	}
	if err := s.db.Create(&section).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (s *Service) DeleteSection(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("section_id = ?", id).Delete(&Image{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Section{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSectionNotFound
		}
		return nil
	})
}

func (s *Service) CreateImage(sectionID uuid.UUID, req *CreateImageRequest) (*Image, error) {
	day, err := time.Parse(dateLayout, req.TakenOn)
	if err != nil {
		return nil, ErrInvalidDate
	}

	img := Image{
		SectionID:   sectionID,
		Filename:    req.Filename,
		Caption:     req.Caption,
		TakenOn:     day,
		IsPublished: req.IsPublished == nil || *req.IsPublished,
	}
	if err := s.db.Create(&img).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *Service) UpdateImage(id uuid.UUID, req *UpdateImageRequest) (*Image, error) {
	updates := map[string]interface{}{}
	if req.Filename != nil {
		updates["filename"] = *req.Filename
	}
	if req.Caption != nil {
		updates["caption"] = *req.Caption
	}
	if req.TakenOn != nil {
		day, err := time.Parse(dateLayout, *req.TakenOn)
		if err != nil {
			return nil, ErrInvalidDate
		}
		updates["taken_on"] = day
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}

	if len(updates) > 0 {
		res := s.db.Model(&Image{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrImageNotFound
		}
	}

	var img Image
	if err := s.db.First(&img, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *Service) DeleteImage(id uuid.UUID) error {
	res := s.db.Delete(&Image{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrImageNotFound
	}
	return nil
}
