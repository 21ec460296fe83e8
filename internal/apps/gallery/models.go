package gallery

import (
	"time"

	"github.com/google/uuid"
)

// Section groups images under a named area of the gallery.
type Section struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug        string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Section) TableName() string { return "gallery_sections" }

// Image is one photo with the date it was taken, used for day-by-day
// browsing within a section.
type Image struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SectionID   uuid.UUID `gorm:"type:uuid;not null;index" json:"section_id"`
	Filename    string    `gorm:"size:255;not null" json:"filename"`
	Caption     string    `gorm:"size:500" json:"caption"`
	TakenOn     time.Time `gorm:"type:date;not null;index" json:"taken_on"`
	ViewCount   int64     `gorm:"not null;default:0" json:"view_count"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Image) TableName() string { return "gallery_images" }

// --- DTOs ---

type SectionWithCount struct {
	Section
	ImageCount int64 `json:"image_count"`
}

// DayPage is one date's images plus neighboring dates for navigation.
type DayPage struct {
	Section  Section `json:"section"`
	Date     string  `json:"date"`
	Images   []Image `json:"images"`
	PrevDate *string `json:"prev_date"`
	NextDate *string `json:"next_date"`
}

type CreateSectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

type CreateImageRequest struct {
	Filename    string `json:"filename"`
	Caption     string `json:"caption"`
	TakenOn     string `json:"taken_on"`
	IsPublished *bool  `json:"is_published"`
}

type UpdateImageRequest struct {
	Filename    *string `json:"filename"`
	Caption     *string `json:"caption"`
	TakenOn     *string `json:"taken_on"`
	IsPublished *bool   `json:"is_published"`
}
