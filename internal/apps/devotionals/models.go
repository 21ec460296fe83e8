package devotionals

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Thread is a named multi-day devotional series.
type Thread struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Identifier     string    `gorm:"size:100;not null;uniqueIndex" json:"identifier"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	Author         string    `gorm:"size:255" json:"author"`
	CoverImage     string    `gorm:"size:255" json:"cover_image"`
	TotalDays      int       `gorm:"not null;default:1" json:"total_days"`
	IsPublished    bool      `gorm:"not null;default:false" json:"is_published"`
	Series         *string   `gorm:"size:255;index" json:"series"`
	SeriesPosition *int      `json:"series_position"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Thread) TableName() string { return "devotional_threads" }

// IDs are minted in BeforeCreate rather than by a database default so the
// models are not tied to one engine.
func (t *Thread) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Devotional is the content of one day within a thread.
type Devotional struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ThreadID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_devotionals_thread_day" json:"thread_id"`
	DayNumber           int       `gorm:"not null;uniqueIndex:idx_devotionals_thread_day" json:"day_number"`
	Title               string    `gorm:"size:255;not null" json:"title"`
	Content             string    `gorm:"type:text;not null" json:"content"`
	ScriptureReference  string    `gorm:"size:255" json:"scripture_reference"`
	ScriptureText       string    `gorm:"type:text" json:"scripture_text"`
	ReflectionQuestions string    `gorm:"type:text" json:"reflection_questions"`
	Prayer              string    `gorm:"type:text" json:"prayer"`
	AudioFilename       string    `gorm:"size:255" json:"audio_filename"`
	AudioDuration       int       `json:"audio_duration"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	Thread              Thread    `gorm:"foreignKey:ThreadID" json:"-"`
}

func (Devotional) TableName() string { return "devotionals" }

func (d *Devotional) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Progress tracks one anonymous user's advancement through one thread.
// completed_days is the source of truth for day access; current_day is a
// convenience cursor for "resume here" redirects.
type Progress struct {
	ID             uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	ThreadID       uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_progress_thread_user" json:"thread_id"`
	UserIdentifier string                   `gorm:"size:64;not null;uniqueIndex:idx_progress_thread_user" json:"-"`
	CurrentDay     int                      `gorm:"not null;default:1" json:"current_day"`
	CompletedDays  datatypes.JSONSlice[int] `gorm:"type:jsonb;not null;default:'[]'" json:"completed_days"`
	StartedAt      time.Time                `gorm:"autoCreateTime" json:"started_at"`
	LastActivity   time.Time                `gorm:"autoCreateTime" json:"last_activity"`
}

func (Progress) TableName() string { return "devotional_progress" }

func (p *Progress) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Subscriber links an email address to devotional mailings and, weakly, to
// an anonymous browser identity for cross-device sync.
type Subscriber struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email             string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name              string     `gorm:"size:255" json:"name"`
	IsActive          bool       `gorm:"not null;default:true" json:"is_active"`
	ReceiveNewThreads bool       `gorm:"not null;default:true" json:"receive_new_threads"`
	UnsubscribeToken  string     `gorm:"size:64;not null;uniqueIndex" json:"-"`
	UserIdentifier    *string    `gorm:"size:64;index" json:"-"`
	LastSyncEmailSent *time.Time `json:"-"`
	SubscribedAt      time.Time  `gorm:"autoCreateTime" json:"subscribed_at"`
}

func (Subscriber) TableName() string { return "devotional_subscribers" }

func (s *Subscriber) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Enrollment is an email drip subscription: one devotional day delivered
// per day until the thread is finished.
type Enrollment struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SubscriberID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_sub_thread" json:"subscriber_id"`
	ThreadID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_sub_thread" json:"thread_id"`
	CurrentDay   int        `gorm:"not null;default:1" json:"current_day"`
	NextSendDate *time.Time `gorm:"type:date" json:"next_send_date"`
	IsComplete   bool       `gorm:"not null;default:false" json:"is_complete"`
	EnrolledAt   time.Time  `gorm:"autoCreateTime" json:"enrolled_at"`
	Subscriber   Subscriber `gorm:"foreignKey:SubscriberID" json:"-"`
	Thread       Thread     `gorm:"foreignKey:ThreadID" json:"-"`
}

func (Enrollment) TableName() string { return "devotional_enrollments" }

func (e *Enrollment) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// --- DTOs ---

type ThreadListItem struct {
	Thread
	Progress *ProgressSummary `json:"progress,omitempty"`
}

type ProgressSummary struct {
	CurrentDay     int  `json:"current_day"`
	CompletedCount int  `json:"completed_count"`
	IsComplete     bool `json:"is_complete"`
}

type ThreadDetailResponse struct {
	Thread   Thread           `json:"thread"`
	Days     []DayListItem    `json:"days"`
	Progress *ProgressSummary `json:"progress,omitempty"`
}

type DayListItem struct {
	DayNumber  int    `json:"day_number"`
	Title      string `json:"title"`
	HasAudio   bool   `json:"has_audio"`
	Accessible bool   `json:"accessible"`
	Completed  bool   `json:"completed"`
}

type CompleteDayResponse struct {
	NextDay        int    `json:"next_day"`
	ThreadComplete bool   `json:"thread_complete"`
	Redirect       string `json:"redirect"`
}

type StartThreadResponse struct {
	CurrentDay int    `json:"current_day"`
	Redirect   string `json:"redirect"`
}

type SubscribeRequest struct {
	Email             string `json:"email"`
	Name              string `json:"name"`
	ReceiveNewThreads *bool  `json:"receive_new_threads"`
	EnrollThread      string `json:"enroll_thread"`
}

type SyncRequestBody struct {
	Email string `json:"email"`
}

type CreateThreadRequest struct {
	Identifier     string  `json:"identifier"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Author         string  `json:"author"`
	CoverImage     string  `json:"cover_image"`
	TotalDays      int     `json:"total_days"`
	IsPublished    bool    `json:"is_published"`
	Series         *string `json:"series"`
	SeriesPosition *int    `json:"series_position"`
}

type UpdateThreadRequest struct {
	Identifier     *string `json:"identifier"`
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Author         *string `json:"author"`
	CoverImage     *string `json:"cover_image"`
	TotalDays      *int    `json:"total_days"`
	IsPublished    *bool   `json:"is_published"`
	Series         *string `json:"series"`
	SeriesPosition *int    `json:"series_position"`
}

type CreateDayRequest struct {
	DayNumber           int    `json:"day_number"`
	Title               string `json:"title"`
	Content             string `json:"content"`
	ScriptureReference  string `json:"scripture_reference"`
	ScriptureText       string `json:"scripture_text"`
	ReflectionQuestions string `json:"reflection_questions"`
	Prayer              string `json:"prayer"`
}

type UpdateDayRequest struct {
	DayNumber           *int    `json:"day_number"`
	Title               *string `json:"title"`
	Content             *string `json:"content"`
	ScriptureReference  *string `json:"scripture_reference"`
	ScriptureText       *string `json:"scripture_text"`
	ReflectionQuestions *string `json:"reflection_questions"`
	Prayer              *string `json:"prayer"`
}

type ImportDayPayload struct {
	Day                int    `json:"day"`
	Title              string `json:"title"`
	ScriptureReference string `json:"scripture_reference"`
	ScriptureText      string `json:"scripture_text"`
	Devotional         string `json:"devotional"`
	Reflection         string `json:"reflection"`
	Prayer             string `json:"prayer"`
}

type ImportThreadPayload struct {
	ThreadID          string             `json:"thread_id"`
	ThreadTitle       string             `json:"thread_title"`
	ThreadDescription string             `json:"thread_description"`
	Author            string             `json:"author"`
	Series            *string            `json:"series"`
	SeriesPosition    *int               `json:"series_position"`
	Publish           bool               `json:"publish"`
	SkipAudio         bool               `json:"skip_audio"`
	Days              []ImportDayPayload `json:"days"`
}

type ImportThreadResult struct {
	ThreadID    uuid.UUID `json:"thread_id"`
	Identifier  string    `json:"identifier"`
	Title       string    `json:"title"`
	DaysCreated int       `json:"days_created"`
	Message     string    `json:"message"`
}
