package music

import (
	"time"

	"github.com/google/uuid"
)

// Song is one published track in the sharing library.
type Song struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Artist        string    `gorm:"size:255;not null" json:"artist"`
	Album         string    `gorm:"size:255" json:"album"`
	Genre         string    `gorm:"size:100;index" json:"genre"`
	Filename      string    `gorm:"size:255;not null" json:"filename"`
	Duration      int       `json:"duration"`
	PlayCount     int64     `gorm:"not null;default:0" json:"play_count"`
	DownloadCount int64     `gorm:"not null;default:0" json:"download_count"`
	IsPublished   bool      `gorm:"not null;default:false" json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Song) TableName() string { return "music_songs" }

// Rating is one listener's 1-5 star vote, at most one per IP per song.
type Rating struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SongID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_song_ip" json:"song_id"`
	IPAddress string    `gorm:"size:45;not null;uniqueIndex:idx_ratings_song_ip" json:"-"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

func (Rating) TableName() string { return "music_ratings" }

// Comment is a listener comment awaiting or past moderation.
type Comment struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SongID     uuid.UUID `gorm:"type:uuid;not null;index" json:"song_id"`
	Author     string    `gorm:"size:100;not null" json:"author"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsApproved bool      `gorm:"not null;default:false" json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Comment) TableName() string { return "music_comments" }

// Playlist is an ordered, curated set of songs.
type Playlist struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug        string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Playlist) TableName() string { return "music_playlists" }

// PlaylistSong orders one song inside one playlist.
type PlaylistSong struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PlaylistID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_song" json:"playlist_id"`
	SongID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_song" json:"song_id"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	Song       Song      `gorm:"foreignKey:SongID" json:"-"`
}

func (PlaylistSong) TableName() string { return "music_playlist_songs" }

// --- DTOs ---

type SongWithStats struct {
	Song
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
}

type RateRequest struct {
	Rating int `json:"rating"`
}

type CommentRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

type CreateSongRequest struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	Genre       string `json:"genre"`
	Filename    string `json:"filename"`
	Duration    int    `json:"duration"`
	IsPublished bool   `json:"is_published"`
}

type UpdateSongRequest struct {
	Title       *string `json:"title"`
	Artist      *string `json:"artist"`
	Album       *string `json:"album"`
	Genre       *string `json:"genre"`
	Filename    *string `json:"filename"`
	Duration    *int    `json:"duration"`
	IsPublished *bool   `json:"is_published"`
}

type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ReorderRequest struct {
	SongIDs []uuid.UUID `json:"song_ids"`
}

type PlaylistResponse struct {
	Playlist Playlist `json:"playlist"`
	Songs    []Song   `json:"songs"`
}
