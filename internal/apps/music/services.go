package music

import (
	"errors"

	"github.com/google/uuid"
	"github.com/hastingtx/backend/internal/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSongNotFound     = errors.New("song not found")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
)

// Service owns the music library: songs, ratings, comments and playlists.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListPublished returns published songs with rating aggregates, optionally
// filtered by a title/artist/album search and a genre.
func (s *Service) ListPublished(search, genre string) ([]SongWithStats, error) {
	q := s.db.Model(&Song{}).
		Select("music_songs.*, COALESCE(AVG(music_ratings.rating), 0) AS average_rating, COUNT(music_ratings.id) AS rating_count").
		Joins("LEFT JOIN music_ratings ON music_ratings.song_id = music_songs.id").
		Where("music_songs.is_published = ?", true).
		Group("music_songs.id")

	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("music_songs.title ILIKE ? OR music_songs.artist ILIKE ? OR music_songs.album ILIKE ?",
			pattern, pattern, pattern)
	}
	if genre != "" {
		q = q.Where("music_songs.genre = ?", genre)
	}

	var songs []SongWithStats
	err := q.Order("music_songs.created_at DESC").Scan(&songs).Error
	return songs, err
}

// GetSong returns one song with its rating aggregates.
func (s *Service) GetSong(id uuid.UUID) (*SongWithStats, error) {
	var song SongWithStats
	err := s.db.Model(&Song{}).
		Select("music_songs.*, COALESCE(AVG(music_ratings.rating), 0) AS average_rating, COUNT(music_ratings.id) AS rating_count").
		Joins("LEFT JOIN music_ratings ON music_ratings.song_id = music_songs.id").
		Where("music_songs.id = ?", id).
		Group("music_songs.id").
		Scan(&song).Error
	if err != nil {
		return nil, err
	}
	if song.ID == uuid.Nil {
		return nil, ErrSongNotFound
	}
	return &song, nil
}

// RecordPlay bumps the play counter in one statement so concurrent listens
// never lose a count.
func (s *Service) RecordPlay(id uuid.UUID) error {
	return s.counter(id, "play_count")
}

// RecordDownload bumps the download counter atomically.
func (s *Service) RecordDownload(id uuid.UUID) error {
	return s.counter(id, "download_count")
}

func (s *Service) counter(id uuid.UUID, column string) error {
	res := s.db.Model(&Song{}).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSongNotFound
	}
	return nil
}

// Rate records or replaces the caller's vote for a song. One vote per IP
// per song; re-rating overwrites.
func (s *Service) Rate(songID uuid.UUID, ip string, rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	var exists int64
	if err := s.db.Model(&Song{}).Where("id = ?", songID).Count(&exists).Error; err != nil {
		return err
	}
	if exists == 0 {
		return ErrSongNotFound
	}

	r := Rating{SongID: songID, IPAddress: ip, Rating: rating}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "song_id"}, {Name: "ip_address"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"rating": rating}),
	}).Create(&r).Error
}

// AddComment stores a comment pending moderation.
func (s *Service) AddComment(songID uuid.UUID, author, content string) (*Comment, error) {
	var exists int64
	if err := s.db.Model(&Song{}).Where("id = ?", songID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrSongNotFound
	}

	c := Comment{SongID: songID, Author: author, Content: content}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ApprovedComments returns moderated comments for a song, oldest first.
func (s *Service) ApprovedComments(songID uuid.UUID) ([]Comment, error) {
	var comments []Comment
	err := s.db.Where("song_id = ? AND is_approved = ?", songID, true).
		Order("created_at ASC").Find(&comments).Error
	return comments, err
}

// PendingComments returns comments awaiting moderation, oldest first.
func (s *Service) PendingComments() ([]Comment, error) {
	var comments []Comment
	err := s.db.Where("is_approved = ?", false).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (s *Service) ApproveComment(id uuid.UUID) error {
	res := s.db.Model(&Comment{}).Where("id = ?", id).UpdateColumn("is_approved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (s *Service) DeleteComment(id uuid.UUID) error {
	res := s.db.Delete(&Comment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (s *Service) CreateSong(song *Song) error {
	return s.db.Create(song).Error
}

func (s *Service) UpdateSong(id uuid.UUID, updates map[string]interface{}) (*Song, error) {
	if len(updates) > 0 {
		res := s.db.Model(&Song{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrSongNotFound
		}
	}
	var song Song
	if err := s.db.First(&song, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &song, nil
}

func (s *Service) DeleteSong(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("song_id = ?", id).Delete(&Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("song_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("song_id = ?", id).Delete(&PlaylistSong{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Song{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSongNotFound
		}
		return nil
	})
}

func (s *Service) CreatePlaylist(name, description string) (*Playlist, error) {
	p := Playlist{Slug: util.Slugify(name), Name: name, Description: description}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) ListPlaylists() ([]Playlist, error) {
	var playlists []Playlist
	err := s.db.Order("name ASC").Find(&playlists).Error
	return playlists, err
}

// GetPlaylist returns a playlist by slug with its songs in playback order.
func (s *Service) GetPlaylist(slug string) (*PlaylistResponse, error) {
	var p Playlist
	err := s.db.Where("slug = ?", slug).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, err
	}

	var entries []PlaylistSong
	err = s.db.Preload("Song").Where("playlist_id = ?", p.ID).
		Order("position ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}

	songs := make([]Song, 0, len(entries))
	for _, e := range entries {
		songs = append(songs, e.Song)
	}
	return &PlaylistResponse{Playlist: p, Songs: songs}, nil
}

// AddToPlaylist appends a song at the end. Adding an existing song is a
// no-op.
func (s *Service) AddToPlaylist(playlistID, songID uuid.UUID) error {
	var max int
	err := s.db.Model(&PlaylistSong{}).
		Where("playlist_id = ?", playlistID).
		Select("COALESCE(MAX(position), 0)").Scan(&max).Error
	if err != nil {
		return err
	}

	entry := PlaylistSong{PlaylistID: playlistID, SongID: songID, Position: max + 1}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "playlist_id"}, {Name: "song_id"}},
		DoNothing: true,
	}).Create(&entry).Error
}

func (s *Service) RemoveFromPlaylist(playlistID, songID uuid.UUID) error {
	return s.db.Where("playlist_id = ? AND song_id = ?", playlistID, songID).
		Delete(&PlaylistSong{}).Error
}

// Reorder rewrites positions to match the given song order. Songs in the
// playlist but absent from the list keep their entries after the reordered
// ones.
func (s *Service) Reorder(playlistID uuid.UUID, songIDs []uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, songID := range songIDs {
			err := tx.Model(&PlaylistSong{}).
				Where("playlist_id = ? AND song_id = ?", playlistID, songID).
				UpdateColumn("position", i+1).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) DeletePlaylist(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&PlaylistSong{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Playlist{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPlaylistNotFound
		}
		return nil
	})
}
