package devotionals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hastingtx/backend/internal/identity"
	"github.com/hastingtx/backend/internal/mailer"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrMailDelivery  = errors.New("email delivery failed")
)

// SyncMailer is the slice of the mailer the subscriber service needs.
type SyncMailer interface {
	SendSyncLink(ctx context.Context, to, token string) error
	SendDigest(ctx context.Context, to string, threads []mailer.DigestThread, unsubscribeToken string) error
}

// SubscriberService manages email subscriptions, sync links and the
// new-series digest.
type SubscriberService struct {
	db     *gorm.DB
	mail   SyncMailer
	window time.Duration
}

func NewSubscriberService(db *gorm.DB, mail SyncMailer, syncWindow time.Duration) *SubscriberService {
	return &SubscriberService{db: db, mail: mail, window: syncWindow}
}

// Subscribe upserts a subscriber by email. Re-subscribing reactivates an
// unsubscribed address; a blank name never clobbers a stored one, and a
// previously linked identity is never overwritten.
func (s *SubscriberService) Subscribe(email, name string, receiveNew *bool, userID string) (*Subscriber, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	sub := Subscriber{
		Email:             email,
		Name:              strings.TrimSpace(name),
		IsActive:          true,
		ReceiveNewThreads: receiveNew == nil || *receiveNew,
		UnsubscribeToken:  identity.NewToken(),
	}
	if userID != "" {
		sub.UserIdentifier = &userID
	}

	assignments := map[string]interface{}{
		"is_active":       true,
		"name":            gorm.Expr("COALESCE(NULLIF(EXCLUDED.name, ''), devotional_subscribers.name)"),
		"user_identifier": gorm.Expr("COALESCE(devotional_subscribers.user_identifier, EXCLUDED.user_identifier)"),
	}
	if receiveNew != nil {
		assignments["receive_new_threads"] = *receiveNew
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&sub).Error
	if err != nil {
		return nil, err
	}
	return s.GetByEmail(email)
}

func (s *SubscriberService) GetByEmail(email string) (*Subscriber, error) {
	var sub Subscriber
	err := s.db.Where("email = ?", email).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// RequestSyncLink emails the subscriber their progress link. Addresses
// emailed within the rate window are silently accepted so the endpoint does
// not leak who is subscribed. An unknown address is registered on the spot;
// the first link must already work. Only a transport failure surfaces as an
// error.
func (s *SubscriberService) RequestSyncLink(ctx context.Context, email, currentUserID string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	sub, err := s.GetByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sub, err = s.Subscribe(email, "", nil, currentUserID)
	}
	if err != nil {
		return err
	}

	if sub.LastSyncEmailSent != nil && time.Since(*sub.LastSyncEmailSent) < s.window {
		slog.Info("sync link rate limited", "area", "devotionals", "subscriber_id", sub.ID)
		return nil
	}

	// First sync from a browser that already has progress: adopt that
	// identity so the link has something to restore. A request with no
	// identity gets a fresh one minted at send time.
	if sub.UserIdentifier == nil {
		if currentUserID == "" {
			currentUserID = identity.NewUserID()
		}
		if err := s.db.Model(sub).
			Where("user_identifier IS NULL").
			UpdateColumn("user_identifier", currentUserID).Error; err != nil {
			return err
		}
	}

	if err := s.mail.SendSyncLink(ctx, sub.Email, sub.UnsubscribeToken); err != nil {
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	now := time.Now()
	return s.db.Model(sub).UpdateColumn("last_sync_email_sent", now).Error
}

// ResolveSyncToken returns the identity a sync link points at. A token whose
// subscriber has no linked identity yet adopts the visiting browser's.
func (s *SubscriberService) ResolveSyncToken(token, currentUserID string) (string, error) {
	var sub Subscriber
	err := s.db.Where("unsubscribe_token = ?", token).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}

	if sub.UserIdentifier != nil && *sub.UserIdentifier != "" {
		return *sub.UserIdentifier, nil
	}
	if currentUserID == "" {
		currentUserID = identity.NewUserID()
	}
	if err := s.db.Model(&sub).
		Where("user_identifier IS NULL").
		UpdateColumn("user_identifier", currentUserID).Error; err != nil {
		return "", err
	}
	return currentUserID, nil
}

// Unsubscribe deactivates the subscriber behind a token. The row is kept so
// the sync link keeps working for progress restore.
func (s *SubscriberService) Unsubscribe(token string) error {
	res := s.db.Model(&Subscriber{}).
		Where("unsubscribe_token = ?", token).
		UpdateColumn("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// ListActive returns active subscribers, newest first.
func (s *SubscriberService) ListActive() ([]Subscriber, error) {
	var subs []Subscriber
	err := s.db.Where("is_active = ?", true).Order("subscribed_at DESC").Find(&subs).Error
	return subs, err
}

// SendNewThreadDigest mails every opted-in subscriber about threads
// published since the cutoff. Per-recipient failures are logged and skipped
// so one bad address does not block the batch.
func (s *SubscriberService) SendNewThreadDigest(ctx context.Context, since time.Time) (int, error) {
	var threads []Thread
	err := s.db.Where("is_published = ? AND updated_at >= ?", true, since).
		Order(seriesOrder).Find(&threads).Error
	if err != nil {
		return 0, err
	}
	if len(threads) == 0 {
		return 0, nil
	}

	digest := make([]mailer.DigestThread, 0, len(threads))
	for _, t := range threads {
		digest = append(digest, mailer.DigestThread{
			Identifier:  t.Identifier,
			Title:       t.Title,
			Description: t.Description,
			Author:      t.Author,
			TotalDays:   t.TotalDays,
		})
	}

	var subs []Subscriber
	if err := s.db.Where("is_active = ? AND receive_new_threads = ?", true, true).Find(&subs).Error; err != nil {
		return 0, err
	}

	sent := 0
	for _, sub := range subs {
		if err := s.mail.SendDigest(ctx, sub.Email, digest, sub.UnsubscribeToken); err != nil {
			slog.Error("digest send failed", "area", "devotionals", "subscriber_id", sub.ID, "error", err.Error())
			continue
		}
		sent++
	}
	return sent, nil
}

// normalizeEmail lowercases and trims, rejecting anything without the bare
// shape of an address.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at+1:], ".") {
		return "", ErrInvalidEmail
	}
	if strings.ContainsAny(email, " \t\n") {
		return "", ErrInvalidEmail
	}
	return email, nil
}
