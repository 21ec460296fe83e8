package devotionals

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/hastingtx/backend/internal/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingMailer captures outbound mail instead of dialing SMTP.
type recordingMailer struct {
	syncTo     []string
	syncTokens []string
	digestTo   []string
	err        error
}

func (m *recordingMailer) SendSyncLink(_ context.Context, to, token string) error {
	if m.err != nil {
		return m.err
	}
	m.syncTo = append(m.syncTo, to)
	m.syncTokens = append(m.syncTokens, token)
	return nil
}

func (m *recordingMailer) SendDigest(_ context.Context, to string, _ []mailer.DigestThread, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.digestTo = append(m.digestTo, to)
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Thread{}, &Devotional{}, &Progress{}, &Subscriber{}, &Enrollment{}))
	return db
}

func TestRequestSyncLinkUnknownEmailRegistersAndSends(t *testing.T) {
	db := openTestDB(t)
	mail := &recordingMailer{}
	svc := NewSubscriberService(db, mail, 15*time.Minute)

	err := svc.RequestSyncLink(context.Background(), "fresh@example.com", "browser-1")
	require.NoError(t, err)

	sub, err := svc.GetByEmail("fresh@example.com")
	require.NoError(t, err)
	assert.True(t, sub.IsActive)
	assert.NotEmpty(t, sub.UnsubscribeToken)
	require.NotNil(t, sub.UserIdentifier)
	assert.Equal(t, "browser-1", *sub.UserIdentifier)
	require.NotNil(t, sub.LastSyncEmailSent)

	require.Len(t, mail.syncTo, 1)
	assert.Equal(t, "fresh@example.com", mail.syncTo[0])
	assert.Equal(t, sub.UnsubscribeToken, mail.syncTokens[0])
}

func TestRequestSyncLinkMintsIdentityWhenRequestHasNone(t *testing.T) {
	db := openTestDB(t)
	mail := &recordingMailer{}
	svc := NewSubscriberService(db, mail, 15*time.Minute)

	require.NoError(t, svc.RequestSyncLink(context.Background(), "blank@example.com", ""))

	sub, err := svc.GetByEmail("blank@example.com")
	require.NoError(t, err)
	require.NotNil(t, sub.UserIdentifier)
	assert.NotEmpty(t, *sub.UserIdentifier)
	require.Len(t, mail.syncTo, 1)
}

func TestRequestSyncLinkRateWindow(t *testing.T) {
	db := openTestDB(t)
	mail := &recordingMailer{}
	svc := NewSubscriberService(db, mail, 15*time.Minute)
	ctx := context.Background()

	// Two requests inside the window: one email, both accepted.
	require.NoError(t, svc.RequestSyncLink(ctx, "reader@example.com", "u1"))
	require.NoError(t, svc.RequestSyncLink(ctx, "reader@example.com", "u1"))
	assert.Len(t, mail.syncTo, 1)

	// Once the window has passed, the next request sends again.
	past := time.Now().Add(-16 * time.Minute)
	require.NoError(t, db.Model(&Subscriber{}).
		Where("email = ?", "reader@example.com").
		UpdateColumn("last_sync_email_sent", past).Error)

	require.NoError(t, svc.RequestSyncLink(ctx, "reader@example.com", "u1"))
	assert.Len(t, mail.syncTo, 2)
}

func TestResolveSyncTokenLinkedIdentityWins(t *testing.T) {
	db := openTestDB(t)
	svc := NewSubscriberService(db, &recordingMailer{}, 15*time.Minute)

	sub, err := svc.Subscribe("linked@example.com", "", nil, "u1")
	require.NoError(t, err)

	got, err := svc.ResolveSyncToken(sub.UnsubscribeToken, "u2")
	require.NoError(t, err)
	assert.Equal(t, "u1", got)

	// The visiting browser never overwrites an established link.
	reloaded, err := svc.GetByEmail("linked@example.com")
	require.NoError(t, err)
	require.NotNil(t, reloaded.UserIdentifier)
	assert.Equal(t, "u1", *reloaded.UserIdentifier)
}

func TestResolveSyncTokenBootstrapsFromVisitor(t *testing.T) {
	db := openTestDB(t)
	svc := NewSubscriberService(db, &recordingMailer{}, 15*time.Minute)

	sub, err := svc.Subscribe("unbound@example.com", "", nil, "")
	require.NoError(t, err)
	require.Nil(t, sub.UserIdentifier)

	got, err := svc.ResolveSyncToken(sub.UnsubscribeToken, "u2")
	require.NoError(t, err)
	assert.Equal(t, "u2", got)

	reloaded, err := svc.GetByEmail("unbound@example.com")
	require.NoError(t, err)
	require.NotNil(t, reloaded.UserIdentifier)
	assert.Equal(t, "u2", *reloaded.UserIdentifier)
}

func TestResolveSyncTokenUnknown(t *testing.T) {
	db := openTestDB(t)
	svc := NewSubscriberService(db, &recordingMailer{}, 15*time.Minute)

	_, err := svc.ResolveSyncToken("no-such-token", "u1")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestUnsubscribeKeepsRowAndDigestOptIn(t *testing.T) {
	db := openTestDB(t)
	svc := NewSubscriberService(db, &recordingMailer{}, 15*time.Minute)

	sub, err := svc.Subscribe("leaver@example.com", "", nil, "u1")
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(sub.UnsubscribeToken))

	reloaded, err := svc.GetByEmail("leaver@example.com")
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
	assert.True(t, reloaded.ReceiveNewThreads)

	// The sync link keeps restoring progress after unsubscribing.
	got, err := svc.ResolveSyncToken(sub.UnsubscribeToken, "u2")
	require.NoError(t, err)
	assert.Equal(t, "u1", got)
}

func TestReassignIdentityMergesWithoutClobbering(t *testing.T) {
	db := openTestDB(t)
	svc := NewProgressService(db)

	threadA := uuid.New()
	threadB := uuid.New()
	rows := []Progress{
		{ThreadID: threadA, UserIdentifier: "old", CurrentDay: 3, CompletedDays: []int{1, 2}},
		{ThreadID: threadB, UserIdentifier: "old", CurrentDay: 1, CompletedDays: []int{}},
		{ThreadID: threadB, UserIdentifier: "new", CurrentDay: 2, CompletedDays: []int{1}},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	require.NoError(t, svc.ReassignIdentity("old", "new"))

	// Thread A moved to the adopted identity.
	moved, err := svc.Get(threadA, "new")
	require.NoError(t, err)
	assert.Equal(t, 3, moved.CurrentDay)

	// Thread B collided; the adopted identity's own history wins.
	kept, err := svc.Get(threadB, "new")
	require.NoError(t, err)
	assert.Equal(t, 2, kept.CurrentDay)

	remained, err := svc.Get(threadB, "old")
	require.NoError(t, err)
	assert.Equal(t, 1, remained.CurrentDay)
}
