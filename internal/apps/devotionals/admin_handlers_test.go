package devotionals

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAudioTestApp(t *testing.T, enqueue func(id uuid.UUID) bool) (*fiber.App, *CatalogService) {
	t.Helper()
	db := openTestDB(t)
	catalog := NewCatalogService(db)
	h := NewAdminHandler(catalog, nil, nil, enqueue)

	app := fiber.New()
	app.Post("/threads/:id/audio", h.EnqueueThreadAudio)
	return app, catalog
}

func TestEnqueueThreadAudioUnknownThread(t *testing.T) {
	app, _ := newAudioTestApp(t, func(uuid.UUID) bool { return true })

	req := httptest.NewRequest(fiber.MethodPost, "/threads/"+uuid.NewString()+"/audio", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestEnqueueThreadAudioQueuesOnlyMissing(t *testing.T) {
	var queued []uuid.UUID
	app, catalog := newAudioTestApp(t, func(id uuid.UUID) bool {
		queued = append(queued, id)
		return true
	})

	thread := Thread{Identifier: "morning-light", Title: "Morning Light", TotalDays: 3}
	require.NoError(t, catalog.CreateThread(&thread))

	withAudio := Devotional{ThreadID: thread.ID, DayNumber: 1, Title: "One", Content: "c", AudioFilename: "done.mp3"}
	missing1 := Devotional{ThreadID: thread.ID, DayNumber: 2, Title: "Two", Content: "c"}
	missing2 := Devotional{ThreadID: thread.ID, DayNumber: 3, Title: "Three", Content: "c"}
	for _, d := range []*Devotional{&withAudio, &missing1, &missing2} {
		require.NoError(t, catalog.CreateDay(d))
	}

	req := httptest.NewRequest(fiber.MethodPost, "/threads/"+thread.ID.String()+"/audio", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	require.Len(t, queued, 2)
	assert.ElementsMatch(t, []uuid.UUID{missing1.ID, missing2.ID}, queued)
}
