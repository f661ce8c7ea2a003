package player

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingloop/player-api/api/types"
	"github.com/lingloop/player-api/internal/database"
	"github.com/lingloop/player-api/internal/models"
	"github.com/lingloop/player-api/internal/services/metadata"
	playersvc "github.com/lingloop/player-api/internal/services/player"
	"github.com/lingloop/player-api/internal/services/session"
	"github.com/lingloop/player-api/internal/store"
)

func setupRouter(t *testing.T) (*gin.Engine, *types.Dependencies, *models.Project) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.AutoMigrate(&models.MetaRecord{}))

	meta := metadata.NewService(store.NewKV(db.DB), nil)

	project := models.NewProject("drill")
	project.Sentences = []models.Segment{
		{ID: "s1", Text: "bonjour", StartTime: 0, EndTime: 2, LoopCount: 1},
		{ID: "s2", Text: "merci", StartTime: 2, EndTime: 4, LoopCount: 1},
	}
	require.NoError(t, meta.SaveProject(context.Background(), project))

	directives := playersvc.NewDirectiveBuffer()
	engine := playersvc.NewEngine(directives, playersvc.NewScheduler(), models.DefaultPlaybackSettings(), playersvc.Events{})
	sessions := session.NewManager(engine, meta, time.Minute)
	t.Cleanup(func() { sessions.Unload(context.Background()) })

	deps := &types.Dependencies{
		DB:         db,
		Meta:       meta,
		Sessions:   sessions,
		Directives: directives,
	}

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1/player"), deps)
	return router, deps, project
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func playerResponse(t *testing.T, w *httptest.ResponseRecorder) types.PlayerResponse {
	t.Helper()
	var resp types.PlayerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func directiveTypes(directives []playersvc.Directive) []string {
	out := make([]string, 0, len(directives))
	for _, d := range directives {
		out = append(out, d.Type)
	}
	return out
}

func TestLoad(t *testing.T) {
	router, _, project := setupRouter(t)

	w := postJSON(t, router, "/api/v1/player/load", LoadRequest{ProjectID: project.ID})
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.SingleProjectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, project.ID, resp.Project.ID)
	assert.Len(t, resp.Project.Sentences, 2)
}

func TestLoad_UnknownProject(t *testing.T) {
	router, _, _ := setupRouter(t)

	w := postJSON(t, router, "/api/v1/player/load", LoadRequest{ProjectID: "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelect_EmitsSeekAndPlay(t *testing.T) {
	router, _, project := setupRouter(t)
	require.Equal(t, http.StatusOK, postJSON(t, router, "/api/v1/player/load", LoadRequest{ProjectID: project.ID}).Code)

	w := postJSON(t, router, "/api/v1/player/select", SelectRequest{SegmentID: "s2"})
	require.Equal(t, http.StatusOK, w.Code)

	resp := playerResponse(t, w)
	assert.Equal(t, "s2", resp.State.ActiveSegmentID)
	assert.Equal(t, 1, resp.State.ActiveIndex)
	assert.Equal(t, []string{playersvc.DirectiveSeek, playersvc.DirectivePlay}, directiveTypes(resp.Directives))
}

func TestSelect_UnknownSegment(t *testing.T) {
	router, _, project := setupRouter(t)
	require.Equal(t, http.StatusOK, postJSON(t, router, "/api/v1/player/load", LoadRequest{ProjectID: project.ID}).Code)

	w := postJSON(t, router, "/api/v1/player/select", SelectRequest{SegmentID: "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPosition_InsideSegmentIsQuiet(t *testing.T) {
	router, _, project := setupRouter(t)
	require.Equal(t, http.StatusOK, postJSON(t, router, "/api/v1/player/load", LoadRequest{ProjectID: project.ID}).Code)
	postJSON(t, router, "/api/v1/player/select", SelectRequest{SegmentID: "s1"})

	w := postJSON(t, router, "/api/v1/player/position", PositionRequest{Position: 1.0})
	require.Equal(t, http.StatusOK, w.Code)

	resp := playerResponse(t, w)
	assert.Empty(t, resp.Directives)
	assert.InDelta(t, 1.0, resp.State.Position, 1e-9)
}

func TestNextAndPrevious(t *testing.T) {
	router, _, project := setupRouter(t)
	require.Equal(t, http.StatusOK, postJSON(t, router, "/api/v1/player/load", LoadRequest{ProjectID: project.ID}).Code)

	w := postJSON(t, router, "/api/v1/player/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s1", playerResponse(t, w).State.ActiveSegmentID)

	w = postJSON(t, router, "/api/v1/player/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s2", playerResponse(t, w).State.ActiveSegmentID)

	w = postJSON(t, router, "/api/v1/player/previous", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s1", playerResponse(t, w).State.ActiveSegmentID)
}

func TestState_DrainsPendingDirectives(t *testing.T) {
	router, _, project := setupRouter(t)
	require.Equal(t, http.StatusOK, postJSON(t, router, "/api/v1/player/load", LoadRequest{ProjectID: project.ID}).Code)
	postJSON(t, router, "/api/v1/player/select", SelectRequest{SegmentID: "s1"})

	// The select already drained its own directives; a following state
	// exchange must come back empty.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/player/state", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	resp := playerResponse(t, w)
	assert.Empty(t, resp.Directives)
	assert.Equal(t, "s1", resp.State.ActiveSegmentID)
}

func TestUnload(t *testing.T) {
	router, deps, project := setupRouter(t)
	require.Equal(t, http.StatusOK, postJSON(t, router, "/api/v1/player/load", LoadRequest{ProjectID: project.ID}).Code)

	w := postJSON(t, router, "/api/v1/player/unload", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, deps.Sessions.Project())
}

func TestRate_AppliesImmediatelyWithoutPersisting(t *testing.T) {
	router, deps, project := setupRouter(t)
	require.Equal(t, http.StatusOK, postJSON(t, router, "/api/v1/player/load", LoadRequest{ProjectID: project.ID}).Code)
	require.Equal(t, http.StatusOK, postJSON(t, router, "/api/v1/player/select", SelectRequest{SegmentID: "s1"}).Code)
	deps.Directives.Drain()

	w := postJSON(t, router, "/api/v1/player/rate", RateRequest{Rate: 1.5})
	require.Equal(t, http.StatusOK, w.Code)

	resp := playerResponse(t, w)
	assert.Contains(t, directiveTypes(resp.Directives), playersvc.DirectiveSetRate)
	assert.InDelta(t, 1.5, deps.Sessions.Engine().Settings().PlaybackRate, 1e-9)

	// The durable settings record is untouched; only the settings endpoint
	// persists a rate.
	saved := deps.Meta.LoadSettings(context.Background())
	assert.InDelta(t, models.DefaultPlaybackSettings().PlaybackRate, saved.PlaybackRate, 1e-9)
}

func TestRate_ClampedToSupportedRange(t *testing.T) {
	router, deps, project := setupRouter(t)
	require.Equal(t, http.StatusOK, postJSON(t, router, "/api/v1/player/load", LoadRequest{ProjectID: project.ID}).Code)

	w := postJSON(t, router, "/api/v1/player/rate", RateRequest{Rate: 99})
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, models.MaxPlaybackRate, deps.Sessions.Engine().Settings().PlaybackRate, 1e-9)
}
