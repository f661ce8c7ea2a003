package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingloop/player-api/api/types"
	"github.com/lingloop/player-api/internal/database"
	"github.com/lingloop/player-api/internal/models"
	"github.com/lingloop/player-api/internal/services/mediastore"
	"github.com/lingloop/player-api/internal/services/metadata"
	"github.com/lingloop/player-api/internal/store"
)

func setupRouter(t *testing.T) (*gin.Engine, *types.Dependencies) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.AutoMigrate(&models.MetaRecord{}, &models.MediaObject{}))

	storage, err := mediastore.NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)
	mediaSvc := mediastore.NewService(mediastore.NewRepository(db.DB), storage)

	deps := &types.Dependencies{
		DB:    db,
		Meta:  metadata.NewService(store.NewKV(db.DB), mediaSvc),
		Media: mediaSvc,
	}

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1/projects"), deps, func(c *gin.Context) { c.Next() })
	return router, deps
}

func createProject(t *testing.T, deps *types.Dependencies) *models.Project {
	t.Helper()
	project := models.NewProject("media test")
	require.NoError(t, deps.Meta.SaveProject(context.Background(), project))
	return project
}

func uploadFile(t *testing.T, router *gin.Engine, projectID, fileName, contentType string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/media", projectID), &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)
	return w
}

func TestUpload_StoresPayloadAndTagsProject(t *testing.T) {
	router, deps := setupRouter(t)
	project := createProject(t, deps)

	w := uploadFile(t, router, project.ID, "lesson.mp4", "video/mp4", []byte("fake video bytes"))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp types.MediaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Media)
	assert.Equal(t, "lesson.mp4", resp.Media.FileName)
	assert.Equal(t, int64(len("fake video bytes")), resp.Media.SizeBytes)

	stored, err := deps.Meta.GetProject(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeVideo, stored.MediaType)
	assert.Equal(t, "lesson.mp4", stored.MediaName)
}

func TestUpload_ReplacesPreviousPayload(t *testing.T) {
	router, deps := setupRouter(t)
	project := createProject(t, deps)

	require.Equal(t, http.StatusCreated, uploadFile(t, router, project.ID, "old.mp3", "audio/mpeg", []byte("old")).Code)
	require.Equal(t, http.StatusCreated, uploadFile(t, router, project.ID, "new.mp3", "audio/mpeg", []byte("replacement")).Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/projects/%s/media", project.ID), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "replacement", w.Body.String())
}

func TestUpload_UnknownProject(t *testing.T) {
	router, _ := setupRouter(t)

	w := uploadFile(t, router, "ghost", "a.mp3", "audio/mpeg", []byte("x"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpload_MissingFile(t *testing.T) {
	router, deps := setupRouter(t)
	project := createProject(t, deps)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/media", project.ID), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStream_SupportsRangeRequests(t *testing.T) {
	router, deps := setupRouter(t)
	project := createProject(t, deps)
	require.Equal(t, http.StatusCreated, uploadFile(t, router, project.ID, "clip.mp3", "audio/mpeg", []byte("0123456789")).Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/projects/%s/media", project.ID), nil)
	req.Header.Set("Range", "bytes=2-5")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "2345", w.Body.String())
	assert.Equal(t, "bytes 2-5/10", w.Header().Get("Content-Range"))
}

func TestStream_NoMedia(t *testing.T) {
	router, deps := setupRouter(t)
	project := createProject(t, deps)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/projects/%s/media", project.ID), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStat(t *testing.T) {
	router, deps := setupRouter(t)
	project := createProject(t, deps)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodHead, fmt.Sprintf("/api/v1/projects/%s/media", project.ID), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusCreated, uploadFile(t, router, project.ID, "clip.mp3", "audio/mpeg", []byte("payload")).Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodHead, fmt.Sprintf("/api/v1/projects/%s/media", project.ID), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "7", w.Header().Get("Content-Length"))
}

func TestDelete_ResetsProjectMediaFields(t *testing.T) {
	router, deps := setupRouter(t)
	project := createProject(t, deps)
	require.Equal(t, http.StatusCreated, uploadFile(t, router, project.ID, "clip.mp3", "audio/mpeg", []byte("payload")).Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/projects/%s/media", project.ID), nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := deps.Meta.GetProject(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeNone, stored.MediaType)
	assert.Empty(t, stored.MediaName)

	_, err = deps.Media.Stat(context.Background(), project.ID)
	assert.Error(t, err)
}

func TestDelete_AbsentMediaIsNoOp(t *testing.T) {
	router, deps := setupRouter(t)
	project := createProject(t, deps)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/projects/%s/media", project.ID), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
