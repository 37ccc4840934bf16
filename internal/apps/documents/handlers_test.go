package documents

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/apps"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/apps/appstest"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T) *appstest.Env {
	return appstest.New(t, func(e *appstest.Env) apps.Plugin { return New(e.Docs) })
}

func upload(t *testing.T, env *appstest.Env, token string) models.Document {
	t.Helper()
	resp := env.Do(t, http.MethodPost, "/api/p/documents", token, UploadRequest{
		FileName: "marks.pdf", FileType: "application/pdf", FileSize: 245760, Category: models.CategoryMarksheet,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, `"1"`, resp.Header.Get(fiber.HeaderETag))
	var doc models.Document
	appstest.Decode(t, resp, &doc)
	return doc
}

func TestUploadAndStats(t *testing.T) {
	env := newEnv(t)
	_, token := env.User(t, "a@uni.edu")

	doc := upload(t, env, token)
	assert.Equal(t, models.StatusPending, doc.Status)
	assert.NotEmpty(t, doc.VerificationCode)

	var stats services.DocumentStats
	appstest.Decode(t, env.Do(t, http.MethodGet, "/api/p/documents/stats", token, nil), &stats)
	assert.Equal(t, 1, stats.ByCategory[models.CategoryMarksheet])
	assert.Equal(t, int64(245760), stats.TotalSizeBytes)

	var list DocumentListResponse
	appstest.Decode(t, env.Do(t, http.MethodGet, "/api/p/documents?category=identity", token, nil), &list)
	assert.Zero(t, list.Total)
}

func TestRequiresToken(t *testing.T) {
	env := newEnv(t)
	resp := env.Do(t, http.MethodGet, "/api/p/documents", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUploadValidation(t *testing.T) {
	env := newEnv(t)
	_, token := env.User(t, "a@uni.edu")

	resp := env.Do(t, http.MethodPost, "/api/p/documents", token, UploadRequest{FileName: "x.pdf", FileSize: 10, Category: "misc"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var body dto.ErrorResponse
	appstest.Decode(t, resp, &body)
	assert.True(t, body.Error)
	assert.Contains(t, body.Message, "category")
}

func TestOwnerOnly(t *testing.T) {
	env := newEnv(t)
	_, owner := env.User(t, "a@uni.edu")
	_, other := env.User(t, "b@uni.edu")
	doc := upload(t, env, owner)

	path := "/api/p/documents/" + doc.ID.String()
	assert.Equal(t, fiber.StatusForbidden, env.Do(t, http.MethodGet, path, other, nil).StatusCode)
	assert.Equal(t, fiber.StatusForbidden, env.Do(t, http.MethodDelete, path, other, nil).StatusCode)
	assert.Equal(t, fiber.StatusOK, env.Do(t, http.MethodDelete, path, owner, nil).StatusCode)
	assert.Equal(t, fiber.StatusNotFound, env.Do(t, http.MethodGet, path, owner, nil).StatusCode)
	assert.Equal(t, fiber.StatusBadRequest, env.Do(t, http.MethodGet, "/api/p/documents/nope", owner, nil).StatusCode)
}

func TestUpdateWithIfMatch(t *testing.T) {
	env := newEnv(t)
	_, token := env.User(t, "a@uni.edu")
	doc := upload(t, env, token)
	path := "/api/p/documents/" + doc.ID.String()
	category := models.CategoryCertificate

	resp := env.Do(t, http.MethodPatch, path, token, UpdateRequest{Category: &category}, fiber.HeaderIfMatch, `"1"`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, `"2"`, resp.Header.Get(fiber.HeaderETag))

	resp = env.Do(t, http.MethodPatch, path, token, UpdateRequest{Category: &category}, fiber.HeaderIfMatch, `"1"`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = env.Do(t, http.MethodPatch, path, token, UpdateRequest{Category: &category}, fiber.HeaderIfMatch, "abc")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateIgnoresStatus(t *testing.T) {
	env := newEnv(t)
	_, token := env.User(t, "a@uni.edu")
	doc := upload(t, env, token)

	resp := env.Do(t, http.MethodPatch, "/api/p/documents/"+doc.ID.String(), token,
		map[string]interface{}{"status": "verified", "tags": []string{"self"}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got models.Document
	appstest.Decode(t, resp, &got)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.JSONEq(t, `["self"]`, string(got.Tags))
}

func TestAttachContentAndLink(t *testing.T) {
	env := newEnv(t)
	_, token := env.User(t, "a@uni.edu")
	doc := upload(t, env, token)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "marks.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("transcript"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/p/documents/"+doc.ID.String()+"/content", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := env.App.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var updated models.Document
	appstest.Decode(t, resp, &updated)
	assert.Equal(t, int64(len("transcript")), updated.FileSize)

	var link ContentLinkResponse
	appstest.Decode(t, env.Do(t, http.MethodGet, "/api/p/documents/"+doc.ID.String()+"/content", token, nil), &link)
	assert.Contains(t, link.URL, appstest.BaseURL+"/api/blobs/documents/"+doc.ID.String())
}

func TestActivity(t *testing.T) {
	env := newEnv(t)
	_, token := env.User(t, "a@uni.edu")
	doc := upload(t, env, token)

	var got ActivityResponse
	appstest.Decode(t, env.Do(t, http.MethodGet, "/api/p/documents/"+doc.ID.String()+"/activity", token, nil), &got)
	require.Len(t, got.Activity, 1)
	assert.Equal(t, models.ActionUpload, got.Activity[0].Action)
}
