package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	uploadsvc "carbid-backend/internal/application/uploads"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	signedURL string
	err       error
	lastPath  string
}

func (f *fakeStorage) CreateSignedUploadURL(_ context.Context, bucket, path string) (string, error) {
	f.lastPath = path
	if f.err != nil {
		return "", f.err
	}
	return f.signedURL, nil
}

func uploadsApp(client uploadsvc.StorageClient) *fiber.App {
	h := &Handlers{Service: &uploadsvc.Service{
		Client:      client,
		SupabaseURL: "https://example.supabase.co",
	}}
	app := fiber.New()
	app.Post("/uploads/car-image", h.UploadCarImage)
	return app
}

func TestUploadCarImage_Success(t *testing.T) {
	fake := &fakeStorage{signedURL: "https://example.supabase.co/storage/v1/object/upload/sign/car-images/x?token=abc"}
	app := uploadsApp(fake)

	body, _ := json.Marshal(map[string]string{"file_name": "front.jpg"})
	req := httptest.NewRequest("POST", "/uploads/car-image", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	data, _ := out["data"].(map[string]interface{})
	require.NotNil(t, data)
	assert.Equal(t, fake.signedURL, data["uploadUrl"])
	public, _ := data["publicUrl"].(string)
	assert.True(t, strings.HasPrefix(public, "https://example.supabase.co/storage/v1/object/public/car-images/"))
	assert.True(t, strings.HasSuffix(fake.lastPath, "-front.jpg"))
}

func TestUploadCarImage_MissingFileName(t *testing.T) {
	app := uploadsApp(&fakeStorage{})

	body, _ := json.Marshal(map[string]string{})
	req := httptest.NewRequest("POST", "/uploads/car-image", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadCarImage_StorageError(t *testing.T) {
	app := uploadsApp(&fakeStorage{err: errors.New("boom")})

	body, _ := json.Marshal(map[string]string{"file_name": "front.jpg"})
	req := httptest.NewRequest("POST", "/uploads/car-image", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
