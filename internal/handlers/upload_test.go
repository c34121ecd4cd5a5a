package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/studio-backend/internal/services"
)

type fakeUploader struct {
	folder string
	err    error
}

func (f *fakeUploader) Upload(_ context.Context, fh *multipart.FileHeader, folder string) (*services.UploadedFile, error) {
	f.folder = folder
	if f.err != nil {
		return nil, f.err
	}
	return &services.UploadedFile{
		URL:      "https://res.cloudinary.com/demo/" + folder + "/" + fh.Filename,
		PublicID: folder + "/abc",
		Bytes:    int(fh.Size),
	}, nil
}

func withUploader(t *testing.T, u services.Uploader) {
	prev := cloudinaryService
	cloudinaryService = u
	t.Cleanup(func() { cloudinaryService = prev })
}

func multipartRequest(t *testing.T, target string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "logo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadFile(t *testing.T) {
	withUploader(t, nil)
	rec := serve(UploadFile, multipartRequest(t, "/api/upload"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	up := &fakeUploader{}
	withUploader(t, up)
	rec = serve(UploadFile, multipartRequest(t, "/api/upload"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "studio", up.folder)
	body := decode(t, rec)
	assert.Equal(t, "https://res.cloudinary.com/demo/studio/logo.png", body["url"])
	assert.Equal(t, float64(len("png-bytes")), body["file"].(map[string]interface{})["bytes"])

	rec = serve(UploadFile, multipartRequest(t, "/api/upload?folder=../etc"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	withUploader(t, &fakeUploader{err: errors.New("cloudinary down")})
	rec = serve(UploadFile, multipartRequest(t, "/api/upload?folder=briefs"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestUploadFileRequiresFile(t *testing.T) {
	withUploader(t, &fakeUploader{})
	rec := serve(UploadFile, jsonRequest(t, http.MethodPost, "/api/upload", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
