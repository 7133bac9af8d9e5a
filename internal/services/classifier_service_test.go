package services

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgriLink/internal/apperror"
)

// uploadedFileHeader builds a *multipart.FileHeader the way fiber hands one
// to the handler.
func uploadedFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["file"][0]
}

func TestClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Len(t, r.MultipartForm.File["file"], 1)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ClassificationResult{
			Class:      "Late Blight",
			Confidence: 0.94,
		})
	}))
	defer server.Close()

	svc := &ClassifierService{BaseURL: server.URL, client: server.Client()}
	file := uploadedFileHeader(t, "leaf.jpg", []byte("fake image bytes"))

	result, err := svc.Classify(file)
	require.NoError(t, err)
	assert.Equal(t, "Late Blight", result.Class)
	assert.Equal(t, 0.94, result.Confidence)
}

func TestClassify_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := &ClassifierService{BaseURL: server.URL, client: server.Client()}
	file := uploadedFileHeader(t, "leaf.jpg", []byte("fake image bytes"))

	_, err := svc.Classify(file)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUpstream))
}

func TestClassify_NotConfigured(t *testing.T) {
	svc := &ClassifierService{client: http.DefaultClient}
	file := uploadedFileHeader(t, "leaf.jpg", []byte("fake image bytes"))

	_, err := svc.Classify(file)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUpstream))
}
