package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"AgriLink/internal/apperror"
)

// ClassifierService forwards crop images to the external disease-inference
// endpoint. The image is streamed through; nothing is stored locally.
type ClassifierService struct {
	BaseURL string
	client  *http.Client
}

func NewClassifierService() *ClassifierService {
	return &ClassifierService{
		BaseURL: os.Getenv("CLASSIFIER_URL"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type ClassificationResult struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// Classify uploads the image as multipart form data and returns the
// predicted class with its confidence. Any upstream failure surfaces as a
// labeled error rather than a fabricated result.
func (s *ClassifierService) Classify(file *multipart.FileHeader) (*ClassificationResult, error) {
	if s.BaseURL == "" {
		return nil, apperror.NewUpstreamError("disease classifier is not configured", nil)
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperror.NewValidationError("failed to open uploaded image")
	}
	defer src.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", file.Filename)
	if err != nil {
		return nil, apperror.NewInternalError("failed to build upload request", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, apperror.NewInternalError("failed to read uploaded image", err)
	}
	if err := writer.Close(); err != nil {
		return nil, apperror.NewInternalError("failed to finish upload request", err)
	}

	req, err := http.NewRequest("POST", s.BaseURL+"/predict", &body)
	if err != nil {
		return nil, apperror.NewInternalError("failed to create classifier request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperror.NewUpstreamError("disease classifier is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.NewUpstreamError(
			fmt.Sprintf("disease classifier returned status %d", resp.StatusCode), nil)
	}

	var result ClassificationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperror.NewUpstreamError("failed to decode classifier response", err)
	}
	if result.Class == "" {
		return nil, apperror.NewUpstreamError("classifier returned an empty prediction", nil)
	}
	return &result, nil
}
