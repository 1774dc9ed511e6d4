package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/receipt-chef/backend/config"
)

const (
	ocrServiceName   = "ocr"
	ocrImageFormat   = "jpg"
	ocrImageName     = "demo"
	ocrVersion       = "V2"
	ocrSecretHeader  = "X-OCR-SECRET"
	ocrMessageField  = "message"
	ocrFileField     = "file"
	ocrDefaultUpload = "receipt.jpg"
)

// OCRImage describes one image in an OCR request envelope
type OCRImage struct {
	Format string `json:"format"`
	Name   string `json:"name"`
}

// OCRRequest is the JSON envelope sent in the multipart "message" field
type OCRRequest struct {
	Images    []OCRImage `json:"images"`
	RequestID string     `json:"requestId"`
	Version   string     `json:"version"`
	Timestamp int64      `json:"timestamp"`
}

// OCRField is a single recognized text fragment
type OCRField struct {
	InferText       string  `json:"inferText"`
	InferConfidence float64 `json:"inferConfidence"`
}

// OCRResponse is the subset of the OCR vendor response this service reads
type OCRResponse struct {
	Version   string `json:"version"`
	RequestID string `json:"requestId"`
	Timestamp int64  `json:"timestamp"`
	Images    []struct {
		UID         string     `json:"uid"`
		Name        string     `json:"name"`
		InferResult string     `json:"inferResult"`
		Message     string     `json:"message"`
		Fields      []OCRField `json:"fields"`
	} `json:"images"`
}

// Texts returns the inferText of every field in the first image, in order.
// A response without images or fields yields an empty list.
func (r *OCRResponse) Texts() []string {
	if len(r.Images) == 0 {
		return []string{}
	}
	fields := r.Images[0].Fields
	texts := make([]string, 0, len(fields))
	for _, f := range fields {
		texts = append(texts, f.InferText)
	}
	return texts
}

// OCRService sends receipt images to the OCR API
type OCRService struct {
	apiURL string
	secret string
	client *http.Client
	now    func() time.Time
}

// NewOCRService creates a new OCRService instance
func NewOCRService(cfg *config.Config, client *http.Client) *OCRService {
	if client == nil {
		client = &http.Client{Timeout: cfg.UpstreamTimeout}
	}
	return &OCRService{
		apiURL: cfg.OCRAPIURL,
		secret: cfg.OCRSecret,
		client: client,
		now:    time.Now,
	}
}

// NewOCRRequest builds a request envelope with a fresh request ID and millisecond timestamp
func (s *OCRService) NewOCRRequest() OCRRequest {
	return OCRRequest{
		Images:    []OCRImage{{Format: ocrImageFormat, Name: ocrImageName}},
		RequestID: uuid.New().String(),
		Version:   ocrVersion,
		Timestamp: s.now().UnixMilli(),
	}
}

// ExtractText submits the image and returns the recognized text fragments
func (s *OCRService) ExtractText(ctx context.Context, filename string, image []byte) ([]string, error) {
	envelope, err := json.Marshal(s.NewOCRRequest())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal OCR request: %w", err)
	}

	if filename == "" {
		filename = ocrDefaultUpload
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField(ocrMessageField, string(envelope)); err != nil {
		return nil, fmt.Errorf("failed to write message field: %w", err)
	}
	part, err := writer.CreateFormFile(ocrFileField, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create file field: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(ocrSecretHeader, s.secret)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, NewUpstreamError(ocrServiceName, "API request failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("[OCRService] API request failed with status %d: %s", resp.StatusCode, string(respBody))
		return nil, NewUpstreamError(ocrServiceName,
			fmt.Sprintf("API request failed with status code %d", resp.StatusCode), resp.StatusCode, nil)
	}

	var result OCRResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, NewUpstreamError(ocrServiceName, "failed to decode response", resp.StatusCode, err)
	}

	texts := result.Texts()
	log.Printf("[OCRService] request %s recognized %d fields", result.RequestID, len(texts))
	return texts, nil
}
