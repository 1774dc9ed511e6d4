package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/receipt-chef/backend/config"
)

func newTestOCRService(t *testing.T, handler http.HandlerFunc) *OCRService {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return NewOCRService(&config.Config{
		OCRAPIURL: ts.URL,
		OCRSecret: "test-secret",
	}, ts.Client())
}

func TestOCRService_NewOCRRequest(t *testing.T) {
	svc := NewOCRService(&config.Config{OCRAPIURL: "http://ocr"}, nil)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	req := svc.NewOCRRequest()

	assert.Equal(t, "V2", req.Version)
	assert.Equal(t, fixed.UnixMilli(), req.Timestamp)
	require.Len(t, req.Images, 1)
	assert.Equal(t, "jpg", req.Images[0].Format)
	assert.Equal(t, "demo", req.Images[0].Name)
	_, err := uuid.Parse(req.RequestID)
	assert.NoError(t, err)

	assert.NotEqual(t, req.RequestID, svc.NewOCRRequest().RequestID)
}

func TestOCRService_ExtractText(t *testing.T) {
	t.Run("should send multipart envelope and return field texts", func(t *testing.T) {
		svc := newTestOCRService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "test-secret", r.Header.Get("X-OCR-SECRET"))

			require.NoError(t, r.ParseMultipartForm(1<<20))

			var envelope OCRRequest
			require.NoError(t, json.Unmarshal([]byte(r.FormValue("message")), &envelope))
			assert.Equal(t, "V2", envelope.Version)
			assert.NotEmpty(t, envelope.RequestID)
			assert.NotZero(t, envelope.Timestamp)

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "receipt.png", header.Filename)
			data, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, []byte("image-bytes"), data)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"version":"V2","requestId":"r1","images":[{"inferResult":"SUCCESS","fields":[{"inferText":"Milk"},{"inferText":"Eggs"}]}]}`))
		})

		texts, err := svc.ExtractText(context.Background(), "receipt.png", []byte("image-bytes"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Milk", "Eggs"}, texts)
	})

	t.Run("should return empty list when fields are absent", func(t *testing.T) {
		svc := newTestOCRService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"images":[{"inferResult":"SUCCESS"}]}`))
		})

		texts, err := svc.ExtractText(context.Background(), "", []byte("img"))
		require.NoError(t, err)
		assert.Empty(t, texts)
	})

	t.Run("should return empty list when images are absent", func(t *testing.T) {
		svc := newTestOCRService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})

		texts, err := svc.ExtractText(context.Background(), "", []byte("img"))
		require.NoError(t, err)
		assert.Empty(t, texts)
	})

	t.Run("should fail with upstream error on non-200 status", func(t *testing.T) {
		svc := newTestOCRService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		texts, err := svc.ExtractText(context.Background(), "", []byte("img"))
		assert.Nil(t, texts)
		require.Error(t, err)

		var up *UpstreamError
		require.ErrorAs(t, err, &up)
		assert.Equal(t, http.StatusUnauthorized, up.StatusCode)
		assert.Equal(t, "API request failed with status code 401", up.Message)
	})

	t.Run("should fail with upstream error on malformed body", func(t *testing.T) {
		svc := newTestOCRService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		})

		_, err := svc.ExtractText(context.Background(), "", []byte("img"))
		assert.True(t, IsUpstream(err))
	})
}

func TestOCRResponse_Texts(t *testing.T) {
	var resp OCRResponse
	require.NoError(t, json.Unmarshal([]byte(`{"images":[
		{"fields":[{"inferText":"first"}]},
		{"fields":[{"inferText":"second image"}]}
	]}`), &resp))

	assert.Equal(t, []string{"first"}, resp.Texts())
}
