package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pageza/receipt-chef/backend/internal/types"
)

// archiveTimeout bounds a background archive upload
const archiveTimeout = 30 * time.Second

// ReceiptService runs the receipt pipeline: OCR, then ingredient classification
type ReceiptService struct {
	ocr     IOCRService
	llm     ILLMService
	archive IReceiptArchive

	pending sync.WaitGroup
}

// NewReceiptService creates a new ReceiptService. archive may be nil.
func NewReceiptService(ocr IOCRService, llm ILLMService, archive IReceiptArchive) *ReceiptService {
	return &ReceiptService{
		ocr:     ocr,
		llm:     llm,
		archive: archive,
	}
}

// ProcessReceipt extracts the receipt's items and returns the model's classification
func (s *ReceiptService) ProcessReceipt(ctx context.Context, filename string, image []byte) (*types.IngredientsResponse, error) {
	if len(image) == 0 {
		return nil, NewValidationError("Uploaded file is empty")
	}

	if s.archive != nil {
		s.archiveAsync(ctx, filename, image)
	}

	items, err := s.ocr.ExtractText(ctx, filename, image)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, NewValidationError("No items found")
	}

	ingredients, err := s.llm.ClassifyIngredients(ctx, items)
	if err != nil {
		return nil, err
	}

	return &types.IngredientsResponse{Ingredients: ingredients}, nil
}

// archiveAsync uploads the image in the background. The upload outlives the
// request but not archiveTimeout; failures are only logged.
func (s *ReceiptService) archiveAsync(ctx context.Context, filename string, image []byte) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
		defer cancel()

		if key, err := s.archive.Store(ctx, filename, image); err != nil {
			log.Printf("[ReceiptService] archive failed: %v", err)
		} else {
			log.Printf("[ReceiptService] archived receipt as %s", key)
		}
	}()
}

// Wait blocks until background archive uploads have finished
func (s *ReceiptService) Wait() {
	s.pending.Wait()
}
