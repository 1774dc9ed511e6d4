package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/receipt-chef/backend/internal/types"
)

// MockOCRService is a mock implementation of service.IOCRService
type MockOCRService struct {
	mock.Mock
}

func (m *MockOCRService) ExtractText(ctx context.Context, filename string, image []byte) ([]string, error) {
	args := m.Called(ctx, filename, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockLLMService is a mock implementation of service.ILLMService
type MockLLMService struct {
	mock.Mock
}

func (m *MockLLMService) ClassifyIngredients(ctx context.Context, items []string) (string, error) {
	args := m.Called(ctx, items)
	return args.String(0), args.Error(1)
}

// MockReceiptArchive is a mock implementation of service.IReceiptArchive
type MockReceiptArchive struct {
	mock.Mock
}

func (m *MockReceiptArchive) Store(ctx context.Context, filename string, image []byte) (string, error) {
	args := m.Called(ctx, filename, image)
	return args.String(0), args.Error(1)
}

// MockReceiptService is a mock implementation of service.IReceiptService
type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) ProcessReceipt(ctx context.Context, filename string, image []byte) (*types.IngredientsResponse, error) {
	args := m.Called(ctx, filename, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.IngredientsResponse), args.Error(1)
}

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) SearchRecipes(ctx context.Context, term string) ([]types.RecipeRecord, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RecipeRecord), args.Error(1)
}
