package service

import (
	"context"

	"github.com/pageza/receipt-chef/backend/internal/types"
)

// IOCRService extracts text fragments from an image
type IOCRService interface {
	ExtractText(ctx context.Context, filename string, image []byte) ([]string, error)
}

// ILLMService classifies recognized receipt items
type ILLMService interface {
	ClassifyIngredients(ctx context.Context, items []string) (string, error)
}

// IReceiptArchive keeps a copy of uploaded receipt images
type IReceiptArchive interface {
	Store(ctx context.Context, filename string, image []byte) (string, error)
}

// IReceiptService turns a receipt image into a list of ingredients
type IReceiptService interface {
	ProcessReceipt(ctx context.Context, filename string, image []byte) (*types.IngredientsResponse, error)
}

// IRecipeService defines the interface for recipe search
type IRecipeService interface {
	SearchRecipes(ctx context.Context, term string) ([]types.RecipeRecord, error)
}
