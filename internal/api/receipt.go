package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/receipt-chef/backend/internal/service"
)

// ReceiptHandler handles receipt upload requests
type ReceiptHandler struct {
	receiptService service.IReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler instance
func NewReceiptHandler(receiptService service.IReceiptService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
	}
}

// RegisterRoutes registers the receipt routes
func (h *ReceiptHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/process_recipe", h.ProcessReceipt)
}

// ProcessReceipt reads the uploaded "file" field and returns the classified ingredients
func (h *ReceiptHandler) ProcessReceipt(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(service.NewValidationError("No file part"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		_ = c.Error(fmt.Errorf("failed to read upload: %w", err))
		return
	}

	resp, err := h.receiptService.ProcessReceipt(c.Request.Context(), fileHeader.Filename, image)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
