package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/truestate/sales-api/internal/config"
	"github.com/truestate/sales-api/internal/models"
)

// SalesStore is the data access surface the handlers depend on
type SalesStore interface {
	ListSales(ctx context.Context, params *models.SaleListParams) ([]*models.Sale, int, error)
	GetSalesStatistics(ctx context.Context, params *models.SaleListParams) (*models.SalesStatistics, error)
	GetFilterOptions(ctx context.Context) (*models.FilterOptions, error)
}

// Handler holds all handler dependencies
type Handler struct {
	store SalesStore
	cfg   *config.Config
}

// New creates a new Handler instance
func New(store SalesStore, cfg *config.Config) *Handler {
	return &Handler{
		store: store,
		cfg:   cfg,
	}
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}

// ErrorResponse is the uniform error envelope
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// SalesListResponse combines one page of records with the aggregate
// statistics and page metadata for the full match set.
type SalesListResponse struct {
	Success    bool                    `json:"success"`
	Data       []*models.Sale          `json:"data"`
	Statistics *models.SalesStatistics `json:"statistics"`
	Pagination models.Pagination       `json:"pagination"`
}

// FilterOptionsResponse wraps the filter option payload
type FilterOptionsResponse struct {
	Success bool                  `json:"success"`
	Data    *models.FilterOptions `json:"data"`
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string, err error) error {
	resp := ErrorResponse{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.Status(status).JSON(resp)
}
