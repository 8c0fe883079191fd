package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/truestate/sales-api/internal/models"
)

// GetSales returns a filtered, sorted page of sales records together with
// aggregate statistics computed over every matching record.
func (h *Handler) GetSales(c *fiber.Ctx) error {
	raw := &models.RawSaleQuery{
		Search:        c.Query("search"),
		Region:        c.Query("region"),
		Gender:        c.Query("gender"),
		AgeMin:        queryAlias(c, "ageMin", "minAge"),
		AgeMax:        queryAlias(c, "ageMax", "maxAge"),
		Category:      c.Query("category"),
		Tags:          c.Query("tags"),
		PaymentMethod: c.Query("paymentMethod"),
		DateStart:     queryAlias(c, "dateStart", "startDate"),
		DateEnd:       queryAlias(c, "dateEnd", "endDate"),
		SortBy:        c.Query("sortBy", "Date"),
		SortOrder:     c.Query("sortOrder", "desc"),
		Page:          c.Query("page"),
		Limit:         c.Query("limit"),
	}

	params, err := raw.Normalize()
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return Error(c, fiber.StatusBadRequest, verr.Message, err)
		}
		return Error(c, fiber.StatusBadRequest, "Invalid query parameters", err)
	}

	var (
		sales []*models.Sale
		total int
		stats *models.SalesStatistics
	)

	// The page listing and the statistics aggregate query the database in
	// parallel; both cover the same filter.
	g, ctx := errgroup.WithContext(c.Context())
	g.Go(func() error {
		var err error
		sales, total, err = h.store.ListSales(ctx, params)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = h.store.GetSalesStatistics(ctx, params)
		return err
	})
	if err := g.Wait(); err != nil {
		return Error(c, fiber.StatusInternalServerError, "Failed to fetch sales data", err)
	}

	return c.JSON(SalesListResponse{
		Success:    true,
		Data:       sales,
		Statistics: stats,
		Pagination: models.NewPagination(params.Page, params.Limit, total),
	})
}

// GetFilterOptions returns the distinct values available for each
// filterable field, used to populate the dashboard controls.
func (h *Handler) GetFilterOptions(c *fiber.Ctx) error {
	opts, err := h.store.GetFilterOptions(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "Failed to fetch filter options", err)
	}

	return c.JSON(FilterOptionsResponse{
		Success: true,
		Data:    opts,
	})
}

// queryAlias returns the first non-empty value among the spellings a
// parameter has been requested under.
func queryAlias(c *fiber.Ctx, names ...string) string {
	for _, name := range names {
		if v := c.Query(name); v != "" {
			return v
		}
	}
	return ""
}
