package database

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/truestate/sales-api/internal/models"
)

// saleColumns is the column list scanned into models.Sale
const saleColumns = `
	id, transaction_id, sale_date, customer_id, customer_name, phone_number,
	gender, age, customer_region, customer_type,
	product_id, product_name, brand, product_category, tags,
	quantity, price_per_unit, discount_percentage, total_amount, final_amount,
	payment_method, order_status, delivery_type,
	store_id, store_location, salesperson_id, employee_name`

// buildSalesFilter translates normalized criteria into a WHERE clause with
// positional args. An empty criteria set returns an empty clause, matching
// every record.
func buildSalesFilter(params *models.SaleListParams) (string, []interface{}) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if params.Search != "" {
		// Customer name matches at the start of the string or at a word
		// boundary; the other identifier fields match anywhere. Metacharacters
		// are escaped so user input cannot alter the pattern.
		escaped := regexp.QuoteMeta(params.Search)
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(customer_name ~* $%d OR phone_number ~* $%d OR customer_id ~* $%d OR transaction_id ~* $%d)",
			argIndex, argIndex+1, argIndex+1, argIndex+1,
		))
		args = append(args, `(^|\m)`+escaped, escaped)
		argIndex += 2
	}

	if len(params.Regions) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("customer_region = ANY($%d)", argIndex))
		args = append(args, params.Regions)
		argIndex++
	}

	if len(params.Genders) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("gender = ANY($%d)", argIndex))
		args = append(args, params.Genders)
		argIndex++
	}

	if len(params.Categories) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("product_category = ANY($%d)", argIndex))
		args = append(args, params.Categories)
		argIndex++
	}

	if len(params.Tags) > 0 {
		// Array overlap: a record matches when any of its tags is requested
		whereClauses = append(whereClauses, fmt.Sprintf("tags && $%d", argIndex))
		args = append(args, params.Tags)
		argIndex++
	}

	if len(params.PaymentMethods) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("payment_method = ANY($%d)", argIndex))
		args = append(args, params.PaymentMethods)
		argIndex++
	}

	if params.AgeMin != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("age >= $%d", argIndex))
		args = append(args, *params.AgeMin)
		argIndex++
	}

	if params.AgeMax != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("age <= $%d", argIndex))
		args = append(args, *params.AgeMax)
		argIndex++
	}

	if params.DateStart != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("sale_date >= $%d", argIndex))
		args = append(args, *params.DateStart)
		argIndex++
	}

	if params.DateEnd != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("sale_date <= $%d", argIndex))
		args = append(args, *params.DateEnd)
		argIndex++
	}

	if len(whereClauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(whereClauses, " AND "), args
}

// ListSales returns one page of matching sales plus the total match count
func (db *DB) ListSales(ctx context.Context, params *models.SaleListParams) ([]*models.Sale, int, error) {
	whereClause, args := buildSalesFilter(params)

	// Get total count
	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM sales %s", whereClause)
	if err := db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}

	// Secondary sort on id keeps paging stable when the sort key repeats
	argIndex := len(args) + 1
	query := fmt.Sprintf(`
		SELECT %s
		FROM sales
		%s
		ORDER BY %s %s, id ASC
		LIMIT $%d OFFSET $%d
	`, saleColumns, whereClause, params.SortColumn, direction, argIndex, argIndex+1)

	args = append(args, params.Limit, params.Offset())

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	sales := []*models.Sale{}
	for rows.Next() {
		s := &models.Sale{}
		err := rows.Scan(
			&s.ID, &s.TransactionID, &s.Date, &s.CustomerID, &s.CustomerName, &s.PhoneNumber,
			&s.Gender, &s.Age, &s.CustomerRegion, &s.CustomerType,
			&s.ProductID, &s.ProductName, &s.Brand, &s.ProductCategory, &s.Tags,
			&s.Quantity, &s.PricePerUnit, &s.DiscountPercentage, &s.TotalAmount, &s.FinalAmount,
			&s.PaymentMethod, &s.OrderStatus, &s.DeliveryType,
			&s.StoreID, &s.StoreLocation, &s.SalespersonID, &s.EmployeeName,
		)
		if err != nil {
			return nil, 0, err
		}
		if s.Tags == nil {
			s.Tags = []string{}
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}

// GetSalesStatistics computes aggregate totals over every record matching
// the filter, not just the requested page.
func (db *DB) GetSalesStatistics(ctx context.Context, params *models.SaleListParams) (*models.SalesStatistics, error) {
	whereClause, args := buildSalesFilter(params)

	stats := &models.SalesStatistics{}
	query := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(quantity), 0) as total_quantity,
			COALESCE(SUM(total_amount), 0) as total_amount,
			COALESCE(SUM(total_amount * discount_percentage / 100), 0) as total_discount,
			COUNT(*) as total_records
		FROM sales %s
	`, whereClause)

	err := db.Pool.QueryRow(ctx, query, args...).Scan(
		&stats.TotalQuantity, &stats.TotalAmount, &stats.TotalDiscount, &stats.TotalRecords,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// GetFilterOptions returns the distinct values and ranges available for
// each filterable field, across the whole record set.
func (db *DB) GetFilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	opts := &models.FilterOptions{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		opts.Regions, err = db.distinctValues(gctx, "customer_region")
		return err
	})
	g.Go(func() error {
		var err error
		opts.Genders, err = db.distinctValues(gctx, "gender")
		return err
	})
	g.Go(func() error {
		var err error
		opts.Categories, err = db.distinctValues(gctx, "product_category")
		return err
	})
	g.Go(func() error {
		var err error
		opts.PaymentMethods, err = db.distinctValues(gctx, "payment_method")
		return err
	})
	g.Go(func() error {
		rows, err := db.Pool.Query(gctx, `
			SELECT DISTINCT tag
			FROM sales, unnest(tags) AS tag
			WHERE tag <> ''
			ORDER BY tag
			LIMIT 100
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		tags := []string{}
		for rows.Next() {
			var tag string
			if err := rows.Scan(&tag); err != nil {
				return err
			}
			tags = append(tags, tag)
		}
		opts.Tags = tags
		return rows.Err()
	})
	g.Go(func() error {
		return db.Pool.QueryRow(gctx,
			"SELECT COALESCE(MIN(age), 0), COALESCE(MAX(age), 100) FROM sales",
		).Scan(&opts.AgeRange.Min, &opts.AgeRange.Max)
	})
	g.Go(func() error {
		var min, max *time.Time
		err := db.Pool.QueryRow(gctx,
			"SELECT MIN(sale_date), MAX(sale_date) FROM sales",
		).Scan(&min, &max)
		if err != nil {
			return err
		}
		opts.DateRange = models.DateRange{Min: min, Max: max}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return opts, nil
}

// distinctValues lists the distinct non-empty values of one column, sorted.
// Column names come from code, never from request input.
func (db *DB) distinctValues(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT DISTINCT %s FROM sales WHERE %s <> '' ORDER BY %s",
		column, column, column,
	)

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, rows.Err()
}
