package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/truestate/sales-api/internal/config"
	"github.com/truestate/sales-api/internal/database"
	"github.com/truestate/sales-api/internal/models"
)

func main() {
	// Command line flags
	filePath := flag.String("file", "sales_data.csv", "Path to the sales CSV file")
	limit := flag.Int("limit", 0, "Maximum number of rows to import (0 = all)")
	truncate := flag.Bool("truncate", false, "Remove existing sales before importing")
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	flag.Parse()

	// Load .env
	godotenv.Load()

	// Load config
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Make sure the schema exists before loading
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	log.Printf("Reading sales data from: %s", *filePath)

	sales, skipped, err := parseSalesCSV(file, *limit)
	if err != nil {
		log.Fatalf("Failed to parse CSV: %v", err)
	}

	log.Printf("Parsed %d rows (%d skipped)", len(sales), skipped)

	if *dryRun {
		log.Println("DRY RUN - No changes will be made")
		printPreview(sales, 10)
		return
	}

	ctx := context.Background()

	if *truncate {
		if _, err := db.Pool.Exec(ctx, "TRUNCATE sales RESTART IDENTITY"); err != nil {
			log.Fatalf("Failed to truncate sales: %v", err)
		}
		log.Println("Existing sales removed")
	}

	inserted, err := importSales(ctx, db, sales)
	if err != nil {
		log.Fatalf("Failed to import sales: %v", err)
	}

	log.Printf("Import complete: %d records inserted", inserted)

	reportStats(ctx, db)
}

// salesColumns is the CopyFrom column order
var salesColumns = []string{
	"transaction_id", "sale_date", "customer_id", "customer_name", "phone_number",
	"gender", "age", "customer_region", "customer_type",
	"product_id", "product_name", "brand", "product_category", "tags",
	"quantity", "price_per_unit", "discount_percentage", "total_amount", "final_amount",
	"payment_method", "order_status", "delivery_type",
	"store_id", "store_location", "salesperson_id", "employee_name",
}

// parseSalesCSV reads the export and cleans each row. Rows with a wrong
// column count or missing required identifiers are skipped, not fatal.
func parseSalesCSV(reader io.Reader, limit int) ([]*models.Sale, int, error) {
	csvReader := csv.NewReader(bufio.NewReader(reader))
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var sales []*models.Sale
	skipped := 0
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if len(record) != len(header) {
			skipped++
			continue
		}

		sale := cleanRow(colMap, record)
		if !hasRequiredFields(sale) {
			skipped++
			continue
		}

		sales = append(sales, sale)
		if limit > 0 && len(sales) >= limit {
			break
		}
	}

	return sales, skipped, nil
}

// cleanRow maps one CSV record onto a sale, coercing malformed numbers and
// dates to safe defaults the same way the dataset was originally prepared.
func cleanRow(colMap map[string]int, record []string) *models.Sale {
	field := func(name string) string {
		i, ok := colMap[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	return &models.Sale{
		TransactionID:      field("transaction id"),
		Date:               parseDateField(field("date")),
		CustomerID:         field("customer id"),
		CustomerName:       field("customer name"),
		PhoneNumber:        field("phone number"),
		Gender:             field("gender"),
		Age:                parseCountField(field("age")),
		CustomerRegion:     field("customer region"),
		CustomerType:       field("customer type"),
		ProductID:          field("product id"),
		ProductName:        field("product name"),
		Brand:              field("brand"),
		ProductCategory:    field("product category"),
		Tags:               parseTagsField(field("tags")),
		Quantity:           parseCountField(field("quantity")),
		PricePerUnit:       parseAmountField(field("price per unit")),
		DiscountPercentage: parseAmountField(field("discount percentage")),
		TotalAmount:        parseAmountField(field("total amount")),
		FinalAmount:        parseAmountField(field("final amount")),
		PaymentMethod:      field("payment method"),
		OrderStatus:        field("order status"),
		DeliveryType:       field("delivery type"),
		StoreID:            field("store id"),
		StoreLocation:      field("store location"),
		SalespersonID:      field("salesperson id"),
		EmployeeName:       field("employee name"),
	}
}

func hasRequiredFields(s *models.Sale) bool {
	return s.TransactionID != "" && s.CustomerID != "" && s.CustomerName != "" &&
		s.PhoneNumber != "" && s.ProductID != "" && s.ProductName != ""
}

func importSales(ctx context.Context, db *database.DB, sales []*models.Sale) (int64, error) {
	return db.Pool.CopyFrom(ctx,
		pgx.Identifier{"sales"},
		salesColumns,
		pgx.CopyFromSlice(len(sales), func(i int) ([]interface{}, error) {
			s := sales[i]
			return []interface{}{
				s.TransactionID, s.Date, s.CustomerID, s.CustomerName, s.PhoneNumber,
				s.Gender, s.Age, s.CustomerRegion, s.CustomerType,
				s.ProductID, s.ProductName, s.Brand, s.ProductCategory, s.Tags,
				s.Quantity, s.PricePerUnit, s.DiscountPercentage, s.TotalAmount, s.FinalAmount,
				s.PaymentMethod, s.OrderStatus, s.DeliveryType,
				s.StoreID, s.StoreLocation, s.SalespersonID, s.EmployeeName,
			}, nil
		}),
	)
}

func printPreview(sales []*models.Sale, n int) {
	if n > len(sales) {
		n = len(sales)
	}
	log.Printf("Preview of first %d records:", n)
	for _, s := range sales[:n] {
		log.Printf("  %s | %s | %s | qty %d | %.2f | %s",
			s.TransactionID, s.CustomerName, s.ProductName,
			s.Quantity, s.TotalAmount, s.Date.Format("2006-01-02"))
	}
}

func reportStats(ctx context.Context, db *database.DB) {
	var total, customers int
	var minDate, maxDate *time.Time

	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT customer_id), MIN(sale_date), MAX(sale_date)
		FROM sales
	`).Scan(&total, &customers, &minDate, &maxDate)
	if err != nil {
		log.Printf("Warning: failed to collect import stats: %v", err)
		return
	}

	log.Printf("Total records: %d, unique customers: %d", total, customers)
	if minDate != nil && maxDate != nil {
		log.Printf("Date range: %s to %s",
			minDate.Format("2006-01-02"), maxDate.Format("2006-01-02"))
	}
}
