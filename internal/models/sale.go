package models

import (
	"time"
)

// Sale represents one sales transaction
type Sale struct {
	ID                 int64     `json:"id"`
	TransactionID      string    `json:"transactionId"`
	Date               time.Time `json:"date"`
	CustomerID         string    `json:"customerId"`
	CustomerName       string    `json:"customerName"`
	PhoneNumber        string    `json:"phoneNumber"`
	Gender             string    `json:"gender"`
	Age                int       `json:"age"`
	CustomerRegion     string    `json:"customerRegion"`
	CustomerType       string    `json:"customerType"`
	ProductID          string    `json:"productId"`
	ProductName        string    `json:"productName"`
	Brand              string    `json:"brand"`
	ProductCategory    string    `json:"productCategory"`
	Tags               []string  `json:"tags"`
	Quantity           int       `json:"quantity"`
	PricePerUnit       float64   `json:"pricePerUnit"`
	DiscountPercentage float64   `json:"discountPercentage"`
	TotalAmount        float64   `json:"totalAmount"`
	FinalAmount        float64   `json:"finalAmount"`
	PaymentMethod      string    `json:"paymentMethod"`
	OrderStatus        string    `json:"orderStatus"`
	DeliveryType       string    `json:"deliveryType"`
	StoreID            string    `json:"storeId"`
	StoreLocation      string    `json:"storeLocation"`
	SalespersonID      string    `json:"salespersonId"`
	EmployeeName       string    `json:"employeeName"`
}

// SalesStatistics contains aggregate totals over every record matching a
// filter, independent of the requested page window.
type SalesStatistics struct {
	TotalQuantity int64   `json:"totalQuantity"`
	TotalAmount   float64 `json:"totalAmount"`
	TotalDiscount float64 `json:"totalDiscount"`
	TotalRecords  int64   `json:"totalRecords"`
}

// Pagination describes the returned page window
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalRecords int  `json:"totalRecords"`
	Limit        int  `json:"limit"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

// NewPagination computes page metadata for a total match count
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalRecords: total,
		Limit:        limit,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1 && total > 0,
	}
}

// AgeRange is the min/max age present in the record set
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DateRange is the min/max date present in the record set. Both ends are
// null when no records exist.
type DateRange struct {
	Min *time.Time `json:"min"`
	Max *time.Time `json:"max"`
}

// FilterOptions holds the distinct values available for each filterable
// field, used to populate the dashboard filter controls.
type FilterOptions struct {
	Regions        []string  `json:"regions"`
	Genders        []string  `json:"genders"`
	Categories     []string  `json:"categories"`
	Tags           []string  `json:"tags"`
	PaymentMethods []string  `json:"paymentMethods"`
	AgeRange       AgeRange  `json:"ageRange"`
	DateRange      DateRange `json:"dateRange"`
}
