package models

import (
	"strconv"
	"strings"
	"time"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	// Upper bound on tag filter values accepted in one request
	maxTagFilters = 50

	minValidAge = 0
	maxValidAge = 150
)

// ValidationError marks a client-correctable input problem, so the handler
// can answer 400 instead of the generic 500 used for infrastructure
// failures.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RawSaleQuery holds the listing query parameters exactly as received.
// Multi-value fields are comma-separated strings.
type RawSaleQuery struct {
	Search        string
	Region        string
	Gender        string
	AgeMin        string
	AgeMax        string
	Category      string
	Tags          string
	PaymentMethod string
	DateStart     string
	DateEnd       string
	SortBy        string
	SortOrder     string
	Page          string
	Limit         string
}

// SaleListParams is the normalized, validated form of RawSaleQuery. Nil
// pointer bounds mean the dimension is unconstrained.
type SaleListParams struct {
	Search         string
	Regions        []string
	Genders        []string
	Categories     []string
	Tags           []string
	PaymentMethods []string
	AgeMin         *int
	AgeMax         *int
	DateStart      *time.Time
	DateEnd        *time.Time
	SortColumn     string
	SortDesc       bool
	Page           int
	Limit          int
}

// sortColumns maps client sort keys to the columns they are allowed to
// reach. Anything else falls back to the date column.
var sortColumns = map[string]string{
	"Date":          "sale_date",
	"Quantity":      "quantity",
	"Total Amount":  "total_amount",
	"Customer Name": "customer_name",
	"Age":           "age",
}

const defaultSortColumn = "sale_date"

// Normalize converts raw request parameters into typed criteria. Malformed
// individual values are dropped; contradictory ranges (min > max, start
// after end) return a *ValidationError.
func (r *RawSaleQuery) Normalize() (*SaleListParams, error) {
	p := &SaleListParams{
		Search:         strings.TrimSpace(r.Search),
		Regions:        splitList(r.Region),
		Genders:        splitList(r.Gender),
		Categories:     splitList(r.Category),
		Tags:           splitList(r.Tags),
		PaymentMethods: splitList(r.PaymentMethod),
	}

	if len(p.Tags) > maxTagFilters {
		p.Tags = p.Tags[:maxTagFilters]
	}

	p.AgeMin = parseAgeBound(r.AgeMin)
	p.AgeMax = parseAgeBound(r.AgeMax)
	if p.AgeMin != nil && p.AgeMax != nil && *p.AgeMin > *p.AgeMax {
		return nil, &ValidationError{Message: "Minimum age cannot be greater than maximum age"}
	}

	p.DateStart = parseDateBound(r.DateStart)
	p.DateEnd = parseDateBound(r.DateEnd)
	if p.DateStart != nil && p.DateEnd != nil && p.DateStart.After(*p.DateEnd) {
		return nil, &ValidationError{Message: "Start date cannot be after end date"}
	}
	if p.DateEnd != nil {
		// A same-day end date includes the whole day
		end := endOfDay(*p.DateEnd)
		p.DateEnd = &end
	}

	p.SortColumn = defaultSortColumn
	if col, ok := sortColumns[r.SortBy]; ok {
		p.SortColumn = col
	}
	p.SortDesc = r.SortOrder != "asc"

	p.Page = parseBoundedInt(r.Page, defaultPage, 1, 0)
	p.Limit = parseBoundedInt(r.Limit, defaultLimit, 1, maxLimit)

	return p, nil
}

// Offset is the number of records skipped before the requested page
func (p *SaleListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// parseAgeBound returns nil for absent, non-numeric, or out-of-range input,
// so a bound like ageMin=200 is ignored rather than applied.
func parseAgeBound(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	age, err := strconv.Atoi(raw)
	if err != nil || age < minValidAge || age > maxValidAge {
		return nil
	}
	return &age
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func parseDateBound(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999000000, t.Location())
}

func parseBoundedInt(raw string, def, min, max int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		v = def
	}
	if v < min {
		v = min
	}
	if max > 0 && v > max {
		v = max
	}
	return v
}
