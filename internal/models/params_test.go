package models

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeMultiValueFields(t *testing.T) {
	raw := &RawSaleQuery{
		Region:        " North , South ,,East",
		Gender:        "Male,Female",
		Category:      "Electronics",
		PaymentMethod: "UPI, Cash",
	}

	p, err := raw.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	wantRegions := []string{"North", "South", "East"}
	if len(p.Regions) != len(wantRegions) {
		t.Fatalf("Regions = %v, want %v", p.Regions, wantRegions)
	}
	for i, r := range wantRegions {
		if p.Regions[i] != r {
			t.Errorf("Regions[%d] = %q, want %q", i, p.Regions[i], r)
		}
	}
	if len(p.Genders) != 2 {
		t.Errorf("Genders = %v, want 2 values", p.Genders)
	}
	if len(p.Categories) != 1 || p.Categories[0] != "Electronics" {
		t.Errorf("Categories = %v", p.Categories)
	}
	if len(p.PaymentMethods) != 2 || p.PaymentMethods[1] != "Cash" {
		t.Errorf("PaymentMethods = %v", p.PaymentMethods)
	}
}

func TestNormalizeAbsentFieldsMeanNoConstraint(t *testing.T) {
	p, err := (&RawSaleQuery{}).Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if p.Search != "" || p.Regions != nil || p.Tags != nil {
		t.Errorf("empty query produced constraints: %+v", p)
	}
	if p.AgeMin != nil || p.AgeMax != nil || p.DateStart != nil || p.DateEnd != nil {
		t.Errorf("empty query produced range bounds: %+v", p)
	}
	if p.Page != 1 || p.Limit != 10 {
		t.Errorf("defaults = page %d limit %d, want 1/10", p.Page, p.Limit)
	}
	if p.SortColumn != "sale_date" || !p.SortDesc {
		t.Errorf("default sort = %s desc=%v, want sale_date desc", p.SortColumn, p.SortDesc)
	}
}

func TestNormalizeTagCap(t *testing.T) {
	tags := make([]string, 60)
	for i := range tags {
		tags[i] = "tag"
	}

	p, err := (&RawSaleQuery{Tags: strings.Join(tags, ",")}).Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(p.Tags) != 50 {
		t.Errorf("len(Tags) = %d, want 50", len(p.Tags))
	}
}

func TestNormalizeAgeBounds(t *testing.T) {
	tests := []struct {
		name    string
		min     string
		max     string
		wantMin *int
		wantMax *int
		wantErr string
	}{
		{name: "both valid", min: "18", max: "65", wantMin: intp(18), wantMax: intp(65)},
		{name: "equal bounds", min: "30", max: "30", wantMin: intp(30), wantMax: intp(30)},
		{name: "min greater than max", min: "40", max: "30", wantErr: "Minimum age cannot be greater than maximum age"},
		{name: "non numeric ignored", min: "abc", max: "50", wantMax: intp(50)},
		{name: "out of range ignored", min: "200", max: "50", wantMax: intp(50)},
		{name: "negative ignored", min: "-1", max: ""},
		{name: "out of range max does not trigger error", min: "40", max: "999", wantMin: intp(40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := (&RawSaleQuery{AgeMin: tt.min, AgeMax: tt.max}).Normalize()
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Normalize() = nil error, want %q", tt.wantErr)
				}
				verr, ok := err.(*ValidationError)
				if !ok {
					t.Fatalf("error type = %T, want *ValidationError", err)
				}
				if verr.Message != tt.wantErr {
					t.Errorf("message = %q, want %q", verr.Message, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if !intpEqual(p.AgeMin, tt.wantMin) {
				t.Errorf("AgeMin = %v, want %v", intpStr(p.AgeMin), intpStr(tt.wantMin))
			}
			if !intpEqual(p.AgeMax, tt.wantMax) {
				t.Errorf("AgeMax = %v, want %v", intpStr(p.AgeMax), intpStr(tt.wantMax))
			}
		})
	}
}

func TestNormalizeDateBounds(t *testing.T) {
	p, err := (&RawSaleQuery{DateStart: "2024-01-01", DateEnd: "2024-01-05"}).Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if p.DateStart == nil || !p.DateStart.Equal(wantStart) {
		t.Errorf("DateStart = %v, want %v", p.DateStart, wantStart)
	}

	// End bound covers the whole end day
	wantEnd := time.Date(2024, 1, 5, 23, 59, 59, 999000000, time.UTC)
	if p.DateEnd == nil || !p.DateEnd.Equal(wantEnd) {
		t.Errorf("DateEnd = %v, want %v", p.DateEnd, wantEnd)
	}

	// A record late on the end day falls inside the bound
	record := time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC)
	if record.After(*p.DateEnd) {
		t.Errorf("record at %v excluded by end bound %v", record, p.DateEnd)
	}
}

func TestNormalizeDateValidation(t *testing.T) {
	_, err := (&RawSaleQuery{DateStart: "2024-02-01", DateEnd: "2024-01-01"}).Normalize()
	if err == nil {
		t.Fatal("Normalize() = nil error for start after end")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if verr.Message != "Start date cannot be after end date" {
		t.Errorf("message = %q", verr.Message)
	}

	// Invalid dates are dropped, not errors
	p, err := (&RawSaleQuery{DateStart: "not-a-date", DateEnd: "2024-01-01"}).Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if p.DateStart != nil {
		t.Errorf("DateStart = %v, want nil", p.DateStart)
	}
	if p.DateEnd == nil {
		t.Error("DateEnd = nil, want end of 2024-01-01")
	}
}

func TestNormalizeSearchTrim(t *testing.T) {
	p, err := (&RawSaleQuery{Search: "  John Smith  "}).Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if p.Search != "John Smith" {
		t.Errorf("Search = %q, want %q", p.Search, "John Smith")
	}

	p, _ = (&RawSaleQuery{Search: "   "}).Normalize()
	if p.Search != "" {
		t.Errorf("whitespace search = %q, want empty", p.Search)
	}
}

func TestNormalizeSortResolution(t *testing.T) {
	tests := []struct {
		sortBy    string
		sortOrder string
		wantCol   string
		wantDesc  bool
	}{
		{"Date", "desc", "sale_date", true},
		{"Quantity", "asc", "quantity", false},
		{"Total Amount", "asc", "total_amount", false},
		{"Customer Name", "desc", "customer_name", true},
		{"Age", "asc", "age", false},
		{"Phone Number", "asc", "sale_date", false}, // not allow-listed
		{"; DROP TABLE sales", "desc", "sale_date", true},
		{"Date", "sideways", "sale_date", true}, // unknown order means desc
	}

	for _, tt := range tests {
		t.Run(tt.sortBy+"/"+tt.sortOrder, func(t *testing.T) {
			p, err := (&RawSaleQuery{SortBy: tt.sortBy, SortOrder: tt.sortOrder}).Normalize()
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if p.SortColumn != tt.wantCol {
				t.Errorf("SortColumn = %q, want %q", p.SortColumn, tt.wantCol)
			}
			if p.SortDesc != tt.wantDesc {
				t.Errorf("SortDesc = %v, want %v", p.SortDesc, tt.wantDesc)
			}
		})
	}
}

func TestNormalizePageAndLimit(t *testing.T) {
	tests := []struct {
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"", "", 1, 10},
		{"3", "25", 3, 25},
		{"0", "0", 1, 1},
		{"-5", "1000", 1, 100},
		{"abc", "xyz", 1, 10},
	}

	for _, tt := range tests {
		p, err := (&RawSaleQuery{Page: tt.page, Limit: tt.limit}).Normalize()
		if err != nil {
			t.Fatalf("Normalize(%q,%q) error = %v", tt.page, tt.limit, err)
		}
		if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
			t.Errorf("page/limit (%q,%q) = %d/%d, want %d/%d",
				tt.page, tt.limit, p.Page, p.Limit, tt.wantPage, tt.wantLimit)
		}
	}
}

func TestOffset(t *testing.T) {
	p := &SaleListParams{Page: 2, Limit: 10}
	if got := p.Offset(); got != 10 {
		t.Errorf("Offset() = %d, want 10", got)
	}
	p = &SaleListParams{Page: 1, Limit: 100}
	if got := p.Offset(); got != 0 {
		t.Errorf("Offset() = %d, want 0", got)
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		total int
		want  Pagination
	}{
		{
			name: "middle page",
			page: 2, limit: 10, total: 25,
			want: Pagination{CurrentPage: 2, TotalPages: 3, TotalRecords: 25, Limit: 10, HasNextPage: true, HasPrevPage: true},
		},
		{
			name: "last partial page",
			page: 3, limit: 10, total: 25,
			want: Pagination{CurrentPage: 3, TotalPages: 3, TotalRecords: 25, Limit: 10, HasNextPage: false, HasPrevPage: true},
		},
		{
			name: "exact fit",
			page: 1, limit: 10, total: 20,
			want: Pagination{CurrentPage: 1, TotalPages: 2, TotalRecords: 20, Limit: 10, HasNextPage: true, HasPrevPage: false},
		},
		{
			name: "empty result",
			page: 1, limit: 10, total: 0,
			want: Pagination{CurrentPage: 1, TotalPages: 0, TotalRecords: 0, Limit: 10, HasNextPage: false, HasPrevPage: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPagination(tt.page, tt.limit, tt.total); got != tt.want {
				t.Errorf("NewPagination() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func intp(v int) *int { return &v }

func intpEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intpStr(v *int) interface{} {
	if v == nil {
		return "nil"
	}
	return *v
}
