package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Workspace represents an isolated venue or business account. All catalog and
// report data except the global ally table is scoped to one workspace.
type Workspace struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Category is a menu grouping for canonical products.
type Category struct {
	ID          uuid.UUID `db:"id" json:"id"`
	WorkspaceID uuid.UUID `db:"workspace_id" json:"workspace_id"`
	Name        string    `db:"name" json:"name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Product is a canonical catalog entry that raw sales names resolve to.
type Product struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	WorkspaceID      uuid.UUID  `db:"workspace_id" json:"workspace_id"`
	Name             string     `db:"name" json:"name"`
	CategoryID       uuid.UUID  `db:"category_id" json:"category_id"`
	SubcategoryID    *uuid.UUID `db:"subcategory_id" json:"subcategory_id"`
	IsExtra          bool       `db:"is_extra" json:"is_extra"`
	POSCode          string     `db:"pos_code" json:"pos_code"`
	DefaultUnitPrice *float64   `db:"default_unit_price" json:"default_unit_price"`
	ActiveFrom       *time.Time `db:"active_from" json:"active_from"`
	ActiveUntil      *time.Time `db:"active_until" json:"active_until"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// ActiveOn reports whether the product's activity window covers t.
func (p *Product) ActiveOn(t time.Time) bool {
	if p.ActiveFrom != nil && t.Before(*p.ActiveFrom) {
		return false
	}
	if p.ActiveUntil != nil && t.After(*p.ActiveUntil) {
		return false
	}
	return true
}

// Ally is a global, highest-priority mapping from a normalized raw sales name
// to a canonical product. Allies are consulted before any other strategy.
type Ally struct {
	ID             uuid.UUID `db:"id" json:"id"`
	NormalizedName string    `db:"normalized_name" json:"normalized_name"`
	ProductID      uuid.UUID `db:"product_id" json:"product_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ProductMapping is a workspace-scoped persisted name mapping, lower priority
// than allies and typically seeded from resolved report mappings.
type ProductMapping struct {
	ID             uuid.UUID `db:"id" json:"id"`
	WorkspaceID    uuid.UUID `db:"workspace_id" json:"workspace_id"`
	NormalizedName string    `db:"normalized_name" json:"normalized_name"`
	ProductID      uuid.UUID `db:"product_id" json:"product_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ColumnMapping names the source columns carrying product name, quantity and
// amount. Empty fields fall back to the conventional export headers.
type ColumnMapping struct {
	ProductNameCol string `json:"product_name_col"`
	QuantityCol    string `json:"quantity_col"`
	AmountCol      string `json:"amount_col"`
}

// DefaultColumnMapping returns the header names most POS exports use.
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		ProductNameCol: "Product Name",
		QuantityCol:    "Quantity",
		AmountCol:      "Amount",
	}
}

// WithDefaults fills empty columns from DefaultColumnMapping.
func (m ColumnMapping) WithDefaults() ColumnMapping {
	def := DefaultColumnMapping()
	if m.ProductNameCol == "" {
		m.ProductNameCol = def.ProductNameCol
	}
	if m.QuantityCol == "" {
		m.QuantityCol = def.QuantityCol
	}
	if m.AmountCol == "" {
		m.AmountCol = def.AmountCol
	}
	return m
}

// Value implements driver.Valuer for JSONB storage.
func (m ColumnMapping) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB storage.
func (m *ColumnMapping) Scan(src interface{}) error {
	return scanJSON(src, m)
}

// NameMapping is a raw-name to product-id lookup stored as JSONB. It backs
// the report-scoped manual mapping supplied by operators during review.
type NameMapping map[string]uuid.UUID

// Value implements driver.Valuer for JSONB storage.
func (m NameMapping) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(map[string]uuid.UUID{})
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB storage.
func (m *NameMapping) Scan(src interface{}) error {
	return scanJSON(src, m)
}

// StringList is a JSONB-backed list of strings (the unmapped names).
type StringList []string

// Value implements driver.Valuer for JSONB storage.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB storage.
func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported jsonb scan source %T", src)
	}
}

// SalesReport is an uploaded point-of-sale export and the state of its
// processing run. The report document is the pipeline's only control surface:
// writes to status, column_mapping or product_mapping drive reprocessing.
type SalesReport struct {
	ID               uuid.UUID     `db:"id" json:"id"`
	WorkspaceID      uuid.UUID     `db:"workspace_id" json:"workspace_id"`
	ReportDate       time.Time     `db:"report_date" json:"report_date"`
	PeriodKey        string        `db:"period_key" json:"period_key"`
	Status           ReportStatus  `db:"status" json:"status"`
	SourceBucket     string        `db:"source_bucket" json:"source_bucket"`
	SourceKey        string        `db:"source_key" json:"source_key"`
	OriginalName     string        `db:"original_name" json:"original_name"`
	FileType         FileType      `db:"file_type" json:"file_type"`
	ColumnMapping    ColumnMapping `db:"column_mapping" json:"column_mapping"`
	ProductMapping   NameMapping   `db:"product_mapping" json:"product_mapping"`
	UnmappedProducts StringList    `db:"unmapped_products" json:"unmapped_products"`
	TotalAmount      float64       `db:"total_amount" json:"total_amount"`
	TotalQuantity    float64       `db:"total_quantity" json:"total_quantity"`
	ErrorMessage     string        `db:"error_message" json:"error_message"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updated_at"`
}

// PeriodKeyFor buckets a report date into its year-month aggregate key.
func PeriodKeyFor(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// SalesLine is one normalized, resolved row of a sales report. The full line
// set for a report is replaced wholesale on every successful run.
type SalesLine struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ReportID       uuid.UUID `db:"report_id" json:"report_id"`
	ProductID      uuid.UUID `db:"product_id" json:"product_id"`
	ProductNameRaw string    `db:"product_name_raw" json:"product_name_raw"`
	ProductName    string    `db:"product_name" json:"product_name"`
	CategoryID     uuid.UUID `db:"category_id" json:"category_id"`
	CategoryName   string    `db:"category_name" json:"category_name"`
	Quantity       float64   `db:"quantity" json:"quantity"`
	Amount         float64   `db:"amount" json:"amount"`
	UnitPrice      float64   `db:"unit_price" json:"unit_price"`
	PeriodKey      string    `db:"period_key" json:"period_key"`
	ReportDate     time.Time `db:"report_date" json:"report_date"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// MonthlyProductSummary is a per-(period, product) aggregate. Its id is stable
// across runs so repeated processing overwrites instead of duplicating.
type MonthlyProductSummary struct {
	ID            string    `db:"id" json:"id"`
	WorkspaceID   uuid.UUID `db:"workspace_id" json:"workspace_id"`
	PeriodKey     string    `db:"period_key" json:"period_key"`
	ProductID     uuid.UUID `db:"product_id" json:"product_id"`
	ProductName   string    `db:"product_name" json:"product_name"`
	TotalQuantity float64   `db:"total_quantity" json:"total_quantity"`
	TotalAmount   float64   `db:"total_amount" json:"total_amount"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// MonthlyCategorySummary is a per-(period, category) aggregate.
type MonthlyCategorySummary struct {
	ID            string    `db:"id" json:"id"`
	WorkspaceID   uuid.UUID `db:"workspace_id" json:"workspace_id"`
	PeriodKey     string    `db:"period_key" json:"period_key"`
	CategoryID    uuid.UUID `db:"category_id" json:"category_id"`
	CategoryName  string    `db:"category_name" json:"category_name"`
	TotalQuantity float64   `db:"total_quantity" json:"total_quantity"`
	TotalAmount   float64   `db:"total_amount" json:"total_amount"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ProductSummaryID builds the stable merge-upsert key for a product metric.
func ProductSummaryID(periodKey string, productID uuid.UUID) string {
	return fmt.Sprintf("product:%s:%s", periodKey, productID)
}

// CategorySummaryID builds the stable merge-upsert key for a category metric.
func CategorySummaryID(periodKey string, categoryID uuid.UUID) string {
	return fmt.Sprintf("category:%s:%s", periodKey, categoryID)
}
