package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for every bounded context. The records below mirror
// the Postgres adapters so adapter tests can migrate without import cycles.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&catalogItemRecord{},
		&orderRecord{},
		&orderIdempotencyRecord{},
		&reviewRecord{},
		&userRecord{},
		&sessionRecord{},
	)
}

// Catalog schema mirrors the catalog Postgres adapter. Images are JSON.
type catalogItemRecord struct {
	ID          string         `gorm:"primaryKey;column:id;type:varchar(36)"`
	Title       string         `gorm:"column:title;uniqueIndex"`
	Price       float64        `gorm:"column:price;index"`
	Stock       int            `gorm:"column:stock"`
	Dimensions  string         `gorm:"column:dimensions"`
	Material    string         `gorm:"column:material"`
	Images      string         `gorm:"column:images;type:jsonb"`
	IsAvailable bool           `gorm:"column:is_available;index"`
	Category    string         `gorm:"column:category;index"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[]"`
	Description string         `gorm:"column:description"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (catalogItemRecord) TableName() string { return "catalog_items" }

// Order schema mirrors the orders Postgres adapter; line items, address and
// payment snapshot are embedded JSON documents owned by the order row.
type orderRecord struct {
	ID              string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	CustomerUserID  string    `gorm:"column:customer_user_id;index"`
	CustomerName    string    `gorm:"column:customer_name"`
	CustomerEmail   string    `gorm:"column:customer_email"`
	CustomerPhone   string    `gorm:"column:customer_phone"`
	Items           string    `gorm:"column:items;type:jsonb"`
	ShippingAddress string    `gorm:"column:shipping_address;type:jsonb"`
	Payment         string    `gorm:"column:payment_details;type:jsonb"`
	Status          string    `gorm:"column:status;index"`
	IsPaid          bool      `gorm:"column:is_paid"`
	ShippingCost    float64   `gorm:"column:shipping_cost"`
	TaxAmount       float64   `gorm:"column:tax_amount"`
	TotalPrice      float64   `gorm:"column:total_price"`
	TrackingNumber  string    `gorm:"column:tracking_number"`
	Notes           string    `gorm:"column:notes"`
	CreatedAt       time.Time `gorm:"column:created_at;index"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;type:varchar(36)"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderIdempotencyRecord) TableName() string { return "order_idempotency_keys" }

// Review schema mirrors the reviews Postgres adapter. One review per user and item.
type reviewRecord struct {
	ID        string         `gorm:"primaryKey;column:id;type:varchar(36)"`
	UserID    string         `gorm:"column:user_id;type:varchar(36);uniqueIndex:idx_reviews_user_item"`
	ItemID    string         `gorm:"column:item_id;type:varchar(36);uniqueIndex:idx_reviews_user_item;index"`
	Rating    int            `gorm:"column:rating;index"`
	Comment   string         `gorm:"column:comment;size:500"`
	Images    pq.StringArray `gorm:"column:images;type:text[]"`
	CreatedAt time.Time      `gorm:"column:created_at;index"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (reviewRecord) TableName() string { return "reviews" }

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           string     `gorm:"primaryKey;column:id;type:varchar(36)"`
	Email        string     `gorm:"column:email;uniqueIndex"`
	Name         string     `gorm:"column:name"`
	PasswordHash string     `gorm:"column:password_hash"`
	Role         string     `gorm:"column:role;index;default:USER"`
	IsActive     bool       `gorm:"column:is_active"`
	LastLogin    *time.Time `gorm:"column:last_login"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the refresh-token store.
type sessionRecord struct {
	TokenHash string    `gorm:"primaryKey;column:token_hash;size:64"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }
