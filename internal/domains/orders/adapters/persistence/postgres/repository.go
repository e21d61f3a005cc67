package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
	"github.com/Apurer/poster-parlor-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// OrderRecord maps the order aggregate to the orders table. Line items, the
// address, and the payment snapshot are owned by the order and stored as JSON.
type OrderRecord struct {
	ID              string           `gorm:"primaryKey;column:id;type:varchar(36)"`
	CustomerUserID  string           `gorm:"column:customer_user_id;index"`
	CustomerName    string           `gorm:"column:customer_name"`
	CustomerEmail   string           `gorm:"column:customer_email"`
	CustomerPhone   string           `gorm:"column:customer_phone"`
	Items           []LineItemRecord `gorm:"column:items;serializer:json"`
	ShippingAddress AddressRecord    `gorm:"column:shipping_address;serializer:json"`
	Payment         PaymentRecord    `gorm:"column:payment_details;serializer:json"`
	Status          string           `gorm:"column:status;index"`
	IsPaid          bool             `gorm:"column:is_paid"`
	ShippingCost    float64          `gorm:"column:shipping_cost"`
	TaxAmount       float64          `gorm:"column:tax_amount"`
	TotalPrice      float64          `gorm:"column:total_price"`
	TrackingNumber  string           `gorm:"column:tracking_number"`
	Notes           string           `gorm:"column:notes"`
	CreatedAt       time.Time        `gorm:"column:created_at;index"`
	UpdatedAt       time.Time        `gorm:"column:updated_at"`
}

// LineItemRecord is the JSON shape of an embedded line item.
type LineItemRecord struct {
	ItemID   string  `json:"itemId"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// AddressRecord is the JSON shape of the shipping address.
type AddressRecord struct {
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

// PaymentRecord is the JSON shape of the payment snapshot.
type PaymentRecord struct {
	Method         string  `json:"method"`
	TransactionID  string  `json:"transactionId,omitempty"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	GatewayOrderID string  `json:"gatewayOrderId,omitempty"`
}

func (OrderRecord) TableName() string { return "orders" }

// Insert creates a new order row.
func (r *Repository) Insert(ctx context.Context, order *domain.Order) (*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toProjection(), nil
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record OrderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID string, offset, limit int) ([]*types.OrderProjection, int64, error) {
	return r.List(ctx, types.OrderQuery{CustomerID: customerID, SortBy: types.SortByCreatedAt, Offset: offset, Limit: limit})
}

// List returns a filtered page plus the total number of matches.
func (r *Repository) List(ctx context.Context, query types.OrderQuery) ([]*types.OrderProjection, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	scoped := func() *gorm.DB {
		return applyFilter(r.db.WithContext(ctx).Model(&OrderRecord{}), query)
	}
	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	tx := scoped().
		Order(orderBy(query)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: !query.Asc})
	if query.Offset > 0 {
		tx = tx.Offset(query.Offset)
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}
	var records []OrderRecord
	if err := tx.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	orders := make([]*types.OrderProjection, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toProjection())
	}
	return orders, total, nil
}

// Update overwrites the mutable order fields.
func (r *Repository) Update(ctx context.Context, order *domain.Order) (*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	result := r.db.WithContext(ctx).Model(&record).
		Select("status", "is_paid", "tracking_number", "notes", "payment_details", "updated_at").
		Updates(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, order.ID)
}

// Delete removes an order permanently.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&OrderRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) Recent(ctx context.Context, limit int) ([]*types.OrderProjection, error) {
	orders, _, err := r.List(ctx, types.OrderQuery{SortBy: types.SortByCreatedAt, Limit: limit})
	return orders, err
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func applyFilter(tx *gorm.DB, q types.OrderQuery) *gorm.DB {
	if q.CustomerID != "" {
		tx = tx.Where("customer_user_id = ?", q.CustomerID)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", string(q.Status))
	}
	if q.Search != "" {
		pattern := likePattern(q.Search)
		tx = tx.Where("(customer_name ILIKE ? OR customer_email ILIKE ? OR customer_phone ILIKE ?)", pattern, pattern, pattern)
	}
	return tx
}

func orderBy(q types.OrderQuery) clause.OrderByColumn {
	column := "created_at"
	switch q.SortBy {
	case types.SortByTotalPrice:
		column = "total_price"
	case types.SortByStatus:
		column = "status"
	}
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: !q.Asc}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(value string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(value)) + "%"
}

func toRecord(o *domain.Order) OrderRecord {
	items := make([]LineItemRecord, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, LineItemRecord{ItemID: item.ItemID, Quantity: item.Quantity, Price: item.UnitPrice})
	}
	return OrderRecord{
		ID:             o.ID,
		CustomerUserID: o.Customer.UserID,
		CustomerName:   o.Customer.Name,
		CustomerEmail:  o.Customer.Email,
		CustomerPhone:  o.Customer.Phone,
		Items:          items,
		ShippingAddress: AddressRecord{
			AddressLine1: o.ShippingAddress.AddressLine1,
			City:         o.ShippingAddress.City,
			State:        o.ShippingAddress.State,
			Pincode:      o.ShippingAddress.Pincode,
		},
		Payment: PaymentRecord{
			Method:         string(o.Payment.Method),
			TransactionID:  o.Payment.TransactionID,
			Amount:         o.Payment.Amount,
			Currency:       o.Payment.Currency,
			GatewayOrderID: o.Payment.GatewayOrderID,
		},
		Status:         string(o.Status),
		IsPaid:         o.IsPaid,
		ShippingCost:   o.ShippingCost,
		TaxAmount:      o.TaxAmount,
		TotalPrice:     o.TotalPrice,
		TrackingNumber: o.TrackingNumber,
		Notes:          o.Notes,
	}
}

func (r OrderRecord) toProjection() *types.OrderProjection {
	items := make([]domain.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.LineItem{ItemID: item.ItemID, Quantity: item.Quantity, UnitPrice: item.Price})
	}
	order := &domain.Order{
		ID: r.ID,
		Customer: domain.Customer{
			UserID: r.CustomerUserID,
			Name:   r.CustomerName,
			Email:  r.CustomerEmail,
			Phone:  r.CustomerPhone,
		},
		Items: items,
		ShippingAddress: domain.ShippingAddress{
			AddressLine1: r.ShippingAddress.AddressLine1,
			City:         r.ShippingAddress.City,
			State:        r.ShippingAddress.State,
			Pincode:      r.ShippingAddress.Pincode,
		},
		Payment: domain.PaymentDetails{
			Method:         domain.PaymentMethod(r.Payment.Method),
			TransactionID:  r.Payment.TransactionID,
			Amount:         r.Payment.Amount,
			Currency:       r.Payment.Currency,
			GatewayOrderID: r.Payment.GatewayOrderID,
		},
		Status:         domain.Status(r.Status),
		IsPaid:         r.IsPaid,
		ShippingCost:   r.ShippingCost,
		TaxAmount:      r.TaxAmount,
		TotalPrice:     r.TotalPrice,
		TrackingNumber: r.TrackingNumber,
		Notes:          r.Notes,
	}
	return projection.New(order, r.CreatedAt, r.UpdatedAt)
}
