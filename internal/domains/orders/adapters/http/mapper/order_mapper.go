package mapper

import (
	"time"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/domain"
	"github.com/Apurer/poster-parlor-api/internal/shared/pagination"
)

// LineItem is one requested poster with the unit price the client saw.
type LineItem struct {
	PosterID string  `json:"posterId" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
	Price    float64 `json:"price" binding:"gte=0"`
}

type ShippingAddress struct {
	AddressLine1 string `json:"addressLine1" binding:"required"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	Pincode      string `json:"pincode" binding:"required"`
}

type PaymentDetails struct {
	Method        string  `json:"method" binding:"required,oneof=ONLINE COD"`
	TransactionID string  `json:"transactionId,omitempty"`
	Amount        float64 `json:"amount" binding:"gte=0"`
	Currency      string  `json:"currency" binding:"required,oneof=INR"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty" binding:"omitempty,email"`
	Phone string `json:"phone,omitempty"`
}

// CreateOrder is the inbound payload for POST /api/order.
type CreateOrder struct {
	Customer        *Customer       `json:"customer,omitempty"`
	Items           []LineItem      `json:"items" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddress `json:"shippingAddress" binding:"required"`
	PaymentDetails  PaymentDetails  `json:"paymentDetails" binding:"required"`
	ShippingCost    *float64        `json:"shippingCost,omitempty" binding:"omitempty,gte=0"`
	TaxAmount       *float64        `json:"taxAmount,omitempty" binding:"omitempty,gte=0"`
	TotalPrice      *float64        `json:"totalPrice,omitempty" binding:"omitempty,gte=0"`
	Notes           string          `json:"notes,omitempty"`
}

// InitiatePayment asks for a gateway order covering the checkout.
type InitiatePayment struct {
	Items           []LineItem      `json:"items" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddress `json:"shippingAddress" binding:"required"`
	ShippingCost    float64         `json:"shippingCost" binding:"gte=0"`
	TaxAmount       float64         `json:"taxAmount" binding:"gte=0"`
	TotalPrice      float64         `json:"totalPrice" binding:"gte=0"`
}

// VerifyPayment is the gateway checkout callback plus the order it paid for.
type VerifyPayment struct {
	RazorpayOrderID   string          `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string          `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string          `json:"razorpay_signature" binding:"required"`
	Customer          *Customer       `json:"customer,omitempty"`
	Items             []LineItem      `json:"items" binding:"required,min=1,dive"`
	ShippingAddress   ShippingAddress `json:"shippingAddress" binding:"required"`
	ShippingCost      float64         `json:"shippingCost" binding:"gte=0"`
	TaxAmount         float64         `json:"taxAmount" binding:"gte=0"`
	TotalPrice        float64         `json:"totalPrice" binding:"gte=0"`
	Notes             string          `json:"notes,omitempty"`
}

type PaymentIntent struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
	Receipt  string `json:"receipt,omitempty"`
}

type UpdateStatus struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
}

type CancelOrder struct {
	Reason string `json:"reason"`
}

// PageQuery binds the customer order listing query string.
type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// AdminListQuery binds the admin order listing query string.
type AdminListQuery struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	Status    string `form:"status"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// Order is the HTTP representation of a placed order.
type Order struct {
	ID              string          `json:"id"`
	Customer        *OrderCustomer  `json:"customer,omitempty"`
	Items           []OrderLineItem `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentDetails  OrderPayment    `json:"paymentDetails"`
	Status          string          `json:"status"`
	IsPaid          bool            `json:"isPaid"`
	ShippingCost    float64         `json:"shippingCost"`
	TaxAmount       float64         `json:"taxAmount"`
	TotalPrice      float64         `json:"totalPrice"`
	TrackingNumber  string          `json:"trackingNumber,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type OrderCustomer struct {
	UserID string `json:"userId,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
}

type OrderLineItem struct {
	PosterID string  `json:"posterId"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type OrderPayment struct {
	Method         string  `json:"method"`
	TransactionID  string  `json:"transactionId,omitempty"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	GatewayOrderID string  `json:"razorpayOrderId,omitempty"`
}

// OrderPage is a page of orders plus pagination metadata.
type OrderPage struct {
	Orders     []Order         `json:"orders"`
	Pagination pagination.Info `json:"pagination"`
}

// ToPlaceOrderInput maps a create payload for the authenticated user.
func ToPlaceOrderInput(userID, idempotencyKey string, payload CreateOrder) types.PlaceOrderInput {
	return types.PlaceOrderInput{
		IdempotencyKey:  idempotencyKey,
		UserID:          userID,
		Customer:        toCustomerInput(payload.Customer),
		Items:           toLineItems(payload.Items),
		ShippingAddress: toAddress(payload.ShippingAddress),
		Payment: types.PaymentInput{
			Method:        payload.PaymentDetails.Method,
			TransactionID: payload.PaymentDetails.TransactionID,
			Amount:        payload.PaymentDetails.Amount,
			Currency:      payload.PaymentDetails.Currency,
		},
		ShippingCost: payload.ShippingCost,
		TaxAmount:    payload.TaxAmount,
		TotalPrice:   payload.TotalPrice,
		Notes:        payload.Notes,
	}
}

func ToInitiatePaymentInput(userID string, payload InitiatePayment) types.InitiatePaymentInput {
	return types.InitiatePaymentInput{
		UserID:          userID,
		Items:           toLineItems(payload.Items),
		ShippingAddress: toAddress(payload.ShippingAddress),
		ShippingCost:    payload.ShippingCost,
		TaxAmount:       payload.TaxAmount,
		TotalPrice:      payload.TotalPrice,
	}
}

func ToVerifyPaymentInput(userID string, payload VerifyPayment) types.VerifyPaymentInput {
	return types.VerifyPaymentInput{
		UserID:          userID,
		GatewayOrderID:  payload.RazorpayOrderID,
		PaymentID:       payload.RazorpayPaymentID,
		Signature:       payload.RazorpaySignature,
		Customer:        toCustomerInput(payload.Customer),
		Items:           toLineItems(payload.Items),
		ShippingAddress: toAddress(payload.ShippingAddress),
		ShippingCost:    payload.ShippingCost,
		TaxAmount:       payload.TaxAmount,
		TotalPrice:      payload.TotalPrice,
		Notes:           payload.Notes,
	}
}

func ToAdminListInput(q AdminListQuery) types.AdminListInput {
	return types.AdminListInput{
		Page:      q.Page,
		Limit:     q.Limit,
		Status:    q.Status,
		Search:    q.Search,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}
}

func FromPaymentIntent(intent *types.PaymentIntent) PaymentIntent {
	if intent == nil {
		return PaymentIntent{}
	}
	return PaymentIntent{
		OrderID:  intent.OrderID,
		Amount:   intent.Amount,
		Currency: intent.Currency,
		KeyID:    intent.KeyID,
		Receipt:  intent.Receipt,
	}
}

// FromProjection converts an order projection into its transport shape.
func FromProjection(p *types.OrderProjection) Order {
	if p == nil || p.Entity == nil {
		return Order{}
	}
	o := p.Entity
	items := make([]OrderLineItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderLineItem{PosterID: item.ItemID, Quantity: item.Quantity, Price: item.UnitPrice})
	}
	var customer *OrderCustomer
	if o.Customer != (domain.Customer{}) {
		customer = &OrderCustomer{
			UserID: o.Customer.UserID,
			Name:   o.Customer.Name,
			Email:  o.Customer.Email,
			Phone:  o.Customer.Phone,
		}
	}
	return Order{
		ID:       o.ID,
		Customer: customer,
		Items:    items,
		ShippingAddress: ShippingAddress{
			AddressLine1: o.ShippingAddress.AddressLine1,
			City:         o.ShippingAddress.City,
			State:        o.ShippingAddress.State,
			Pincode:      o.ShippingAddress.Pincode,
		},
		PaymentDetails: OrderPayment{
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
		CreatedAt:      p.Metadata.CreatedAt,
		UpdatedAt:      p.Metadata.UpdatedAt,
	}
}

func FromProjectionList(orders []*types.OrderProjection) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromProjection(o))
	}
	return out
}

func FromPage(page *types.OrderPage) OrderPage {
	if page == nil {
		return OrderPage{Orders: []Order{}}
	}
	return OrderPage{Orders: FromProjectionList(page.Orders), Pagination: page.Pagination}
}

func toCustomerInput(c *Customer) *types.CustomerInput {
	if c == nil {
		return nil
	}
	return &types.CustomerInput{Name: c.Name, Email: c.Email, Phone: c.Phone}
}

func toLineItems(in []LineItem) []types.LineItemInput {
	out := make([]types.LineItemInput, 0, len(in))
	for _, item := range in {
		out = append(out, types.LineItemInput{ItemID: item.PosterID, Quantity: item.Quantity, Price: item.Price})
	}
	return out
}

func toAddress(a ShippingAddress) domain.ShippingAddress {
	return domain.ShippingAddress{
		AddressLine1: a.AddressLine1,
		City:         a.City,
		State:        a.State,
		Pincode:      a.Pincode,
	}
}
