package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
	"github.com/Apurer/poster-parlor-api/internal/shared/pagination"
)

const (
	DefaultCustomerPageLimit = 10
	MaxCustomerPageLimit     = 50
	maxReceiptLength         = 40
)

// Service runs order placement, customer queries, and the payment handshake.
type Service struct {
	repo        ports.Repository
	catalog     ports.Catalog
	customers   ports.CustomerDirectory
	validator   *OrderValidator
	gateway     ports.PaymentGateway
	reconciler  *PaymentReconciler
	idempotency ports.IdempotencyStore
	newID       func() string
	now         func() time.Time
}

// Option customizes the service.
type Option func(*Service)

// WithPaymentGateway enables payment initiation.
func WithPaymentGateway(gateway ports.PaymentGateway) Option {
	return func(s *Service) {
		s.gateway = gateway
	}
}

// WithPaymentReconciler enables signature verification. Without it every payment fails verification.
func WithPaymentReconciler(r *PaymentReconciler) Option {
	return func(s *Service) {
		s.reconciler = r
	}
}

// WithIdempotencyStore enables replay of placement retries by key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithIDGenerator overrides order ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock overrides the time source used for receipts.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the orders service with its collaborators.
func NewService(repo ports.Repository, catalog ports.Catalog, customers ports.CustomerDirectory, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		catalog:   catalog,
		customers: customers,
		validator: NewOrderValidator(catalog),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder validates, prices, persists, and then decrements stock item by item.
// Nothing is rolled back when a decrement fails after the order is stored.
func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.OrderProjection, error) {
	input = normalizeAddress(input)
	key := strings.TrimSpace(input.IdempotencyKey)
	useIdempotency := key != "" && s.idempotency != nil
	var fingerprint string
	if useIdempotency {
		fp, err := FingerprintPlaceOrder(input)
		if err != nil {
			return nil, fmt.Errorf("%w: fingerprint order: %w", ErrInternal, err)
		}
		fingerprint = fp
		existing, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, mapError(err)
		}
		if existing != nil {
			if existing.RequestHash != fingerprint {
				return nil, fmt.Errorf("%w: %w", ErrConflict, ports.ErrIdempotencyConflict)
			}
			replayed, err := s.repo.GetByID(ctx, existing.OrderID)
			if err != nil {
				return nil, mapError(err)
			}
			return replayed, nil
		}
	}

	order, err := s.buildOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Insert(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	for _, item := range order.Items {
		if err := s.catalog.DecrementStock(ctx, item.ItemID, item.Quantity); err != nil {
			return nil, fmt.Errorf("%w: decrement stock for %s after storing order %s: %w", ErrInternal, item.ItemID, order.ID, err)
		}
	}

	if useIdempotency {
		record := ports.IdempotencyRecord{Key: key, RequestHash: fingerprint, OrderID: saved.Entity.ID}
		if _, err := s.idempotency.Save(ctx, record); err != nil {
			return nil, mapError(err)
		}
	}
	return saved, nil
}

func (s *Service) buildOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error) {
	payment := domain.PaymentDetails{
		Method:        domain.PaymentMethod(strings.ToUpper(strings.TrimSpace(input.Payment.Method))),
		TransactionID: strings.TrimSpace(input.Payment.TransactionID),
		Amount:        input.Payment.Amount,
		Currency:      strings.ToUpper(strings.TrimSpace(input.Payment.Currency)),
	}
	if err := input.ShippingAddress.Validate(); err != nil {
		return nil, mapError(err)
	}
	if err := payment.Validate(); err != nil {
		return nil, mapError(err)
	}
	if input.UserID != "" {
		if err := validateID(input.UserID); err != nil {
			return nil, invalid("invalid user id format")
		}
	}
	for _, v := range []*float64{input.ShippingCost, input.TaxAmount, input.TotalPrice} {
		if v != nil && *v < 0 {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrNegativePrice)
		}
	}

	validated, err := s.validator.Validate(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	pricing := domain.CalculatePricing(validated.Subtotal, input.ShippingAddress.State)
	if total, supplied := clientTotal(input, pricing); supplied && !domain.AmountsMatch(total, pricing.Total) {
		return nil, fmt.Errorf("%w: order total expected %.2f, received %.2f", ErrPriceMismatch, pricing.Total, total)
	}
	if !domain.AmountsMatch(payment.Amount, pricing.Total) {
		return nil, fmt.Errorf("%w: expected %.2f, received %.2f", ErrPaymentAmountMismatch, pricing.Total, payment.Amount)
	}

	customer, err := s.resolveCustomer(ctx, input)
	if err != nil {
		return nil, err
	}

	status := domain.StatusPending
	settled := input.Settlement != nil
	if settled {
		status = domain.StatusProcessing
		payment.TransactionID = input.Settlement.PaymentID
		payment.GatewayOrderID = input.Settlement.GatewayOrderID
	}
	return &domain.Order{
		ID:              s.newID(),
		Customer:        customer,
		Items:           validated.Items,
		ShippingAddress: input.ShippingAddress,
		Payment:         payment,
		Status:          status,
		IsPaid:          settled || payment.Method != domain.PaymentCOD,
		ShippingCost:    pricing.ShippingCost,
		TaxAmount:       pricing.TaxAmount,
		TotalPrice:      pricing.Total,
		Notes:           strings.TrimSpace(input.Notes),
	}, nil
}

// clientTotal rebuilds the total the client computed, filling gaps with server values.
func clientTotal(input types.PlaceOrderInput, pricing domain.Pricing) (float64, bool) {
	if input.ShippingCost == nil && input.TaxAmount == nil && input.TotalPrice == nil {
		return 0, false
	}
	if input.TotalPrice != nil {
		return *input.TotalPrice, true
	}
	shipping, tax := pricing.ShippingCost, pricing.TaxAmount
	if input.ShippingCost != nil {
		shipping = *input.ShippingCost
	}
	if input.TaxAmount != nil {
		tax = *input.TaxAmount
	}
	return pricing.Subtotal + shipping + tax, true
}

func (s *Service) resolveCustomer(ctx context.Context, input types.PlaceOrderInput) (domain.Customer, error) {
	contact := types.CustomerInput{}
	if input.Customer != nil {
		contact = types.CustomerInput{
			Name:  strings.TrimSpace(input.Customer.Name),
			Email: strings.TrimSpace(input.Customer.Email),
			Phone: strings.TrimSpace(input.Customer.Phone),
		}
	}
	if input.UserID == "" {
		if contact.Name == "" || contact.Phone == "" {
			return domain.Customer{}, invalid("guest orders require customer name and phone")
		}
		return domain.Customer{Name: contact.Name, Email: contact.Email, Phone: contact.Phone}, nil
	}
	if s.customers == nil {
		return domain.Customer{}, fmt.Errorf("%w: customer directory not configured", ErrInternal)
	}
	user, err := s.customers.FindByID(ctx, input.UserID)
	if err != nil {
		return domain.Customer{}, mapError(err)
	}
	customer := domain.Customer{UserID: input.UserID, Name: user.Name, Email: user.Email, Phone: contact.Phone}
	if contact.Name != "" {
		customer.Name = contact.Name
	}
	if contact.Email != "" {
		customer.Email = contact.Email
	}
	return customer, nil
}

// GetOrder loads an order; another customer's order reads as not found.
func (s *Service) GetOrder(ctx context.Context, id, userID string) (*types.OrderProjection, error) {
	if err := validateID(id); err != nil {
		return nil, invalid("invalid order id format")
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if userID != "" && !order.Entity.BelongsTo(userID) {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, ports.ErrNotFound)
	}
	return order, nil
}

// ListCustomerOrders pages through a customer's orders, newest first.
func (s *Service) ListCustomerOrders(ctx context.Context, input types.CustomerOrdersInput) (*types.OrderPage, error) {
	if err := validateID(input.UserID); err != nil {
		return nil, invalid("invalid user id format")
	}
	req := pagination.Clamp(input.Page, input.Limit, DefaultCustomerPageLimit, MaxCustomerPageLimit)
	orders, total, err := s.repo.ListByCustomer(ctx, input.UserID, req.Offset(), req.Limit)
	if err != nil {
		return nil, mapError(err)
	}
	return &types.OrderPage{Orders: orders, Pagination: pagination.NewInfo(req, total)}, nil
}

// PaymentKeyID returns the public gateway key, or empty when payments are disabled.
func (s *Service) PaymentKeyID() string {
	if s.gateway == nil {
		return ""
	}
	return s.gateway.KeyID()
}

// InitiatePayment prices the checkout and opens a gateway order for its total in paise.
func (s *Service) InitiatePayment(ctx context.Context, input types.InitiatePaymentInput) (*types.PaymentIntent, error) {
	if s.gateway == nil {
		return nil, fmt.Errorf("%w: payment gateway not configured", ErrInternal)
	}
	input.ShippingAddress = trimAddress(input.ShippingAddress)
	if err := input.ShippingAddress.Validate(); err != nil {
		return nil, mapError(err)
	}
	if input.UserID != "" {
		if err := validateID(input.UserID); err != nil {
			return nil, invalid("invalid user id format")
		}
	}
	validated, err := s.validator.Validate(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	pricing := domain.CalculatePricing(validated.Subtotal, input.ShippingAddress.State)
	if !domain.AmountsMatch(input.TotalPrice, pricing.Total) {
		return nil, fmt.Errorf("%w: order total expected %.2f, received %.2f", ErrPriceMismatch, pricing.Total, input.TotalPrice)
	}

	amount := toMinorUnits(pricing.Total)
	receipt := buildReceipt(input.UserID, s.now())
	gatewayOrder, err := s.gateway.CreateOrder(ctx, ports.GatewayOrderRequest{
		AmountMinor: amount,
		Currency:    domain.CurrencyINR,
		Receipt:     receipt,
		Notes: map[string]string{
			"userId":    input.UserID,
			"itemCount": strconv.Itoa(len(validated.Items)),
			"subtotal":  decimal.NewFromFloat(validated.Subtotal).String(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create gateway order: %w", ErrInternal, err)
	}
	intent := &types.PaymentIntent{
		OrderID:  gatewayOrder.ID,
		Amount:   gatewayOrder.Amount,
		Currency: gatewayOrder.Currency,
		KeyID:    s.gateway.KeyID(),
		Receipt:  receipt,
	}
	if intent.Amount == 0 {
		intent.Amount = amount
	}
	if intent.Currency == "" {
		intent.Currency = domain.CurrencyINR
	}
	return intent, nil
}

// ReconcilePayment verifies the gateway signature and turns the paid checkout
// into a settled placement command keyed by the payment ID. With a gateway
// configured, the gateway order amount must also equal the checkout total.
func (s *Service) ReconcilePayment(ctx context.Context, input types.VerifyPaymentInput) (*types.PlaceOrderInput, error) {
	orderID := strings.TrimSpace(input.GatewayOrderID)
	paymentID := strings.TrimSpace(input.PaymentID)
	signature := strings.TrimSpace(input.Signature)
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, invalid("gateway order id, payment id and signature are required")
	}
	if !s.reconciler.Verify(orderID, paymentID, signature) {
		return nil, ErrPaymentVerificationFailed
	}
	shipping, tax, total := input.ShippingCost, input.TaxAmount, input.TotalPrice
	if s.gateway != nil {
		gatewayOrder, err := s.gateway.FetchOrder(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch gateway order %s: %w", ErrInternal, orderID, err)
		}
		if expected := toMinorUnits(total); gatewayOrder.Amount != expected {
			return nil, fmt.Errorf("%w: gateway order %s is for %d paise, checkout total is %d",
				ErrPaymentAmountMismatch, orderID, gatewayOrder.Amount, expected)
		}
	}
	return &types.PlaceOrderInput{
		IdempotencyKey:  "payment-" + paymentID,
		UserID:          input.UserID,
		Customer:        input.Customer,
		Items:           input.Items,
		ShippingAddress: input.ShippingAddress,
		Payment: types.PaymentInput{
			Method:        string(domain.PaymentOnline),
			TransactionID: paymentID,
			Amount:        total,
			Currency:      domain.CurrencyINR,
		},
		ShippingCost: &shipping,
		TaxAmount:    &tax,
		TotalPrice:   &total,
		Notes:        input.Notes,
		Settlement:   &types.Settlement{GatewayOrderID: orderID, PaymentID: paymentID},
	}, nil
}

func toMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}

// buildReceipt keeps the gateway receipt under its 40 character limit.
func buildReceipt(userID string, now time.Time) string {
	suffix := strings.ReplaceAll(userID, "-", "")
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	if suffix == "" {
		suffix = "guest"
	}
	receipt := fmt.Sprintf("ord_%s_%s", suffix, strconv.FormatInt(now.UnixMilli(), 36))
	if len(receipt) > maxReceiptLength {
		receipt = receipt[:maxReceiptLength]
	}
	return receipt
}

func normalizeAddress(input types.PlaceOrderInput) types.PlaceOrderInput {
	input.ShippingAddress = trimAddress(input.ShippingAddress)
	input.UserID = strings.TrimSpace(input.UserID)
	return input
}

func trimAddress(a domain.ShippingAddress) domain.ShippingAddress {
	return domain.ShippingAddress{
		AddressLine1: strings.TrimSpace(a.AddressLine1),
		City:         strings.TrimSpace(a.City),
		State:        strings.TrimSpace(a.State),
		Pincode:      strings.TrimSpace(a.Pincode),
	}
}

func validateID(id string) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return errors.New("malformed identifier")
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
