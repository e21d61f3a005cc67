package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
)

type normalizedPlaceOrder struct {
	UserID   string               `json:"userId"`
	Customer *types.CustomerInput `json:"customer"`
	Items    []normalizedItem     `json:"items"`
	Address  normalizedAddress    `json:"address"`
	Payment  types.PaymentInput   `json:"payment"`
	Shipping *float64             `json:"shippingCost"`
	Tax      *float64             `json:"taxAmount"`
	Total    *float64             `json:"totalPrice"`
	Notes    string               `json:"notes"`
	Settled  *types.Settlement    `json:"settlement"`
}

type normalizedItem struct {
	ItemID   string  `json:"itemId"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type normalizedAddress struct {
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

// FingerprintPlaceOrder builds a deterministic hash of the placement command (excluding the idempotency key).
func FingerprintPlaceOrder(input types.PlaceOrderInput) (string, error) {
	payload, err := json.Marshal(normalizePlaceOrder(input))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func normalizePlaceOrder(input types.PlaceOrderInput) normalizedPlaceOrder {
	items := make([]normalizedItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, normalizedItem{ItemID: strings.ToLower(strings.TrimSpace(item.ItemID)), Quantity: item.Quantity, Price: item.Price})
	}
	payment := input.Payment
	payment.Method = strings.ToUpper(strings.TrimSpace(payment.Method))
	payment.Currency = strings.ToUpper(strings.TrimSpace(payment.Currency))
	return normalizedPlaceOrder{
		UserID:   strings.TrimSpace(input.UserID),
		Customer: input.Customer,
		Items:    items,
		Address: normalizedAddress{
			AddressLine1: strings.TrimSpace(input.ShippingAddress.AddressLine1),
			City:         strings.TrimSpace(input.ShippingAddress.City),
			State:        strings.TrimSpace(input.ShippingAddress.State),
			Pincode:      strings.TrimSpace(input.ShippingAddress.Pincode),
		},
		Payment:  payment,
		Shipping: input.ShippingCost,
		Tax:      input.TaxAmount,
		Total:    input.TotalPrice,
		Notes:    input.Notes,
		Settled:  input.Settlement,
	}
}
