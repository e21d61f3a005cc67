//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "poster-parlor-api"
	ConsumerName = "poster-storefront"

	StatePosterInStock = "poster 0f8fad5b in stock with customer signed in"
	StatePosterMissing = "no poster with id 7c9e6679"
)

const (
	ExistingPosterID = "0f8fad5b-d9cb-469f-a165-70867728950e"
	MissingPosterID  = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

	PosterTitle = "Starry Night"
	PosterPrice = 100.0
	PosterStock = 5

	// CustomerToken is replaced by the provider with a real access token.
	CustomerToken = "Bearer pact-customer-token"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleOrderPayload is a two-poster COD checkout priced at the catalog price.
// 200 subtotal, 50 shipping and 18% tax come to 286.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"customer": map[string]any{"phone": "9876543210"},
		"items": []map[string]any{
			{"posterId": ExistingPosterID, "quantity": 2, "price": PosterPrice},
		},
		"shippingAddress": map[string]any{
			"addressLine1": "12 Residency Road",
			"city":         "New Delhi",
			"state":        "Delhi",
			"pincode":      "110001",
		},
		"paymentDetails": map[string]any{"method": "COD", "amount": 286, "currency": "INR"},
	}
}

// StalePriceOrderPayload quotes a price the catalog no longer charges.
func StalePriceOrderPayload() map[string]any {
	payload := ExampleOrderPayload()
	payload["items"] = []map[string]any{
		{"posterId": ExistingPosterID, "quantity": 2, "price": 80},
	}
	return payload
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
