//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// The gateway is the provider for the catalog portal and a consumer of the warehouse service.
const (
	ProviderName = "product-catalog-gateway"
	ConsumerName = "catalog-portal"

	WarehouseProviderName = "warehouse-service"
	WarehouseConsumerName = ProviderName

	StateProductsBaseline = "no products exist"
	StateProductExists    = "product with id 1 exists"

	StateWarehouseStocked = "warehouse holds info for product 1"
	StateWarehouseUnknown = "warehouse has no record of product 404"
)

const (
	ExistingProductID int64 = 1
	MissingProductID  int64 = 404
)

const (
	exampleProductName     = "Widget"
	exampleProductPrice    = 9.99
	exampleProductQuantity = 10
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

// PactFile is the contract between the catalog portal and the gateway.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// WarehousePactFile is the contract between the gateway and the warehouse service.
func WarehousePactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), WarehouseConsumerName+"-"+WarehouseProviderName+".json")
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

// ExampleProductPayload is the create body used across interactions.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"name":            exampleProductName,
		"price":           exampleProductPrice,
		"quantityInStock": exampleProductQuantity,
	}
}

// ExampleProductName, ExampleProductPrice and ExampleProductQuantity expose the seeded values.
func ExampleProductName() string { return exampleProductName }

func ExampleProductPrice() float64 { return exampleProductPrice }

func ExampleProductQuantity() int64 { return exampleProductQuantity }

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
