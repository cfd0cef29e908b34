package domain

// WarehouseInfo is the supplementary payload the warehouse service keeps for a product.
// The catalog treats it as opaque; it never overrides name, price, or quantity.
type WarehouseInfo struct {
	ProductID   int64
	Payload     []byte
	ContentType string
}

// String returns the payload as text.
func (w *WarehouseInfo) String() string {
	if w == nil {
		return ""
	}
	return string(w.Payload)
}
