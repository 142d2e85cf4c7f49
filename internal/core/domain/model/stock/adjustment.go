package stock

// Adjustment is one normalized row of a stock adjustment import file: shift
// the book count of a SKU at a location by a signed delta. Produced by the
// file parser and applied by the adjust-stock use case, which resolves the
// SKU and location code and writes the matching ledger movement.
type Adjustment struct {
	SKU          string
	LocationCode string
	Delta        int
	Note         string
}
