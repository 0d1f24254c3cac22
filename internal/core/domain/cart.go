package domain

// CartItem is a validated line item handed over by the cart service. Price
// is the unit price the cart was validated against; the engine snapshots it
// onto the order item as-is.
type CartItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	VendorID    string `json:"vendor_id"`
	VariantID   string `json:"variant_id"`
	VariantName string `json:"variant_name,omitempty"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

// GroupByVendor splits cart items into per-vendor groups, preserving the
// order vendors first appear in the cart.
func GroupByVendor(items []CartItem) [][]CartItem {
	index := make(map[string]int)
	var groups [][]CartItem
	for _, it := range items {
		i, ok := index[it.VendorID]
		if !ok {
			i = len(groups)
			index[it.VendorID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], it)
	}
	return groups
}
