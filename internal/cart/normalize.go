package cart

import "github.com/jaylife/storefront-api/pkg/storefront"

// defaultVariantTitle is the sentinel the backend uses for single-variant
// products; it carries no display value.
const defaultVariantTitle = "Default Title"

// normalize flattens the backend's nested merchandise/product/image/price
// substructure into the flat line model so clients never parse
// backend-specific nesting.
func normalize(raw *storefront.Cart) *Cart {
	if raw == nil {
		return nil
	}

	lines := make([]Line, 0, len(raw.Lines.Nodes))
	for _, node := range raw.Lines.Nodes {
		line := Line{
			ID:            node.ID,
			MerchandiseID: node.Merchandise.ID,
			Quantity:      node.Quantity,
			Title:         node.Merchandise.Product.Title,
			Handle:        node.Merchandise.Product.Handle,
			Price: Money{
				Amount:       node.Merchandise.Price.Amount,
				CurrencyCode: node.Merchandise.Price.CurrencyCode,
			},
		}
		if node.Merchandise.Title != defaultVariantTitle {
			line.VariantTitle = node.Merchandise.Title
		}
		if node.Merchandise.Image != nil {
			line.Image = &Image{
				URL:     node.Merchandise.Image.URL,
				AltText: node.Merchandise.Image.AltText,
			}
		}
		lines = append(lines, line)
	}

	return &Cart{
		ID:            raw.ID,
		Lines:         lines,
		TotalQuantity: raw.TotalQuantity,
		Subtotal: Money{
			Amount:       raw.Cost.SubtotalAmount.Amount,
			CurrencyCode: raw.Cost.SubtotalAmount.CurrencyCode,
		},
		CheckoutURL: raw.CheckoutURL,
	}
}
