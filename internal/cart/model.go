package cart

import "github.com/shopspring/decimal"

// Money pairs a backend-computed decimal amount with its currency code.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

// Line is one merchandise entry in a cart. Display attributes are
// denormalized copies from the backend at response time.
type Line struct {
	ID            string `json:"id"`
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
	Title         string `json:"title"`
	VariantTitle  string `json:"variantTitle,omitempty"`
	Handle        string `json:"handle"`
	Image         *Image `json:"image,omitempty"`
	Price         Money  `json:"price"`
}

// Cart is the normalized cart session exposed to clients. The id is assigned
// by the commerce backend on first creation and never client-generated.
type Cart struct {
	ID            string `json:"id"`
	Lines         []Line `json:"lines"`
	TotalQuantity int    `json:"totalQuantity"`
	Subtotal      Money  `json:"subtotal"`
	CheckoutURL   string `json:"checkoutUrl,omitempty"`
}

// Empty returns the default cart used before a session exists and after a
// stale session reset.
func Empty() *Cart {
	return &Cart{
		Lines:    []Line{},
		Subtotal: Money{Amount: decimal.Zero, CurrencyCode: "USD"},
	}
}
