package storefront

import "github.com/shopspring/decimal"

// Money is a backend-computed amount. Amounts are carried, never recomputed.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

// Merchandise is the nested variant/product substructure the Storefront API
// returns for each cart line.
type Merchandise struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Product struct {
		Title  string `json:"title"`
		Handle string `json:"handle"`
	} `json:"product"`
	Image *Image `json:"image,omitempty"`
	Price Money  `json:"price"`
}

type CartLine struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Merchandise Merchandise `json:"merchandise"`
}

// Cart is the raw backend cart shape before normalization.
type Cart struct {
	ID            string `json:"id"`
	CheckoutURL   string `json:"checkoutUrl"`
	TotalQuantity int    `json:"totalQuantity"`
	Cost          struct {
		SubtotalAmount Money `json:"subtotalAmount"`
	} `json:"cost"`
	Lines struct {
		Nodes []CartLine `json:"nodes"`
	} `json:"lines"`
}

// UserError is a backend-reported rejection of an otherwise well-formed
// mutation. The message is passed through verbatim.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}
