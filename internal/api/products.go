package api

import "context"

// PriceItem is a time-boxed price of a product.
type PriceItem struct {
	PurchaseStart string  `json:"purchaseStart,omitempty"`
	PurchaseEnd   string  `json:"purchaseEnd,omitempty"`
	Period        int     `json:"period,omitempty"`
	Start         string  `json:"start,omitempty"`
	End           string  `json:"end,omitempty"`
	Price         float64 `json:"price"`
}

// Product is a purchasable membership product.
type Product struct {
	ID            string      `json:"id,omitempty"`
	CreatedAt     string      `json:"createdAt,omitempty"`
	UpdatedAt     string      `json:"updatedAt,omitempty"`
	Slug          string      `json:"slug,omitempty"`
	Price         float64     `json:"price"`
	PriceItems    []PriceItem `json:"priceItems,omitempty"`
	OriginalPrice float64     `json:"originalPrice,omitempty"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	Start         string      `json:"start,omitempty"`
	End           string      `json:"end,omitempty"`
	Period        int         `json:"period,omitempty"`
	Published     bool        `json:"published"`
	PublishedAt   string      `json:"publishedAt,omitempty"`
}

// ProductFilter holds the list filters of the products endpoint.
type ProductFilter struct {
	Published *bool
}

func (f ProductFilter) Apply(q *Query) *Query {
	if f.Published != nil {
		q.Where("published", *f.Published)
	}
	return q
}

func (s ProductService) ListProducts(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpListProducts, req)
}

func (s ProductService) CreateProduct(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpCreateProduct, req)
}

// GetProduct requires the productId path parameter.
func (s ProductService) GetProduct(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpGetProduct, req)
}

func (s ProductService) DeleteProduct(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpDeleteProduct, req)
}

func (s ProductService) UpdateProduct(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpUpdateProduct, req)
}
