package api

import "context"

// Order is a purchase of a product.
type Order struct {
	ID        string         `json:"id,omitempty"`
	CreatedAt string         `json:"createdAt,omitempty"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
	No        string         `json:"no,omitempty"`
	Product   string         `json:"product,omitempty"`
	Method    string         `json:"method,omitempty"`
	PaidAt    string         `json:"paidAt,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	User      map[string]any `json:"user,omitempty"`
	Status    string         `json:"status,omitempty"`
	Comment   string         `json:"comment,omitempty"`
	Fee       float64        `json:"fee"`
	CreatedBy string         `json:"createdBy,omitempty"`
}

// OrderFilter holds the list filters of the orders endpoint.
type OrderFilter struct {
	Paid      *bool
	Method    string
	CreatedBy string

	// CreatedSince and CreatedUntil bound createdAt as $gte and $lt.
	CreatedSince string
	CreatedUntil string
}

func (f OrderFilter) Apply(q *Query) *Query {
	if f.Paid != nil {
		q.Where("paid", *f.Paid)
	}
	if f.Method != "" {
		q.Where("method", f.Method)
	}
	if f.CreatedBy != "" {
		q.Where("createdBy", f.CreatedBy)
	}
	created := map[string]any{}
	if f.CreatedSince != "" {
		created["$gte"] = f.CreatedSince
	}
	if f.CreatedUntil != "" {
		created["$lt"] = f.CreatedUntil
	}
	if len(created) > 0 {
		q.Where("createdAt", created)
	}
	return q
}

// ListOrders lists orders. Query.Populate expands referenced documents.
func (s OrderService) ListOrders(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpListOrders, req)
}

func (s OrderService) CreateOrder(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpCreateOrder, req)
}

func (s OrderService) GetOrder(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpGetOrder, req)
}

func (s OrderService) DeleteOrder(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpDeleteOrder, req)
}

func (s OrderService) UpdateOrder(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpUpdateOrder, req)
}
