package gateway

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/urgent2kay/dashboard-core/internal/model"
)

// NewBill is the payload for creating a bill.
type NewBill struct {
	Description string    `json:"description" validate:"required"`
	Category    string    `json:"category" validate:"required"`
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	Provider    string    `json:"serviceProvider" validate:"required"`
	DueDate     time.Time `json:"dueDate"`
}

// BillUpdate is the payload for editing an existing bill. Zero-valued
// fields are omitted from the request.
type BillUpdate struct {
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Amount      float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Status      string  `json:"status,omitempty"`
}

// CreateBill registers a new bill for the authenticated beneficiary.
func (c *Client) CreateBill(ctx context.Context, in NewBill) (model.Bill, error) {
	if err := c.checkPayload(in); err != nil {
		return model.Bill{}, err
	}
	var out model.Bill
	if err := c.do(ctx, http.MethodPost, "/api/bills", in, &out); err != nil {
		return model.Bill{}, err
	}
	return out, nil
}

// ListBills returns all bills visible to the current user.
func (c *Client) ListBills(ctx context.Context) ([]model.Bill, error) {
	var out []model.Bill
	if err := c.do(ctx, http.MethodGet, "/api/bills", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBill fetches one bill by id.
func (c *Client) GetBill(ctx context.Context, id string) (model.Bill, error) {
	var out model.Bill
	if err := c.do(ctx, http.MethodGet, "/api/bills/"+url.PathEscape(id), nil, &out); err != nil {
		return model.Bill{}, err
	}
	return out, nil
}

// UpdateBill edits an existing bill.
func (c *Client) UpdateBill(ctx context.Context, id string, in BillUpdate) (model.Bill, error) {
	if err := c.checkPayload(in); err != nil {
		return model.Bill{}, err
	}
	var out model.Bill
	if err := c.do(ctx, http.MethodPatch, "/api/bills/"+url.PathEscape(id), in, &out); err != nil {
		return model.Bill{}, err
	}
	return out, nil
}

// DeleteBill removes a bill. The backend processes deletes asynchronously;
// callers should expect the bill to linger briefly in list responses.
func (c *Client) DeleteBill(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/bills/"+url.PathEscape(id), nil, nil)
}
