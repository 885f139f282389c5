package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/urgent2kay/dashboard-core/internal/model"
)

// ListRequests returns all bundle requests visible to the current user.
func (c *Client) ListRequests(ctx context.Context) ([]model.BillRequest, error) {
	var out []model.BillRequest
	if err := c.do(ctx, http.MethodGet, "/api/requests", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSponsorRequests returns the bundle requests addressed to one sponsor.
func (c *Client) ListSponsorRequests(ctx context.Context, sponsorID string) ([]model.BillRequest, error) {
	var out []model.BillRequest
	path := "/api/requests/sponsor/" + url.PathEscape(sponsorID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSponsors returns the sponsors known to the current beneficiary.
func (c *Client) ListSponsors(ctx context.Context) ([]model.Sponsor, error) {
	var out []model.Sponsor
	if err := c.do(ctx, http.MethodGet, "/api/sponsors", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EmailMessage is the payload for the email dispatch endpoint.
type EmailMessage struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

// SendEmail dispatches a notification email through the backend sender.
func (c *Client) SendEmail(ctx context.Context, in EmailMessage) error {
	if err := c.checkPayload(in); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/api/email", in, nil)
}
