package api

import "context"

func (c *Client) AdminUsers(ctx context.Context) ([]AdminUser, error) {
	var users []AdminUser
	if err := c.do(ctx, "GET", "/api/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) PendingKYC(ctx context.Context) ([]KYCRequest, error) {
	var reqs []KYCRequest
	if err := c.do(ctx, "GET", "/api/admin/kyc/pending", nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (c *Client) ApproveKYC(ctx context.Context, userID string) error {
	return c.do(ctx, "POST", "/api/admin/kyc/"+userID+"/approve", nil, nil)
}

func (c *Client) RejectKYC(ctx context.Context, userID, reason string) error {
	body := struct {
		Reason string `json:"reason,omitempty"`
	}{Reason: reason}
	return c.do(ctx, "POST", "/api/admin/kyc/"+userID+"/reject", body, nil)
}
