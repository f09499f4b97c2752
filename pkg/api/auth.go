package api

import "context"

// Register creates an account and returns the id the email verification
// step needs. No session is issued yet.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.do(ctx, "POST", "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyEmail exchanges the emailed token for a session.
func (c *Client) VerifyEmail(ctx context.Context, req VerifyEmailRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, "POST", "/api/auth/verify-email", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, "POST", "/api/auth/login", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AdminLogin(ctx context.Context, email, password string) (*AdminLoginResponse, error) {
	var resp AdminLoginResponse
	if err := c.do(ctx, "POST", "/api/admin/login", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
