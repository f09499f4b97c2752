package api

import (
	"context"

	"golang.org/x/sync/errgroup"
)

func (c *Client) Balance(ctx context.Context) (*Balance, error) {
	var b Balance
	if err := c.do(ctx, "GET", "/api/account/balance", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) Transactions(ctx context.Context) ([]Transaction, error) {
	var txs []Transaction
	if err := c.do(ctx, "GET", "/api/account/transactions", nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (c *Client) Referrals(ctx context.Context) ([]Referral, error) {
	var refs []Referral
	if err := c.do(ctx, "GET", "/api/referrals", nil, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

func (c *Client) Deposit(ctx context.Context, req DepositRequest) (*Transaction, error) {
	var tx Transaction
	if err := c.do(ctx, "POST", "/api/transactions/deposit", req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *Client) Withdraw(ctx context.Context, req WithdrawRequest) (*Transaction, error) {
	var tx Transaction
	if err := c.do(ctx, "POST", "/api/transactions/withdraw", req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// FetchDashboard loads the three independent account feeds concurrently;
// they may resolve in any order. First failure cancels the rest.
func (c *Client) FetchDashboard(ctx context.Context) (*Dashboard, error) {
	var dash Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b, err := c.Balance(ctx)
		if err != nil {
			return err
		}
		dash.Balance = *b
		return nil
	})
	g.Go(func() error {
		txs, err := c.Transactions(ctx)
		if err != nil {
			return err
		}
		dash.Transactions = txs
		return nil
	})
	g.Go(func() error {
		refs, err := c.Referrals(ctx)
		if err != nil {
			return err
		}
		dash.Referrals = refs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dash, nil
}
