package wizard

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/vaultora-client/pkg/api"
	"github.com/vaultora-client/pkg/config"
)

const (
	StepAmount  Step = "amount"
	StepAddress Step = "address"
)

var errInsufficientBalance = errors.New("insufficient balance")

// Withdrawal drives payout: amount → address → done. The address step is
// reachable only while 0 < amount ≤ available balance; the terminal
// confirmation additionally needs a destination address.
type Withdrawal struct {
	Flow

	AvailableBalance float64
	Token            config.Token
	Amount           string // raw form field
	Address          string

	receipt *api.Transaction
	client  *api.Client
}

func NewWithdrawal(client *api.Client, available float64) *Withdrawal {
	w := &Withdrawal{client: client, AvailableBalance: available, Token: config.TokenBTC}
	w.Flow = newFlow(
		[]Step{StepAmount, StepAddress},
		map[Step]Validator{
			StepAmount:  w.validateAmount,
			StepAddress: w.validateAddress,
		},
	)
	return w
}

// ParsedAmount parses the amount field; false when not a positive number.
func (w *Withdrawal) ParsedAmount() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(w.Amount), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func (w *Withdrawal) validateAmount() error {
	amount, ok := w.ParsedAmount()
	if !ok {
		return errors.New("enter an amount greater than zero")
	}
	if amount > w.AvailableBalance {
		return errInsufficientBalance
	}
	return nil
}

func (w *Withdrawal) validateAddress() error {
	if err := w.validateAmount(); err != nil {
		return err
	}
	if strings.TrimSpace(w.Address) == "" {
		return errors.New("destination address is required")
	}
	return nil
}

// Request snapshots the payout payload. Built on the event loop so the
// editable fields are read before the submission leaves it.
func (w *Withdrawal) Request() api.WithdrawRequest {
	amount, _ := w.ParsedAmount()
	return api.WithdrawRequest{
		Token:     string(w.Token),
		AmountUSD: amount,
		Address:   strings.TrimSpace(w.Address),
	}
}

// Send posts a snapshotted request. Safe off the event loop: it touches
// only the client and its argument, never the wizard fields.
func (w *Withdrawal) Send(ctx context.Context, req api.WithdrawRequest) (*api.Transaction, error) {
	return w.client.Withdraw(ctx, req)
}

// Complete records the outcome, back on the event loop.
func (w *Withdrawal) Complete(tx *api.Transaction, err error) {
	if err == nil {
		w.receipt = tx
	}
	w.Finish(err)
}

// WithdrawAction is the synchronous terminal submission.
func (w *Withdrawal) WithdrawAction(ctx context.Context) error {
	tx, err := w.Send(ctx, w.Request())
	if err != nil {
		return err
	}
	w.receipt = tx
	return nil
}

func (w *Withdrawal) SubmitWithdraw(ctx context.Context) error {
	return w.Submit(ctx, w.WithdrawAction)
}

func (w *Withdrawal) Receipt() *api.Transaction { return w.receipt }
