package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vaultora-client/pkg/api"
	"github.com/vaultora-client/pkg/config"
	"github.com/vaultora-client/pkg/plans"
	"github.com/vaultora-client/pkg/prices"
)

const (
	StepEntry   Step = "entry"
	StepPayment Step = "payment"
)

// Deposit drives funding: entry (plan, token, USD amount) → payment
// (crypto equivalent at current spot) → done.
type Deposit struct {
	Flow

	Plan      plans.InvestmentPlan
	Token     config.Token
	AmountUSD string // raw form field

	// SpotPrice is refreshed by the owning view's poller; 0 until the
	// first price lands.
	SpotPrice float64

	receipt *api.Transaction
	client  *api.Client
}

func NewDeposit(client *api.Client) *Deposit {
	d := &Deposit{client: client, Plan: plans.Default()}
	d.Flow = newFlow(
		[]Step{StepEntry, StepPayment},
		map[Step]Validator{
			StepEntry:   d.validateEntry,
			StepPayment: d.validatePayment,
		},
	)
	return d
}

// Amount parses the USD field; false when it is not a positive number.
func (d *Deposit) Amount() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(d.AmountUSD), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func (d *Deposit) validateEntry() error {
	if d.Token == "" {
		return errors.New("select a payment token")
	}
	amount, ok := d.Amount()
	if !ok {
		return errors.New("enter a positive USD amount")
	}
	if !d.Plan.InRange(amount) {
		return fmt.Errorf("%s plan accepts $%d – $%d", d.Plan.Name, d.Plan.MinInvestment, d.Plan.MaxInvestment)
	}
	return nil
}

func (d *Deposit) validatePayment() error {
	if d.SpotPrice <= 0 {
		return errors.New("waiting for the current price, try again in a moment")
	}
	return nil
}

// CryptoAmount is the live crypto equivalent of the entered USD amount.
func (d *Deposit) CryptoAmount() float64 {
	amount, _ := d.Amount()
	return prices.Convert(amount, d.SpotPrice)
}

// FormattedCryptoAmount renders the equivalent with the token's display
// precision (8 fractional digits for BTC, 6 otherwise).
func (d *Deposit) FormattedCryptoAmount() string {
	return prices.FormatAmount(d.Token, d.CryptoAmount())
}

// ProjectedProfit recomputes on every keystroke; non-numeric input
// projects 0.
func (d *Deposit) ProjectedProfit() float64 {
	return plans.ProfitFromInput(d.Plan, d.AmountUSD)
}

// Request snapshots the submission payload. Built on the event loop so
// the editable fields are read before the submission leaves it.
func (d *Deposit) Request() api.DepositRequest {
	amount, _ := d.Amount()
	return api.DepositRequest{
		PlanID:       d.Plan.ID,
		Token:        string(d.Token),
		AmountUSD:    amount,
		AmountCrypto: d.CryptoAmount(),
	}
}

// Send posts a snapshotted request. Safe off the event loop: it touches
// only the client and its argument, never the wizard fields.
func (d *Deposit) Send(ctx context.Context, req api.DepositRequest) (*api.Transaction, error) {
	return d.client.Deposit(ctx, req)
}

// Complete records the outcome, back on the event loop.
func (d *Deposit) Complete(tx *api.Transaction, err error) {
	if err == nil {
		d.receipt = tx
	}
	d.Finish(err)
}

// DepositAction is the synchronous terminal submission.
func (d *Deposit) DepositAction(ctx context.Context) error {
	tx, err := d.Send(ctx, d.Request())
	if err != nil {
		return err
	}
	d.receipt = tx
	return nil
}

func (d *Deposit) SubmitDeposit(ctx context.Context) error {
	return d.Submit(ctx, d.DepositAction)
}

// Receipt returns the created transaction after completion, nil before.
func (d *Deposit) Receipt() *api.Transaction { return d.receipt }
