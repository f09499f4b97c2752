package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vaultora-client/pkg/api"
	"github.com/vaultora-client/pkg/config"
	"github.com/vaultora-client/pkg/wizard"
)

// Withdrawal flow: amount → address. The address step is gated on
// 0 < amount ≤ available balance.

type withdrawView struct {
	wd       *wizard.Withdrawal
	amount   textinput.Model
	address  textinput.Model
	tokenIdx int
}

func newWithdrawView(client *api.Client, available float64) withdrawView {
	v := withdrawView{
		wd:      wizard.NewWithdrawal(client, available),
		amount:  makeInput("amount in USD", 20),
		address: makeInput("destination wallet address", 50),
	}
	v.amount.Focus()
	return v
}

func (v *withdrawView) syncFields() {
	v.wd.Token = config.AllTokens()[v.tokenIdx]
	v.wd.Amount = v.amount.Value()
	v.wd.Address = v.address.Value()
}

func (a App) updateWithdraw(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := &a.withdraw
	wd := v.wd

	switch msg := msg.(type) {
	case withdrawDoneMsg:
		wd.Complete(msg.tx, msg.err)
		return a, nil

	case tea.KeyMsg:
		if wd.Done() {
			return a, a.switchTo(viewDashboard)
		}
		switch msg.String() {
		case "esc":
			if wd.Pending() {
				return a, nil
			}
			if wd.OnStep(wizard.StepAddress) {
				wd.Back() // amount field survives
				v.amount.Focus()
				v.address.Blur()
				return a, nil
			}
			return a, a.switchTo(viewDashboard)
		case "tab":
			if wd.OnStep(wizard.StepAmount) {
				v.tokenIdx = (v.tokenIdx + 1) % len(config.AllTokens())
			}
			return a, nil
		case "enter":
			v.syncFields()
			if wd.OnStep(wizard.StepAmount) {
				if wd.Next() == nil {
					v.amount.Blur()
					v.address.Focus()
				}
				return a, nil
			}
			if err := wd.Begin(); err != nil {
				return a, nil
			}
			// Snapshot before the goroutine starts; typing while the
			// submission is in flight cannot touch the payload.
			req := wd.Request()
			return a, func() tea.Msg {
				tx, err := wd.Send(context.Background(), req)
				return withdrawDoneMsg{tx: tx, err: err}
			}
		}
	}

	var cmd tea.Cmd
	if wd.OnStep(wizard.StepAmount) {
		v.amount, cmd = v.amount.Update(msg)
	} else {
		v.address, cmd = v.address.Update(msg)
	}
	v.syncFields()
	return a, cmd
}

func (a App) renderWithdraw() string {
	v := a.withdraw
	wd := v.wd
	var b strings.Builder

	if wd.Done() {
		b.WriteString(okStyle.Render("✓ withdrawal requested") + "\n")
		if r := wd.Receipt(); r != nil {
			b.WriteString(subtleStyle.Render("reference "+r.ID) + "\n")
		}
		b.WriteString(helpStyle.Render("press any key to return"))
		return b.String()
	}

	b.WriteString(headerStyle.Render("Withdraw") + "  ")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("available $%.2f", wd.AvailableBalance)) + "\n\n")

	if wd.OnStep(wizard.StepAmount) {
		var tokens []string
		for i, t := range config.AllTokens() {
			s := string(t)
			if i == v.tokenIdx {
				s = selectedStyle.Render("[" + s + "]")
			}
			tokens = append(tokens, s)
		}
		b.WriteString("Payout in: " + strings.Join(tokens, "  ") + "\n\n")
		b.WriteString(v.amount.View() + "\n")
		if amt, ok := wd.ParsedAmount(); ok && amt > wd.AvailableBalance {
			b.WriteString(errStyle.Render("insufficient balance") + "\n")
		}
		b.WriteString(helpStyle.Render("[tab] token   [enter] continue   [esc] cancel"))
	} else {
		amt, _ := wd.ParsedAmount()
		b.WriteString(fmt.Sprintf("Sending $%.2f as %s\n\n", amt, wd.Token))
		b.WriteString(v.address.View() + "\n")
		if wd.Pending() {
			b.WriteString("\n" + a.spin.View() + " submitting…")
		}
		b.WriteString(helpStyle.Render("\n[enter] confirm withdrawal   [esc] back"))
	}

	if line := errLine(wd.LastError()); line != "" {
		b.WriteString("\n" + line)
	}
	return b.String()
}
