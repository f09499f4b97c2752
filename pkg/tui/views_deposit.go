package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vaultora-client/pkg/api"
	"github.com/vaultora-client/pkg/config"
	"github.com/vaultora-client/pkg/plans"
	"github.com/vaultora-client/pkg/wizard"
)

// Deposit flow: entry (plan, token, amount) → payment. Spot prices refresh
// on a timer that only lives while this view is mounted.

type depositView struct {
	dep      *wizard.Deposit
	amount   textinput.Model
	planIdx  int
	tokenIdx int
	spots    map[config.Token]float64
}

func newDepositView(client *api.Client) depositView {
	v := depositView{
		dep:    wizard.NewDeposit(client),
		amount: makeInput("amount in USD", 20),
	}
	v.dep.Token = config.AllTokens()[0]
	v.amount.Focus()
	return v
}

// syncFields copies the form state into the wizard's typed record.
func (v *depositView) syncFields() {
	v.dep.Plan = plans.Catalog[v.planIdx]
	v.dep.Token = config.AllTokens()[v.tokenIdx]
	v.dep.AmountUSD = v.amount.Value()
	if spot, ok := v.spots[v.dep.Token]; ok {
		v.dep.SpotPrice = spot
	}
}

func (a App) updateDeposit(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := &a.deposit
	dep := v.dep

	switch msg := msg.(type) {
	case pricesMsg:
		// A failed refresh keeps the previous prices on screen.
		if msg.err == nil {
			v.spots = msg.spots
			v.syncFields()
		}
		return a, nil

	case depositDoneMsg:
		dep.Complete(msg.tx, msg.err)
		return a, nil

	case tea.KeyMsg:
		if dep.Done() {
			return a, a.switchTo(viewDashboard)
		}
		switch msg.String() {
		case "esc":
			if dep.Pending() {
				return a, nil
			}
			if dep.OnStep(wizard.StepPayment) {
				dep.Back()
				return a, nil
			}
			return a, a.switchTo(viewDashboard)
		case "left", "right":
			if dep.OnStep(wizard.StepEntry) {
				delta := 1
				if msg.String() == "left" {
					delta = -1
				}
				v.planIdx = (v.planIdx + delta + len(plans.Catalog)) % len(plans.Catalog)
				v.syncFields()
			}
			return a, nil
		case "tab":
			if dep.OnStep(wizard.StepEntry) {
				v.tokenIdx = (v.tokenIdx + 1) % len(config.AllTokens())
				v.syncFields()
			}
			return a, nil
		case "enter":
			v.syncFields()
			if dep.OnStep(wizard.StepEntry) {
				dep.Next() // validation message lands in LastError
				return a, nil
			}
			if err := dep.Begin(); err != nil {
				return a, nil
			}
			// Snapshot before the goroutine starts; later edits and price
			// refreshes cannot touch the in-flight payload.
			req := dep.Request()
			return a, func() tea.Msg {
				tx, err := dep.Send(context.Background(), req)
				return depositDoneMsg{tx: tx, err: err}
			}
		}
	}

	if dep.OnStep(wizard.StepEntry) {
		var cmd tea.Cmd
		v.amount, cmd = v.amount.Update(msg)
		v.syncFields()
		return a, cmd
	}
	return a, nil
}

func (a App) renderDeposit() string {
	v := a.deposit
	dep := v.dep
	var b strings.Builder

	if dep.Done() {
		b.WriteString(okStyle.Render("✓ deposit submitted") + "\n")
		if r := dep.Receipt(); r != nil {
			b.WriteString(subtleStyle.Render("reference "+r.ID) + "\n")
		}
		b.WriteString(helpStyle.Render("press any key to return"))
		return b.String()
	}

	if dep.OnStep(wizard.StepEntry) {
		plan := plans.Catalog[v.planIdx]

		b.WriteString(headerStyle.Render("Deposit — choose plan and amount") + "\n\n")
		planName := plan.Name
		if plan.IsHot {
			planName = hotStyle.Render(planName + " ★")
		}
		b.WriteString(fmt.Sprintf("Plan:   ◀ %s ▶   %s, $%d – $%d\n",
			selectedStyle.Render(planName), plan.ReturnLabel, plan.MinInvestment, plan.MaxInvestment))

		var tokens []string
		for i, t := range config.AllTokens() {
			s := string(t)
			if spot, ok := v.spots[t]; ok {
				s = fmt.Sprintf("%s $%.0f", t, spot)
			}
			if i == v.tokenIdx {
				s = selectedStyle.Render("[" + s + "]")
			}
			tokens = append(tokens, s)
		}
		b.WriteString("Pay with: " + strings.Join(tokens, "  ") + subtleStyle.Render("  (tab to switch)") + "\n\n")
		b.WriteString(v.amount.View() + "\n")

		// Projection recomputes on every keystroke; junk input shows $0.
		b.WriteString(fmt.Sprintf("\nProjected profit: %s\n",
			okStyle.Render(fmt.Sprintf("$%.2f", dep.ProjectedProfit()))))

		b.WriteString(helpStyle.Render("[◀/▶] plan   [tab] token   [enter] continue   [esc] cancel"))
	} else {
		b.WriteString(headerStyle.Render("Deposit — payment") + "\n\n")
		amount, _ := dep.Amount()
		b.WriteString(fmt.Sprintf("Plan:   %s (%s)\n", dep.Plan.Name, dep.Plan.ReturnLabel))
		b.WriteString(fmt.Sprintf("Amount: $%.2f\n", amount))
		if dep.SpotPrice > 0 {
			b.WriteString(fmt.Sprintf("Send:   %s %s  %s\n",
				selectedStyle.Render(dep.FormattedCryptoAmount()), dep.Token,
				subtleStyle.Render(fmt.Sprintf("@ $%.2f", dep.SpotPrice))))
		} else {
			b.WriteString(a.spin.View() + " fetching current price…\n")
		}
		if dep.Pending() {
			b.WriteString("\n" + a.spin.View() + " submitting deposit…")
		}
		b.WriteString(helpStyle.Render("\n[enter] confirm deposit   [esc] back"))
	}

	if line := errLine(dep.LastError()); line != "" {
		b.WriteString("\n" + line)
	}
	return b.String()
}
