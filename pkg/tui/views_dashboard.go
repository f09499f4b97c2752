package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/vaultora-client/pkg/api"
)

// The investor dashboard: balance, recent activity, referral earnings.
// Everything shown here is the backend's word — the client renders, it
// does not compute balances.

type dashboardView struct {
	dash    *api.Dashboard
	loading bool
	errMsg  string
}

func newDashboardView() dashboardView {
	return dashboardView{loading: true}
}

func (d dashboardView) available() float64 {
	if d.dash == nil {
		return 0
	}
	return d.dash.Balance.Available
}

func (a App) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := &a.dash

	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			return a, nil
		}
		v.errMsg = ""
		v.dash = msg.dash
		// Refresh the referral cache so the list survives a restart.
		if err := a.store.SetReferrals(msg.dash.Referrals); err != nil {
			log.Warn().Err(err).Msg("cache referrals")
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "r":
			v.loading = true
			v.errMsg = ""
			return a, loadDashboardCmd(a.client)
		case "d":
			return a, a.switchTo(viewDeposit)
		case "w":
			return a, a.switchTo(viewWithdraw)
		case "k":
			return a, a.switchTo(viewKYC)
		case "l":
			// Only the auth record goes; a captured referral code survives.
			if err := a.store.ClearSession(); err != nil {
				log.Error().Err(err).Msg("clear session")
			}
			return a, a.switchTo(viewLanding)
		}
	}
	return a, nil
}

func (a App) renderDashboard() string {
	v := a.dash
	var b strings.Builder

	sess := a.store.Session()
	if sess != nil {
		b.WriteString(headerStyle.Render("Welcome back, "+sess.User.FirstName) + "  ")
		b.WriteString(kycBadge(sess.User.KYCStatus) + "\n\n")
	}

	switch {
	case v.loading:
		b.WriteString(a.spin.View() + " loading your account…\n")
	case v.errMsg != "":
		b.WriteString(errLine(v.errMsg) + "\n")
		b.WriteString(subtleStyle.Render("press r to retry") + "\n")
	case v.dash != nil:
		bal := v.dash.Balance
		b.WriteString(boxStyle.Render(fmt.Sprintf(
			"Available   $%.2f\nPending     $%.2f\nTotal earned  %s",
			bal.Available, bal.Pending, okStyle.Render(fmt.Sprintf("$%.2f", bal.TotalEarned)))) + "\n\n")

		b.WriteString(headerStyle.Render("Recent activity") + "\n")
		if len(v.dash.Transactions) == 0 {
			b.WriteString(subtleStyle.Render("no transactions yet") + "\n")
		}
		for i, tx := range v.dash.Transactions {
			if i == 5 {
				b.WriteString(subtleStyle.Render(fmt.Sprintf("… and %d more", len(v.dash.Transactions)-5)) + "\n")
				break
			}
			b.WriteString(fmt.Sprintf("  %-10s %-5s $%-10.2f %s\n", tx.Type, tx.Token, tx.AmountUSD, tx.Status))
		}

		var earned float64
		for _, r := range v.dash.Referrals {
			earned += r.Earned
		}
		b.WriteString(fmt.Sprintf("\nReferrals: %d joined, $%.2f earned\n", len(v.dash.Referrals), earned))
		if sess != nil && sess.User.ReferralCode != "" {
			b.WriteString(subtleStyle.Render("your code: "+sess.User.ReferralCode) + "\n")
		}
	}

	b.WriteString(helpStyle.Render("[d] deposit   [w] withdraw   [k] verification   [r] refresh   [l] log out   [q] quit"))
	return b.String()
}

func kycBadge(status string) string {
	switch status {
	case "verified":
		return okStyle.Render("● verified")
	case "pending":
		return subtleStyle.Render("● verification pending")
	case "rejected":
		return errStyle.Render("● verification rejected")
	default:
		return subtleStyle.Render("○ not verified")
	}
}
