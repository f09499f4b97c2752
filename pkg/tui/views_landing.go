package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vaultora-client/pkg/plans"
)

// The landing page: marketing copy and the static plan cards.

type landingView struct{}

func (a App) updateLanding(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch key.String() {
	case "q":
		return a, tea.Quit
	case "l":
		return a, a.switchTo(viewLogin)
	case "r":
		return a, a.switchTo(viewRegister)
	}
	return a, nil
}

func (a App) renderLanding() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Grow your crypto, daily.") + "\n")
	b.WriteString(subtleStyle.Render("Pick a plan, deposit, watch it work.") + "\n\n")

	cards := make([]string, 0, len(plans.Catalog))
	for _, p := range plans.Catalog {
		name := p.Name
		if p.IsHot {
			name = hotStyle.Render(name + " ★")
		}
		card := fmt.Sprintf("%s\n%s\n$%d – $%d\n%d × %s payouts\nprofit on $1,000: $%.0f",
			name, p.ReturnLabel, p.MinInvestment, p.MaxInvestment,
			p.Periods, strings.ToLower(p.ReturnType), plans.Profit(p, 1000))
		cards = append(cards, boxStyle.Render(card))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))

	b.WriteString(helpStyle.Render("\n[l] log in   [r] create account   [q] quit"))
	return b.String()
}
