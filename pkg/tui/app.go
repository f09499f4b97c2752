package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/vaultora-client/pkg/api"
	"github.com/vaultora-client/pkg/config"
	"github.com/vaultora-client/pkg/prices"
	"github.com/vaultora-client/pkg/session"
)

// ── View Router ─────────────────────────────────────────────
// One in-memory enum maps to one full-page view. Not a real router: no
// history, no back stack. The admin view is reachable only through the
// -admin flag.

type view int

const (
	viewLanding view = iota
	viewLogin
	viewRegister
	viewDashboard
	viewDeposit
	viewWithdraw
	viewKYC
	viewAdmin
)

type App struct {
	cfg    *config.Config
	store  *session.Store
	client *api.Client
	feed   *prices.Feed

	view  view
	width int
	spin  spinner.Model

	landing  landingView
	login    loginView
	register registerView
	dash     dashboardView
	deposit  depositView
	withdraw withdrawView
	kyc      kycView
	admin    adminView
}

func NewApp(cfg *config.Config, store *session.Store, client *api.Client, feed *prices.Feed, adminMode bool) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	a := App{
		cfg:    cfg,
		store:  store,
		client: client,
		feed:   feed,
		spin:   sp,
	}

	switch {
	case adminMode:
		a.view = viewAdmin
		a.admin = newAdminView(store)
	case store.Session() != nil:
		a.view = viewDashboard
		a.dash = newDashboardView()
	default:
		a.view = viewLanding
	}
	return a
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spin.Tick}
	switch a.view {
	case viewDashboard:
		cmds = append(cmds, loadDashboardCmd(a.client))
	case viewAdmin:
		if a.store.AdminSession() != nil {
			cmds = append(cmds, loadAdminQueueCmd(a.client))
		}
	}
	return tea.Batch(cmds...)
}

// switchTo replaces the active view. Abandoned wizards are simply dropped
// with their in-memory state — no mutation has happened before a terminal
// submission, so there is nothing to compensate.
func (a *App) switchTo(v view) tea.Cmd {
	log.Debug().Int("view", int(v)).Msg("view switch")
	a.view = v
	switch v {
	case viewLogin:
		a.login = newLoginView()
	case viewRegister:
		a.register = newRegisterView(a.client, a.store.Referrer())
	case viewDashboard:
		a.dash = newDashboardView()
		return loadDashboardCmd(a.client)
	case viewDeposit:
		a.deposit = newDepositView(a.client)
		// Initial price fetch plus the poll timer; the timer dies with
		// the view.
		return tea.Batch(fetchPricesCmd(a.feed), schedulePriceTick(a.cfg.PricePollInterval))
	case viewWithdraw:
		a.withdraw = newWithdrawView(a.client, a.dash.available())
	case viewKYC:
		a.kyc = newKYCView(a.client)
		return loadDocumentsCmd(a.client)
	case viewAdmin:
		a.admin = newAdminView(a.store)
		if a.store.AdminSession() != nil {
			return loadAdminQueueCmd(a.client)
		}
	}
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case priceTickMsg:
		// Poll only while the deposit view is mounted; otherwise the
		// timer is not re-armed and polling stops.
		if a.view != viewDeposit {
			return a, nil
		}
		return a, tea.Batch(fetchPricesCmd(a.feed), schedulePriceTick(a.cfg.PricePollInterval))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	switch a.view {
	case viewLanding:
		return a.updateLanding(msg)
	case viewLogin:
		return a.updateLogin(msg)
	case viewRegister:
		return a.updateRegister(msg)
	case viewDashboard:
		return a.updateDashboard(msg)
	case viewDeposit:
		return a.updateDeposit(msg)
	case viewWithdraw:
		return a.updateWithdraw(msg)
	case viewKYC:
		return a.updateKYC(msg)
	case viewAdmin:
		return a.updateAdmin(msg)
	}
	return a, nil
}

func (a App) View() string {
	var body string
	switch a.view {
	case viewLanding:
		body = a.renderLanding()
	case viewLogin:
		body = a.renderLogin()
	case viewRegister:
		body = a.renderRegister()
	case viewDashboard:
		body = a.renderDashboard()
	case viewDeposit:
		body = a.renderDeposit()
	case viewWithdraw:
		body = a.renderWithdraw()
	case viewKYC:
		body = a.renderKYC()
	case viewAdmin:
		body = a.renderAdmin()
	}
	return titleStyle.Render("◆ VAULTORA") + "\n" + body + "\n"
}
