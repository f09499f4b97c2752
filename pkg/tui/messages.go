package tui

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vaultora-client/pkg/api"
	"github.com/vaultora-client/pkg/config"
	"github.com/vaultora-client/pkg/prices"
	"github.com/vaultora-client/pkg/wizard"
)

// Messages carry async results back into the single Update loop; nothing
// mutates view state from a goroutine.

type loginDoneMsg struct {
	resp *api.AuthResponse
	err  error
}

type adminLoginDoneMsg struct {
	resp *api.AdminLoginResponse
	err  error
}

type registerDoneMsg struct {
	req  api.RegisterRequest
	resp *api.RegisterResponse
	err  error
}

type verifyDoneMsg struct {
	resp *api.AuthResponse
	err  error
}

type dashboardLoadedMsg struct {
	dash *api.Dashboard
	err  error
}

type pricesMsg struct {
	spots map[config.Token]float64
	err   error
}

type priceTickMsg time.Time

type uploadDoneMsg struct {
	kind string
	doc  *api.Document
	err  error
}

type documentsMsg struct {
	docs []api.Document
	err  error
}

type kycDoneMsg struct{ err error }

type depositDoneMsg struct {
	tx  *api.Transaction
	err error
}

type withdrawDoneMsg struct {
	tx  *api.Transaction
	err error
}

type adminQueueMsg struct {
	reqs []api.KYCRequest
	err  error
}

// reviewDoneMsg carries the flow it belongs to; a decision that lands
// after the queue was reloaded must not touch the fresh flow.
type reviewDoneMsg struct {
	review  *wizard.AdminReview
	approve bool
	err     error
}

// ---- commands ----

func loginCmd(client *api.Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Login(context.Background(), email, password)
		return loginDoneMsg{resp: resp, err: err}
	}
}

func adminLoginCmd(client *api.Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.AdminLogin(context.Background(), email, password)
		return adminLoginDoneMsg{resp: resp, err: err}
	}
}

func loadDashboardCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		dash, err := client.FetchDashboard(context.Background())
		return dashboardLoadedMsg{dash: dash, err: err}
	}
}

func fetchPricesCmd(feed *prices.Feed) tea.Cmd {
	return func() tea.Msg {
		spots, err := feed.Spots(context.Background(), config.AllTokens())
		return pricesMsg{spots: spots, err: err}
	}
}

// schedulePriceTick re-arms the deposit view's poll timer. The tick is
// dropped (never re-armed) once the view unmounts, which is what cancels
// the polling.
func schedulePriceTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return priceTickMsg(t) })
}

func uploadDocumentCmd(client *api.Client, kind, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadDoneMsg{kind: kind, err: err}
		}
		defer f.Close()
		doc, err := client.UploadDocument(context.Background(), kind, f.Name(), f)
		return uploadDoneMsg{kind: kind, doc: doc, err: err}
	}
}

func loadDocumentsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		docs, err := client.Documents(context.Background())
		return documentsMsg{docs: docs, err: err}
	}
}

func loadAdminQueueCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		reqs, err := client.PendingKYC(context.Background())
		return adminQueueMsg{reqs: reqs, err: err}
	}
}
