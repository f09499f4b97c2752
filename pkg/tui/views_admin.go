package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/vaultora-client/pkg/session"
	"github.com/vaultora-client/pkg/wizard"
)

// Admin panel: log in, then work the pending-KYC queue. Decisions mutate
// the local list optimistically; the role check here is cosmetic — the
// backend enforces authorization.

type adminView struct {
	authed  bool
	inputs  []textinput.Model // email, password
	focus   int
	pending bool // login in flight
	errMsg  string

	loading bool
	review  *wizard.AdminReview
	reason  textinput.Model
	typing  bool // reason input focused
	status  string
}

func newAdminView(store *session.Store) adminView {
	v := adminView{
		inputs: []textinput.Model{
			makeInput("admin email", 40),
			makePasswordInput("password", 40),
		},
		reason: makeInput("rejection reason (optional)", 50),
	}
	setFocus(v.inputs, 0)
	if store.AdminSession() != nil {
		v.authed = true
		v.loading = true
	}
	return v
}

func (a App) updateAdmin(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := &a.admin

	switch msg := msg.(type) {
	case adminLoginDoneMsg:
		v.pending = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			return a, nil
		}
		if err := a.store.SaveAdminSession(session.AdminSession{Token: msg.resp.Token, Role: msg.resp.Role}); err != nil {
			log.Error().Err(err).Msg("persist admin session")
		}
		v.authed = true
		v.loading = true
		v.errMsg = ""
		return a, loadAdminQueueCmd(a.client)

	case adminQueueMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			return a, nil
		}
		v.errMsg = ""
		v.review = wizard.NewAdminReview(a.client, msg.reqs)
		return a, nil

	case reviewDoneMsg:
		if msg.review != v.review {
			// The queue was reloaded while this decision was in flight;
			// it belongs to the discarded flow.
			return a, nil
		}
		if msg.approve {
			v.review.CompleteApprove(msg.err)
		} else {
			v.review.CompleteReject(msg.err)
		}
		if v.review.Done() {
			if msg.approve {
				v.status = okStyle.Render("✓ approved")
			} else {
				v.status = okStyle.Render("✓ rejected")
			}
			v.typing = false
			v.reason.Blur()
			v.reason.SetValue("")
			v.review.Reopen()
		}
		return a, nil

	case tea.KeyMsg:
		if !v.authed {
			return a.updateAdminLogin(msg)
		}
		return a.updateAdminQueue(msg)
	}

	if v.authed && v.typing {
		var cmd tea.Cmd
		v.reason, cmd = v.reason.Update(msg)
		return a, cmd
	}
	if !v.authed {
		return a, updateInputs(v.inputs, msg)
	}
	return a, nil
}

func (a App) updateAdminLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := &a.admin
	switch msg.String() {
	case "esc", "q":
		if !v.pending {
			return a, tea.Quit
		}
		return a, nil
	case "tab", "shift+tab", "up", "down":
		delta := 1
		if msg.String() == "shift+tab" || msg.String() == "up" {
			delta = -1
		}
		v.focus = cycleFocus(v.inputs, v.focus, delta)
		return a, nil
	case "enter":
		if v.pending {
			return a, nil
		}
		email := strings.TrimSpace(v.inputs[0].Value())
		password := v.inputs[1].Value()
		if email == "" || password == "" {
			v.errMsg = "email and password are required"
			return a, nil
		}
		v.pending = true
		v.errMsg = ""
		return a, adminLoginCmd(a.client, email, password)
	}
	return a, updateInputs(v.inputs, msg)
}

func (a App) updateAdminQueue(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := &a.admin
	rev := v.review
	if rev == nil {
		if msg.String() == "q" {
			return a, tea.Quit
		}
		return a, nil
	}

	if v.typing {
		switch msg.String() {
		case "esc":
			v.typing = false
			v.reason.Blur()
			return a, nil
		case "enter":
			rev.Reason = v.reason.Value()
			if err := rev.Begin(); err != nil {
				return a, nil
			}
			userID, reason := rev.Request().UserID, rev.Reason
			return a, func() tea.Msg {
				return reviewDoneMsg{review: rev, approve: false, err: rev.SendReject(context.Background(), userID, reason)}
			}
		}
		var cmd tea.Cmd
		v.reason, cmd = v.reason.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "q":
		if !rev.Pending() {
			return a, tea.Quit
		}
	case "R":
		// No reload while a decision is in flight; its result would land
		// on a freshly loaded flow.
		if rev.Pending() {
			return a, nil
		}
		v.loading = true
		v.status = ""
		return a, loadAdminQueueCmd(a.client)
	case "j", "down":
		if rev.OnStep(wizard.StepPick) && rev.Selected < len(rev.Requests)-1 {
			rev.Selected++
		}
	case "k", "up":
		if rev.OnStep(wizard.StepPick) && rev.Selected > 0 {
			rev.Selected--
		}
	case "enter":
		if rev.OnStep(wizard.StepPick) {
			v.status = ""
			rev.Next()
		}
	case "esc":
		if rev.OnStep(wizard.StepDecide) && !rev.Pending() {
			rev.Back()
		}
	case "a":
		if rev.OnStep(wizard.StepDecide) {
			if err := rev.Begin(); err != nil {
				return a, nil
			}
			userID := rev.Request().UserID
			return a, func() tea.Msg {
				return reviewDoneMsg{review: rev, approve: true, err: rev.SendApprove(context.Background(), userID)}
			}
		}
	case "r":
		if rev.OnStep(wizard.StepDecide) && !rev.Pending() {
			v.typing = true
			v.reason.Focus()
		}
	}
	return a, nil
}

func (a App) renderAdmin() string {
	v := a.admin
	var b strings.Builder

	if !v.authed {
		b.WriteString(headerStyle.Render("Admin — sign in") + "\n\n")
		for _, in := range v.inputs {
			b.WriteString(in.View() + "\n")
		}
		if v.pending {
			b.WriteString("\n" + a.spin.View() + " signing in…")
		}
		if line := errLine(v.errMsg); line != "" {
			b.WriteString("\n" + line)
		}
		b.WriteString(helpStyle.Render("\n[enter] sign in   [esc] quit"))
		return b.String()
	}

	b.WriteString(headerStyle.Render("Admin — KYC review queue") + "\n\n")

	switch {
	case v.loading:
		b.WriteString(a.spin.View() + " loading queue…\n")
	case v.errMsg != "":
		b.WriteString(errLine(v.errMsg) + "\n")
	case v.review == nil || len(v.review.Requests) == 0:
		b.WriteString(subtleStyle.Render("no submissions waiting") + "\n")
	case v.review.OnStep(wizard.StepPick):
		rev := v.review
		for i, r := range rev.Requests {
			cursor := "  "
			line := fmt.Sprintf("%-24s %-12s %s", r.FullName, r.DateOfBirth, statusBadge(r.Status))
			if i == rev.Selected {
				cursor = selectedStyle.Render("▸ ")
				line = selectedStyle.Render(line)
			}
			b.WriteString(cursor + line + "\n")
		}
		b.WriteString(subtleStyle.Render(fmt.Sprintf("\n%d pending", rev.PendingCount())) + "\n")
	default:
		rev := v.review
		r := rev.Request()
		b.WriteString(fmt.Sprintf("Applicant: %s\nBorn:      %s\nSubmitted: %s\nDocuments: %d\n",
			r.FullName, r.DateOfBirth, r.SubmittedAt, len(r.Documents)))
		if v.typing {
			b.WriteString("\n" + v.reason.View() + "\n")
			b.WriteString(helpStyle.Render("[enter] confirm rejection   [esc] cancel"))
		} else {
			if rev.Pending() {
				b.WriteString("\n" + a.spin.View() + " submitting decision…")
			}
			b.WriteString(helpStyle.Render("\n[a] approve   [r] reject   [esc] back to queue"))
		}
		if line := errLine(rev.LastError()); line != "" {
			b.WriteString("\n" + line)
		}
		return b.String()
	}

	if v.status != "" {
		b.WriteString("\n" + v.status)
	}
	if v.review != nil {
		if line := errLine(v.review.LastError()); line != "" {
			b.WriteString("\n" + line)
		}
	}
	b.WriteString(helpStyle.Render("[j/k] move   [enter] review   [R] reload   [q] quit"))
	return b.String()
}

func statusBadge(status string) string {
	switch status {
	case "verified":
		return okStyle.Render("verified")
	case "rejected":
		return errStyle.Render("rejected")
	default:
		return subtleStyle.Render("pending")
	}
}
