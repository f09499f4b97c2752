package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/vaultora-client/pkg/api"
	"github.com/vaultora-client/pkg/session"
	"github.com/vaultora-client/pkg/wizard"
)

// ---- Login ----

type loginView struct {
	inputs  []textinput.Model
	focus   int
	pending bool
	errMsg  string
}

func newLoginView() loginView {
	v := loginView{inputs: []textinput.Model{
		makeInput("email", 40),
		makePasswordInput("password", 40),
	}}
	setFocus(v.inputs, 0)
	return v
}

func (a App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := &a.login

	switch msg := msg.(type) {
	case loginDoneMsg:
		v.pending = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			return a, nil
		}
		if err := a.store.SaveSession(session.Session{Token: msg.resp.Token, User: msg.resp.User}); err != nil {
			log.Error().Err(err).Msg("persist session")
		}
		return a, a.switchTo(viewDashboard)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if !v.pending {
				return a, a.switchTo(viewLanding)
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
				return a, nil // submit already in flight
			}
			email := strings.TrimSpace(v.inputs[0].Value())
			password := v.inputs[1].Value()
			if email == "" || password == "" {
				v.errMsg = "email and password are required"
				return a, nil
			}
			v.pending = true
			v.errMsg = ""
			return a, loginCmd(a.client, email, password)
		}
	}

	return a, updateInputs(v.inputs, msg)
}

func (a App) renderLogin() string {
	v := a.login
	var b strings.Builder
	b.WriteString(headerStyle.Render("Log in") + "\n\n")
	for _, in := range v.inputs {
		b.WriteString(in.View() + "\n")
	}
	if v.pending {
		b.WriteString("\n" + a.spin.View() + " signing in…")
	}
	if line := errLine(v.errMsg); line != "" {
		b.WriteString("\n" + line)
	}
	b.WriteString(helpStyle.Render("\n[enter] sign in   [tab] next field   [esc] back"))
	return b.String()
}

// ---- Registration (register → verify) ----

type registerView struct {
	reg    *wizard.Registration
	inputs []textinput.Model // register-step fields
	code   textinput.Model
	focus  int
}

func newRegisterView(client *api.Client, referrer string) registerView {
	v := registerView{
		reg: wizard.NewRegistration(client, referrer),
		inputs: []textinput.Model{
			makeInput("first name", 30),
			makeInput("last name", 30),
			makeInput("email", 40),
			makeInput("country", 30),
			makePasswordInput("password", 40),
			makePasswordInput("confirm password", 40),
		},
		code: makeInput("verification code from your email", 40),
	}
	setFocus(v.inputs, 0)
	return v
}

// syncFields copies the form inputs into the wizard's typed record.
func (v *registerView) syncFields() {
	v.reg.FirstName = v.inputs[0].Value()
	v.reg.LastName = v.inputs[1].Value()
	v.reg.Email = v.inputs[2].Value()
	v.reg.Country = v.inputs[3].Value()
	v.reg.Password = v.inputs[4].Value()
	v.reg.ConfirmPassword = v.inputs[5].Value()
}

func (a App) updateRegister(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := &a.register
	reg := v.reg

	switch msg := msg.(type) {
	case registerDoneMsg:
		reg.CompleteRegister(msg.req, msg.resp, msg.err)
		if reg.OnStep(wizard.StepVerify) {
			v.code.Focus()
		}
		return a, nil

	case verifyDoneMsg:
		reg.CompleteVerify(msg.resp, msg.err)
		if reg.Done() {
			sess := reg.Session()
			if err := a.store.SaveSession(session.Session{Token: sess.Token, User: sess.User}); err != nil {
				log.Error().Err(err).Msg("persist session")
			}
			return a, a.switchTo(viewDashboard)
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if reg.Pending() {
				return a, nil
			}
			if reg.OnStep(wizard.StepVerify) {
				reg.Back() // fields survive for another pass
				setFocus(v.inputs, v.focus)
				return a, nil
			}
			return a, a.switchTo(viewLanding)
		case "tab", "shift+tab", "up", "down":
			if reg.OnStep(wizard.StepRegister) {
				delta := 1
				if msg.String() == "shift+tab" || msg.String() == "up" {
					delta = -1
				}
				v.focus = cycleFocus(v.inputs, v.focus, delta)
			}
			return a, nil
		case "enter":
			if reg.Pending() {
				return a, nil
			}
			if reg.OnStep(wizard.StepRegister) {
				if v.focus < len(v.inputs)-1 {
					v.focus = cycleFocus(v.inputs, v.focus, 1)
					return a, nil
				}
				v.syncFields()
				if err := reg.Begin(); err != nil {
					return a, nil // message surfaced via LastError
				}
				if reg.Registered() {
					// Back-and-forward with unchanged fields: the account
					// already exists, skip straight to verification.
					reg.Finish(nil)
					v.code.Focus()
					return a, nil
				}
				req := reg.RegisterRequest()
				return a, func() tea.Msg {
					resp, err := reg.SendRegister(context.Background(), req)
					return registerDoneMsg{req: req, resp: resp, err: err}
				}
			}
			reg.Code = v.code.Value()
			if err := reg.Begin(); err != nil {
				return a, nil
			}
			req := reg.VerifyRequest()
			return a, func() tea.Msg {
				resp, err := reg.SendVerify(context.Background(), req)
				return verifyDoneMsg{resp: resp, err: err}
			}
		}
	}

	if reg.OnStep(wizard.StepVerify) {
		var cmd tea.Cmd
		v.code, cmd = v.code.Update(msg)
		return a, cmd
	}
	return a, updateInputs(v.inputs, msg)
}

func (a App) renderRegister() string {
	v := a.register
	var b strings.Builder

	if v.reg.OnStep(wizard.StepRegister) {
		b.WriteString(headerStyle.Render("Create account") + "\n\n")
		for _, in := range v.inputs {
			b.WriteString(in.View() + "\n")
		}
	} else {
		b.WriteString(headerStyle.Render("Verify your email") + "\n\n")
		b.WriteString(subtleStyle.Render("We sent a code to "+v.reg.Email) + "\n\n")
		b.WriteString(v.code.View() + "\n")
	}

	if v.reg.Pending() {
		b.WriteString("\n" + a.spin.View() + " submitting…")
	}
	if line := errLine(v.reg.LastError()); line != "" {
		b.WriteString("\n" + line)
	}
	b.WriteString(helpStyle.Render("\n[enter] continue   [esc] back"))
	return b.String()
}
