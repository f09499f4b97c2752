package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/vaultora-client/pkg/api"
	"github.com/vaultora-client/pkg/wizard"
)

// KYC submission: one screen collecting name, date of birth and three
// document images (paths to local files, uploaded before the submission).
// A verified profile is locked here as a UI affordance only — the real
// gate lives server-side.

type kycView struct {
	flow      *wizard.KYC
	inputs    []textinput.Model // name, dob, front path, back path, selfie path
	focus     int
	uploading int // uploads still in flight
	status    string
}

const (
	kycFieldName = iota
	kycFieldDOB
	kycFieldFront
	kycFieldBack
	kycFieldSelfie
)

func newKYCView(client *api.Client) kycView {
	v := kycView{
		flow: wizard.NewKYC(client),
		inputs: []textinput.Model{
			makeInput("full legal name", 40),
			makeInput("date of birth (YYYY-MM-DD)", 20),
			makeInput("path to ID front image", 50),
			makeInput("path to ID back image", 50),
			makeInput("path to selfie image", 50),
		},
	}
	setFocus(v.inputs, 0)
	return v
}

func (v *kycView) syncFields() {
	v.flow.FullName = v.inputs[kycFieldName].Value()
	v.flow.DateOfBirth = v.inputs[kycFieldDOB].Value()
}

// pendingUploads lists the document kinds with a path entered but no
// uploaded id yet.
func (v *kycView) pendingUploads() map[string]string {
	out := map[string]string{}
	if v.flow.FrontID == "" {
		out["front"] = strings.TrimSpace(v.inputs[kycFieldFront].Value())
	}
	if v.flow.BackID == "" {
		out["back"] = strings.TrimSpace(v.inputs[kycFieldBack].Value())
	}
	if v.flow.SelfieID == "" {
		out["selfie"] = strings.TrimSpace(v.inputs[kycFieldSelfie].Value())
	}
	for kind, path := range out {
		if path == "" {
			delete(out, kind)
		}
	}
	return out
}

func (a App) updateKYC(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := &a.kyc
	flow := v.flow

	switch msg := msg.(type) {
	case documentsMsg:
		// Previously uploaded documents count toward this submission; a
		// failed fetch falls back to the local cache.
		docs := msg.docs
		if msg.err != nil {
			docs = a.store.Documents()
		} else if err := a.store.SetDocuments(docs); err != nil {
			log.Warn().Err(err).Msg("cache documents")
		}
		for _, d := range docs {
			switch d.Kind {
			case "front":
				flow.FrontID = d.ID
			case "back":
				flow.BackID = d.ID
			case "selfie":
				flow.SelfieID = d.ID
			}
		}
		return a, nil

	case uploadDoneMsg:
		v.uploading--
		if msg.err != nil {
			v.status = errStyle.Render("upload failed: " + msg.err.Error())
			return a, nil
		}
		switch msg.kind {
		case "front":
			flow.FrontID = msg.doc.ID
		case "back":
			flow.BackID = msg.doc.ID
		case "selfie":
			flow.SelfieID = msg.doc.ID
		}
		// Keep the local document cache current.
		docs := append(a.store.Documents(), *msg.doc)
		if err := a.store.SetDocuments(docs); err != nil {
			log.Warn().Err(err).Msg("cache documents")
		}
		if v.uploading == 0 {
			v.status = okStyle.Render("documents uploaded")
		}
		return a, nil

	case kycDoneMsg:
		flow.Finish(msg.err)
		if flow.Done() {
			v.status = okStyle.Render("✓ identity submitted for review")
		}
		return a, nil

	case tea.KeyMsg:
		if flow.Done() {
			return a, a.switchTo(viewDashboard)
		}
		switch msg.String() {
		case "esc":
			if !flow.Pending() {
				return a, a.switchTo(viewDashboard)
			}
			return a, nil
		case "tab", "shift+tab", "up", "down":
			delta := 1
			if msg.String() == "shift+tab" || msg.String() == "up" {
				delta = -1
			}
			v.focus = cycleFocus(v.inputs, v.focus, delta)
			return a, nil
		case "ctrl+u":
			var cmds []tea.Cmd
			for kind, path := range v.pendingUploads() {
				v.uploading++
				cmds = append(cmds, uploadDocumentCmd(a.client, kind, path))
			}
			if len(cmds) == 0 {
				v.status = subtleStyle.Render("nothing to upload")
				return a, nil
			}
			v.status = "uploading…"
			return a, tea.Batch(cmds...)
		case "enter":
			if flow.Pending() {
				return a, nil
			}
			if v.focus < len(v.inputs)-1 {
				v.focus = cycleFocus(v.inputs, v.focus, 1)
				return a, nil
			}
			if v.uploading > 0 {
				v.status = subtleStyle.Render("wait for uploads to finish")
				return a, nil
			}
			v.syncFields()
			// Anything missing blocks here with one aggregate message;
			// no network call is attempted.
			if err := flow.Begin(); err != nil {
				return a, nil
			}
			sub := flow.Submission()
			return a, func() tea.Msg { return kycDoneMsg{err: flow.Send(context.Background(), sub)} }
		}
	}

	return a, updateInputs(v.inputs, msg)
}

func (a App) renderKYC() string {
	v := a.kyc
	var b strings.Builder

	if sess := a.store.Session(); sess != nil && sess.User.KYCStatus == "verified" {
		b.WriteString(headerStyle.Render("Identity verification") + "\n\n")
		b.WriteString(okStyle.Render("● your identity is verified") + "\n")
		b.WriteString(subtleStyle.Render("profile details are locked after verification") + "\n")
		b.WriteString(helpStyle.Render("[esc] back"))
		return b.String()
	}

	b.WriteString(headerStyle.Render("Identity verification") + "\n\n")
	labels := []string{"", "", uploadedMark(v.flow.FrontID), uploadedMark(v.flow.BackID), uploadedMark(v.flow.SelfieID)}
	for i, in := range v.inputs {
		b.WriteString(in.View() + labels[i] + "\n")
	}

	if v.flow.Pending() {
		b.WriteString("\n" + a.spin.View() + " submitting…")
	}
	if v.status != "" {
		b.WriteString("\n" + v.status)
	}
	if line := errLine(v.flow.LastError()); line != "" {
		b.WriteString("\n" + line)
	}
	b.WriteString(helpStyle.Render("\n[ctrl+u] upload images   [enter] submit   [esc] back"))
	return b.String()
}

func uploadedMark(id string) string {
	if id == "" {
		return ""
	}
	return "  " + okStyle.Render("✓ uploaded")
}
