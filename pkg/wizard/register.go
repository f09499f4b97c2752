package wizard

import (
	"context"
	"errors"
	"strings"

	"github.com/vaultora-client/pkg/api"
)

const (
	StepRegister Step = "register"
	StepVerify   Step = "verify"
)

var (
	errPasswordMismatch = errors.New("passwords do not match")
	errFieldsRequired   = errors.New("all fields are required")
)

// Registration drives signup: register → verify → done. The register step's
// submission is the account-creation call (it captures the user id the
// verify step needs); the verify step exchanges the emailed token for a
// session.
type Registration struct {
	Flow

	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Country         string
	ReferrerID      string

	Code string // emailed verification token

	userID    string
	submitted api.RegisterRequest // payload of the last successful register call
	session   *api.AuthResponse

	client *api.Client
}

func NewRegistration(client *api.Client, referrerID string) *Registration {
	r := &Registration{client: client, ReferrerID: referrerID}
	r.Flow = newFlow(
		[]Step{StepRegister, StepVerify},
		map[Step]Validator{
			StepRegister: r.validateRegister,
			StepVerify:   r.validateVerify,
		},
	)
	return r
}

func (r *Registration) validateRegister() error {
	for _, v := range []string{r.Email, r.Password, r.ConfirmPassword, r.FirstName, r.LastName, r.Country} {
		if strings.TrimSpace(v) == "" {
			return errFieldsRequired
		}
	}
	if r.Password != r.ConfirmPassword {
		return errPasswordMismatch
	}
	return nil
}

func (r *Registration) validateVerify() error {
	if strings.TrimSpace(r.Code) == "" {
		return errors.New("verification code is required")
	}
	return nil
}

// RegisterRequest snapshots the register payload. Built on the event loop
// so the editable fields are read before the submission leaves it.
func (r *Registration) RegisterRequest() api.RegisterRequest {
	return api.RegisterRequest{
		Email:      strings.TrimSpace(r.Email),
		Password:   r.Password,
		FirstName:  strings.TrimSpace(r.FirstName),
		LastName:   strings.TrimSpace(r.LastName),
		Country:    strings.TrimSpace(r.Country),
		ReferrerID: r.ReferrerID,
	}
}

// Registered reports whether the register step already succeeded for the
// current field values. A back-and-forward pass with unchanged fields
// reuses the captured user id instead of creating a second account.
func (r *Registration) Registered() bool {
	return r.userID != "" && r.RegisterRequest() == r.submitted
}

// SendRegister posts a snapshotted register request. Safe off the event
// loop: it touches only the client and its argument.
func (r *Registration) SendRegister(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	return r.client.Register(ctx, req)
}

// CompleteRegister records the register outcome, back on the event loop.
func (r *Registration) CompleteRegister(req api.RegisterRequest, resp *api.RegisterResponse, err error) {
	if err == nil {
		r.userID = resp.UserID
		r.submitted = req
	}
	r.Finish(err)
}

// RegisterAction is the register step's synchronous network call. An
// already-registered, unchanged payload is a no-op.
func (r *Registration) RegisterAction(ctx context.Context) error {
	if r.Registered() {
		return nil
	}
	req := r.RegisterRequest()
	resp, err := r.SendRegister(ctx, req)
	if err != nil {
		return err
	}
	r.userID = resp.UserID
	r.submitted = req
	return nil
}

// VerifyRequest snapshots the verification payload.
func (r *Registration) VerifyRequest() api.VerifyEmailRequest {
	return api.VerifyEmailRequest{
		UserID: r.userID,
		Token:  strings.TrimSpace(r.Code),
	}
}

// SendVerify exchanges a snapshotted verification request for a session.
// Safe off the event loop.
func (r *Registration) SendVerify(ctx context.Context, req api.VerifyEmailRequest) (*api.AuthResponse, error) {
	return r.client.VerifyEmail(ctx, req)
}

// CompleteVerify records the terminal outcome, back on the event loop. On
// success the issued session is available from Session.
func (r *Registration) CompleteVerify(resp *api.AuthResponse, err error) {
	if err == nil {
		r.session = resp
	}
	r.Finish(err)
}

// VerifyAction is the synchronous terminal submission.
func (r *Registration) VerifyAction(ctx context.Context) error {
	resp, err := r.SendVerify(ctx, r.VerifyRequest())
	if err != nil {
		return err
	}
	r.session = resp
	return nil
}

// SubmitRegister runs the register step synchronously.
func (r *Registration) SubmitRegister(ctx context.Context) error {
	return r.Submit(ctx, r.RegisterAction)
}

// SubmitVerify runs the verify step synchronously.
func (r *Registration) SubmitVerify(ctx context.Context) error {
	return r.Submit(ctx, r.VerifyAction)
}

// Session returns the auth session issued on successful verification, nil
// before completion.
func (r *Registration) Session() *api.AuthResponse { return r.session }

// UserID returns the id issued by the register step.
func (r *Registration) UserID() string { return r.userID }
