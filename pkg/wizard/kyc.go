package wizard

import (
	"context"
	"errors"
	"strings"

	"github.com/vaultora-client/pkg/api"
)

const StepDetails Step = "details"

// KYC drives identity verification: a single step collecting full name,
// date of birth and three uploaded documents, then the submission. When
// anything is missing the submission is blocked client-side with one
// aggregate message — no network call is attempted.
type KYC struct {
	Flow

	FullName    string
	DateOfBirth string

	// Uploaded document ids, filled as each image upload completes.
	FrontID  string
	BackID   string
	SelfieID string

	client *api.Client
}

func NewKYC(client *api.Client) *KYC {
	k := &KYC{client: client}
	k.Flow = newFlow(
		[]Step{StepDetails},
		map[Step]Validator{StepDetails: k.validateDetails},
	)
	return k
}

func (k *KYC) validateDetails() error {
	var missing []string
	if strings.TrimSpace(k.FullName) == "" {
		missing = append(missing, "full name")
	}
	if strings.TrimSpace(k.DateOfBirth) == "" {
		missing = append(missing, "date of birth")
	}
	if k.FrontID == "" {
		missing = append(missing, "ID front image")
	}
	if k.BackID == "" {
		missing = append(missing, "ID back image")
	}
	if k.SelfieID == "" {
		missing = append(missing, "selfie image")
	}
	if len(missing) > 0 {
		return errors.New("missing: " + strings.Join(missing, ", "))
	}
	return nil
}

// Submission snapshots the payload. Built on the event loop so the
// editable fields are read before the submission leaves it.
func (k *KYC) Submission() api.KYCSubmission {
	return api.KYCSubmission{
		FullName:    strings.TrimSpace(k.FullName),
		DateOfBirth: strings.TrimSpace(k.DateOfBirth),
		FrontID:     k.FrontID,
		BackID:      k.BackID,
		SelfieID:    k.SelfieID,
	}
}

// Send posts a snapshotted submission. Safe off the event loop.
func (k *KYC) Send(ctx context.Context, sub api.KYCSubmission) error {
	return k.client.SubmitKYC(ctx, sub)
}

// SubmitAction is the synchronous terminal submission.
func (k *KYC) SubmitAction(ctx context.Context) error {
	return k.Send(ctx, k.Submission())
}

func (k *KYC) SubmitKYC(ctx context.Context) error {
	return k.Submit(ctx, k.SubmitAction)
}
