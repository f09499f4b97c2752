package wizard

import (
	"context"
	"errors"
	"strings"

	"github.com/vaultora-client/pkg/api"
)

const (
	StepPick   Step = "pick"
	StepDecide Step = "decide"
)

// AdminReview drives the KYC review queue: pick a pending request, then
// approve or reject it. On success the local list is mutated optimistically
// before any server refetch, so the queue reflects the decision
// immediately. Reopen rearms the flow for the next request; a completed
// reject clears only the reason field, nothing else.
type AdminReview struct {
	Flow

	Requests []api.KYCRequest
	Selected int
	Reason   string

	client *api.Client
}

func NewAdminReview(client *api.Client, requests []api.KYCRequest) *AdminReview {
	a := &AdminReview{client: client, Requests: requests}
	a.Flow = newFlow(
		[]Step{StepPick, StepDecide},
		map[Step]Validator{
			StepPick:   a.validatePick,
			StepDecide: a.validatePick, // the decision still needs a valid selection
		},
	)
	return a
}

func (a *AdminReview) validatePick() error {
	if a.Selected < 0 || a.Selected >= len(a.Requests) {
		return errors.New("select a request to review")
	}
	if a.Requests[a.Selected].Status != "pending" {
		return errors.New("request already reviewed")
	}
	return nil
}

// Request returns the currently selected request, nil when out of range.
func (a *AdminReview) Request() *api.KYCRequest {
	if a.Selected < 0 || a.Selected >= len(a.Requests) {
		return nil
	}
	return &a.Requests[a.Selected]
}

// SendApprove posts an approval for a snapshotted user id. Safe off the
// event loop: it touches only the client and its arguments.
func (a *AdminReview) SendApprove(ctx context.Context, userID string) error {
	return a.client.ApproveKYC(ctx, userID)
}

// SendReject posts a rejection for a snapshotted user id and reason. Safe
// off the event loop.
func (a *AdminReview) SendReject(ctx context.Context, userID, reason string) error {
	return a.client.RejectKYC(ctx, userID, strings.TrimSpace(reason))
}

// CompleteApprove records the outcome, back on the event loop: on success
// the selected request is optimistically marked verified.
func (a *AdminReview) CompleteApprove(err error) {
	if err == nil {
		a.Request().Status = "verified"
	}
	a.Finish(err)
}

// CompleteReject mirrors CompleteApprove and additionally resets the
// reason field — the one scoped field reset in the flow.
func (a *AdminReview) CompleteReject(err error) {
	if err == nil {
		a.Request().Status = "rejected"
		a.Reason = ""
	}
	a.Finish(err)
}

// ApproveAction is the synchronous approval.
func (a *AdminReview) ApproveAction(ctx context.Context) error {
	req := a.Request()
	if err := a.SendApprove(ctx, req.UserID); err != nil {
		return err
	}
	req.Status = "verified"
	return nil
}

// RejectAction is the synchronous rejection with the entered reason.
func (a *AdminReview) RejectAction(ctx context.Context) error {
	req := a.Request()
	if err := a.SendReject(ctx, req.UserID, a.Reason); err != nil {
		return err
	}
	req.Status = "rejected"
	a.Reason = ""
	return nil
}

func (a *AdminReview) SubmitApprove(ctx context.Context) error {
	return a.Submit(ctx, a.ApproveAction)
}

func (a *AdminReview) SubmitReject(ctx context.Context) error {
	return a.Submit(ctx, a.RejectAction)
}

// Reopen rearms a completed flow to review the next request. The local
// list with its optimistic mutations is preserved.
func (a *AdminReview) Reopen() {
	a.done = false
	a.idx = 0
	a.pending = false
	a.lastErr = ""
}

// PendingCount counts requests still awaiting a decision.
func (a *AdminReview) PendingCount() int {
	n := 0
	for _, r := range a.Requests {
		if r.Status == "pending" {
			n++
		}
	}
	return n
}
