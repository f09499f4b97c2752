package wizard

import (
	"context"
	"errors"
)

// ── Multi-Step Flow Core ────────────────────────────────────
// Every transactional flow in the client (registration, deposit,
// withdrawal, KYC, admin review) is a short linear sequence of named steps
// gated by per-step validation, ending in one network call. The flow runs
// on a single event loop: the in-flight flag is advisory, it only guards
// against double-submit within this instance.

type Step string

var (
	// ErrSubmissionInFlight guards against double-submit: a second Begin
	// while a submission is pending performs no work and no network call.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	// ErrCompleted rejects further transitions on a finished flow.
	ErrCompleted = errors.New("flow already completed")
	errTerminal  = errors.New("terminal step: submit instead of advancing")
)

// Validator checks the current step's fields. A nil validator passes.
type Validator func() error

// Flow is the step machine embedded by each concrete wizard. Transitions
// are forward-only except Back, which always succeeds, discards the
// in-flight flag and last error, and preserves entered fields.
type Flow struct {
	steps    []Step
	validate map[Step]Validator

	idx     int
	pending bool
	lastErr string
	done    bool
}

func newFlow(steps []Step, validate map[Step]Validator) Flow {
	return Flow{steps: steps, validate: validate}
}

func (f *Flow) Current() Step     { return f.steps[f.idx] }
func (f *Flow) Pending() bool     { return f.pending }
func (f *Flow) Done() bool        { return f.done }
func (f *Flow) LastError() string { return f.lastErr }

// OnStep reports whether the flow currently shows the given step.
func (f *Flow) OnStep(s Step) bool { return f.steps[f.idx] == s }

func (f *Flow) terminal() bool { return f.idx == len(f.steps)-1 }

func (f *Flow) check() error {
	if v := f.validate[f.Current()]; v != nil {
		return v()
	}
	return nil
}

// Next advances to the following step after validation. A failed
// validation leaves the step unchanged and surfaces the message; input is
// never silently dropped.
func (f *Flow) Next() error {
	if f.done {
		return ErrCompleted
	}
	if f.pending {
		return ErrSubmissionInFlight
	}
	if err := f.check(); err != nil {
		f.lastErr = err.Error()
		return err
	}
	if f.terminal() {
		f.lastErr = errTerminal.Error()
		return errTerminal
	}
	f.idx++
	f.lastErr = ""
	return nil
}

// Back returns to the previous step. Entered fields survive so a user who
// goes back and forward again sees their prior input.
func (f *Flow) Back() {
	if f.idx > 0 {
		f.idx--
	}
	f.pending = false
	f.lastErr = ""
}

// Begin validates the current step and acquires the in-flight flag. The
// caller runs the network call (typically async) and reports the outcome
// through Finish.
func (f *Flow) Begin() error {
	if f.done {
		return ErrCompleted
	}
	if f.pending {
		return ErrSubmissionInFlight
	}
	if err := f.check(); err != nil {
		f.lastErr = err.Error()
		return err
	}
	f.pending = true
	f.lastErr = ""
	return nil
}

// Finish releases the in-flight flag. On success the flow advances — or
// completes when the submission belonged to the terminal step. On failure
// it stays where it is with the error surfaced, ready for a retry.
func (f *Flow) Finish(err error) {
	f.pending = false
	if err != nil {
		f.lastErr = err.Error()
		return
	}
	f.lastErr = ""
	if f.terminal() {
		f.done = true
		return
	}
	f.idx++
}

// Submit is the synchronous Begin/action/Finish convenience.
func (f *Flow) Submit(ctx context.Context, action func(ctx context.Context) error) error {
	if err := f.Begin(); err != nil {
		return err
	}
	err := action(ctx)
	f.Finish(err)
	return err
}
