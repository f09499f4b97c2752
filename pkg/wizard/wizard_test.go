package wizard

import (
	"context"
	"errors"
	"testing"
)

func twoStepFlow(gate *error) *Flow {
	f := newFlow(
		[]Step{"one", "two"},
		map[Step]Validator{
			"one": func() error { return *gate },
		},
	)
	return &f
}

func TestNextGatedByValidation(t *testing.T) {
	gate := errors.New("field missing")
	f := twoStepFlow(&gate)

	if err := f.Next(); !errors.Is(err, gate) {
		t.Fatalf("Next = %v, want validation error", err)
	}
	if f.Current() != "one" {
		t.Errorf("failed transition moved the step to %s", f.Current())
	}
	if f.LastError() != "field missing" {
		t.Errorf("LastError = %q, want the validation message surfaced", f.LastError())
	}

	gate = nil
	if err := f.Next(); err != nil {
		t.Fatalf("Next after validation passes: %v", err)
	}
	if f.Current() != "two" || f.LastError() != "" {
		t.Errorf("state after advance: step=%s err=%q", f.Current(), f.LastError())
	}
}

func TestNextOnTerminalStep(t *testing.T) {
	var gate error
	f := twoStepFlow(&gate)
	f.Next()
	if err := f.Next(); !errors.Is(err, errTerminal) {
		t.Errorf("Next on terminal step = %v, want errTerminal", err)
	}
	if f.LastError() == "" {
		t.Error("rejected terminal advance must surface a message like any other rejection")
	}
}

func TestBackClearsFlightStateOnly(t *testing.T) {
	var gate error
	f := twoStepFlow(&gate)
	f.Next()
	if err := f.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	f.Back()
	if f.Current() != "one" {
		t.Errorf("Back landed on %s", f.Current())
	}
	if f.Pending() || f.LastError() != "" {
		t.Error("Back must discard pending flag and last error")
	}

	// Back on the first step stays put.
	f.Back()
	if f.Current() != "one" {
		t.Errorf("Back on first step moved to %s", f.Current())
	}
}

func TestDoubleSubmitGuard(t *testing.T) {
	var gate error
	f := twoStepFlow(&gate)
	f.Next()

	if err := f.Begin(); err != nil {
		t.Fatalf("first Begin: %v", err)
	}
	if err := f.Begin(); !errors.Is(err, ErrSubmissionInFlight) {
		t.Errorf("second Begin = %v, want ErrSubmissionInFlight", err)
	}
	if err := f.Next(); !errors.Is(err, ErrSubmissionInFlight) {
		t.Errorf("Next while pending = %v, want ErrSubmissionInFlight", err)
	}

	calls := 0
	err := f.Submit(context.Background(), func(context.Context) error { calls++; return nil })
	if !errors.Is(err, ErrSubmissionInFlight) || calls != 0 {
		t.Errorf("Submit while pending ran the action (err=%v calls=%d)", err, calls)
	}
}

func TestFinishOutcomes(t *testing.T) {
	var gate error
	f := twoStepFlow(&gate)

	// Mid-flow submission advances.
	f.Begin()
	f.Finish(nil)
	if f.Current() != "two" || f.Done() {
		t.Fatalf("after mid-flow success: step=%s done=%v", f.Current(), f.Done())
	}

	// Terminal failure stays, surfaces the message, re-enables.
	f.Begin()
	f.Finish(errors.New("server said no"))
	if f.Done() || f.Pending() {
		t.Error("failed terminal submission must stay interactive")
	}
	if f.LastError() != "server said no" {
		t.Errorf("LastError = %q", f.LastError())
	}

	// Retry succeeds → done.
	if err := f.Begin(); err != nil {
		t.Fatalf("retry Begin: %v", err)
	}
	f.Finish(nil)
	if !f.Done() {
		t.Error("terminal success must complete the flow")
	}
	if err := f.Begin(); !errors.Is(err, ErrCompleted) {
		t.Errorf("Begin after done = %v, want ErrCompleted", err)
	}
}

func TestSubmitRunsActionOnce(t *testing.T) {
	var gate error
	f := twoStepFlow(&gate)
	f.Next()

	calls := 0
	err := f.Submit(context.Background(), func(context.Context) error { calls++; return nil })
	if err != nil || calls != 1 || !f.Done() {
		t.Errorf("Submit: err=%v calls=%d done=%v", err, calls, f.Done())
	}
}
