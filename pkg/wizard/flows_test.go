package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vaultora-client/pkg/api"
	"github.com/vaultora-client/pkg/config"
	"github.com/vaultora-client/pkg/plans"
)

func testClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(srv.URL, time.Second, nil)
}

// ---- Registration ----

func fillRegistration(r *Registration) {
	r.Email = "jane@example.com"
	r.Password = "hunter22"
	r.ConfirmPassword = "hunter22"
	r.FirstName = "Jane"
	r.LastName = "Doe"
	r.Country = "DE"
}

func TestRegistrationPasswordMismatchBlocksSubmission(t *testing.T) {
	var calls int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	r := NewRegistration(client, "")
	fillRegistration(r)
	r.ConfirmPassword = "different"

	err := r.SubmitRegister(context.Background())
	if !errors.Is(err, errPasswordMismatch) {
		t.Fatalf("err = %v, want password mismatch", err)
	}
	if r.Current() != StepRegister {
		t.Error("verify step must be unreachable on mismatch")
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("validation failure must not reach the network")
	}
}

func TestRegistrationEmptyFieldBlocked(t *testing.T) {
	r := NewRegistration(nil, "")
	fillRegistration(r)
	r.Country = "  "
	if err := r.Begin(); !errors.Is(err, errFieldsRequired) {
		t.Errorf("err = %v, want fields required", err)
	}
}

func TestRegistrationHappyPath(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"userId":"u_42"}`))
	})
	mux.HandleFunc("/api/auth/verify-email", func(w http.ResponseWriter, r *http.Request) {
		var req api.VerifyEmailRequest
		if err := jsonDecode(r, &req); err != nil || req.UserID != "u_42" || req.Token != "123456" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"bad verification"}`))
			return
		}
		w.Write([]byte(`{"token":"sess-tok","user":{"id":"u_42","email":"jane@example.com"}}`))
	})
	client := testClient(t, mux)

	r := NewRegistration(client, "REF9")
	fillRegistration(r)

	if err := r.SubmitRegister(context.Background()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if r.Current() != StepVerify || r.Done() {
		t.Fatalf("after register: step=%s done=%v", r.Current(), r.Done())
	}
	if r.UserID() != "u_42" {
		t.Errorf("UserID = %q", r.UserID())
	}

	// Fields entered on step 1 survive the transition.
	if r.Email != "jane@example.com" {
		t.Error("register fields were dropped")
	}

	r.Code = "123456"
	if err := r.SubmitVerify(context.Background()); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !r.Done() {
		t.Error("verification success must complete the flow")
	}
	if sess := r.Session(); sess == nil || sess.Token != "sess-tok" {
		t.Errorf("Session = %+v", r.Session())
	}
}

func TestRegistrationBackReusesRegisteredAccount(t *testing.T) {
	var registerCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&registerCalls, 1)
		w.Write([]byte(`{"userId":"u_42"}`))
	})
	client := testClient(t, mux)

	r := NewRegistration(client, "")
	fillRegistration(r)
	if err := r.SubmitRegister(context.Background()); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Back and forward with unchanged fields reuses the created account.
	r.Back()
	if err := r.SubmitRegister(context.Background()); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if got := atomic.LoadInt32(&registerCalls); got != 1 {
		t.Errorf("register calls = %d, want the first account reused", got)
	}
	if r.Current() != StepVerify || r.UserID() != "u_42" {
		t.Errorf("step=%s userID=%q", r.Current(), r.UserID())
	}

	// A changed field means a different account; the call goes out again.
	r.Back()
	r.Email = "other@example.com"
	if err := r.SubmitRegister(context.Background()); err != nil {
		t.Fatalf("register with new email: %v", err)
	}
	if got := atomic.LoadInt32(&registerCalls); got != 2 {
		t.Errorf("register calls = %d, want a fresh call for changed fields", got)
	}
}

// ---- Deposit ----

func TestDepositEntryGating(t *testing.T) {
	d := NewDeposit(nil)
	d.Plan, _ = plans.ByID("starter")

	d.Token = ""
	d.AmountUSD = "500"
	if err := d.Next(); err == nil {
		t.Error("token selection must be required")
	}

	d.Token = config.TokenBTC
	d.AmountUSD = "abc"
	if err := d.Next(); err == nil {
		t.Error("non-numeric amount must be rejected")
	}
	if d.Current() != StepEntry {
		t.Errorf("failed gate moved to %s", d.Current())
	}

	d.AmountUSD = "25"
	if err := d.Next(); err == nil {
		t.Error("amount below plan minimum must be rejected")
	}

	d.AmountUSD = "500"
	if err := d.Next(); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}
	if d.Current() != StepPayment {
		t.Errorf("step = %s, want payment", d.Current())
	}
}

func TestDepositCryptoEquivalent(t *testing.T) {
	d := NewDeposit(nil)
	d.Token = config.TokenBTC
	d.AmountUSD = "500"
	d.SpotPrice = 98500

	if got := d.FormattedCryptoAmount(); got != "0.00507614" {
		t.Errorf("BTC equivalent = %q, want 0.00507614", got)
	}

	d.Token = config.TokenETH
	d.SpotPrice = 3200
	if got := d.FormattedCryptoAmount(); got != "0.156250" {
		t.Errorf("ETH equivalent = %q, want 0.156250", got)
	}
}

func TestDepositProjectedProfitNeverNaN(t *testing.T) {
	d := NewDeposit(nil)
	d.Plan, _ = plans.ByID("gold") // 10% daily, 21 periods
	d.AmountUSD = "abc"
	if got := d.ProjectedProfit(); got != 0 {
		t.Errorf("projected profit for junk input = %v, want 0", got)
	}
	d.AmountUSD = "1000"
	if got := d.ProjectedProfit(); got != 2100 {
		t.Errorf("projected profit = %v, want 2100", got)
	}
}

func TestDepositSubmitSingleFlight(t *testing.T) {
	var calls int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"id":"t1","type":"deposit","status":"pending"}`))
	}))

	d := NewDeposit(client)
	d.Token = config.TokenBTC
	d.AmountUSD = "500"
	d.SpotPrice = 98500
	if err := d.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	// Simulate the in-flight state of an async submission, then a second
	// rapid submit: exactly one network call happens.
	if err := d.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := d.SubmitDeposit(context.Background()); !errors.Is(err, ErrSubmissionInFlight) {
		t.Errorf("second submit = %v, want ErrSubmissionInFlight", err)
	}
	if err := d.DepositAction(context.Background()); err != nil {
		t.Fatalf("action: %v", err)
	}
	d.Finish(nil)

	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("network calls = %d, want exactly 1", calls)
	}
	if !d.Done() || d.Receipt() == nil || d.Receipt().ID != "t1" {
		t.Errorf("done=%v receipt=%+v", d.Done(), d.Receipt())
	}
}

func TestDepositSubmissionIsolatedFromEdits(t *testing.T) {
	release := make(chan struct{})
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req api.DepositRequest
		if err := jsonDecode(r, &req); err != nil || req.AmountUSD != 500 {
			t.Errorf("submitted amount = %v, want the value confirmed at submit time", req.AmountUSD)
		}
		<-release
		w.Write([]byte(`{"id":"t1","type":"deposit","status":"pending"}`))
	}))

	d := NewDeposit(client)
	d.Token = config.TokenBTC
	d.AmountUSD = "500"
	d.SpotPrice = 98500
	if err := d.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := d.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	req := d.Request()
	type result struct {
		tx  *api.Transaction
		err error
	}
	done := make(chan result, 1)
	go func() {
		tx, err := d.Send(context.Background(), req)
		done <- result{tx, err}
	}()

	// Price refreshes and keystrokes keep landing while the submission is
	// in flight; none of them may reach the payload.
	for i := 0; i < 50; i++ {
		d.AmountUSD = strconv.Itoa(1000 + i)
		d.SpotPrice = float64(90000 + i)
	}
	close(release)

	res := <-done
	d.Complete(res.tx, res.err)
	if res.err != nil {
		t.Fatalf("send: %v", res.err)
	}
	if !d.Done() || d.Receipt() == nil || d.Receipt().ID != "t1" {
		t.Errorf("done=%v receipt=%+v", d.Done(), d.Receipt())
	}
}

// ---- Withdrawal ----

func TestWithdrawalGating(t *testing.T) {
	w := NewWithdrawal(nil, 0)
	w.Amount = "100"
	err := w.Next()
	if !errors.Is(err, errInsufficientBalance) {
		t.Fatalf("err = %v, want insufficient balance", err)
	}
	if w.Current() != StepAmount {
		t.Error("address step must be unreachable with no balance")
	}

	w.Amount = "0"
	if err := w.Next(); err == nil {
		t.Error("zero amount must not proceed")
	}

	w2 := NewWithdrawal(nil, 250)
	w2.Amount = "100"
	if err := w2.Next(); err != nil {
		t.Fatalf("valid amount rejected: %v", err)
	}
	if err := w2.Begin(); err == nil {
		t.Error("confirmation must require a destination address")
	}
}

func TestWithdrawalBackPreservesFields(t *testing.T) {
	w := NewWithdrawal(nil, 1000)
	w.Amount = "400"
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	w.Address = "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"

	w.Back()
	if w.Current() != StepAmount {
		t.Fatalf("Back landed on %s", w.Current())
	}
	if w.Amount != "400" || w.Address == "" {
		t.Error("Back must preserve entered fields")
	}
	if err := w.Next(); err != nil {
		t.Fatalf("forward again: %v", err)
	}
}

func TestWithdrawalHappyPath(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req api.WithdrawRequest
		if err := jsonDecode(r, &req); err != nil || req.AmountUSD != 150 || req.Address == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"bad request"}`))
			return
		}
		w.Write([]byte(`{"id":"wd1","type":"withdrawal","status":"pending"}`))
	}))

	w := NewWithdrawal(client, 500)
	w.Amount = "150"
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	w.Address = "0xAbCd000000000000000000000000000000000000"
	if err := w.SubmitWithdraw(context.Background()); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if !w.Done() || w.Receipt() == nil || w.Receipt().ID != "wd1" {
		t.Errorf("done=%v receipt=%+v", w.Done(), w.Receipt())
	}
}

func TestWithdrawalSubmissionIsolatedFromEdits(t *testing.T) {
	const addr = "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"
	release := make(chan struct{})
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req api.WithdrawRequest
		if err := jsonDecode(r, &req); err != nil || req.AmountUSD != 150 || req.Address != addr {
			t.Errorf("submitted payload = %+v, want the values confirmed at submit time", req)
		}
		<-release
		w.Write([]byte(`{"id":"wd1","type":"withdrawal","status":"pending"}`))
	}))

	wd := NewWithdrawal(client, 500)
	wd.Amount = "150"
	if err := wd.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	wd.Address = addr
	if err := wd.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	req := wd.Request()
	type result struct {
		tx  *api.Transaction
		err error
	}
	done := make(chan result, 1)
	go func() {
		tx, err := wd.Send(context.Background(), req)
		done <- result{tx, err}
	}()

	for i := 0; i < 50; i++ {
		wd.Address = "edit" + strconv.Itoa(i)
		wd.Amount = strconv.Itoa(i)
	}
	close(release)

	res := <-done
	wd.Complete(res.tx, res.err)
	if res.err != nil {
		t.Fatalf("send: %v", res.err)
	}
	if !wd.Done() || wd.Receipt() == nil || wd.Receipt().ID != "wd1" {
		t.Errorf("done=%v receipt=%+v", wd.Done(), wd.Receipt())
	}
}

// ---- KYC ----

func TestKYCAggregateValidation(t *testing.T) {
	var calls int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	k := NewKYC(client)
	k.FullName = "Jane Doe"
	k.FrontID = "d1"

	err := k.SubmitKYC(context.Background())
	if err == nil {
		t.Fatal("incomplete KYC must be blocked")
	}
	// One aggregate message naming everything missing, not per-field errors.
	for _, want := range []string{"date of birth", "ID back image", "selfie image"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("aggregate error %q missing %q", err.Error(), want)
		}
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("blocked submission must not reach the network")
	}
}

func TestKYCHappyPath(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sub api.KYCSubmission
		if err := jsonDecode(r, &sub); err != nil || sub.FrontID != "d1" || sub.SelfieID != "d3" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"incomplete"}`))
			return
		}
		w.Write([]byte(`{}`))
	}))

	k := NewKYC(client)
	k.FullName = "Jane Doe"
	k.DateOfBirth = "1990-04-01"
	k.FrontID, k.BackID, k.SelfieID = "d1", "d2", "d3"

	if err := k.SubmitKYC(context.Background()); err != nil {
		t.Fatalf("SubmitKYC: %v", err)
	}
	if !k.Done() {
		t.Error("KYC flow should complete")
	}
}

// ---- Admin review ----

func pendingRequests() []api.KYCRequest {
	return []api.KYCRequest{
		{UserID: "u_1", FullName: "Jane Doe", Status: "pending"},
		{UserID: "u_2", FullName: "John Roe", Status: "pending"},
	}
}

func TestAdminApproveOptimisticMutation(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/kyc/u_1/approve" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{}`))
	}))

	a := NewAdminReview(client, pendingRequests())
	a.Selected = 0
	if err := a.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := a.SubmitApprove(context.Background()); err != nil {
		t.Fatalf("approve: %v", err)
	}
	// Locally marked verified before any refetch.
	if a.Requests[0].Status != "verified" {
		t.Errorf("status = %q, want verified", a.Requests[0].Status)
	}
	if a.PendingCount() != 1 {
		t.Errorf("pending = %d, want 1", a.PendingCount())
	}
}

func TestAdminRejectClearsReasonOnly(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	a := NewAdminReview(client, pendingRequests())
	a.Selected = 1
	if err := a.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	a.Reason = "document unreadable"
	if err := a.SubmitReject(context.Background()); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if a.Requests[1].Status != "rejected" {
		t.Errorf("status = %q", a.Requests[1].Status)
	}
	if a.Reason != "" {
		t.Error("completed reject must reset the reason field")
	}
	// Scoped reset: the rest of the local state survives.
	if a.Selected != 1 || len(a.Requests) != 2 {
		t.Error("reject reset more than the reason field")
	}

	a.Reopen()
	if a.Done() || a.Current() != StepPick {
		t.Errorf("Reopen: done=%v step=%s", a.Done(), a.Current())
	}
	// The reviewed request cannot be picked again.
	if err := a.Next(); err == nil {
		t.Error("already-reviewed request must not be reviewable")
	}
}

func TestAdminServerFailureKeepsFlowInteractive(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"admin session expired"}`))
	}))

	a := NewAdminReview(client, pendingRequests())
	a.Selected = 0
	a.Next()
	err := a.SubmitApprove(context.Background())
	if err == nil || err.Error() != "admin session expired" {
		t.Fatalf("err = %v", err)
	}
	if a.Done() || a.Pending() {
		t.Error("failure must leave the flow interactive for retry")
	}
	if a.Requests[0].Status != "pending" {
		t.Error("failed decision must not mutate the local list")
	}
	if a.LastError() != "admin session expired" {
		t.Errorf("LastError = %q", a.LastError())
	}
}

// helpers

func jsonDecode(r *http.Request, out interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
