package actualbudget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	contractx "github.com/moneylens/moneylens/adapter/contract"
)

// fakeServer mimics the bridge: a login endpoint handing out tokens and
// budget-scoped data endpoints that check them.
type fakeServer struct {
	t          *testing.T
	token      string
	loginCalls int
	handler    func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/account/login" {
		f.loginCalls++
		var payload loginRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			f.t.Fatalf("decode login payload: %v", err)
		}
		if payload.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprintf(w, `{"data":{"token":%q}}`, f.token)
		return
	}

	if r.Header.Get("X-Actual-Token") != f.token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	f.handler(w, r)
}

func newTestClient(t *testing.T, fake *fakeServer) *Client {
	t.Helper()

	fake.t = t
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:        server.URL,
		Password:       "hunter2",
		FileBudgetName: "My Budget",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{BaseURL: "http://x", FileBudgetName: "b"}); err == nil {
		t.Error("expected error without password")
	}
	if _, err := NewClient(Config{BaseURL: "http://x", Password: "p"}); err == nil {
		t.Error("expected error without budget name")
	}
	if _, err := NewClient(Config{BaseURL: "::bad::", Password: "p", FileBudgetName: "b"}); err == nil {
		t.Error("expected error for invalid base url")
	}
}

func TestListAccountsLogsInOnce(t *testing.T) {
	t.Parallel()

	fake := &fakeServer{
		token: "session-1",
		handler: func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/budgets/My%20Budget/accounts" && r.URL.Path != "/budgets/My Budget/accounts" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprint(w, `{"data":[{"id":"a1","name":"Checking","balance":120455}]}`)
		},
	}
	client := newTestClient(t, fake)

	for i := 0; i < 2; i++ {
		accounts, err := client.ListAccounts(context.Background())
		if err != nil {
			t.Fatalf("ListAccounts() error = %v", err)
		}
		if len(accounts) != 1 || accounts[0].Balance != 120455 {
			t.Fatalf("accounts = %+v", accounts)
		}
	}
	if fake.loginCalls != 1 {
		t.Fatalf("login calls = %d, want 1", fake.loginCalls)
	}
}

func TestExpiredSessionRetriesLogin(t *testing.T) {
	t.Parallel()

	fake := &fakeServer{token: "session-1"}
	rotated := false
	fake.handler = func(w http.ResponseWriter, r *http.Request) {
		if !rotated {
			// expire the first session after it has been handed out
			rotated = true
			fake.token = "session-2"
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"data":[]}`)
	}
	client := newTestClient(t, fake)

	if _, err := client.ListPayees(context.Background()); err != nil {
		t.Fatalf("ListPayees() error = %v", err)
	}
	if fake.loginCalls != 2 {
		t.Fatalf("login calls = %d, want 2", fake.loginCalls)
	}
}

func TestListTransactionsRangeQuery(t *testing.T) {
	t.Parallel()

	var gotSince, gotUntil string
	fake := &fakeServer{
		token: "session-1",
		handler: func(w http.ResponseWriter, r *http.Request) {
			gotSince = r.URL.Query().Get("since")
			gotUntil = r.URL.Query().Get("until")
			fmt.Fprint(w, `{"data":[{"id":"t1","date":"2025-06-02","amount":-15000,"notes":"weekly run","account":"a1","payee":"p1","category":"c1"}]}`)
		},
	}
	client := newTestClient(t, fake)

	hint := &contractx.DateRange{Start: "2025-06-02", End: "2025-06-09"}
	transactions, err := client.ListTransactions(context.Background(), hint)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if gotSince != "2025-06-02" || gotUntil != "2025-06-09" {
		t.Fatalf("since = %q, until = %q", gotSince, gotUntil)
	}
	if len(transactions) != 1 || transactions[0].PayeeID != "p1" {
		t.Fatalf("transactions = %+v", transactions)
	}
}

func TestServerErrorIsSourceError(t *testing.T) {
	t.Parallel()

	fake := &fakeServer{
		token: "session-1",
		handler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, "budget file is locked")
		},
	}
	client := newTestClient(t, fake)

	_, err := client.ListCategories(context.Background())
	if !errors.Is(err, contractx.ErrSource) {
		t.Fatalf("error = %v, want ErrSource", err)
	}
}

func TestVendorConstants(t *testing.T) {
	t.Parallel()

	client := &Client{}
	if client.Vendor() != "Actual" {
		t.Fatalf("Vendor() = %q", client.Vendor())
	}
	if client.MinorUnitsPerMajor() != 100 {
		t.Fatalf("MinorUnitsPerMajor() = %d", client.MinorUnitsPerMajor())
	}
	sentinels := client.StartingBalanceSentinels()
	if len(sentinels) != 2 || sentinels[0] != "Starting Balances" {
		t.Fatalf("sentinels = %v", sentinels)
	}
}
