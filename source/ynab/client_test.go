package ynab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	contractx "github.com/moneylens/moneylens/adapter/contract"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		AccessToken:     "test-token",
		BudgetID:        "budget-1",
		BaseURL:         server.URL,
		RequestsPerHour: 1000000,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{BudgetID: "b"}); err == nil {
		t.Error("expected error without access token")
	}
	if _, err := NewClient(Config{AccessToken: "t"}); err == nil {
		t.Error("expected error without budget id")
	}
}

func TestListAccountsSendsBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"data":{"accounts":[
			{"id":"a1","name":"Checking","type":"checking","balance":1204553,"closed":false,"on_budget":true},
			{"id":"a2","name":"Old","type":"savings","balance":0,"closed":true,"on_budget":false}
		]}}`)
	})

	accounts, err := client.ListAccounts(context.Background())
	if err != nil {
		t.Fatalf("ListAccounts() error = %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotPath != "/budgets/budget-1/accounts" {
		t.Fatalf("path = %q", gotPath)
	}
	if len(accounts) != 2 {
		t.Fatalf("account count = %d", len(accounts))
	}
	if accounts[0].Balance != 1204553 || !accounts[1].Closed {
		t.Fatalf("accounts = %+v", accounts)
	}
}

func TestListTransactionsSinceDate(t *testing.T) {
	t.Parallel()

	var gotPath, gotSince string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSince = r.URL.Query().Get("since_date")
		fmt.Fprint(w, `{"data":{"transactions":[
			{"id":"t1","date":"2025-06-02","amount":-150000,"memo":"weekly run","account_id":"a1","payee_id":"p1","category_id":"c1"}
		]}}`)
	})

	// cross-month range cannot use the month endpoint
	hint := &contractx.DateRange{Start: "2025-05-28", End: "2025-06-02"}
	transactions, err := client.ListTransactions(context.Background(), hint)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if gotPath != "/budgets/budget-1/transactions" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotSince != "2025-05-28" {
		t.Fatalf("since_date = %q", gotSince)
	}
	if len(transactions) != 1 || transactions[0].Notes != "weekly run" {
		t.Fatalf("transactions = %+v", transactions)
	}
}

func TestListTransactionsMonthEndpoint(t *testing.T) {
	t.Parallel()

	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"data":{"transactions":[]}}`)
	})

	hint := &contractx.DateRange{Start: "2025-05-05", End: "2025-05-11"}
	if _, err := client.ListTransactions(context.Background(), hint); err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if gotPath != "/budgets/budget-1/months/2025-05-01/transactions" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestListTransactionsNoHint(t *testing.T) {
	t.Parallel()

	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"data":{"transactions":[]}}`)
	})

	if _, err := client.ListTransactions(context.Background(), nil); err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if gotQuery != "" {
		t.Fatalf("query = %q, want none", gotQuery)
	}
}

func TestListCategoriesFlattensGroups(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"category_groups":[
			{"id":"g1","name":"Everyday","categories":[{"id":"c1","name":"Groceries"},{"id":"c2","name":"Dining"}]},
			{"id":"g2","name":"Internal","categories":[{"id":"c3","name":"Starting Balance"}]}
		]}}`)
	})

	categories, err := client.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("category count = %d", len(categories))
	}
	if categories[2].Name != "Starting Balance" {
		t.Fatalf("categories = %+v", categories)
	}
}

func TestGetAccountCachesName(t *testing.T) {
	t.Parallel()

	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"data":{"account":{"id":"a1","name":"Checking","type":"checking","balance":10}}}`)
	})

	for i := 0; i < 3; i++ {
		acc, err := client.GetAccount(context.Background(), "a1")
		if err != nil {
			t.Fatalf("GetAccount() error = %v", err)
		}
		if acc.Name != "Checking" {
			t.Fatalf("account = %+v", acc)
		}
	}
	if calls != 1 {
		t.Fatalf("api calls = %d, want 1", calls)
	}
}

func TestNonSuccessStatusIsSourceError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"id":"401","name":"unauthorized"}}`)
	})

	_, err := client.ListAccounts(context.Background())
	if !errors.Is(err, contractx.ErrSource) {
		t.Fatalf("error = %v, want ErrSource", err)
	}
}
