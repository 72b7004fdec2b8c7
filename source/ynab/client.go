// Package ynab implements the finance-source contract over the YNAB v1
// bearer-token REST API.
package ynab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	contractx "github.com/moneylens/moneylens/adapter/contract"
)

const (
	// YNAB amounts are milliunits: one thousandth of a major unit.
	milliunitsPerMajor = 1000

	accountNameCacheSize = 256
	accountNameCacheTTL  = 5 * time.Minute
)

type Config struct {
	AccessToken     string        `envconfig:"ACCESS_TOKEN" split_words:"true" required:"true"`
	BudgetID        string        `envconfig:"BUDGET_ID" split_words:"true" required:"true"`
	BaseURL         string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.ynab.com/v1"`
	Timeout         time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	RequestsPerHour int           `envconfig:"REQUESTS_PER_HOUR" split_words:"true" default:"180"`
}

// Client talks to the YNAB API for one budget. Outbound calls share a rate
// limiter sized under YNAB's 200-requests-per-hour token limit, and account
// names are cached so per-transaction lookups don't burn quota.
type Client struct {
	baseURL      string
	token        string
	budgetID     string
	httpClient   *http.Client
	limiter      *rate.Limiter
	accountNames *expirable.LRU[string, contractx.Account]
}

var _ contractx.FinanceSource = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, fmt.Errorf("ynab: access token is required")
	}
	budgetID := strings.TrimSpace(cfg.BudgetID)
	if budgetID == "" {
		return nil, fmt.Errorf("ynab: budget id is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	perHour := cfg.RequestsPerHour
	if perHour <= 0 {
		perHour = 180
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		token:        token,
		budgetID:     budgetID,
		httpClient:   &http.Client{Timeout: timeout},
		limiter:      rate.NewLimiter(rate.Every(time.Hour/time.Duration(perHour)), 5),
		accountNames: expirable.NewLRU[string, contractx.Account](accountNameCacheSize, nil, accountNameCacheTTL),
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

func (c *Client) Vendor() string { return "YNAB" }

func (c *Client) MinorUnitsPerMajor() int64 { return milliunitsPerMajor }

func (c *Client) StartingBalanceSentinels() []string {
	return []string{"Starting Balance", "Starting Balances"}
}

func (c *Client) ListAccounts(ctx context.Context) ([]contractx.Account, error) {
	var resp accountsResponse
	if err := c.get(ctx, fmt.Sprintf("/budgets/%s/accounts", c.budgetID), nil, &resp); err != nil {
		return nil, err
	}

	accounts := make([]contractx.Account, 0, len(resp.Data.Accounts))
	for _, acc := range resp.Data.Accounts {
		accounts = append(accounts, toAccount(acc))
	}
	return accounts, nil
}

func (c *Client) GetAccount(ctx context.Context, id string) (*contractx.Account, error) {
	if acc, ok := c.accountNames.Get(id); ok {
		return &acc, nil
	}

	var resp accountResponse
	if err := c.get(ctx, fmt.Sprintf("/budgets/%s/accounts/%s", c.budgetID, id), nil, &resp); err != nil {
		return nil, err
	}

	account := toAccount(resp.Data.Account)
	c.accountNames.Add(id, account)
	return &account, nil
}

// ListTransactions narrows server-side where the API allows: a range inside
// one calendar month uses the month endpoint, otherwise since_date bounds
// the lower end. The upper bound is always enforced by the caller.
func (c *Client) ListTransactions(ctx context.Context, hint *contractx.DateRange) ([]contractx.Transaction, error) {
	path := fmt.Sprintf("/budgets/%s/transactions", c.budgetID)
	query := url.Values{}

	if hint != nil {
		if month, ok := monthOf(hint); ok {
			path = fmt.Sprintf("/budgets/%s/months/%s/transactions", c.budgetID, month)
		} else {
			query.Set("since_date", hint.Start)
		}
	}

	var resp transactionsResponse
	if err := c.get(ctx, path, query, &resp); err != nil {
		return nil, err
	}

	transactions := make([]contractx.Transaction, 0, len(resp.Data.Transactions))
	for _, tx := range resp.Data.Transactions {
		transactions = append(transactions, contractx.Transaction{
			ID:         tx.ID,
			Date:       tx.Date,
			PayeeID:    tx.PayeeID,
			CategoryID: tx.CategoryID,
			AccountID:  tx.AccountID,
			Amount:     tx.Amount,
			Notes:      tx.Memo,
		})
	}
	return transactions, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]contractx.NamedItem, error) {
	var resp categoriesResponse
	if err := c.get(ctx, fmt.Sprintf("/budgets/%s/categories", c.budgetID), nil, &resp); err != nil {
		return nil, err
	}

	var items []contractx.NamedItem
	for _, group := range resp.Data.CategoryGroups {
		for _, cat := range group.Categories {
			items = append(items, contractx.NamedItem{ID: cat.ID, Name: cat.Name})
		}
	}
	return items, nil
}

func (c *Client) ListPayees(ctx context.Context) ([]contractx.NamedItem, error) {
	var resp payeesResponse
	if err := c.get(ctx, fmt.Sprintf("/budgets/%s/payees", c.budgetID), nil, &resp); err != nil {
		return nil, err
	}

	items := make([]contractx.NamedItem, 0, len(resp.Data.Payees))
	for _, payee := range resp.Data.Payees {
		items = append(items, contractx.NamedItem{ID: payee.ID, Name: payee.Name})
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, into any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: ynab rate limit wait: %v", contractx.ErrSource, err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: build ynab request: %v", contractx.ErrSource, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: call ynab api: %v", contractx.ErrSource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: ynab api error: %d %s", contractx.ErrSource, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("%w: decode ynab response: %v", contractx.ErrSource, err)
	}
	return nil
}

func toAccount(acc wireAccount) contractx.Account {
	return contractx.Account{
		ID:       acc.ID,
		Name:     acc.Name,
		Type:     acc.Type,
		Balance:  acc.Balance,
		Closed:   acc.Closed,
		OnBudget: acc.OnBudget,
	}
}

// monthOf returns the YNAB month key (first of the month) when the whole
// range falls inside one calendar month.
func monthOf(hint *contractx.DateRange) (string, bool) {
	start, err := time.Parse(time.DateOnly, hint.Start)
	if err != nil {
		return "", false
	}
	end, err := time.Parse(time.DateOnly, hint.End)
	if err != nil {
		return "", false
	}
	if start.Year() != end.Year() || start.Month() != end.Month() {
		return "", false
	}
	return start.Format("2006-01") + "-01", true
}
