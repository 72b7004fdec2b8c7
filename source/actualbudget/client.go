// Package actualbudget implements the finance-source contract over a
// locally hosted Actual bridge server. Unlike YNAB's remote bearer-token
// API, Actual uses a password login that yields a session token.
package actualbudget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	contractx "github.com/moneylens/moneylens/adapter/contract"
)

const (
	// Actual amounts are centiunits: cents of a major unit.
	centiunitsPerMajor = 100

	accountNameCacheSize = 256
	accountNameCacheTTL  = 5 * time.Minute
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"http://localhost:5006"`
	Password           string        `envconfig:"PASSWORD" split_words:"true" required:"true"`
	EncryptionPassword string        `envconfig:"ENCRYPTION_PASSWORD" split_words:"true"`
	FileBudgetName     string        `envconfig:"FILE_BUDGET_NAME" split_words:"true" required:"true"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// Client holds an authenticated session against the Actual server for one
// budget file. The session token is obtained lazily and refreshed once when
// the server reports it expired.
type Client struct {
	baseURL            string
	password           string
	encryptionPassword string
	budgetName         string
	httpClient         *http.Client

	mu           sync.Mutex
	token        string
	accountNames *expirable.LRU[string, contractx.Account]
}

var _ contractx.FinanceSource = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("actual: base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("actual: invalid base url: %w", err)
	}
	if strings.TrimSpace(cfg.Password) == "" {
		return nil, fmt.Errorf("actual: password is required")
	}
	budgetName := strings.TrimSpace(cfg.FileBudgetName)
	if budgetName == "" {
		return nil, fmt.Errorf("actual: file budget name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:            strings.TrimRight(baseURL, "/"),
		password:           cfg.Password,
		encryptionPassword: cfg.EncryptionPassword,
		budgetName:         budgetName,
		httpClient:         &http.Client{Timeout: timeout},
		accountNames:       expirable.NewLRU[string, contractx.Account](accountNameCacheSize, nil, accountNameCacheTTL),
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

func (c *Client) Vendor() string { return "Actual" }

func (c *Client) MinorUnitsPerMajor() int64 { return centiunitsPerMajor }

func (c *Client) StartingBalanceSentinels() []string {
	return []string{"Starting Balances", "Starting Balance"}
}

func (c *Client) ListAccounts(ctx context.Context) ([]contractx.Account, error) {
	var resp accountsResponse
	if err := c.get(ctx, "/accounts", nil, &resp); err != nil {
		return nil, err
	}

	accounts := make([]contractx.Account, 0, len(resp.Data))
	for _, acc := range resp.Data {
		accounts = append(accounts, toAccount(acc))
	}
	return accounts, nil
}

func (c *Client) GetAccount(ctx context.Context, id string) (*contractx.Account, error) {
	if acc, ok := c.accountNames.Get(id); ok {
		return &acc, nil
	}

	var resp accountResponse
	if err := c.get(ctx, "/accounts/"+id, nil, &resp); err != nil {
		return nil, err
	}

	account := toAccount(resp.Data)
	c.accountNames.Add(id, account)
	return &account, nil
}

func (c *Client) ListTransactions(ctx context.Context, hint *contractx.DateRange) ([]contractx.Transaction, error) {
	query := url.Values{}
	if hint != nil {
		query.Set("since", hint.Start)
		query.Set("until", hint.End)
	}

	var resp transactionsResponse
	if err := c.get(ctx, "/transactions", query, &resp); err != nil {
		return nil, err
	}

	transactions := make([]contractx.Transaction, 0, len(resp.Data))
	for _, tx := range resp.Data {
		transactions = append(transactions, contractx.Transaction{
			ID:         tx.ID,
			Date:       tx.Date,
			PayeeID:    tx.Payee,
			CategoryID: tx.Category,
			AccountID:  tx.Account,
			Amount:     tx.Amount,
			Notes:      tx.Notes,
		})
	}
	return transactions, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]contractx.NamedItem, error) {
	var resp namedListResponse
	if err := c.get(ctx, "/categories", nil, &resp); err != nil {
		return nil, err
	}
	return toNamedItems(resp), nil
}

func (c *Client) ListPayees(ctx context.Context) ([]contractx.NamedItem, error) {
	var resp namedListResponse
	if err := c.get(ctx, "/payees", nil, &resp); err != nil {
		return nil, err
	}
	return toNamedItems(resp), nil
}

// get performs an authenticated GET under the budget file, logging in on
// first use and retrying once after a session expiry.
func (c *Client) get(ctx context.Context, path string, query url.Values, into any) error {
	token, err := c.sessionToken(ctx)
	if err != nil {
		return err
	}

	status, body, err := c.doGet(ctx, path, query, token)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		token, err = c.login(ctx)
		if err != nil {
			return err
		}
		status, body, err = c.doGet(ctx, path, query, token)
		if err != nil {
			return err
		}
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: actual api error: %d %s", contractx.ErrSource, status, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("%w: decode actual response: %v", contractx.ErrSource, err)
	}
	return nil
}

func (c *Client) doGet(ctx context.Context, path string, query url.Values, token string) (int, []byte, error) {
	endpoint := fmt.Sprintf("%s/budgets/%s%s", c.baseURL, url.PathEscape(c.budgetName), path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: build actual request: %v", contractx.ErrSource, err)
	}
	req.Header.Set("X-Actual-Token", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: call actual server: %v", contractx.ErrSource, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read actual response: %v", contractx.ErrSource, err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) sessionToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		return token, nil
	}
	return c.login(ctx)
}

func (c *Client) login(ctx context.Context) (string, error) {
	payload := loginRequest{
		Password:           c.password,
		EncryptionPassword: c.encryptionPassword,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal login payload: %v", contractx.ErrSource, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/account/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build login request: %v", contractx.ErrSource, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: actual login: %v", contractx.ErrSource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: actual login error: %d %s", contractx.ErrSource, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode login response: %v", contractx.ErrSource, err)
	}
	if decoded.Data.Token == "" {
		return "", fmt.Errorf("%w: actual login returned no session token", contractx.ErrSource)
	}

	c.mu.Lock()
	c.token = decoded.Data.Token
	c.mu.Unlock()
	return decoded.Data.Token, nil
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

func toNamedItems(resp namedListResponse) []contractx.NamedItem {
	items := make([]contractx.NamedItem, 0, len(resp.Data))
	for _, entry := range resp.Data {
		items = append(items, contractx.NamedItem{ID: entry.ID, Name: entry.Name})
	}
	return items
}
